package market

import (
	"fmt"

	"financer/internal/models"
)

// State names where the stocks feed is in its fetch lifecycle.
type State string

const (
	// Idle is the initial state, before anything has been requested.
	Idle State = "idle"
	// FetchingInitial means the first page is in flight.
	FetchingInitial State = "fetching_initial"
	// Ready means a list is loaded and no fetch is in flight.
	Ready State = "ready"
	// FetchingMore means a continuation page is in flight.
	FetchingMore State = "fetching_more"
	// Filtering is Ready with a local search term applied. It is a pure,
	// non-network state: entering and leaving it never touches the cursor.
	Filtering State = "filtering"
)

// TransitionError reports a feed operation attempted in the wrong state.
type TransitionError struct {
	From State
	Op   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("market feed: cannot %s while %s", e.Op, e.From)
}

// Feed holds the client-side view of the paginated stocks feed: the
// instruments loaded so far, the continuation cursor, and the current sort
// and search selections. It is synchronous and not safe for concurrent use;
// the caller sequences fetches and ensures only one is in flight, which the
// state guards here then enforce.
type Feed struct {
	state       State
	instruments []models.Instrument
	cursor      models.FetchCursor
	searchTerm  string
	sortKey     SortKey
	sortOrder   SortOrder
}

// NewFeed returns an idle feed that will request limit instruments per
// fetch, sorted by price descending until the consumer says otherwise.
func NewFeed(limit int) (*Feed, error) {
	cursor, err := models.NewFetchCursor(limit)
	if err != nil {
		return nil, err
	}
	return &Feed{
		state:     Idle,
		cursor:    cursor,
		sortKey:   SortByPrice,
		sortOrder: Descending,
	}, nil
}

// State returns the current lifecycle state.
func (f *Feed) State() State { return f.state }

// Cursor returns the continuation state to use for the next fetch.
func (f *Feed) Cursor() models.FetchCursor { return f.cursor }

// HasMore reports whether a continuation fetch would return anything.
// While a search term is active it always reports false: searching filters
// the loaded list only and must never trigger network pagination.
func (f *Feed) HasMore() bool {
	if f.searchTerm != "" {
		return false
	}
	return f.cursor.HasMore
}

// BeginFetch marks a fetch as in flight and returns the cursor to request.
// From Idle it starts the initial load; from Ready it starts a continuation,
// refused when the cursor is exhausted or a search term is active. Any other
// state means a fetch is already in flight.
func (f *Feed) BeginFetch() (models.FetchCursor, error) {
	switch f.state {
	case Idle:
		f.state = FetchingInitial
		return f.cursor, nil
	case Ready:
		if !f.cursor.HasMore {
			return models.FetchCursor{}, &TransitionError{From: f.state, Op: "fetch more past the end"}
		}
		f.state = FetchingMore
		return f.cursor, nil
	case Filtering:
		return models.FetchCursor{}, &TransitionError{From: f.state, Op: "fetch more while filtering"}
	default:
		return models.FetchCursor{}, &TransitionError{From: f.state, Op: "start a second fetch"}
	}
}

// ApplyBatch completes an in-flight fetch: the initial batch replaces the
// list, a continuation batch is appended, and the cursor advances by the
// number of instruments received.
func (f *Feed) ApplyBatch(batch models.StockBatch) error {
	switch f.state {
	case FetchingInitial:
		f.instruments = MergeBatch(nil, batch.Data, false)
	case FetchingMore:
		f.instruments = MergeBatch(f.instruments, batch.Data, true)
	default:
		return &TransitionError{From: f.state, Op: "apply a batch"}
	}

	f.cursor.Skip += len(batch.Data)
	f.cursor.HasMore = batch.HasMore
	f.cursor.TotalCount = batch.TotalCount
	f.state = Ready
	return nil
}

// FetchFailed abandons an in-flight fetch, leaving the list and cursor as
// they were so the caller can retry.
func (f *Feed) FetchFailed() error {
	switch f.state {
	case FetchingInitial:
		f.state = Idle
	case FetchingMore:
		f.state = Ready
	default:
		return &TransitionError{From: f.state, Op: "fail a fetch"}
	}
	return nil
}

// SetSearch applies or clears the local search term. A non-empty term moves
// Ready to Filtering, an empty one back; the loaded list and cursor are
// untouched either way. Changing the term mid-fetch is refused so a landing
// batch cannot race the filter policy.
func (f *Feed) SetSearch(term string) error {
	switch f.state {
	case Ready, Filtering:
	default:
		return &TransitionError{From: f.state, Op: "change the search term"}
	}
	f.searchTerm = term
	if term == "" {
		f.state = Ready
	} else {
		f.state = Filtering
	}
	return nil
}

// ToggleSort applies the header-click rule to the feed's sort selection.
func (f *Feed) ToggleSort(clicked SortKey) {
	f.sortKey, f.sortOrder = NextSort(f.sortKey, f.sortOrder, clicked)
}

// Sort returns the current sort selection.
func (f *Feed) Sort() (SortKey, SortOrder) { return f.sortKey, f.sortOrder }

// Instruments returns all loaded instruments in arrival order.
func (f *Feed) Instruments() []models.Instrument {
	out := make([]models.Instrument, len(f.instruments))
	copy(out, f.instruments)
	return out
}

// Visible returns the instruments the consumer should render: the loaded
// list filtered by the search term, then sorted by the current selection.
func (f *Feed) Visible() []models.Instrument {
	return SortInstruments(SearchFilter(f.instruments, f.searchTerm), f.sortKey, f.sortOrder)
}
