package models

// Instrument is one market listing as returned by the upstream data source.
// Symbol is the only identity within a batch; it stays stable across
// re-fetches when the upstream repeats it. Volume is a pointer because the
// upstream omits it for some indices.
type Instrument struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	ChangePercent float64   `json:"change_percent"`
	Volume        *int64    `json:"volume,omitempty"`
	Historical    []float64 `json:"historical,omitempty"`
}

// Validate rejects non-finite numeric fields from the upstream payload.
func (in *Instrument) Validate() error {
	if in.Symbol == "" {
		return &InvalidInputError{Field: "symbol", Reason: "must not be empty"}
	}
	if err := requireFinite("price", in.Price); err != nil {
		return err
	}
	return requireFinite("change_percent", in.ChangePercent)
}

// StockBatch is the data contract of the upstream market endpoint:
// one page of instruments plus continuation info.
type StockBatch struct {
	Data       []Instrument `json:"data"`
	HasMore    bool         `json:"has_more"`
	TotalCount int          `json:"total_count"`
}

// FetchCursor tracks continuation against the upstream source. The core only
// advances it per received batch; performing the fetch is the caller's job.
type FetchCursor struct {
	Skip       int  `json:"skip"`
	Limit      int  `json:"limit"`
	HasMore    bool `json:"has_more"`
	TotalCount int  `json:"total_count"`
}

// NewFetchCursor returns a cursor positioned at the start of the feed.
func NewFetchCursor(limit int) (FetchCursor, error) {
	if err := requirePositiveInt("limit", limit); err != nil {
		return FetchCursor{}, err
	}
	return FetchCursor{Limit: limit, HasMore: true}, nil
}

// PageWindow is a client-side page selection over an already-loaded list.
type PageWindow struct {
	PageNumber   int `json:"page_number"`
	ItemsPerPage int `json:"items_per_page"`
}

// Validate checks the window parameters.
func (w PageWindow) Validate() error {
	if w.PageNumber < 1 {
		return &InvalidInputError{Field: "page_number", Reason: "must be at least 1"}
	}
	return requirePositiveInt("items_per_page", w.ItemsPerPage)
}
