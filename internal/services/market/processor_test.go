package market

import (
	"testing"

	"financer/internal/models"
)

func ins(symbol string, price, change float64) models.Instrument {
	return models.Instrument{Symbol: symbol, Name: symbol + " Ltd", Price: price, ChangePercent: change}
}

func symbols(list []models.Instrument) []string {
	out := make([]string, len(list))
	for i, in := range list {
		out[i] = in.Symbol
	}
	return out
}

func equalSymbols(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMergeBatch(t *testing.T) {
	existing := []models.Instrument{ins("TCS", 3500, 1.2), ins("INFY", 1450, -0.4)}
	incoming := []models.Instrument{ins("WIPRO", 420, 0.9), ins("INFY", 1450, -0.4)}

	appended := MergeBatch(existing, incoming, true)
	if !equalSymbols(symbols(appended), []string{"TCS", "INFY", "WIPRO", "INFY"}) {
		t.Errorf("append merge = %v", symbols(appended))
	}

	replaced := MergeBatch(existing, incoming, false)
	if !equalSymbols(symbols(replaced), []string{"WIPRO", "INFY"}) {
		t.Errorf("replace merge = %v", symbols(replaced))
	}

	// Inputs untouched.
	if len(existing) != 2 || existing[0].Symbol != "TCS" {
		t.Error("MergeBatch mutated existing")
	}
}

func TestSortInstruments(t *testing.T) {
	list := []models.Instrument{
		ins("A", 100, -2),
		ins("B", 300, 0),
		ins("C", 200, 5),
	}

	tests := []struct {
		name   string
		key    SortKey
		order  SortOrder
		expect []string
	}{
		{"price desc", SortByPrice, Descending, []string{"B", "C", "A"}},
		{"price asc", SortByPrice, Ascending, []string{"A", "C", "B"}},
		{"change desc", SortByChange, Descending, []string{"C", "B", "A"}},
		{"change asc", SortByChange, Ascending, []string{"A", "B", "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SortInstruments(list, tt.key, tt.order)
			if !equalSymbols(symbols(got), tt.expect) {
				t.Errorf("got %v, want %v", symbols(got), tt.expect)
			}
		})
	}

	if list[0].Symbol != "A" {
		t.Error("SortInstruments mutated its input")
	}
}

func TestSortInstrumentsStable(t *testing.T) {
	// Pre-sorted by symbol; sorting by an all-tied primary key must keep
	// that secondary order in both directions.
	list := []models.Instrument{
		ins("AAA", 100, 1.5),
		ins("BBB", 100, 1.5),
		ins("CCC", 100, 1.5),
		ins("DDD", 100, 1.5),
	}
	for _, order := range []SortOrder{Ascending, Descending} {
		got := SortInstruments(list, SortByPrice, order)
		if !equalSymbols(symbols(got), []string{"AAA", "BBB", "CCC", "DDD"}) {
			t.Errorf("order %q shuffled tied rows: %v", order, symbols(got))
		}
	}

	// Mixed ties: equal prices keep relative input order.
	mixed := []models.Instrument{
		ins("X1", 200, 0),
		ins("Y1", 100, 0),
		ins("X2", 200, 0),
		ins("Y2", 100, 0),
	}
	got := SortInstruments(mixed, SortByPrice, Descending)
	if !equalSymbols(symbols(got), []string{"X1", "X2", "Y1", "Y2"}) {
		t.Errorf("tied groups reordered: %v", symbols(got))
	}
}

func TestNextSort(t *testing.T) {
	key, order := NextSort(SortByPrice, Descending, SortByPrice)
	if key != SortByPrice || order != Ascending {
		t.Errorf("same key should flip: got %q %q", key, order)
	}
	key, order = NextSort(SortByPrice, Ascending, SortByPrice)
	if key != SortByPrice || order != Descending {
		t.Errorf("same key should flip back: got %q %q", key, order)
	}
	key, order = NextSort(SortByPrice, Ascending, SortByChange)
	if key != SortByChange || order != Descending {
		t.Errorf("new key should reset to descending: got %q %q", key, order)
	}
}

func TestNextSortScenario(t *testing.T) {
	// Spec scenario: change desc orders [5, 0, -2]; toggling "change" again
	// flips to asc, [-2, 0, 5].
	list := []models.Instrument{ins("A", 1, -2), ins("B", 1, 0), ins("C", 1, 5)}

	key, order := NextSort(SortByPrice, Descending, SortByChange)
	got := SortInstruments(list, key, order)
	if !equalSymbols(symbols(got), []string{"C", "B", "A"}) {
		t.Fatalf("change desc = %v", symbols(got))
	}

	key, order = NextSort(key, order, SortByChange)
	got = SortInstruments(list, key, order)
	if !equalSymbols(symbols(got), []string{"A", "B", "C"}) {
		t.Fatalf("change asc after toggle = %v", symbols(got))
	}
}

func TestPaginate(t *testing.T) {
	var list []models.Instrument
	for _, s := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		list = append(list, ins(s, 1, 0))
	}

	page, err := Paginate(list, 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalSymbols(symbols(page.Items), []string{"A", "B", "C"}) {
		t.Errorf("page 1 = %v", symbols(page.Items))
	}
	if page.TotalPages != 3 || page.TotalItems != 7 {
		t.Errorf("TotalPages=%d TotalItems=%d, want 3 and 7", page.TotalPages, page.TotalItems)
	}

	page, _ = Paginate(list, 3, 3)
	if !equalSymbols(symbols(page.Items), []string{"G"}) {
		t.Errorf("last page = %v", symbols(page.Items))
	}

	page, _ = Paginate(list, 9, 3)
	if len(page.Items) != 0 {
		t.Errorf("page past end = %v, want empty", symbols(page.Items))
	}

	// Empty list still reports one page.
	page, _ = Paginate(nil, 1, 10)
	if page.TotalPages != 1 || len(page.Items) != 0 {
		t.Errorf("empty list: TotalPages=%d items=%d, want 1 and 0", page.TotalPages, len(page.Items))
	}

	if _, err := Paginate(list, 1, 0); err == nil {
		t.Error("expected error for itemsPerPage=0")
	}
	if _, err := Paginate(list, 0, 10); err == nil {
		t.Error("expected error for pageNumber=0")
	}
}

func TestPaginateReconstructs(t *testing.T) {
	// Concatenating every page in order rebuilds the list exactly.
	var list []models.Instrument
	for i := 0; i < 23; i++ {
		list = append(list, ins(string(rune('A'+i)), float64(i), 0))
	}

	for _, perPage := range []int{1, 4, 10, 23, 50} {
		first, err := Paginate(list, 1, perPage)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		wantPages := (len(list) + perPage - 1) / perPage
		if wantPages < 1 {
			wantPages = 1
		}
		if first.TotalPages != wantPages {
			t.Errorf("perPage=%d: TotalPages=%d, want %d", perPage, first.TotalPages, wantPages)
		}

		var rebuilt []models.Instrument
		for p := 1; p <= first.TotalPages; p++ {
			page, err := Paginate(list, p, perPage)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			rebuilt = append(rebuilt, page.Items...)
		}
		if !equalSymbols(symbols(rebuilt), symbols(list)) {
			t.Errorf("perPage=%d: pages do not reconstruct the list", perPage)
		}
	}
}

func TestSearchFilter(t *testing.T) {
	list := []models.Instrument{
		{Symbol: "TCS", Name: "Tata Consultancy Services", Price: 3500},
		{Symbol: "TATAMOTORS", Name: "Tata Motors", Price: 900},
		{Symbol: "INFY", Name: "Infosys", Price: 1450},
	}

	got := SearchFilter(list, "tata")
	if !equalSymbols(symbols(got), []string{"TCS", "TATAMOTORS"}) {
		t.Errorf("search tata = %v", symbols(got))
	}

	got = SearchFilter(list, "infy")
	if !equalSymbols(symbols(got), []string{"INFY"}) {
		t.Errorf("search infy = %v", symbols(got))
	}

	got = SearchFilter(list, "zzz")
	if len(got) != 0 {
		t.Errorf("search zzz = %v, want empty", symbols(got))
	}

	// Empty term returns the input unchanged.
	if got := SearchFilter(list, ""); len(got) != 3 {
		t.Errorf("empty term = %v", symbols(got))
	}
}
