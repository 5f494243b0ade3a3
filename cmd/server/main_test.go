package main

import (
	"archive/zip"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"financer/internal/config"
	"financer/internal/services/storage"
	"financer/internal/testutil"
)

const upstreamPayload = `{
	"data": [
		{"symbol": "RELIANCE", "meta": {"companyName": "Reliance Industries Limited"}, "lastPrice": "2,850.50", "pChange": "+1.25", "totalTradedVolume": 2500000},
		{"symbol": "TCS", "meta": {"companyName": "Tata Consultancy Services Limited"}, "lastPrice": 3420.75, "pChange": -0.85, "totalTradedVolume": 1800000},
		{"symbol": "HDFCBANK", "meta": {"companyName": "HDFC Bank Limited"}, "lastPrice": 1650.25, "pChange": 0.45, "totalTradedVolume": 3100000},
		{"symbol": "SBIN", "meta": {"companyName": "State Bank of India"}, "lastPrice": 815.70, "pChange": 0.95, "totalTradedVolume": 4100000}
	]
}`

// setupTestServer initializes dependencies against a temp data directory and
// the given fake upstream, and returns a test server.
func setupTestServer(t *testing.T, upstream http.HandlerFunc) *testutil.TestServer {
	t.Helper()

	fake := httptest.NewServer(upstream)
	t.Cleanup(fake.Close)

	cfg = &config.Config{
		ListenAddr:    ":0",
		Debug:         true,
		DataDirectory: t.TempDir(),
		MarketBaseURL: fake.URL,
		MarketTimeout: 5 * time.Second,
		CacheTTL:      time.Minute,
		MockCacheTTL:  time.Second,
	}

	var err error
	store, err = storage.New(cfg.DataDirectory)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	if err := SetupDependencies(cfg); err != nil {
		t.Fatalf("Failed to setup dependencies: %v", err)
	}

	return testutil.NewTestServer(t, SetupRouter())
}

func serveUpstream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(upstreamPayload))
}

func TestHealthEndpoint(t *testing.T) {
	ts := setupTestServer(t, serveUpstream)

	resp := ts.GET("/api/health")
	testutil.AssertResponse(t, resp).
		StatusOK().
		ContentTypeJSON().
		Contains(`"status":"ok"`).
		Contains(`"encrypted":false`)
}

func TestFixedDepositFlow(t *testing.T) {
	ts := setupTestServer(t, serveUpstream)

	testutil.AssertResponse(t, ts.POSTJSON("/api/fd", map[string]interface{}{
		"bank": "HDFC", "principal": 100000.0, "annual_rate": 6.5,
		"tenure_months": 12, "start_date": "2025-01-15",
	})).Status(http.StatusCreated)

	testutil.AssertResponse(t, ts.POSTJSON("/api/fd", map[string]interface{}{
		"bank": "SBI", "principal": 50000.0, "annual_rate": 7.0,
		"tenure_months": 6, "start_date": "2025-03-01",
	})).Status(http.StatusCreated)

	var list struct {
		Deposits []struct {
			ID            string  `json:"id"`
			Bank          string  `json:"bank"`
			Interest      float64 `json:"interest"`
			MaturityDate  string  `json:"maturity_date"`
			MaturityValue float64 `json:"maturity_value"`
		} `json:"deposits"`
		Totals struct {
			TotalPrincipal float64 `json:"total_principal"`
			TotalInterest  float64 `json:"total_interest"`
		} `json:"totals"`
		Banks []string `json:"banks"`
	}
	testutil.AssertResponse(t, ts.GET("/api/fd")).StatusOK().ContentTypeJSON().JSON(&list)

	if len(list.Deposits) != 2 {
		t.Fatalf("got %d deposits, want 2", len(list.Deposits))
	}
	// Default sort is start date descending, so the SBI deposit leads.
	if list.Deposits[0].Bank != "SBI" {
		t.Errorf("first deposit bank = %s, want SBI", list.Deposits[0].Bank)
	}
	hdfc := list.Deposits[1]
	if hdfc.Interest != 6500 || hdfc.MaturityDate != "2026-01-15" || hdfc.MaturityValue != 106500 {
		t.Errorf("derived fields = %+v", hdfc)
	}
	if list.Totals.TotalPrincipal != 150000 || list.Totals.TotalInterest != 8250 {
		t.Errorf("totals = %+v", list.Totals)
	}
	if len(list.Banks) != 2 || list.Banks[0] != "HDFC" || list.Banks[1] != "SBI" {
		t.Errorf("banks = %v", list.Banks)
	}

	// Bank filter narrows the list but the dropdown still shows every bank.
	var filtered struct {
		Deposits []struct {
			Bank string `json:"bank"`
		} `json:"deposits"`
		Banks []string `json:"banks"`
	}
	testutil.AssertResponse(t, ts.GET("/api/fd?bank=HDFC&sort=amount")).StatusOK().JSON(&filtered)
	if len(filtered.Deposits) != 1 || filtered.Deposits[0].Bank != "HDFC" {
		t.Errorf("filtered deposits = %+v", filtered.Deposits)
	}
	if len(filtered.Banks) != 2 {
		t.Errorf("filtered banks = %v", filtered.Banks)
	}

	testutil.AssertResponse(t, ts.DELETE("/api/fd/"+hdfc.ID)).Status(http.StatusNoContent)
	testutil.AssertResponse(t, ts.DELETE("/api/fd/"+hdfc.ID)).Status(http.StatusNotFound)

	testutil.AssertResponse(t, ts.GET("/api/fd")).StatusOK().NotContains("HDFC")
}

func TestFixedDepositValidation(t *testing.T) {
	ts := setupTestServer(t, serveUpstream)

	testutil.AssertResponse(t, ts.POSTJSON("/api/fd", map[string]interface{}{
		"bank": "HDFC", "principal": -5.0, "annual_rate": 6.5,
		"tenure_months": 12, "start_date": "2025-01-15",
	})).StatusBadRequest().Contains("principal")

	testutil.AssertResponse(t, ts.POSTJSON("/api/fd", map[string]interface{}{
		"bank": "HDFC", "principal": 1000.0, "annual_rate": 6.5,
		"tenure_months": 12, "start_date": "15/01/2025",
	})).StatusBadRequest().Contains("start_date")
}

func TestFDCalculator(t *testing.T) {
	ts := setupTestServer(t, serveUpstream)

	var result struct {
		Simple struct {
			Interest       float64 `json:"interest"`
			MaturityAmount float64 `json:"maturity_amount"`
		} `json:"simple"`
		Compound struct {
			MaturityAmount float64 `json:"maturity_amount"`
			EffectiveRate  float64 `json:"effective_annual_rate"`
			Breakdown      []struct {
				Period  int     `json:"period"`
				Balance float64 `json:"balance"`
			} `json:"breakdown"`
		} `json:"compound"`
	}
	testutil.AssertResponse(t, ts.POSTJSON("/api/calculator/fd", map[string]interface{}{
		"principal": 100000.0, "annual_rate": 6.5, "tenure_months": 12, "compounding": "quarterly",
	})).StatusOK().JSON(&result)

	if result.Simple.Interest != 6500 || result.Simple.MaturityAmount != 106500 {
		t.Errorf("simple = %+v", result.Simple)
	}
	if result.Compound.MaturityAmount != 106660.16 || result.Compound.EffectiveRate != 6.66 {
		t.Errorf("compound = %+v", result.Compound)
	}
	if len(result.Compound.Breakdown) != 4 {
		t.Errorf("breakdown has %d periods, want 4", len(result.Compound.Breakdown))
	}

	testutil.AssertResponse(t, ts.POSTJSON("/api/calculator/fd", map[string]interface{}{
		"principal": 100000.0, "annual_rate": 6.5, "tenure_months": 0,
	})).StatusBadRequest()
}

func TestPortfolioFlow(t *testing.T) {
	ts := setupTestServer(t, serveUpstream)

	testutil.AssertResponse(t, ts.POSTJSON("/api/portfolio", map[string]interface{}{
		"asset_type": "Stocks", "balance": 4000.0, "color_tag": "#ef4444",
	})).Status(http.StatusCreated)
	testutil.AssertResponse(t, ts.POSTJSON("/api/portfolio", map[string]interface{}{
		"asset_type": "Bonds", "balance": 1000.0, "color_tag": "#22c55e",
	})).Status(http.StatusCreated)

	var list struct {
		Holdings []struct {
			ID                string  `json:"id"`
			AssetType         string  `json:"asset_type"`
			AllocationPercent float64 `json:"allocation_percent"`
			Risk              string  `json:"risk"`
			ExpectedReturn    float64 `json:"expected_return"`
		} `json:"holdings"`
		TotalBalance        float64 `json:"total_balance"`
		ExpectedAnnualYield float64 `json:"expected_annual_yield"`
		TopPerformer        *struct {
			AssetType string `json:"asset_type"`
		} `json:"top_performer"`
	}
	testutil.AssertResponse(t, ts.GET("/api/portfolio")).StatusOK().JSON(&list)

	if len(list.Holdings) != 2 {
		t.Fatalf("got %d holdings, want 2", len(list.Holdings))
	}
	stocksRow := list.Holdings[0]
	if stocksRow.AssetType != "Stocks" || stocksRow.AllocationPercent != 80 || stocksRow.Risk != "High" {
		t.Errorf("stocks row = %+v", stocksRow)
	}
	if list.Holdings[1].AllocationPercent != 20 || list.Holdings[1].Risk != "Low" {
		t.Errorf("bonds row = %+v", list.Holdings[1])
	}
	if list.TotalBalance != 5000 {
		t.Errorf("total balance = %v", list.TotalBalance)
	}
	// 4000 * 12.4% + 1000 * 6.3%
	if list.ExpectedAnnualYield != 559 {
		t.Errorf("expected yield = %v", list.ExpectedAnnualYield)
	}
	if list.TopPerformer == nil || list.TopPerformer.AssetType != "Stocks" {
		t.Errorf("top performer = %+v", list.TopPerformer)
	}

	testutil.AssertResponse(t, ts.DELETE("/api/portfolio/"+stocksRow.ID)).Status(http.StatusNoContent)
	testutil.AssertResponse(t, ts.DELETE("/api/portfolio/missing")).Status(http.StatusNotFound)
}

func TestExpensesFlow(t *testing.T) {
	ts := setupTestServer(t, serveUpstream)

	for _, e := range []map[string]interface{}{
		{"category": "Groceries", "amount": 600.0, "date": "2025-01-05"},
		{"category": "Rent", "amount": 300.0, "date": "2025-01-10"},
		{"category": "Groceries", "amount": 100.0, "date": "2025-01-20"},
		{"category": "Travel", "amount": 999.0, "date": "2025-02-01"},
	} {
		testutil.AssertResponse(t, ts.POSTJSON("/api/expenses", e)).Status(http.StatusCreated)
	}

	var list struct {
		Expenses []struct {
			Category       string  `json:"category"`
			PercentOfTotal float64 `json:"percent_of_total"`
		} `json:"expenses"`
		Total        float64 `json:"total"`
		DailyAverage float64 `json:"daily_average"`
		Breakdown    []struct {
			Category string  `json:"category"`
			Amount   float64 `json:"amount"`
		} `json:"breakdown"`
	}
	testutil.AssertResponse(t, ts.GET("/api/expenses?month=2025-01")).StatusOK().JSON(&list)

	if len(list.Expenses) != 3 {
		t.Fatalf("got %d expenses, want 3", len(list.Expenses))
	}
	if list.Total != 1000 {
		t.Errorf("total = %v", list.Total)
	}
	// 1000 over January's 31 days.
	if list.DailyAverage != 32.26 {
		t.Errorf("daily average = %v", list.DailyAverage)
	}
	if list.Expenses[0].PercentOfTotal != 60 {
		t.Errorf("first expense percent = %v", list.Expenses[0].PercentOfTotal)
	}
	if len(list.Breakdown) != 2 || list.Breakdown[0].Category != "Groceries" || list.Breakdown[0].Amount != 700 {
		t.Errorf("breakdown = %+v", list.Breakdown)
	}

	var narrowed struct {
		Expenses []struct {
			Category string `json:"category"`
		} `json:"expenses"`
		Total float64 `json:"total"`
	}
	testutil.AssertResponse(t, ts.GET("/api/expenses?month=2025-01&category=Rent")).StatusOK().JSON(&narrowed)
	if len(narrowed.Expenses) != 1 || narrowed.Total != 300 {
		t.Errorf("narrowed = %+v", narrowed)
	}

	testutil.AssertResponse(t, ts.GET("/api/expenses?month=January")).StatusBadRequest()
	testutil.AssertResponse(t, ts.GET("/api/expenses/categories")).StatusOK().Contains("Groceries")
	testutil.AssertResponse(t, ts.GET("/api/fd/banks")).StatusOK().Contains("Kotak Mahindra")
}

func TestStocksEndpoint(t *testing.T) {
	ts := setupTestServer(t, serveUpstream)

	var batch struct {
		Data []struct {
			Symbol string  `json:"symbol"`
			Price  float64 `json:"price"`
		} `json:"data"`
		HasMore    bool `json:"has_more"`
		TotalCount int  `json:"total_count"`
	}
	testutil.AssertResponse(t, ts.GET("/api/stocks?skip=0&limit=2")).StatusOK().JSON(&batch)

	if len(batch.Data) != 2 || !batch.HasMore || batch.TotalCount != 4 {
		t.Errorf("batch = %+v", batch)
	}
	if batch.Data[0].Symbol != "RELIANCE" || batch.Data[0].Price != 2850.50 {
		t.Errorf("first instrument = %+v", batch.Data[0])
	}
}

func TestStocksMockFallback(t *testing.T) {
	ts := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	})

	// First page falls back to mock data.
	var batch struct {
		Data       []struct{} `json:"data"`
		TotalCount int        `json:"total_count"`
	}
	testutil.AssertResponse(t, ts.GET("/api/stocks?skip=0&limit=5")).StatusOK().JSON(&batch)
	if len(batch.Data) != 5 || batch.TotalCount != 10 {
		t.Errorf("mock batch = %+v", batch)
	}

	// Continuation requests surface the failure instead.
	testutil.AssertResponse(t, ts.GET("/api/stocks?skip=5&limit=5")).Status(http.StatusInternalServerError)
}

func TestStocksBrowse(t *testing.T) {
	ts := setupTestServer(t, serveUpstream)

	var page struct {
		Items []struct {
			Symbol string `json:"symbol"`
		} `json:"items"`
		TotalPages int    `json:"total_pages"`
		TotalItems int    `json:"total_items"`
		SortKey    string `json:"sort_key"`
		SortOrder  string `json:"sort_order"`
	}
	testutil.AssertResponse(t, ts.GET("/api/stocks/browse?per_page=3")).StatusOK().JSON(&page)

	if len(page.Items) != 3 || page.TotalPages != 2 || page.TotalItems != 4 {
		t.Fatalf("page = %+v", page)
	}
	// Default sort is price descending.
	if page.Items[0].Symbol != "TCS" || page.Items[1].Symbol != "RELIANCE" {
		t.Errorf("order = %+v", page.Items)
	}
	if page.SortKey != "price" || page.SortOrder != "desc" {
		t.Errorf("sort echo = %s %s", page.SortKey, page.SortOrder)
	}

	var searched struct {
		Items []struct {
			Symbol string `json:"symbol"`
		} `json:"items"`
		TotalItems int `json:"total_items"`
	}
	testutil.AssertResponse(t, ts.GET("/api/stocks/browse?search=bank&sort=change&order=asc")).StatusOK().JSON(&searched)
	if searched.TotalItems != 2 {
		t.Fatalf("searched = %+v", searched)
	}
	if searched.Items[0].Symbol != "HDFCBANK" || searched.Items[1].Symbol != "SBIN" {
		t.Errorf("searched order = %+v", searched.Items)
	}

	testutil.AssertResponse(t, ts.GET("/api/stocks/browse?per_page=0")).StatusBadRequest()
}

func TestBackupDownload(t *testing.T) {
	ts := setupTestServer(t, serveUpstream)

	testutil.AssertResponse(t, ts.POSTJSON("/api/fd", map[string]interface{}{
		"bank": "HDFC", "principal": 100000.0, "annual_rate": 6.5,
		"tenure_months": 12, "start_date": "2025-01-15",
	})).Status(http.StatusCreated)

	resp := ts.GET("/api/backup")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("backup status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/zip" {
		t.Errorf("content type = %s", ct)
	}
	body := testutil.ReadBody(t, resp)
	zr, err := zip.NewReader(strings.NewReader(body), int64(len(body)))
	if err != nil {
		t.Fatalf("backup is not a zip: %v", err)
	}
	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, want := range []string{"fds.json", "investments.json", "expenses.json"} {
		if !names[want] {
			t.Errorf("archive missing %s (have %v)", want, names)
		}
	}
}

func TestChatUnconfigured(t *testing.T) {
	ts := setupTestServer(t, serveUpstream)

	testutil.AssertResponse(t, ts.POSTJSON("/api/chat", map[string]string{
		"message": "how should I invest?",
	})).Status(http.StatusServiceUnavailable)
}
