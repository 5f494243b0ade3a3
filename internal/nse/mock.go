package nse

import "financer/internal/models"

func volume(v int64) *int64 { return &v }

// MockBatch returns a static first-page batch served when the upstream is
// unreachable, so the dashboard renders something instead of an error wall.
// Only the first page gets a fallback; continuation requests surface the
// upstream failure.
func MockBatch(skip, limit int) models.StockBatch {
	all := []models.Instrument{
		{Symbol: "RELIANCE", Name: "Reliance Industries Limited", Price: 2850.50, ChangePercent: 1.25, Volume: volume(2500000)},
		{Symbol: "TCS", Name: "Tata Consultancy Services Limited", Price: 3420.75, ChangePercent: -0.85, Volume: volume(1800000)},
		{Symbol: "HDFCBANK", Name: "HDFC Bank Limited", Price: 1650.25, ChangePercent: 0.45, Volume: volume(3100000)},
		{Symbol: "INFY", Name: "Infosys Limited", Price: 1485.60, ChangePercent: 2.10, Volume: volume(2200000)},
		{Symbol: "ICICIBANK", Name: "ICICI Bank Limited", Price: 1125.40, ChangePercent: -0.30, Volume: volume(2800000)},
		{Symbol: "HINDUNILVR", Name: "Hindustan Unilever Limited", Price: 2380.90, ChangePercent: 0.75, Volume: volume(900000)},
		{Symbol: "BHARTIARTL", Name: "Bharti Airtel Limited", Price: 1540.15, ChangePercent: 1.80, Volume: volume(1600000)},
		{Symbol: "ITC", Name: "ITC Limited", Price: 465.30, ChangePercent: -1.15, Volume: volume(5200000)},
		{Symbol: "SBIN", Name: "State Bank of India", Price: 815.70, ChangePercent: 0.95, Volume: volume(4100000)},
		{Symbol: "LT", Name: "Larsen & Toubro Limited", Price: 3625.85, ChangePercent: 1.40, Volume: volume(750000)},
	}
	return Window(all, skip, limit)
}
