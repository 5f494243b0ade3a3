// Package portfolio serves the holdings API: the asset list with allocation
// percentages, risk labels and expected returns, plus record creation and
// deletion.
package portfolio

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"financer/internal/finmath"
	api "financer/internal/http"
	"financer/internal/models"
	psvc "financer/internal/services/portfolio"
	"financer/internal/services/storage"
)

var (
	store   *storage.Store
	metrics psvc.MetricsTable
)

// Initialize sets up the portfolio package with required dependencies
func Initialize(s *storage.Store) {
	store = s
	metrics = psvc.DefaultMetricsTable()
}

// RegisterRoutes registers all portfolio routes
func RegisterRoutes(r chi.Router) {
	r.Get("/api/portfolio", handleList)
	r.Post("/api/portfolio", handleCreate)
	r.Delete("/api/portfolio/{id}", handleDelete)
}

// holdingView is one holding row with its derived figures.
type holdingView struct {
	models.Investment
	AllocationPercent float64         `json:"allocation_percent"`
	Risk              psvc.RiskBucket `json:"risk"`
	ExpectedReturn    float64         `json:"expected_return"`
}

type listResponse struct {
	Holdings            []holdingView      `json:"holdings"`
	TotalBalance        float64            `json:"total_balance"`
	ExpectedAnnualYield float64            `json:"expected_annual_yield"`
	TopPerformer        *models.Investment `json:"top_performer"`
}

func handleList(w http.ResponseWriter, r *http.Request) {
	investments, err := store.LoadInvestments()
	if err != nil {
		api.RespondFromErr(w, err)
		return
	}

	key := psvc.SortKey(r.URL.Query().Get("sort"))
	if key == "" {
		key = psvc.SortByBalance
	}
	sorted := psvc.Sort(investments, key)

	var total float64
	for i := range investments {
		total += investments[i].Balance
	}

	// Allocation is computed over the sorted view; the percentages are
	// relative to the whole portfolio either way.
	views := make([]holdingView, 0, len(sorted))
	for _, alloc := range psvc.Allocate(sorted) {
		views = append(views, holdingView{
			Investment:        alloc.Investment,
			AllocationPercent: finmath.Round2(alloc.AllocationPercent),
			Risk:              psvc.ClassifyRisk(alloc.Investment.AssetType, metrics),
			ExpectedReturn:    psvc.ExpectedReturn(alloc.Investment.AssetType, metrics),
		})
	}

	api.RespondJSON(w, http.StatusOK, listResponse{
		Holdings:            views,
		TotalBalance:        total,
		ExpectedAnnualYield: finmath.Round2(psvc.ExpectedAnnualYield(investments, metrics)),
		TopPerformer:        psvc.TopPerformer(investments),
	})
}

type createRequest struct {
	AssetType string  `json:"asset_type"`
	Balance   float64 `json:"balance"`
	ColorTag  string  `json:"color_tag"`
	AddedDate string  `json:"added_date"`
}

func handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	var added time.Time
	if req.AddedDate != "" {
		var err error
		added, err = time.Parse("2006-01-02", req.AddedDate)
		if err != nil {
			api.RespondError(w, http.StatusBadRequest, "added_date must be YYYY-MM-DD")
			return
		}
	}

	inv, err := models.NewInvestment(req.AssetType, req.Balance, req.ColorTag, added)
	if err != nil {
		api.RespondFromErr(w, err)
		return
	}

	investments, err := store.LoadInvestments()
	if err != nil {
		api.RespondFromErr(w, err)
		return
	}
	investments = append(investments, inv)
	if err := store.SaveInvestments(investments); err != nil {
		api.RespondFromErr(w, err)
		return
	}

	api.RespondJSON(w, http.StatusCreated, inv)
}

func handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	investments, err := store.LoadInvestments()
	if err != nil {
		api.RespondFromErr(w, err)
		return
	}

	kept := investments[:0:0]
	for _, inv := range investments {
		if inv.ID != id {
			kept = append(kept, inv)
		}
	}
	if len(kept) == len(investments) {
		api.RespondError(w, http.StatusNotFound, "holding not found")
		return
	}

	if err := store.SaveInvestments(kept); err != nil {
		api.RespondFromErr(w, err)
		return
	}
	api.RespondJSON(w, http.StatusNoContent, nil)
}
