// Package fd serves the fixed-deposits API: the filtered and sorted deposit
// list with derived interest figures, record creation and deletion, and the
// standalone FD calculator.
package fd

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"financer/internal/finmath"
	api "financer/internal/http"
	"financer/internal/models"
	"financer/internal/services/fixeddeposit"
	"financer/internal/services/storage"
)

var store *storage.Store

// Initialize sets up the fd package with required dependencies
func Initialize(s *storage.Store) {
	store = s
}

// RegisterRoutes registers all fixed-deposit routes
func RegisterRoutes(r chi.Router) {
	r.Get("/api/fd", handleList)
	r.Post("/api/fd", handleCreate)
	r.Delete("/api/fd/{id}", handleDelete)
	r.Get("/api/fd/banks", handleBanks)
	r.Post("/api/calculator/fd", handleCalculator)
}

func handleBanks(w http.ResponseWriter, r *http.Request) {
	api.RespondJSON(w, http.StatusOK, map[string][]string{
		"banks": fixeddeposit.KnownBanks(),
	})
}

// depositView is one deposit row with its derived figures.
type depositView struct {
	models.FixedDeposit
	Interest      float64 `json:"interest"`
	MaturityDate  string  `json:"maturity_date"`
	MaturityValue float64 `json:"maturity_value"`
}

type listResponse struct {
	Deposits []depositView       `json:"deposits"`
	Totals   fixeddeposit.Totals `json:"totals"`
	Banks    []string            `json:"banks"`
}

func handleList(w http.ResponseWriter, r *http.Request) {
	deposits, err := store.LoadFixedDeposits()
	if err != nil {
		api.RespondFromErr(w, err)
		return
	}

	bank := r.URL.Query().Get("bank")
	if bank == "" {
		bank = fixeddeposit.AllBanks
	}
	key := fixeddeposit.SortKey(r.URL.Query().Get("sort"))
	if key == "" {
		key = fixeddeposit.SortByDate
	}

	filtered := fixeddeposit.FilterAndSort(deposits, bank, key)

	views := make([]depositView, len(filtered))
	for i, d := range filtered {
		views[i] = depositView{
			FixedDeposit:  d,
			Interest:      finmath.Round2(d.Interest()),
			MaturityDate:  d.MaturityDate().Format("2006-01-02"),
			MaturityValue: finmath.Round2(d.MaturityValue()),
		}
	}

	api.RespondJSON(w, http.StatusOK, listResponse{
		Deposits: views,
		Totals:   fixeddeposit.PortfolioTotals(filtered),
		// The bank dropdown always lists every bank, not just the filtered ones.
		Banks: fixeddeposit.DistinctBanks(deposits),
	})
}

type createRequest struct {
	Bank         string  `json:"bank"`
	Principal    float64 `json:"principal"`
	AnnualRate   float64 `json:"annual_rate"`
	TenureMonths int     `json:"tenure_months"`
	StartDate    string  `json:"start_date"`
}

func handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}

	deposit, err := models.NewFixedDeposit(req.Bank, req.Principal, req.AnnualRate, req.TenureMonths, start)
	if err != nil {
		api.RespondFromErr(w, err)
		return
	}

	deposits, err := store.LoadFixedDeposits()
	if err != nil {
		api.RespondFromErr(w, err)
		return
	}
	deposits = append(deposits, deposit)
	if err := store.SaveFixedDeposits(deposits); err != nil {
		api.RespondFromErr(w, err)
		return
	}

	api.RespondJSON(w, http.StatusCreated, deposit)
}

func handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deposits, err := store.LoadFixedDeposits()
	if err != nil {
		api.RespondFromErr(w, err)
		return
	}

	kept := deposits[:0:0]
	for _, d := range deposits {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	if len(kept) == len(deposits) {
		api.RespondError(w, http.StatusNotFound, "fixed deposit not found")
		return
	}

	if err := store.SaveFixedDeposits(kept); err != nil {
		api.RespondFromErr(w, err)
		return
	}
	api.RespondJSON(w, http.StatusNoContent, nil)
}

type calculatorRequest struct {
	Principal    float64 `json:"principal"`
	AnnualRate   float64 `json:"annual_rate"`
	TenureMonths int     `json:"tenure_months"`
	Compounding  string  `json:"compounding"`
}

type calculatorResponse struct {
	Simple struct {
		Interest       float64 `json:"interest"`
		MaturityAmount float64 `json:"maturity_amount"`
	} `json:"simple"`
	Compound finmath.CompoundResult `json:"compound"`
}

func handleCalculator(w http.ResponseWriter, r *http.Request) {
	var req calculatorRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	simple, err := finmath.SimpleInterest(req.Principal, req.AnnualRate, req.TenureMonths)
	if err != nil {
		api.RespondFromErr(w, err)
		return
	}
	compound, err := finmath.CompoundInterest(req.Principal, req.AnnualRate, req.TenureMonths, req.Compounding)
	if err != nil {
		api.RespondFromErr(w, err)
		return
	}

	var resp calculatorResponse
	resp.Simple.Interest = finmath.Round2(simple)
	resp.Simple.MaturityAmount = finmath.Round2(req.Principal + simple)
	resp.Compound = compound
	api.RespondJSON(w, http.StatusOK, resp)
}
