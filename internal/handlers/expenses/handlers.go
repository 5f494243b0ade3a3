// Package expenses serves the expense-tracking API: the month/category view
// with totals, daily average and the category breakdown, plus record
// creation and deletion.
package expenses

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"financer/internal/finmath"
	api "financer/internal/http"
	"financer/internal/models"
	"financer/internal/services/expense"
	"financer/internal/services/storage"
)

var store *storage.Store

// Initialize sets up the expenses package with required dependencies
func Initialize(s *storage.Store) {
	store = s
}

// RegisterRoutes registers all expense routes
func RegisterRoutes(r chi.Router) {
	r.Get("/api/expenses", handleList)
	r.Post("/api/expenses", handleCreate)
	r.Delete("/api/expenses/{id}", handleDelete)
	r.Get("/api/expenses/categories", handleCategories)
}

// expenseView is one expense row with its share of the filtered view.
type expenseView struct {
	models.Expense
	PercentOfTotal float64 `json:"percent_of_total"`
}

type listResponse struct {
	Expenses     []expenseView            `json:"expenses"`
	Month        string                   `json:"month"`
	Category     string                   `json:"category"`
	Total        float64                  `json:"total"`
	DailyAverage float64                  `json:"daily_average"`
	Breakdown    []expense.CategoryAmount `json:"breakdown"`
}

func handleList(w http.ResponseWriter, r *http.Request) {
	all, err := store.LoadExpenses()
	if err != nil {
		api.RespondFromErr(w, err)
		return
	}

	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	category := r.URL.Query().Get("category")
	if category == "" {
		category = expense.AllCategories
	}

	filtered := expense.FilterByMonthAndCategory(all, month, category)
	daily, err := expense.DailyAverage(filtered, month)
	if err != nil {
		api.RespondFromErr(w, err)
		return
	}

	views := make([]expenseView, len(filtered))
	for i, e := range filtered {
		views[i] = expenseView{
			Expense:        e,
			PercentOfTotal: finmath.Round2(expense.PercentOfTotal(e, filtered)),
		}
	}

	api.RespondJSON(w, http.StatusOK, listResponse{
		Expenses:     views,
		Month:        month,
		Category:     category,
		Total:        expense.Total(filtered),
		DailyAverage: finmath.Round2(daily),
		Breakdown:    expense.CategoryBreakdown(filtered),
	})
}

type createRequest struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
}

func handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	exp, err := models.NewExpense(req.Category, req.Amount, date)
	if err != nil {
		api.RespondFromErr(w, err)
		return
	}

	all, err := store.LoadExpenses()
	if err != nil {
		api.RespondFromErr(w, err)
		return
	}
	all = append(all, exp)
	if err := store.SaveExpenses(all); err != nil {
		api.RespondFromErr(w, err)
		return
	}

	api.RespondJSON(w, http.StatusCreated, exp)
}

func handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	all, err := store.LoadExpenses()
	if err != nil {
		api.RespondFromErr(w, err)
		return
	}

	kept := all[:0:0]
	for _, e := range all {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(all) {
		api.RespondError(w, http.StatusNotFound, "expense not found")
		return
	}

	if err := store.SaveExpenses(kept); err != nil {
		api.RespondFromErr(w, err)
		return
	}
	api.RespondJSON(w, http.StatusNoContent, nil)
}

func handleCategories(w http.ResponseWriter, r *http.Request) {
	api.RespondJSON(w, http.StatusOK, map[string][]string{
		"categories": expense.KnownCategories(),
	})
}
