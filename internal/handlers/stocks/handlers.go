// Package stocks serves the market data API: cursor-windowed batches from
// the upstream source with TTL caching and a mock fallback, plus the
// client-side browse view with search, sorting and pagination.
package stocks

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"financer/internal/cache"
	"financer/internal/config"
	api "financer/internal/http"
	"financer/internal/models"
	"financer/internal/nse"
	"financer/internal/services/market"
)

// browseFetchLimit is how much of the index the browse view loads at once.
// The NIFTY total market index is well under this.
const browseFetchLimit = 500

var (
	client *nse.Client
	store  *cache.Cache
	cfg    *config.Config
	log    *logrus.Entry
)

// Initialize sets up the stocks package with required dependencies
func Initialize(c *nse.Client, ca *cache.Cache, conf *config.Config) {
	client = c
	store = ca
	cfg = conf
	log = logrus.WithField("component", "stocks")
}

// RegisterRoutes registers all market data routes
func RegisterRoutes(r chi.Router) {
	r.Get("/api/stocks", handleStocks)
	r.Get("/api/stocks/browse", handleBrowse)
}

func cacheKey(skip, limit int) string {
	return fmt.Sprintf("nse_stocks_data_%d_%d", skip, limit)
}

// fetchBatch returns one cursor window, serving from cache when fresh. A
// failed upstream fetch falls back to mock data for the first page only;
// continuation requests surface the error so the client never appends
// fabricated rows to real ones.
func fetchBatch(ctx context.Context, skip, limit int) (models.StockBatch, error) {
	key := cacheKey(skip, limit)
	if v, ok := store.Get(key); ok {
		return v.(models.StockBatch), nil
	}

	batch, err := client.FetchStocks(ctx, skip, limit)
	if err != nil {
		if models.IsInvalidInput(err) || skip != 0 {
			return models.StockBatch{}, err
		}
		log.WithError(err).Warn("upstream fetch failed, serving mock data")
		batch = nse.MockBatch(skip, limit)
		store.Set(key, batch, cfg.MockCacheTTL)
		return batch, nil
	}

	store.Set(key, batch, cfg.CacheTTL)
	return batch, nil
}

func handleStocks(w http.ResponseWriter, r *http.Request) {
	skip := intQuery(r, "skip", 0)
	limit := intQuery(r, "limit", 20)

	batch, err := fetchBatch(r.Context(), skip, limit)
	if err != nil {
		api.RespondFromErr(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, batch)
}

type browseResponse struct {
	market.Page
	SortKey   market.SortKey   `json:"sort_key"`
	SortOrder market.SortOrder `json:"sort_order"`
	Search    string           `json:"search,omitempty"`
}

func handleBrowse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	key := market.SortKey(q.Get("sort"))
	if key == "" {
		key = market.SortByPrice
	}
	order := market.SortOrder(q.Get("order"))
	if order == "" {
		order = market.Descending
	}
	search := q.Get("search")

	batch, err := fetchBatch(r.Context(), 0, browseFetchLimit)
	if err != nil {
		api.RespondFromErr(w, err)
		return
	}

	// Filter first, then sort, then window.
	visible := market.SortInstruments(market.SearchFilter(batch.Data, search), key, order)
	page, err := market.Paginate(visible, intQuery(r, "page", 1), intQuery(r, "per_page", 20))
	if err != nil {
		api.RespondFromErr(w, err)
		return
	}

	api.RespondJSON(w, http.StatusOK, browseResponse{
		Page:      page,
		SortKey:   key,
		SortOrder: order,
		Search:    search,
	})
}

// WarmCache pre-fetches the default first page so the dashboard's first
// request after a cold start or cache expiry is served hot. Wired to the
// refresh schedule in main.
func WarmCache(ctx context.Context) {
	if _, err := fetchBatch(ctx, 0, 20); err != nil {
		log.WithError(err).Warn("cache warm failed")
	}
}

func intQuery(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
