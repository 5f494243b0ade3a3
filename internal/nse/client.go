// Package nse fetches market data from the NSE index endpoint and maps it to
// the batch contract the market service consumes. The upstream returns the
// whole index in one payload; skip/limit windowing and the has_more flag are
// computed here so consumers only ever see cursor-paginated batches.
package nse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"financer/internal/models"
)

const indexPath = "/equity-stockIndices?index=NIFTY%20TOTAL%20MARKET"

// Client fetches stock data from the upstream source.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Entry
}

// NewClient returns a client for the given API base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     logrus.WithField("component", "nse"),
	}
}

// upstreamRow is the subset of the NSE payload we keep. Numeric fields
// arrive as strings with thousands separators often enough that everything
// goes through safeFloat.
type upstreamRow struct {
	Symbol            string          `json:"symbol"`
	CompanyName       string          `json:"companyName"`
	LastPrice         json.RawMessage `json:"lastPrice"`
	PChange           json.RawMessage `json:"pChange"`
	TotalTradedVolume json.RawMessage `json:"totalTradedVolume"`
	Meta              *struct {
		CompanyName string `json:"companyName"`
	} `json:"meta"`
}

type upstreamPayload struct {
	Data []upstreamRow `json:"data"`
}

// FetchStocks returns one cursor window of the index: limit instruments
// starting at skip, plus continuation info.
func (c *Client) FetchStocks(ctx context.Context, skip, limit int) (models.StockBatch, error) {
	if limit <= 0 {
		return models.StockBatch{}, &models.InvalidInputError{Field: "limit", Reason: "must be greater than zero"}
	}
	if skip < 0 {
		return models.StockBatch{}, &models.InvalidInputError{Field: "skip", Reason: "must not be negative"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+indexPath, nil)
	if err != nil {
		return models.StockBatch{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "financer/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return models.StockBatch{}, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.StockBatch{}, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	var payload upstreamPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.StockBatch{}, fmt.Errorf("failed to decode upstream payload: %w", err)
	}

	all := make([]models.Instrument, 0, len(payload.Data))
	for _, row := range payload.Data {
		in, ok := mapRow(row)
		if !ok {
			continue
		}
		if err := in.Validate(); err != nil {
			c.log.WithError(err).WithField("symbol", row.Symbol).Warn("dropping invalid upstream row")
			continue
		}
		all = append(all, in)
	}

	return Window(all, skip, limit), nil
}

// Window slices a full instrument list into one cursor batch.
func Window(all []models.Instrument, skip, limit int) models.StockBatch {
	total := len(all)
	if skip > total {
		skip = total
	}
	end := skip + limit
	if end > total {
		end = total
	}

	data := make([]models.Instrument, end-skip)
	copy(data, all[skip:end])

	return models.StockBatch{
		Data:       data,
		HasMore:    end < total,
		TotalCount: total,
	}
}

func mapRow(row upstreamRow) (models.Instrument, bool) {
	symbol := strings.TrimSpace(row.Symbol)
	if symbol == "" {
		return models.Instrument{}, false
	}

	name := row.CompanyName
	if name == "" && row.Meta != nil {
		name = row.Meta.CompanyName
	}
	if name == "" {
		name = symbol
	}

	in := models.Instrument{
		Symbol:        symbol,
		Name:          name,
		Price:         safeFloat(row.LastPrice),
		ChangePercent: safeFloat(row.PChange),
	}
	if v, ok := safeInt(row.TotalTradedVolume); ok {
		in.Volume = &v
	}
	return in, true
}

// safeFloat parses a raw JSON number or a string like "2,850.50" / "+1.25".
// Anything unparseable becomes 0, matching the upstream's habit of sending
// "-" for halted instruments.
func safeFloat(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	s = strings.TrimPrefix(s, "+")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func safeInt(raw json.RawMessage) (int64, bool) {
	f := safeFloat(raw)
	if f == 0 && !strings.ContainsAny(string(raw), "0") {
		return 0, false
	}
	return int64(f), true
}
