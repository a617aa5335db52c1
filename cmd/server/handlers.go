package main

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/Simplici0/doorquote/internal/errors"
	"github.com/Simplici0/doorquote/internal/logger"
	"github.com/Simplici0/doorquote/internal/pricing"
	"github.com/Simplici0/doorquote/internal/quotes"
	"github.com/Simplici0/doorquote/internal/quoting"
)

const healthTimeout = 2 * time.Second

type server struct {
	svc *quoting.Service
	log *logger.Logger
	db  *sql.DB
}

type priceResponse struct {
	Pricing pricing.QuotationPricing `json:"pricing"`
	Totals  pricing.DisplayTotals    `json:"totals"`
}

type quotationResponse struct {
	quotes.Quotation
	Totals pricing.DisplayTotals `json:"totals"`
}

type quotationSummaryResponse struct {
	ID           int64                 `json:"id"`
	Number       string                `json:"number"`
	CustomerName string                `json:"customer_name"`
	Status       quotes.Status         `json:"status"`
	CreatedAt    time.Time             `json:"created_at"`
	Totals       pricing.DisplayTotals `json:"totals"`
}

type listItemResponse struct {
	quotes.Summary
	Total string `json:"total"`
}

type itemResponse struct {
	Index   int                     `json:"index"`
	Input   pricing.LineItem        `json:"input"`
	Pricing pricing.LineItemPricing `json:"pricing"`
	Total   string                  `json:"total"`
}

func newRouter(s *server, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware(s.log))
	r.Use(loggingMiddleware(s.log))
	r.Use(recovererMiddleware(s.log))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/quotations", func(r chi.Router) {
		r.Post("/price", s.handlePrice)
		r.Post("/", s.handleQuotationCreate)
		r.Get("/", s.handleQuotationsList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleQuotationDetail)
			r.Get("/summary", s.handleQuotationSummary)
			r.Get("/items/{index}", s.handleQuotationItem)
			r.Get("/text", s.handleQuotationText)
			r.Post("/recalculate", s.handleQuotationRecalculate)
		})
	})
	r.Get("/catalog/attributes/{id}/breakdown", s.handleNestedBreakdown)

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		writeError(ctx, s.log, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handlePrice(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	q, err := toQuotation(req.Items)
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}

	priced, err := s.svc.Price(r.Context(), q)
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	writeSuccess(w, http.StatusOK, priceResponse{Pricing: priced, Totals: priced.Totals.Display()})
}

func (s *server) handleQuotationCreate(w http.ResponseWriter, r *http.Request) {
	var req createQuotationRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	q, err := toQuotation(req.Items)
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}

	saved, err := s.svc.Create(r.Context(), quoting.CreateInput{
		CustomerName: req.CustomerName,
		Status:       req.status(),
		Quotation:    q,
	})
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	w.Header().Set("Location", "/quotations/"+strconv.FormatInt(saved.ID, 10))
	writeSuccess(w, http.StatusCreated, newQuotationResponse(saved))
}

func (s *server) handleQuotationsList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(r.Context(), s.log, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer").With("limit", raw))
			return
		}
		limit = n
	}

	list, err := s.svc.List(r.Context(), query, limit)
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	out := make([]listItemResponse, 0, len(list))
	for _, item := range list {
		out = append(out, listItemResponse{Summary: item, Total: pricing.Format(item.TotalAmount)})
	}
	writeSuccess(w, http.StatusOK, out)
}

func (s *server) handleQuotationDetail(w http.ResponseWriter, r *http.Request) {
	q, ok := s.loadQuotation(w, r)
	if !ok {
		return
	}
	writeSuccess(w, http.StatusOK, newQuotationResponse(q))
}

func (s *server) handleQuotationSummary(w http.ResponseWriter, r *http.Request) {
	q, ok := s.loadQuotation(w, r)
	if !ok {
		return
	}
	writeSuccess(w, http.StatusOK, quotationSummaryResponse{
		ID:           q.ID,
		Number:       q.Number,
		CustomerName: q.CustomerName,
		Status:       q.Status,
		CreatedAt:    q.CreatedAt,
		Totals:       q.Pricing.Totals.Display(),
	})
}

func (s *server) handleQuotationItem(w http.ResponseWriter, r *http.Request) {
	q, ok := s.loadQuotation(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		writeError(r.Context(), s.log, w, pkgerrors.New(pkgerrors.CodeValidation, "item index must be a non-negative integer"))
		return
	}
	if index >= len(q.Pricing.Items) || index >= len(q.Input.Items) {
		writeError(r.Context(), s.log, w, pkgerrors.Newf(pkgerrors.CodeNotFound, "quotation %d has no item %d", q.ID, index))
		return
	}

	priced := q.Pricing.Items[index]
	writeSuccess(w, http.StatusOK, itemResponse{
		Index:   index,
		Input:   q.Input.Items[index],
		Pricing: priced,
		Total:   pricing.Format(priced.Cost.TotalItemCost),
	})
}

func (s *server) handleQuotationText(w http.ResponseWriter, r *http.Request) {
	q, ok := s.loadQuotation(w, r)
	if !ok {
		return
	}
	writeText(w, http.StatusOK, quotationText(q))
}

func (s *server) handleQuotationRecalculate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	updated, err := s.svc.Recalculate(r.Context(), id)
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	writeSuccess(w, http.StatusOK, newQuotationResponse(updated))
}

func (s *server) handleNestedBreakdown(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}

	multiplier := decimal.NewFromInt(1)
	if raw := r.URL.Query().Get("multiplier"); raw != "" {
		if multiplier, err = decimal.NewFromString(raw); err != nil {
			writeError(r.Context(), s.log, w, pkgerrors.New(pkgerrors.CodeValidation, "multiplier must be a decimal number").With("multiplier", raw))
			return
		}
	}
	childOptions, err := parseChildOptions(r.URL.Query()["child_option"])
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}

	b, err := s.svc.NestedPreview(r.Context(), id, multiplier, childOptions)
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return
	}
	writeSuccess(w, http.StatusOK, b)
}

func (s *server) loadQuotation(w http.ResponseWriter, r *http.Request) (quotes.Quotation, bool) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return quotes.Quotation{}, false
	}
	q, err := s.svc.Get(r.Context(), id)
	if err != nil {
		writeError(r.Context(), s.log, w, err)
		return quotes.Quotation{}, false
	}
	return q, true
}

func newQuotationResponse(q quotes.Quotation) quotationResponse {
	return quotationResponse{Quotation: q, Totals: q.Pricing.Totals.Display()}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "id must be a positive integer").With("id", raw)
	}
	return id, nil
}

// parseChildOptions reads "childID:optionID" pairs.
func parseChildOptions(values []string) (map[int64]int64, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[int64]int64, len(values))
	for _, v := range values {
		childRaw, optionRaw, ok := strings.Cut(v, ":")
		child, childErr := strconv.ParseInt(childRaw, 10, 64)
		option, optionErr := strconv.ParseInt(optionRaw, 10, 64)
		if !ok || childErr != nil || optionErr != nil || child <= 0 || option <= 0 {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "child_option %q must look like childID:optionID", v)
		}
		out[child] = option
	}
	return out, nil
}
