// Package quoting prices quotations against the current catalog and persists the results.
package quoting

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/Simplici0/doorquote/internal/errors"
	"github.com/Simplici0/doorquote/internal/logger"
	"github.com/Simplici0/doorquote/internal/metrics"
	"github.com/Simplici0/doorquote/internal/pricing"
	"github.com/Simplici0/doorquote/internal/quotes"
)

const (
	opPrice       = "price"
	opCreate      = "create"
	opRecalculate = "recalculate"
	opPreview     = "nested_preview"
)

// CatalogSource yields the catalog a pricing run is computed against.
type CatalogSource interface {
	Snapshot(ctx context.Context) (pricing.Catalog, error)
}

// Store is the quotation persistence the service writes through.
type Store interface {
	Create(ctx context.Context, in quotes.NewQuotation) (quotes.Quotation, error)
	Get(ctx context.Context, id int64) (quotes.Quotation, error)
	List(ctx context.Context, query string, limit int) ([]quotes.Summary, error)
	UpdatePricing(ctx context.Context, id int64, priced pricing.QuotationPricing) (quotes.Quotation, error)
}

// Options wires a Service. A nil Logger logs nowhere and a nil Metrics records nothing;
// MaxDepth <= 0 keeps the calculator default.
type Options struct {
	Catalog  CatalogSource
	Store    Store
	Logger   *logger.Logger
	Metrics  *metrics.PricingMetrics
	MaxDepth int
}

// Service prices quotations against a fresh catalog snapshot on every run.
type Service struct {
	catalog  CatalogSource
	store    Store
	log      *logger.Logger
	metrics  *metrics.PricingMetrics
	maxDepth int
}

// New builds a Service from opts.
func New(opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		catalog:  opts.Catalog,
		store:    opts.Store,
		log:      log,
		metrics:  opts.Metrics,
		maxDepth: opts.MaxDepth,
	}
}

// CreateInput is a quotation to price and store. An empty Status means draft.
type CreateInput struct {
	CustomerName string
	Status       quotes.Status
	Quotation    pricing.Quotation
}

// Price computes a quotation without saving it.
func (s *Service) Price(ctx context.Context, q pricing.Quotation) (pricing.QuotationPricing, error) {
	return s.price(ctx, opPrice, q)
}

// Create prices the quotation and stores both the input and the result.
func (s *Service) Create(ctx context.Context, in CreateInput) (quotes.Quotation, error) {
	priced, err := s.price(ctx, opCreate, in.Quotation)
	if err != nil {
		return quotes.Quotation{}, err
	}

	saved, err := s.store.Create(ctx, quotes.NewQuotation{
		CustomerName: in.CustomerName,
		Status:       in.Status,
		Input:        in.Quotation,
		Pricing:      priced,
	})
	if err != nil {
		s.fail(ctx, opCreate, err)
		return quotes.Quotation{}, err
	}

	ctx = s.log.WithQuotationID(ctx, saved.ID)
	ctx = s.log.WithFields(ctx, map[string]any{"number": saved.Number, "total": pricing.Format(saved.TotalAmount)})
	s.log.Info(ctx, "quotation.created")
	return saved, nil
}

// Recalculate re-prices a stored quotation against the current catalog. The stored
// snapshot is replaced only when every item prices successfully.
func (s *Service) Recalculate(ctx context.Context, id int64) (quotes.Quotation, error) {
	ctx = s.log.WithQuotationID(ctx, id)

	current, err := s.store.Get(ctx, id)
	if err != nil {
		return quotes.Quotation{}, err
	}

	priced, err := s.price(ctx, opRecalculate, current.Input)
	if err != nil {
		return quotes.Quotation{}, err
	}

	updated, err := s.store.UpdatePricing(ctx, id, priced)
	if err != nil {
		s.fail(ctx, opRecalculate, err)
		return quotes.Quotation{}, err
	}

	ctx = s.log.WithFields(ctx, map[string]any{
		"previous_total": pricing.Format(current.TotalAmount),
		"total":          pricing.Format(updated.TotalAmount),
	})
	s.log.Info(ctx, "quotation.recalculated")
	return updated, nil
}

func (s *Service) Get(ctx context.Context, id int64) (quotes.Quotation, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, query string, limit int) ([]quotes.Summary, error) {
	return s.store.List(ctx, query, limit)
}

// NestedPreview expands one nested attribute with the given multiplier and child options.
func (s *Service) NestedPreview(ctx context.Context, attributeID int64, multiplier decimal.Decimal, childOptions map[int64]int64) (pricing.NestedBreakdown, error) {
	calc, err := s.calculator(ctx)
	if err != nil {
		s.fail(ctx, opPreview, err)
		return pricing.NestedBreakdown{}, err
	}
	b, err := calc.ExpandNested(attributeID, multiplier, childOptions)
	if err != nil {
		s.fail(ctx, opPreview, err)
		return pricing.NestedBreakdown{}, err
	}
	return b, nil
}

func (s *Service) calculator(ctx context.Context) (*pricing.Calculator, error) {
	cat, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return pricing.NewCalculator(cat, pricing.WithMaxDepth(s.maxDepth)), nil
}

func (s *Service) price(ctx context.Context, op string, q pricing.Quotation) (pricing.QuotationPricing, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDuration(op, time.Since(start)) }()

	calc, err := s.calculator(ctx)
	if err != nil {
		s.fail(ctx, op, err)
		return pricing.QuotationPricing{}, err
	}

	priced, err := calc.PriceQuotation(q)
	if err != nil {
		s.fail(ctx, op, err)
		return pricing.QuotationPricing{}, err
	}

	s.recordAdjustments(ctx, priced)
	s.metrics.IncPriced(op)
	return priced, nil
}

func (s *Service) recordAdjustments(ctx context.Context, priced pricing.QuotationPricing) {
	for i, item := range priced.Items {
		for _, adj := range item.Adjustments() {
			s.metrics.AddAdjustment(string(adj.Code))
			fields := map[string]any{
				"item":    i,
				"code":    string(adj.Code),
				"details": adj.Message,
			}
			if adj.AttributeID != 0 {
				fields["attribute_id"] = adj.AttributeID
			}
			s.log.Warn(s.log.WithFields(ctx, fields), "pricing.adjustment")
		}
	}
}

func (s *Service) fail(ctx context.Context, op string, err error) {
	code := pkgerrors.CodeInternal
	if typed := pkgerrors.As(err); typed != nil {
		code = typed.Code()
	}
	s.metrics.IncFailure(op, string(code))
	ctx = s.log.WithFields(ctx, map[string]any{"operation": op, "error_code": string(code)})
	s.log.Error(ctx, "pricing.failed", err)
}
