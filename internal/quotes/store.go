// Package quotes persists priced quotation snapshots in SQLite.
package quotes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/Simplici0/doorquote/internal/errors"
	"github.com/Simplici0/doorquote/internal/pricing"
)

const (
	timeLayout   = "2006-01-02 15:04:05"
	defaultLimit = 50
	maxLimit     = 200
)

type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Quotation is a stored snapshot. Pricing is exactly what was computed at save or
// recalculation time and is never recomputed on read.
type Quotation struct {
	ID           int64                    `json:"id"`
	Number       string                   `json:"number"`
	CustomerName string                   `json:"customer_name"`
	Status       Status                   `json:"status"`
	Input        pricing.Quotation        `json:"input"`
	Pricing      pricing.QuotationPricing `json:"pricing"`
	TotalAmount  decimal.Decimal          `json:"total_amount"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

// Summary is one row of a quotation listing.
type Summary struct {
	ID           int64           `json:"id"`
	Number       string          `json:"number"`
	CustomerName string          `json:"customer_name"`
	Status       Status          `json:"status"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	CreatedAt    time.Time       `json:"created_at"`
}

type NewQuotation struct {
	CustomerName string
	Status       Status
	Input        pricing.Quotation
	Pricing      pricing.QuotationPricing
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Create stores a new quotation with a generated number.
func (s *Store) Create(ctx context.Context, in NewQuotation) (Quotation, error) {
	if strings.TrimSpace(in.CustomerName) == "" {
		return Quotation{}, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if in.Status == "" {
		in.Status = StatusDraft
	}
	if !in.Status.Valid() {
		return Quotation{}, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown status %q", in.Status)
	}

	inputJSON, err := json.Marshal(in.Input)
	if err != nil {
		return Quotation{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode quotation input")
	}
	pricingJSON, err := json.Marshal(in.Pricing)
	if err != nil {
		return Quotation{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode quotation pricing")
	}

	now := s.now().Format(timeLayout)
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO quotations (number, customer_name, status, input_json, breakdown_json, total_amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, newNumber(), strings.TrimSpace(in.CustomerName), string(in.Status), string(inputJSON), string(pricingJSON),
		in.Pricing.Totals.TotalQuotationCost, now, now)
	if err != nil {
		return Quotation{}, dependencyError(err, "insert quotation")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Quotation{}, dependencyError(err, "read quotation id")
	}
	return s.Get(ctx, id)
}

// likeEscaper makes search terms match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func newNumber() string {
	return "Q-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

// Get returns the stored snapshot of quotation id.
func (s *Store) Get(ctx context.Context, id int64) (Quotation, error) {
	return getQuotation(ctx, s.db, id)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getQuotation(ctx context.Context, q queryRower, id int64) (Quotation, error) {
	var out Quotation
	var status, inputJSON, pricingJSON, createdAt, updatedAt string
	err := q.QueryRowContext(ctx, `
		SELECT id, number, customer_name, status, input_json, breakdown_json, total_amount, created_at, updated_at
		FROM quotations
		WHERE id = ?
	`, id).Scan(&out.ID, &out.Number, &out.CustomerName, &status, &inputJSON, &pricingJSON, &out.TotalAmount, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Quotation{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "quotation %d not found", id).With("id", id)
	}
	if err != nil {
		return Quotation{}, dependencyError(err, "query quotation")
	}

	out.Status = Status(status)
	if err := json.Unmarshal([]byte(inputJSON), &out.Input); err != nil {
		return Quotation{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode quotation input")
	}
	if err := json.Unmarshal([]byte(pricingJSON), &out.Pricing); err != nil {
		return Quotation{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode quotation pricing")
	}
	if out.CreatedAt, err = parseTime(createdAt); err != nil {
		return Quotation{}, err
	}
	if out.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return Quotation{}, err
	}
	return out, nil
}

// List returns quotations newest first. A non-empty query matches customer name or number.
func (s *Store) List(ctx context.Context, query string, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	query = strings.TrimSpace(query)
	search := "%" + likeEscaper.Replace(query) + "%"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, number, customer_name, status, total_amount, created_at
		FROM quotations
		WHERE (? = '' OR customer_name LIKE ? ESCAPE '\' OR number LIKE ? ESCAPE '\')
		ORDER BY datetime(created_at) DESC, id DESC
		LIMIT ?
	`, query, search, search, limit)
	if err != nil {
		return nil, dependencyError(err, "list quotations")
	}
	defer rows.Close()

	out := make([]Summary, 0)
	for rows.Next() {
		var item Summary
		var status, createdAt string
		if err := rows.Scan(&item.ID, &item.Number, &item.CustomerName, &status, &item.TotalAmount, &createdAt); err != nil {
			return nil, dependencyError(err, "scan quotation")
		}
		item.Status = Status(status)
		if item.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, dependencyError(err, "iterate quotations")
	}
	return out, nil
}

// UpdatePricing replaces the pricing snapshot and total of quotation id in one
// transaction. The input snapshot is left untouched.
func (s *Store) UpdatePricing(ctx context.Context, id int64, priced pricing.QuotationPricing) (Quotation, error) {
	pricingJSON, err := json.Marshal(priced)
	if err != nil {
		return Quotation{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode quotation pricing")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Quotation{}, dependencyError(err, "begin quotation update")
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE quotations
		SET breakdown_json = ?, total_amount = ?, updated_at = ?
		WHERE id = ?
	`, string(pricingJSON), priced.Totals.TotalQuotationCost, s.now().Format(timeLayout), id)
	if err != nil {
		return Quotation{}, dependencyError(err, "update quotation pricing")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Quotation{}, dependencyError(err, "read affected rows")
	}
	if n == 0 {
		return Quotation{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "quotation %d not found", id).With("id", id)
	}

	out, err := getQuotation(ctx, tx, id)
	if err != nil {
		return Quotation{}, err
	}
	if err := tx.Commit(); err != nil {
		return Quotation{}, dependencyError(err, "commit quotation update")
	}
	return out, nil
}

func parseTime(raw string) (time.Time, error) {
	for _, layout := range []string{timeLayout, time.RFC3339Nano} {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, pkgerrors.Newf(pkgerrors.CodeInternal, "unparseable timestamp %q", raw)
}

func dependencyError(err error, op string) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("%s: %w", op, err), "quotation storage")
}
