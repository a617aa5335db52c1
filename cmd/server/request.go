package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/Simplici0/doorquote/internal/errors"
	"github.com/Simplici0/doorquote/internal/pricing"
	"github.com/Simplici0/doorquote/internal/quotes"
)

const (
	maxBodyBytes = 1 << 20
	defaultQty   = 1
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

type measurementRequest struct {
	UnitID int64               `json:"unit_id" validate:"gte=0"`
	Value1 decimal.Decimal     `json:"value1"`
	Value2 decimal.NullDecimal `json:"value2"`
}

type selectionRequest struct {
	AttributeID      int64                `json:"attribute_id" validate:"required,gt=0"`
	SelectedOptionID int64                `json:"selected_option_id" validate:"gte=0"`
	DoubleSide       bool                 `json:"double_side"`
	DirectCost       decimal.NullDecimal  `json:"direct_cost"`
	Measurements     []measurementRequest `json:"measurements" validate:"max=50,dive"`
	ChildOptions     map[int64]int64      `json:"child_options"`
}

type lineItemRequest struct {
	Length            decimal.Decimal    `json:"length"`
	Breadth           decimal.Decimal    `json:"breadth"`
	Quantity          *int               `json:"quantity" validate:"omitempty,gt=0"`
	ThicknessOptionID int64              `json:"thickness_option_id" validate:"required,gt=0"`
	DiscountAmount    decimal.Decimal    `json:"discount_amount"`
	TaxPercentage     decimal.Decimal    `json:"tax_percentage"`
	Selections        []selectionRequest `json:"selections" validate:"max=50,dive"`
}

type priceRequest struct {
	Items []lineItemRequest `json:"items" validate:"required,min=1,max=100,dive"`
}

type createQuotationRequest struct {
	CustomerName string            `json:"customer_name" validate:"required,max=200"`
	Status       string            `json:"status" validate:"omitempty,oneof=draft sent accepted rejected"`
	Items        []lineItemRequest `json:"items" validate:"required,min=1,max=100,dive"`
}

func (r createQuotationRequest) status() quotes.Status {
	return quotes.Status(r.Status)
}

// decodeJSONBody decodes a single JSON object, rejecting unknown fields, then validates it.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dest any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() {
		_, _ = io.Copy(io.Discard, body)
	}()

	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").With("error", err.Error())
	}
	if decoder.More() {
		return pkgerrors.New(pkgerrors.CodeValidation, "request body must contain a single JSON object")
	}
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		out := pkgerrors.New(pkgerrors.CodeValidation, "validation failed")
		for _, fieldErr := range errs {
			out = out.With(fieldPath(fieldErr), validationMessage(fieldErr))
		}
		return out
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

// fieldPath drops the root struct name, e.g. "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	}
	return "is invalid"
}

// toQuotation maps request items onto the pricing model. A missing quantity defaults to 1.
func toQuotation(items []lineItemRequest) (pricing.Quotation, error) {
	out := pricing.Quotation{Items: make([]pricing.LineItem, 0, len(items))}
	for i, it := range items {
		if !it.Length.IsPositive() || !it.Breadth.IsPositive() {
			return pricing.Quotation{}, pkgerrors.Newf(pkgerrors.CodeValidation, "item %d: length and breadth must be positive", i).
				With("item", i)
		}

		qty := defaultQty
		if it.Quantity != nil {
			qty = *it.Quantity
		}

		item := pricing.LineItem{
			Length:            it.Length,
			Breadth:           it.Breadth,
			Quantity:          qty,
			ThicknessOptionID: it.ThicknessOptionID,
			DiscountAmount:    it.DiscountAmount,
			TaxPercentage:     it.TaxPercentage,
			Selections:        make([]pricing.AttributeSelection, 0, len(it.Selections)),
		}
		for _, sel := range it.Selections {
			measurements := make([]pricing.Measurement, 0, len(sel.Measurements))
			for _, m := range sel.Measurements {
				measurements = append(measurements, pricing.Measurement{UnitID: m.UnitID, Value1: m.Value1, Value2: m.Value2})
			}
			item.Selections = append(item.Selections, pricing.AttributeSelection{
				AttributeID:      sel.AttributeID,
				SelectedOptionID: sel.SelectedOptionID,
				DoubleSide:       sel.DoubleSide,
				DirectCost:       sel.DirectCost,
				Measurements:     measurements,
				ChildOptions:     sel.ChildOptions,
			})
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}
