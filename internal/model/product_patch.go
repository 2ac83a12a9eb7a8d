package model

import (
	"strings"

	"cashierhub-api/pkg/apperr"

	"github.com/shopspring/decimal"
)

// ProductPatch is a partial product update. "type" is accepted as an alias of
// "category"; when both are sent, category wins.
type ProductPatch struct {
	Name     Field[string]          `json:"name"`
	Category Field[string]          `json:"category"`
	Type     Field[string]          `json:"type"`
	Code     Field[string]          `json:"code"`
	Stock    Field[int]             `json:"stock"`
	Price    Field[decimal.Decimal] `json:"price"`
}

// CategoryName returns the requested category, if any.
func (p ProductPatch) CategoryName() (string, bool, error) {
	field := p.Category
	if !field.Set {
		field = p.Type
	}
	if !field.Set {
		return "", false, nil
	}
	v, ok := field.Get()
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", false, apperr.Validation("category cannot be empty")
	}
	return v, true, nil
}

// Columns compiles every field except the category, which needs a lookup.
func (p ProductPatch) Columns() (map[string]interface{}, error) {
	cols := make(map[string]interface{})

	if p.Name.Set {
		v, ok := p.Name.Get()
		if !ok || strings.TrimSpace(v) == "" {
			return nil, apperr.Validation("name cannot be empty")
		}
		cols["name"] = strings.TrimSpace(v)
	}
	if p.Code.Set {
		v, ok := p.Code.Get()
		if !ok || strings.TrimSpace(v) == "" {
			return nil, apperr.Validation("code cannot be empty")
		}
		cols["code"] = strings.TrimSpace(v)
	}
	if p.Stock.Set {
		v, ok := p.Stock.Get()
		if !ok || v < 0 {
			return nil, apperr.Validation("stock must be zero or more")
		}
		if v > MaxQuantity {
			return nil, apperr.Validation("stock is too large")
		}
		cols["stock"] = v
	}
	if p.Price.Set {
		v, ok := p.Price.Get()
		if !ok || v.IsNegative() {
			return nil, apperr.Validation("price must be zero or more")
		}
		if !AmountInRange(v) {
			return nil, apperr.Validation("price is too large")
		}
		cols["price"] = v
	}
	return cols, nil
}
