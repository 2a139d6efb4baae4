package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/shopmate/storefront/pkg/errors"
)

// ProductID is the canonical string form of a catalog product identifier.
// The catalog sends numbers while route parameters arrive as strings, so
// every identifier is normalised before it is compared.
type ProductID string

// NewProductID trims raw and strips leading zeros from all-digit ids, so
// "07", " 7 " and "7" compare equal.
func NewProductID(raw string) (ProductID, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", apperrors.InvalidInput("product id is required")
	}
	if isDigits(s) {
		s = strings.TrimLeft(s, "0")
		if s == "" {
			s = "0"
		}
	}
	return ProductID(s), nil
}

// Canonical returns id in normalised form, or "" when id is blank.
func (id ProductID) Canonical() ProductID {
	c, _ := NewProductID(string(id))
	return c
}

// String implements fmt.Stringer.
func (id ProductID) String() string { return string(id) }

// UnmarshalJSON accepts both JSON numbers and strings.
func (id *ProductID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}

	var raw string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return fmt.Errorf("decode product id: %w", err)
		}
	} else {
		// 7 and 7.0 name the same product; 7.5 names none.
		d, err := decimal.NewFromString(string(b))
		if err != nil {
			return fmt.Errorf("decode product id %s: %w", b, err)
		}
		if !d.IsInteger() {
			return apperrors.InvalidInput(fmt.Sprintf("product id %s is not an integer", b))
		}
		raw = d.String()
	}

	parsed, err := NewProductID(raw)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Rating is the catalog's aggregate review score.
type Rating struct {
	Rate  decimal.Decimal `json:"rate"`
	Count int             `json:"count"`
}

// Product is a catalog record. The store treats it as read-only.
type Product struct {
	ID          ProductID       `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Rating      *Rating         `json:"rating,omitempty"`
}

// Validate reports whether p is complete enough to be held in the cart or
// wishlist.
func (p Product) Validate() error {
	if p.ID == "" {
		return apperrors.InvalidInput("product id is required")
	}
	if p.Price.IsNegative() {
		return apperrors.InvalidInput(fmt.Sprintf("product %s has a negative price", p.ID))
	}
	return nil
}

// Clone returns a copy of p that shares no memory with it.
func (p Product) Clone() Product {
	if p.Rating != nil {
		r := *p.Rating
		p.Rating = &r
	}
	return p
}
