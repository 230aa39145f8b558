package models

import (
	"net/url"
	"strconv"
)

type Sweet struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

func (s Sweet) InStock() bool {
	return s.Quantity > 0
}

// QueryFilter narrows a sweets listing. Zero-valued fields are absent and must
// not appear on the wire at all, not even as empty parameters.
type QueryFilter struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

func (f QueryFilter) IsZero() bool {
	return f.Name == "" && f.Category == "" && f.MinPrice == nil && f.MaxPrice == nil
}

func (f QueryFilter) Values() url.Values {
	values := url.Values{}
	if f.Name != "" {
		values.Set("name", f.Name)
	}
	if f.Category != "" {
		values.Set("category", f.Category)
	}
	if f.MinPrice != nil {
		values.Set("minPrice", formatPrice(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		values.Set("maxPrice", formatPrice(*f.MaxPrice))
	}
	return values
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
