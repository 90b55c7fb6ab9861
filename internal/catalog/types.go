package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Order is the direction of a remote sort.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Valid reports whether o is one of the orders the API understands.
func (o Order) Valid() bool {
	return o == OrderAsc || o == OrderDesc
}

// Sort is a (field, direction) pair controlling remote ordering.
type Sort struct {
	Field string `json:"field" toml:"field"`
	Order Order  `json:"order" toml:"order"`
}

// Valid reports whether the sort names a field and a known order.
func (s *Sort) Valid() bool {
	if s == nil {
		return false
	}
	return strings.TrimSpace(s.Field) != "" && s.Order.Valid()
}

// Equal compares two optional sorts; two nil sorts are equal.
func (s *Sort) Equal(other *Sort) bool {
	if s == nil || other == nil {
		return s == nil && other == nil
	}
	return s.Field == other.Field && s.Order == other.Order
}

// Clone returns an independent copy of s.
func (s *Sort) Clone() *Sort {
	if s == nil {
		return nil
	}
	dup := *s
	return &dup
}

// ListParams configures /products and /products/search requests.
type ListParams struct {
	Limit int
	Skip  int
	Sort  *Sort
}

// Product mirrors a product record returned by the catalog API.
type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Rating      *float64        `json:"rating"`
	Brand       string          `json:"brand"`
	SKU         string          `json:"sku"`
	Stock       int             `json:"stock"`
	Thumbnail   string          `json:"thumbnail"`
	Images      []string        `json:"images"`
}

// ProductPage is one page of a product listing or search.
type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse mirrors a successful /auth/login payload.
type LoginResponse struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Gender       string `json:"gender"`
	Image        string `json:"image"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// DisplayName prefers the user's full name over the login.
func (r LoginResponse) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
	if name != "" {
		return name
	}
	return r.Username
}
