// Package forms validates user input for the login and add-product screens.
package forms

import (
	"sort"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/five82/stockroom/internal/catalog"
)

// Field names used as FieldErrors keys.
const (
	FieldUsername = "username"
	FieldPassword = "password"
	FieldTitle    = "title"
	FieldPrice    = "price"
	FieldBrand    = "brand"
	FieldSKU      = "sku"
)

// ErrInvalid is returned when a form has field errors.
var ErrInvalid = errors.New("form has invalid fields")

// FieldErrors maps a field name to its inline message.
type FieldErrors map[string]string

// Empty reports whether no field failed.
func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

// Get returns the message for field, or "".
func (e FieldErrors) Get(field string) string {
	if e == nil {
		return ""
	}
	return e[field]
}

// Error lists the failing fields in a stable order.
func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return strings.Join(parts, "; ")
}

// ValidateLogin checks login input. The username is trimmed; the password is
// used as typed.
func ValidateLogin(username, password string) (catalog.LoginRequest, FieldErrors) {
	errs := FieldErrors{}
	req := catalog.LoginRequest{
		Username: strings.TrimSpace(username),
		Password: password,
	}
	if req.Username == "" {
		errs[FieldUsername] = "Enter login"
	}
	if req.Password == "" {
		errs[FieldPassword] = "Enter password"
	}
	if errs.Empty() {
		return req, nil
	}
	return req, errs
}

// ProductDraft is the raw text of the add-product form.
type ProductDraft struct {
	Title string
	Price string
	Brand string
	SKU   string
}

// Validate returns the inline errors for the draft, or nil.
func (d ProductDraft) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(d.Title) == "" {
		errs[FieldTitle] = "Enter a title"
	}
	if price := strings.TrimSpace(d.Price); price == "" {
		errs[FieldPrice] = "Enter a price"
	} else if _, err := parsePrice(price); err != nil {
		errs[FieldPrice] = "Enter a valid price"
	}
	if strings.TrimSpace(d.Brand) == "" {
		errs[FieldBrand] = "Enter a vendor"
	}
	if strings.TrimSpace(d.SKU) == "" {
		errs[FieldSKU] = "Enter an SKU"
	}
	if errs.Empty() {
		return nil
	}
	return errs
}

// Product converts a valid draft into a catalog product.
func (d ProductDraft) Product() (catalog.Product, error) {
	if errs := d.Validate(); errs != nil {
		return catalog.Product{}, errors.Wrap(ErrInvalid, errs.Error())
	}
	price, err := parsePrice(strings.TrimSpace(d.Price))
	if err != nil {
		return catalog.Product{}, err
	}
	return catalog.Product{
		Title: strings.TrimSpace(d.Title),
		Price: price,
		Brand: strings.TrimSpace(d.Brand),
		SKU:   strings.TrimSpace(d.SKU),
	}, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "parse price")
	}
	if !price.IsPositive() {
		return decimal.Decimal{}, errors.Errorf("price %s must be greater than zero", price)
	}
	return price, nil
}
