package catalog

import (
	"encoding/json"
	"testing"
)

func TestSortValid(t *testing.T) {
	cases := []struct {
		name string
		sort *Sort
		want bool
	}{
		{"nil", nil, false},
		{"asc", &Sort{Field: "price", Order: OrderAsc}, true},
		{"desc", &Sort{Field: "title", Order: OrderDesc}, true},
		{"blank field", &Sort{Field: "  ", Order: OrderAsc}, false},
		{"unknown order", &Sort{Field: "price", Order: "up"}, false},
		{"missing order", &Sort{Field: "price"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.sort.Valid(); got != tc.want {
				t.Fatalf("Valid() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSortEqualAndClone(t *testing.T) {
	var none *Sort
	if !none.Equal(nil) {
		t.Fatalf("nil sorts should be equal")
	}
	s := &Sort{Field: "price", Order: OrderDesc}
	if s.Equal(nil) || none.Equal(s) {
		t.Fatalf("nil and non-nil sorts should differ")
	}
	dup := s.Clone()
	if !dup.Equal(s) {
		t.Fatalf("Clone() = %#v, want %#v", dup, s)
	}
	dup.Order = OrderAsc
	if s.Order != OrderDesc {
		t.Fatalf("Clone should not share storage")
	}
	if none.Clone() != nil {
		t.Fatalf("Clone of nil should be nil")
	}
}

func TestProductDecodesMissingRating(t *testing.T) {
	var p Product
	if err := json.Unmarshal([]byte(`{"id":1,"title":"Mug","price":"3.10","rating":null}`), &p); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if p.Rating != nil {
		t.Fatalf("Rating = %v, want nil", *p.Rating)
	}
	if p.Price.StringFixed(2) != "3.10" {
		t.Fatalf("Price = %s, want 3.10", p.Price)
	}
}

func TestLoginResponseDisplayName(t *testing.T) {
	if got := (LoginResponse{Username: "emilys"}).DisplayName(); got != "emilys" {
		t.Fatalf("DisplayName = %q, want emilys", got)
	}
	if got := (LoginResponse{Username: "emilys", FirstName: " Emily ", LastName: "Johnson"}).DisplayName(); got != "Emily Johnson" {
		t.Fatalf("DisplayName = %q, want Emily Johnson", got)
	}
}
