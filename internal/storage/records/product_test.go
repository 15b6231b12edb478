package records

import (
	"errors"
	"strings"
	"testing"
)

func seedProducts(t *testing.T, s *ProductService) {
	t.Helper()
	for _, f := range []ProductFields{
		{Name: "Wireless Headphones", Description: ptr("Noise-cancelling over-ear headphones"), Price: 2990, Category: ptr("Electronics")},
		{Name: "Mechanical Keyboard", Description: ptr("RGB backlit, Cherry MX switches"), Price: 4590, Category: ptr("Electronics")},
		{Name: "Desk Lamp", Description: ptr("LED adjustable brightness"), Price: 890, Category: ptr("Office")},
	} {
		if _, err := s.Create(f); err != nil {
			t.Fatal(err)
		}
	}
}

func names(rows []*Product) string {
	var out []string
	for _, p := range rows {
		out = append(out, p.Name)
	}
	return strings.Join(out, ",")
}

func TestProductService(t *testing.T) {
	t.Run("SeededScenario", func(t *testing.T) {
		s := NewProductService()
		seedProducts(t, s)

		rows, total := s.List(1, 10, "")
		if total != 3 || len(rows) != 3 {
			t.Fatalf("List = %d rows, total %d; want 3, 3", len(rows), total)
		}
		if _, err := s.Create(ProductFields{Name: "Monitor", Price: 5990, Category: ptr("Electronics")}); err != nil {
			t.Fatal(err)
		}
		rows, total = s.List(1, 2, "electronics")
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
		if got := names(rows); got != "Wireless Headphones,Mechanical Keyboard" {
			t.Errorf("page 1 = %q", got)
		}
		rows, total = s.List(2, 2, "electronics")
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
		if got := names(rows); got != "Monitor" {
			t.Errorf("page 2 = %q", got)
		}
	})

	t.Run("Search", func(t *testing.T) {
		s := NewProductService()
		seedProducts(t, s)
		tests := []struct {
			search string
			want   string
		}{
			{"lamp", "Desk Lamp"},
			{"LAMP", "Desk Lamp"},
			{"lamps", ""},
			{"cherry", "Mechanical Keyboard"},
			{"office", "Desk Lamp"},
		}
		for _, tt := range tests {
			rows, total := s.List(1, 10, tt.search)
			if got := names(rows); got != tt.want {
				t.Errorf("List(%q) = %q, want %q", tt.search, got, tt.want)
			}
			if total != len(rows) {
				t.Errorf("List(%q) total = %d, want %d", tt.search, total, len(rows))
			}
		}
	})

	t.Run("OptionalFields", func(t *testing.T) {
		s := NewProductService()
		p, err := s.Create(ProductFields{Name: " Cable ", Description: ptr("   "), Price: 0})
		if err != nil {
			t.Fatal(err)
		}
		if p.Name != "Cable" {
			t.Errorf("Name = %q", p.Name)
		}
		if p.Description == nil || *p.Description != "" {
			t.Errorf("blank description must be kept as \"\": %v", p.Description)
		}
		if p.Category != nil {
			t.Errorf("Category = %q, want absent", *p.Category)
		}
		if p.CategoryOrDefault() != Uncategorized {
			t.Errorf("CategoryOrDefault = %q", p.CategoryOrDefault())
		}
		p, err = s.Create(ProductFields{Name: "Pen", Description: ptr(" Blue "), Category: ptr("")})
		if err != nil {
			t.Fatal(err)
		}
		if *p.Description != "Blue" || p.Category == nil || *p.Category != "" {
			t.Errorf("got description %v, category %v", p.Description, p.Category)
		}
		if p.CategoryOrDefault() != Uncategorized {
			t.Errorf("CategoryOrDefault = %q for blank category", p.CategoryOrDefault())
		}
	})

	t.Run("Update", func(t *testing.T) {
		s := NewProductService()
		seedProducts(t, s)
		before, err := s.Get("3")
		if err != nil {
			t.Fatal(err)
		}
		p, err := s.Update("3", ProductPatch{Price: ptr(990.5), Category: ptr(" ")})
		if err != nil {
			t.Fatal(err)
		}
		if p.Price != 990.5 {
			t.Errorf("Price = %v", p.Price)
		}
		if p.Category == nil || *p.Category != "" {
			t.Errorf("Category = %v, want \"\"", p.Category)
		}
		if p.Name != before.Name || *p.Description != *before.Description {
			t.Errorf("untouched fields changed: %+v -> %+v", before, p)
		}
		if _, err := s.Update("9", ProductPatch{}); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("GetReturnsCopy", func(t *testing.T) {
		s := NewProductService()
		seedProducts(t, s)
		p, _ := s.Get("1")
		*p.Category = "Mutated"
		again, _ := s.Get("1")
		if *again.Category != "Electronics" {
			t.Errorf("Category = %q, stored product was mutated", *again.Category)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		s := NewProductService()
		seedProducts(t, s)
		if !s.Delete("2") {
			t.Fatal("Delete(2) = false")
		}
		if s.Delete("2") {
			t.Error("second Delete(2) = true")
		}
		if _, err := s.Get("2"); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
		if s.Len() != 2 {
			t.Errorf("Len = %d, want 2", s.Len())
		}
	})
}
