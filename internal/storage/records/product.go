package records

import (
	"iter"
	"strings"

	"github.com/maruel/admindash/internal/memdb"
)

// Product is a catalog record.
type Product struct {
	memdb.Meta
	Name        string  `json:"name" jsonschema:"description=Product name"`
	Description *string `json:"description,omitempty" jsonschema:"description=Optional free-form description"`
	Price       float64 `json:"price" jsonschema:"description=Unit price (non-negative)"`
	Category    *string `json:"category,omitempty" jsonschema:"description=Optional category label"`
}

// Clone returns a deep copy of the product.
func (p *Product) Clone() *Product {
	c := *p
	c.Description = cloneString(p.Description)
	c.Category = cloneString(p.Category)
	return &c
}

// SearchFields implements memdb.Row.
func (p *Product) SearchFields() []string {
	fields := []string{p.Name}
	if p.Description != nil {
		fields = append(fields, *p.Description)
	}
	if p.Category != nil {
		fields = append(fields, *p.Category)
	}
	return fields
}

// Normalize implements memdb.Row.
//
// Optional strings are trimmed; a blank value is kept as "" and stays
// distinct from an absent one.
func (p *Product) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = trimOptional(p.Description)
	p.Category = trimOptional(p.Category)
}

// CategoryOrDefault returns the category, or "Uncategorized" when absent or
// blank.
func (p *Product) CategoryOrDefault() string {
	if p.Category == nil || *p.Category == "" {
		return Uncategorized
	}
	return *p.Category
}

// Uncategorized labels products without a category in aggregates.
const Uncategorized = "Uncategorized"

// ProductFields holds the fields of a new product.
type ProductFields struct {
	Name        string
	Description *string
	Price       float64
	Category    *string
}

// ProductPatch holds the fields to change on a product. Nil fields are left
// as is; a blank optional string sets it to "".
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
}

// ProductService manages product records.
type ProductService struct {
	table *memdb.Table[*Product]
}

// NewProductService creates an empty product service.
func NewProductService(opts ...memdb.Option) *ProductService {
	return &ProductService{table: memdb.NewTable[*Product](opts...)}
}

// List returns one page of products matching search by name, description or
// category, and the number of matching products.
func (s *ProductService) List(page, limit int, search string) ([]*Product, int) {
	return s.table.List(page, limit, search)
}

// Get retrieves a product by ID.
func (s *ProductService) Get(id string) (*Product, error) {
	p, ok := s.table.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

// Create creates a new product.
func (s *ProductService) Create(f ProductFields) (*Product, error) {
	p, err := s.table.Insert(&Product{
		Name:        f.Name,
		Description: cloneString(f.Description),
		Price:       f.Price,
		Category:    cloneString(f.Category),
	})
	if err != nil {
		return nil, translateErr(err)
	}
	return p, nil
}

// Update applies a patch to a product.
func (s *ProductService) Update(id string, patch ProductPatch) (*Product, error) {
	p, err := s.table.Update(id, func(p *Product) error {
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Description != nil {
			p.Description = cloneString(patch.Description)
		}
		if patch.Price != nil {
			p.Price = *patch.Price
		}
		if patch.Category != nil {
			p.Category = cloneString(patch.Category)
		}
		return nil
	})
	if err != nil {
		return nil, translateErr(err)
	}
	return p, nil
}

// Delete deletes a product and reports whether it existed.
func (s *ProductService) Delete(id string) bool {
	return s.table.Delete(id)
}

// Len returns the number of products.
func (s *ProductService) Len() int {
	return s.table.Len()
}

// All iterates over all products in creation order.
func (s *ProductService) All() iter.Seq[*Product] {
	return s.table.All()
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
