// Computes dashboard aggregates over the record collections.

package records

import (
	"cmp"
	"iter"
	"slices"
	"time"

	"github.com/maruel/admindash/internal/storage/entity"
)

const (
	// RecentProductsLimit is the number of products in Summary.RecentProducts.
	RecentProductsLimit = 5
	// TrendMonths is the number of calendar months in each trend series.
	TrendMonths = 6
)

// Bucket is one labelled value of a chart series.
type Bucket struct {
	Label string
	Value float64
}

// Summary holds the dashboard aggregates.
type Summary struct {
	TotalUsers    int
	TotalProducts int
	// Revenue is the sum of all product prices.
	Revenue float64
	// CategoryCount is the number of distinct categories, counting
	// uncategorized products as one category.
	CategoryCount int
	// UsersByRole is ordered Admin, Editor, Viewer. Users without a role
	// count as viewers.
	UsersByRole []Bucket
	// ProductsByCategory is ordered by count descending, ties in first
	// appearance order.
	ProductsByCategory []Bucket
	// RecentProducts holds the most recently modified products, newest first.
	RecentProducts []*Product
	// Signups counts users created per calendar month (UTC), oldest first,
	// ending with the current month.
	Signups []Bucket
	// RevenueTrend sums the prices of products created per calendar month,
	// aligned with Signups.
	RevenueTrend []Bucket
}

// Summarize computes the dashboard aggregates in a single pass over each
// collection. now determines the trend window.
func Summarize(users iter.Seq[*User], products iter.Seq[*Product], now time.Time) *Summary {
	s := &Summary{}
	months := monthWindow(now, TrendMonths)
	s.Signups = make([]Bucket, len(months))
	s.RevenueTrend = make([]Bucket, len(months))
	for i, m := range months {
		s.Signups[i].Label = m.Month().String()[:3]
		s.RevenueTrend[i].Label = s.Signups[i].Label
	}

	roleCounts := make(map[entity.UserRole]int, len(entity.Roles))
	for u := range users {
		s.TotalUsers++
		role := u.Role
		if !role.IsValid() {
			role = entity.UserRoleViewer
		}
		roleCounts[role]++
		if i := monthIndex(months, u.Created); i >= 0 {
			s.Signups[i].Value++
		}
	}
	for _, r := range entity.Roles {
		s.UsersByRole = append(s.UsersByRole, Bucket{Label: r.Title(), Value: float64(roleCounts[r])})
	}

	var all []*Product
	catIndex := make(map[string]int)
	for p := range products {
		s.TotalProducts++
		s.Revenue += p.Price
		all = append(all, p)
		cat := p.CategoryOrDefault()
		if i, ok := catIndex[cat]; ok {
			s.ProductsByCategory[i].Value++
		} else {
			catIndex[cat] = len(s.ProductsByCategory)
			s.ProductsByCategory = append(s.ProductsByCategory, Bucket{Label: cat, Value: 1})
		}
		if i := monthIndex(months, p.Created); i >= 0 {
			s.RevenueTrend[i].Value += p.Price
		}
	}
	s.CategoryCount = len(s.ProductsByCategory)
	slices.SortStableFunc(s.ProductsByCategory, func(a, b Bucket) int {
		return cmp.Compare(b.Value, a.Value)
	})
	if s.ProductsByCategory == nil {
		s.ProductsByCategory = []Bucket{}
	}

	// Ties go to the later insertion.
	slices.Reverse(all)
	slices.SortStableFunc(all, func(a, b *Product) int {
		return b.Modified.Compare(a.Modified)
	})
	s.RecentProducts = all[:min(len(all), RecentProductsLimit)]
	if s.RecentProducts == nil {
		s.RecentProducts = []*Product{}
	}
	return s
}

// monthWindow returns the first instant of the n calendar months ending with
// the month containing now, oldest first.
func monthWindow(now time.Time, n int) []time.Time {
	now = now.UTC()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := range n {
		out[i] = current.AddDate(0, i-n+1, 0)
	}
	return out
}

// monthIndex returns the index of the month containing t, or -1.
func monthIndex(months []time.Time, t time.Time) int {
	t = t.UTC()
	for i, m := range months {
		if t.Year() == m.Year() && t.Month() == m.Month() {
			return i
		}
	}
	return -1
}
