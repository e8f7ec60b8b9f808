package domain

import "time"

// Snapshot is a point-in-time copy of the product list and category set.
// Readers own it and may not observe later mutations.
type Snapshot struct {
	Products   []Product
	Categories []string
	TakenAt    time.Time
}

// HasCategory reports whether name is in the category set.
func (s Snapshot) HasCategory(name string) bool {
	for _, c := range s.Categories {
		if c == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of p.
func (p Product) Clone() Product {
	if p.ExpiryDate != nil {
		d := *p.ExpiryDate
		p.ExpiryDate = &d
	}
	return p
}
