// Package form holds the editable state of a product form before it becomes a draft.
package form

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/talkincode/toughstock/internal/domain"
)

// ProductForm separates the selected category from the custom-entry mode so leaving
// custom entry restores the previous selection.
type ProductForm struct {
	Name       string
	Quantity   int
	Price      decimal.Decimal
	ExpiryDate *domain.Date
	Notes      string

	selected   *string
	customMode bool
	customText string

	editingID string
	errors    map[string]string
}

// New returns an empty form for a new product.
func New() *ProductForm {
	return &ProductForm{Price: decimal.Zero}
}

// FromProduct pre-fills the form for editing p.
func FromProduct(p domain.Product) *ProductForm {
	f := &ProductForm{
		Name:      p.Name,
		Quantity:  p.Quantity,
		Price:     p.Price,
		Notes:     p.Notes,
		editingID: p.ID,
	}
	if p.HasExpiry() {
		d := *p.ExpiryDate
		f.ExpiryDate = &d
	}
	f.SelectCategory(p.Category)
	return f
}

// EditingID is the id of the product being edited, empty for a new product.
func (f *ProductForm) EditingID() string { return f.editingID }

func (f *ProductForm) IsEditing() bool { return f.editingID != "" }

// SelectCategory picks an existing category and leaves custom-entry mode.
func (f *ProductForm) SelectCategory(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		f.selected = nil
	} else {
		f.selected = &name
	}
	f.customMode = false
	f.customText = ""
	f.clearError("category")
}

// EnterCustomMode switches to typing a new category. The selection is kept.
func (f *ProductForm) EnterCustomMode() {
	f.customMode = true
	f.customText = ""
}

// SetCustomCategory sets the text typed in custom-entry mode.
func (f *ProductForm) SetCustomCategory(text string) {
	f.customMode = true
	f.customText = text
	f.clearError("category")
}

// CancelCustomMode returns to the previously selected category.
func (f *ProductForm) CancelCustomMode() {
	f.customMode = false
	f.customText = ""
}

func (f *ProductForm) InCustomMode() bool { return f.customMode }

// Selected returns the selected existing category, if any.
func (f *ProductForm) Selected() (string, bool) {
	if f.selected == nil {
		return "", false
	}
	return *f.selected, true
}

// Category resolves the effective category: the custom text in custom-entry mode,
// otherwise the selection.
func (f *ProductForm) Category() string {
	if f.customMode {
		return strings.TrimSpace(f.customText)
	}
	if f.selected == nil {
		return ""
	}
	return *f.selected
}

// IsNewCategory reports whether the effective category is missing from known.
func (f *ProductForm) IsNewCategory(known []string) bool {
	c := f.Category()
	if c == "" {
		return false
	}
	for _, k := range known {
		if k == c {
			return false
		}
	}
	return true
}

// SetField assigns a raw input value. Numeric fields that cannot be parsed record a
// field error and keep their previous value.
func (f *ProductForm) SetField(name, value string) {
	f.clearError(name)
	switch name {
	case "name":
		f.Name = value
	case "notes":
		f.Notes = value
	case "quantity":
		n, err := cast.ToIntE(strings.TrimSpace(value))
		if err != nil {
			f.setError(name, "Quantity must be a whole number")
			return
		}
		f.Quantity = n
	case "price":
		v := strings.TrimSpace(value)
		if v == "" {
			f.Price = decimal.Zero
			return
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			f.setError(name, "Price must be a number")
			return
		}
		f.Price = d
	case "expiryDate":
		if strings.TrimSpace(value) == "" {
			f.ExpiryDate = nil
			return
		}
		d, err := domain.ParseDate(value)
		if err != nil {
			f.setError(name, "Expiry date is not a valid date")
			return
		}
		f.ExpiryDate = &d
	}
}

// Validate returns the per-field messages, empty when the form can be submitted.
// Input errors recorded by SetField are included.
func (f *ProductForm) Validate() map[string]string {
	out := make(map[string]string)
	for k, v := range f.errors {
		out[k] = v
	}
	add := func(field, msg string) {
		if _, ok := out[field]; !ok {
			out[field] = msg
		}
	}
	if strings.TrimSpace(f.Name) == "" {
		add("name", domain.MsgNameRequired)
	}
	if f.Category() == "" {
		add("category", domain.MsgCategoryRequired)
	}
	if f.Quantity < 0 {
		add("quantity", domain.MsgQuantityNegative)
	}
	if f.Price.IsNegative() {
		add("price", domain.MsgPriceNegative)
	}
	return out
}

// Draft converts the form into a product draft, or a *domain.ValidationError.
func (f *ProductForm) Draft() (domain.ProductDraft, error) {
	if errs := f.Validate(); len(errs) > 0 {
		return domain.ProductDraft{}, &domain.ValidationError{Fields: errs}
	}
	d := domain.ProductDraft{
		Name:     f.Name,
		Category: f.Category(),
		Quantity: f.Quantity,
		Price:    f.Price,
		Notes:    f.Notes,
	}
	if f.ExpiryDate != nil {
		e := *f.ExpiryDate
		d.ExpiryDate = &e
	}
	d.Normalize()
	return d, nil
}

// Patch converts the form into a full overwrite of the edited product.
func (f *ProductForm) Patch() (domain.ProductPatch, error) {
	d, err := f.Draft()
	if err != nil {
		return domain.ProductPatch{}, err
	}
	p := domain.ProductPatch{
		Name:     &d.Name,
		Category: &d.Category,
		Quantity: &d.Quantity,
		Price:    &d.Price,
		Notes:    &d.Notes,
	}
	if d.ExpiryDate != nil {
		p.ExpiryDate = d.ExpiryDate
	} else {
		p.ClearExpiryDate = true
	}
	return p, nil
}

func (f *ProductForm) setError(field, msg string) {
	if f.errors == nil {
		f.errors = make(map[string]string)
	}
	f.errors[field] = msg
}

func (f *ProductForm) clearError(field string) {
	delete(f.errors, field)
}
