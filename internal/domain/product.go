package domain

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Product is a single inventory line. The json layout is the persisted record layout
// under the "products" key.
type Product struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	ExpiryDate *Date           `json:"expiryDate"`
	Notes      string          `json:"notes"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Value is price × quantity.
func (p Product) Value() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// HasExpiry reports whether the product carries an expiry date.
func (p Product) HasExpiry() bool {
	return p.ExpiryDate != nil && !p.ExpiryDate.IsZero()
}

// ProductDraft is the caller supplied payload for a new product.
type ProductDraft struct {
	Name       string          `json:"name" validate:"required,max=200"`
	Category   string          `json:"category" validate:"required,max=100"`
	Quantity   int             `json:"quantity" validate:"gte=0"`
	Price      decimal.Decimal `json:"price"`
	ExpiryDate *Date           `json:"expiryDate"`
	Notes      string          `json:"notes" validate:"max=2000"`
}

// Normalize trims the text fields in place.
func (d *ProductDraft) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Category = strings.TrimSpace(d.Category)
	d.Notes = strings.TrimSpace(d.Notes)
}

// Validate checks the required fields. The draft is expected to be normalized.
func (d ProductDraft) Validate() error {
	verr := &ValidationError{}
	if err := validate.Struct(d); err != nil {
		collectFieldErrors(verr, err)
	}
	if d.Price.IsNegative() {
		verr.Add("price", MsgPriceNegative)
	}
	return verr.OrNil()
}

// ProductPatch carries the fields to overwrite on update. Nil means "leave unchanged";
// ClearExpiryDate removes the expiry date.
type ProductPatch struct {
	Name            *string          `json:"name,omitempty"`
	Category        *string          `json:"category,omitempty"`
	Quantity        *int             `json:"quantity,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	ExpiryDate      *Date            `json:"expiryDate,omitempty"`
	ClearExpiryDate bool             `json:"-"`
	Notes           *string          `json:"notes,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Category == nil && p.Quantity == nil && p.Price == nil &&
		p.ExpiryDate == nil && !p.ClearExpiryDate && p.Notes == nil
}

// Validate applies the draft rules to the fields present in the patch.
func (p ProductPatch) Validate() error {
	verr := &ValidationError{}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		verr.Add("name", MsgNameRequired)
	}
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		verr.Add("category", MsgCategoryRequired)
	}
	if p.Quantity != nil && *p.Quantity < 0 {
		verr.Add("quantity", MsgQuantityNegative)
	}
	if p.Price != nil && p.Price.IsNegative() {
		verr.Add("price", MsgPriceNegative)
	}
	return verr.OrNil()
}

// Apply merges the patch into p and returns the result.
func (p ProductPatch) Apply(dst Product) Product {
	if p.Name != nil {
		dst.Name = strings.TrimSpace(*p.Name)
	}
	if p.Category != nil {
		dst.Category = strings.TrimSpace(*p.Category)
	}
	if p.Quantity != nil {
		dst.Quantity = *p.Quantity
	}
	if p.Price != nil {
		dst.Price = *p.Price
	}
	switch {
	case p.ClearExpiryDate:
		dst.ExpiryDate = nil
	case p.ExpiryDate != nil:
		d := *p.ExpiryDate
		dst.ExpiryDate = &d
	}
	if p.Notes != nil {
		dst.Notes = strings.TrimSpace(*p.Notes)
	}
	return dst
}

// Messages shown for rejected fields.
const (
	MsgNameRequired     = "Product name is required"
	MsgCategoryRequired = "Category is required"
	MsgQuantityNegative = "Quantity cannot be negative"
	MsgPriceNegative    = "Price cannot be negative"
)

var validate = validator.New()

// Validator returns the shared validator instance so the web layer validates payloads
// with the same rules.
func Validator() *validator.Validate {
	return validate
}

func collectFieldErrors(verr *ValidationError, err error) {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		verr.Add("_", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		switch fe.Field() {
		case "Name":
			if fe.Tag() == "required" {
				verr.Add("name", MsgNameRequired)
			} else {
				verr.Add("name", "Product name is too long")
			}
		case "Category":
			if fe.Tag() == "required" {
				verr.Add("category", MsgCategoryRequired)
			} else {
				verr.Add("category", "Category is too long")
			}
		case "Quantity":
			verr.Add("quantity", MsgQuantityNegative)
		case "Notes":
			verr.Add("notes", "Notes are too long")
		default:
			verr.Add(strings.ToLower(fe.Field()), fe.Error())
		}
	}
}
