package form

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/toughstock/internal/domain"
)

func TestCustomCategoryRestoresSelection(t *testing.T) {
	f := New()
	f.SelectCategory("Food")
	f.EnterCustomMode()
	assert.True(t, f.InCustomMode())
	assert.Equal(t, "", f.Category())

	f.SetCustomCategory("  Dairy ")
	assert.Equal(t, "Dairy", f.Category())
	assert.True(t, f.IsNewCategory([]string{"Food", "Clothing"}))

	f.CancelCustomMode()
	assert.False(t, f.InCustomMode())
	assert.Equal(t, "Food", f.Category())
	assert.False(t, f.IsNewCategory([]string{"Food"}))

	sel, ok := f.Selected()
	assert.True(t, ok)
	assert.Equal(t, "Food", sel)
}

func TestSetField(t *testing.T) {
	f := New()
	f.SetField("quantity", " 12 ")
	f.SetField("price", "2.99")
	f.SetField("expiryDate", "2024-05-01")
	assert.Equal(t, 12, f.Quantity)
	assert.True(t, f.Price.Equal(decimal.RequireFromString("2.99")))
	require.NotNil(t, f.ExpiryDate)
	assert.Equal(t, "2024-05-01", f.ExpiryDate.String())

	f.SetField("quantity", "lots")
	f.SetField("price", "cheap")
	f.SetField("expiryDate", "someday")
	assert.Equal(t, 12, f.Quantity, "invalid input keeps the previous value")

	errs := f.Validate()
	assert.Equal(t, "Quantity must be a whole number", errs["quantity"])
	assert.Equal(t, "Price must be a number", errs["price"])
	assert.Equal(t, "Expiry date is not a valid date", errs["expiryDate"])

	f.SetField("quantity", "3")
	assert.NotContains(t, f.Validate(), "quantity")

	f.SetField("expiryDate", "")
	assert.Nil(t, f.ExpiryDate)
}

func TestDraft(t *testing.T) {
	f := New()
	_, err := f.Draft()
	require.Error(t, err)
	verr := err.(*domain.ValidationError)
	assert.Equal(t, domain.MsgNameRequired, verr.Fields["name"])
	assert.Equal(t, domain.MsgCategoryRequired, verr.Fields["category"])

	f.SetField("name", " Milk ")
	f.SelectCategory("Food")
	f.SetField("quantity", "4")
	f.SetField("price", "2.99")
	f.SetField("notes", "Refrigerated")
	d, err := f.Draft()
	require.NoError(t, err)
	assert.Equal(t, "Milk", d.Name)
	assert.Equal(t, "Food", d.Category)
	assert.Equal(t, 4, d.Quantity)
	assert.Nil(t, d.ExpiryDate)

	f.SetField("quantity", "-1")
	_, err = f.Draft()
	require.Error(t, err)
	assert.Equal(t, domain.MsgQuantityNegative, err.(*domain.ValidationError).Fields["quantity"])
}

func TestEditForm(t *testing.T) {
	expiry := domain.NewDate(2024, 5, 1)
	p := domain.Product{
		ID:         "5",
		Name:       "Milk",
		Category:   "Food",
		Quantity:   4,
		Price:      decimal.RequireFromString("2.99"),
		ExpiryDate: &expiry,
	}
	f := FromProduct(p)
	assert.True(t, f.IsEditing())
	assert.Equal(t, "5", f.EditingID())
	assert.Equal(t, "Food", f.Category())

	patch, err := f.Patch()
	require.NoError(t, err)
	got := patch.Apply(p)
	assert.Equal(t, p.Name, got.Name)
	assert.True(t, p.ExpiryDate.Equal(*got.ExpiryDate))

	f.SetField("expiryDate", "")
	patch, err = f.Patch()
	require.NoError(t, err)
	assert.True(t, patch.ClearExpiryDate)
	assert.Nil(t, patch.Apply(p).ExpiryDate)

	assert.False(t, New().IsEditing())
}
