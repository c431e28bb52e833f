package inventory

import "github.com/shopspring/decimal"

// Category classifies an inventory item
type Category string

const (
	CategoryMedicine   Category = "Medicine"
	CategoryConsumable Category = "Consumable"
	CategoryGeneral    Category = "General"
	CategoryPathology  Category = "Pathology"
	CategoryRadiology  Category = "Radiology"
)

// IsValid checks if the category is one of the known categories
func (c Category) IsValid() bool {
	switch c {
	case CategoryMedicine, CategoryConsumable, CategoryGeneral, CategoryPathology, CategoryRadiology:
		return true
	}
	return false
}

// IsService reports whether the category is a billable diagnostic service
// rather than a physical product.
func (c Category) IsService() bool {
	return c == CategoryPathology || c == CategoryRadiology
}

// String returns the string representation
func (c Category) String() string {
	return string(c)
}

// AllCategories returns all valid categories
func AllCategories() []Category {
	return []Category{
		CategoryMedicine,
		CategoryConsumable,
		CategoryGeneral,
		CategoryPathology,
		CategoryRadiology,
	}
}

// allowedTaxRates are the GST slabs an item may carry.
var allowedTaxRates = []int64{0, 5, 12, 18, 28}

// IsValidTaxRate checks the rate against the GST slabs.
func IsValidTaxRate(rate decimal.Decimal) bool {
	for _, r := range allowedTaxRates {
		if rate.Equal(decimal.NewFromInt(r)) {
			return true
		}
	}
	return false
}
