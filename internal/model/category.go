// Package model defines the core domain models used throughout the application.
package model

// Category is one label from the fixed expense-type enumeration.
type Category string

// The closed set of expense categories. CategoryOther is the default bucket
// for anything unclassifiable; it is a first-class member, not an error state.
const (
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryShopping      Category = "shopping"
	CategoryEntertainment Category = "entertainment"
	CategoryBills         Category = "bills"
	CategoryHealthcare    Category = "healthcare"
	CategoryEducation     Category = "education"
	CategoryTravel        Category = "travel"
	CategoryOther         Category = "other"
)

// Categories lists every valid category in canonical order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryTransport,
		CategoryShopping,
		CategoryEntertainment,
		CategoryBills,
		CategoryHealthcare,
		CategoryEducation,
		CategoryTravel,
		CategoryOther,
	}
}

// ValidCategory reports whether c is a member of the enumeration. The
// enumeration is the single source of truth for validity; manual overrides
// are checked against it before any write.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryFood, CategoryTransport, CategoryShopping, CategoryEntertainment,
		CategoryBills, CategoryHealthcare, CategoryEducation, CategoryTravel, CategoryOther:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
