package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day format fares are stored and exchanged in.
const DateLayout = "2006-01-02"

// Category classifies a fare.
type Category string

const (
	CategoryActivities     Category = "activities"
	CategoryEntertainment  Category = "entertainment"
	CategoryFoodDrink      Category = "food_drink"
	CategoryHousing        Category = "housing"
	CategoryShopping       Category = "shopping"
	CategoryTransportation Category = "transportation"
	CategoryMisc           Category = "misc"
)

// DefaultCategory is used when a fare is created without one.
const DefaultCategory = CategoryActivities

var categoryLabels = map[Category]string{
	CategoryActivities:     "Activities",
	CategoryEntertainment:  "Entertainment",
	CategoryFoodDrink:      "Food & Drink",
	CategoryHousing:        "Housing",
	CategoryShopping:       "Shopping",
	CategoryTransportation: "Transportation",
	CategoryMisc:           "Miscellaneous",
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the human-readable name. Unknown categories label as themselves.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Fare represents a single recorded expense within a share.
type Fare struct {
	// ID is the unique identifier for the fare (UUID format).
	ID string

	// ShareID is the owning share.
	ShareID string

	// Name describes the expense (e.g., "Dinner at Ramiro").
	Name string

	// Amount is the total paid, in the share's currency.
	Amount decimal.Decimal

	// Date is the calendar day the expense was paid.
	Date time.Time

	// Category classifies the expense.
	Category Category

	// PaidBy is the user ID of the participant who paid.
	PaidBy string

	// SplitBetween is the ordered set of user IDs the amount is divided
	// equally among. May be empty, in which case nobody owes anything for it.
	SplitBetween []string

	// CreatedAt is the Unix timestamp when the fare was recorded.
	CreatedAt int64
}

// InSplit reports whether userID shares the cost of the fare.
func (f *Fare) InSplit(userID string) bool {
	return slices.Contains(f.SplitBetween, userID)
}
