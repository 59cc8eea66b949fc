package model

import "time"

// CategoryType indicates whether a category is for income, expense, or system use.
type CategoryType string

const (
	// CategoryTypeIncome represents categories for income transactions.
	CategoryTypeIncome CategoryType = "income"
	// CategoryTypeExpense represents categories for expense transactions.
	CategoryTypeExpense CategoryType = "expense"
	// CategoryTypeSystem represents system-managed categories (e.g., transfers).
	CategoryTypeSystem CategoryType = "system"
)

// Language selects which display name of a category is rendered.
type Language string

const (
	// LangEN selects English display names.
	LangEN Language = "en"
	// LangID selects Indonesian display names.
	LangID Language = "id"
)

// Category represents a transaction category with bilingual display names.
//
// Default categories are seeded once with stable numeric IDs and an
// optional legacy string key ("expense_food"); they have no owner and are
// immutable. User-created categories carry a non-empty OwnerID, have no
// legacy key, and can be edited or deleted by their owner as long as no
// transaction or budget references them.
type Category struct {
	CreatedAt time.Time
	Key       string // legacy string key, empty for custom categories
	NameEN    string
	NameID    string
	Icon      string
	Color     string
	OwnerID   string // empty for default/shared categories
	Type      CategoryType
	ID        int
}

// IsDefault reports whether the category is a seeded, shared category.
func (c *Category) IsDefault() bool {
	return c.OwnerID == ""
}

// Name returns the display name for the requested language, falling back
// to English when the Indonesian name is missing.
func (c *Category) Name(lang Language) string {
	if lang == LangID && c.NameID != "" {
		return c.NameID
	}
	return c.NameEN
}
