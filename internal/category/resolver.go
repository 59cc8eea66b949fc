package category

import (
	"strconv"
	"strings"

	"github.com/dompetku/dompet/internal/model"
)

// Resolver maps raw category references onto rows of the category table.
// It is constructed once from the loaded table and injected wherever a
// category has to be resolved; resolution never fails, malformed input
// degrades to the type-appropriate fallback ID.
type Resolver struct {
	byID map[int]model.Category
}

// NewResolver builds a resolver over the given category rows (defaults
// plus the user's custom categories).
func NewResolver(categories []model.Category) *Resolver {
	byID := make(map[int]model.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	return &Resolver{byID: byID}
}

// Resolve turns a raw category reference into an existing category ID.
//
// Numeric input (or a numeric string) is treated as a category ID and
// accepted when the table contains it. A string with an internal
// separator is treated as a legacy key and mapped through the fixed
// key table. Anything else, including empty input and unknown keys,
// falls back to the default category for the transaction type.
func (r *Resolver) Resolve(raw string, txnType model.TransactionType) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Fallback(txnType)
	}

	if id, err := strconv.Atoi(raw); err == nil {
		if _, ok := r.byID[id]; ok {
			return id
		}
		return Fallback(txnType)
	}

	if strings.Contains(raw, "_") {
		if id, ok := keyToID[raw]; ok {
			return id
		}
	}

	return Fallback(txnType)
}

// Lookup returns the category row for an ID.
func (r *Resolver) Lookup(id int) (model.Category, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// DisplayName renders the category's name in the requested language.
// Unknown IDs render as a localized "Other" rather than failing; display
// paths must never surface a resolution error.
func (r *Resolver) DisplayName(id int, lang model.Language) string {
	if c, ok := r.byID[id]; ok {
		return c.Name(lang)
	}
	if lang == model.LangID {
		return "Lainnya"
	}
	return "Other"
}

// Fallback returns the default category ID for a transaction type.
func Fallback(txnType model.TransactionType) int {
	switch txnType {
	case model.TypeTransfer:
		return SystemTransferID
	case model.TypeIncome:
		return IncomeOtherID
	default:
		return ExpenseOtherID
	}
}
