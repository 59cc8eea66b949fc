package category

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dompetku/dompet/internal/model"
)

func seededCategories() []model.Category {
	cats := make([]model.Category, 0, len(Seeds))
	for _, s := range Seeds {
		cats = append(cats, model.Category{
			ID:     s.ID,
			Key:    s.Key,
			NameEN: s.NameEN,
			NameID: s.NameID,
			Type:   s.Type,
		})
	}
	return cats
}

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(seededCategories())

	tests := []struct {
		name    string
		raw     string
		txnType model.TransactionType
		want    int
	}{
		{name: "legacy food key", raw: "expense_food", txnType: model.TypeExpense, want: 2},
		{name: "legacy salary key", raw: "income_salary", txnType: model.TypeIncome, want: 13},
		{name: "unknown legacy key falls back to expense other", raw: "unknown_key_xyz", txnType: model.TypeExpense, want: ExpenseOtherID},
		{name: "unknown key on income falls back to income other", raw: "mystery_key", txnType: model.TypeIncome, want: IncomeOtherID},
		{name: "numeric string", raw: "7", txnType: model.TypeExpense, want: 7},
		{name: "numeric string with spaces", raw: " 15 ", txnType: model.TypeIncome, want: 15},
		{name: "numeric ID absent from table falls back", raw: "999", txnType: model.TypeExpense, want: ExpenseOtherID},
		{name: "empty input on transfer", raw: "", txnType: model.TypeTransfer, want: SystemTransferID},
		{name: "empty input on income", raw: "", txnType: model.TypeIncome, want: IncomeOtherID},
		{name: "empty input on expense", raw: "", txnType: model.TypeExpense, want: ExpenseOtherID},
		{name: "garbage without separator", raw: "garbage", txnType: model.TypeExpense, want: ExpenseOtherID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.raw, tt.txnType))
		})
	}
}

func TestResolver_ResolveCustomCategory(t *testing.T) {
	cats := append(seededCategories(), model.Category{
		ID:      101,
		NameEN:  "Coffee Fund",
		NameID:  "Dana Kopi",
		Type:    model.CategoryTypeExpense,
		OwnerID: "user-1",
	})
	r := NewResolver(cats)

	// Custom categories resolve by exact numeric ID only.
	assert.Equal(t, 101, r.Resolve("101", model.TypeExpense))
	assert.Equal(t, ExpenseOtherID, r.Resolve("coffee_fund", model.TypeExpense))
}

func TestResolver_DisplayName(t *testing.T) {
	r := NewResolver(seededCategories())

	assert.Equal(t, "Food & Drink", r.DisplayName(2, model.LangEN))
	assert.Equal(t, "Makanan & Minuman", r.DisplayName(2, model.LangID))
	assert.Equal(t, "Other", r.DisplayName(999, model.LangEN))
	assert.Equal(t, "Lainnya", r.DisplayName(999, model.LangID))
}

func TestSeeds_StableWellKnownIDs(t *testing.T) {
	r := NewResolver(seededCategories())

	other, ok := r.Lookup(ExpenseOtherID)
	assert.True(t, ok)
	assert.Equal(t, "expense_other", other.Key)

	transfer, ok := r.Lookup(SystemTransferID)
	assert.True(t, ok)
	assert.Equal(t, model.CategoryTypeSystem, transfer.Type)
}
