// Package category resolves the three representations of a transaction
// category: legacy string key, stable numeric ID, and bilingual display
// name.
package category

import "github.com/dompetku/dompet/internal/model"

// Well-known category IDs. These are seed-time constants; the resolver
// never invents an ID outside the seeded table.
const (
	ExpenseOtherID   = 12
	IncomeOtherID    = 17
	SystemTransferID = 18
)

// Seed is one row of the default category table.
type Seed struct {
	Key    string
	NameEN string
	NameID string
	Icon   string
	Type   model.CategoryType
	ID     int
}

// Seeds is the default category table. Default categories are seeded
// once, shared by all users, and immutable; IDs are stable across
// installs so legacy keys always map to the same row.
var Seeds = []Seed{
	{ID: 1, Key: "expense_daily", NameEN: "Daily Needs", NameID: "Kebutuhan Harian", Icon: "🧺", Type: model.CategoryTypeExpense},
	{ID: 2, Key: "expense_food", NameEN: "Food & Drink", NameID: "Makanan & Minuman", Icon: "🍜", Type: model.CategoryTypeExpense},
	{ID: 3, Key: "expense_transport", NameEN: "Transportation", NameID: "Transportasi", Icon: "🚌", Type: model.CategoryTypeExpense},
	{ID: 4, Key: "expense_bills", NameEN: "Bills & Utilities", NameID: "Tagihan", Icon: "🧾", Type: model.CategoryTypeExpense},
	{ID: 5, Key: "expense_shopping", NameEN: "Shopping", NameID: "Belanja", Icon: "🛍️", Type: model.CategoryTypeExpense},
	{ID: 6, Key: "expense_entertainment", NameEN: "Entertainment", NameID: "Hiburan", Icon: "🎬", Type: model.CategoryTypeExpense},
	{ID: 7, Key: "expense_health", NameEN: "Health", NameID: "Kesehatan", Icon: "💊", Type: model.CategoryTypeExpense},
	{ID: 8, Key: "expense_education", NameEN: "Education", NameID: "Pendidikan", Icon: "📚", Type: model.CategoryTypeExpense},
	{ID: 9, Key: "expense_family", NameEN: "Family", NameID: "Keluarga", Icon: "👨‍👩‍👧", Type: model.CategoryTypeExpense},
	{ID: 10, Key: "expense_travel", NameEN: "Travel", NameID: "Perjalanan", Icon: "✈️", Type: model.CategoryTypeExpense},
	{ID: 11, Key: "expense_fees", NameEN: "Fees & Charges", NameID: "Biaya Admin", Icon: "🏦", Type: model.CategoryTypeExpense},
	{ID: ExpenseOtherID, Key: "expense_other", NameEN: "Other Expense", NameID: "Pengeluaran Lainnya", Icon: "📦", Type: model.CategoryTypeExpense},
	{ID: 13, Key: "income_salary", NameEN: "Salary", NameID: "Gaji", Icon: "💰", Type: model.CategoryTypeIncome},
	{ID: 14, Key: "income_business", NameEN: "Business", NameID: "Bisnis", Icon: "🏪", Type: model.CategoryTypeIncome},
	{ID: 15, Key: "income_investment", NameEN: "Investment", NameID: "Investasi", Icon: "📈", Type: model.CategoryTypeIncome},
	{ID: 16, Key: "income_gift", NameEN: "Gift", NameID: "Hadiah", Icon: "🎁", Type: model.CategoryTypeIncome},
	{ID: IncomeOtherID, Key: "income_other", NameEN: "Other Income", NameID: "Pemasukan Lainnya", Icon: "🪙", Type: model.CategoryTypeIncome},
	{ID: SystemTransferID, Key: "system_transfer", NameEN: "Transfer", NameID: "Transfer", Icon: "🔁", Type: model.CategoryTypeSystem},
}

// keyToID is derived once from Seeds; call sites share it through the
// Resolver instead of re-declaring per-call-site maps.
var keyToID = func() map[string]int {
	m := make(map[string]int, len(Seeds))
	for _, s := range Seeds {
		m[s.Key] = s.ID
	}
	return m
}()
