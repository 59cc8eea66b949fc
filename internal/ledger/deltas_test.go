package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dompetku/dompet/internal/model"
	"github.com/dompetku/dompet/internal/store"
)

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func ptr(id int64) *int64 { return &id }

func TestDeltas(t *testing.T) {
	tests := []struct {
		name string
		txn  model.Transaction
		dir  Direction
		want map[int64]int64
	}{
		{
			name: "income credits source",
			txn:  model.Transaction{Type: model.TypeIncome, Amount: dec(100), WalletID: 1},
			dir:  Apply,
			want: map[int64]int64{1: 100},
		},
		{
			name: "income reversed",
			txn:  model.Transaction{Type: model.TypeIncome, Amount: dec(100), WalletID: 1},
			dir:  Reverse,
			want: map[int64]int64{1: -100},
		},
		{
			name: "expense debits source",
			txn:  model.Transaction{Type: model.TypeExpense, Amount: dec(100), WalletID: 1},
			dir:  Apply,
			want: map[int64]int64{1: -100},
		},
		{
			name: "transfer moves amount and debits fee",
			txn: model.Transaction{
				Type: model.TypeTransfer, Amount: dec(200), Fee: dec(5),
				WalletID: 1, DestinationWalletID: ptr(2),
			},
			dir:  Apply,
			want: map[int64]int64{1: -205, 2: 200},
		},
		{
			name: "transfer reversed restores both sides",
			txn: model.Transaction{
				Type: model.TypeTransfer, Amount: dec(200), Fee: dec(5),
				WalletID: 1, DestinationWalletID: ptr(2),
			},
			dir:  Reverse,
			want: map[int64]int64{1: 205, 2: -200},
		},
		{
			name: "transfer without fee",
			txn: model.Transaction{
				Type: model.TypeTransfer, Amount: dec(50),
				WalletID: 1, DestinationWalletID: ptr(2),
			},
			dir:  Apply,
			want: map[int64]int64{1: -50, 2: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Deltas(&tt.txn, tt.dir)
			require.Len(t, got, len(tt.want))
			for _, d := range got {
				want, ok := tt.want[d.WalletID]
				require.True(t, ok, "unexpected wallet %d", d.WalletID)
				assert.True(t, d.Delta.Equal(dec(want)),
					"wallet %d: want %d, got %s", d.WalletID, want, d.Delta)
			}
		})
	}
}

func TestNetDeltas(t *testing.T) {
	t.Run("amount change on same wallet nets to the difference", func(t *testing.T) {
		oldTxn := model.Transaction{ID: "t", Type: model.TypeExpense, Amount: dec(100), WalletID: 1}
		newTxn := model.Transaction{ID: "t", Type: model.TypeExpense, Amount: dec(150), WalletID: 1}

		got := NetDeltas(&oldTxn, &newTxn)
		require.Len(t, got, 1)
		assert.EqualValues(t, 1, got[0].WalletID)
		assert.True(t, got[0].Delta.Equal(dec(-50)))
	})

	t.Run("unchanged transaction nets to nothing", func(t *testing.T) {
		txn := model.Transaction{ID: "t", Type: model.TypeExpense, Amount: dec(100), WalletID: 1}
		assert.Empty(t, NetDeltas(&txn, &txn))
	})

	t.Run("wallet move debits new and credits old", func(t *testing.T) {
		oldTxn := model.Transaction{ID: "t", Type: model.TypeExpense, Amount: dec(100), WalletID: 1}
		newTxn := model.Transaction{ID: "t", Type: model.TypeExpense, Amount: dec(100), WalletID: 2}

		got := NetDeltas(&oldTxn, &newTxn)
		byWallet := deltasByWallet(got)
		require.Len(t, byWallet, 2)
		assert.True(t, byWallet[1].Equal(dec(100)))
		assert.True(t, byWallet[2].Equal(dec(-100)))
	})

	t.Run("type flip doubles the effect", func(t *testing.T) {
		oldTxn := model.Transaction{ID: "t", Type: model.TypeExpense, Amount: dec(100), WalletID: 1}
		newTxn := model.Transaction{ID: "t", Type: model.TypeIncome, Amount: dec(100), WalletID: 1}

		got := NetDeltas(&oldTxn, &newTxn)
		require.Len(t, got, 1)
		assert.True(t, got[0].Delta.Equal(dec(200)))
	})

	t.Run("transfer fee change only touches the source", func(t *testing.T) {
		oldTxn := model.Transaction{
			ID: "t", Type: model.TypeTransfer, Amount: dec(200), Fee: dec(5),
			WalletID: 1, DestinationWalletID: ptr(2),
		}
		newTxn := oldTxn
		newTxn.Fee = dec(10)

		got := NetDeltas(&oldTxn, &newTxn)
		require.Len(t, got, 1)
		assert.EqualValues(t, 1, got[0].WalletID)
		assert.True(t, got[0].Delta.Equal(dec(-5)))
	})
}

func deltasByWallet(deltas []store.WalletDelta) map[int64]decimal.Decimal {
	out := make(map[int64]decimal.Decimal, len(deltas))
	for _, d := range deltas {
		out[d.WalletID] = d.Delta
	}
	return out
}
