package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/dompetku/dompet/internal/cli"
	"github.com/dompetku/dompet/internal/config"
	"github.com/dompetku/dompet/internal/model"
	"github.com/dompetku/dompet/internal/service"
)

const dateLayout = "2006-01-02"

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Record and manage transactions",
		Long: `Record income, expenses, and transfers.

Every transaction moves wallet balances through the ledger: recording
an expense debits its wallet, editing a transaction applies only the
net difference, and deleting one restores the balances it touched.`,
	}

	cmd.AddCommand(addTxCmd())
	cmd.AddCommand(editTxCmd())
	cmd.AddCommand(deleteTxCmd())
	cmd.AddCommand(listTxCmd())

	return cmd
}

func addTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record a new transaction",
		Long: `Record a new transaction.

Examples:
  # An expense from wallet 1
  dompet tx add 25000 --wallet 1 --category expense_food --note "nasi goreng"

  # Income into wallet 2
  dompet tx add 5000000 --type income --wallet 2 --category income_salary

  # A transfer with a fee debited from the source
  dompet tx add 100000 --type transfer --wallet 1 --to 2 --fee 2500`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}

			txnType, _ := cmd.Flags().GetString("type")
			walletID, _ := cmd.Flags().GetInt64("wallet")
			destID, _ := cmd.Flags().GetInt64("to")
			feeStr, _ := cmd.Flags().GetString("fee")
			categoryRaw, _ := cmd.Flags().GetString("category")
			note, _ := cmd.Flags().GetString("note")
			dateStr, _ := cmd.Flags().GetString("date")

			date := time.Now()
			if dateStr != "" {
				if date, err = time.Parse(dateLayout, dateStr); err != nil {
					return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", dateStr)
				}
			}

			fee := decimal.Zero
			if feeStr != "" {
				if fee, err = decimal.NewFromString(feeStr); err != nil {
					return fmt.Errorf("invalid fee %q", feeStr)
				}
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			txn := model.Transaction{
				ID:          uuid.NewString(),
				Type:        model.TransactionType(txnType),
				Amount:      amount,
				Fee:         fee,
				WalletID:    walletID,
				Date:        date,
				Description: note,
				OwnerID:     config.OwnerID(),
				CategoryID:  a.resolver.Resolve(categoryRaw, model.TransactionType(txnType)),
			}
			if cmd.Flags().Changed("to") {
				txn.DestinationWalletID = &destID
			}

			if err := a.updater.Create(ctx, &txn); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %s of %s (ID %s)",
				txn.Type, txn.Amount.StringFixed(2), txn.ID)))
			printBalances(a, &txn)
			return nil
		},
	}

	cmd.Flags().StringP("type", "t", "expense", "Transaction type (income, expense, transfer)")
	cmd.Flags().Int64P("wallet", "w", 0, "Source wallet ID")
	cmd.Flags().Int64("to", 0, "Destination wallet ID (transfers)")
	cmd.Flags().String("fee", "", "Transfer fee debited from the source wallet")
	cmd.Flags().StringP("category", "c", "", "Category ID or legacy key (e.g. expense_food)")
	cmd.Flags().StringP("note", "n", "", "Description")
	cmd.Flags().String("date", "", "Transaction date (YYYY-MM-DD, default today)")
	_ = cmd.MarkFlagRequired("wallet")

	return cmd
}

func editTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a transaction",
		Long: `Edit a transaction.

Balances are adjusted by the net difference between the old and new
versions, so editing never double-applies an amount.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			oldTxn, ok := a.txns.Get(args[0])
			if !ok {
				return fmt.Errorf("transaction %s not found", args[0])
			}

			newTxn := oldTxn
			if cmd.Flags().Changed("amount") {
				amountStr, _ := cmd.Flags().GetString("amount")
				if newTxn.Amount, err = decimal.NewFromString(amountStr); err != nil {
					return fmt.Errorf("invalid amount %q", amountStr)
				}
			}
			if cmd.Flags().Changed("fee") {
				feeStr, _ := cmd.Flags().GetString("fee")
				if newTxn.Fee, err = decimal.NewFromString(feeStr); err != nil {
					return fmt.Errorf("invalid fee %q", feeStr)
				}
			}
			if cmd.Flags().Changed("wallet") {
				newTxn.WalletID, _ = cmd.Flags().GetInt64("wallet")
			}
			if cmd.Flags().Changed("to") {
				destID, _ := cmd.Flags().GetInt64("to")
				newTxn.DestinationWalletID = &destID
			}
			if cmd.Flags().Changed("type") {
				txnType, _ := cmd.Flags().GetString("type")
				newTxn.Type = model.TransactionType(txnType)
				if newTxn.Type != model.TypeTransfer {
					newTxn.DestinationWalletID = nil
					newTxn.Fee = decimal.Zero
				}
			}
			if cmd.Flags().Changed("category") {
				categoryRaw, _ := cmd.Flags().GetString("category")
				newTxn.CategoryID = a.resolver.Resolve(categoryRaw, newTxn.Type)
			}
			if cmd.Flags().Changed("note") {
				newTxn.Description, _ = cmd.Flags().GetString("note")
			}
			if cmd.Flags().Changed("date") {
				dateStr, _ := cmd.Flags().GetString("date")
				if newTxn.Date, err = time.Parse(dateLayout, dateStr); err != nil {
					return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", dateStr)
				}
			}

			if err := a.updater.Update(ctx, &oldTxn, &newTxn); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated transaction %s", newTxn.ID)))
			printBalances(a, &newTxn)
			return nil
		},
	}

	cmd.Flags().String("amount", "", "New amount")
	cmd.Flags().String("fee", "", "New transfer fee")
	cmd.Flags().Int64P("wallet", "w", 0, "New source wallet ID")
	cmd.Flags().Int64("to", 0, "New destination wallet ID")
	cmd.Flags().StringP("type", "t", "", "New type (income, expense, transfer)")
	cmd.Flags().StringP("category", "c", "", "New category ID or legacy key")
	cmd.Flags().StringP("note", "n", "", "New description")
	cmd.Flags().String("date", "", "New date (YYYY-MM-DD)")

	return cmd
}

func deleteTxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Long:  `Delete a transaction, restoring the wallet balances it moved.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			txn, ok := a.txns.Get(args[0])
			if !ok {
				return fmt.Errorf("transaction %s not found", args[0])
			}

			if err := a.updater.Delete(ctx, &txn); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted transaction %s", txn.ID)))
			printBalances(a, &txn)
			return nil
		},
	}
}

func listTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			walletID, _ := cmd.Flags().GetInt64("wallet")
			categoryRaw, _ := cmd.Flags().GetString("category")
			limit, _ := cmd.Flags().GetInt("limit")
			sinceStr, _ := cmd.Flags().GetString("since")

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			filter := service.TransactionFilter{
				WalletID: walletID,
				Limit:    limit,
			}
			if categoryRaw != "" {
				if id, err := strconv.Atoi(categoryRaw); err == nil {
					filter.CategoryID = id
				} else {
					filter.CategoryID = a.resolver.Resolve(categoryRaw, model.TypeExpense)
				}
			}
			if sinceStr != "" {
				since, err := time.Parse(dateLayout, sinceStr)
				if err != nil {
					return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", sinceStr)
				}
				filter.StartDate = &since
			}

			if err := a.txns.Load(ctx, filter); err != nil {
				return err
			}

			txns := a.txns.List()
			if len(txns) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No transactions found."))
				return nil
			}

			lang := config.DisplayLanguage()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("Date"),
				cli.BoldStyle.Render("Type"),
				cli.BoldStyle.Render("Amount"),
				cli.BoldStyle.Render("Category"),
				cli.BoldStyle.Render("Note"),
				cli.BoldStyle.Render("ID"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 10),
				strings.Repeat("-", 8),
				strings.Repeat("-", 14),
				strings.Repeat("-", 16),
				strings.Repeat("-", 20),
				strings.Repeat("-", 36))

			for _, txn := range txns {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					txn.Date.Format(dateLayout),
					txn.Type,
					txn.Amount.StringFixed(2),
					a.resolver.DisplayName(txn.CategoryID, lang),
					txn.Description,
					txn.ID)
			}

			return nil
		},
	}

	cmd.Flags().Int64P("wallet", "w", 0, "Filter by wallet ID")
	cmd.Flags().StringP("category", "c", "", "Filter by category ID or legacy key")
	cmd.Flags().Int("limit", 50, "Maximum rows to show")
	cmd.Flags().String("since", "", "Only transactions on or after this date (YYYY-MM-DD)")

	return cmd
}

// printBalances shows the post-operation balance of each wallet a
// transaction touches.
func printBalances(a *app, txn *model.Transaction) {
	if wallet, ok := a.wallets.Get(txn.WalletID); ok {
		fmt.Printf("  %s: %s\n", wallet.Name, wallet.Balance.StringFixed(2))
	}
	if txn.DestinationWalletID != nil {
		if wallet, ok := a.wallets.Get(*txn.DestinationWalletID); ok {
			fmt.Printf("  %s: %s\n", wallet.Name, wallet.Balance.StringFixed(2))
		}
	}
}
