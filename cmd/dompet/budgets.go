package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/dompetku/dompet/internal/budget"
	"github.com/dompetku/dompet/internal/cli"
	"github.com/dompetku/dompet/internal/config"
	"github.com/dompetku/dompet/internal/model"
)

func budgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Manage category budgets",
		Long: `Set spending caps per category and period.

A budget's spent figure is never stored; it is recomputed from the
expenses falling inside the current week, month, or year window, so it
always matches the ledger.`,
	}

	cmd.AddCommand(listBudgetsCmd())
	cmd.AddCommand(addBudgetCmd())
	cmd.AddCommand(editBudgetCmd())
	cmd.AddCommand(deleteBudgetCmd())

	return cmd
}

func listBudgetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List budgets with current spend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			budgets := a.budgets.List()
			if len(budgets) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No budgets yet. Use 'dompet budgets add' to create one."))
				return nil
			}

			spends := budget.Recompute(budgets, a.txns.List(), time.Now())
			lang := config.DisplayLanguage()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("ID"),
				cli.BoldStyle.Render("Category"),
				cli.BoldStyle.Render("Period"),
				cli.BoldStyle.Render("Budget"),
				cli.BoldStyle.Render("Spent"),
				cli.BoldStyle.Render("Remaining"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 16),
				strings.Repeat("-", 8),
				strings.Repeat("-", 12),
				strings.Repeat("-", 12),
				strings.Repeat("-", 12))

			for _, b := range budgets {
				spent := spends[b.ID].Amount
				remaining := b.Amount.Sub(spent)
				remainingStr := remaining.StringFixed(2)
				if remaining.IsNegative() {
					remainingStr = cli.ErrorStyle.Render(remainingStr)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					b.ID,
					a.resolver.DisplayName(b.CategoryID, lang),
					b.Period,
					b.Amount.StringFixed(2),
					spent.StringFixed(2),
					remainingStr)
			}

			return nil
		},
	}
}

func addBudgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Add a budget for a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}

			categoryRaw, _ := cmd.Flags().GetString("category")
			period, _ := cmd.Flags().GetString("period")

			if !model.ValidBudgetPeriod(model.BudgetPeriod(period)) {
				return fmt.Errorf("invalid period %q (weekly, monthly, yearly)", period)
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			b := model.Budget{
				CategoryID: a.resolver.Resolve(categoryRaw, model.TypeExpense),
				Period:     model.BudgetPeriod(period),
				Amount:     amount,
				OwnerID:    config.OwnerID(),
			}

			if err := a.budgets.Create(ctx, &b); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created %s budget of %s (ID %d)",
				b.Period, b.Amount.StringFixed(2), b.ID)))
			return nil
		},
	}

	cmd.Flags().StringP("category", "c", "", "Category ID or legacy key")
	cmd.Flags().StringP("period", "p", "monthly", "Budget period (weekly, monthly, yearly)")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func editBudgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid budget ID %q", args[0])
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			var target *model.Budget
			for _, b := range a.budgets.List() {
				if b.ID == id {
					budgetCopy := b
					target = &budgetCopy
					break
				}
			}
			if target == nil {
				return fmt.Errorf("budget %d not found", id)
			}

			if cmd.Flags().Changed("amount") {
				amountStr, _ := cmd.Flags().GetString("amount")
				if target.Amount, err = decimal.NewFromString(amountStr); err != nil {
					return fmt.Errorf("invalid amount %q", amountStr)
				}
			}
			if cmd.Flags().Changed("period") {
				period, _ := cmd.Flags().GetString("period")
				if !model.ValidBudgetPeriod(model.BudgetPeriod(period)) {
					return fmt.Errorf("invalid period %q", period)
				}
				target.Period = model.BudgetPeriod(period)
			}

			if err := a.budgets.Update(ctx, *target); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated budget %d", id)))
			return nil
		},
	}

	cmd.Flags().String("amount", "", "New amount")
	cmd.Flags().StringP("period", "p", "", "New period")

	return cmd
}

func deleteBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid budget ID %q", args[0])
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.budgets.Delete(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted budget %d", id)))
			return nil
		},
	}
}
