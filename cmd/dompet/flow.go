package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dompetku/dompet/internal/cli"
	"github.com/dompetku/dompet/internal/config"
	"github.com/dompetku/dompet/internal/model"
	"github.com/dompetku/dompet/internal/service"
)

func flowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flow",
		Short: "View cash flow reports",
		Long: `Summarize income, expenses, and net flow per category over a period.

Transfer fees count as expenses; the transferred amounts themselves are
reported separately since they only move money between your own wallets.`,
		RunE: runFlow,
	}

	cmd.Flags().IntP("year", "y", time.Now().Year(), "Year to analyze")
	cmd.Flags().StringP("month", "m", "", "Specific month to analyze (format: 2025-01)")

	return cmd
}

func runFlow(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	year, _ := cmd.Flags().GetInt("year")
	month, _ := cmd.Flags().GetString("month")

	var start, end time.Time
	period := fmt.Sprintf("%d", year)
	if month != "" {
		parsed, err := time.Parse("2006-01", month)
		if err != nil {
			return fmt.Errorf("invalid month %q (expected YYYY-MM)", month)
		}
		start = parsed
		end = start.AddDate(0, 1, 0)
		period = month
	} else {
		start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
		end = start.AddDate(1, 0, 0)
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	summary, err := a.storage.GetCashFlow(ctx, start, end)
	if err != nil {
		return err
	}

	lang := config.DisplayLanguage()

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Cash flow for %s", period)))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	if len(summary.IncomeByCategory) > 0 {
		fmt.Fprintf(w, "%s\t\t\n", cli.BoldStyle.Render("Income"))
		printCategoryRows(w, a, summary.IncomeByCategory, lang)
	}
	if len(summary.ExpensesByCategory) > 0 {
		fmt.Fprintf(w, "%s\t\t\n", cli.BoldStyle.Render("Expenses"))
		printCategoryRows(w, a, summary.ExpensesByCategory, lang)
	}
	w.Flush()

	fmt.Println(strings.Repeat("-", 44))
	fmt.Printf("Total income:    %s\n", cli.FormatAmount(summary.TotalIncome))
	fmt.Printf("Total expenses:  %s\n", cli.FormatAmount(summary.TotalExpenses.Neg()))
	if !summary.TransferTotal.IsZero() {
		fmt.Printf("Transfers moved: %s\n", summary.TransferTotal.StringFixed(2))
	}
	fmt.Printf("Net flow:        %s\n", cli.FormatAmount(summary.NetCashFlow))

	return nil
}

func printCategoryRows(w *tabwriter.Writer, a *app, byCategory map[int]service.CategorySummary, lang model.Language) {
	ids := make([]int, 0, len(byCategory))
	for id := range byCategory {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return byCategory[ids[i]].Amount.GreaterThan(byCategory[ids[j]].Amount)
	})

	for _, id := range ids {
		cs := byCategory[id]
		fmt.Fprintf(w, "  %s\t%s\t(%d txns)\n",
			a.resolver.DisplayName(id, lang), cs.Amount.StringFixed(2), cs.Count)
	}
}
