package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/dompetku/dompet/internal/cli"
	"github.com/dompetku/dompet/internal/common"
	"github.com/dompetku/dompet/internal/config"
	"github.com/dompetku/dompet/internal/model"
	"github.com/dompetku/dompet/internal/ofx"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import bank statement rows from OFX or QFX files into a wallet.

Each statement row becomes a transaction: debits become expenses and
credits become income, and every one moves the wallet balance through
the ledger exactly like a hand-entered transaction. Rows already
imported (matched by the bank's transaction ID) are skipped.

Examples:
  # Import a statement into wallet 1
  dompet import ~/Downloads/statement.qfx --wallet 1

  # Import several files, categorized as salary income / food expenses
  dompet import ~/Downloads/*.ofx --wallet 2 --category expense_food`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().Int64P("wallet", "w", 0, "Wallet receiving the imported rows")
	cmd.Flags().StringP("category", "c", "", "Category ID or legacy key for all rows (default per-direction fallback)")
	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	_ = cmd.MarkFlagRequired("wallet")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	walletID, _ := cmd.Flags().GetInt64("wallet")
	categoryRaw, _ := cmd.Flags().GetString("category")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}

	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to import")
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, ok := a.wallets.Get(walletID); !ok {
		return fmt.Errorf("wallet %d not found", walletID)
	}

	parser := ofx.NewParser()
	var drafts []ofx.Draft
	seen := make(map[string]bool)

	for _, filePath := range allFiles {
		f, err := os.Open(filePath)
		if err != nil {
			slog.Error("Failed to open file", "file", filePath, "error", err)
			continue
		}

		fileDrafts, err := parser.ParseFile(ctx, f)
		f.Close()
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", filePath, "error", err)
			continue
		}

		added := 0
		for _, d := range fileDrafts {
			if seen[d.FiTID] {
				continue
			}
			seen[d.FiTID] = true
			drafts = append(drafts, d)
			added++
		}

		slog.Info("Processed file",
			"file", filepath.Base(filePath),
			"rows", len(fileDrafts),
			"added", added)
	}

	if len(drafts) == 0 {
		slog.Warn("No transactions found in any file")
		return nil
	}

	if dryRun {
		fmt.Println(cli.FormatTitle(fmt.Sprintf("Dry run: %d transactions would be imported", len(drafts))))
		for _, d := range drafts {
			fmt.Printf("  %s  %-8s %12s  %s\n",
				d.Date.Format(dateLayout), d.Type, d.Amount.StringFixed(2), d.Description)
		}
		return nil
	}

	bar := progressbar.NewOptions(len(drafts),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Importing transactions..."),
	)

	var imported, skipped, failed int
	for _, d := range drafts {
		_ = bar.Add(1)

		// The bank's FITID keys dedup across runs: a row already in the
		// database keeps its balance effect and is skipped.
		id := "ofx-" + d.FiTID
		if _, err := a.storage.GetTransactionByID(ctx, id); err == nil {
			skipped++
			continue
		} else if !errors.Is(err, common.ErrNotFound) {
			return err
		}

		txn := model.Transaction{
			ID:          id,
			Type:        d.Type,
			Amount:      d.Amount,
			WalletID:    walletID,
			Date:        d.Date,
			Description: d.Description,
			OwnerID:     config.OwnerID(),
			CategoryID:  a.resolver.Resolve(categoryRaw, d.Type),
		}

		if err := a.updater.Create(ctx, &txn); err != nil {
			common.LogError(err, "Failed to import transaction", common.Fields{"fitid": d.FiTID})
			failed++
			continue
		}
		imported++
	}

	fmt.Println()
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d transactions (%d already present, %d failed)",
		imported, skipped, failed)))

	if wallet, ok := a.wallets.Get(walletID); ok {
		fmt.Printf("  %s balance: %s\n", wallet.Name, wallet.Balance.StringFixed(2))
	}

	return nil
}
