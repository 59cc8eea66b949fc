package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dompetku/dompet/internal/cli"
	"github.com/dompetku/dompet/internal/config"
)

func resetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all data and start over",
		Long: `Reset deletes the database file, removing all wallets, transactions,
categories, budgets, pinjaman, and wishlist items.

The next command recreates an empty database with the default
categories seeded.`,
		RunE: runReset,
	}

	cmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")

	return cmd
}

func runReset(cmd *cobra.Command, _ []string) error {
	force, _ := cmd.Flags().GetBool("force")

	dbPath := config.DatabasePath()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No database found. Nothing to reset.")
		return nil
	}

	if !force {
		fmt.Printf("This will permanently delete all data in %s.\n", dbPath)
		fmt.Printf("\nAre you sure you want to continue? [y/N]: ")

		var response string
		if _, err := fmt.Scanln(&response); err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if response != "y" && response != "Y" {
			fmt.Println("Reset canceled.")
			return nil
		}
	}

	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}
	// WAL sidecars go with it
	_ = os.Remove(dbPath + "-wal")
	_ = os.Remove(dbPath + "-shm")

	fmt.Println(cli.FormatSuccess("All data deleted. The next command starts with a fresh database."))
	return nil
}
