package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dompetku/dompet/internal/cli"
	"github.com/dompetku/dompet/internal/config"
	"github.com/dompetku/dompet/internal/model"
)

func walletsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallets",
		Short: "Manage wallets",
		Long:  `List, add, edit, and delete the wallets that hold your money.`,
	}

	cmd.AddCommand(listWalletsCmd())
	cmd.AddCommand(addWalletCmd())
	cmd.AddCommand(editWalletCmd())
	cmd.AddCommand(deleteWalletCmd())

	return cmd
}

func listWalletsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all wallets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			wallets := a.wallets.List()
			if len(wallets) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No wallets yet. Use 'dompet wallets add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("ID"),
				cli.BoldStyle.Render("Name"),
				cli.BoldStyle.Render("Type"),
				cli.BoldStyle.Render("Balance"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 20),
				strings.Repeat("-", 10),
				strings.Repeat("-", 14))

			for _, wallet := range wallets {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
					wallet.ID, wallet.Name, wallet.Type, wallet.Balance.StringFixed(2))
			}

			return nil
		},
	}
}

func addWalletCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			walletType, _ := cmd.Flags().GetString("type")
			icon, _ := cmd.Flags().GetString("icon")
			color, _ := cmd.Flags().GetString("color")

			if !model.ValidWalletType(model.WalletType(walletType)) {
				return fmt.Errorf("invalid wallet type %q (cash, bank, e-wallet, investment)", walletType)
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			wallet := model.Wallet{
				Name:    args[0],
				Type:    model.WalletType(walletType),
				Icon:    icon,
				Color:   color,
				OwnerID: config.OwnerID(),
			}

			if err := a.wallets.Create(ctx, &wallet); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created wallet %q (ID %d)", wallet.Name, wallet.ID)))
			return nil
		},
	}

	cmd.Flags().StringP("type", "t", "cash", "Wallet type (cash, bank, e-wallet, investment)")
	cmd.Flags().String("icon", "", "Display icon")
	cmd.Flags().String("color", "", "Display color")

	return cmd
}

func editWalletCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a wallet's display fields",
		Long: `Edit a wallet's name, type, icon, or color.

The balance cannot be edited directly; it only moves when transactions
are recorded, changed, or deleted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid wallet ID %q", args[0])
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			wallet, ok := a.wallets.Get(id)
			if !ok {
				return fmt.Errorf("wallet %d not found", id)
			}

			if cmd.Flags().Changed("name") {
				wallet.Name, _ = cmd.Flags().GetString("name")
			}
			if cmd.Flags().Changed("type") {
				walletType, _ := cmd.Flags().GetString("type")
				if !model.ValidWalletType(model.WalletType(walletType)) {
					return fmt.Errorf("invalid wallet type %q", walletType)
				}
				wallet.Type = model.WalletType(walletType)
			}
			if cmd.Flags().Changed("icon") {
				wallet.Icon, _ = cmd.Flags().GetString("icon")
			}
			if cmd.Flags().Changed("color") {
				wallet.Color, _ = cmd.Flags().GetString("color")
			}

			if err := a.wallets.Update(ctx, wallet); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated wallet %d", id)))
			return nil
		},
	}

	cmd.Flags().String("name", "", "New name")
	cmd.Flags().StringP("type", "t", "", "New type")
	cmd.Flags().String("icon", "", "New icon")
	cmd.Flags().String("color", "", "New color")

	return cmd
}

func deleteWalletCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a wallet",
		Long: `Delete a wallet.

A wallet that still has transactions cannot be deleted; delete or move
its transactions first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid wallet ID %q", args[0])
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.wallets.Delete(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted wallet %d", id)))
			return nil
		},
	}
}
