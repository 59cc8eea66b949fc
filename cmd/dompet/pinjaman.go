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

	"github.com/dompetku/dompet/internal/cli"
	"github.com/dompetku/dompet/internal/config"
	"github.com/dompetku/dompet/internal/model"
	"github.com/dompetku/dompet/internal/store"
)

func pinjamanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pinjaman",
		Short: "Track debts and credits",
		Long: `Track pinjaman: money you owe (debt) and money owed to you (credit).

Items are bookkeeping only; settling one does not move any wallet
balance. Record the repayment as a transaction if it happened.`,
	}

	cmd.AddCommand(listPinjamanCmd())
	cmd.AddCommand(addPinjamanCmd())
	cmd.AddCommand(settlePinjamanCmd())
	cmd.AddCommand(deletePinjamanCmd())

	return cmd
}

func newPinjamanStore(cmd *cobra.Command) (*store.PinjamanStore, func(), error) {
	ctx := cmd.Context()

	st, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	items := store.NewPinjamanStore(st, store.NewRunner())
	if err := items.Load(ctx); err != nil {
		_ = st.Close()
		return nil, nil, err
	}

	return items, func() { _ = st.Close() }, nil
}

func listPinjamanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List debts and credits",
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, cleanup, err := newPinjamanStore(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			list := items.List()
			if len(list) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No pinjaman recorded."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("ID"),
				cli.BoldStyle.Render("Kind"),
				cli.BoldStyle.Render("Name"),
				cli.BoldStyle.Render("Amount"),
				cli.BoldStyle.Render("Due"),
				cli.BoldStyle.Render("Status"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 6),
				strings.Repeat("-", 20),
				strings.Repeat("-", 12),
				strings.Repeat("-", 10),
				strings.Repeat("-", 8))

			for _, item := range list {
				status := cli.WarningStyle.Render("open")
				if item.Settled {
					status = cli.SuccessStyle.Render("settled")
				}
				due := ""
				if !item.DueDate.IsZero() {
					due = item.DueDate.Format(dateLayout)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					item.ID, item.Kind, item.Name, item.Amount.StringFixed(2), due, status)
			}

			return nil
		},
	}
}

func addPinjamanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name> <amount>",
		Short: "Record a debt or credit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[1])
			}

			kind, _ := cmd.Flags().GetString("kind")
			if !model.ValidPinjamanKind(model.PinjamanKind(kind)) {
				return fmt.Errorf("invalid kind %q (debt, credit)", kind)
			}

			var due time.Time
			if dueStr, _ := cmd.Flags().GetString("due"); dueStr != "" {
				if due, err = time.Parse(dateLayout, dueStr); err != nil {
					return fmt.Errorf("invalid due date %q (expected YYYY-MM-DD)", dueStr)
				}
			}

			items, cleanup, err := newPinjamanStore(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			item := model.PinjamanItem{
				Name:    args[0],
				Kind:    model.PinjamanKind(kind),
				Amount:  amount,
				DueDate: due,
				OwnerID: config.OwnerID(),
			}

			if err := items.Create(cmd.Context(), &item); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %s %q of %s (ID %d)",
				item.Kind, item.Name, item.Amount.StringFixed(2), item.ID)))
			return nil
		},
	}

	cmd.Flags().StringP("kind", "k", "debt", "Kind (debt: you owe, credit: owed to you)")
	cmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")

	return cmd
}

func settlePinjamanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settle <id>",
		Short: "Mark a pinjaman settled (or open again with --undo)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid pinjaman ID %q", args[0])
			}
			undo, _ := cmd.Flags().GetBool("undo")

			items, cleanup, err := newPinjamanStore(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := items.SetSettled(cmd.Context(), id, !undo); err != nil {
				return err
			}

			if undo {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Reopened pinjaman %d", id)))
			} else {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Settled pinjaman %d", id)))
			}
			return nil
		},
	}

	cmd.Flags().Bool("undo", false, "Mark the item unsettled instead")

	return cmd
}

func deletePinjamanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a pinjaman item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid pinjaman ID %q", args[0])
			}

			items, cleanup, err := newPinjamanStore(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := items.Delete(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted pinjaman %d", id)))
			return nil
		},
	}
}
