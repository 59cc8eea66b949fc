package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/dompetku/dompet/internal/cli"
	"github.com/dompetku/dompet/internal/config"
	"github.com/dompetku/dompet/internal/model"
	"github.com/dompetku/dompet/internal/store"
)

func wishlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Track things you want to buy",
	}

	cmd.AddCommand(listWishlistCmd())
	cmd.AddCommand(addWishlistCmd())
	cmd.AddCommand(boughtWishlistCmd())
	cmd.AddCommand(deleteWishlistCmd())

	return cmd
}

func newWishlistStore(cmd *cobra.Command) (*store.WishlistStore, func(), error) {
	ctx := cmd.Context()

	st, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	items := store.NewWishlistStore(st, store.NewRunner())
	if err := items.Load(ctx); err != nil {
		_ = st.Close()
		return nil, nil, err
	}

	return items, func() { _ = st.Close() }, nil
}

func listWishlistCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List wishlist items",
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, cleanup, err := newWishlistStore(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			list := items.List()
			if len(list) == 0 {
				fmt.Println(cli.SubtleStyle.Render("Wishlist is empty."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("ID"),
				cli.BoldStyle.Render("Name"),
				cli.BoldStyle.Render("Price"),
				cli.BoldStyle.Render("Note"),
				cli.BoldStyle.Render("Status"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 20),
				strings.Repeat("-", 12),
				strings.Repeat("-", 20),
				strings.Repeat("-", 8))

			for _, item := range list {
				status := cli.SubtleStyle.Render("wanted")
				if item.Purchased {
					status = cli.SuccessStyle.Render("bought")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					item.ID, item.Name, item.Price.StringFixed(2), item.Note, status)
			}

			return nil
		},
	}
}

func addWishlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name> <price>",
		Short: "Add a wishlist item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid price %q", args[1])
			}
			note, _ := cmd.Flags().GetString("note")

			items, cleanup, err := newWishlistStore(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			item := model.WishlistItem{
				Name:    args[0],
				Price:   price,
				Note:    note,
				OwnerID: config.OwnerID(),
			}

			if err := items.Create(cmd.Context(), &item); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %q for %s (ID %d)",
				item.Name, item.Price.StringFixed(2), item.ID)))
			return nil
		},
	}

	cmd.Flags().StringP("note", "n", "", "Note")

	return cmd
}

func boughtWishlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bought <id>",
		Short: "Mark a wishlist item purchased",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid wishlist ID %q", args[0])
			}
			undo, _ := cmd.Flags().GetBool("undo")

			items, cleanup, err := newWishlistStore(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			var target *model.WishlistItem
			for _, item := range items.List() {
				if item.ID == id {
					itemCopy := item
					target = &itemCopy
					break
				}
			}
			if target == nil {
				return fmt.Errorf("wishlist item %d not found", id)
			}

			target.Purchased = !undo
			if err := items.Update(cmd.Context(), *target); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated wishlist item %d", id)))
			return nil
		},
	}

	cmd.Flags().Bool("undo", false, "Mark the item wanted again")

	return cmd
}

func deleteWishlistCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a wishlist item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid wishlist ID %q", args[0])
			}

			items, cleanup, err := newWishlistStore(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := items.Delete(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted wishlist item %d", id)))
			return nil
		},
	}
}
