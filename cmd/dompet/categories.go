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

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage transaction categories",
		Long: `List, add, update, and delete transaction categories.

Default categories are seeded with the database and cannot be changed;
custom categories belong to you and can be edited or deleted as long as
no transaction or budget still uses them.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(updateCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			categories, err := store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			lang := config.DisplayLanguage()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("ID"),
				cli.BoldStyle.Render("Name"),
				cli.BoldStyle.Render("Type"),
				cli.BoldStyle.Render("Origin"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 24),
				strings.Repeat("-", 8),
				strings.Repeat("-", 8))

			for _, cat := range categories {
				origin := "custom"
				if cat.IsDefault() {
					origin = "default"
				}
				name := cat.Name(lang)
				if cat.Icon != "" {
					name = cat.Icon + " " + name
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", cat.ID, name, cat.Type, origin)
			}

			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			catType, _ := cmd.Flags().GetString("type")
			nameID, _ := cmd.Flags().GetString("name-id")
			icon, _ := cmd.Flags().GetString("icon")
			color, _ := cmd.Flags().GetString("color")

			if catType != string(model.CategoryTypeIncome) && catType != string(model.CategoryTypeExpense) {
				return fmt.Errorf("invalid category type %q (income, expense)", catType)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			cat := model.Category{
				NameEN:  args[0],
				NameID:  nameID,
				Icon:    icon,
				Color:   color,
				Type:    model.CategoryType(catType),
				OwnerID: config.OwnerID(),
			}

			if err := store.CreateCategory(ctx, &cat); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created category %q (ID %d)", cat.NameEN, cat.ID)))
			return nil
		},
	}

	cmd.Flags().StringP("type", "t", "expense", "Category type (income, expense)")
	cmd.Flags().String("name-id", "", "Indonesian display name")
	cmd.Flags().String("icon", "", "Display icon")
	cmd.Flags().String("color", "", "Display color")

	return cmd
}

func updateCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid category ID %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			cat, err := store.GetCategoryByID(ctx, id)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("name") {
				cat.NameEN, _ = cmd.Flags().GetString("name")
			}
			if cmd.Flags().Changed("name-id") {
				cat.NameID, _ = cmd.Flags().GetString("name-id")
			}
			if cmd.Flags().Changed("icon") {
				cat.Icon, _ = cmd.Flags().GetString("icon")
			}
			if cmd.Flags().Changed("color") {
				cat.Color, _ = cmd.Flags().GetString("color")
			}

			if err := store.UpdateCategory(ctx, cat); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated category %d", id)))
			return nil
		},
	}

	cmd.Flags().String("name", "", "New English name")
	cmd.Flags().String("name-id", "", "New Indonesian name")
	cmd.Flags().String("icon", "", "New icon")
	cmd.Flags().String("color", "", "New color")

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a custom category",
		Long: `Delete a custom category.

Categories still referenced by transactions or budgets are refused;
recategorize or delete those first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid category ID %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteCategory(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted category %d", id)))
			return nil
		},
	}
}
