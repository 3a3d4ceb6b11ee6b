package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(productsCmd, productCmd, categoriesCmd)
}

var productsCmd = &cobra.Command{
	Use:   "products [page]",
	Short: "Browse the product catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("page must be a positive number, got %q", args[0])
			}
			page = n
		}

		res, err := app.client.Products(cmd.Context(), page)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK")
		for _, p := range res.Items {
			fmt.Fprintf(w, "%d\t%s\t%.2f\t%d\n", p.ID, p.Name, p.Price, p.Stock)
		}
		w.Flush()

		fmt.Printf("page %d of %d\n", res.Page, res.TotalPages)
		return nil
	},
}

var productCmd = &cobra.Command{
	Use:   "product <id>",
	Short: "Show one product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("product id must be a number, got %q", args[0])
		}

		p, err := app.client.Product(cmd.Context(), id)
		if err != nil {
			return err
		}

		fmt.Printf("#%d %s\n", p.ID, p.Name)
		fmt.Printf("price: %.2f  stock: %d", p.Price, p.Stock)
		if p.SKU != "" {
			fmt.Printf("  sku: %s", p.SKU)
		}
		fmt.Println()
		if p.Description != "" {
			fmt.Println(p.Description)
		}
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List product categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cats, err := app.client.Categories(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSLUG")
		for _, c := range cats {
			fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Name, c.Slug)
		}
		return w.Flush()
	},
}
