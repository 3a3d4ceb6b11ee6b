package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bazario/pkg/notify"
	"github.com/shashiranjanraj/bazario/pkg/validate"
)

func init() {
	cartCmd.AddCommand(cartAddCmd, cartUpdateCmd, cartRemoveCmd, cartClearCmd, cartRefreshCmd)
	rootCmd.AddCommand(cartCmd)
}

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show and edit your cart",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		items := app.cart.Items()
		if len(items) == 0 {
			fmt.Println("your cart is empty")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "ITEM\tPRODUCT\tQTY\tPRICE\tTOTAL")
		for _, it := range items {
			id := it.ID
			if it.Syncing {
				id += " *"
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%.2f\n",
				id, it.Product.Name, it.Quantity, it.Product.Price, it.LineTotal())
		}
		w.Flush()

		fmt.Printf("%d items, subtotal %.2f\n", app.cart.Count(), app.cart.Subtotal())
		return nil
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id> [quantity]",
	Short: "Add a product to the cart",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		productID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("product id must be a number, got %q", args[0])
		}

		qty := 1
		if len(args) == 2 {
			qty, err = validate.Quantity(args[1])
			if err != nil {
				return err
			}
		}

		product, err := app.client.Product(cmd.Context(), productID)
		if err != nil {
			return err
		}

		it := app.reconciler.AddItem(cmd.Context(), *product, qty)
		notify.Successf("added %d × %s (line %s)", qty, product.Name, it.ID)
		return nil
	},
}

var cartUpdateCmd = &cobra.Command{
	Use:   "update <item-id> <quantity>",
	Short: "Change a cart line's quantity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		qty, err := validate.Quantity(args[1])
		if err != nil {
			return err
		}
		if !app.reconciler.UpdateQuantity(cmd.Context(), args[0], qty) {
			return fmt.Errorf("no cart line %q", args[0])
		}
		notify.Successf("line %s set to %d", args[0], qty)
		return nil
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <item-id>",
	Short: "Remove a cart line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app.reconciler.RemoveItem(cmd.Context(), args[0])
		notify.Successf("removed line %s", args[0])
		return nil
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app.reconciler.Clear(cmd.Context())
		notify.Successf("cart cleared")
		return nil
	},
}

var cartRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Pull the server's view of your cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		app.reconciler.Refresh(cmd.Context())
		fmt.Printf("%d items, subtotal %.2f\n", app.cart.Count(), app.cart.Subtotal())
		return nil
	},
}
