package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bazario/app/services"
	"github.com/shashiranjanraj/bazario/config"
	"github.com/shashiranjanraj/bazario/pkg/notify"
)

func init() {
	rootCmd.AddCommand(ordersCmd, orderCmd, checkoutCmd, trackCmd)
	checkoutCmd.Flags().Duration("payment-timeout", 5*time.Minute, "how long to wait for the payment gateway redirect")
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List your orders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		orders, err := app.client.Orders(cmd.Context())
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			fmt.Println("no orders yet")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tTOTAL\tPLACED")
		for _, o := range orders {
			fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\n",
				o.ID, o.Status, o.Total, o.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var orderCmd = &cobra.Command{
	Use:   "order <id>",
	Short: "Show one order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("order id must be a number, got %q", args[0])
		}

		o, err := app.client.Order(cmd.Context(), id)
		if err != nil {
			return err
		}

		fmt.Printf("order #%d  status=%s  total=%.2f\n", o.ID, o.Status, o.Total)
		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "PRODUCT\tQTY\tPRICE")
		for _, it := range o.Items {
			fmt.Fprintf(w, "%s\t%d\t%.2f\n", it.Name, it.Quantity, it.Price)
		}
		return w.Flush()
	},
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order from your cart and pay",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		if app.cart.Count() == 0 {
			return fmt.Errorf("your cart is empty")
		}

		// Make sure the server cart matches what the shopper sees before
		// turning it into an order.
		app.reconciler.Refresh(cmd.Context())

		timeout, _ := cmd.Flags().GetDuration("payment-timeout")
		flow := services.NewCheckout(app.client, app.reconciler, config.CallbackAddr())
		order, err := flow.Run(cmd.Context(), timeout)
		if err != nil {
			return err
		}

		fmt.Printf("order #%d confirmed\n", order.ID)
		return nil
	},
}

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Follow realtime order status updates (Ctrl-C to stop)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		updates, err := app.client.StreamOrderUpdates(cmd.Context(), config.WSBaseURL())
		if err != nil {
			return err
		}

		notify.Infof("watching order updates")
		for u := range updates {
			fmt.Printf("order #%d is now %s\n", u.OrderID, u.Status)
		}
		return nil
	},
}
