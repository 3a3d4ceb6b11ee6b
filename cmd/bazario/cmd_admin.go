package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bazario/app/api"
	"github.com/shashiranjanraj/bazario/app/services"
	"github.com/shashiranjanraj/bazario/pkg/notify"
	"github.com/shashiranjanraj/bazario/pkg/rbac"
	"github.com/shashiranjanraj/bazario/pkg/storage"
	"github.com/shashiranjanraj/bazario/pkg/validate"
)

func init() {
	adminProductCmd.AddCommand(adminProductCreateCmd, adminProductUpdateCmd, adminProductDeleteCmd)
	adminCategoryCmd.AddCommand(adminCategoryCreateCmd, adminCategoryDeleteCmd)
	adminCmd.AddCommand(adminProductCmd, adminCategoryCmd, adminOrdersCmd, adminOrderStatusCmd,
		adminUsersCmd, adminUserRoleCmd, adminExportCmd)
	rootCmd.AddCommand(adminCmd)

	for _, c := range []*cobra.Command{adminProductCreateCmd, adminProductUpdateCmd} {
		c.Flags().String("name", "", "product name")
		c.Flags().String("description", "", "product description")
		c.Flags().Float64("price", 0, "unit price")
		c.Flags().Int("stock", 0, "units in stock")
		c.Flags().String("sku", "", "stock keeping unit")
		c.Flags().Int64("category", 0, "category id")
	}
	adminExportCmd.Flags().String("disk", "", "storage disk to write to (default STORAGE_DISK)")
}

// requirePermission resolves the session role and pre-checks a permission so
// the user gets an instant denial instead of a backend round trip.
func requirePermission(permission string) error {
	if err := requireAuth(); err != nil {
		return err
	}
	return rbac.Require(app.sessions.Role(), permission)
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Store administration",
}

// ── Products ─────────────────────────────────────────────────────────────────

var adminProductCmd = &cobra.Command{
	Use:   "product",
	Short: "Manage catalog products",
}

func productInputFromFlags(cmd *cobra.Command) (api.ProductInput, error) {
	var in api.ProductInput
	var err error
	if in.Name, err = cmd.Flags().GetString("name"); err != nil {
		return in, err
	}
	in.Description, _ = cmd.Flags().GetString("description")
	in.Price, _ = cmd.Flags().GetFloat64("price")
	in.Stock, _ = cmd.Flags().GetInt("stock")
	in.SKU, _ = cmd.Flags().GetString("sku")
	in.CategoryID, _ = cmd.Flags().GetInt64("category")
	return in, nil
}

var adminProductCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a product",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requirePermission(rbac.ManageProducts); err != nil {
			return err
		}

		in, err := productInputFromFlags(cmd)
		if err != nil {
			return err
		}
		if err := validate.Required("name", in.Name); err != nil {
			return err
		}
		if in.Price <= 0 {
			return fmt.Errorf("price must be positive")
		}

		p, err := app.client.CreateProduct(cmd.Context(), in)
		if err != nil {
			return err
		}
		notify.Successf("created product #%d %s", p.ID, p.Name)
		return nil
	},
}

var adminProductUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requirePermission(rbac.ManageProducts); err != nil {
			return err
		}

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("product id must be a number, got %q", args[0])
		}

		in, err := productInputFromFlags(cmd)
		if err != nil {
			return err
		}

		p, err := app.client.UpdateProduct(cmd.Context(), id, in)
		if err != nil {
			return err
		}
		notify.Successf("updated product #%d %s", p.ID, p.Name)
		return nil
	},
}

var adminProductDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requirePermission(rbac.ManageProducts); err != nil {
			return err
		}

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("product id must be a number, got %q", args[0])
		}
		if err := app.client.DeleteProduct(cmd.Context(), id); err != nil {
			return err
		}
		notify.Successf("deleted product #%d", id)
		return nil
	},
}

// ── Categories ───────────────────────────────────────────────────────────────

var adminCategoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage categories",
}

var adminCategoryCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Add a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requirePermission(rbac.ManageCategories); err != nil {
			return err
		}
		c, err := app.client.CreateCategory(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		notify.Successf("created category #%d %s", c.ID, c.Name)
		return nil
	},
}

var adminCategoryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requirePermission(rbac.ManageCategories); err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("category id must be a number, got %q", args[0])
		}
		if err := app.client.DeleteCategory(cmd.Context(), id); err != nil {
			return err
		}
		notify.Successf("deleted category #%d", id)
		return nil
	},
}

// ── Orders ───────────────────────────────────────────────────────────────────

var adminOrdersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List all orders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requirePermission(rbac.ManageOrders); err != nil {
			return err
		}

		orders, err := app.client.AllOrders(cmd.Context())
		if err != nil {
			return err
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

var adminOrderStatusCmd = &cobra.Command{
	Use:   "order-status <id> <status>",
	Short: "Move an order to a new status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requirePermission(rbac.ManageOrders); err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("order id must be a number, got %q", args[0])
		}
		if err := app.client.SetOrderStatus(cmd.Context(), id, args[1]); err != nil {
			return err
		}
		notify.Successf("order #%d set to %s", id, args[1])
		return nil
	},
}

// ── Users ────────────────────────────────────────────────────────────────────

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requirePermission(rbac.ManageUsers); err != nil {
			return err
		}

		users, err := app.client.Users(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tROLE")
		for _, u := range users {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.Role)
		}
		return w.Flush()
	},
}

var adminUserRoleCmd = &cobra.Command{
	Use:   "user-role <id> <role>",
	Short: "Change an account's role",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requirePermission(rbac.ManageUsers); err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("user id must be a number, got %q", args[0])
		}
		if err := app.client.SetUserRole(cmd.Context(), id, args[1]); err != nil {
			return err
		}
		notify.Successf("user #%d is now %s", id, args[1])
		return nil
	},
}

// ── Export ───────────────────────────────────────────────────────────────────

var adminExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full catalog to CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requirePermission(rbac.ExportCatalog); err != nil {
			return err
		}

		var (
			disk storage.Disk
			err  error
		)
		if name, _ := cmd.Flags().GetString("disk"); name != "" {
			disk, err = storage.Use(name)
		} else {
			disk, err = storage.Default()
		}
		if err != nil {
			return err
		}

		exporter := services.NewExporter(app.client, disk)
		url, err := exporter.Export(cmd.Context(), app.sessions.Role())
		if err != nil {
			return err
		}
		notify.Successf("catalog exported to %s", url)
		return nil
	},
}
