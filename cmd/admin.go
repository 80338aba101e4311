package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gtech/internal/domain"
	"gtech/internal/repository"
)

var (
	catalogCategory string
	catalogQuery    string
	catalogSort     string
	catalogFeatured bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List products with the storefront filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		f := repository.ProductFilter{
			Query:        catalogQuery,
			Category:     domain.ProductCategory(catalogCategory),
			Sort:         repository.SortOrder(catalogSort),
			FeaturedOnly: catalogFeatured,
		}
		if f.Category != "" && !f.Category.Valid() {
			return fmt.Errorf("unknown category %q", catalogCategory)
		}
		list, err := a.services.Products.List(cmd.Context(), f)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tCONDITION\tPRICE\tLOCATION")
		for _, p := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", p.ID, p.Name, p.Category, p.Condition, p.Price, p.Location)
		}
		return w.Flush()
	},
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Order administration",
}

var ordersStatusCmd = &cobra.Command{
	Use:   "status <order-id> <status>",
	Short: "Move an order to a new status and record a tracking event",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		o, err := a.services.Orders.UpdateStatus(cmd.Context(), args[0], domain.OrderStatus(args[1]))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", o.ID, o.Status)
		for _, ev := range o.Tracking {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s  %-16s %s\n", ev.Timestamp.Format("2006-01-02 15:04"), ev.Status, ev.Message)
		}
		return nil
	},
}

var ordersNextCmd = &cobra.Command{
	Use:   "next <status>",
	Short: "Show the statuses reachable from a status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := domain.OrderStatus(args[0])
		if !s.Valid() {
			return fmt.Errorf("unknown status %q", args[0])
		}
		for _, n := range domain.NextStatuses(s) {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	},
}

func init() {
	catalogCmd.Flags().StringVar(&catalogCategory, "category", "", "filter by category")
	catalogCmd.Flags().StringVarP(&catalogQuery, "q", "q", "", "search name, description and specs")
	catalogCmd.Flags().StringVar(&catalogSort, "sort", "date", "date | price-low | price-high")
	catalogCmd.Flags().BoolVar(&catalogFeatured, "featured", false, "featured products only")

	ordersCmd.AddCommand(ordersStatusCmd, ordersNextCmd)
}
