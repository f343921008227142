package main

import (
	"encoding/json"
	"fmt"
	"time"

	"tiffin/cmd"
	httpapi "tiffin/internal/adapters/in/http"
	"tiffin/internal/core/application/usecases/commands"
	"tiffin/internal/core/domain/model/kernel"
	"tiffin/internal/core/domain/model/order"

	"github.com/spf13/cobra"
)

var (
	optimizeDate  string
	optimizeStart string

	ordersDate string
	ordersMeal string
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Compute the route of a day and print it as JSON",
	RunE:  optimize,
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Create the orders of a day from active subscriptions",
	RunE:  createOrders,
}

func init() {
	optimizeCmd.Flags().StringVar(&optimizeDate, "date", "", "delivery date, YYYY-MM-DD (default today)")
	optimizeCmd.Flags().StringVar(&optimizeStart, "start", "", "route start time, RFC 3339 (default now)")
	ordersCmd.Flags().StringVar(&ordersDate, "date", "", "order date, YYYY-MM-DD (default today)")
	ordersCmd.Flags().StringVar(&ordersMeal, "meal", order.Lunch.String(), "meal type: lunch or dinner")
	rootCmd.AddCommand(optimizeCmd, ordersCmd)
}

func dateFlag(value string) (time.Time, error) {
	if value == "" {
		return kernel.DateOf(time.Now()), nil
	}
	return kernel.ParseDate(value)
}

func optimize(c *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	date, err := dateFlag(optimizeDate)
	if err != nil {
		return err
	}
	start := time.Now()
	if optimizeStart != "" {
		if start, err = time.Parse(time.RFC3339, optimizeStart); err != nil {
			return err
		}
	}

	return withRoot(cfg, func(root *cmd.CompositionRoot) error {
		handler, err := root.CreateOptimizeRouteCommandHandler()
		if err != nil {
			return err
		}
		command, err := commands.NewOptimizeRouteCommand(date, nil, start)
		if err != nil {
			return err
		}
		r, err := handler.Handle(ctx, command)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(c.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(httpapi.OptimizedRouteFrom(r))
	})
}

func createOrders(c *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	date, err := dateFlag(ordersDate)
	if err != nil {
		return err
	}
	mealType, err := order.ParseMealType(ordersMeal)
	if err != nil {
		return err
	}

	return withRoot(cfg, func(root *cmd.CompositionRoot) error {
		command, err := commands.NewBulkCreateOrdersCommand(date, mealType, nil)
		if err != nil {
			return err
		}
		result, err := root.CreateBulkCreateOrdersCommandHandler().Handle(ctx, command)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(c.OutOrStdout(), "created %d, skipped %d (existing %d, inactive %d, excluded %d)\n",
			result.Created, result.Skipped(), result.SkippedExisting, result.SkippedInactive, result.SkippedExcluded)
		return err
	})
}
