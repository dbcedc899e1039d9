// Command report prints budget progress and next month's expected spending.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"pennywise/internal/analytics"
	"pennywise/internal/clock"
	"pennywise/internal/config"
	"pennywise/internal/database"
	"pennywise/internal/events"
	"pennywise/internal/logger"
	"pennywise/internal/models"
	"pennywise/internal/money"
	"pennywise/internal/server"
	"pennywise/internal/services"
)

var (
	asOf       = flag.String("as-of", "", "Report date (YYYY-MM-DD). Defaults to today.")
	configPath = flag.String("config", config.DefaultPath(), "Path to the YAML config file.")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "report: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Init(cfg.Env, "warn")
	defer logger.Sync()

	var date time.Time
	if *asOf != "" {
		date, err = time.Parse("2006-01-02", *asOf)
		if err != nil {
			return fmt.Errorf("invalid -as-of %q: %w", *asOf, err)
		}
	}

	manager, err := database.NewManager(database.NewConfig(cfg.Database))
	if err != nil {
		return err
	}
	defer manager.Close()

	svc := server.NewServices(manager.DB(), clock.SystemClock{}, events.Nop{})

	progress, err := svc.Budgets.GetActiveBudgetsProgress(date)
	if err != nil {
		return err
	}
	printBudgets(progress, cfg.Currency)

	prediction, err := svc.Insights.NextMonthPrediction(services.AnalyticsFilter{})
	switch {
	case errors.Is(err, analytics.ErrInsufficientData):
		color.New(color.FgYellow).Printf("\nNext month: %v\n", err)
	case err != nil:
		return err
	default:
		fmt.Printf("\nNext month expected spending: %s\n", money.FormatFloat(prediction, cfg.Currency))
	}
	return nil
}

func printBudgets(progress []services.BudgetProgress, symbol string) {
	header := color.New(color.BgBlue, color.FgWhite)
	if len(progress) == 0 {
		fmt.Println("No active budgets.")
		return
	}

	header.Printf(" %-20s %-8s %14s %14s %7s ", "CATEGORY", "PERIOD", "SPENT", "BUDGETED", "USED")
	fmt.Println()
	for _, p := range progress {
		statusColor(p.Status).Printf(" %-20s %-8s %14s %14s %6.1f%% ",
			p.Budget.Category,
			p.Budget.Period,
			money.Format(p.Spent, symbol),
			money.Format(p.Budgeted, symbol),
			p.PercentageSpent,
		)
		fmt.Println()
	}
}

func statusColor(status models.BudgetStatus) *color.Color {
	switch status {
	case models.BudgetStatusOverBudget:
		return color.New(color.FgRed, color.Bold)
	case models.BudgetStatusWarning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}
