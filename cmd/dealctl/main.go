// Package main provides dealctl, an operator CLI for inspecting the
// deal pipeline and portfolio directly against the record store.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/dealflow/internal/config"
	"github.com/yourusername/dealflow/internal/database"
	"github.com/yourusername/dealflow/internal/evaluate"
	"github.com/yourusername/dealflow/internal/listing"
	"github.com/yourusername/dealflow/internal/repository"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	ownerFlag  string
	sortFlag   string
	pageFlag   int
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")

	dealsListCmd.Flags().StringVar(&ownerFlag, "owner", "", "Owner user ID (required)")
	dealsListCmd.Flags().StringVar(&sortFlag, "sort", string(listing.SortByCreatedAt), "Sort column")
	dealsListCmd.Flags().IntVar(&pageFlag, "page", 1, "Page number")

	dealsCmd.AddCommand(dealsListCmd)
	dealsCmd.AddCommand(dealsCompareCmd)
	rootCmd.AddCommand(dealsCmd)
	rootCmd.AddCommand(portfolioCmd)
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "dealctl",
	Short: "Operator tooling for the deal tracking service",
	Long:  `Inspects deals, comparisons, and portfolio health directly against the record store.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return setupDependencies(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dealctl %s (%s)\n", Version, GitCommit)
	},
}

var dealsCmd = &cobra.Command{
	Use:   "deals",
	Short: "Inspect tracked deals",
}

var dealsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's deals the way the dashboard pages them",
	RunE: func(cmd *cobra.Command, args []string) error {
		ownerID, err := uuid.Parse(ownerFlag)
		if err != nil {
			return fmt.Errorf("--owner must be a valid user ID: %w", err)
		}
		column, err := listing.ParseSortColumn(sortFlag)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		query := listing.Query{
			Column:    column,
			Direction: listing.DefaultDirection(column),
			Page:      pageFlag,
			PageSize:  cfg.Listing.PageSize,
		}
		deals, total, err := repos.Deal.List(ctx, ownerID, query)
		if err != nil {
			return fmt.Errorf("failed to list deals: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCOMPANY\tSTAGE\tOUTCOME\tVALUATION\tAI SCORE")
		for _, d := range deals {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				d.ID, d.CompanyName, d.Stage, d.Outcome,
				evaluate.FormatCurrency(d.ValuationUSD),
				formatScore(d.AIScore))
		}
		w.Flush()
		fmt.Printf("\nPage %d, %d deals total\n", pageFlag, total)
		return nil
	},
}

var dealsCompareCmd = &cobra.Command{
	Use:   "compare <deal-id> [deal-id...]",
	Short: "Print the side-by-side comparison for a set of deals",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]uuid.UUID, 0, len(args))
		for _, arg := range args {
			id, err := uuid.Parse(arg)
			if err != nil {
				return fmt.Errorf("invalid deal ID %q: %w", arg, err)
			}
			ids = append(ids, id)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		deals, err := repos.Deal.GetByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to fetch deals: %w", err)
		}
		cmp := evaluate.Compare(deals)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		header := []string{"METRIC"}
		for _, col := range cmp.Columns {
			header = append(header, strings.ToUpper(col.CompanyName))
		}
		fmt.Fprintln(w, strings.Join(header, "\t"))

		for _, row := range cmp.Rows {
			line := []string{row.Label}
			for _, cell := range row.Cells {
				display := cell.Display
				if cell.Best {
					display += " *"
				}
				line = append(line, display)
			}
			fmt.Fprintln(w, strings.Join(line, "\t"))
		}
		w.Flush()
		return nil
	},
}

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show portfolio positions with their health classification",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		positions, err := repos.Position.GetAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch positions: %w", err)
		}

		summary := evaluate.SummarizeHealth(positions)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "COMPANY\tSTATUS\tRUNWAY\tREVENUE\tBURN")
		for _, p := range positions {
			h := evaluate.ClassifyPosition(p)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				p.CompanyName, h.Status, h.RunwayLabel, h.RevenueLabel, h.BurnLabel)
		}
		w.Flush()
		fmt.Printf("\n%d positions: %d critical, %d warning\n",
			summary.Total, summary.Critical, summary.Warning)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	appLog = logrus.New()
	appLog.SetLevel(logrus.WarnLevel)

	var err error
	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}
	return nil
}

func formatScore(score *float64) string {
	if score == nil {
		return evaluate.EmDash
	}
	return fmt.Sprintf("%g", *score)
}
