package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ananya/resumatch/internal/market"
	"github.com/ananya/resumatch/internal/observability"
	"github.com/ananya/resumatch/internal/vocab"
	"github.com/spf13/cobra"
)

var fetchMarketCmd = &cobra.Command{
	Use:   "fetch-market",
	Short: "Fetch a labor-market snapshot for a role",
	Long:  `Fetch live job postings for a role, derive the ranked skill demand table, and print the snapshot. Use --out to write it as JSON.`,
	RunE:  runFetchMarket,
}

var (
	fetchRole       string
	fetchMaxJobs    int
	fetchFeedURL    string
	fetchOutputFile string
)

func init() {
	fetchMarketCmd.Flags().StringVarP(&fetchRole, "role", "r", "", "Role to fetch market data for (required)")
	fetchMarketCmd.Flags().IntVar(&fetchMaxJobs, "max-jobs", 15, "Maximum postings to fetch")
	fetchMarketCmd.Flags().StringVar(&fetchFeedURL, "feed-url", "", "Job feed URL (defaults to the public remote-jobs feed)")
	fetchMarketCmd.Flags().StringVarP(&fetchOutputFile, "out", "o", "", "Path to write the snapshot JSON (optional)")

	_ = fetchMarketCmd.MarkFlagRequired("role")
	rootCmd.AddCommand(fetchMarketCmd)
}

func runFetchMarket(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	provider := market.NewProvider(vocab.New(), &market.Options{FeedURL: fetchFeedURL})
	snapshot, err := provider.FetchByRole(ctx, fetchRole, fetchMaxJobs)
	if err != nil {
		return fmt.Errorf("failed to fetch market data: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintMarketSnapshot(snapshot)

	if fetchOutputFile != "" {
		jsonBytes, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot: %w", err)
		}
		if err := os.WriteFile(fetchOutputFile, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Snapshot written to %s\n", fetchOutputFile)
	}

	return nil
}
