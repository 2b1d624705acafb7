package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ananya/resumatch/internal/events"
	"github.com/ananya/resumatch/internal/observability"
	"github.com/ananya/resumatch/internal/types"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a one-shot resume analysis",
	Long:  `Run the full analysis pipeline against a resume text file and print the report. Use --out to also write the report as JSON.`,
	RunE:  runAnalyze,
}

var (
	analyzeConfigPath string
	analyzeResumeFile string
	analyzeOutputFile string
	analyzeVerbose    bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to config.json file")
	analyzeCmd.Flags().StringVarP(&analyzeResumeFile, "resume", "r", "", "Path to resume text file (required)")
	analyzeCmd.Flags().StringVarP(&analyzeOutputFile, "out", "o", "", "Path to write the report JSON (optional)")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print detailed progress information")

	_ = analyzeCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	resumeBytes, err := os.ReadFile(analyzeResumeFile)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	cfg, err := loadMergedConfig(analyzeConfigPath)
	if err != nil {
		return err
	}
	if analyzeVerbose {
		cfg.Verbose = true
	}

	pipeline, _, cleanup, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var report *types.AnalysisReport
	if cfg.Verbose {
		ch := events.NewChannel(events.DefaultBuffer)
		go func() {
			ch.Finish(pipeline.Run(ctx, string(resumeBytes), ch))
		}()
		err = ch.Drain(ctx, func(ev events.Event) error {
			switch ev.Type {
			case events.TypeLog:
				fmt.Fprintf(os.Stderr, "%v\n", ev.Data)
			case events.TypeNode:
				if status, ok := ev.Data.(events.NodeStatus); ok {
					fmt.Fprintf(os.Stderr, "[%s] %s\n", status.Node, status.Status)
				}
			case events.TypeResult:
				if r, ok := ev.Data.(*types.AnalysisReport); ok {
					report = r
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	} else {
		report = pipeline.Run(ctx, string(resumeBytes), nil)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintReport(report)

	if analyzeOutputFile != "" {
		jsonBytes, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		if err := os.WriteFile(analyzeOutputFile, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Report written to %s\n", analyzeOutputFile)
	}

	return nil
}
