package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/linarith/check"
	"github.com/gnolang/linarith/formatter"
	tt "github.com/gnolang/linarith/internal/types"
)

var (
	checkJsonOutput bool
	outPath         string
	maxRounds       int
	order           string
	ambientType     string
	noCache         bool
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Decide the problems in YAML problem files",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		config, err := loadConfig(cmd)
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}

		engine, err := check.NewFromConfig(config, logger)
		if err != nil {
			logger.Fatal("Failed to initialize engine", zap.Error(err))
		}

		mismatch, err := runCheck(ctx, logger, engine, args, cmd.OutOrStdout(), checkJsonOutput, outPath)
		if err != nil {
			logger.Error("Error processing files", zap.Error(err))
			os.Exit(1)
		}
		if mismatch {
			os.Exit(1)
		}
	},
}

func init() {
	addProverFlags(checkCmd)
	checkCmd.Flags().BoolVar(&checkJsonOutput, "json", false, "Output results in JSON format")
	checkCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "Disable the result cache")
}

func addProverFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&maxRounds, "max-rounds", 0, "Maximum number of elimination rounds (overrides the config)")
	cmd.Flags().StringVar(&order, "order", "", "Elimination order: ascending or fewest-pairs (overrides the config)")
	cmd.Flags().StringVar(&ambientType, "type", "", "Keep only hypotheses of this type (overrides the config)")
}

// loadConfig reads the configuration file and applies the flags the user
// set explicitly.
func loadConfig(cmd *cobra.Command) (check.Config, error) {
	config, err := check.LoadConfig(cfgFile)
	if err != nil {
		return config, err
	}

	flags := cmd.Flags()
	if flags.Changed("max-rounds") {
		config.Prover.MaxRounds = maxRounds
	}
	if flags.Changed("order") {
		config.Prover.Order = order
	}
	if flags.Changed("type") {
		config.Prover.Type = ambientType
	}
	if flags.Lookup("no-cache") != nil && flags.Changed("no-cache") && noCache {
		config.Cache.Dir = ""
	}
	return config, nil
}

// runCheck decides every problem below paths and prints the results. It
// reports whether any result contradicts its expectation.
func runCheck(ctx context.Context, logger *zap.Logger, engine check.CheckEngine, paths []string, w io.Writer, isJson bool, jsonOutput string) (bool, error) {
	results, err := check.ProcessFiles(ctx, logger, engine, paths, check.ProcessFile)
	if err != nil {
		return false, err
	}

	if err := printResults(w, results, isJson, jsonOutput); err != nil {
		return false, err
	}
	return check.HasMismatch(results), nil
}

func printResults(w io.Writer, results []tt.Result, isJson bool, jsonOutput string) error {
	if !isJson {
		fmt.Fprint(w, formatter.FormatResults(results))
		fmt.Fprint(w, formatter.Summary(results))
		return nil
	}

	d, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling results to JSON: %w", err)
	}
	if jsonOutput == "" {
		fmt.Fprintln(w, string(d))
		return nil
	}
	if err := os.WriteFile(jsonOutput, d, 0o644); err != nil {
		return fmt.Errorf("error writing JSON output file: %w", err)
	}
	return nil
}
