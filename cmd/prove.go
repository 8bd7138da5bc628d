package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/linarith/check"
	"github.com/gnolang/linarith/formatter"
	"github.com/gnolang/linarith/internal"
	"github.com/gnolang/linarith/internal/problem"
)

var goal string

var proveCmd = &cobra.Command{
	Use:   "prove [hypotheses...]",
	Short: "Refute inline hypotheses, or prove a goal from them",
	Long: `Each argument is a hypothesis written as a Go expression.
Without --goal the hypotheses are refuted; with --goal the goal is proved
by refuting the hypotheses together with its negation.

Example) linarith prove 'x - y < 0' 'y - x < 0'
Example) linarith prove '0 <= x && x <= 1' --goal 'x <= 2'`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		config, err := loadConfig(cmd)
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		config.Cache.Dir = ""

		engine, err := check.NewFromConfig(config, logger)
		if err != nil {
			logger.Fatal("Failed to initialize engine", zap.Error(err))
		}

		ok, err := runProve(ctx, engine, args, goal, cmd.OutOrStdout())
		if err != nil {
			logger.Error("Error deciding hypotheses", zap.Error(err))
			os.Exit(1)
		}
		if !ok {
			os.Exit(1)
		}
	},
}

func init() {
	addProverFlags(proveCmd)
	proveCmd.Flags().StringVar(&goal, "goal", "", "Goal to prove from the hypotheses")
}

// runProve decides the inline hypotheses and reports whether they were
// refuted, or the goal proved.
func runProve(ctx context.Context, engine *internal.Engine, hyps []string, goal string, w io.Writer) (bool, error) {
	p := problem.Problem{Name: "inline", Goal: goal}
	for _, h := range hyps {
		p.Hypotheses = append(p.Hypotheses, problem.HypothesisSpec{Expr: h})
	}
	if err := p.Validate(); err != nil {
		return false, err
	}

	results, err := engine.Solve(ctx, "", []problem.Problem{p})
	if err != nil {
		return false, err
	}

	fmt.Fprint(w, formatter.FormatResults(results))
	return results[0].Success(), nil
}
