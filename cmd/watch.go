package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/linarith/check"
	"github.com/gnolang/linarith/formatter"
	"github.com/gnolang/linarith/internal"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Re-check problem files as they change",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			args = []string{"."}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		config, err := loadConfig(cmd)
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}

		engine, err := check.NewFromConfig(config, logger)
		if err != nil {
			logger.Fatal("Failed to initialize engine", zap.Error(err))
		}

		if err := runWatch(ctx, logger, engine, args, cmd.OutOrStdout()); err != nil {
			logger.Error("Error watching", zap.Error(err))
			os.Exit(1)
		}
	},
}

func init() {
	addProverFlags(watchCmd)
}

// runWatch prints the results of every changed problem file below dirs
// until ctx is done.
func runWatch(ctx context.Context, logger *zap.Logger, engine *internal.Engine, dirs []string, w io.Writer) error {
	if err := engine.StartWatching(dirs...); err != nil {
		return err
	}
	logger.Info("watching for changes", zap.Strings("dirs", dirs))

	results := engine.Results()
	for {
		select {
		case <-ctx.Done():
			return engine.StopWatching()
		case res, ok := <-results:
			if !ok {
				return nil
			}
			if res.Err != nil {
				fmt.Fprintf(w, "%s: %v\n", res.Filename, res.Err)
				continue
			}
			fmt.Fprint(w, formatter.FormatResults(res.Results))
		}
	}
}
