// Command tutorial runs the completion API walkthrough and the trigonometry
// primer from the terminal.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ashureev/shsh-demos/internal/config"
	"github.com/ashureev/shsh-demos/internal/llm"
	"github.com/ashureev/shsh-demos/internal/trig"
	"github.com/ashureev/shsh-demos/internal/tutorial"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "tutorial",
		Short:        "Completion API and trigonometry walkthroughs",
		SilenceUsage: true,
	}
	root.AddCommand(newChatCmd(), newTrigCmd())
	return root
}

func newChatCmd() *cobra.Command {
	var demo string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Run the chat completion examples",
		RunE: func(cmd *cobra.Command, _ []string) error {
			demos := tutorial.Demos
			if demo != "all" {
				d, ok := tutorial.Lookup(demo)
				if !ok {
					return fmt.Errorf("unknown demo %q (want all, %s)", demo, strings.Join(tutorial.Names(), ", "))
				}
				demos = []tutorial.Demo{d}
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			client := llm.NewClient(cfg.LLM, nil)
			if !client.Configured() {
				return llm.ErrMissingAPIKey
			}
			return tutorial.Run(cmd.Context(), client, cmd.OutOrStdout(), demos...)
		},
	}
	cmd.Flags().StringVar(&demo, "demo", "all", "demo to run: all, "+strings.Join(tutorial.Names(), ", "))
	return cmd
}

func newTrigCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "trig",
		Short: "Print sin/cos/tan samples and plot the curves",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := trig.WriteTable(cmd.OutOrStdout(), trig.DefaultAngles); err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create plot file: %w", err)
			}
			if err := trig.Plot(f); err != nil {
				_ = f.Close()
				return fmt.Errorf("plot: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close plot file: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Plot saved to: %s\n", out)
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "trig_plot.png", "PNG file to write")
	return cmd
}
