package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/deepnoodle-ai/semgen"
	"github.com/deepnoodle-ai/semgen/config"
	"github.com/deepnoodle-ai/semgen/internal/render"
	"github.com/deepnoodle-ai/semgen/llm"
	"github.com/deepnoodle-ai/semgen/log"
	"github.com/deepnoodle-ai/semgen/source/bigquery"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	version = "dev"

	errorStyle = color.New(color.FgRed)
)

// app holds the collaborators of a run so tests can replace them.
type app struct {
	stdout   io.Writer
	newModel func(cfg *config.Config) (llm.LLM, error)
	fetcher  bigquery.MetadataFetcher
}

func main() {
	a := &app{stdout: os.Stdout, newModel: createModel}
	if err := a.rootCmd().Execute(); err != nil {
		errorStyle.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "semgen [instruction]",
		Short: "Generate a BI semantic-model table with an LLM",
		Long: `semgen asks a language model to describe a business-intelligence
semantic-model table (columns, measures, relationships and metadata) and
prints the validated result.

Without an instruction or --prompt-file the built-in Sales example is used.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.run(ctx, cfg, args)
		},
	}
	config.DefineFlags(cmd.Flags())
	return cmd
}

func (a *app) run(ctx context.Context, cfg *config.Config, args []string) error {
	logger := log.NewWithOptions(log.Options{
		Level:  log.LevelFromString(cfg.LogLevel),
		Writer: a.stdout,
	})

	instruction, err := readInstruction(cfg.PromptFile, args)
	if err != nil {
		return err
	}

	// Resolve the provider before any network traffic so a missing
	// credential fails fast.
	model, err := a.newModel(cfg)
	if err != nil {
		return err
	}

	if cfg.BigQueryTable != "" {
		ref, err := bigquery.ParseTableRef(cfg.BigQueryTable)
		if err != nil {
			return err
		}
		logger.Debug("describing source table", "table", ref.String())
		sourceContext, err := bigquery.NewDescriber(a.fetcher).Describe(ctx, ref)
		if err != nil {
			return err
		}
		instruction = semgen.BuildInstruction(instruction, sourceContext)
	}

	generator, err := semgen.NewGenerator(semgen.GeneratorOptions{
		Model:     model,
		ModelName: cfg.Model,
		Hooks:     semgen.DefaultHooks(logger),
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	table, err := generator.Generate(ctx, instruction)
	if err != nil {
		return err
	}
	return render.Render(a.stdout, table, cfg.Format)
}

// readInstruction returns the instruction from the prompt file, the
// positional arguments, or the built-in example, in that order.
func readInstruction(promptFile string, args []string) (string, error) {
	if promptFile != "" {
		data, err := os.ReadFile(promptFile)
		if err != nil {
			return "", fmt.Errorf("failed to read prompt file: %w", err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return "", fmt.Errorf("prompt file %s: %w", promptFile, semgen.ErrEmptyInstruction)
		}
		return string(data), nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	return semgen.ExampleInstruction, nil
}
