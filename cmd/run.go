package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/qaforge/qaforge/internal/llm"
	"github.com/qaforge/qaforge/internal/qagen"
	"github.com/qaforge/qaforge/internal/seed"
	"github.com/qaforge/qaforge/internal/sink"
	"github.com/qaforge/qaforge/internal/store"
	"github.com/qaforge/qaforge/internal/tui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate a QA dataset from a seed file",
	Long: `Read seed (Category, Topic) pairs from a CSV/TSV/XLSX file, generate
question/answer records for each via the configured model, and write the
accumulated dataset to a tabular output file.

A seed whose generation call fails contributes zero records; the batch
always continues. Interrupting the run (Ctrl-C) stops before the next
seed and writes what was collected so far.`,
	RunE: runBatch,
}

func init() {
	runCmd.Flags().StringP("input", "i", "", "Seed file with Category and Topic columns (required)")
	runCmd.Flags().StringP("output", "o", "", "Output file (.csv or .xlsx; default: <input>_qa.<ext>)")
	runCmd.Flags().String("layout", string(sink.LayoutWide), "Output layout: long or wide")
	runCmd.Flags().Int("slots", sink.DefaultSlots, "QA column pairs per row in wide layout")
	runCmd.Flags().String("template", "topical", "Prompt template: "+strings.Join(qagen.TemplateNames(), " or "))
	runCmd.Flags().Int("count", 5, "Records to request per seed")
	runCmd.Flags().Float64("temperature", -1, "Sampling temperature (default: per template)")
	runCmd.Flags().String("provider", "", "Generation provider (overrides QAFORGE_LLM_PROVIDER)")
	runCmd.Flags().String("model", "", "Model ID (overrides the provider default)")
	runCmd.Flags().Duration("pacing", time.Second, "Delay between seeds")
	runCmd.Flags().Duration("timeout", 120*time.Second, "Per-request timeout")
	runCmd.Flags().Int("retries", 1, "Attempts per generation call (1 = no retry)")
	runCmd.Flags().Bool("schema", false, "Request schema-constrained output where the provider supports it")
	runCmd.Flags().Bool("tui", false, "Show a live progress view instead of log lines")
	_ = runCmd.MarkFlagRequired("input")
}

func runBatch(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	layoutVal, _ := cmd.Flags().GetString("layout")
	slots, _ := cmd.Flags().GetInt("slots")
	templateVal, _ := cmd.Flags().GetString("template")
	count, _ := cmd.Flags().GetInt("count")
	temperature, _ := cmd.Flags().GetFloat64("temperature")
	pacing, _ := cmd.Flags().GetDuration("pacing")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	retries, _ := cmd.Flags().GetInt("retries")
	useSchema, _ := cmd.Flags().GetBool("schema")
	useTUI, _ := cmd.Flags().GetBool("tui")

	layout, err := sink.ParseLayout(layoutVal)
	if err != nil {
		return err
	}
	template, err := qagen.TemplateByName(templateVal)
	if err != nil {
		return err
	}
	if output == "" {
		output = defaultOutputPath(input)
	}

	// Preconditions first: the seed file must be readable and carry the
	// required columns before any network activity starts.
	seeds, err := seed.Read(input)
	if err != nil {
		return fmt.Errorf("read seeds: %w", err)
	}
	if len(seeds) == 0 {
		return fmt.Errorf("no seed pairs found in %s", input)
	}

	events := openEventRepo(cmd)

	cfg := llm.ConfigFromEnv()
	cfg.Timeout = timeout
	cfg.Retry.MaxAttempts = retries
	if p, _ := cmd.Flags().GetString("provider"); p != "" {
		cfg.Provider = p
	}
	if m, _ := cmd.Flags().GetString("model"); m != "" {
		applyModel(&cfg, m)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := llm.NewProvider(ctx, cfg, events)
	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}

	runID := uuid.NewString()
	ctx = llm.WithRunID(ctx, runID)

	gen := qagen.Config{
		Template:    template,
		Count:       count,
		Temperature: temperature,
		Pacing:      pacing,
		UseSchema:   useSchema,
	}

	fmt.Printf("Processing %d seed pairs with %s (run %s)\n", len(seeds), provider.ModelID(), runID)

	var result *qagen.BatchResult
	var runErr error
	if useTUI {
		result, runErr = tui.RunBatch(ctx, provider, gen, seeds)
	} else {
		gen.Progress = printProgress
		result, runErr = qagen.NewRunner(provider, gen).Run(ctx, seeds)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "run interrupted: %v; writing partial results\n", runErr)
	}

	rows := sink.Rows(result, layout, slots)
	if err := sink.Write(output, rows); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	fmt.Printf("Done: %d/%d seeds processed, %d records (%d failed seeds)\n",
		len(result.Results), len(seeds), result.TotalRecords(), result.FailedSeeds())
	fmt.Printf("Results saved to %s\n", output)
	return nil
}

// printProgress logs the outcome of each seed to the terminal.
func printProgress(e qagen.ProgressEvent) {
	label := fmt.Sprintf("[%d/%d] %s / %s", e.Index+1, e.Total, e.Seed.Category, e.Seed.Topic)
	if e.Err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", label, e.Err)
		return
	}
	fmt.Printf("%s: %d records (%d total)\n", label, e.Records, e.TotalRecords)
}

// openEventRepo opens the event log, degrading to a nil repo with a
// warning when unavailable. Logging never blocks a run.
func openEventRepo(cmd *cobra.Command) store.EventRepo {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: event log disabled: %v\n", err)
		return nil
	}
	s, err := store.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: event log disabled: %v\n", err)
		return nil
	}
	cobra.OnFinalize(func() { _ = s.Close() })
	return s.EventRepo()
}

// applyModel routes a --model override to the selected provider's config.
func applyModel(cfg *llm.Config, model string) {
	switch cfg.Provider {
	case "ollama":
		cfg.Ollama.Model = model
	case "openai":
		cfg.OpenAI.Model = model
	case "anthropic":
		cfg.Anthropic.Model = model
	case "gemini":
		cfg.Gemini.Model = model
	}
}

// defaultOutputPath derives the output name from the input: seeds.xlsx
// becomes seeds_qa.xlsx, seeds.csv becomes seeds_qa.csv, and TSV input
// falls back to CSV output.
func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	if strings.EqualFold(ext, ".xlsx") {
		return base + "_qa.xlsx"
	}
	return base + "_qa.csv"
}
