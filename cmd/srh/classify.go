package main

import (
	"fmt"
	"strings"
	"time"

	"srh-intent/internal/bootstrap"
	"srh-intent/internal/config"
	"srh-intent/internal/entity"
	"srh-intent/internal/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var classifyFlags struct {
	input, output, model, provider, baseURL string
	idColumn, textColumn, sheet             string
	taxonomy, store                         string
	maxRetries, maxRows                     int
	backoff, sleep                          time.Duration
	validatePairs, cache                    bool
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify every pending query of the input file",
	Long: `Reads the input spreadsheet, skips rows whose identifier is already in the
result store and classifies the rest one at a time, saving after each row.
Interrupting with Ctrl-C stops after the last saved row; rerun to resume.

Example:
  srh classify --input data/queries.xlsx --output output/sarvam-m.json --max-rows 10`,
	Args: cobra.NoArgs,
	RunE: runClassify,
}

func init() {
	f := classifyCmd.Flags()
	f.StringVarP(&classifyFlags.input, "input", "i", "", "input .xlsx or .csv file (INPUT_FILE)")
	f.StringVarP(&classifyFlags.output, "output", "o", "", "JSON result file (OUTPUT_FILE)")
	f.StringVarP(&classifyFlags.model, "model", "m", "", "model name (LLM_MODEL)")
	f.StringVar(&classifyFlags.provider, "provider", "", "openrouter, openai or ollama (LLM_PROVIDER)")
	f.StringVar(&classifyFlags.baseURL, "base-url", "", "provider API base URL (LLM_BASE_URL)")
	f.StringVar(&classifyFlags.idColumn, "id-column", "", "identifier column (ID_COLUMN)")
	f.StringVar(&classifyFlags.textColumn, "text-column", "", "query text column (TEXT_COLUMN)")
	f.StringVar(&classifyFlags.sheet, "sheet", "", "worksheet name for .xlsx input (INPUT_SHEET)")
	f.StringVar(&classifyFlags.taxonomy, "taxonomy", "", "taxonomy YAML file (TAXONOMY_FILE)")
	f.StringVar(&classifyFlags.store, "store", "", "result store: json or postgres (RESULT_STORE)")
	f.IntVar(&classifyFlags.maxRetries, "max-retries", 0, "retries after the first model call (MAX_RETRIES)")
	f.IntVar(&classifyFlags.maxRows, "max-rows", 0, "classify at most this many rows, 0 for all (MAX_ROWS)")
	f.DurationVar(&classifyFlags.backoff, "backoff", 0, "retry backoff unit (RETRY_BACKOFF)")
	f.DurationVar(&classifyFlags.sleep, "sleep", 0, "delay between model calls (ROW_DELAY)")
	f.BoolVar(&classifyFlags.validatePairs, "validate-pairs", false, "retry answers outside the taxonomy (VALIDATE_PAIRS)")
	f.BoolVar(&classifyFlags.cache, "cache", false, "reuse answers for repeated query text (CACHE_ENABLED)")
}

// applyClassifyFlags copies explicitly set flags over the loaded config.
func applyClassifyFlags(fs *pflag.FlagSet, c *config.Config) {
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("input", func() { c.Run.InputFile = classifyFlags.input })
	set("output", func() { c.Run.OutputFile = classifyFlags.output })
	set("model", func() { c.Ai.Model = classifyFlags.model })
	set("provider", func() { c.Ai.Provider = strings.ToLower(classifyFlags.provider) })
	set("base-url", func() { c.Ai.BaseURL = classifyFlags.baseURL })
	set("id-column", func() { c.Run.IDColumn = classifyFlags.idColumn })
	set("text-column", func() { c.Run.TextColumn = classifyFlags.textColumn })
	set("sheet", func() { c.Run.Sheet = classifyFlags.sheet })
	set("taxonomy", func() { c.Run.TaxonomyFile = classifyFlags.taxonomy })
	set("store", func() { c.Run.ResultStore = strings.ToLower(classifyFlags.store) })
	set("max-retries", func() { c.Run.MaxRetries = classifyFlags.maxRetries })
	set("max-rows", func() { c.Run.MaxRows = classifyFlags.maxRows })
	set("backoff", func() { c.Run.RetryBackoff = classifyFlags.backoff })
	set("sleep", func() { c.Run.RowDelay = classifyFlags.sleep })
	set("validate-pairs", func() { c.Run.ValidatePairs = classifyFlags.validatePairs })
	set("cache", func() { c.Run.CacheEnabled = classifyFlags.cache })
}

func runClassify(cmd *cobra.Command, args []string) error {
	applyClassifyFlags(cmd.Flags(), cfg)

	ctx, stop := signalContext()
	defer stop()

	container, err := bootstrap.NewContainer(cfg, log, service.WithProgress(printProgress))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := container.Close(); cerr != nil {
			log.Warn("CLI", "Shutdown reported errors", map[string]interface{}{"error": cerr.Error()})
		}
	}()

	color.Cyan("Classifying %s with %s -> %s\n", cfg.Run.InputFile, cfg.Ai.Model, describeStore(cfg))

	summary, err := container.Driver.Run(ctx)
	if err != nil {
		return err
	}
	printSummary(summary)
	return nil
}

func describeStore(c *config.Config) string {
	if c.Run.ResultStore == config.StorePostgres {
		return "postgres"
	}
	return c.Run.OutputFile
}

func printProgress(ev service.ProgressEvent) {
	if ev.State == service.RowSkipped {
		return
	}

	prefix := fmt.Sprintf("[%d/%d] %s", ev.Position, ev.Total, ev.Query.ID)
	r := ev.Result
	switch ev.State {
	case service.RowClassified:
		conf := ""
		if r.Confidence != nil {
			conf = fmt.Sprintf(" (%.2f)", *r.Confidence)
		}
		tag := ""
		if ev.Cached {
			tag = " [cached]"
		}
		color.Green("%s %s / %s%s%s", prefix, entity.StringOrEmpty(r.Topic), entity.StringOrEmpty(r.Subtopic), conf, tag)
	case service.RowFailed:
		color.Red("%s failed after %d attempts: %s", prefix, r.Attempts, strings.TrimPrefix(r.RawOutput, entity.ErrorOutputPrefix))
	}
	if ev.PersistErr != nil {
		color.Yellow("%s not saved: %v", prefix, ev.PersistErr)
	}
}

func printSummary(s *service.RunSummary) {
	line := fmt.Sprintf("%d rows: %d classified, %d failed, %d skipped, %d not saved in %s",
		s.Total, s.Classified, s.Failed, s.Skipped, s.PersistErrors, s.Duration.Round(time.Millisecond))

	switch {
	case s.Interrupted:
		color.Yellow("Interrupted. %s. Rerun to resume.", line)
	case s.Failed > 0 || s.PersistErrors > 0:
		color.Yellow("Done. %s", line)
	default:
		color.Green("Done. %s", line)
	}
}
