package main

import (
	"fmt"
	"os"
	"path/filepath"

	"srh-intent/internal/source"
	"srh-intent/pkg/cmi"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const cmiProgressEvery = 500

var cmiFlags struct {
	input, output               string
	idColumn, textColumn, sheet string
}

var cmiCmd = &cobra.Command{
	Use:   "cmi",
	Short: "Compute the Code-Mixing Index of every query",
	Long: `Scores each query with CMI = 100 * (1 - max(hi, en) / n), prints corpus
statistics and writes per-query scores to a CSV file (id,query,cmi,hi,en).`,
	Args: cobra.NoArgs,
	RunE: runCMI,
}

func init() {
	f := cmiCmd.Flags()
	f.StringVarP(&cmiFlags.input, "input", "i", "", "input .xlsx or .csv file (INPUT_FILE)")
	f.StringVarP(&cmiFlags.output, "output", "o", "output/cmi_results.csv", "CSV file for per-query scores")
	f.StringVar(&cmiFlags.idColumn, "id-column", "", "identifier column (ID_COLUMN)")
	f.StringVar(&cmiFlags.textColumn, "text-column", "", "query text column (TEXT_COLUMN)")
	f.StringVar(&cmiFlags.sheet, "sheet", "", "worksheet name for .xlsx input (INPUT_SHEET)")
}

func runCMI(cmd *cobra.Command, args []string) error {
	opts := source.Options{IDColumn: cfg.Run.IDColumn, TextColumn: cfg.Run.TextColumn, Sheet: cfg.Run.Sheet}
	input := cfg.Run.InputFile
	if cmd.Flags().Changed("input") {
		input = cmiFlags.input
	}
	if cmd.Flags().Changed("id-column") {
		opts.IDColumn = cmiFlags.idColumn
	}
	if cmd.Flags().Changed("text-column") {
		opts.TextColumn = cmiFlags.textColumn
	}
	if cmd.Flags().Changed("sheet") {
		opts.Sheet = cmiFlags.sheet
	}

	ctx, stop := signalContext()
	defer stop()

	src, err := source.Open(input, opts)
	if err != nil {
		return err
	}
	queries, err := src.Rows(ctx)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	log.Info("CMI", "Scoring corpus", map[string]interface{}{"input": input, "rows": len(queries)})
	rows, err := cmi.ScoreAll(ctx, queries, cmi.NewLinguaIdentifier(), func(done int) {
		if done%cmiProgressEvery == 0 {
			log.Info("CMI", "Progress", map[string]interface{}{"processed": done, "total": len(queries)})
		}
	})
	if err != nil {
		return err
	}

	summary := cmi.Summarize(cmi.Values(rows))
	printCMISummary(summary)

	if err := writeCMIFile(cmiFlags.output, rows); err != nil {
		return fmt.Errorf("write %s: %w", cmiFlags.output, err)
	}
	log.Info("CMI", "Results saved", map[string]interface{}{"output": cmiFlags.output, "summary": summary.String()})
	color.Green("Results saved to %s", cmiFlags.output)
	return nil
}

func writeCMIFile(path string, rows []cmi.Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := cmi.WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printCMISummary(s cmi.Summary) {
	color.Cyan("CMI STATISTICS")
	fmt.Printf("Total sentences: %d\n", s.Count)
	fmt.Printf("Mean CMI:   %.2f%%\n", s.Mean)
	fmt.Printf("Median CMI: %.2f%%\n", s.Median)
	fmt.Printf("Std Dev:    %.2f%%\n", s.StdDev)
	fmt.Printf("Min CMI:    %.2f%%\n", s.Min)
	fmt.Printf("Max CMI:    %.2f%%\n", s.Max)
}
