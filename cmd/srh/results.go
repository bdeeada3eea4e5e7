package main

import (
	"fmt"
	"strings"

	"srh-intent/internal/bootstrap"
	"srh-intent/internal/entity"
	"srh-intent/internal/repository/specification"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var resultsFlags struct {
	status, runID, id, model string
	allModels                bool
	limit, offset            int
}

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List results stored in the postgres mirror",
	Long: `Lists stored results newest first. Requires DB_CONNECTION_STRING.

Example:
  srh results --status failed --run-id 6f1c... --limit 50`,
	Args: cobra.NoArgs,
	RunE: runResults,
}

func init() {
	f := resultsCmd.Flags()
	f.StringVar(&resultsFlags.status, "status", "", "classified or failed")
	f.StringVar(&resultsFlags.runID, "run-id", "", "only results of this run")
	f.StringVar(&resultsFlags.id, "id", "", "only the result for this row identifier")
	f.StringVarP(&resultsFlags.model, "model", "m", "", "model name (LLM_MODEL)")
	f.BoolVar(&resultsFlags.allModels, "all-models", false, "do not filter by model")
	f.IntVarP(&resultsFlags.limit, "limit", "n", 20, "page size, 0 for all")
	f.IntVar(&resultsFlags.offset, "offset", 0, "skip this many newest results")
}

// buildResultFilter turns the flags into a filter on top of the configured model.
func buildResultFilter(defaultModel string) (specification.ResultFilter, error) {
	filter := specification.ResultFilter{ID: entity.RowID(resultsFlags.id)}

	if !resultsFlags.allModels {
		filter.Model = defaultModel
		if resultsFlags.model != "" {
			filter.Model = resultsFlags.model
		}
	}

	switch strings.ToUpper(resultsFlags.status) {
	case "":
	case string(entity.StatusClassified):
		filter.Status = entity.StatusClassified
	case string(entity.StatusFailed):
		filter.Status = entity.StatusFailed
	default:
		return filter, fmt.Errorf("unknown status %q (want classified or failed)", resultsFlags.status)
	}

	if resultsFlags.runID != "" {
		id, err := uuid.Parse(resultsFlags.runID)
		if err != nil {
			return filter, fmt.Errorf("invalid run id: %w", err)
		}
		filter.RunID = &id
	}
	return filter, nil
}

func runResults(cmd *cobra.Command, args []string) error {
	filter, err := buildResultFilter(cfg.Ai.Model)
	if err != nil {
		return err
	}

	query, closeDB, err := bootstrap.NewResultQuery(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	page, err := query.List(cmd.Context(), filter, specification.Pagination{
		Limit:  resultsFlags.limit,
		Offset: resultsFlags.offset,
	})
	if err != nil {
		return err
	}

	for _, r := range page.Records {
		head := fmt.Sprintf("%s [%s] %s", r.ID, r.Model, r.Query)
		if r.Succeeded() {
			color.Green("%s", head)
			fmt.Printf("    %s / %s\n", entity.StringOrEmpty(r.Topic), entity.StringOrEmpty(r.Subtopic))
		} else {
			color.Red("%s", head)
			fmt.Printf("    %s\n", r.RawOutput)
		}
	}
	color.Cyan("%d of %d matching results", len(page.Records), page.Total)
	return nil
}
