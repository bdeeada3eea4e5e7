package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"srh-intent/internal/pkg/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var logsFlags struct {
	level, id     string
	limit, offset int
	raw           bool
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show recent entries from the log file",
	Long: `Reads the active log file newest first. Use --level warn to audit rows
that failed or were retried.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if logsFlags.id != "" {
			entry, err := log.GetLogById(logsFlags.id)
			if err != nil {
				return err
			}
			return printEntries([]logger.LogEntry{*entry})
		}

		entries, err := log.GetLogs(logsFlags.level, logsFlags.limit, logsFlags.offset)
		if err != nil {
			return err
		}
		return printEntries(entries)
	},
}

func init() {
	f := logsCmd.Flags()
	f.StringVarP(&logsFlags.level, "level", "l", "", "only entries of this level (debug, info, warn, error)")
	f.StringVar(&logsFlags.id, "id", "", "show a single entry by id")
	f.IntVarP(&logsFlags.limit, "limit", "n", 20, "number of entries, 0 for all")
	f.IntVar(&logsFlags.offset, "offset", 0, "skip this many newest entries")
	f.BoolVar(&logsFlags.raw, "json", false, "print entries as JSON lines")
}

func printEntries(entries []logger.LogEntry) error {
	for _, e := range entries {
		if logsFlags.raw {
			b, err := json.Marshal(e)
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			continue
		}

		head := fmt.Sprintf("%s %-5s [%s] %s", e.Timestamp, strings.ToUpper(e.Level), e.Module, e.Message)
		switch strings.ToLower(e.Level) {
		case "error":
			color.Red("%s", head)
		case "warn":
			color.Yellow("%s", head)
		default:
			fmt.Println(head)
		}
		if len(e.Details) > 0 {
			b, _ := json.Marshal(e.Details)
			fmt.Printf("    %s  id=%s\n", b, e.Id)
		}
	}
	return nil
}
