package main

import (
	"fmt"
	"os"
	"strings"

	"srh-intent/internal/bootstrap"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var taxonomyFlags struct {
	file, format string
}

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Print the active topic/subtopic taxonomy",
	Long: `Prints the built-in taxonomy, or the one loaded from --file / TAXONOMY_FILE.
The YAML output can be edited and passed back with --taxonomy.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Run.TaxonomyFile
		if cmd.Flags().Changed("file") {
			path = taxonomyFlags.file
		}
		tax, err := bootstrap.LoadTaxonomy(path)
		if err != nil {
			return err
		}

		switch strings.ToLower(taxonomyFlags.format) {
		case "yaml", "yml":
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			if err := enc.Encode(tax); err != nil {
				return err
			}
			return enc.Close()
		case "json":
			fmt.Println(tax.IndentedJSON("    "))
			return nil
		default:
			return fmt.Errorf("unknown format %q (want yaml or json)", taxonomyFlags.format)
		}
	},
}

func init() {
	taxonomyCmd.Flags().StringVarP(&taxonomyFlags.file, "file", "f", "", "taxonomy YAML file (TAXONOMY_FILE)")
	taxonomyCmd.Flags().StringVar(&taxonomyFlags.format, "format", "yaml", "output format: yaml or json")
}
