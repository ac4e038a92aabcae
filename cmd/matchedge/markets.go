package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var marketsYAML bool

func init() {
	marketsCmd.Flags().BoolVar(&marketsYAML, "yaml", false, "Print the catalog as YAML")
}

var marketsCmd = &cobra.Command{
	Use:   "markets",
	Short: "Print the calibration catalog in use",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		summaries := catalog.Summaries()

		if marketsYAML {
			enc := yaml.NewEncoder(out)
			defer enc.Close()
			return enc.Encode(map[string]interface{}{
				"version": catalog.Version(),
				"markets": summaries,
			})
		}

		fmt.Fprintf(out, "Catalog %s\n", catalog.Version())
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "MARKET\tLABEL\tLINES\tMIN\tBET\tSTRONG")
		for _, s := range summaries {
			lines := make([]string, 0, len(s.Thresholds))
			for _, t := range s.Thresholds {
				lines = append(lines, fmt.Sprintf("%.1f", t))
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f\t%.0f\t%.0f\n",
				s.Market, s.Label, strings.Join(lines, " "), s.MinConfidence, s.BetConfidence, s.StrongBetConfidence)
		}
		return tw.Flush()
	},
}
