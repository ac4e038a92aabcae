package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yourusername/matchedge/internal/models"
)

var (
	fixtureFile   string
	marketFilter  []string
	allThresholds bool
	jsonOutput    bool
)

func init() {
	predictCmd.Flags().StringVarP(&fixtureFile, "file", "f", "", "YAML fixture file with one match or a matches list")
	predictCmd.Flags().StringSliceVarP(&marketFilter, "markets", "m", nil, "Restrict to these markets")
	predictCmd.Flags().BoolVar(&allThresholds, "all", false, "Report every qualifying line instead of the best one")
	predictCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print reports as JSON")
	_ = predictCmd.MarkFlagRequired("file")
}

// fixture accepts either a single match at the top level or a list
type fixture struct {
	models.MatchRequest `yaml:",inline"`
	Matches             []models.MatchRequest `yaml:"matches"`
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Evaluate matches from a YAML fixture file",
	RunE: func(cmd *cobra.Command, args []string) error {
		reqs, err := readFixtures(fixtureFile)
		if err != nil {
			return err
		}
		for i := range reqs {
			if len(marketFilter) > 0 {
				reqs[i].Markets = marketFilter
			}
			if allThresholds {
				reqs[i].AllThresholds = true
			}
		}

		predictor, err := newPredictor()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout()*timeoutFactor(len(reqs)))
		defer cancel()

		reports, err := predictor.PredictBatch(ctx, reqs)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(reports)
		}
		for _, report := range reports {
			printReport(out, report)
		}
		return nil
	},
}

func timeoutFactor(n int) time.Duration {
	return time.Duration(max(1, n))
}

func readFixtures(path string) ([]models.MatchRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	return parseFixtures(data)
}

func parseFixtures(data []byte) ([]models.MatchRequest, error) {
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture file: %w", err)
	}
	if len(f.Matches) > 0 {
		return f.Matches, nil
	}
	if f.Home.Name == "" && f.Away.Name == "" {
		return nil, fmt.Errorf("fixture file contains no matches")
	}
	return []models.MatchRequest{f.MatchRequest}, nil
}

func printReport(out io.Writer, report *models.MatchReport) {
	fmt.Fprintf(out, "\n%s v %s  (catalog %s, %d markets)\n", report.Home, report.Away, report.CatalogVersion, report.MarketsEvaluated)
	for _, w := range report.Warnings {
		fmt.Fprintf(out, "  ! %s\n", w)
	}

	if len(report.Predictions) == 0 {
		fmt.Fprintln(out, "  no actionable predictions")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  MARKET\tLINE\tEXPECTED\tCONFIDENCE\tSECURITY\tTIER\tRISK\tOVERRIDES")
	for _, p := range report.Predictions {
		fmt.Fprintf(tw, "  %s\t%s %.1f\t%.2f\t%.1f\t%.1f\t%s\t%s\t%s\n",
			p.Result.Market, p.Result.Direction, p.Result.Threshold, p.Result.ExpectedValue,
			p.Confidence, p.SecurityLevel, p.Recommendation, p.Risk, strings.Join(p.Overrides, ","))
	}
	_ = tw.Flush()
}
