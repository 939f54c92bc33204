package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/placepulse/livability/internal/model"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a location from a request file",
	Long: `Score a location described by a request JSON document containing the area
classification, per-pillar measurements, and an optional priority allocation.

Examples:
  # Score a request file with the default allocation
  livability score --input request.json

  # Emphasize transit and healthcare, disable schools
  livability score --input request.json \
    --allocation public_transit=3,healthcare=2 --disable quality_education

  # Machine-readable output
  livability score --input request.json --format json --output result.json`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.String("input", "", "request JSON file path, or - for stdin (required)")
	f.String("allocation", "", "comma-separated pillar=weight overrides")
	f.StringSlice("disable", nil, "pillars to disable")
	f.String("format", "table", "output format: table or json")
	f.String("output", "", "output file path (default: stdout)")
	_ = scoreCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	req, err := readRequest(cmd)
	if err != nil {
		return err
	}

	if raw, _ := cmd.Flags().GetString("allocation"); raw != "" {
		overrides, err := parseAllocation(raw)
		if err != nil {
			return err
		}
		if req.Allocation == nil {
			req.Allocation = model.PriorityAllocation{}
		}
		for pillar, w := range overrides {
			req.Allocation[pillar] = w
		}
	}
	if disabled, _ := cmd.Flags().GetStringSlice("disable"); len(disabled) > 0 {
		if req.PillarFlags == nil {
			req.PillarFlags = map[string]bool{}
		}
		for _, pillar := range disabled {
			req.PillarFlags[strings.TrimSpace(pillar)] = false
		}
	}

	eng, err := buildEngine(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := eng.Score(ctx, req)
	if err != nil {
		return err
	}

	out := os.Stdout
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrap(err, "score: create output file")
		}
		defer f.Close() //nolint:errcheck
		out = f
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return eris.Wrap(err, "score: encode result")
		}
	case "table":
		printTable(out, result)
	default:
		return eris.Errorf("score: unknown format %q", format)
	}

	zap.L().Info("score complete", zap.Float64("total_score", result.TotalScore))
	return nil
}

func readRequest(cmd *cobra.Command) (*model.ScoreRequest, error) {
	path, _ := cmd.Flags().GetString("input")

	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "score: open request file")
		}
		defer f.Close() //nolint:errcheck
		r = f
	}

	var req model.ScoreRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, eris.Wrap(err, "score: parse request JSON")
	}
	return &req, nil
}

func parseAllocation(raw string) (model.PriorityAllocation, error) {
	alloc := model.PriorityAllocation{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, eris.Errorf("score: malformed allocation entry %q", pair)
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, eris.Wrapf(err, "score: allocation weight for %s", k)
		}
		alloc[strings.TrimSpace(k)] = w
	}
	return alloc, nil
}

func printTable(out io.Writer, result *model.TotalScoreResult) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "PILLAR\tSCORE\tWEIGHT\tCONTRIBUTION\tCONFIDENCE\tQUALITY\n")

	names := make([]string, 0, len(result.LivabilityPillars))
	for name := range result.LivabilityPillars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := result.LivabilityPillars[name]
		if p.Unavailable {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\tunavailable\n", name)
			continue
		}
		fmt.Fprintf(w, "%s\t%.2f\t%.4f\t%.2f\t%.2f\t%s\n",
			name, p.Score, p.Weight, p.Contribution, p.Confidence, p.DataQuality.QualityTier)
	}
	fmt.Fprintf(w, "\nTOTAL\t%.2f\t\t\t%.2f\t\n", result.TotalScore, result.OverallConfidence.AverageConfidence)
	_ = w.Flush()
}
