package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/placepulse/livability/internal/expectation"
	"github.com/placepulse/livability/internal/model"
)

var expectationsCmd = &cobra.Command{
	Use:   "expectations",
	Short: "Inspect and manage the expectation reference table",
}

var expectationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List expectation rows",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		entries, err := expectation.Defaults()
		if err != nil {
			return err
		}
		extra, err := loadExpectations(ctx, cfg.Expectations)
		if err != nil {
			return err
		}
		provider := expectation.NewStatic(append(entries, extra...))

		areaFilter, _ := cmd.Flags().GetString("area-type")
		pillarFilter, _ := cmd.Flags().GetString("pillar")
		if areaFilter != "" {
			if _, err := model.ParseAreaType(areaFilter); err != nil {
				return err
			}
		}

		printEntries(os.Stdout, provider.Entries(), areaFilter, pillarFilter)
		return nil
	},
}

var expectationsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import an expectation workbook or YAML table into a reference database",
	Long: `Import expectation rows into the configured sqlite or postgres reference
database. Input may be an .xlsx workbook (columns: area_type, context, pillar,
metric, expected, p25, p75, sample_size; first row is a header) or a YAML table
in the embedded defaults format.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		path, _ := cmd.Flags().GetString("from")
		var (
			entries []expectation.Entry
			err     error
		)
		switch {
		case strings.HasSuffix(path, ".xlsx"):
			entries, err = expectation.ReadWorkbook(path)
		case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
			entries, err = expectation.LoadYAMLFile(path)
		default:
			return eris.Errorf("expectations: unsupported input %q (want .xlsx or .yaml)", path)
		}
		if err != nil {
			return err
		}

		var n int
		switch cfg.Expectations.Driver {
		case "sqlite":
			db, err := expectation.OpenSQLite(cfg.Expectations.Path)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck
			n, err = expectation.ImportSQLite(ctx, db, entries)
			if err != nil {
				return err
			}
		case "postgres":
			pool, err := expectation.NewPostgresPool(ctx, cfg.Expectations.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := expectation.MigratePostgres(ctx, pool); err != nil {
				return err
			}
			n, err = expectation.ImportPostgres(ctx, pool, entries)
			if err != nil {
				return err
			}
		default:
			return eris.Errorf("expectations: import requires a sqlite or postgres driver, got %q", cfg.Expectations.Driver)
		}

		zap.L().Info("expectations imported", zap.Int("rows", n), zap.String("from", path))
		return nil
	},
}

func init() {
	expectationsListCmd.Flags().String("area-type", "", "filter by area type")
	expectationsListCmd.Flags().String("pillar", "", "filter by pillar")
	expectationsImportCmd.Flags().String("from", "", "input file (.xlsx or .yaml) (required)")
	_ = expectationsImportCmd.MarkFlagRequired("from")

	expectationsCmd.AddCommand(expectationsListCmd, expectationsImportCmd)
	rootCmd.AddCommand(expectationsCmd)
}

func printEntries(out io.Writer, entries []expectation.Entry, areaFilter, pillarFilter string) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "PILLAR\tMETRIC\tAREA\tCONTEXT\tEXPECTED\tP25\tP75\tN\n")
	for _, e := range entries {
		if areaFilter != "" && string(e.AreaType) != areaFilter {
			continue
		}
		if pillarFilter != "" && e.Pillar != pillarFilter {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%s\t%s\t%d\n",
			e.Pillar, e.Metric, e.AreaType, e.Context, e.Expected,
			fmtOpt(e.P25), fmtOpt(e.P75), e.SampleSize)
	}
	_ = w.Flush()
}

func fmtOpt(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
