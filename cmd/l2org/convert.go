// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/l2org/internal/convert"
	"github.com/pdiddy/l2org/internal/index"
	"github.com/pdiddy/l2org/internal/logging"
	"github.com/pdiddy/l2org/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert file.tex [file.tex...]",
	Short: "Convert LaTeX files to Org mode",
	Long: `Convert reads each LaTeX file and writes an Org file next to it, named
by replacing the .tex extension with .org. Preamble lines with no Org
keyword go to a separate setup file unless inline_preamble is set.

With several inputs each file is converted independently and a summary is
printed; a failed file does not stop the others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	if output != "" && len(args) > 1 {
		return fmt.Errorf("--output requires a single input file, got %d", len(args))
	}
	verbosity, _ := cmd.Flags().GetCount("verbose")
	reportPath, _ := cmd.Flags().GetString("report")

	cfg, err := loadConversionConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if dir, _ := cmd.Flags().GetString("index-dir"); dir != "" {
		cfg.IndexDir = dir
	}

	log := logging.New(os.Stderr, verbosity)
	conv, err := convert.New(cfg, nil, log)
	if err != nil {
		return err
	}

	var (
		reports []types.ConversionReport
		failed  int
	)
	if len(args) == 1 {
		report, err := convert.ConvertFile(conv, args[0], output, os.Stdout)
		if err != nil {
			return err
		}
		reports = append(reports, report)
	} else {
		result := convert.ConvertPaths(conv, args, os.Stdout)
		reports = result.Reports
		failed = result.Failed
	}

	if reportPath != "" {
		if err := writeReports(reportPath, reports); err != nil {
			return err
		}
	}
	if cfg.IndexDir != "" {
		if err := recordReports(cmd.Context(), cfg.IndexDir, reports); err != nil {
			return err
		}
		log.Info("citation index updated", "dir", cfg.IndexDir, "documents", len(reports))
	}

	if failed > 0 {
		return fmt.Errorf("%d file(s) failed conversion", failed)
	}
	return nil
}

// writeReports writes the report of a single conversion to path. With
// several conversions each report is written next to its output file.
func writeReports(path string, reports []types.ConversionReport) error {
	if len(reports) == 1 {
		return convert.WriteReport(path, reports[0])
	}
	for _, r := range reports {
		if err := convert.WriteReport(r.Output+".yaml", r); err != nil {
			return err
		}
	}
	return nil
}

func recordReports(ctx context.Context, dir string, reports []types.ConversionReport) error {
	store, err := index.NewStore(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, r := range reports {
		if err := store.Record(ctx, r); err != nil {
			return fmt.Errorf("indexing %s: %w", r.Input, err)
		}
	}
	return nil
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "output file (single input only; default: input with .org extension)")
	convertCmd.Flags().CountP("verbose", "v", "increase diagnostic logging (-v info, -vv debug)")
	convertCmd.Flags().String("report", "", "write a YAML conversion report to this file")
	convertCmd.Flags().String("index-dir", "", "record cited keys in the citation index in this directory")

	rootCmd.AddCommand(convertCmd)
}
