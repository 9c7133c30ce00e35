package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/staffalloc/app"
	"github.com/kilianp07/staffalloc/config"
	"github.com/kilianp07/staffalloc/pkg/dataset"
	"github.com/kilianp07/staffalloc/pkg/export"
)

var (
	inputPath  string
	outputPath string
	format     string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Search an allocation for a dataset",
	RunE:  run,
}

func init() {
	runCmd.Flags().StringVarP(&inputPath, "input", "i", "", "dataset file (yaml or json)")
	runCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file, stdout when empty")
	runCmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or csv")
	_ = runCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(runCmd)
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if format != "json" && format != "csv" {
		return fmt.Errorf("unknown format %q", format)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ds, initial, err := dataset.Load(inputPath)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	res, err := svc.Run(ctx, ds, initial)
	if err != nil {
		return err
	}
	best, err := svc.Engine.Apply()
	if err != nil {
		return err
	}

	return withOutput(cmd, func(w io.Writer) error {
		if format == "csv" {
			return export.WriteCSV(w, best, ds)
		}
		return export.WriteJSON(w, res)
	})
}

// withOutput runs write against the output file or the command's stdout.
func withOutput(cmd *cobra.Command, write func(io.Writer) error) error {
	if outputPath == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
