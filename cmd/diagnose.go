package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/staffalloc/app"
	"github.com/kilianp07/staffalloc/config"
	"github.com/kilianp07/staffalloc/core/model"
	"github.com/kilianp07/staffalloc/pkg/dataset"
	"github.com/kilianp07/staffalloc/pkg/export"
)

var assignmentPath string

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Explain the evaluation of an assignment",
	Long: "Scores an assignment against the configured objective and constraints " +
		"and lists every constraint occurrence. The dataset's initial assignment " +
		"is used unless --assignment is given.",
	RunE: diagnose,
}

func init() {
	diagnoseCmd.Flags().StringVarP(&inputPath, "input", "i", "", "dataset file (yaml or json)")
	diagnoseCmd.Flags().StringVarP(&assignmentPath, "assignment", "a", "", "JSON file mapping section ids to teacher ids")
	diagnoseCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file, stdout when empty")
	diagnoseCmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or csv")
	_ = diagnoseCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(diagnoseCmd)
}

func diagnose(cmd *cobra.Command, args []string) error {
	if format != "json" && format != "csv" {
		return fmt.Errorf("unknown format %q", format)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ds, a, err := dataset.Load(inputPath)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	if assignmentPath != "" {
		if a, err = readAssignment(assignmentPath); err != nil {
			return fmt.Errorf("load assignment: %w", err)
		}
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	d := svc.Diagnose(ds, a)
	return withOutput(cmd, func(w io.Writer) error {
		if format == "csv" {
			return export.WriteReportCSV(w, d.Constraints)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	})
}

func readAssignment(path string) (model.Assignment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Assignment{}, err
	}
	var a model.Assignment
	if err := json.Unmarshal(data, &a); err != nil {
		return model.Assignment{}, err
	}
	return a, nil
}
