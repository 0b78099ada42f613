// Command plantcare trains the diagnosis models and answers plant health
// queries from the command line or over HTTP.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/tatsushid/go-prettytable"

	"github.com/ezoic/plantcare/advisor"
	"github.com/ezoic/plantcare/advisor/charts"
	"github.com/ezoic/plantcare/config"
	"github.com/ezoic/plantcare/plant"
	"github.com/ezoic/plantcare/plant/dataset"
	"github.com/ezoic/plantcare/pkg/log"
	"github.com/ezoic/plantcare/server"
)

var cfg *config.Config

// loadConfig runs before every subcommand. Usage is only printed for
// argument errors, not for failures inside RunE.
func loadConfig(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	c, err := config.Load()
	if err != nil {
		return err
	}
	log.SetupLogger(c.App.LogLevel)
	cfg = c
	return nil
}

func trainModels(cmd *cobra.Command, args []string) error {
	records, err := dataset.Records()
	if err != nil {
		return err
	}
	models, err := advisor.TrainAll(records, cfg.Training.Options()...)
	if err != nil {
		return err
	}

	report := models.Report()
	fmt.Fprintf(cmd.OutOrStdout(), "Trained on %d records (iterations=%d, learning_rate=%g, lambda=%g) in %v\n\n",
		report.Samples, report.Iterations, report.LearningRate, report.Lambda, report.Duration)

	table, _ := prettytable.NewTable(
		prettytable.Column{Header: "Target"},
		prettytable.Column{Header: "Classes"},
		prettytable.Column{Header: "Training accuracy", AlignRight: true},
	)
	table.Separator = "  "
	for _, t := range plant.Targets {
		table.AddRow(string(t), fmt.Sprint(t.Classes()), fmt.Sprintf("%.3f", report.Accuracy[t]))
	}
	table.Print()

	for _, t := range plant.Targets {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s confusion (rows: true, columns: predicted)\n", t)
		classes := t.Classes()
		cm := report.Confusion[t]
		for i, c := range classes {
			fmt.Fprintf(cmd.OutOrStdout(), "  %-10s", c)
			for j := range classes {
				fmt.Fprintf(cmd.OutOrStdout(), " %3.0f", cm.At(i, j))
			}
			fmt.Fprintln(cmd.OutOrStdout())
		}
	}
	return nil
}

func listSpecies(cmd *cobra.Command, args []string) error {
	ideals, err := dataset.Ideals()
	if err != nil {
		return err
	}

	table, _ := prettytable.NewTable(
		prettytable.Column{Header: "Species"},
		prettytable.Column{Header: "Moisture (%)"},
		prettytable.Column{Header: "pH"},
		prettytable.Column{Header: "Light (h/day)"},
		prettytable.Column{Header: "Height (cm)"},
	)
	table.Separator = "  "
	for _, s := range ideals.All() {
		table.AddRow(s.Name, rangeText(s.Moisture), rangeText(s.PH), rangeText(s.Light), rangeText(s.Height))
	}
	table.Print()
	return nil
}

func rangeText(r plant.Range) string {
	return fmt.Sprintf("%g (%g-%g)", r.Ideal, r.Min, r.Max)
}

func readRequest(path string) (advisor.Request, error) {
	var req advisor.Request
	f, err := os.Open(path)
	if err != nil {
		return req, err
	}
	defer f.Close()

	if err := dataset.Decode(f, &req); err != nil {
		return req, fmt.Errorf("%s: %w", path, err)
	}
	return req, nil
}

func diagnose(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	chartDir, _ := cmd.Flags().GetString("charts")
	format, _ := cmd.Flags().GetString("format")

	req, err := readRequest(input)
	if err != nil {
		return err
	}

	a, err := advisor.NewFromEmbedded(cfg.Training.Options()...)
	if err != nil {
		return err
	}
	d, err := a.Diagnose(req)
	if err != nil {
		return err
	}
	printDiagnosis(cmd.OutOrStdout(), d)

	if chartDir != "" {
		paths, err := charts.SaveAll(chartDir, d.Analytics, format)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "\nCharts:")
		for _, p := range paths {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", p)
		}
	}
	return nil
}

func printDiagnosis(w io.Writer, d *advisor.Diagnosis) {
	fmt.Fprintf(w, "%s (%s)\n\n", d.Observation.Species, d.Observation.Stage)

	fmt.Fprintf(w, "Health Status: %s\n", d.Prediction.HealthStatus)
	fmt.Fprintf(w, "Growth Type:   %s\n", d.Prediction.GrowthType)
	fmt.Fprintf(w, "Risk Level:    %s\n", riskText(d.Prediction.RiskLevel))

	fmt.Fprintln(w, "\nEnvironmental consistency:")
	for _, c := range d.Consistency.Details {
		fmt.Fprintf(w, "  %-16s %-10s ideal %s %s  %s\n",
			c.Label, c.UserText(), c.IdealText(), c.RangeText(), statusText(c.Status))
	}

	fmt.Fprintln(w, "\nRecommendations:")
	for _, r := range d.Recommendations {
		fmt.Fprintf(w, "  - %s\n", r.Text)
	}

	fmt.Fprintln(w, "\nInsights:")
	for _, in := range d.Insights {
		fmt.Fprintf(w, "  %s: %s\n", in.Title, in.Text)
	}
}

// Colours are dropped automatically when stdout is not a terminal.
func statusText(s advisor.Status) string {
	if s == advisor.StatusWarning {
		return color.YellowString(string(s))
	}
	return color.GreenString(string(s))
}

func riskText(risk string) string {
	switch risk {
	case "High":
		return color.RedString(risk)
	case "Medium":
		return color.YellowString(risk)
	}
	return color.GreenString(risk)
}

func serve(cmd *cobra.Command, args []string) error {
	gin.SetMode(cfg.HTTP.GinMode)

	a, err := advisor.NewFromEmbedded(cfg.Training.Options()...)
	if err != nil {
		return err
	}
	srv, err := server.New(a, server.WithCacheSize(cfg.HTTP.CacheSize))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx, cfg.HTTP.Addr)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "plantcare",
		Short:             "Flower health diagnosis and care advice",
		PersistentPreRunE: loadConfig,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "train",
		Args:  cobra.NoArgs,
		Short: "Train the classifiers on the embedded dataset and report accuracy",
		RunE:  trainModels,
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "species",
		Args:  cobra.NoArgs,
		Short: "List the species reference table",
		RunE:  listSpecies,
	})

	diagnoseCmd := &cobra.Command{
		Use:   "diagnose -i <observation.yaml>",
		Args:  cobra.NoArgs,
		Short: "Diagnose one plant observation",
		RunE:  diagnose,
	}
	diagnoseCmd.Flags().StringP("input", "i", "", "observation YAML file")
	diagnoseCmd.Flags().StringP("charts", "c", "", "directory to write analytics charts to")
	diagnoseCmd.Flags().String("format", charts.FormatPNG, "chart format (png or svg)")
	_ = diagnoseCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(diagnoseCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Args:  cobra.NoArgs,
		Short: "Serve the JSON API",
		RunE:  serve,
	})

	return rootCmd
}

func main() {
	err := newRootCmd().ExecuteContext(context.Background())
	os.Exit(map[bool]int{true: 0, false: 1}[err == nil])
}
