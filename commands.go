package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"vocanalyzer/internal/classify"
	"vocanalyzer/internal/config"
	"vocanalyzer/internal/domain"
	"vocanalyzer/internal/httpx"
	"vocanalyzer/internal/ingest"
	"vocanalyzer/internal/report"
	"vocanalyzer/internal/sentiment"
	"vocanalyzer/internal/store"
	"vocanalyzer/internal/trend"
)

// sessionInput selects where the session's complaint records come from: a
// CSV path, inline free text (one complaint per line), or the bundled sample
// data when neither is given.
type sessionInput struct {
	path string
	text string
}

func newRootCommand() *cobra.Command {
	var input sessionInput

	rootCmd := &cobra.Command{
		Use:           "vocanalyzer",
		Short:         "Classify customer complaints and surface trend and anomaly signals",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&input.path, "input", "i", "", "Complaints CSV path (default: bundled sample data)")
	rootCmd.PersistentFlags().StringVar(&input.text, "text", "", "Inline complaints, one per line (alternative to --input)")

	rootCmd.AddCommand(newClassifyCommand(&input))
	rootCmd.AddCommand(newTrendCommand(&input))
	rootCmd.AddCommand(newAnomaliesCommand(&input))
	rootCmd.AddCommand(newCorrelationCommand(&input))
	rootCmd.AddCommand(newSentimentCommand(&input))
	rootCmd.AddCommand(newReportCommand(&input))

	return rootCmd
}

// loadSession loads records into a fresh store and runs the classification
// pass: the live client when a credential is configured, the demo table
// otherwise. Strategy is picked once for the whole batch.
func loadSession(ctx context.Context, cfg config.Config, input *sessionInput) (*store.RecordStore, error) {
	var records []domain.ComplaintRecord
	var err error
	switch {
	case input.path != "" && input.text != "":
		return nil, fmt.Errorf("--input and --text are mutually exclusive")
	case input.text != "":
		records = ingest.ParseFreeText(input.text, 1)
	case input.path != "":
		records, err = ingest.LoadCSVFile(input.path)
		if err != nil {
			return nil, err
		}
	default:
		records = ingest.SampleData()
	}

	st := store.New()
	st.Replace(records)

	classifier, live := classify.ForConfig(cfg)
	if !live {
		log.Printf("no API key configured, using demo classifications")
		st.Replace(classify.DemoClassifiedData(records))
		return st, nil
	}

	results := classify.ClassifyBatch(ctx, classifier, records, func(current, total int, id string) {
		log.Printf("classifying %d/%d %s", current, total, id)
	})
	classified, failed := st.SetClassifications(results)
	log.Printf("batch done: %d classified, %d failed", classified, failed)
	return st, nil
}

func loadConfigForCommand() config.Config {
	cfg := config.LoadConfig()
	httpx.ConfigureExternalHTTPClient(cfg.ExternalHTTPTimeoutSeconds)
	return cfg
}

func newClassifyCommand(input *sessionInput) *cobra.Command {
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify complaints and print the enriched table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfigForCommand()
			st, err := loadSession(cmd.Context(), cfg, input)
			if err != nil {
				return err
			}
			records := st.Records()

			rows := make([][]string, 0, len(records))
			classified, failed := 0, 0
			for _, rec := range records {
				status := "ok"
				if rec.Classification.Failed() {
					status = "FAILED: " + rec.Classification.Error
					failed++
				} else {
					classified++
				}
				rows = append(rows, []string{
					rec.ComplaintID,
					rec.Classification.DefectType,
					rec.Classification.DefectSubtype,
					rec.Classification.Severity,
					rec.Classification.Sentiment,
					status,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Defect", "Subtype", "Severity", "Sentiment", "Status"},
				rows, nil))
			fmt.Fprintf(cmd.OutOrStdout(), "%d classified, %d failed\n", classified, failed)

			if outputFlag != "" {
				f, err := os.Create(outputFlag)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := ingest.WriteCSV(f, records); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outputFlag)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write the enriched records as CSV")
	return cmd
}

func newTrendCommand(input *sessionInput) *cobra.Command {
	var bucketFlag string
	var byDefect bool

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show complaint counts per period with rolling statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfigForCommand()
			bucket, err := resolveBucket(bucketFlag, cfg)
			if err != nil {
				return err
			}
			st, err := loadSession(cmd.Context(), cfg, input)
			if err != nil {
				return err
			}
			records := st.Records()

			if byDefect {
				points := trend.ComputeDefectTrend(records, bucket)
				if len(points) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no dated, classified records")
					return nil
				}
				rows := make([][]string, 0, len(points))
				for _, p := range points {
					rows = append(rows, []string{bucket.Label(p.Period), p.DefectType, strconv.Itoa(p.Count)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Period", "Defect type", "Count"}, rows, rightAligned(2, 3)))
				return nil
			}

			points := trend.ComputeTrend(records, bucket)
			if len(points) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no dated records")
				return nil
			}
			rows := make([][]string, 0, len(points))
			for _, p := range points {
				rows = append(rows, []string{
					bucket.Label(p.Period),
					strconv.Itoa(p.Count),
					fmt.Sprintf("%.2f", p.RollingMean),
					fmt.Sprintf("%.2f", p.RollingStd),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Period", "Count", "Rolling mean", "Rolling std"}, rows, rightAligned(1, 4)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&bucketFlag, "bucket", "b", "", "Bucket size: week or month (default from config)")
	cmd.Flags().BoolVar(&byDefect, "by-defect", false, "Stratify counts by defect type")
	return cmd
}

func newAnomaliesCommand(input *sessionInput) *cobra.Command {
	var bucketFlag string
	var thresholdFlag float64
	var lineThresholdFlag float64

	cmd := &cobra.Command{
		Use:   "anomalies",
		Short: "Detect complaint-count anomalies globally and per production line",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfigForCommand()
			bucket, err := resolveBucket(bucketFlag, cfg)
			if err != nil {
				return err
			}
			st, err := loadSession(cmd.Context(), cfg, input)
			if err != nil {
				return err
			}
			records := st.Records()

			zThreshold := cfg.ZThreshold
			if cmd.Flags().Changed("threshold") {
				zThreshold = thresholdFlag
			}
			lineThreshold := cfg.LineZThreshold
			if cmd.Flags().Changed("line-threshold") {
				lineThreshold = lineThresholdFlag
			}

			global := trend.DetectAnomalies(records, zThreshold, bucket)
			perLine := trend.DetectProductionLineAnomalies(records, lineThreshold, bucket)

			out := cmd.OutOrStdout()
			if len(global) == 0 && len(perLine) == 0 {
				fmt.Fprintln(out, "no anomalies detected")
				return nil
			}

			findings := append(append([]domain.AnomalyFinding{}, global...), perLine...)
			rows := make([][]string, 0, len(findings))
			for _, f := range findings {
				scope := f.Scope
				if scope == "" {
					scope = "global"
				}
				rows = append(rows, []string{
					scope,
					f.PeriodLabel,
					strconv.Itoa(f.Count),
					fmt.Sprintf("%.1f", f.Mean),
					fmt.Sprintf("%.1f", f.Std),
					fmt.Sprintf("%.2f", f.ZScore),
					f.TopDefect,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Scope", "Period", "Count", "Mean", "Std", "Z", "Top defect"},
				rows, rightAligned(2, 7)))
			for _, f := range findings {
				fmt.Fprintln(out, f.Description)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&bucketFlag, "bucket", "b", "", "Bucket size: week or month (default from config)")
	cmd.Flags().Float64Var(&thresholdFlag, "threshold", trend.DefaultZThreshold, "Global z-score threshold")
	cmd.Flags().Float64Var(&lineThresholdFlag, "line-threshold", trend.DefaultLineZThreshold, "Per-line z-score threshold")
	return cmd
}

func newCorrelationCommand(input *sessionInput) *cobra.Command {
	return &cobra.Command{
		Use:   "correlation",
		Short: "Cross-tabulate production line against defect type",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfigForCommand()
			st, err := loadSession(cmd.Context(), cfg, input)
			if err != nil {
				return err
			}

			m := trend.ComputeCorrelationMatrix(st.Records())
			if m.IsEmpty() {
				fmt.Fprintln(cmd.OutOrStdout(), "no records with both production line and defect type")
				return nil
			}

			headers := append([]string{"Production line"}, m.DefectTypes...)
			headers = append(headers, "Total")
			rows := make([][]string, 0, len(m.Lines)+1)
			for li, line := range m.Lines {
				row := []string{line}
				for di := range m.DefectTypes {
					row = append(row, strconv.Itoa(m.Counts[li][di]))
				}
				row = append(row, strconv.Itoa(m.RowTotals[li]))
				rows = append(rows, row)
			}
			totalRow := []string{"Total"}
			for _, c := range m.ColTotals {
				totalRow = append(totalRow, strconv.Itoa(c))
			}
			totalRow = append(totalRow, strconv.Itoa(m.GrandTotal))
			rows = append(rows, totalRow)

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, rightAligned(1, len(headers))))
			return nil
		},
	}
}

func newSentimentCommand(input *sessionInput) *cobra.Command {
	return &cobra.Command{
		Use:   "sentiment",
		Short: "Show sentiment distribution across the classified records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfigForCommand()
			st, err := loadSession(cmd.Context(), cfg, input)
			if err != nil {
				return err
			}
			records := st.Records()
			out := cmd.OutOrStdout()

			stats := sentiment.Stats(records)
			fmt.Fprintln(out, renderTable(
				[]string{"Sentiment", "Count"},
				[][]string{
					{"negative", strconv.Itoa(stats[domain.SentimentNegative])},
					{"neutral", strconv.Itoa(stats[domain.SentimentNeutral])},
					{"positive", strconv.Itoa(stats[domain.SentimentPositive])},
				}, rightAligned(1, 2)))

			byProduct := sentiment.ByProduct(records)
			if byProduct.IsEmpty() {
				return nil
			}
			rows := make([][]string, 0, len(byProduct.Products))
			for _, product := range byProduct.Products {
				rows = append(rows, []string{
					product,
					strconv.Itoa(byProduct.Counts[product][domain.SentimentNegative]),
					strconv.Itoa(byProduct.Counts[product][domain.SentimentNeutral]),
					strconv.Itoa(byProduct.Counts[product][domain.SentimentPositive]),
					strconv.Itoa(byProduct.RowTotals[product]),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Product line", "Negative", "Neutral", "Positive", "Total"},
				rows, rightAligned(1, 5)))
			return nil
		},
	}
}

func newReportCommand(input *sessionInput) *cobra.Command {
	var typeFlag string
	var writeFlag bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate an executive summary or vigilance/MDR report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfigForCommand()
			st, err := loadSession(cmd.Context(), cfg, input)
			if err != nil {
				return err
			}
			records := st.Records()

			var content string
			switch typeFlag {
			case "summary":
				content = report.ExecutiveSummary(records)
			case "mdr":
				var gen report.TextGenerator
				if live := classify.NewLiveClassifier(cfg); live.IsAvailable() {
					gen = live
				}
				content = report.MDRReport(cmd.Context(), records, gen)
			default:
				return fmt.Errorf("unknown report type '%s': must be 'summary' or 'mdr'", typeFlag)
			}

			fmt.Fprintln(cmd.OutOrStdout(), content)
			if writeFlag {
				path, err := report.WriteReportFile(content, cfg.ReportOutputDir, time.Now(), typeFlag)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeFlag, "type", "t", "summary", "Report type: summary or mdr")
	cmd.Flags().BoolVar(&writeFlag, "write", false, "Also write the report under the configured output dir")
	return cmd
}

func resolveBucket(flag string, cfg config.Config) (trend.Bucket, error) {
	if flag == "" {
		flag = cfg.TrendBucket
	}
	return trend.ParseBucket(flag)
}
