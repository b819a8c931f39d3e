package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/licitaware/pncpwatch/internal/ai"
	"github.com/licitaware/pncpwatch/internal/config"
	"github.com/licitaware/pncpwatch/internal/history"
	"github.com/licitaware/pncpwatch/internal/keywords"
	"github.com/licitaware/pncpwatch/internal/notify"
	"github.com/licitaware/pncpwatch/internal/pncp"
	"github.com/licitaware/pncpwatch/internal/report"
	"github.com/licitaware/pncpwatch/internal/scan"
	"github.com/licitaware/pncpwatch/internal/types"
)

var (
	keywordsPath = flag.String("keywords", "keywords.xlsx", "(-k) Path to the keyword profile workbook")
	historyPath  = flag.String("history", "", "Path to the history ledger file (default: user cache dir)")
	outputDir    = flag.String("output-dir", ".", "(-o) Directory for the generated report")
	lookbackDays = flag.Int("days", 30, "(-d) Lookback window in days")
	matchMode    = flag.String("mode", "weighted", "(-m) Rule evaluation mode: weighted or simple")
	regionFilter = flag.String("regions", "", "Comma-separated region codes to admit (empty: all)")
	minValue     = flag.Float64("min-value", 0, "Minimum estimated value; notices below are skipped")
)

func init() {
	flag.StringVar(keywordsPath, "k", "keywords.xlsx", "(-k) Path to the keyword profile workbook (shorthand)")
	flag.StringVar(outputDir, "o", ".", "(-o) Directory for the generated report (shorthand)")
	flag.IntVar(lookbackDays, "d", 30, "(-d) Lookback window in days (shorthand)")
	flag.StringVar(matchMode, "m", "weighted", "(-m) Rule evaluation mode (shorthand)")

	flag.Usage = func() {
		fmt.Printf("Usage of %s:\n", "pncpwatch")

		order := []string{
			"keywords",
			"history",
			"output-dir",
			"days",
			"mode",
			"regions",
			"min-value",
		}
		for _, name := range order {
			if f := flag.CommandLine.Lookup(name); f != nil {
				fmt.Printf("  -%s\n", f.Name)
				fmt.Printf("    %s\n", f.Usage)
			}
		}
		fmt.Println("\nCredentials come from the environment (or a .env file):")
		fmt.Println("  SMTP_SERVER, SMTP_PORT, SMTP_USER, SMTP_PASS, TO_EMAIL, FROM_EMAIL")
		fmt.Println("  GEMINI_API_KEY, GEMINI_MODEL")
	}
}

func buildConfig() config.Config {
	cfg := config.Default()
	cfg.KeywordsPath = *keywordsPath
	cfg.OutputDir = *outputDir
	cfg.Feed.LookbackDays = *lookbackDays
	cfg.Match.Mode = *matchMode
	cfg.Feed.MinValue = *minValue

	cfg.HistoryPath = *historyPath
	if cfg.HistoryPath == "" {
		cfg.HistoryPath = history.DefaultPath()
	}

	if *regionFilter != "" {
		for _, region := range strings.Split(*regionFilter, ",") {
			if trimmed := strings.TrimSpace(strings.ToUpper(region)); trimmed != "" {
				cfg.Feed.RegionFilter = append(cfg.Feed.RegionFilter, trimmed)
			}
		}
	}

	cfg.Email = emailFromEnv()
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		cfg.GeminiModel = model
	}
	return cfg
}

func emailFromEnv() config.EmailConfig {
	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}

	cfg := config.EmailConfig{
		SMTPServer: os.Getenv("SMTP_SERVER"),
		SMTPPort:   port,
		SMTPUser:   os.Getenv("SMTP_USER"),
		SMTPPass:   os.Getenv("SMTP_PASS"),
		ToEmail:    os.Getenv("TO_EMAIL"),
		FromEmail:  os.Getenv("FROM_EMAIL"),
	}
	if cfg.FromEmail == "" {
		cfg.FromEmail = cfg.SMTPUser
	}
	cfg.Enabled = cfg.SMTPServer != "" && cfg.SMTPUser != "" && cfg.SMTPPass != "" && cfg.ToEmail != ""
	return cfg
}

func main() {
	// A .env file is a convenience for local runs; absence is not an error.
	_ = godotenv.Load()
	flag.Parse()

	zl, err := zap.NewDevelopment()
	if err != nil {
		fmt.Printf("Fatal error setting up logging: %v\n", err)
		os.Exit(1)
	}
	defer zl.Sync()
	logger := zl.Sugar()

	cfg := buildConfig()

	profiles, err := keywords.Load(cfg.KeywordsPath)
	if err != nil {
		logger.Fatalw("failed to load keyword profiles", "path", cfg.KeywordsPath, "error", err)
	}
	logger.Infow("keyword profiles loaded", "companies", len(profiles))

	ledger, err := history.Load(cfg.HistoryPath)
	if err != nil {
		logger.Fatalw("failed to load history ledger", "path", cfg.HistoryPath, "error", err)
	}
	logger.Infow("history ledger loaded", "ids", ledger.Len(), "path", ledger.Path())

	crawler := pncp.NewClient(cfg.Feed, logger)
	runner := scan.NewRunner(cfg, profiles, ledger, crawler, logger)

	ctx := context.Background()
	records, summary, err := runner.Run(ctx)
	if err != nil {
		logger.Fatalw("run aborted", "error", err)
	}

	if len(records) == 0 {
		fmt.Println("No opportunities found in the analyzed window.")
		return
	}

	if err := ledger.Flush(); err != nil {
		logger.Errorw("failed to persist history ledger", "error", err)
	}

	reportPath := filepath.Join(cfg.OutputDir, fmt.Sprintf("pncp_report_%s.xlsx", time.Now().Format("20060102_1504")))
	if err := report.Write(records, reportPath); err != nil {
		logger.Fatalw("failed to write report", "path", reportPath, "error", err)
	}
	summary.ReportPath = reportPath

	notify.PrintSummary(summary)

	msg := notify.BuildMessage(summary, runDigest(ctx, cfg, records, logger))
	sender := notify.NewEmailSender(cfg.Email, logger)
	if err := sender.Send(msg, reportPath); err != nil {
		// Delivery failure never rolls back the report or the ledger.
		logger.Warnw("notification delivery failed", "error", err)
	}
}

// runDigest asks Gemini for highlight bullets over the top-scoring matches
// when an API key is configured.
func runDigest(ctx context.Context, cfg config.Config, records []types.MatchRecord, logger *zap.SugaredLogger) []string {
	if cfg.GeminiAPIKey == "" {
		return nil
	}

	top := make([]types.MatchRecord, len(records))
	copy(top, records)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Score > top[j].Score })

	digest, err := ai.GenerateDigest(ctx, top, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Warnw("AI digest failed", "error", err)
		return nil
	}
	return digest
}
