/*
Package config holds the immutable run configuration. main assembles one Config
from flags and environment and passes it down; components never reach into
process-wide state.
*/
package config

import (
	"time"
)

// FeedConfig controls the PNCP crawl.
type FeedConfig struct {
	BaseURL       string
	PageSize      int
	MaxPages      int
	RetryAttempts int
	RetryDelay    time.Duration
	LookbackDays  int
	// RegionFilter admits only notices whose region code is listed.
	// Empty means no filtering.
	RegionFilter []string
	// MinValue drops notices below this estimated value before matching.
	MinValue float64
}

// MatchConfig exposes the scoring parameters of the matching engine.
type MatchConfig struct {
	// Mode selects the rule evaluation variant: "weighted" (default) or "simple".
	Mode string
	// ScoreThreshold is the aggregate-weight acceptance path of weighted mode.
	ScoreThreshold int
	// LargeValueThreshold and ValueBonus implement the post-acceptance value bump.
	LargeValueThreshold float64
	ValueBonus          int
	// Denylist phrases veto a match outright (normalized substring test).
	Denylist []string
}

// EmailConfig holds SMTP settings for the notification sink.
type EmailConfig struct {
	SMTPServer string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	FromEmail  string
	ToEmail    string
	Enabled    bool
}

// Config is the full, immutable configuration of one run.
type Config struct {
	KeywordsPath string
	HistoryPath  string
	OutputDir    string

	Feed  FeedConfig
	Match MatchConfig
	Email EmailConfig

	GeminiAPIKey string
	GeminiModel  string
}

// Default returns the baseline configuration; main overrides it from flags.
func Default() Config {
	return Config{
		KeywordsPath: "keywords.xlsx",
		OutputDir:    ".",
		Feed: FeedConfig{
			BaseURL:       "https://pncp.gov.br/api/consulta/v1/contratacoes/publicacao",
			PageSize:      50,
			MaxPages:      50,
			RetryAttempts: 3,
			RetryDelay:    2 * time.Second,
			LookbackDays:  30,
		},
		Match: MatchConfig{
			Mode:                "weighted",
			ScoreThreshold:      6,
			LargeValueThreshold: 1_000_000,
			ValueBonus:          3,
			Denylist:            DefaultDenylist(),
		},
		GeminiModel: "gemini-2.0-flash",
	}
}

// DefaultDenylist lists generic ceremonial phrases that show up constantly in
// the feed's free-text field and drown real opportunities.
func DefaultDenylist() []string {
	return []string{
		"festa junina",
		"festival cultural",
		"evento cultural",
		"show artistico",
		"apresentacao artistica",
		"carnaval",
		"quermesse",
		"festividade",
		"banda musical",
		"desfile civico",
	}
}
