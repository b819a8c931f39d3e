/*
Package scan orchestrates one run: crawl every modality over the lookback
window, fan each notice out across all company profiles, classify accepted
matches and keep the history ledger current. Scoring itself stays pure inside
the match engine; this package owns the side effects.
*/
package scan

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/licitaware/pncpwatch/internal/classify"
	"github.com/licitaware/pncpwatch/internal/config"
	"github.com/licitaware/pncpwatch/internal/history"
	"github.com/licitaware/pncpwatch/internal/match"
	"github.com/licitaware/pncpwatch/internal/notify"
	"github.com/licitaware/pncpwatch/internal/pncp"
	"github.com/licitaware/pncpwatch/internal/types"
)

// Crawler is the slice of the feed client the runner needs.
type Crawler interface {
	FetchWindow(ctx context.Context, modalityCode int, from, to time.Time) ([]types.Notice, error)
}

// Runner drives a single scan over the feed.
type Runner struct {
	cfg       config.Config
	profiles  map[string][]types.KeywordRule
	companies []string
	ledger    *history.Ledger
	crawler   Crawler
	engine    *match.Engine
	logger    *zap.SugaredLogger
	now       func() time.Time
}

// NewRunner wires the run pipeline.
func NewRunner(cfg config.Config, profiles map[string][]types.KeywordRule, ledger *history.Ledger, crawler Crawler, logger *zap.SugaredLogger) *Runner {
	companies := make([]string, 0, len(profiles))
	for name := range profiles {
		companies = append(companies, name)
	}
	sort.Strings(companies)

	return &Runner{
		cfg:       cfg,
		profiles:  profiles,
		companies: companies,
		ledger:    ledger,
		crawler:   crawler,
		engine:    match.NewEngine(cfg.Match),
		logger:    logger,
		now:       time.Now,
	}
}

// Run crawls all modalities sequentially and returns the accepted match
// records with the run summary. A retry-exhausted modality is logged and
// skipped; it never fails the run. The caller decides whether to flush the
// ledger and emit the report (only when matches exist).
func (r *Runner) Run(ctx context.Context) ([]types.MatchRecord, notify.Summary, error) {
	// NEW/SEEN labels reflect the ledger as loaded at run start, not ids
	// recorded earlier in this same run.
	snapshot := r.ledger.Snapshot()

	to := r.now()
	from := to.AddDate(0, 0, -r.cfg.Feed.LookbackDays)

	var records []types.MatchRecord
	summary := notify.Summary{
		LookbackDays: r.cfg.Feed.LookbackDays,
		PerCompany:   make(map[string]int),
	}

	for _, modality := range pncp.Modalities {
		if ctx.Err() != nil {
			return records, summary, ctx.Err()
		}

		r.logger.Infow("crawling modality", "code", modality.Code, "name", modality.Name)
		notices, err := r.crawler.FetchWindow(ctx, modality.Code, from, to)
		if err != nil {
			r.logger.Warnw("modality crawl abandoned",
				"code", modality.Code,
				"name", modality.Name,
				"notices_before_failure", len(notices),
				"error", err)
		}

		for _, notice := range notices {
			records = r.processNotice(notice, modality, snapshot, records, &summary)
		}
	}

	summary.Total = len(records)
	return records, summary, nil
}

func (r *Runner) processNotice(notice types.Notice, modality pncp.Modality, snapshot map[string]struct{}, records []types.MatchRecord, summary *notify.Summary) []types.MatchRecord {
	if !r.admit(notice) {
		return records
	}

	for _, company := range r.companies {
		res := r.engine.Evaluate(notice, r.profiles[company])
		if !res.Accepted {
			continue
		}

		status := types.StatusNew
		if _, seen := snapshot[notice.ID]; seen {
			status = types.StatusSeen
		}
		// Every accepted sighting counts as seen going forward, NEW or not.
		r.ledger.Record(notice.ID)

		daysLeft := classify.DaysRemaining(notice.Deadline, r.now())
		urgency := classify.Urgency(daysLeft)

		records = append(records, types.MatchRecord{
			Company:      company,
			ModalityName: modality.Name,
			NoticeID:     notice.ID,
			OrgName:      notice.OrgName,
			Region:       notice.RegionCode,
			Description:  notice.Description,
			Value:        notice.EstimatedValue,
			Score:        res.Score,
			Category:     string(res.Category),
			Status:       status,
			Urgency:      urgency,
			Priority:     classify.Priority(res.Score),
			LinkPNCP:     pncp.PortalLink(notice.ID),
			LinkOrg:      notice.OriginLink,
		})

		summary.PerCompany[company]++
		if status == types.StatusNew {
			summary.New++
		}
		if urgency == "urgent" {
			summary.Urgent++
		}
	}
	return records
}

// admit applies the pre-match region and minimum-value filters.
func (r *Runner) admit(notice types.Notice) bool {
	if notice.EstimatedValue < r.cfg.Feed.MinValue {
		return false
	}
	if len(r.cfg.Feed.RegionFilter) == 0 {
		return true
	}
	for _, region := range r.cfg.Feed.RegionFilter {
		if notice.RegionCode == region {
			return true
		}
	}
	return false
}
