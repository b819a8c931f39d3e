/*
Package match scores notices against per-company keyword profiles.

The engine is pure: it never touches the history ledger or any other state, so
the orchestrator owns the NEW/SEEN bookkeeping. A rule matches when every
token of its normalized term appears as a substring of the normalized
description; acceptance then goes through a three-way gate so that a mandatory
domain term always qualifies a notice while a single generic high-weight term
never does on its own.
*/
package match

import (
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/licitaware/pncpwatch/internal/config"
	"github.com/licitaware/pncpwatch/internal/textnorm"
	"github.com/licitaware/pncpwatch/internal/types"
)

// ModeWeighted sums rule weights and gates on mandatory/threshold/category;
// ModeSimple counts matched rules and gates on any match.
const (
	ModeWeighted = "weighted"
	ModeSimple   = "simple"
)

const technicalHitsForAcceptance = 2

// Result carries the outcome of scoring one (notice, company) pair.
type Result struct {
	Accepted bool
	Score    int
	// Category is "technical" when any matched rule carried that tag.
	Category      types.RuleCategory
	MatchedRules  int
	MandatoryHit  bool
	TechnicalHits int
	// Vetoed is set when a denylisted phrase rejected an otherwise
	// accepted candidate.
	Vetoed bool
}

// Engine evaluates keyword profiles against notice descriptions.
type Engine struct {
	cfg      config.MatchConfig
	denylist *ahocorasick.Matcher
}

// NewEngine builds an engine with the given scoring parameters. Denylist
// phrases are normalized and compiled into a single-pass matcher.
func NewEngine(cfg config.MatchConfig) *Engine {
	e := &Engine{cfg: cfg}

	normalized := make([]string, 0, len(cfg.Denylist))
	for _, phrase := range cfg.Denylist {
		if n := textnorm.Normalize(phrase); n != "" {
			normalized = append(normalized, n)
		}
	}
	if len(normalized) > 0 {
		e.denylist = ahocorasick.NewStringMatcher(normalized)
	}
	return e
}

// Score reports whether the notice is accepted for a company and its final
// score. See Evaluate for the full breakdown.
func (e *Engine) Score(notice types.Notice, rules []types.KeywordRule) (bool, int) {
	res := e.Evaluate(notice, rules)
	return res.Accepted, res.Score
}

// Evaluate runs the full scoring pass for one notice against one company's
// rules.
func (e *Engine) Evaluate(notice types.Notice, rules []types.KeywordRule) Result {
	desc := textnorm.Normalize(notice.Description)

	res := Result{Category: types.CategoryOther}
	for _, rule := range rules {
		if !ruleMatches(desc, rule) {
			continue
		}
		res.MatchedRules++
		if rule.Mandatory {
			res.MandatoryHit = true
		}
		if rule.Category == types.CategoryTechnical {
			res.TechnicalHits++
			res.Category = types.CategoryTechnical
		}
		if e.cfg.Mode != ModeSimple {
			res.Score += rule.Weight
		}
	}

	if e.cfg.Mode == ModeSimple {
		res.Score = res.MatchedRules
		res.Accepted = res.Score > 0
	} else {
		res.Accepted = res.MandatoryHit ||
			res.Score >= e.cfg.ScoreThreshold ||
			res.TechnicalHits >= technicalHitsForAcceptance
	}

	if !res.Accepted {
		return res
	}

	// Post-acceptance adjustments, in order: value bonus once, then the
	// denylist veto, then the zero-score safety check.
	if notice.EstimatedValue > e.cfg.LargeValueThreshold {
		res.Score += e.cfg.ValueBonus
	}

	if e.denied(desc) {
		res.Accepted = false
		res.Vetoed = true
		return res
	}

	// A mandatory hit stands on its own even at weight zero; any other
	// zero-score candidate is noise.
	if res.Score == 0 && !res.MandatoryHit {
		res.Accepted = false
	}
	return res
}

func (e *Engine) denied(normalizedDesc string) bool {
	if e.denylist == nil {
		return false
	}
	return len(e.denylist.Match([]byte(normalizedDesc))) > 0
}

// ruleMatches tests the AND-of-tokens condition: every token of the term must
// appear somewhere in the normalized description.
func ruleMatches(normalizedDesc string, rule types.KeywordRule) bool {
	if len(rule.Tokens) == 0 {
		return false
	}
	for _, token := range rule.Tokens {
		if !strings.Contains(normalizedDesc, token) {
			return false
		}
	}
	return true
}
