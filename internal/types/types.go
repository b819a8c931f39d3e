package types

import (
	"time"
)

// RuleCategory tags a keyword rule for the category-count acceptance path.
type RuleCategory string

const (
	CategoryTechnical RuleCategory = "technical"
	CategoryOther     RuleCategory = "other"
)

// MatchStatus records whether a notice id was already in the ledger when the
// run started.
type MatchStatus string

const (
	StatusNew  MatchStatus = "NEW"
	StatusSeen MatchStatus = "SEEN"
)

// KeywordRule is one row of a company's keyword profile. Tokens hold the
// normalized, whitespace-split term; a rule matches a description when every
// token appears as a substring of the normalized text.
type KeywordRule struct {
	Company   string
	Tokens    []string
	Weight    int
	Mandatory bool
	Category  RuleCategory
}

// Notice is one procurement opportunity as returned by the feed. Only its ID
// outlives the run (into the history ledger).
type Notice struct {
	ID             string
	Description    string
	EstimatedValue float64
	RegionCode     string
	OrgName        string
	PublishedAt    *time.Time
	Deadline       *time.Time
	OriginLink     string
	ModalityCode   int
}

// MatchRecord is one accepted (notice, company) pairing, created exactly once
// per run and handed to the report and notification sinks.
type MatchRecord struct {
	Company      string
	ModalityName string
	NoticeID     string
	OrgName      string
	Region       string
	Description  string
	Value        float64
	Score        int
	Category     string
	Status       MatchStatus
	Urgency      string
	Priority     string
	LinkPNCP     string
	LinkOrg      string
}
