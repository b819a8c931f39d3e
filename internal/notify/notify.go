/*
Package notify delivers the run outcome: a console summary for interactive use
and an email carrying the generated report. Missing SMTP credentials skip
delivery without failing the run.
*/
package notify

import (
	"fmt"
	"sort"
	"strings"
)

// Summary is the short templated digest of one run.
type Summary struct {
	Total        int
	New          int
	Urgent       int
	LookbackDays int
	PerCompany   map[string]int
	ReportPath   string
}

// Message is a rendered notification ready for a sink.
type Message struct {
	Subject string
	Body    string
}

// BuildMessage renders the run summary, optionally appending AI digest
// bullets.
func BuildMessage(s Summary, digest []string) Message {
	var sb strings.Builder

	sb.WriteString("PNCP OPPORTUNITY REPORT\n")
	sb.WriteString(strings.Repeat("=", 40) + "\n\n")
	sb.WriteString(fmt.Sprintf("Total opportunities: %d\n", s.Total))
	sb.WriteString(fmt.Sprintf("New opportunities:   %d\n", s.New))
	sb.WriteString(fmt.Sprintf("Urgent deadlines:    %d\n", s.Urgent))
	sb.WriteString(fmt.Sprintf("Window analyzed:     last %d days\n", s.LookbackDays))

	if len(s.PerCompany) > 0 {
		sb.WriteString("\nPer company:\n")
		companies := make([]string, 0, len(s.PerCompany))
		for name := range s.PerCompany {
			companies = append(companies, name)
		}
		sort.Strings(companies)
		for _, name := range companies {
			sb.WriteString(fmt.Sprintf("  %s: %d\n", name, s.PerCompany[name]))
		}
	}

	if len(digest) > 0 {
		sb.WriteString("\nAI DIGEST\n")
		sb.WriteString(strings.Repeat("-", 20) + "\n")
		for _, line := range digest {
			sb.WriteString(fmt.Sprintf("- %s\n", line))
		}
	}

	return Message{
		Subject: fmt.Sprintf("PNCP Report: %d opportunities (%d new)", s.Total, s.New),
		Body:    sb.String(),
	}
}

// PrintSummary writes the run outcome to the console.
func PrintSummary(s Summary) {
	fmt.Println("\n===========================================")
	fmt.Printf("✅ %d MATCHES FOUND (%d new, %d urgent)\n", s.Total, s.New, s.Urgent)
	fmt.Println("===========================================")
	if s.ReportPath != "" {
		fmt.Printf("Report saved to %s\n", s.ReportPath)
	}
}
