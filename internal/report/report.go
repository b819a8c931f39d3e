/*
Package report renders accepted matches into a multi-sheet Excel workbook: one
sheet per company, rows sorted by descending score, plus a summary sheet with
per-company totals and per-priority bucket counts.
*/
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/licitaware/pncpwatch/internal/types"
)

const (
	summarySheetName = "Summary"
	// Worksheet names are capped by the file format.
	maxSheetNameLen = 31
)

var columns = []string{
	"Modality", "Notice ID", "Organization", "Region", "Description",
	"Estimated Value", "Score", "Category", "Status", "Urgency", "Priority",
	"PNCP Link", "Origin Link",
}

// Write assembles the workbook and saves it to path.
func Write(records []types.MatchRecord, path string) error {
	f, err := Build(records)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report %s: %w", path, err)
	}
	return nil
}

// Build assembles the workbook in memory.
func Build(records []types.MatchRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), summarySheetName); err != nil {
		return nil, fmt.Errorf("failed to name summary sheet: %w", err)
	}

	companies := groupByCompany(records)
	usedNames := map[string]bool{summarySheetName: true}

	for _, company := range companies {
		sheet := sheetName(company.name, usedNames)
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("failed to create sheet for %s: %w", company.name, err)
		}
		if err := writeCompanySheet(f, sheet, company.records); err != nil {
			return nil, err
		}
	}

	if err := writeSummarySheet(f, companies, records); err != nil {
		return nil, err
	}
	return f, nil
}

type companyGroup struct {
	name    string
	records []types.MatchRecord
}

// groupByCompany buckets records per company, each bucket sorted by
// descending score. Companies come out in alphabetical order so report layout
// is stable across runs.
func groupByCompany(records []types.MatchRecord) []companyGroup {
	byCompany := make(map[string][]types.MatchRecord)
	for _, rec := range records {
		byCompany[rec.Company] = append(byCompany[rec.Company], rec)
	}

	names := make([]string, 0, len(byCompany))
	for name := range byCompany {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]companyGroup, 0, len(names))
	for _, name := range names {
		recs := byCompany[name]
		sort.SliceStable(recs, func(i, j int) bool {
			return recs[i].Score > recs[j].Score
		})
		groups = append(groups, companyGroup{name: name, records: recs})
	}
	return groups
}

func writeCompanySheet(f *excelize.File, sheet string, records []types.MatchRecord) error {
	if err := writeRow(f, sheet, 1, toAny(columns)); err != nil {
		return err
	}

	for i, rec := range records {
		row := i + 2
		values := []any{
			clean(rec.ModalityName),
			clean(rec.NoticeID),
			clean(rec.OrgName),
			clean(rec.Region),
			clean(rec.Description),
			rec.Value,
			rec.Score,
			clean(rec.Category),
			clean(string(rec.Status)),
			clean(rec.Urgency),
			clean(rec.Priority),
			clean(rec.LinkPNCP),
			clean(rec.LinkOrg),
		}
		if err := writeRow(f, sheet, row, values); err != nil {
			return err
		}
		setLink(f, sheet, 12, row, rec.LinkPNCP)
		setLink(f, sheet, 13, row, rec.LinkOrg)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, companies []companyGroup, all []types.MatchRecord) error {
	if err := writeRow(f, summarySheetName, 1, []any{"Company", "Total", "New"}); err != nil {
		return err
	}

	row := 2
	for _, company := range companies {
		newCount := 0
		for _, rec := range company.records {
			if rec.Status == types.StatusNew {
				newCount++
			}
		}
		values := []any{clean(company.name), len(company.records), newCount}
		if err := writeRow(f, summarySheetName, row, values); err != nil {
			return err
		}
		row++
	}

	row++
	if err := writeRow(f, summarySheetName, row, []any{"Priority", "Count"}); err != nil {
		return err
	}
	row++

	buckets := map[string]int{}
	for _, rec := range all {
		buckets[rec.Priority]++
	}
	for _, priority := range []string{"very high", "high", "medium", "low"} {
		if err := writeRow(f, summarySheetName, row, []any{priority, buckets[priority]}); err != nil {
			return err
		}
		row++
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, v := range values {
		cellName, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("failed to address cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cellName, v); err != nil {
			return fmt.Errorf("failed to write cell %s!%s: %w", sheet, cellName, err)
		}
	}
	return nil
}

// setLink is best effort: a link target the format rejects still leaves the
// URL text in the cell.
func setLink(f *excelize.File, sheet string, col, row int, target string) {
	if target == "" {
		return
	}
	cellName, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return
	}
	_ = f.SetCellHyperLink(sheet, cellName, target, "External")
}

// sheetName folds a company name into a legal, unique worksheet name.
func sheetName(company string, used map[string]bool) string {
	name := clean(company)
	for _, illegal := range []string{":", "\\", "/", "?", "*", "[", "]"} {
		name = strings.ReplaceAll(name, illegal, " ")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Company"
	}
	name = strings.TrimSpace(truncate(name, maxSheetNameLen))

	base := name
	for i := 2; used[name]; i++ {
		suffix := fmt.Sprintf(" %d", i)
		name = strings.TrimSpace(truncate(base, maxSheetNameLen-len(suffix))) + suffix
	}
	used[name] = true
	return name
}

// truncate cuts at a rune boundary so accented company names stay valid.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	var sb strings.Builder
	for _, r := range s {
		if sb.Len()+len(string(r)) > max {
			break
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// clean strips control characters that the file format rejects.
func clean(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
