/*
Package keywords loads per-company keyword profiles from an Excel workbook.

The first sheet is expected to carry a header row with the columns company,
term, weight, mandatory and category (matched case- and whitespace-
insensitively). A missing required column is a fatal configuration error; a
row whose term normalizes to nothing is dropped silently.
*/
package keywords

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/licitaware/pncpwatch/internal/textnorm"
	"github.com/licitaware/pncpwatch/internal/types"
)

// ErrMissingColumn marks a keyword workbook whose header row lacks a required
// column. It aborts the run before any crawling starts.
var ErrMissingColumn = errors.New("keyword source missing required column")

var requiredColumns = []string{"company", "term", "weight", "mandatory", "category"}

// Load reads the workbook at path and groups its rules by company.
func Load(path string) (map[string][]types.KeywordRule, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyword workbook %s: %w", path, err)
	}
	defer f.Close()

	return parse(f)
}

// LoadReader parses a workbook from an in-memory stream.
func LoadReader(r io.Reader) (map[string][]types.KeywordRule, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read keyword workbook: %w", err)
	}
	defer f.Close()

	return parse(f)
}

func parse(f *excelize.File) (map[string][]types.KeywordRule, error) {
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: workbook has no header row", ErrMissingColumn)
	}

	cols, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	profiles := make(map[string][]types.KeywordRule)
	for _, row := range rows[1:] {
		rule, ok := parseRow(row, cols)
		if !ok {
			continue
		}
		profiles[rule.Company] = append(profiles[rule.Company], rule)
	}

	return profiles, nil
}

// headerIndex maps each required column name to its position in the header
// row, tolerating case and surrounding whitespace.
func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		if name != "" {
			cols[name] = i
		}
	}

	for _, required := range requiredColumns {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, required)
		}
	}
	return cols, nil
}

func parseRow(row []string, cols map[string]int) (types.KeywordRule, bool) {
	company := strings.TrimSpace(cell(row, cols["company"]))
	term := textnorm.Normalize(cell(row, cols["term"]))

	tokens := strings.Fields(term)
	if company == "" || len(tokens) == 0 {
		return types.KeywordRule{}, false
	}

	weight, err := strconv.Atoi(strings.TrimSpace(cell(row, cols["weight"])))
	if err != nil || weight < 0 {
		weight = 0
	}

	return types.KeywordRule{
		Company:   company,
		Tokens:    tokens,
		Weight:    weight,
		Mandatory: parseFlag(cell(row, cols["mandatory"])),
		Category:  parseCategory(cell(row, cols["category"])),
	}, true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseFlag accepts the spellings seen in real keyword sheets; anything else
// means not mandatory.
func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "sim", "true", "1", "y":
		return true
	}
	return false
}

func parseCategory(s string) types.RuleCategory {
	switch textnorm.Normalize(strings.TrimSpace(s)) {
	case "technical", "tecnica", "tecnico":
		return types.CategoryTechnical
	}
	return types.CategoryOther
}
