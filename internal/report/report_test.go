package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/licitaware/pncpwatch/internal/types"
)

func record(company string, score int, status types.MatchStatus, priority string) types.MatchRecord {
	return types.MatchRecord{
		Company:      company,
		ModalityName: "Pregão",
		NoticeID:     "id-" + company,
		OrgName:      "Org",
		Region:       "SP",
		Description:  "obra",
		Value:        1000,
		Score:        score,
		Category:     "technical",
		Status:       status,
		Priority:     priority,
		LinkPNCP:     "https://pncp.gov.br/app/editais/x",
	}
}

func TestBuildSheetsAndSorting(t *testing.T) {
	records := []types.MatchRecord{
		record("Acme", 3, types.StatusNew, "medium"),
		record("Acme", 9, types.StatusSeen, "very high"),
		record("Acme", 6, types.StatusNew, "high"),
		record("Beta", 2, types.StatusNew, "low"),
	}

	f, err := Build(records)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "Acme", "Beta"}, f.GetSheetList())

	rows, err := f.GetRows("Acme")
	require.NoError(t, err)
	require.Len(t, rows, 4, "header plus three records")
	assert.Equal(t, "Modality", rows[0][0])

	scoreCol := 6 // 0-based index of Score
	assert.Equal(t, "9", rows[1][scoreCol])
	assert.Equal(t, "6", rows[2][scoreCol])
	assert.Equal(t, "3", rows[3][scoreCol])
}

func TestBuildSummarySheet(t *testing.T) {
	records := []types.MatchRecord{
		record("Acme", 9, types.StatusNew, "very high"),
		record("Acme", 6, types.StatusSeen, "high"),
		record("Beta", 2, types.StatusNew, "low"),
	}

	f, err := Build(records)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)

	assert.Equal(t, []string{"Company", "Total", "New"}, rows[0][:3])
	assert.Equal(t, []string{"Acme", "2", "1"}, rows[1][:3])
	assert.Equal(t, []string{"Beta", "1", "1"}, rows[2][:3])

	var priorityRows [][]string
	for i, row := range rows {
		if len(row) > 0 && row[0] == "Priority" {
			priorityRows = rows[i+1:]
			break
		}
	}
	require.NotNil(t, priorityRows)
	assert.Equal(t, []string{"very high", "1"}, priorityRows[0][:2])
	assert.Equal(t, []string{"high", "1"}, priorityRows[1][:2])
	assert.Equal(t, []string{"medium", "0"}, priorityRows[2][:2])
	assert.Equal(t, []string{"low", "1"}, priorityRows[3][:2])
}

func TestLongCompanyNameTruncated(t *testing.T) {
	long := strings.Repeat("Companhia Nacional de Obras ", 3)
	f, err := Build([]types.MatchRecord{record(long, 5, types.StatusNew, "high")})
	require.NoError(t, err)
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		assert.LessOrEqual(t, len(sheet), 31)
	}
}

func TestIllegalSheetCharactersReplaced(t *testing.T) {
	f, err := Build([]types.MatchRecord{record("A/B:C*D?", 5, types.StatusNew, "high")})
	require.NoError(t, err)
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		assert.NotContains(t, sheet, "/")
		assert.NotContains(t, sheet, ":")
		assert.NotContains(t, sheet, "*")
		assert.NotContains(t, sheet, "?")
	}
}

func TestControlCharactersStripped(t *testing.T) {
	rec := record("Acme", 5, types.StatusNew, "high")
	rec.Description = "obra\x00 de\x1f ponte\x7f"

	f, err := Build([]types.MatchRecord{rec})
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Acme")
	require.NoError(t, err)
	assert.Equal(t, "obra de ponte", rows[1][4])
}

func TestDistinctSheetsForCollidingNames(t *testing.T) {
	prefix := strings.Repeat("x", 31)
	records := []types.MatchRecord{
		record(prefix+"alpha", 1, types.StatusNew, "low"),
		record(prefix+"beta", 2, types.StatusNew, "low"),
	}

	f, err := Build(records)
	require.NoError(t, err)
	defer f.Close()

	assert.Len(t, f.GetSheetList(), 3, "summary plus one sheet per company")
}
