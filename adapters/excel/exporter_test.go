package excel

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fieldready/domain/core"
	"fieldready/domain/score"
	"fieldready/internal/testkit"
)

func seedResult(t *testing.T, store *testkit.InMemoryScoreStore, day string, overall float64) {
	t.Helper()
	d, err := core.ParseDay(day)
	require.NoError(t, err)
	result := score.ComprehensiveReadinessResult{
		ID:               core.NewResultID(),
		UserID:           core.UserID("export-user"),
		Date:             d,
		Scores:           map[score.Name]float64{score.Recovery: 88.0},
		OverallReadiness: overall,
		Category:         score.CategoryFor(overall),
		Confidence:       score.ConfidenceHigh,
		CalculatedAt:     core.NewTimestamp(time.Date(2026, 3, 15, 21, 0, 0, 0, time.UTC)),
	}
	require.NoError(t, store.Store(context.Background(), result))
}

func TestExportWritesOneRowPerDay(t *testing.T) {
	store := testkit.NewInMemoryScoreStore()
	seedResult(t, store, "2026-03-14", 82.5)
	seedResult(t, store, "2026-03-15", 58.0)

	start, err := core.ParseDay("2026-03-14")
	require.NoError(t, err)
	end, err := core.ParseDay("2026-03-15")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "history.xlsx")
	exporter := NewHistoryExporter(store)
	require.NoError(t, exporter.Export(context.Background(), core.UserID("export-user"), start, end, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// overall and category precede the sub-score columns
	assert.Equal(t, []string{"Date", "Overall", "Category", "Confidence"}, rows[0][:4])
	assert.Len(t, rows[0], 4+len(score.AllNames))
	assert.Equal(t, "2026-03-14", rows[1][0])
	assert.Equal(t, "GO", rows[1][2])
	assert.Equal(t, "2026-03-15", rows[2][0])
	assert.Equal(t, "LIMITED", rows[2][2])
}

func TestExportEmptyRangeStillWritesHeader(t *testing.T) {
	store := testkit.NewInMemoryScoreStore()
	day, err := core.ParseDay("2026-03-15")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "empty.xlsx")
	exporter := NewHistoryExporter(store)
	require.NoError(t, exporter.Export(context.Background(), core.UserID("nobody"), day, day, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
