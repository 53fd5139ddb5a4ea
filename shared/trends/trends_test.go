package trends

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirukguru/aws-edge-audit/service/storage"
)

var points = []storage.TrendPoint{
	{AccountID: "111111111111", Date: "2026-10-01", Total: 3, High: 1, Medium: 1, Low: 1, TotalALBs: 4, ALBsWithWAF: 3, WAFCoverageRate: 75, Score: 88},
	{AccountID: "111111111111", Date: "2026-10-02", Total: 1, Low: 1, TotalALBs: 4, ALBsWithWAF: 4, WAFCoverageRate: 100, Score: 99},
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trends.csv")
	require.NoError(t, WriteCSV(path, points))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "waf_coverage_rate", rows[0][8])
	assert.Equal(t, []string{"111111111111", "2026-10-01", "3", "1", "1", "1", "4", "3", "75.00", "88"}, rows[1])
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trends.json")
	require.NoError(t, WriteJSON(path, nil))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))

	require.NoError(t, WriteJSON(path, points))
	b, err = os.ReadFile(path)
	require.NoError(t, err)

	var got []storage.TrendPoint
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, points, got)
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	orig := Out
	Out = &buf
	t.Cleanup(func() { Out = orig })

	RenderTrendTable(nil)
	RenderComparisonTable(nil)
	RenderLifecycle(nil)

	assert.Contains(t, buf.String(), "No trend data found")
	assert.Contains(t, buf.String(), "No comparison data available")
	assert.Contains(t, buf.String(), "Finding not found")
}
