package table

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/joacominatel/rentalviz/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func printLines(t *testing.T, res *database.QueryResult) []string {
	t.Helper()
	var buf bytes.Buffer
	New(&buf).Table(res)
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func TestTableCategoryScenario(t *testing.T) {
	res := &database.QueryResult{
		Columns: []string{"film_category", "total_rentals", "total_revenue"},
		Rows: [][]any{
			{"Action", int64(120), 600.0},
			{"Comedy", int64(80), 300.0},
		},
	}

	lines := printLines(t, res)
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"film_category", "total_rentals", "total_revenue"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"Action", "120", "600"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"Comedy", "80", "300"}, strings.Fields(lines[2]))

	// Text is left-aligned, numbers right-aligned under their header.
	assert.True(t, strings.HasPrefix(lines[1], "Action "))
	assert.Equal(t, len(lines[0]), len(lines[1]))
	assert.Equal(t, len(lines[0]), len(lines[2]))
}

func TestTableRoundTrip(t *testing.T) {
	res := &database.QueryResult{
		Columns: []string{"year", "month", "month_name", "total_rentals", "total_revenue"},
		Rows: [][]any{
			{int64(2005), int64(5), "May", int64(1156), 4824.43},
			{int64(2005), int64(6), "June", int64(2311), 9631.88},
			{int64(2005), int64(7), "July", int64(6709), 28373.89},
			{int64(2006), int64(2), "February", int64(182), 514.18},
		},
	}

	lines := printLines(t, res)
	require.Len(t, lines, len(res.Rows)+1)

	for i, line := range lines[1:] {
		fields := strings.Fields(line)
		require.Len(t, fields, 5)

		rentals, err := strconv.ParseInt(fields[3], 10, 64)
		require.NoError(t, err)
		assert.Equal(t, res.Rows[i][3], rentals)

		revenue, err := strconv.ParseFloat(fields[4], 64)
		require.NoError(t, err)
		assert.InDelta(t, res.Rows[i][4], revenue, 0.005)
	}
}

func TestTableEmptyPrintsHeaderOnly(t *testing.T) {
	lines := printLines(t, &database.QueryResult{
		Columns: []string{"film_category", "total_rentals", "total_revenue"},
	})
	require.Len(t, lines, 1)
	assert.Equal(t, "film_category  total_rentals  total_revenue", lines[0])
}

func TestTableNullsAndTruncation(t *testing.T) {
	long := strings.Repeat("x", 60)
	lines := printLines(t, &database.QueryResult{
		Columns: []string{"film_category", "total_rentals"},
		Rows: [][]any{
			{long, nil},
			{"Drama", int64(3)},
		},
	})
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "…")
	assert.Equal(t, "NULL", strings.Fields(lines[1])[1])
	assert.LessOrEqual(t, len([]rune(strings.Fields(lines[1])[0])), maxColWidth)
}

func TestHeadingAndNotice(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	p.Heading("Rental trends (monthly)")
	p.Notice("No time-series data found in vw_rental_analysis.")
	p.Line("Total records: %d", 0)

	assert.Equal(t,
		"\nRental trends (monthly):\n\nNo time-series data found in vw_rental_analysis.\nTotal records: 0\n",
		buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "…", truncate("abcdef", 1))
}
