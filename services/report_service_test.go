package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

func TestNormalizePage(t *testing.T) {
	p := NormalizePage(0, 0)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 0, p.Offset())

	p = NormalizePage(3, 25)
	assert.Equal(t, 50, p.Offset())

	p = NormalizePage(1, 9999)
	assert.Equal(t, 100, p.Limit, "limit is clamped")

	p = NormalizePage(-4, -1)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 20, p.Limit)
}

func TestLastPageRemainder(t *testing.T) {
	// 45 rows at page size 20: page 3 holds the 5-row remainder.
	total, limit := 45, 20
	lastPage := (total + limit - 1) / limit
	p := NormalizePage(lastPage, limit)
	assert.Equal(t, 3, p.Number)
	assert.Equal(t, 40, p.Offset())
	assert.Equal(t, 5, total-p.Offset())

	// 40 rows at page size 20: the last page is full.
	total = 40
	lastPage = (total + limit - 1) / limit
	p = NormalizePage(lastPage, limit)
	assert.Equal(t, 20, total-p.Offset())
}

// dryRunReportService builds queries without a connection so the generated
// SQL can be inspected.
func dryRunReportService(t *testing.T) *ReportService {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	require.NoError(t, err)
	return NewReportService(db)
}

// whereClause isolates the predicate part of a statement so the count and
// data queries can be compared despite their different selects and paging.
func whereClause(t *testing.T, sql string) string {
	t.Helper()
	i := strings.Index(sql, " WHERE ")
	require.GreaterOrEqual(t, i, 0, "no WHERE clause in: %s", sql)
	s := sql[i:]
	for _, cut := range []string{" ORDER BY", " LIMIT"} {
		if j := strings.Index(s, cut); j >= 0 {
			s = s[:j]
		}
	}
	return s
}

func allFilters() ReportFilters {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	return ReportFilters{
		Search:   "anna",
		Status:   "approved",
		Category: "U15",
		Type:     "singles",
		From:     &from,
		To:       &to,
	}
}

func TestEntryReportFilterParity(t *testing.T) {
	// The total shown next to a page must count exactly the rows being
	// paged, so the count and data queries have to share every predicate.
	svc := dryRunReportService(t)
	f := allFilters()

	var total int64
	count := svc.applyEntryFilters(f).Count(&total)
	require.NoError(t, count.Error)

	var rows []EntryRow
	data := svc.applyEntryFilters(f).
		Select("events.id as event_id").
		Order("entries.created_at desc").
		Limit(20).Offset(40).
		Scan(&rows)
	require.NoError(t, data.Error)

	countSQL := count.Statement.SQL.String()
	dataSQL := data.Statement.SQL.String()
	assert.Contains(t, countSQL, "players.name ILIKE ?")
	assert.Contains(t, countSQL, "events.status = ?")
	assert.Contains(t, countSQL, "entries.created_at >= ?")
	assert.Equal(t, whereClause(t, countSQL), whereClause(t, dataSQL))

	// Same predicates means same bound values, in the same order; the data
	// query only appends its paging values.
	countVars := count.Statement.Vars
	require.LessOrEqual(t, len(countVars), len(data.Statement.Vars))
	assert.Equal(t, countVars, data.Statement.Vars[:len(countVars)])
}

func TestPaymentReportFilterParity(t *testing.T) {
	svc := dryRunReportService(t)
	f := allFilters()

	var total int64
	count := svc.applyPaymentFilters(f).Count(&total)
	require.NoError(t, count.Error)

	var rows []PaymentRow
	data := svc.applyPaymentFilters(f).
		Select("payments.id as payment_id").
		Order("payments.created_at desc").
		Limit(20).Offset(40).
		Scan(&rows)
	require.NoError(t, data.Error)

	countSQL := count.Statement.SQL.String()
	dataSQL := data.Statement.SQL.String()
	assert.Contains(t, countSQL, "users.email ILIKE ?")
	assert.Contains(t, countSQL, "payments.status = ?")
	assert.Equal(t, whereClause(t, countSQL), whereClause(t, dataSQL))

	countVars := count.Statement.Vars
	require.LessOrEqual(t, len(countVars), len(data.Statement.Vars))
	assert.Equal(t, countVars, data.Statement.Vars[:len(countVars)])
}

func TestEntryReportDayRangeUpperBoundExclusive(t *testing.T) {
	// A "to" date filters through the end of that day, not its midnight.
	svc := dryRunReportService(t)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	f := ReportFilters{To: &to}

	var total int64
	count := svc.applyEntryFilters(f).Count(&total)
	require.NoError(t, count.Error)
	assert.Contains(t, count.Statement.SQL.String(), "entries.created_at < ?")
	require.Len(t, count.Statement.Vars, 1)
	assert.Equal(t, to.AddDate(0, 0, 1), count.Statement.Vars[0])
}
