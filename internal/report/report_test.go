package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvaleed/alastlog/internal/identity"
	"github.com/mvaleed/alastlog/internal/lastlog"
)

var now = time.Unix(1700000000, 0)

func record(line, host string, ts int64) lastlog.Record {
	var r lastlog.Record
	copy(r.Line[:], line)
	copy(r.Host[:], host)
	r.Time = ts
	return r
}

func openFixture(t *testing.T, recs map[int64]lastlog.Record) *lastlog.Store {
	t.Helper()

	maxIdx := int64(-1)
	for idx := range recs {
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	buf := make([]byte, (maxIdx+1)*lastlog.RecordSize)
	for idx, rec := range recs {
		rec.Encode(buf[idx*lastlog.RecordSize:])
	}

	path := filepath.Join(t.TempDir(), "lastlog")
	require.NoError(t, os.WriteFile(path, buf, 0o644))

	st, err := lastlog.OpenPaged(path, 8)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func runReport(t *testing.T, recs map[int64]lastlog.Record, days int64, users []identity.User) string {
	t.Helper()

	var out bytes.Buffer
	rep := New(openFixture(t, recs), Config{Days: days, Now: now, Out: &out})
	rep.Run(users)
	return out.String()
}

func TestReporter_Run(t *testing.T) {
	recs := map[int64]lastlog.Record{
		0: record("tty1", "console", now.Unix() - 3600),
		3: record("pts/0", "192.168.1.9", now.Unix() - 90*86400),
	}
	users := []identity.User{
		{Name: "root", UID: 0},
		{Name: "nobody", UID: 1},
		{Name: "alice", UID: 3},
	}

	out := runReport(t, recs, -1, users)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, []string{"Username", "Port", "From", "Latest"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"root", "tty1", "console"}, strings.Fields(lines[1])[:3])
	assert.True(t, strings.HasPrefix(lines[2], "nobody"))
	assert.Contains(t, lines[2], "**Never logged in**")
	assert.Equal(t, []string{"alice", "pts/0", "192.168.1.9"}, strings.Fields(lines[3])[:3])
}

func TestReporter_AbsentRecords(t *testing.T) {
	t.Run("uid past end of file renders blank", func(t *testing.T) {
		recs := map[int64]lastlog.Record{0: record("tty1", "h", 1)}
		users := []identity.User{{Name: "ghost", UID: 4000}}

		out := runReport(t, recs, -1, users)
		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		require.Len(t, lines, 2)

		row := lines[1]
		marker := strings.Index(row, "**Never logged in**")
		// name(16) + sep + line(8) + sep + host(16) + sep = 43 columns.
		require.Equal(t, 43, marker)
		assert.Equal(t, "", strings.TrimSpace(row[len("ghost"):marker]))
	})

	t.Run("seek failure does not abort the run", func(t *testing.T) {
		recs := map[int64]lastlog.Record{2: record("tty2", "h", now.Unix())}
		users := []identity.User{
			{Name: "ghost", UID: 4000},
			{Name: "bob", UID: 2},
		}

		out := runReport(t, recs, -1, users)
		assert.Contains(t, out, "ghost")
		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, []string{"bob", "tty2", "h"}, strings.Fields(lines[2])[:3])
	})
}

func TestReporter_DayFilter(t *testing.T) {
	recs := map[int64]lastlog.Record{
		0: record("tty1", "h", now.Unix() - 3600),     // 1 hour ago
		1: record("tty2", "h", now.Unix() - 10*86400), // 10 days ago
		2: {},                                         // never logged in
	}
	users := []identity.User{
		{Name: "fresh", UID: 0},
		{Name: "stale", UID: 1},
		{Name: "never", UID: 2},
	}

	t.Run("old records are skipped", func(t *testing.T) {
		out := runReport(t, recs, 5, users)
		assert.Contains(t, out, "fresh")
		assert.NotContains(t, out, "stale")
	})

	t.Run("never logged in passes any bound", func(t *testing.T) {
		out := runReport(t, recs, 5, users)
		assert.Contains(t, out, "never")
		assert.Contains(t, out, "**Never logged in**")
	})

	t.Run("absent records pass any bound", func(t *testing.T) {
		out := runReport(t, recs, 5, []identity.User{{Name: "ghost", UID: 4000}})
		assert.Contains(t, out, "ghost")
	})

	t.Run("no bound shows everything", func(t *testing.T) {
		out := runReport(t, recs, -1, users)
		assert.Contains(t, out, "fresh")
		assert.Contains(t, out, "stale")
		assert.Contains(t, out, "never")
	})
}

func TestReporter_LazyHeader(t *testing.T) {
	recs := map[int64]lastlog.Record{
		0: record("tty1", "h", now.Unix() - 30*86400),
	}
	users := []identity.User{{Name: "stale", UID: 0}}

	t.Run("no output at all when every record is filtered", func(t *testing.T) {
		out := runReport(t, recs, 5, users)
		assert.Empty(t, out)
	})

	t.Run("header printed once before the first row", func(t *testing.T) {
		many := []identity.User{{Name: "stale", UID: 0}, {Name: "stale2", UID: 0}}
		out := runReport(t, recs, -1, many)
		assert.Equal(t, 1, strings.Count(out, "Username"))
	})
}

func TestReporter_Formatting(t *testing.T) {
	t.Run("overlong fields are truncated to their columns", func(t *testing.T) {
		recs := map[int64]lastlog.Record{
			0: record("12345678", "abcdefghijklmnop", now.Unix()),
		}
		users := []identity.User{{Name: "a-very-long-login-name", UID: 0}}

		out := runReport(t, recs, -1, users)
		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		require.Len(t, lines, 2)

		assert.True(t, strings.HasPrefix(lines[1], "a-very-long-logi 12345678 abcdefghijklmnop "))
	})

	t.Run("timestamp uses the classic lastlog format", func(t *testing.T) {
		ts := time.Date(2023, time.November, 14, 22, 13, 20, 0, time.UTC)
		recs := map[int64]lastlog.Record{0: record("tty1", "h", ts.Unix())}
		users := []identity.User{{Name: "root", UID: 0}}

		out := runReport(t, recs, -1, users)
		want := time.Unix(ts.Unix(), 0).Format(TimeFormat)
		assert.Contains(t, out, want)
	})
}
