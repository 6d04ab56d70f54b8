// Package report walks a set of accounts, fetches each one's last-login
// record from the paged store, applies the optional day filter, and writes
// the fixed-width report.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/mvaleed/alastlog/internal/identity"
	"github.com/mvaleed/alastlog/internal/lastlog"
)

// TimeFormat matches the classic lastlog output: "Mon Jan  2 15:04:05 -0700 2006".
const TimeFormat = "Mon Jan _2 15:04:05 -0700 2006"

const secondsInDay = 86400

// Config tunes one report run.
type Config struct {
	// Days restricts output to logins within this many days of Now.
	// Negative means no restriction. Accounts that never logged in pass
	// any bound: "no login" is not "old login".
	Days int64

	// Now anchors the day filter. The zero value means time.Now().
	Now time.Time

	Out    io.Writer
	Logger hclog.Logger
}

// Reporter emits one formatted line per matching account. The header row is
// printed lazily before the first emitted line, so a run where every record
// is filtered out produces no output at all.
type Reporter struct {
	store  *lastlog.Store
	out    io.Writer
	logger hclog.Logger
	days   int64
	now    time.Time

	headerShown bool
}

func New(store *lastlog.Store, cfg Config) *Reporter {
	now := cfg.Now
	if now.IsZero() {
		now = time.Now()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Reporter{
		store:  store,
		out:    cfg.Out,
		logger: logger,
		days:   cfg.Days,
		now:    now,
	}
}

// Run reports on every given account in order. Absent records (uid past
// end-of-file, or any seek failure) render as blank fields rather than
// aborting the run.
func (r *Reporter) Run(users []identity.User) {
	for _, u := range users {
		r.User(u)
	}
}

// User reports on a single account.
func (r *Reporter) User(u identity.User) {
	var rec *lastlog.Record

	if err := r.store.Seek(u.UID); err != nil {
		r.logger.Debug("no record", "user", u.Name, "uid", u.UID, "error", err)
	} else if got, ok := r.store.Read(); ok {
		rec = &got
	}

	if !r.withinDays(rec) {
		return
	}

	if !r.headerShown {
		fmt.Fprintf(r.out, "%-16.16s %-8.8s %-16.16s %s\n", "Username", "Port", "From", "Latest")
		r.headerShown = true
	}

	line, host := "", ""
	if rec != nil {
		line = rec.LineString()
		host = rec.HostString()
	}

	fmt.Fprintf(r.out, "%-16.16s %-8.8s %-16.16s %s\n", u.Name, line, host, r.latest(rec))
}

// withinDays applies the -t bound. Absent and never-logged-in records
// always pass.
func (r *Reporter) withinDays(rec *lastlog.Record) bool {
	if r.days < 0 {
		return true
	}
	if rec == nil || rec.NeverLoggedIn() {
		return true
	}

	delta := r.now.Unix() - rec.Time
	return delta <= secondsInDay*r.days
}

func (r *Reporter) latest(rec *lastlog.Record) string {
	if rec == nil || rec.NeverLoggedIn() {
		return "**Never logged in**"
	}
	return time.Unix(rec.Time, 0).Format(TimeFormat)
}
