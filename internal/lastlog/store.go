package lastlog

import (
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	// DefaultPath is the platform's standard last-login log.
	DefaultPath = "/var/log/lastlog"

	// DefaultPageRecords is how many records a Store buffers per bulk read.
	DefaultPageRecords = 512
)

var (
	// ErrNotOpen is returned by Seek on a store that was never opened or
	// has been closed.
	ErrNotOpen = errors.New("lastlog: store not open")

	// ErrNoRecord is returned by Seek when the requested index lies at or
	// past end-of-file, i.e. the uid has no record.
	ErrNoRecord = errors.New("lastlog: no record at index")
)

// Store is a read-only, page-buffered view over a lastlog file. It turns
// the flat file into a randomly seekable array of records: reads go through
// an in-memory page of up to pageRecs records so sequential scans cost one
// syscall per page, while Seek can jump to any uid.
//
// A Store owns exactly one underlying file and is not safe for concurrent
// use. Records returned by Read are copied out of the page buffer, so they
// stay valid across later store calls.
type Store struct {
	r        io.ReadSeekCloser
	pageRecs int
	buf      []byte

	bufStart int64 // uid index of the first record in buf
	valid    int   // records filled by the last reload
	cur      int   // next record to deliver, relative to bufStart
	primed   bool  // buf has been loaded at least once
}

// Open opens the lastlog file at path read-only with the default page size.
func Open(path string) (*Store, error) {
	return OpenPaged(path, DefaultPageRecords)
}

// OpenPaged opens the lastlog file at path read-only, buffering pageRecords
// records per bulk read. It does not pre-read; the first Seek or Read loads
// the initial page.
func OpenPaged(path string, pageRecords int) (*Store, error) {
	if pageRecords <= 0 {
		return nil, fmt.Errorf("lastlog: invalid page size %d", pageRecords)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lastlog: open %s: %w", path, err)
	}

	return newStore(f, pageRecords), nil
}

// newStore wires a Store over any ReadSeekCloser. Tests use this to count
// physical reads; Open hands it a real *os.File.
func newStore(r io.ReadSeekCloser, pageRecords int) *Store {
	return &Store{
		r:        r,
		pageRecs: pageRecords,
		buf:      make([]byte, pageRecords*RecordSize),
	}
}

// Seek positions the store so the next Read delivers the record for uid
// index rec.
//
// When rec is already the next record Read would deliver, Seek is a no-op
// with no I/O — the common case during a sequential full scan. When rec is
// inside the buffered window only the cursor moves. Otherwise the window is
// realigned to the page boundary below rec (floor(rec/pageRecs)*pageRecs)
// and reloaded, so sequential access from any starting point keeps the
// benefit of read-ahead.
//
// Seek returns ErrNoRecord when rec lies at or past end-of-file. The cursor
// it sets may still sit past the last record of a short final page; Read
// detects that, not Seek.
func (s *Store) Seek(rec int64) error {
	if s.r == nil {
		return ErrNotOpen
	}
	if rec < 0 {
		return fmt.Errorf("%w: %d", ErrNoRecord, rec)
	}

	if rec == s.bufStart+int64(s.cur) { // next read already delivers rec
		return nil
	}

	if rec < s.bufStart || rec > s.bufStart+int64(s.valid)-1 { // outside window
		start := rec / int64(s.pageRecs) * int64(s.pageRecs)

		if _, err := s.r.Seek(start*RecordSize, io.SeekStart); err != nil {
			return fmt.Errorf("lastlog: seek to record %d: %w", rec, err)
		}

		if s.reload(start) == 0 {
			return fmt.Errorf("%w: %d", ErrNoRecord, rec)
		}
	}

	s.cur = int(rec - s.bufStart)
	return nil
}

// Read returns the record at the current position and advances the cursor.
// The second return value is false once records are exhausted: past
// end-of-file, on an unopened store, or when the underlying read fails.
// Repeated calls after exhaustion keep returning false.
func (s *Store) Read() (Record, bool) {
	if s.r == nil {
		return Record{}, false
	}

	// first use, load up the buffer from the current position
	if !s.primed {
		s.reload(s.bufStart)
	}

	// at the end of the buffer, and reload doesn't return any more
	if s.cur >= s.valid {
		if s.reload(s.bufStart+int64(s.valid)) == 0 {
			return Record{}, false
		}
	}

	var rec Record
	rec.Decode(s.buf[s.cur*RecordSize:])
	s.cur++

	return rec, true
}

// reload fills the page buffer with one bulk read from the file's current
// position, which holds the record for uid index start. A short read is
// normal at end-of-file and harmless elsewhere: valid tracks what actually
// arrived, and the next reload continues from wherever this one stopped. A
// trailing partial record is dropped. Read errors count as zero records
// loaded and surface through Seek/Read as absence.
func (s *Store) reload(start int64) int {
	n, err := s.r.Read(s.buf)
	if err != nil && err != io.EOF {
		n = 0
	}

	s.bufStart = start
	s.valid = n / RecordSize
	s.cur = 0
	s.primed = true

	return s.valid
}

// Close releases the underlying file. Closing a store that was never opened
// is a no-op. The close error propagates so the caller can surface it as
// the run's exit status.
func (s *Store) Close() error {
	if s.r == nil {
		return nil
	}

	err := s.r.Close()
	s.r = nil
	return err
}
