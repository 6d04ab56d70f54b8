// Package lastlog reads the fixed-record binary last-login log. The file is
// a flat array: the record for uid i lives at byte offset i*RecordSize, gaps
// are all-zero records, and offsets past end-of-file mean the uid has no
// record at all.
package lastlog

import (
	"bytes"
	"encoding/binary"
)

const (
	// LineSize(8) + HostSize(16) + Time(8) = 32 bytes
	LineSize  = 8
	HostSize  = 16
	timeWidth = 8

	RecordSize = LineSize + HostSize + timeWidth
)

// Record is one last-login entry. Line and Host are NUL-padded and not
// guaranteed to be NUL-terminated; use LineString/HostString for display.
type Record struct {
	Line [LineSize]byte
	Host [HostSize]byte
	Time int64 // seconds since epoch, 0 = never logged in
}

// Encode writes a record into a byte slice of at least RecordSize bytes.
// This ensures fixtures write exactly what Decode expects.
func (r *Record) Encode(dst []byte) {
	copy(dst[0:LineSize], r.Line[:])
	copy(dst[LineSize:LineSize+HostSize], r.Host[:])
	binary.LittleEndian.PutUint64(dst[LineSize+HostSize:RecordSize], uint64(r.Time))
}

// Decode reads a record from a byte slice.
// Note: We avoid bounds checking here for speed; the caller must check.
func (r *Record) Decode(src []byte) {
	copy(r.Line[:], src[0:LineSize])
	copy(r.Host[:], src[LineSize:LineSize+HostSize])
	r.Time = int64(binary.LittleEndian.Uint64(src[LineSize+HostSize : RecordSize]))
}

// LineString returns the line label up to the first NUL, or the whole
// buffer when no terminator is present.
func (r *Record) LineString() string {
	return boundedString(r.Line[:])
}

// HostString returns the host label with the same bounding rules.
func (r *Record) HostString() string {
	return boundedString(r.Host[:])
}

// NeverLoggedIn reports whether this uid has no recorded login.
func (r *Record) NeverLoggedIn() bool {
	return r.Time == 0
}

func boundedString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
