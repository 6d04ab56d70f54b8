package lastlog

import (
	"fmt"
	"io"
	"time"
)

// DumpFile prints all records in a lastlog file for debugging. head limits
// how many records are printed; head <= 0 means no limit. All-zero records
// (uids with no recorded login) are skipped.
func DumpFile(w io.Writer, path string, head int) error {
	st, err := Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	shown := 0
	total := 0

	for idx := int64(0); ; idx++ {
		rec, ok := st.Read()
		if !ok {
			break
		}
		total++

		if rec.NeverLoggedIn() && rec.LineString() == "" && rec.HostString() == "" {
			continue
		}

		fmt.Fprintf(w, "Record #%d\n", idx)
		fmt.Fprintf(w, "  Line: %q\n", rec.LineString())
		fmt.Fprintf(w, "  Host: %q\n", rec.HostString())
		fmt.Fprintf(w, "  Time: %d (%s)\n", rec.Time, time.Unix(rec.Time, 0))
		fmt.Fprintln(w)

		shown++
		if head > 0 && shown == head {
			break
		}
	}

	fmt.Fprintf(w, "Total: %d records, %d with activity\n", total, shown)
	return nil
}
