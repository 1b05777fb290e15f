// internal/app/system/csvutil/priority.go
package csvutil

import (
	"encoding/csv"
	"io"

	"github.com/dalemusser/sponsorlists/internal/domain/models"
)

// PriorityHeader is the header row of every sponsor list file.
var PriorityHeader = []string{"First Name", "Last Name", "Email"}

// NewWriter returns a csv.Writer using CRLF record terminators, the dialect
// spreadsheet tools expect.
func NewWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	return cw
}

// PriorityRow converts an entry to its CSV columns.
func PriorityRow(e models.PriorityEntry) []string {
	return []string{e.FirstName, e.LastName, e.Email}
}

// WritePriorityList writes the header and one row per entry to w.
// Quoting is left to encoding/csv.
func WritePriorityList(w io.Writer, entries []models.PriorityEntry) error {
	cw := NewWriter(w)
	if err := cw.Write(PriorityHeader); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(PriorityRow(e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
