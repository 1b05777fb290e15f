package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dalemusser/sponsorlists/internal/app/system/csvutil"
	"github.com/dalemusser/sponsorlists/internal/domain/models"
	"go.uber.org/zap"
)

// Emitter writes a sponsor's lists as CSV files into one run directory.
// The directory must already exist.
type Emitter struct {
	Dir string
	Log *zap.Logger
}

// NewEmitter constructs an Emitter writing into dir.
func NewEmitter(dir string, logger *zap.Logger) *Emitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Emitter{Dir: dir, Log: logger}
}

// Emit writes <stem>_list_A.csv and <stem>_list_B.csv for the non-empty
// tiers of lists and returns the paths written. An empty tier produces no
// file. Existing files are overwritten.
func (e *Emitter) Emit(lists models.PriorityLists) ([]string, error) {
	stem := SponsorFileStem(lists.Sponsor)

	var written []string
	tiers := []struct {
		name    string
		entries []models.PriorityEntry
	}{
		{"A", lists.ListA},
		{"B", lists.ListB},
	}
	for _, tier := range tiers {
		if len(tier.entries) == 0 {
			continue
		}
		path := filepath.Join(e.Dir, ListFileName(stem, tier.name))
		if err := writeListFile(path, tier.entries); err != nil {
			return written, err
		}
		e.Log.Info("list saved",
			zap.String("list", tier.name),
			zap.String("path", path),
			zap.Int("rows", len(tier.entries)),
		)
		written = append(written, path)
	}
	return written, nil
}

// ListFileName returns the file name for one tier of a sponsor.
func ListFileName(stem, tier string) string {
	return stem + "_list_" + tier + ".csv"
}

// SponsorFileStem derives a file-name-safe stem from a sponsor identifier:
// the part before the first "@", with characters that are unsafe in file
// names replaced by "_".
func SponsorFileStem(sponsor string) string {
	local, _, _ := strings.Cut(sponsor, "@")
	stem := strings.Map(func(r rune) rune {
		switch {
		case r < 0x20 || r == 0x7f:
			return '_'
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		}
		return r
	}, local)

	switch stem {
	case "":
		return "sponsor"
	case ".", "..":
		return strings.Repeat("_", len(stem))
	}
	return stem
}

func writeListFile(path string, entries []models.PriorityEntry) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if err := csvutil.WritePriorityList(f, entries); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
