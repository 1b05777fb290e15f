package reports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Runner drives one reporting run: discover sponsors, create the run
// directory, then fetch and emit each sponsor's lists in turn.
type Runner struct {
	Source Source
	Cfg    Config
	Log    *zap.Logger
}

// NewRunner constructs a Runner.
func NewRunner(src Source, cfg Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{Source: src, Cfg: cfg, Log: logger}
}

// Run performs the run.
//
// A failed discovery is logged and treated like an empty one: nothing is
// written and the returned error is nil. A failed fetch skips that sponsor.
// Filesystem errors abort the run and are returned.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	var res Result

	sponsors := r.sponsors(ctx)
	if len(sponsors) == 0 {
		r.Log.Info(NoSponsorsMessage)
		return res, nil
	}
	res.Sponsors = sponsors

	dir := filepath.Join(r.Cfg.Root, RunDirName(r.Cfg.StartedAt))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return res, fmt.Errorf("create reports directory: %w", err)
	}
	res.Dir = dir
	r.Log.Info("created reports directory", zap.String("dir", dir))

	emitter := NewEmitter(dir, r.Log)
	stems := make(map[string]string, len(sponsors))

	for _, sponsor := range sponsors {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		r.Log.Info("generating reports", zap.String("sponsor", sponsor))

		stem := SponsorFileStem(sponsor)
		if prev, ok := stems[stem]; ok {
			r.Log.Warn("sponsors share a file name; later lists overwrite earlier ones",
				zap.String("stem", stem),
				zap.String("previous", prev),
				zap.String("sponsor", sponsor),
			)
		}
		stems[stem] = sponsor

		lists, err := r.Source.PriorityLists(ctx, sponsor)
		if err != nil {
			r.Log.Error("fetch sponsor lists failed; skipping sponsor",
				zap.String("sponsor", sponsor), zap.Error(err))
			res.Skipped = append(res.Skipped, sponsor)
			continue
		}
		lists.Sponsor = sponsor

		files, err := emitter.Emit(lists)
		res.Files = append(res.Files, files...)
		if err != nil {
			return res, err
		}
	}

	r.Log.Info("all reports have been generated",
		zap.String("dir", dir),
		zap.Int("files", len(res.Files)),
		zap.Int("skipped", len(res.Skipped)),
	)
	return res, nil
}

// sponsors returns the sponsors to report on. Discovery errors are logged
// and yield none.
func (r *Runner) sponsors(ctx context.Context) []string {
	if r.Cfg.Sponsor != "" {
		r.Log.Info("single sponsor mode", zap.String("sponsor", r.Cfg.Sponsor))
		return []string{r.Cfg.Sponsor}
	}

	sponsors, err := r.Source.DiscoverSponsors(ctx)
	if err != nil {
		r.Log.Error("error getting sponsor events", zap.Error(err))
		return nil
	}
	return sponsors
}
