package matrix

import (
	"github.com/gobwas/glob"
	"github.com/jonpalmisc/limoncello/internal/core/domain"
	"go.trai.ch/zerr"
)

// compilePattern compiles a shell glob without separators, so "*" also spans
// the "/" of samples kept in subdirectories of the source root.
func compilePattern(pattern string) (glob.Glob, error) {
	if pattern == "" {
		pattern = domain.DefaultFilter
	}
	return glob.Compile(pattern)
}

// ValidatePattern reports whether pattern is a well-formed glob.
func ValidatePattern(pattern string) error {
	if _, err := compilePattern(pattern); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInvalidFilter.Error()), "filter", pattern)
	}
	return nil
}

// Select returns, in catalog order, every entry whose short name matches the
// glob pattern. An empty pattern behaves like "*". A malformed pattern
// matches nothing; use ValidatePattern to reject it up front.
func Select(entries []domain.BuildEntry, pattern string) []domain.BuildEntry {
	g, err := compilePattern(pattern)
	if err != nil {
		return nil
	}

	var out []domain.BuildEntry
	for _, e := range entries {
		if g.Match(e.ShortName()) {
			out = append(out, e)
		}
	}
	return out
}

// Jobs binds each entry to the shared build context.
func Jobs(entries []domain.BuildEntry, bctx domain.BuildContext) []domain.BuildJob {
	jobs := make([]domain.BuildJob, len(entries))
	for i, e := range entries {
		jobs[i] = domain.BuildJob{Entry: e, Context: bctx}
	}
	return jobs
}
