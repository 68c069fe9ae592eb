package search

import (
	"context"

	"github.com/partseek/partseek/internal/errors"
	"github.com/partseek/partseek/internal/scheme"
)

// userStrategy scores exactly the schemes supplied in the configuration,
// under their configured names.
type userStrategy struct{}

func (userStrategy) Name() string { return StrategyUser }

func (userStrategy) Search(ctx context.Context, r *Runner) error {
	if len(r.UserSchemes) == 0 {
		return errors.New(errors.ErrCodeNoUserSchemes,
			"user strategy selected but no schemes are defined in the configuration", nil)
	}

	r.Progress.Begin(len(r.UserSchemes), r.Set.Partitions().Len())
	defer r.Progress.End()

	schemes := make([]*scheme.Scheme, len(r.UserSchemes))
	for i, us := range r.UserSchemes {
		sch, err := r.Set.CreateScheme(us.Name, us.Groups)
		if err != nil {
			return err
		}
		schemes[i] = sch
	}
	return flushBatch(ctx, r, schemes)
}
