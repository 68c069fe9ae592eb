package search

import (
	"context"
	"fmt"

	"github.com/partseek/partseek/internal/errors"
)

// Strategy is one of the search algorithms. Search runs the whole
// algorithm to completion against the Runner's registry and evaluator,
// leaving the winner in the best-result tracker.
type Strategy interface {
	Name() string
	Search(ctx context.Context, r *Runner) error
}

// Strategy names recognized in configuration.
const (
	StrategyAll          = "all"
	StrategyUser         = "user"
	StrategyGreedy       = "greedy"
	StrategyHCluster     = "hcluster"
	StrategyRCluster     = "rcluster"
	StrategyKMeans       = "kmeans"
	StrategyKMeansWSS    = "kmeans_wss"
	StrategyKMeansGreedy = "kmeans_greedy"
)

// StrategyNames lists every recognized strategy for help output.
func StrategyNames() []string {
	return []string{
		StrategyAll, StrategyUser, StrategyGreedy, StrategyHCluster,
		StrategyRCluster, StrategyKMeans, StrategyKMeansWSS, StrategyKMeansGreedy,
	}
}

// ForName selects a strategy by configuration name. Unknown names are a
// configuration error raised before any search begins.
func ForName(name string) (Strategy, error) {
	switch name {
	case StrategyAll:
		return &allStrategy{}, nil
	case StrategyUser:
		return &userStrategy{}, nil
	case StrategyGreedy:
		return &greedyStrategy{}, nil
	case StrategyHCluster:
		return &strictClusterStrategy{}, nil
	case StrategyRCluster:
		return &relaxedClusterStrategy{}, nil
	case StrategyKMeans:
		return &kmeansStrategy{name: StrategyKMeans}, nil
	case StrategyKMeansWSS:
		return &kmeansStrategy{name: StrategyKMeansWSS, initialSplitPass: true}, nil
	case StrategyKMeansGreedy:
		return &kmeansStrategy{name: StrategyKMeansGreedy, chainGreedy: true}, nil
	default:
		return nil, errors.New(errors.ErrCodeUnknownStrategy,
			fmt.Sprintf("search strategy '%s' is not implemented (use one of %v)", name, StrategyNames()), nil)
	}
}
