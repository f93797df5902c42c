package engine

import (
	"github.com/dagewa/wedged-lamellae/internal/sweep"
)

// AggregateSweep reduces the bin tables of a sweep to one weighted
// average per member and sorts the members by parameter.
func AggregateSweep(title string, datasets []sweep.Dataset, opts Options) (*sweep.Sweep, error) {
	log := opts.logger().With("title", title)

	s, err := sweep.Aggregate(datasets)
	if err != nil {
		return nil, stageErr(title, "aggregate", err)
	}
	for _, p := range s.Points {
		log.Debug("aggregated sweep point",
			"name", p.Name,
			"parameter", p.Parameter,
			"average", p.WeightedAverage,
			"n_obs", p.TotalCount)
	}
	return s, nil
}
