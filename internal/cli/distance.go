package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tsexp/internal/cfg"
	"tsexp/internal/common"
	"tsexp/internal/dataset"
	"tsexp/internal/distance"
	"tsexp/internal/params"
)

// DistanceOptions holds flags for the distance command.
type DistanceOptions struct {
	*RootOptions
	Measure string
	Params  string
	Cutoff  float64
	Data    string
}

// NewDistanceCommand creates the distance command.
func NewDistanceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DistanceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "distance [SERIES SERIES]",
		Short: "Compute the distance between two series or all pairs of a dataset",
		Long: `Compute a distance between two comma-separated series, or with --data the full
pairwise matrix of a CSV dataset. Results above the cutoff print as +Inf.`,
		Example: `  tsexp distance --measure euclidean 1,2,3 2,3,4
  tsexp distance --measure dtw --params "-w 2" --cutoff 10 -- 0,0,1,2 0,1,2
  tsexp distance --data GunPoint_TEST.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("measure") {
				s, err := cfg.Load()
				if err != nil {
					log.Warn().Err(err).Str("measure", opts.Measure).Msg("Cannot load configuration, using default measure")
				} else {
					opts.Measure = s.Distance
				}
			}
			m, err := distance.ByName(opts.Measure)
			if err != nil {
				return err
			}
			counter := &abandonCounter{}
			m.SetObserver(counter)
			if opts.Params != "" {
				set, err := params.ParseString(opts.Params)
				if err != nil {
					return fmt.Errorf("invalid --params: %w", err)
				}
				if err := m.SetParams(set); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if opts.Data != "" {
				if len(args) != 0 {
					return fmt.Errorf("--data takes no series arguments")
				}
				d, err := dataset.LoadCSV(opts.Data)
				if err != nil {
					return err
				}
				for i := range d.Instances {
					row := make([]string, d.Len())
					for j := range d.Instances {
						row[j] = formatDistance(m.Between(d.Instances[i], d.Instances[j], opts.Cutoff))
					}
					fmt.Fprintln(out, strings.Join(row, ","))
				}
				log.Debug().
					Str("measure", m.String()).
					Int("computed", counter.calls).
					Int("abandoned", counter.abandoned).
					Msg("Pairwise distances computed")
				return nil
			}

			if len(args) != 2 {
				return fmt.Errorf("expected two series, got %d", len(args))
			}
			a, err := parseSeries(args[0])
			if err != nil {
				return err
			}
			b, err := parseSeries(args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatDistance(m.DistanceWithin(a, b, opts.Cutoff)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Measure, "measure", "m", common.DefaultDistance, fmt.Sprintf("distance measure %v", distance.Names()))
	cmd.Flags().StringVar(&opts.Params, "params", "", `measure parameters as option tokens, e.g. "-w 3"`)
	cmd.Flags().Float64Var(&opts.Cutoff, "cutoff", math.Inf(1), "early-abandon cutoff")
	cmd.Flags().StringVar(&opts.Data, "data", "", "CSV dataset for a pairwise matrix")

	return cmd
}

func parseSeries(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return []float64{}, nil
	}
	fields := strings.Split(s, ",")
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("series %q position %d: %w", s, i, err)
		}
		out[i] = v
	}
	return out, nil
}

func formatDistance(d float64) string {
	return strconv.FormatFloat(d, 'g', 6, 64)
}

type abandonCounter struct {
	calls, abandoned int
}

func (c *abandonCounter) DistanceObserve(abandoned bool) {
	c.calls++
	if abandoned {
		c.abandoned++
	}
}
