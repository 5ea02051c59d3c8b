package cli

import (
	"fmt"
	"math/rand"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tsexp/internal/dataset"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	OutputDir string
	Name      string
	Seed      int64
	Train     int
	Test      int
	Synthetic dataset.SyntheticConfig
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts, Synthetic: dataset.DefaultSynthetic("")}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic train/test split for trying classifiers",
		Long: `Generate a labelled train/test split where each class is a mean-reverting random
walk around its own trend, and write it as <name>_TRAIN.csv and <name>_TEST.csv.`,
		Example: `  tsexp generate --out data --name toy --classes 3 --length 100`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rng := rand.New(rand.NewSource(opts.Seed))
			opts.Synthetic.Name = opts.Name

			opts.Synthetic.Instances = opts.Train
			train, err := dataset.Generate(opts.Synthetic, rng)
			if err != nil {
				return err
			}
			opts.Synthetic.Instances = opts.Test
			test, err := dataset.Generate(opts.Synthetic, rng)
			if err != nil {
				return err
			}

			trainPath, testPath, err := dataset.SaveSplit(opts.OutputDir, opts.Name, train, test)
			if err != nil {
				return err
			}
			log.Info().
				Str("train", trainPath).
				Str("test", testPath).
				Int("classes", opts.Synthetic.Classes).
				Msg("Synthetic data generated")
			fmt.Fprintln(cmd.OutOrStdout(), trainPath)
			fmt.Fprintln(cmd.OutOrStdout(), testPath)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.OutputDir, "out", "o", "data", "output directory")
	f.StringVar(&opts.Name, "name", "synthetic", "dataset name")
	f.Int64Var(&opts.Seed, "seed", 0, "random seed")
	f.IntVar(&opts.Train, "train", 20, "number of train instances")
	f.IntVar(&opts.Test, "test", 20, "number of test instances")
	f.IntVar(&opts.Synthetic.Classes, "classes", opts.Synthetic.Classes, "number of classes")
	f.IntVar(&opts.Synthetic.Length, "length", opts.Synthetic.Length, "series length")
	f.Float64Var(&opts.Synthetic.Volatility, "volatility", opts.Synthetic.Volatility, "noise scale per step")
	f.Float64Var(&opts.Synthetic.TrendStrength, "trend", opts.Synthetic.TrendStrength, "slope difference between classes")
	f.Float64Var(&opts.Synthetic.MeanReversion, "mean-reversion", opts.Synthetic.MeanReversion, "pull towards the class trend, in [0,1]")

	return cmd
}
