package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tsexp/internal/distance"
	"tsexp/internal/params"
)

// ParamsOptions holds flags for the params command.
type ParamsOptions struct {
	*RootOptions
	Classifier string
	Measure    string
	YAML       bool
}

// NewParamsCommand creates the params command.
func NewParamsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParamsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "params [-- TOKENS...]",
		Short: "Parse option tokens and show the resulting parameter set",
		Long: `Parse option tokens into a parameter set and print it in canonical token form.

With --classifier or --measure, the tokens are applied to a fresh component and the
component's resulting parameters are printed instead, which validates names and types.`,
		Example: `  tsexp params -- --alpha 2 --jitter 0.1
  tsexp params --yaml -- --outer { -k 3 } -v -1
  tsexp params --measure dtw -- -w 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := params.Parse(args)
			if err != nil {
				return err
			}

			var target params.Handler
			switch {
			case opts.Classifier != "":
				clf, err := newClassifier(opts.Classifier)
				if err != nil {
					return err
				}
				h, ok := clf.(params.Handler)
				if !ok {
					return fmt.Errorf("classifier %q has no parameters", opts.Classifier)
				}
				target = h
			case opts.Measure != "":
				m, err := distance.ByName(opts.Measure)
				if err != nil {
					return err
				}
				target = m
			}

			if target != nil {
				if err := params.SetParams(target, set); err != nil {
					return err
				}
				set = target.Params()
			}
			return printSet(cmd, set, opts.YAML)
		},
	}

	cmd.Flags().StringVar(&opts.Classifier, "classifier", "", fmt.Sprintf("apply tokens to a classifier %v", classifierNames()))
	cmd.Flags().StringVar(&opts.Measure, "measure", "", fmt.Sprintf("apply tokens to a distance measure %v", distance.Names()))
	cmd.Flags().BoolVar(&opts.YAML, "yaml", false, "print YAML instead of tokens")
	cmd.MarkFlagsMutuallyExclusive("classifier", "measure")

	return cmd
}

func printSet(cmd *cobra.Command, set *params.Set, asYAML bool) error {
	out := cmd.OutOrStdout()
	if !asYAML {
		_, err := fmt.Fprintln(out, set.String())
		return err
	}
	data, err := yaml.Marshal(set)
	if err != nil {
		return fmt.Errorf("encode params: %w", err)
	}
	_, err = out.Write(data)
	return err
}
