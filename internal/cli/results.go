package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tsexp/internal/common"
	"tsexp/internal/storage"
)

// ResultsOptions holds flags for the results command.
type ResultsOptions struct {
	*RootOptions
	DataPath string
	Phase    string
	KeysOnly bool
}

// NewResultsCommand creates the results command with list, show and delete subcommands.
func NewResultsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResultsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "results",
		Short: "Browse results stored by previous runs",
	}
	cmd.PersistentFlags().StringVar(&opts.DataPath, "data-path", os.Getenv(common.EnvDataPath), "results database directory")
	cmd.PersistentFlags().StringVar(&opts.Phase, "phase", string(storage.PhaseTest), "train or test")

	list := &cobra.Command{
		Use:   "list [PREFIX]",
		Short: "List stored results, optionally filtered by key prefix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			return withStore(opts, func(store *storage.Store) error {
				if opts.KeysOnly {
					keys, err := store.Keys(storage.Phase(opts.Phase), prefix)
					if err != nil {
						return err
					}
					for _, k := range keys {
						fmt.Fprintln(cmd.OutOrStdout(), k)
					}
					return nil
				}
				all, err := store.List(storage.Phase(opts.Phase), prefix)
				if err != nil {
					return err
				}
				for _, r := range all {
					fmt.Fprintln(cmd.OutOrStdout(), r.Summary())
				}
				return nil
			})
		},
	}

	show := &cobra.Command{
		Use:   "show KEY",
		Short: "Show one stored result (key is classifier_dataset_seed)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(store *storage.Store) error {
				r, found, err := store.Get(storage.Phase(opts.Phase), args[0])
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("no %s results for %q", opts.Phase, args[0])
				}
				fmt.Fprint(cmd.OutOrStdout(), r.String())
				return nil
			})
		},
	}

	list.Flags().BoolVar(&opts.KeysOnly, "keys", false, "print keys only")

	del := &cobra.Command{
		Use:   "delete KEY",
		Short: "Delete one stored result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, func(store *storage.Store) error {
				phase := storage.Phase(opts.Phase)
				_, found, err := store.Get(phase, args[0])
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("no %s results for %q", opts.Phase, args[0])
				}
				if err := store.Delete(phase, args[0]); err != nil {
					return err
				}
				log.Info().Str("key", args[0]).Str("phase", opts.Phase).Msg("Deleted results")
				return nil
			})
		},
	}

	cmd.AddCommand(list, show, del)
	return cmd
}

func withStore(opts *ResultsOptions, fn func(*storage.Store) error) error {
	if opts.DataPath == "" {
		return fmt.Errorf("--data-path or %s is required", common.EnvDataPath)
	}
	store, err := storage.New(opts.DataPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}
