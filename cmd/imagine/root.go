package main

import (
	"github.com/spf13/cobra"

	"imagination/internal/infra"
	"imagination/internal/storage"
)

type rootOptions struct {
	dataDir string
	verbose bool

	cfg    *infra.Config
	logger infra.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "imagine",
		Short:         "Generate images from text prompts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := infra.LoadConfig()
			if err != nil {
				return err
			}
			if opts.dataDir != "" {
				cfg.DataDir = opts.dataDir
			}
			opts.cfg = cfg
			opts.logger = infra.NopLogger()
			if opts.verbose {
				opts.logger = infra.NewLoggerTo(cmd.ErrOrStderr(), "development")
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "directory holding preferences (default $DATA_DIR)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log provider activity to stderr")

	cmd.AddCommand(
		newGenerateCmd(opts),
		newSuggestionsCmd(),
		newThemeCmd(opts),
	)
	return cmd
}

func (o *rootOptions) store() (*storage.FileStore, error) {
	return storage.NewFileStore(o.cfg.DataDir)
}
