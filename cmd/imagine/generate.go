package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"imagination/internal/domain"
	"imagination/internal/providers/txt2img"
	"imagination/internal/render"
	"imagination/internal/storage"
	"imagination/internal/studio"
)

var pathSeparators = strings.NewReplacer("/", "-", `\`, "-")

func newGenerateCmd(root *rootOptions) *cobra.Command {
	var (
		quality string
		outDir  string
	)
	cmd := &cobra.Command{
		Use:   "generate PROMPT...",
		Short: "Generate one image and save it as PNG",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := domain.ParseQuality(quality)
			if err != nil {
				return err
			}
			if quality == "" {
				q = root.cfg.DefaultQuality
			}

			gen, err := txt2img.FromConfig(cmd.Context(), root.cfg)
			if err != nil {
				return err
			}
			stderr := cmd.ErrOrStderr()
			ctrl, err := studio.NewController(studio.Options{
				Generator:      gen,
				Logger:         &root.logger,
				DefaultQuality: q,
				Timeout:        root.cfg.GenerationTimeout,
				Observer: func(v domain.ViewState) {
					if v.Loading() {
						fmt.Fprintf(stderr, "Generating with %s (%s quality)...\n", gen.Name(), v.Quality)
					}
				},
			})
			if err != nil {
				return err
			}

			if err := ctrl.Submit(cmd.Context(), strings.Join(args, " "), q); err != nil {
				return err
			}
			state, err := ctrl.Wait(cmd.Context())
			if err != nil {
				return err
			}
			if state.Status != domain.StatusResult {
				return errors.New(domain.GenerationFailedMessage)
			}

			data, err := render.DecodePNG(state.Result.ImageBase64)
			if err != nil {
				return err
			}
			store, err := storage.NewFileStore(outDir)
			if err != nil {
				return err
			}
			key, err := store.Write(cmd.Context(), pathSeparators.Replace(state.Result.Filename()), data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Image saved to: %s (%dx%d)\n", store.Path(key), state.Result.Width, state.Result.Height)
			return nil
		},
	}

	cmd.Flags().StringVarP(&quality, "quality", "q", "", "low, medium or high (default $DEFAULT_QUALITY)")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory to write the PNG into")
	return cmd
}
