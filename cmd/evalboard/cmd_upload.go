package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// uploadConcurrency caps parallel blob uploads.
const uploadConcurrency = 4

func newUploadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload task files to blob storage",
		Long: `Upload task files to blob storage.

Each file is stored under its base name, which must match the ID of the
task it belongs to (e.g. task-42.pdf for task-42). Existing blobs with
the same name are overwritten.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			blobs, err := newBlobClient(cfg)
			if err != nil {
				return err
			}

			group, ctx := errgroup.WithContext(cmd.Context())
			group.SetLimit(uploadConcurrency)
			for _, path := range args {
				group.Go(func() error {
					f, err := os.Open(path)
					if err != nil {
						return fmt.Errorf("opening %s: %w", path, err)
					}
					defer f.Close() //nolint:errcheck

					key := filepath.Base(path)
					if err := blobs.Upload(ctx, key, f); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s\n", key)
					return nil
				})
			}
			if err := group.Wait(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %d files.\n", len(args))
			return nil
		},
	}
	return cmd
}
