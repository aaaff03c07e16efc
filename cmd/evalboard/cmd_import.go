package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskeval/evalboard/internal/ingest"
)

func newImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <metadata.json>",
		Short: "Import tasks from a metadata export",
		Long: `Import tasks from a metadata export.

The file is validated against the metadata schema before anything is
written. Tasks that already exist are left untouched, so re-running an
import is safe.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskList, err := ingest.Load(args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			n, err := ingest.Import(cmd.Context(), st, taskList)
			if err != nil {
				return fmt.Errorf("imported %d of %d tasks: %w", n, len(taskList), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks.\n", n)
			return nil
		},
	}
	return cmd
}
