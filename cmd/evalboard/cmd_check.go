package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check connectivity to the task store and blob storage",
		Long: `Check connectivity to the task store and blob storage.

Exits with code 1 when a check fails, so the command can gate deploy and
CI scripts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			failed := false

			st, err := openStore(cfg)
			if err != nil {
				fmt.Fprintf(out, "store: FAIL (%v)\n", err)
				failed = true
			} else {
				defer st.Close() //nolint:errcheck
				if taskList, err := st.FetchTasks(ctx); err != nil {
					fmt.Fprintf(out, "store: FAIL (%v)\n", err)
					failed = true
				} else {
					fmt.Fprintf(out, "store: OK (%d tasks)\n", len(taskList))
				}
			}

			blobs, err := newBlobClient(cfg)
			if err != nil {
				fmt.Fprintf(out, "blob storage: FAIL (%v)\n", err)
				failed = true
			} else if names, err := blobs.ListFiles(ctx); err != nil {
				fmt.Fprintf(out, "blob storage: FAIL (%v)\n", err)
				failed = true
			} else {
				fmt.Fprintf(out, "blob storage: OK (%d files)\n", len(names))
			}

			if failed {
				return &CheckFailureError{Message: "one or more connectivity checks failed"}
			}
			return nil
		},
	}
	return cmd
}
