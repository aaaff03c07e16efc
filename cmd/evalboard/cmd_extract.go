package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExtractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <file>...",
		Short: "Extract text from local files",
		Long: `Extract text from local files.

Runs the same extraction pipeline the run command applies to task files,
printing the result for each path. Useful for checking what the model
will actually see for a given document.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			extractor := newExtractor()
			out := cmd.OutOrStdout()
			for _, path := range args {
				fmt.Fprintf(out, "Extracted Text from %s:\n%s\n", path, extractor.Extract(path))
			}
			return nil
		},
	}
	return cmd
}
