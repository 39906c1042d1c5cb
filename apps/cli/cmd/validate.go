package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/httprun/packages/core/parser"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|directory>",
	Short: "Check .http files for problems",
	Long: `Parse .http files and report anything the scanner had to drop:
request blocks without a request line and unterminated handler blocks.

Examples:
  httprun validate api.http
  httprun validate ./requests/`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no .http or .rest files found")
	}

	hasErrors := false
	for _, file := range files {
		f, err := parser.ParseFile(file)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
			continue
		}

		if len(f.Requests) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Warning: %s contains no requests\n", file)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s (%d request(s))\n", file, len(f.Requests))
	}

	if hasErrors {
		return fmt.Errorf("validation failed")
	}

	return nil
}
