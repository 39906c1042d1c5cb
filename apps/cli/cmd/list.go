package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/httprun/packages/core/env"
	"github.com/abdul-hamid-achik/httprun/packages/core/parser"
)

var listCmd = &cobra.Command{
	Use:   "list <file|directory>",
	Short: "List requests in .http files",
	Long: `List the requests defined in .http or .rest files without
executing them, along with the environments available next to each file.

Examples:
  httprun list api.http
  httprun list ./requests/`,
	Args: cobra.MinimumNArgs(1),
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no .http or .rest files found")
	}

	for _, file := range files {
		f, err := parser.ParseFile(file)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error parsing %s: %v\n", file, err)
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\n%s:\n", file)
		for i, req := range f.Requests {
			name := req.Name
			if name == "" {
				name = fmt.Sprintf("%s %s", req.Method, req.URL)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %d. %s\n", i+1, name)
		}
		if len(f.Variables) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "  variables:\n")
			for _, v := range f.Variables {
				fmt.Fprintf(cmd.OutOrStdout(), "    @%s = %s\n", v.Name, v.Value)
			}
		}

		envFile := filepath.Join(filepath.Dir(file), env.DefaultEnvFile)
		if names, err := env.ListEnvironments(envFile); err == nil && len(names) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "  environments: %v\n", names)
		}
	}

	return nil
}
