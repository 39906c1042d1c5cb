package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/httprun/packages/core/config"
	"github.com/abdul-hamid-achik/httprun/packages/core/runner"
	"github.com/abdul-hamid-achik/httprun/packages/output"
)

var runCmd = &cobra.Command{
	Use:   "run <file|directory>",
	Short: "Execute requests from .http files",
	Long: `Execute the requests defined in .http or .rest files.

Examples:
  httprun run api.http
  httprun run api.http --env staging
  httprun run api.http --name "create user"
  httprun run api.http --index 2
  httprun run ./requests/ --watch`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	envFlag        string
	envFileFlag    string
	dotenvFlag     string
	configFlag     string
	nameFlag       string
	indexFlag      int
	verboseFlag    bool
	quietFlag      bool
	bailFlag       bool
	timeoutFlag    string
	noColorFlag    bool
	dryRunFlag     bool
	outputFlag     string
	outputFileFlag string
	watchFlag      bool
	proxyFlag      string
	insecureFlag   bool
)

func init() {
	// Core flags
	runCmd.Flags().StringVarP(&envFlag, "env", "e", getEnvString("HTTPRUN_ENV", ""), "Environment to use (env: HTTPRUN_ENV)")
	runCmd.Flags().StringVar(&envFileFlag, "env-file", getEnvString("HTTPRUN_ENV_FILE", ""), "Path to environment JSON file (default: http-client.env.json next to the request file) (env: HTTPRUN_ENV_FILE)")
	runCmd.Flags().StringVar(&dotenvFlag, "dotenv", getEnvString("HTTPRUN_DOTENV", ""), "Path to a .env file merged into the environment (env: HTTPRUN_DOTENV)")
	runCmd.Flags().StringVar(&configFlag, "config", getEnvString("HTTPRUN_CONFIG", ""), "Path to config file (env: HTTPRUN_CONFIG)")
	runCmd.Flags().StringVarP(&nameFlag, "name", "n", "", "Run only requests whose name contains this text")
	runCmd.Flags().IntVarP(&indexFlag, "index", "i", 0, "Run only the request at this 1-based position")

	// Output flags
	runCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose output")
	runCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", getEnvBool("HTTPRUN_QUIET", false), "Suppress all output except errors (env: HTTPRUN_QUIET)")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("HTTPRUN_NO_COLOR", false), "Disable colored output (env: HTTPRUN_NO_COLOR)")
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("HTTPRUN_OUTPUT", ""), "Output format: console, json (env: HTTPRUN_OUTPUT)")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("HTTPRUN_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: HTTPRUN_OUTPUT_FILE)")

	// Execution flags
	runCmd.Flags().BoolVar(&bailFlag, "bail", getEnvBool("HTTPRUN_BAIL", false), "Stop on first failure (env: HTTPRUN_BAIL)")
	runCmd.Flags().StringVar(&timeoutFlag, "timeout", getEnvString("HTTPRUN_TIMEOUT", ""), "Request timeout (e.g., 30s, 1m) (env: HTTPRUN_TIMEOUT)")
	runCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Parse and substitute without sending requests")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch files for changes and re-run")

	// Network flags
	runCmd.Flags().StringVar(&proxyFlag, "proxy", getEnvString("HTTPRUN_PROXY", ""), "Proxy URL for requests (env: HTTPRUN_PROXY)")
	runCmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", getEnvBool("HTTPRUN_INSECURE", false), "Disable SSL certificate validation (env: HTTPRUN_INSECURE)")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

// outputSettings resolves the output format, verbosity, and color
// setting: config-file values apply first, CLI flags override.
func outputSettings(fileConfig *config.Config) (format string, verbose, noColor bool) {
	format = fileConfig.Output
	if outputFlag != "" {
		format = outputFlag
	}
	verbose = fileConfig.GetVerbose() || verboseFlag
	noColor = fileConfig.GetNoColor() || noColorFlag || quietFlag
	return format, verbose, noColor
}

func newFormatter(format string, verbose, noColor bool, w *os.File) output.Formatter {
	switch strings.ToLower(format) {
	case "json":
		opts := []output.JSONOption{output.JSONWithVerbose(verbose)}
		if w != nil {
			opts = append(opts, output.JSONWithWriter(w))
		}
		return output.NewJSONFormatter(opts...)
	default: // "console"
		opts := []output.ConsoleOption{
			output.WithVerbose(verbose),
			output.WithNoColor(noColor),
		}
		if w != nil {
			opts = append(opts, output.WithWriter(w))
		}
		return output.NewConsoleFormatter(opts...)
	}
}

func runCommand(cmd *cobra.Command, args []string) error {
	// Config file settings apply first; CLI flags override them
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var outWriter *os.File
	if outputFileFlag != "" {
		outWriter, err = os.Create(outputFileFlag)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer outWriter.Close()
	}

	outFormat, verbose, noColor := outputSettings(fileConfig)

	formatter := newFormatter(outFormat, verbose, noColor, outWriter)
	if !quietFlag && strings.ToLower(outFormat) != "json" {
		formatter.FormatHeader(version)
	}

	files, err := collectFiles(args)
	if err != nil {
		formatter.FormatError(err)
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .http or .rest files found")
	}

	environment := fileConfig.DefaultEnvironment
	if envFlag != "" {
		environment = envFlag
	}

	envFile := fileConfig.EnvFile
	if envFileFlag != "" {
		envFile = envFileFlag
	}

	proxy := fileConfig.Proxy
	if proxyFlag != "" {
		proxy = proxyFlag
	}

	validateSSL := fileConfig.GetValidateSSL()
	if insecureFlag {
		validateSSL = false
	}

	bail := fileConfig.GetBail() || bailFlag

	timeout := time.Duration(fileConfig.Timeout) * time.Millisecond
	if timeoutFlag != "" {
		timeout, err = time.ParseDuration(timeoutFlag)
		if err != nil {
			return fmt.Errorf("invalid timeout value %q: %w (use format like 30s, 1m, 500ms)", timeoutFlag, err)
		}
	}

	cfg := &runner.Config{
		Environment:     environment,
		EnvFile:         envFile,
		DotEnvFile:      dotenvFlag,
		Timeout:         timeout,
		FollowRedirects: fileConfig.GetFollowRedirects(),
		MaxRedirects:    fileConfig.MaxRedirects,
		ValidateSSL:     validateSSL,
		Proxy:           proxy,
		DefaultHeaders:  fileConfig.Headers,
		Bail:            bail,
		DryRun:          dryRunFlag,
		NameFilter:      nameFlag,
	}
	// The zero value is a real (invalid) index, so only pass it through
	// when the flag was actually set.
	if cmd.Flags().Changed("index") {
		cfg.Index = &indexFlag
	}

	r := runner.NewRunner(cfg)

	runAll := func(f output.Formatter) (failed, errors int) {
		for _, file := range files {
			result, err := r.RunFile(context.Background(), file)
			if err != nil {
				f.FormatError(err)
				errors++
				if bail {
					break
				}
				continue
			}

			f.FormatResult(result)
			failed += result.TestsFailed
			errors += result.Errors

			if bail && (result.TestsFailed > 0 || result.Errors > 0) {
				break
			}
		}

		if flushable, ok := f.(output.Flushable); ok {
			if err := flushable.Flush(); err != nil {
				f.FormatError(fmt.Errorf("writing output: %w", err))
			}
		}
		return failed, errors
	}

	failed, errors := runAll(formatter)

	if !watchFlag {
		if failed > 0 || errors > 0 {
			os.Exit(ExitTestFailure)
		}
		return nil
	}

	return watchAndRerun(cmd, args, files, runAll, func() output.Formatter {
		return newFormatter(outFormat, verbose, noColor, nil)
	})
}

// watchAndRerun blocks watching the request files' directories and
// re-runs everything, debounced, whenever a request file is written.
func watchAndRerun(cmd *cobra.Command, args, files []string, runAll func(output.Formatter) (int, int), makeFormatter func() output.Formatter) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watchedDirs := make(map[string]bool)
	for _, file := range files {
		dir := filepath.Dir(file)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to watch %s: %v\n", dir, err)
			}
			watchedDirs[dir] = true
		}
	}

	// Watch subdirectories of directory arguments too
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			_ = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() && !watchedDirs[path] {
					_ = watcher.Add(path)
					watchedDirs[path] = true
				}
				return nil
			})
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Write) && isRequestFile(event.Name) {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "\n\nFile changed: %s\nRe-running...\n\n", event.Name)

					// Fresh formatter so accumulating formats start clean
					runAll(makeFormatter())

					fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watcher error: %v\n", err)
		}
	}
}

func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && isRequestFile(path) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else {
			if isRequestFile(arg) {
				files = append(files, arg)
			}
		}
	}

	return files, nil
}

func isRequestFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".http" || ext == ".rest"
}
