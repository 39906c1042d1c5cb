package env

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// DefaultEnvFile is the conventional environment file name, looked up
// next to the .http file being run.
const DefaultEnvFile = "http-client.env.json"

// LoadEnvironment reads the named environment from envFile and, when a
// private override file exists next to it, merges the override on top.
// The result is a flat name→value map for the environment tier.
func LoadEnvironment(envFile, envName string) (map[string]string, error) {
	vars := make(map[string]string)

	// No environment selected: the tier stays empty and the file, which
	// may not exist, is never touched.
	if envName == "" {
		return vars, nil
	}

	all, err := readEnvFile(envFile)
	if err != nil {
		return nil, err
	}

	selected, ok := all[envName]
	if !ok {
		available := make([]string, 0, len(all))
		for name := range all {
			available = append(available, name)
		}
		sort.Strings(available)
		return nil, fmt.Errorf("environment %q not found in %s (available: %s)",
			envName, envFile, strings.Join(available, ", "))
	}
	for k, v := range selected {
		vars[k] = valueToString(v)
	}

	privateFile := PrivateEnvPath(envFile)
	if _, err := os.Stat(privateFile); err == nil {
		all, err := readEnvFile(privateFile)
		if err != nil {
			return nil, err
		}
		if selected, ok := all[envName]; ok {
			for k, v := range selected {
				vars[k] = valueToString(v)
			}
		}
	}

	return vars, nil
}

// ListEnvironments returns the environment names defined in envFile,
// sorted. A missing file yields an empty list.
func ListEnvironments(envFile string) ([]string, error) {
	if _, err := os.Stat(envFile); err != nil {
		return nil, nil
	}

	all, err := readEnvFile(envFile)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func readEnvFile(path string) (map[string]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read environment file: %w", err)
	}

	var all map[string]map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return all, nil
}

// PrivateEnvPath maps http-client.env.json to its override sibling
// http-client.private.env.json.
func PrivateEnvPath(envFile string) string {
	dir := filepath.Dir(envFile)
	base := filepath.Base(envFile)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	var private string
	if strings.HasSuffix(stem, ".env") {
		private = strings.TrimSuffix(stem, ".env") + ".private.env" + ext
	} else {
		private = stem + ".private" + ext
	}
	return filepath.Join(dir, private)
}

func valueToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	}
}
