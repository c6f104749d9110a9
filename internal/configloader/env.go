package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/refit/pkg/config"
)

// envVarPrefix is the prefix for all refit environment variables.
const envVarPrefix = "REFIT_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
	help  string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"FLAVOR":                   {field: "flavor", typ: envTypeString, help: "Markdown flavor: commonmark or gfm"},
	"FORMAT":                   {field: "output", typ: envTypeString, help: "Output format: text, table, json or diff"},
	"BACKUPS_MODE":             {field: "backups.mode", typ: envTypeString, help: "Backup mode: sidecar or none"},
	"DRY_RUN":                  {field: "dry_run", typ: envTypeBool, help: "Dry-run mode: true or false"},
	"BACKUPS_ENABLED":          {field: "backups.enabled", typ: envTypeBool, help: "Enable backups: true or false"},
	"NO_BACKUPS":               {field: "no_backups", typ: envTypeBool, help: "Disable backups: true or false"},
	"EXPAND_TABS":              {field: "format.expand_tabs", typ: envTypeBool, help: "Expand tabs in inserted code"},
	"TRIM_TRAILING_WHITESPACE": {field: "format.trim_trailing_whitespace", typ: envTypeBool, help: "Trim trailing blanks in inserted code"},
	"JOBS":                     {field: "jobs", typ: envTypeInt, help: "Number of parallel workers (0 = auto)"},
	"TAB_WIDTH":                {field: "format.tab_width", typ: envTypeInt, help: "Tab stop used when expanding tabs"},
	"DISABLE":                  {field: "providers.disable", typ: envTypeSlice, help: "Comma-separated provider IDs to disable"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with REFIT_ (e.g., REFIT_FLAVOR).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "flavor":
		cfg.Flavor = config.Flavor(value)
	case "output":
		cfg.Output = config.OutputFormat(value)
	case "backups.mode":
		cfg.Backups.Mode = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "dry_run":
		cfg.DryRun = value
	case "backups.enabled":
		cfg.Backups.Enabled = value
	case "no_backups":
		cfg.NoBackups = value
	case "format.expand_tabs":
		cfg.Format.ExpandTabs = value
	case "format.trim_trailing_whitespace":
		cfg.Format.TrimTrailingWhitespace = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "jobs":
		cfg.Jobs = value
	case "format.tab_width":
		cfg.Format.TabWidth = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "providers.disable":
		if cfg.Providers == nil {
			cfg.Providers = make(map[string]config.ProviderConfig)
		}
		disabled := false
		for _, id := range value {
			pc := cfg.Providers[id]
			pc.Enabled = &disabled
			cfg.Providers[id] = pc
		}
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		out[envVarPrefix+suffix] = mapping.help
	}
	return out
}
