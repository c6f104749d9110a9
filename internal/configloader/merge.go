package configloader

import (
	"maps"

	"github.com/yaklabco/refit/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Providers: deep merge per provider, nil fields in override are ignored
//   - Booleans: only true in override is visible, so layers cannot unset them
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	if override.DryRun {
		result.DryRun = true
	}
	if override.NoBackups {
		result.NoBackups = true
	}

	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}
	if override.Backups.Enabled {
		result.Backups.Enabled = true
	}

	if override.Format.TabWidth != 0 {
		result.Format.TabWidth = override.Format.TabWidth
	}
	if override.Format.ExpandTabs {
		result.Format.ExpandTabs = true
	}
	if override.Format.TrimTrailingWhitespace {
		result.Format.TrimTrailingWhitespace = true
	}

	result.Providers = mergeProviders(base.Providers, override.Providers)

	return &result
}

// mergeProviders performs a deep merge of provider configurations.
func mergeProviders(base, override map[string]config.ProviderConfig) map[string]config.ProviderConfig {
	if base == nil && override == nil {
		return nil
	}

	result := make(map[string]config.ProviderConfig, len(base)+len(override))
	for id, pc := range base {
		result[id] = pc.Clone()
	}
	for id, pc := range override {
		existing, ok := result[id]
		if !ok {
			result[id] = pc.Clone()
			continue
		}
		result[id] = mergeProviderConfig(existing, pc)
	}
	return result
}

// mergeProviderConfig merges one provider's settings; options merge key by key.
func mergeProviderConfig(base, override config.ProviderConfig) config.ProviderConfig {
	result := base

	if override.Enabled != nil {
		result.Enabled = override.Enabled
	}
	if override.Priority != nil {
		result.Priority = override.Priority
	}

	if override.Options != nil {
		if result.Options == nil {
			result.Options = make(map[string]any, len(override.Options))
		}
		maps.Copy(result.Options, override.Options)
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for _, cfg := range configs[1:] {
		result = merge(result, cfg)
	}
	return result
}
