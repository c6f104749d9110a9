package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// FromTOML parses a configuration from TOML bytes. Unknown keys are an
// error.
func FromTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse toml: %w", err)
	}

	if undecoded := unknownKeys(meta); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse toml: unknown keys: %s", strings.Join(undecoded, ", "))
	}

	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}

	return cfg, nil
}

// unknownKeys lists undecoded keys outside provider option tables, whose
// contents are free-form.
func unknownKeys(meta toml.MetaData) []string {
	var keys []string
	for _, key := range meta.Undecoded() {
		if len(key) >= 3 && key[0] == "providers" && key[2] == "options" {
			continue
		}
		keys = append(keys, key.String())
	}
	slices.Sort(keys)
	return keys
}
