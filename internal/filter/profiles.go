package filter

import (
	"fmt"
	"os"
	"sort"

	"sigs.k8s.io/yaml"
)

// DefaultProfile is the profile used when none is requested.
const DefaultProfile = "layout"

// ProfileConfig describes a reusable key set that can be selected by name
// via --profile.
type ProfileConfig struct {
	// Keys lists the whitelisted keys.
	Keys []string `json:"keys,omitempty"`
	// Extends names a built-in profile whose keys are added to Keys.
	Extends string `json:"extends,omitempty"`
}

// builtinProfiles contains the built-in profile definitions.
var builtinProfiles = map[string]ProfileConfig{
	DefaultProfile: {
		Keys: DefaultKeys,
	},
	// inspect keeps the node attributes captured by a UI tree dump, which
	// is the attribute set compared when diffing two dumps.
	"inspect": {
		Keys: []string{
			ChildrenKey,
			"className", "id", "text", "desc", "bounds",
			"checkable", "checked", "clickable", "enabled",
			"focusable", "focused", "longClickable", "scrollable",
			"selected",
		},
	},
}

// BuiltinProfileNames returns the names of all built-in profiles, sorted.
func BuiltinProfileNames() []string {
	names := make([]string, 0, len(builtinProfiles))
	for name := range builtinProfiles {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// ResolveProfile resolves a profile name to its configuration by checking
// built-in profiles first, then custom profiles. Returns an error if the
// profile name is not found in either source.
func ResolveProfile(name string, custom map[string]ProfileConfig) (ProfileConfig, error) {
	if p, ok := builtinProfiles[name]; ok {
		return p, nil
	}

	if p, ok := custom[name]; ok {
		if p.Extends != "" {
			base, err := ResolveProfile(p.Extends, nil)
			if err != nil {
				return ProfileConfig{}, fmt.Errorf("profile %q extends unknown profile %q", name, p.Extends)
			}

			return ProfileConfig{Keys: append(append([]string{}, base.Keys...), p.Keys...)}, nil
		}

		return p, nil
	}

	return ProfileConfig{}, fmt.Errorf("unknown profile %q", name)
}

// Whitelist returns the whitelist for the profile's keys.
func (p ProfileConfig) Whitelist() Whitelist {
	return NewWhitelist(p.Keys...)
}

// LoadCustomProfiles loads custom profile definitions from a YAML file.
// The file should contain a top-level "profiles" key.
func LoadCustomProfiles(path string) (map[string]ProfileConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided config file
	if err != nil {
		return nil, fmt.Errorf("reading profiles file: %w", err)
	}

	return ParseCustomProfiles(data)
}

// ParseCustomProfiles parses profile definitions from YAML bytes.
func ParseCustomProfiles(data []byte) (map[string]ProfileConfig, error) {
	var raw struct {
		Profiles map[string]ProfileConfig `json:"profiles"`
	}

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing profiles: %w", err)
	}

	if raw.Profiles == nil {
		return make(map[string]ProfileConfig), nil
	}

	return raw.Profiles, nil
}
