package config

// Plankfile represents the structure of the plank.yaml configuration
// file.
type Plankfile struct {
	Version    string                 `yaml:"version"`
	Targets    []string               `yaml:"targets"`
	IncludeDev bool                   `yaml:"includeDev"`
	Method     string                 `yaml:"method"`
	OutDir     string                 `yaml:"outDir"`
	Overrides  map[string]OverrideDTO `yaml:"overrides"`
}

// OverrideDTO is one declarative substitution rule, keyed by the
// physical hierarchy path it applies to. Unset fields keep the
// pre-override value, so a rule wraps rather than replaces.
type OverrideDTO struct {
	Resolved  string `yaml:"resolved"`
	Integrity string `yaml:"integrity"`
	Method    string `yaml:"method"`
}
