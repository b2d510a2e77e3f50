// Package config provides the configuration loader for plank.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/plank/internal/core/domain"
	"go.trai.ch/plank/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the configuration file read when none is given.
const DefaultFilename = "plank.yaml"

// DefaultOutDir is where plan documents land unless configured.
const DefaultOutDir = ".plank"

var _ ports.ConfigLoader = (*FileConfigLoader)(nil)

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct {
	Filename string
}

// NewLoader creates a FileConfigLoader for the default filename.
func NewLoader() *FileConfigLoader {
	return &FileConfigLoader{Filename: DefaultFilename}
}

// Load reads the configuration from the given working directory. A
// missing file yields the defaults: plan every workspace, link
// artifacts, no overrides.
func (l *FileConfigLoader) Load(cwd string) (*domain.ProjectConfig, error) {
	path := filepath.Join(cwd, l.Filename)

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaults(), nil
		}
		return nil, zerr.Wrap(err, "failed to read config file")
	}

	return parse(data)
}

func defaults() *domain.ProjectConfig {
	return &domain.ProjectConfig{
		Method: domain.MethodLink,
		OutDir: DefaultOutDir,
	}
}

func parse(data []byte) (*domain.ProjectConfig, error) {
	var pf Plankfile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, zerr.Wrap(err, "failed to parse config file")
	}

	cfg := defaults()
	cfg.Targets = pf.Targets
	cfg.IncludeDev = pf.IncludeDev
	if pf.OutDir != "" {
		cfg.OutDir = pf.OutDir
	}

	method, err := parseMethod(pf.Method, domain.MethodLink)
	if err != nil {
		return nil, err
	}
	cfg.Method = method

	cfg.Overrides, err = compileOverrides(pf.Overrides, method)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseMethod(s string, fallback domain.MaterializeMethod) (domain.MaterializeMethod, error) {
	switch s {
	case "":
		return fallback, nil
	case string(domain.MethodLink):
		return domain.MethodLink, nil
	case string(domain.MethodCopy):
		return domain.MethodCopy, nil
	default:
		return "", zerr.With(zerr.New("unknown materialize method"), "method", s)
	}
}

// compileOverrides turns declarative rules into substitution functions
// and fingerprints the rule set for plan memoization. Each compiled
// function reads the pre-override artifact at its own path and rewrites
// only the fields the rule sets.
func compileOverrides(rules map[string]OverrideDTO, defaultMethod domain.MaterializeMethod) (domain.OverrideSet, error) {
	if len(rules) == 0 {
		return domain.OverrideSet{}, nil
	}

	set := domain.OverrideSet{
		Map: make(domain.OverrideMap, len(rules)),
	}

	paths := make([]string, 0, len(rules))
	for p := range rules {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	digest := xxhash.New()
	for _, p := range paths {
		rule := rules[p]

		method, err := parseMethod(rule.Method, "")
		if err != nil {
			return domain.OverrideSet{}, zerr.With(err, "override", p)
		}

		path := domain.HierarchyPath(p)
		set.Map[path] = compileRule(path, rule, method, defaultMethod)

		_, _ = digest.WriteString(p)
		_, _ = digest.Write([]byte{0})
		_, _ = digest.WriteString(rule.Resolved)
		_, _ = digest.Write([]byte{0})
		_, _ = digest.WriteString(rule.Integrity)
		_, _ = digest.Write([]byte{0})
		_, _ = digest.WriteString(rule.Method)
		_, _ = digest.Write([]byte{0})
	}
	set.Fingerprint = fmt.Sprintf("%016x", digest.Sum64())

	return set, nil
}

func compileRule(path domain.HierarchyPath, rule OverrideDTO, method, defaultMethod domain.MaterializeMethod) domain.OverrideFunc {
	return func(base domain.OverrideSource) domain.Artifact {
		art, ok := base.Artifact(path)
		if !ok {
			art = domain.Artifact{Path: path, Method: defaultMethod}
		}
		if rule.Resolved != "" {
			art.Source.Resolved = rule.Resolved
			art.Source.Integrity = rule.Integrity
		}
		if method != "" {
			art.Method = method
		}
		return art
	}
}
