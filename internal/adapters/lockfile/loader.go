// Package lockfile implements the lockfile model: parsing package-lock
// data into typed package records and dependency edges.
package lockfile

import (
	"os"
	"path/filepath"

	"go.trai.ch/plank/internal/core/domain"
	"go.trai.ch/plank/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultFilename is the lockfile read when none is configured.
const DefaultFilename = "package-lock.json"

var _ ports.LockfileLoader = (*Loader)(nil)

// Loader implements ports.LockfileLoader over a lockfile on disk. This
// is the only file the planning core ever reads.
type Loader struct {
	Filename string
	log      ports.Logger
}

// NewLoader creates a Loader for the default lockfile name.
func NewLoader(log ports.Logger) *Loader {
	return &Loader{
		Filename: DefaultFilename,
		log:      log,
	}
}

// Load reads and parses the lockfile in the given working directory.
func (l *Loader) Load(cwd string, includeDev bool) (*domain.Index, error) {
	path := filepath.Join(cwd, l.Filename)

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read lockfile")
	}

	idx, err := Parse(data, includeDev)
	if err != nil {
		return nil, zerr.With(err, "lockfile", path)
	}

	l.log.Info("lockfile parsed",
		"path", path,
		"packages", idx.Len(),
		"workspaces", len(idx.Workspaces()),
		"digest", idx.Digest(),
	)
	return idx, nil
}
