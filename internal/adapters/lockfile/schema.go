package lockfile

import "encoding/json"

// lockfileDTO mirrors the outer shape of a package-lock.json document.
// The packages object is kept raw so its key order can be recovered by
// token-level decoding.
type lockfileDTO struct {
	Name            string          `json:"name"`
	LockfileVersion int             `json:"lockfileVersion"`
	Packages        json.RawMessage `json:"packages"`
}

// entryDTO mirrors one entry of the packages object.
type entryDTO struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Resolved  string `json:"resolved"`
	Integrity string `json:"integrity"`
	Link      bool   `json:"link"`
	Dev       bool   `json:"dev"`
	Optional  bool   `json:"optional"`
	InBundle  bool   `json:"inBundle"`
	Bundled   bool   `json:"bundled"` // lockfileVersion 2 spelling

	// Bin is either a map of name -> relative path or a bare string
	// naming a single entrypoint for the package's own name.
	Bin json.RawMessage `json:"bin"`

	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`

	// Workspaces lists member paths; present on the root entry only.
	Workspaces []string `json:"workspaces"`
}

// isBundled covers both lockfile format spellings.
func (e *entryDTO) isBundled() bool {
	return e.InBundle || e.Bundled
}
