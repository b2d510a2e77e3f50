package lockfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/plank/internal/core/domain"
	"go.trai.ch/zerr"
)

// minLockfileVersion is the oldest format carrying the packages object
// keyed by hierarchy path. Version 1 lockfiles only have the legacy
// nested dependencies shape and are not supported.
const minLockfileVersion = 2

// orderedEntry pairs a packages key with its decoded entry, preserving
// the lockfile's own listing order.
type orderedEntry struct {
	path  domain.HierarchyPath
	entry entryDTO
}

// Parse decodes lockfile text into the immutable package index:
// filtered records, dependency edges and workspace declarations, plus
// the content digest used for plan memoization.
func Parse(data []byte, includeDev bool) (*domain.Index, error) {
	var doc lockfileDTO
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, zerr.With(malformed("invalid json"), "cause", err.Error())
	}
	if doc.LockfileVersion < minLockfileVersion {
		return nil, zerr.With(malformed("unsupported lockfile version"), "lockfileVersion", doc.LockfileVersion)
	}
	if len(doc.Packages) == 0 {
		return nil, malformed("missing packages object")
	}

	entries, err := decodeOrdered(doc.Packages)
	if err != nil {
		return nil, err
	}

	var (
		records    []domain.PackageRecord
		edges      []domain.DependencyEdge
		workspaces []domain.Workspace
		wsPaths    []domain.HierarchyPath
	)

	for _, oe := range entries {
		path, e := oe.path, oe.entry

		if path.IsRoot() {
			edges = append(edges, edgesFor(path, &e, includeDev)...)
			for _, ws := range e.Workspaces {
				wsPaths = append(wsPaths, domain.HierarchyPath(ws))
			}
			continue
		}
		if e.isBundled() {
			continue
		}
		if e.Dev && !includeDev {
			continue
		}

		rec, err := buildRecord(path, &e)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
		edges = append(edges, edgesFor(path, &e, includeDev)...)
	}

	for _, p := range wsPaths {
		name := p.String()
		for _, rec := range records {
			if rec.Path == p {
				name = rec.Name.String()
				break
			}
		}
		workspaces = append(workspaces, domain.Workspace{
			Path: p,
			Name: domain.NewInternedString(name),
		})
	}

	edges = dropBundledEdges(edges, entries, workspaces)

	digest := fmt.Sprintf("%016x", xxhash.Sum64(data))
	return domain.NewIndex(records, edges, workspaces, digest)
}

// malformed builds a parse failure that callers can match against
// ErrMalformedLockfile.
func malformed(reason string) error {
	return zerr.With(zerr.Wrap(domain.ErrMalformedLockfile, "parsing lockfile"), "reason", reason)
}

// dropBundledEdges removes edges whose name would bind to a child pruned
// as bundled. Bundled children ship inside their parent's archive, so the
// declared requirement is already satisfied out of band and must not
// force a record the index deliberately drops. Resolution here runs over
// the pre-filter entry set; workspace names win in the flat global
// namespace and are never bundled.
func dropBundledEdges(edges []domain.DependencyEdge, entries []orderedEntry, workspaces []domain.Workspace) []domain.DependencyEdge {
	bundled := make(map[domain.HierarchyPath]bool, len(entries))
	for _, oe := range entries {
		if !oe.path.IsRoot() {
			bundled[oe.path] = oe.entry.isBundled()
		}
	}
	wsNames := make(map[string]bool, len(workspaces))
	for _, ws := range workspaces {
		wsNames[ws.Name.String()] = true
	}

	return slices.DeleteFunc(edges, func(e domain.DependencyEdge) bool {
		if wsNames[e.Name.String()] {
			return false
		}
		for anc := range e.From.Ancestors() {
			if isBundled, ok := bundled[anc.ModuleChild(e.Name.String())]; ok {
				return isBundled
			}
		}
		return false
	})
}

// decodeOrdered walks the packages object token by token. The standard
// map decoding would lose key order, and the listing order is the
// documented tie-break for merges and bin aggregation.
func decodeOrdered(raw json.RawMessage) ([]orderedEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, zerr.With(malformed("truncated packages object"), "cause", err.Error())
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, malformed("packages is not an object")
	}

	var entries []orderedEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, zerr.With(malformed("truncated packages object"), "cause", err.Error())
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, malformed("non-string package key")
		}

		var e entryDTO
		if err := dec.Decode(&e); err != nil {
			return nil, zerr.With(zerr.With(malformed("undecodable package entry"), "path", key), "cause", err.Error())
		}
		entries = append(entries, orderedEntry{path: domain.HierarchyPath(key), entry: e})
	}

	return entries, nil
}

// buildRecord converts one non-root entry. Local directories (workspace
// members, file: targets) carry their own path as the source; nested
// entries must carry a resolvable locator unless linked.
func buildRecord(path domain.HierarchyPath, e *entryDTO) (domain.PackageRecord, error) {
	name := e.Name
	if name == "" {
		name = path.PackageName()
	}
	if name == "" {
		// A local directory outside any module dir; its last segment
		// doubles as the name when none is declared.
		segs := path.Segments()
		name = segs[len(segs)-1]
	}

	source := domain.SourceLocator{Resolved: e.Resolved, Integrity: e.Integrity}
	if source.Resolved == "" {
		if !e.Link && isModulePath(path) {
			return domain.PackageRecord{}, zerr.With(malformed("entry has no source locator"), "path", path.String())
		}
		if !e.Link {
			source.Resolved = path.String()
		}
	}

	return domain.PackageRecord{
		Path:    path,
		Name:    domain.NewInternedString(name),
		Version: domain.NewInternedString(e.Version),
		Source:  source,
		IsLink:  e.Link,
		DevOnly: e.Dev,
		Bundled: e.isBundled(),
		Bin:     parseBin(e.Bin, name),
	}, nil
}

// isModulePath reports whether the path lives under a module directory,
// as opposed to a local workspace or file: directory.
func isModulePath(path domain.HierarchyPath) bool {
	return slices.Contains(path.Segments(), domain.ModuleDir)
}

// edgesFor emits the record's dependency edges. Regular names are
// required; optional and peer names tolerate an unresolvable target.
// Dev names count only for the root and local directories, and only
// when dev entries were requested. Names are emitted in sorted order so
// that traversal, and therefore failure occurrence, is deterministic.
func edgesFor(from domain.HierarchyPath, e *entryDTO, includeDev bool) []domain.DependencyEdge {
	var edges []domain.DependencyEdge
	add := func(deps map[string]string, optional bool) {
		for _, name := range sortedNames(deps) {
			edges = append(edges, domain.DependencyEdge{
				From:     from,
				Name:     domain.NewInternedString(name),
				Optional: optional,
			})
		}
	}

	add(e.Dependencies, false)
	add(e.OptionalDependencies, true)
	add(e.PeerDependencies, true)
	if includeDev && !isModulePath(from) {
		add(e.DevDependencies, false)
	}
	return edges
}

func sortedNames(deps map[string]string) []string {
	if len(deps) == 0 {
		return nil
	}
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// parseBin accepts both bin shapes: a name -> relative path object, or
// a bare string binding the package's own name.
func parseBin(raw json.RawMessage, pkgName string) map[string]string {
	if len(raw) == 0 {
		return nil
	}

	var m map[string]string
	if err := json.Unmarshal(raw, &m); err == nil {
		return m
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		// Scoped packages bind the unscoped name.
		name := pkgName
		if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
			name = name[idx+1:]
		}
		return map[string]string{name: s}
	}
	return nil
}
