package hotcache

// key.go defines the typed identifiers used to name resources: FSKey for
// anything backed by a real file, LogicalKey for purely computed resources,
// and DepKey, the erased sum of the two used inside the dependency graph and
// the metadata tables.
//
// Canonicalization is intentionally plain path/filepath string manipulation:
// no third-party path or VFS abstraction library in the example corpus
// specializes in this narrow concern, and pulling one in just to join two
// path segments would be gratuitous. The actual filesystem *check* (root
// exists, is a directory) lives in store.go and goes through afero.Fs so it
// stays testable.
//
// © 2025 hotcache authors. MIT License.

import (
	"path/filepath"
	"strings"
)

// Key is the capability set every resource identifier must satisfy: it can be
// canonicalized against a store root, it can be converted to the erased
// DepKey used in the dependency graph, and it renders to a stable string for
// logs and error messages.
type Key interface {
	Canonicalize(root string) Key
	ToDepKey() DepKey
	String() string
}

// depKeyKind discriminates the two flavours of DepKey.
type depKeyKind uint8

const (
	depKeyPath depKeyKind = iota + 1
	depKeyLogical
)

// DepKey is the erased, comparable identifier used wherever the core doesn't
// need to know whether a resource lives on disk or is purely logical: the
// dependency graph and the per-resource metadata table. Being a small
// comparable struct, it works directly as a Go map key.
type DepKey struct {
	kind  depKeyKind
	value string
}

// String renders the DepKey for logs; the two kinds are visually
// distinguishable so a log line never confuses a path with a logical id.
func (d DepKey) String() string {
	switch d.kind {
	case depKeyPath:
		return "fs:" + d.value
	case depKeyLogical:
		return "logical:" + d.value
	default:
		return "invalid:" + d.value
	}
}

// canonicalize re-applies FSKey/LogicalKey canonicalization rules to an
// already-erased DepKey. Used by Storage.inject when registering dependency
// edges, since the caller supplies dependency keys as DepKey values.
func (d DepKey) canonicalize(root string) DepKey {
	if d.kind != depKeyPath {
		return d
	}
	return DepKey{kind: depKeyPath, value: canonicalFSPath(root, d.value)}
}

// FSKey identifies a resource backed by a file under the store's root.
type FSKey struct {
	path string
}

// NewFSKey builds an FSKey from a path relative to (or already inside) the
// store's root. A missing leading separator is tolerated: FSKey("zoo.json")
// and FSKey("/zoo.json") canonicalize to the same resource.
func NewFSKey(path string) FSKey {
	return FSKey{path: path}
}

// Canonicalize resolves the key against root, producing the canonical
// absolute path as described in the key model: relative paths are joined to
// root, a bare leading separator is treated as already relative to root
// rather than to the filesystem's real root, and a path already inside root
// is kept as it is (after cleaning). The result is only absolute if
// root itself is; Store.New guarantees that by canonicalizing the configured
// root with filepath.Abs before it ever reaches a Storage.
func (k FSKey) Canonicalize(root string) Key {
	return FSKey{path: canonicalFSPath(root, k.path)}
}

// ToDepKey erases the FSKey into a DepKey. Callers should canonicalize first;
// ToDepKey does not canonicalize on its own so that DepKeys built from
// already-canonical paths (e.g. from a watch event) are cheap.
func (k FSKey) ToDepKey() DepKey {
	return DepKey{kind: depKeyPath, value: k.path}
}

func (k FSKey) String() string { return k.path }

// Path exposes the underlying path for loaders that need to open the file
// directly (the common case: Load reads key.Path() from disk).
func (k FSKey) Path() string { return k.path }

func canonicalFSPath(root, p string) string {
	if p == "" {
		p = "."
	}
	// A path that already lies inside root is already canonical, so
	// canonicalizing an FSKey or DepKey a second time leaves it unchanged.
	if cleaned := filepath.Clean(p); cleaned == root || strings.HasPrefix(cleaned, root+string(filepath.Separator)) {
		return cleaned
	}
	// Otherwise a leading separator is tolerated rather than meaningful: FSKey("/zoo.json")
	// and FSKey("zoo.json") both resolve relative to root, never to the real
	// filesystem root.
	trimmed := strings.TrimLeft(p, string(filepath.Separator))
	return filepath.Clean(filepath.Join(root, trimmed))
}

// LogicalKey identifies a resource with no filesystem representation: it is
// synthesized by a loader from other resources, or purely computed.
type LogicalKey struct {
	id string
}

// NewLogicalKey builds a LogicalKey from an opaque identifier string. Callers
// typically use LogicalKeys for composite resources that aggregate several
// FSKey-backed dependencies, listed in the []DepKey their LoadFunc returns
// (loader.go).
func NewLogicalKey(id string) LogicalKey {
	return LogicalKey{id: id}
}

// Canonicalize is the identity for logical keys: they carry no filesystem
// semantics, so there is nothing to resolve against root.
func (k LogicalKey) Canonicalize(string) Key { return k }

func (k LogicalKey) ToDepKey() DepKey { return DepKey{kind: depKeyLogical, value: k.id} }

func (k LogicalKey) String() string { return k.id }

// ID exposes the underlying identifier.
func (k LogicalKey) ID() string { return k.id }
