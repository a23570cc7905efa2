package hotcache

// errors.go holds the library's error taxonomy. The teacher favours
// package-level sentinel errors.New() vars (see the old config.go), but those
// can't carry per-occurrence context like the offending DepKey or root path.
// Since callers here need exactly that context to act on a failure (log
// which key collided, which root was missing), these are small exported
// structs instead, each satisfying error and unwrapping where there's an
// underlying cause.
//
// © 2025 hotcache authors. MIT License.

import "fmt"

// RootDoesNotExistError is returned by New when the configured root cannot be
// resolved to an existing directory.
type RootDoesNotExistError struct {
	Root string
}

func (e *RootDoesNotExistError) Error() string {
	return fmt.Sprintf("hotcache: root does not exist: %s", e.Root)
}

// AlreadyRegisteredKeyError is returned by inject when a (DepKey, type,
// method) triple is already present in the metadata table. It signals a
// caller bug (registering the same resource identity twice with different
// loaders) rather than a transient failure.
type AlreadyRegisteredKeyError struct {
	Dep DepKey
}

func (e *AlreadyRegisteredKeyError) Error() string {
	return fmt.Sprintf("hotcache: key already registered: %s", e.Dep)
}

// ResourceError wraps the error returned by a caller-supplied Loader's Load
// function. Its Unwrap lets callers use errors.As/errors.Is to inspect the
// original loader error without the store forcing a particular error type on
// every resource kind.
type ResourceError struct {
	Err error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("hotcache: resource load failed: %v", e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }
