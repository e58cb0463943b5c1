// Package artifacts persists and retrieves release-artifact bundles across
// process invocations that do not share a filesystem, and prunes old
// bundles to bound storage growth.
//
// A bundle is a gzip-compressed tarball of a directory tree, stored either
// as a file in a directory (file:// storage URL) or as a keyed object in an
// S3-compatible bucket (s3:// storage URL). Configuration is an explicit
// snapshot of recognized environment entries, captured once per invocation
// by CaptureEnv and passed by value into Save, Load and GC.
package artifacts

import (
	"context"
	"io"
	"time"
)

// Object is one stored bundle as reported by a backend listing. Its
// last-modified time orders bundles for retention and latest-resolution; it
// never contributes to identity.
type Object struct {
	Name         string
	LastModified time.Time
}

// Store is the backend capability contract shared by the local filesystem
// and object-store implementations. Names are bundle names relative to the
// backend's location; Key reports the full storage key a name maps to.
type Store interface {
	// Put persists a bundle under the given name, replacing any existing
	// bundle of that name.
	Put(ctx context.Context, name string, data io.Reader) error

	// Get retrieves a bundle by name. The returned reader must be closed
	// by the caller. Absent bundles yield an error satisfying IsNotFound.
	Get(ctx context.Context, name string) (io.ReadCloser, error)

	// List enumerates the stored bundles with their modification times.
	List(ctx context.Context) ([]Object, error)

	// Delete removes a bundle by name.
	Delete(ctx context.Context, name string) error

	// Key reports the full storage key for a bundle name.
	Key(name string) string

	// Location describes where bundles live, for progress and error lines.
	Location() string
}

// LatestResolver is implemented by stores that can resolve an absent exact
// name to the most recently modified bundle sharing its location. The local
// backend deliberately does not implement it: a missing file is a hard
// not-found.
type LatestResolver interface {
	Latest(ctx context.Context) (string, error)
}
