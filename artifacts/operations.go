package artifacts

import (
	"bytes"
	"context"
	"io"
	"log"
	"os"
	"slices"
	"time"
)

// retainCount is how many of the most recently modified bundles garbage
// collection keeps.
const retainCount = 2

// progress emits the human-readable progress lines to standard error.
var progress = log.New(os.Stderr, "", 0)

// Save archives sourceDir and persists the bundle according to the
// snapshot's storage configuration.
func Save(ctx context.Context, env map[string]string, sourceDir string) error {
	start := time.Now()
	loc, err := ParseLocator(env)
	if err != nil {
		recordOperation(ctx, opSave, backendNone, start, err)
		return err
	}
	err = saveTo(ctx, env, loc, sourceDir)
	recordOperation(ctx, opSave, string(loc.Kind), start, err)
	return err
}

func saveTo(ctx context.Context, env map[string]string, loc *Locator, sourceDir string) error {
	var store Store
	switch loc.Kind {
	case BackendLocal:
		if err := guardFile(env); err != nil {
			return err
		}
		store = NewLocalStore(loc.Dir)
	default:
		if err := guardS3(env); err != nil {
			return err
		}
		store = NewS3Store(env, loc)
	}

	name := ArchiveName(env)
	if loc.Kind == BackendLocal {
		progress.Printf("save-release-artifacts writing archive: %s", name)
	} else {
		progress.Printf("save-release-artifacts uploading archive: %s", name)
	}

	var buf bytes.Buffer
	if err := ArchiveDirectory(sourceDir, &buf); err != nil {
		return err
	}
	return store.Put(ctx, name, bytes.NewReader(buf.Bytes()))
}

// Load retrieves the bundle for the snapshot and extracts it into destDir,
// returning the storage key actually used. When the exact name is absent on
// the object-store backend, the most recently modified object under the key
// prefix is retrieved instead; the local backend has no such fallback. The
// destination directory is not created unless a bundle was resolved.
func Load(ctx context.Context, env map[string]string, destDir string) (string, error) {
	start := time.Now()
	loc, err := ParseLocator(env)
	if err != nil {
		recordOperation(ctx, opLoad, backendNone, start, err)
		return "", err
	}
	key, err := loadFrom(ctx, env, loc, destDir)
	recordOperation(ctx, opLoad, string(loc.Kind), start, err)
	return key, err
}

func loadFrom(ctx context.Context, env map[string]string, loc *Locator, destDir string) (string, error) {
	var store Store
	switch loc.Kind {
	case BackendLocal:
		// Only the storage URL is required here; the exact bundle name is
		// still derived from RELEASE_ID when present.
		store = NewLocalStore(loc.Dir)
	default:
		if err := guardS3(env); err != nil {
			return "", err
		}
		store = NewS3Store(env, loc)
	}

	name := ArchiveName(env)
	if loc.Kind == BackendLocal {
		progress.Printf("load-release-artifacts reading archive: %s", name)
	} else {
		progress.Printf("load-release-artifacts downloading archive: %s", name)
	}

	body, resolved, err := fetchBundle(ctx, store, name)
	if err != nil {
		return "", err
	}
	defer func() { _ = body.Close() }()

	counted := &countingReader{r: body}
	if err := ExtractArchive(counted, destDir); err != nil {
		return "", err
	}
	progress.Printf("load-release-artifacts received %d bytes", counted.n)
	return store.Key(resolved), nil
}

// fetchBundle retrieves the named bundle from the store, resolving an
// absent exact name to the latest bundle when the store supports it. Only a
// not-found failure triggers the fallback; any other failure class
// propagates unchanged.
func fetchBundle(ctx context.Context, store Store, name string) (io.ReadCloser, string, error) {
	body, err := store.Get(ctx, name)
	if err == nil {
		return body, name, nil
	}
	if !IsNotFound(err) {
		return nil, "", err
	}
	resolver, ok := store.(LatestResolver)
	if !ok {
		return nil, "", err
	}

	progress.Printf("load-release-artifacts specific artifact not found %q, instead getting latest artifact", store.Key(name))
	latest, err := resolver.Latest(ctx)
	if err != nil {
		return nil, "", err
	}
	progress.Printf("load-release-artifacts getting latest artifact %q", store.Key(latest))
	body, err = store.Get(ctx, latest)
	if err != nil {
		return nil, "", err
	}
	return body, latest, nil
}

// GC deletes every bundle except the retainCount most recently modified.
// The file backend requires only the storage URL; the object-store backend
// runs its full credential guard before any I/O.
func GC(ctx context.Context, env map[string]string) error {
	start := time.Now()
	loc, err := ParseLocator(env)
	if err != nil {
		recordOperation(ctx, opGC, backendNone, start, err)
		return err
	}
	err = gcStore(ctx, env, loc)
	recordOperation(ctx, opGC, string(loc.Kind), start, err)
	return err
}

func gcStore(ctx context.Context, env map[string]string, loc *Locator) error {
	var store Store
	if loc.Kind == BackendLocal {
		// No guard here: retention on the file backend needs only the
		// storage URL, not any one release's identifier.
		store = NewLocalStore(loc.Dir)
	} else {
		if err := guardS3(env); err != nil {
			return err
		}
		store = NewS3Store(env, loc)
	}

	progress.Printf("gc-release-artifacts listing archives: %s", store.Location())
	objects, err := store.List(ctx)
	if err != nil {
		return err
	}

	for _, object := range staleBundles(objects) {
		progress.Printf("gc-release-artifacts deleting archive: %s", object.Name)
		if err := store.Delete(ctx, object.Name); err != nil {
			// Fail-fast: remaining deletions are abandoned, which can leave
			// retention partially applied.
			return err
		}
	}
	return nil
}

// staleBundles returns every bundle except the retainCount most recently
// modified. Fewer than retainCount+1 bundles means nothing is stale.
func staleBundles(objects []Object) []Object {
	if len(objects) <= retainCount {
		return nil
	}
	sorted := slices.Clone(objects)
	slices.SortFunc(sorted, func(a, b Object) int {
		return b.LastModified.Compare(a.LastModified)
	})
	return sorted[retainCount:]
}

// countingReader counts the bytes read through it for the progress line.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
