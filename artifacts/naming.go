package artifacts

import "github.com/google/uuid"

// bundleExt is the file extension shared by every stored bundle.
const bundleExt = ".tgz"

// ArchiveName derives the bundle name for the snapshot: deterministic
// release-<RELEASE_ID>.tgz when a release identifier is configured, unique
// artifact-<uuid>.tgz otherwise.
func ArchiveName(env map[string]string) string {
	if releaseID := env[EnvReleaseID]; releaseID != "" {
		return "release-" + releaseID + bundleExt
	}
	return "artifact-" + uuid.NewString() + bundleExt
}
