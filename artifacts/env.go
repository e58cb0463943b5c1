package artifacts

import (
	"os"
	"path/filepath"
	"strings"
)

// Environment keys recognized by the snapshot.
const (
	// EnvStorageURL locates the bundle storage: file://<absolute-path> or
	// s3://<bucket>[.s3.<region>.amazonaws.com]/<optional-prefix>.
	EnvStorageURL = "STATIC_ARTIFACTS_URL"

	// EnvAccessKeyID is the object-store credential key ID.
	EnvAccessKeyID = "STATIC_ARTIFACTS_ACCESS_KEY_ID"

	// EnvSecretAccessKey is the object-store credential secret.
	EnvSecretAccessKey = "STATIC_ARTIFACTS_SECRET_ACCESS_KEY"

	// EnvRegion overrides the bucket region when the URL host carries none.
	EnvRegion = "STATIC_ARTIFACTS_REGION"

	// EnvReleaseID names the release a bundle belongs to.
	EnvReleaseID = "RELEASE_ID"
)

// DefaultMetadataDir is where the release runtime drops per-release
// metadata such as the release_id override file.
const DefaultMetadataDir = "/etc/platform"

const (
	envKeyPrefix      = "STATIC_ARTIFACTS_"
	releaseIDFileName = "release_id"
)

// CaptureEnv collects the configuration snapshot for one invocation: every
// process environment entry whose key is recognized, with absent or empty
// values left out so presence checks are meaningful.
//
// When metadataDir is non-empty and contains a readable release_id file,
// its trimmed content overrides RELEASE_ID from the ambient environment.
// A missing or unreadable file is no override, never an error.
func CaptureEnv(metadataDir string) map[string]string {
	env := make(map[string]string)
	for _, entry := range os.Environ() {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || value == "" {
			continue
		}
		if strings.HasPrefix(key, envKeyPrefix) || key == EnvReleaseID {
			env[key] = value
		}
	}
	if metadataDir == "" {
		return env
	}
	data, err := os.ReadFile(filepath.Join(metadataDir, releaseIDFileName))
	if err != nil {
		return env
	}
	if id := strings.TrimSpace(string(data)); id != "" {
		env[EnvReleaseID] = id
	}
	return env
}
