package artifacts

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveNameWithReleaseID(t *testing.T) {
	env := map[string]string{EnvReleaseID: "v42"}

	assert.Equal(t, "release-v42.tgz", ArchiveName(env))
}

func TestArchiveNameWithoutReleaseID(t *testing.T) {
	name := ArchiveName(map[string]string{})

	assert.True(t, strings.HasPrefix(name, "artifact-"))
	assert.True(t, strings.HasSuffix(name, ".tgz"))

	// The middle part must be a valid unique identifier.
	id := strings.TrimSuffix(strings.TrimPrefix(name, "artifact-"), ".tgz")
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	assert.NotEqual(t, name, ArchiveName(map[string]string{}))
}
