package commands

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectManifest = `
[com.heroku.phase.release-build]
command = "bash"
args = ["-c", "npm run build"]

[[com.heroku.phase.release]]
command = "bash"
args = ["-c", "npm run migrate"]
`

func TestGenerateConfigFromProjectManifest(t *testing.T) {
	cfg, err := GenerateConfig([]byte(projectManifest), nil)
	require.NoError(t, err)

	require.NotNil(t, cfg.ReleaseBuild)
	assert.Equal(t, "bash", cfg.ReleaseBuild.Command)
	assert.Equal(t, []string{"-c", "npm run build"}, cfg.ReleaseBuild.Args)

	// save-release-artifacts is injected ahead of the release commands
	// because a release-build command is configured.
	require.Len(t, cfg.Release, 2)
	assert.Equal(t, "save-release-artifacts", cfg.Release[0].Command)
	assert.Equal(t, []string{"static-artifacts/"}, cfg.Release[0].Args)
	assert.Equal(t, "release-phase", cfg.Release[0].Source)
	assert.Equal(t, "bash", cfg.Release[1].Command)
	assert.Equal(t, []string{"-c", "npm run migrate"}, cfg.Release[1].Args)
}

func TestGenerateConfigWithoutPhaseTable(t *testing.T) {
	cfg, err := GenerateConfig([]byte(`name = "my-app"`), nil)
	require.NoError(t, err)

	assert.Nil(t, cfg.ReleaseBuild)
	assert.Empty(t, cfg.Release)
}

func TestGenerateConfigWithoutReleaseBuildSkipsInjection(t *testing.T) {
	project := `
[[com.heroku.phase.release]]
command = "bash"
args = ["-c", "npm run migrate"]
`
	cfg, err := GenerateConfig([]byte(project), nil)
	require.NoError(t, err)

	assert.Nil(t, cfg.ReleaseBuild)
	require.Len(t, cfg.Release, 1)
	assert.Equal(t, "bash", cfg.Release[0].Command)
}

func TestGenerateConfigInheritedCommandsRunFirst(t *testing.T) {
	inherited := `
[[release]]
command = "inherited-hook"
`
	cfg, err := GenerateConfig([]byte(projectManifest), []byte(inherited))
	require.NoError(t, err)

	require.Len(t, cfg.Release, 3)
	assert.Equal(t, "save-release-artifacts", cfg.Release[0].Command)
	assert.Equal(t, "inherited-hook", cfg.Release[1].Command)
	assert.Equal(t, "bash", cfg.Release[2].Command)
}

func TestGenerateConfigProjectReleaseBuildWinsOverInherited(t *testing.T) {
	inherited := `
[release-build]
command = "inherited-build"
`
	cfg, err := GenerateConfig([]byte(projectManifest), []byte(inherited))
	require.NoError(t, err)

	require.NotNil(t, cfg.ReleaseBuild)
	assert.Equal(t, "bash", cfg.ReleaseBuild.Command)
}

func TestGenerateConfigAdoptsInheritedReleaseBuild(t *testing.T) {
	inherited := `
[release-build]
command = "inherited-build"
`
	cfg, err := GenerateConfig(nil, []byte(inherited))
	require.NoError(t, err)

	require.NotNil(t, cfg.ReleaseBuild)
	assert.Equal(t, "inherited-build", cfg.ReleaseBuild.Command)

	// Inheriting a release-build command still triggers the injection.
	require.Len(t, cfg.Release, 1)
	assert.Equal(t, "save-release-artifacts", cfg.Release[0].Command)
}

func TestGenerateConfigInvalidManifest(t *testing.T) {
	_, err := GenerateConfig([]byte("not = [valid"), nil)

	require.Error(t, err)
	var cmdErr *Error
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, ErrorKindConfig, cmdErr.Kind)
}

func TestReadConfigMissingFile(t *testing.T) {
	cfg, err := ReadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Nil(t, cfg.ReleaseBuild)
	assert.Empty(t, cfg.Release)
}

func TestWriteReadConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := &ReleaseCommands{
		ReleaseBuild: &Executable{Command: "bash", Args: []string{"-c", "npm run build"}},
		Release: []Executable{
			{Command: "save-release-artifacts", Args: []string{"static-artifacts/"}},
			{Command: "bash", Args: []string{"-c", "npm run migrate"}, Source: "project"},
		},
	}

	require.NoError(t, WriteConfig(dir, original))

	loaded, err := ReadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestExecutableString(t *testing.T) {
	assert.Equal(t, "rake db:migrate", Executable{Command: "rake", Args: []string{"db:migrate"}}.String())
	assert.Equal(t, "cleanup", Executable{Command: "cleanup"}.String())
	assert.Equal(t, "rake db:migrate (project)", Executable{Command: "rake", Args: []string{"db:migrate"}, Source: "project"}.String())
}
