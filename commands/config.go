// Package commands generates and runs the release command sequence for a
// build. Commands come from two places: the project manifest and a build
// plan contributed by earlier build steps. The merged sequence is written
// to release-commands.toml during the build and executed at release time.
package commands

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the file the merged command sequence is written to.
const ConfigFileName = "release-commands.toml"

// ProjectTablePath locates the phase table inside the project manifest.
var ProjectTablePath = []string{"com", "heroku", "phase"}

// saveArtifactsExec is prepended to the release sequence whenever a
// release-build command is configured, so the artifacts it produces are
// stored before any release command runs.
var saveArtifactsExec = Executable{
	Command: "save-release-artifacts",
	Args:    []string{"static-artifacts/"},
	Source:  "release-phase",
}

// Executable is a single command in the release sequence.
type Executable struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args,omitempty"`
	Source  string   `toml:"source,omitempty"`
}

// String renders the command the way a shell invocation would look,
// with its origin appended when known.
func (e Executable) String() string {
	rendered := e.Command
	if len(e.Args) > 0 {
		rendered += " " + strings.Join(e.Args, " ")
	}
	if e.Source != "" {
		rendered += " (" + e.Source + ")"
	}
	return rendered
}

// ReleaseCommands is the merged command configuration for a build.
type ReleaseCommands struct {
	ReleaseBuild *Executable  `toml:"release-build,omitempty"`
	Release      []Executable `toml:"release,omitempty"`
}

// GenerateConfig merges the phase table of the project manifest with an
// inherited build-plan table into a single command sequence. Inherited
// release commands run before the project's own release commands. A
// release-build command declared by the project replaces an inherited
// one. When a release-build command is present, an invocation of
// save-release-artifacts is injected ahead of every release command.
func GenerateConfig(projectTOML, inheritedTOML []byte) (*ReleaseCommands, error) {
	var projectDoc map[string]any
	if err := toml.Unmarshal(projectTOML, &projectDoc); err != nil {
		return nil, &Error{Kind: ErrorKindConfig, Message: "invalid project manifest", Err: err}
	}

	projectTable := map[string]any{}
	if phase := lookupTable(projectDoc, ProjectTablePath...); phase != nil {
		for _, key := range []string{"release", "release-build"} {
			if value, ok := phase[key]; ok {
				projectTable[key] = value
			}
		}
	}

	cfg, err := decodeCommands(projectTable)
	if err != nil {
		return nil, &Error{Kind: ErrorKindConfig, Message: "invalid phase table in project manifest", Err: err}
	}

	var inheritedDoc map[string]any
	if err := toml.Unmarshal(inheritedTOML, &inheritedDoc); err != nil {
		return nil, &Error{Kind: ErrorKindConfig, Message: "invalid inherited commands", Err: err}
	}
	inherited, err := decodeCommands(inheritedDoc)
	if err != nil {
		return nil, &Error{Kind: ErrorKindConfig, Message: "invalid inherited commands", Err: err}
	}

	if len(inherited.Release) > 0 {
		cfg.Release = append(slices.Clone(inherited.Release), cfg.Release...)
	}
	if cfg.ReleaseBuild == nil {
		cfg.ReleaseBuild = inherited.ReleaseBuild
	}
	if cfg.ReleaseBuild != nil {
		cfg.Release = append([]Executable{saveArtifactsExec}, cfg.Release...)
	}
	return cfg, nil
}

// ReadConfig loads a previously written command sequence. A missing file
// yields an empty configuration rather than an error, since builds
// without release commands never write one.
func ReadConfig(dir string) (*ReleaseCommands, error) {
	raw, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	if os.IsNotExist(err) {
		return &ReleaseCommands{}, nil
	}
	if err != nil {
		return nil, &Error{Kind: ErrorKindConfig, Message: "reading " + ConfigFileName, Err: err}
	}
	var cfg ReleaseCommands
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return nil, &Error{Kind: ErrorKindConfig, Message: "parsing " + ConfigFileName, Err: err}
	}
	return &cfg, nil
}

// WriteConfig stores the command sequence under dir.
func WriteConfig(dir string, cfg *ReleaseCommands) error {
	file, err := os.Create(filepath.Join(dir, ConfigFileName))
	if err != nil {
		return &Error{Kind: ErrorKindConfig, Message: "creating " + ConfigFileName, Err: err}
	}
	defer file.Close()
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return &Error{Kind: ErrorKindConfig, Message: "writing " + ConfigFileName, Err: err}
	}
	return nil
}

// decodeCommands converts a loosely typed TOML table into a
// ReleaseCommands value by round-tripping through the encoder, so type
// mismatches in the source document surface as decode errors.
func decodeCommands(table map[string]any) (*ReleaseCommands, error) {
	raw, err := toml.Marshal(table)
	if err != nil {
		return nil, err
	}
	var cfg ReleaseCommands
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func lookupTable(doc map[string]any, path ...string) map[string]any {
	current := doc
	for _, key := range path {
		next, ok := current[key].(map[string]any)
		if !ok {
			return nil
		}
		current = next
	}
	return current
}
