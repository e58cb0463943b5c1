package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecSequenceRunsCommandsInOrder(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.txt")
	cfg := &ReleaseCommands{
		ReleaseBuild: &Executable{Command: "sh", Args: []string{"-c", "echo build >> " + out}},
		Release: []Executable{
			{Command: "sh", Args: []string{"-c", "echo one >> " + out}},
			{Command: "sh", Args: []string{"-c", "echo two >> " + out}},
		},
	}

	require.NoError(t, ExecSequence(context.Background(), cfg))

	// release-build runs before the release commands.
	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "build\none\ntwo\n", string(content))
}

func TestExecSequenceReleaseBuildFailureAbortsSequence(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.txt")
	cfg := &ReleaseCommands{
		ReleaseBuild: &Executable{Command: "sh", Args: []string{"-c", "exit 1"}},
		Release: []Executable{
			{Command: "sh", Args: []string{"-c", "echo reached >> " + out}},
		},
	}

	err := ExecSequence(context.Background(), cfg)

	require.Error(t, err)
	var cmdErr *Error
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, ErrorKindExit, cmdErr.Kind)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExecSequenceStopsAtFirstFailure(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.txt")
	cfg := &ReleaseCommands{
		Release: []Executable{
			{Command: "sh", Args: []string{"-c", "exit 3"}},
			{Command: "sh", Args: []string{"-c", "echo reached >> " + out}},
		},
	}

	err := ExecSequence(context.Background(), cfg)

	require.Error(t, err)
	var cmdErr *Error
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, ErrorKindExit, cmdErr.Kind)

	// The second command must not have run.
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExecSequenceUnknownCommand(t *testing.T) {
	cfg := &ReleaseCommands{
		Release: []Executable{
			{Command: "definitely-not-a-command-on-this-host"},
		},
	}

	err := ExecSequence(context.Background(), cfg)

	require.Error(t, err)
	var cmdErr *Error
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, ErrorKindExec, cmdErr.Kind)
}

func TestExecSequenceEmptyConfig(t *testing.T) {
	assert.NoError(t, ExecSequence(context.Background(), &ReleaseCommands{}))
}
