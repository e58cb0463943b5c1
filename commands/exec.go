package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
)

var progress = log.New(os.Stderr, "", 0)

// ExecSequence runs the release-build command, then every release command
// in order, stopping at the first failure. Command output goes straight to
// the current process's stdout and stderr.
func ExecSequence(ctx context.Context, cfg *ReleaseCommands) error {
	if cfg.ReleaseBuild != nil {
		progress.Printf("exec-release-commands running release-build command: %s", cfg.ReleaseBuild)
		if err := runExecutable(ctx, *cfg.ReleaseBuild); err != nil {
			return err
		}
	}
	for _, executable := range cfg.Release {
		progress.Printf("exec-release-commands running release command: %s", executable)
		if err := runExecutable(ctx, executable); err != nil {
			return err
		}
	}
	return nil
}

func runExecutable(ctx context.Context, executable Executable) error {
	cmd := exec.CommandContext(ctx, executable.Command, executable.Args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return &Error{
				Kind:    ErrorKindExit,
				Message: fmt.Sprintf("command failed: %s", executable),
				Err:     err,
			}
		}
		return &Error{
			Kind:    ErrorKindExec,
			Message: fmt.Sprintf("could not start command: %s", executable),
			Err:     err,
		}
	}
	return nil
}
