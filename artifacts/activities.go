package artifacts

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
)

// SaveArtifactsInput contains input for saving release artifacts.
type SaveArtifactsInput struct {
	// Env is the configuration snapshot for the operation
	Env map[string]string `json:"env" validate:"required"`

	// SourceDir is the directory tree to archive
	SourceDir string `json:"source_dir" validate:"required"`
}

// Validate validates input using struct tags.
func (i *SaveArtifactsInput) Validate() error {
	validate := validator.New()
	return validate.Struct(i)
}

// LoadArtifactsInput contains input for loading release artifacts.
type LoadArtifactsInput struct {
	// Env is the configuration snapshot for the operation
	Env map[string]string `json:"env" validate:"required"`

	// DestDir is where the bundle is extracted
	DestDir string `json:"dest_dir" validate:"required"`
}

// Validate validates input using struct tags.
func (i *LoadArtifactsInput) Validate() error {
	validate := validator.New()
	return validate.Struct(i)
}

// LoadArtifactsOutput reports the storage key the bundle was loaded from.
type LoadArtifactsOutput struct {
	Key string `json:"key"`
}

// GCArtifactsInput contains input for garbage-collecting release artifacts.
type GCArtifactsInput struct {
	// Env is the configuration snapshot for the operation
	Env map[string]string `json:"env" validate:"required"`
}

// Validate validates input using struct tags.
func (i *GCArtifactsInput) Validate() error {
	validate := validator.New()
	return validate.Struct(i)
}

// SaveArtifactsActivity archives a directory tree and persists the bundle.
func SaveArtifactsActivity(ctx context.Context, input SaveArtifactsInput) error {
	if err := input.Validate(); err != nil {
		return err
	}
	logger := activity.GetLogger(ctx)
	logger.Info("Saving release artifacts", "sourceDir", input.SourceDir)
	return Save(ctx, input.Env, input.SourceDir)
}

// LoadArtifactsActivity retrieves a bundle and extracts it, reporting the
// storage key it resolved to.
func LoadArtifactsActivity(ctx context.Context, input LoadArtifactsInput) (*LoadArtifactsOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	logger := activity.GetLogger(ctx)
	logger.Info("Loading release artifacts", "destDir", input.DestDir)
	key, err := Load(ctx, input.Env, input.DestDir)
	if err != nil {
		return nil, err
	}
	return &LoadArtifactsOutput{Key: key}, nil
}

// GCArtifactsActivity deletes all but the most recent bundles.
func GCArtifactsActivity(ctx context.Context, input GCArtifactsInput) error {
	if err := input.Validate(); err != nil {
		return err
	}
	logger := activity.GetLogger(ctx)
	logger.Info("Garbage collecting release artifacts")
	return GC(ctx, input.Env)
}

// RegisterActivities registers all release-artifact activities with a
// worker.
func RegisterActivities(w worker.Worker) {
	w.RegisterActivity(SaveArtifactsActivity)
	w.RegisterActivity(LoadArtifactsActivity)
	w.RegisterActivity(GCArtifactsActivity)
}
