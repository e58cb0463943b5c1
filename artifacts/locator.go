package artifacts

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// BackendKind identifies which storage backend a locator resolves to.
type BackendKind string

const (
	// BackendLocal stores bundles as files in a directory.
	BackendLocal BackendKind = "local"

	// BackendObjectStore stores bundles as keyed objects in a bucket.
	BackendObjectStore BackendKind = "object-store"
)

const (
	schemeFile = "file"
	schemeS3   = "s3"

	// DefaultRegion is used when neither the URL host nor EnvRegion
	// provides a bucket region.
	DefaultRegion = "us-east-1"
)

// virtualHostPattern matches virtual-hosted-style bucket hosts of the form
// <bucket>.s3.<region>.amazonaws.com.
var virtualHostPattern = regexp.MustCompile(`^([^.]+)\.s3\.([^.]+)\.amazonaws\.com$`)

// Locator is the parsed representation of the storage URL. It is derived
// once per invocation and carried into the selected backend.
type Locator struct {
	Kind BackendKind

	// Dir is the storage directory for the local backend.
	Dir string

	// Bucket, Region and Prefix describe the object-store location.
	Bucket string
	Region string
	Prefix string
}

// ParseLocator reads the snapshot's storage URL and resolves the backend
// kind and location. The region precedence for the object store is: region
// embedded in the URL host, then EnvRegion, then DefaultRegion.
func ParseLocator(env map[string]string) (*Locator, error) {
	raw, ok := env[EnvStorageURL]
	if !ok {
		return nil, NewConfigurationMissingError(EnvStorageURL + " is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, &Error{Kind: ErrorKindStorageURLInvalid, Message: "invalid storage URL", Err: err}
	}
	if parsed.Scheme == "" {
		return nil, &Error{
			Kind:    ErrorKindStorageURLInvalid,
			Message: fmt.Sprintf("invalid storage URL %q", raw),
		}
	}
	switch parsed.Scheme {
	case schemeFile:
		return &Locator{Kind: BackendLocal, Dir: parsed.Path}, nil
	case schemeS3:
		bucket, region, prefix, err := ParseS3URL(raw)
		if err != nil {
			return nil, err
		}
		if region == "" {
			region = env[EnvRegion]
		}
		if region == "" {
			region = DefaultRegion
		}
		return &Locator{Kind: BackendObjectStore, Bucket: bucket, Region: region, Prefix: prefix}, nil
	default:
		return nil, &Error{
			Kind:    ErrorKindUnsupportedScheme,
			Message: fmt.Sprintf("unsupported storage URL scheme %q", parsed.Scheme),
		}
	}
}

// ParseS3URL extracts the bucket name, region and key prefix from a storage
// URL. The host is either virtual-hosted style, yielding bucket and region,
// or a bare name taken as the bucket with no region. Path segments, trimmed
// of leading and trailing slashes, become the key prefix.
func ParseS3URL(raw string) (bucket, region, prefix string, err error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", "", "", &Error{Kind: ErrorKindStorageURLInvalid, Message: "invalid storage URL", Err: err}
	}
	host := parsed.Hostname()
	if host == "" {
		return "", "", "", &Error{Kind: ErrorKindStorageURLHostMissing, Message: "storage URL is missing host"}
	}
	if match := virtualHostPattern.FindStringSubmatch(host); match != nil {
		bucket, region = match[1], match[2]
	} else {
		bucket = host
	}
	prefix = strings.Trim(parsed.Path, "/")
	return bucket, region, prefix, nil
}

// fileSettings are the entries the local backend requires.
type fileSettings struct {
	ReleaseID  string `validate:"required"`
	StorageURL string `validate:"required"`
}

// s3Settings are the entries the object-store backend requires.
type s3Settings struct {
	ReleaseID       string `validate:"required"`
	AccessKeyID     string `validate:"required"`
	SecretAccessKey string `validate:"required"`
	StorageURL      string `validate:"required"`
}

// guardEnvKeys maps settings fields back to the environment keys named in
// aggregated configuration errors.
var guardEnvKeys = map[string]string{
	"ReleaseID":       EnvReleaseID,
	"AccessKeyID":     EnvAccessKeyID,
	"SecretAccessKey": EnvSecretAccessKey,
	"StorageURL":      EnvStorageURL,
}

// guardFile validates the configuration the local backend needs before any
// I/O is attempted.
func guardFile(env map[string]string) error {
	return guard(&fileSettings{
		ReleaseID:  env[EnvReleaseID],
		StorageURL: env[EnvStorageURL],
	})
}

// guardS3 validates the configuration the object-store backend needs before
// any I/O is attempted.
func guardS3(env map[string]string) error {
	return guard(&s3Settings{
		ReleaseID:       env[EnvReleaseID],
		AccessKeyID:     env[EnvAccessKeyID],
		SecretAccessKey: env[EnvSecretAccessKey],
		StorageURL:      env[EnvStorageURL],
	})
}

// guard validates settings using struct tags and aggregates every violation
// into one ConfigurationMissing error, so callers see the complete
// remediation list in one pass.
func guard(settings any) error {
	err := validator.New().Struct(settings)
	if err == nil {
		return nil
	}
	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return NewConfigurationMissingError(err.Error())
	}
	messages := make([]string, 0, len(violations))
	for _, violation := range violations {
		key := guardEnvKeys[violation.Field()]
		if key == "" {
			key = violation.Field()
		}
		messages = append(messages, key+" is required")
	}
	return NewConfigurationMissingError(strings.Join(messages, ". "))
}
