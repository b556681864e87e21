// errors.go
package sdklink

import (
	"fmt"

	"github.com/aws-samples/ambit-sdklink/pkg/artifact"
	"github.com/aws-samples/ambit-sdklink/pkg/component"
	"github.com/aws-samples/ambit-sdklink/pkg/platform"
)

var (
	// ErrConfiguration indicates an empty or duplicate component declaration
	ErrConfiguration = component.ErrConfiguration

	// ErrUnsupportedPlatform indicates the platform has no link capabilities
	ErrUnsupportedPlatform = platform.ErrUnsupportedPlatform

	// ErrArtifactMissing indicates a resolved artifact is not on disk
	ErrArtifactMissing = artifact.ErrArtifactMissing

	// ErrInvalidArtifact indicates a resolved artifact is malformed
	ErrInvalidArtifact = artifact.ErrInvalidArtifact
)

// Error wraps an error with additional context
type Error struct {
	Op       string // Operation that failed
	Platform string // Target platform if applicable
	Err      error  // Underlying error
}

func (e *Error) Error() string {
	if e.Platform != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Platform, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
