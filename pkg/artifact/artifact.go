// Package artifact verifies that resolved SDK artifacts exist and look like
// what the linker and loader expect.
package artifact

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/blakesmith/ar"
)

var (
	// ErrArtifactMissing indicates a resolved path does not exist
	ErrArtifactMissing = errors.New("artifact missing")

	// ErrInvalidArtifact indicates a file exists but cannot be used
	ErrInvalidArtifact = errors.New("invalid artifact")
)

// arMagic opens every ar archive, including Windows import libraries
const arMagic = "!<arch>\n"

// Error wraps a verification failure with the offending path
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Checker validates link inputs and runtime artifacts
type Checker interface {
	CheckLinkInput(path string) error
	CheckRuntime(path string) error
}

// FileChecker checks artifacts on the local filesystem
type FileChecker struct{}

// NewFileChecker creates a FileChecker
func NewFileChecker() *FileChecker {
	return &FileChecker{}
}

// CheckLinkInput requires an ar archive (.lib import library or .a) with at least one member
func (c *FileChecker) CheckLinkInput(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return wrapOpenErr(path, err)
	}
	defer f.Close()

	magic := make([]byte, len(arMagic))
	if _, err := io.ReadFull(f, magic); err != nil || string(magic) != arMagic {
		return &Error{Path: path, Err: fmt.Errorf("%w: not an ar archive", ErrInvalidArtifact)}
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return &Error{Path: path, Err: err}
	}

	r := ar.NewReader(f)
	_, err = r.Next()
	if err == io.EOF {
		return &Error{Path: path, Err: fmt.Errorf("%w: archive has no members", ErrInvalidArtifact)}
	}
	if err != nil {
		return &Error{Path: path, Err: fmt.Errorf("%w: reading ar entry: %v", ErrInvalidArtifact, err)}
	}
	return nil
}

// CheckRuntime requires a non-empty regular file
func (c *FileChecker) CheckRuntime(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return wrapOpenErr(path, err)
	}
	if !info.Mode().IsRegular() {
		return &Error{Path: path, Err: fmt.Errorf("%w: not a regular file", ErrInvalidArtifact)}
	}
	if info.Size() == 0 {
		return &Error{Path: path, Err: fmt.Errorf("%w: empty file", ErrInvalidArtifact)}
	}
	return nil
}

func wrapOpenErr(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &Error{Path: path, Err: ErrArtifactMissing}
	}
	return &Error{Path: path, Err: err}
}
