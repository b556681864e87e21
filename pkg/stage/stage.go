// pkg/stage/stage.go
package stage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aws-samples/ambit-sdklink/internal/logging"
	"github.com/aws-samples/ambit-sdklink/pkg/directive"
)

// Config configures a Stager
type Config struct {
	DryRun bool         // Report what would be copied without writing
	Logger *slog.Logger // Optional
}

// Result summarizes one Apply call
type Result struct {
	Copied  []string // Destination paths written (or planned, in dry-run mode)
	Skipped []string // Destinations already up to date
}

// Stager copies runtime artifacts next to the produced binary
type Stager struct {
	config Config
	logger *slog.Logger
}

// New creates a Stager
func New(cfg Config) *Stager {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Stager{config: cfg, logger: logger}
}

// Apply executes every staging instruction of set into binDir
func (s *Stager) Apply(ctx context.Context, set *directive.BuildDirectiveSet, binDir string) (*Result, error) {
	if set == nil {
		return nil, fmt.Errorf("directive set cannot be nil")
	}
	if binDir == "" {
		return nil, fmt.Errorf("binary output directory is required")
	}

	res := &Result{}
	for _, inst := range set.Staging {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		dst := inst.Resolve(binDir)
		fresh, err := upToDate(inst.Source, dst)
		if err != nil {
			return res, fmt.Errorf("staging %s: %w", inst.Source, err)
		}
		if fresh {
			s.logger.Debug("skipping up-to-date file", "destination", dst)
			res.Skipped = append(res.Skipped, dst)
			continue
		}

		if !s.config.DryRun {
			if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
				return res, fmt.Errorf("creating directory for %s: %w", dst, err)
			}
			if err := copyFile(inst.Source, dst); err != nil {
				return res, fmt.Errorf("staging %s: %w", inst.Source, err)
			}
		}
		s.logger.Debug("staged file", "source", inst.Source, "destination", dst, "dry_run", s.config.DryRun)
		res.Copied = append(res.Copied, dst)
	}

	s.logger.Info("staging complete", "copied", len(res.Copied), "skipped", len(res.Skipped))
	return res, nil
}

// upToDate reports whether dst already matches src by size and is not older
func upToDate(src, dst string) (bool, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, err
	}
	dstInfo, err := os.Stat(dst)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return dstInfo.Size() == srcInfo.Size() && !srcInfo.ModTime().After(dstInfo.ModTime()), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm()|fs.FileMode(0200))
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
