// Package provision unpacks prebuilt SDK binary archives into the per-platform
// artifact directory the resolver reads from.
package provision

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/aws-samples/ambit-sdklink/internal/logging"
	"github.com/aws-samples/ambit-sdklink/pkg/component"
	"github.com/aws-samples/ambit-sdklink/pkg/platform"
)

// Config configures a Provisioner
type Config struct {
	// StripComponents drops this many leading path elements from each entry
	StripComponents int
	Logger          *slog.Logger
}

// Report describes an unpacked archive
type Report struct {
	Dir   string   // Destination directory
	Files []string // Regular files written, relative to Dir
}

// Provisioner extracts SDK archives
type Provisioner struct {
	config Config
	logger *slog.Logger
}

// New creates a Provisioner
func New(cfg Config) *Provisioner {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Provisioner{config: cfg, logger: logger}
}

// Unpack extracts archivePath into destDir.
// Supported: .tar.xz, .tar.zst, .tar.gz/.tgz and plain .tar.
func (p *Provisioner) Unpack(ctx context.Context, archivePath, destDir string) (*Report, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	r, closer, err := decompressor(archivePath, f)
	if err != nil {
		return nil, err
	}
	defer closer()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", destDir, err)
	}

	p.logger.Info("unpacking SDK archive", "archive", archivePath, "destination", destDir)

	report := &Report{Dir: destDir}
	tarReader := tar.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading tar entry: %w", err)
		}

		rel := p.relativeName(header.Name)
		if rel == "" {
			continue
		}
		target, err := safeJoin(destDir, rel)
		if err != nil {
			return nil, err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return nil, fmt.Errorf("creating directory %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := writeFile(target, tarReader, os.FileMode(header.Mode).Perm()); err != nil {
				return nil, err
			}
			report.Files = append(report.Files, filepath.ToSlash(rel))
			p.logger.Debug("extracted", "file", rel, "bytes", header.Size)
		default:
			// SDK drops carry only files and directories
			p.logger.Debug("skipping entry", "name", header.Name, "type", header.Typeflag)
		}
	}

	p.logger.Info("unpacked SDK archive", "files", len(report.Files))
	return report, nil
}

// Missing lists components whose artifacts for caps are absent from the report's directory
func (r *Report) Missing(reg *component.Registry, caps platform.Capabilities) []string {
	var missing []string
	for _, c := range reg.All() {
		wanted := []string{c.Name + caps.LinkExtension}
		if caps.Linkage == platform.Dynamic {
			wanted = append(wanted, c.Name+caps.RuntimeExtension)
		}
		for _, name := range wanted {
			if _, err := os.Stat(filepath.Join(r.Dir, name)); err != nil {
				missing = append(missing, c.Name)
				break
			}
		}
	}
	return missing
}

func decompressor(name string, r io.Reader) (io.Reader, func(), error) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		xzReader, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("creating xz reader: %w", err)
		}
		return xzReader, func() {}, nil
	case strings.HasSuffix(lower, ".tar.zst"), strings.HasSuffix(lower, ".tzst"):
		zstdReader, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd init: %w", err)
		}
		return zstdReader, zstdReader.Close, nil
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		gzReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		return gzReader, func() { gzReader.Close() }, nil
	case strings.HasSuffix(lower, ".tar"):
		return r, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported archive format: %s", filepath.Base(name))
	}
}

func (p *Provisioner) relativeName(name string) string {
	clean := strings.TrimPrefix(filepath.ToSlash(name), "./")
	parts := strings.Split(strings.Trim(clean, "/"), "/")
	if len(parts) <= p.config.StripComponents {
		return ""
	}
	rel := strings.Join(parts[p.config.StripComponents:], "/")
	if rel == "." {
		return ""
	}
	return rel
}

// safeJoin rejects entries that would land outside dir
func safeJoin(dir, rel string) (string, error) {
	target := filepath.Join(dir, filepath.FromSlash(rel))
	back, err := filepath.Rel(dir, target)
	if err != nil || back == ".." || strings.HasPrefix(back, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry %q escapes destination", rel)
	}
	return target, nil
}

func writeFile(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}
	if mode == 0 {
		mode = 0644
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", target, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("writing file %s: %w", target, err)
	}
	return out.Close()
}
