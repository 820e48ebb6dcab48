// Package fs sizes content stored on the local filesystem.
package fs

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config options for the filesystem prober
type Config struct {
	BaseDir string // Optional directory that relative locations are resolved against
}

// Prober implements provisioning.SizeProber with os.Stat.
type Prober struct {
	baseDir string
}

// New creates a new filesystem prober
func New(config Config) *Prober {
	return &Prober{baseDir: config.BaseDir}
}

// Probe stats location as a local file. Remote URLs, directories and missing
// files report ok=false, as does a stat that outlives ctx.
func (p *Prober) Probe(ctx context.Context, location string) (int64, bool) {
	filePath, ok := p.resolve(location)
	if !ok {
		return 0, false
	}

	type result struct {
		info os.FileInfo
		err  error
	}
	done := make(chan result, 1)
	go func() {
		info, err := os.Stat(filePath)
		done <- result{info: info, err: err}
	}()

	select {
	case <-ctx.Done():
		slog.Debug("File size probe abandoned", "path", filePath, "err", ctx.Err())
		return 0, false
	case r := <-done:
		if r.err != nil {
			if !os.IsNotExist(r.err) {
				slog.Debug("File size probe failed", "path", filePath, "err", r.err)
			}
			return 0, false
		}
		if !r.info.Mode().IsRegular() {
			return 0, false
		}
		return r.info.Size(), true
	}
}

// resolve maps location to a filesystem path. Locations with a URL scheme
// other than file:// are not local.
func (p *Prober) resolve(location string) (string, bool) {
	if location == "" {
		return "", false
	}
	if strings.HasPrefix(location, "file://") {
		location = strings.TrimPrefix(location, "file://")
	} else if strings.Contains(location, "://") {
		return "", false
	}

	if p.baseDir != "" && !filepath.IsAbs(location) {
		location = filepath.Join(p.baseDir, location)
	}
	return location, true
}
