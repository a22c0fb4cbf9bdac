// Package staging copies the files the preview server depends on into a
// temporary directory before the server starts, and removes that
// directory again on exit.
package staging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var (
	ErrDirNotEmpty    = errors.New("staging directory is not empty")
	ErrInvalidMapping = errors.New("invalid staging mapping")
)

const tempDirPrefix = "docpreview-staging-"

// Dir is a staged directory. It is removed at most once.
type Dir struct {
	fs   afero.Fs
	path string
	log  *zap.Logger

	// created is set if Stage created the directory itself. Otherwise the
	// directory was empty before staging and only its entries are removed.
	created bool

	once sync.Once
	err  error
}

// Stage creates the staging directory and copies every configured mapping
// into it. Without a configured directory a fresh temporary directory is
// used. An existing directory is only accepted if it is empty. If copying
// fails, everything staged so far is removed again.
func Stage(ctx context.Context, fs afero.Fs, cfg Config, log *zap.Logger) (*Dir, error) {
	log = log.Named("staging")

	dir, err := prepare(fs, cfg.Dir)
	if err != nil {
		return nil, err
	}

	dir.log = log.With(zap.String("dir", dir.path))

	for _, m := range cfg.Copy {
		if err := ctx.Err(); err != nil {
			_ = dir.Remove()
			return nil, err
		}

		if err := dir.copy(ctx, m); err != nil {
			_ = dir.Remove()
			return nil, err
		}
	}

	dir.log.Info("staged files", zap.Int("mappings", len(cfg.Copy)))

	return dir, nil
}

func prepare(fs afero.Fs, path string) (*Dir, error) {
	if path == "" {
		tmp, err := afero.TempDir(fs, "", tempDirPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to create staging directory: %w", err)
		}
		return &Dir{fs: fs, path: tmp, created: true}, nil
	}

	exists, err := afero.DirExists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat staging directory: %w", err)
	}

	if exists {
		empty, err := afero.IsEmpty(fs, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read staging directory: %w", err)
		}
		if !empty {
			return nil, fmt.Errorf("%w: %s", ErrDirNotEmpty, path)
		}
		return &Dir{fs: fs, path: path}, nil
	}

	if err := fs.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}

	return &Dir{fs: fs, path: path, created: true}, nil
}

// Path returns the staged directory path.
func (d *Dir) Path() string {
	return d.path
}

// Remove deletes what Stage put in place: the whole directory if Stage
// created it, its entries otherwise. Only the first call touches the
// filesystem; later calls return the first result.
func (d *Dir) Remove() error {
	d.once.Do(func() {
		if d.created {
			d.err = d.fs.RemoveAll(d.path)
		} else {
			d.err = d.removeEntries()
		}
		if d.err != nil {
			d.log.Error("failed to remove staging directory", zap.Error(d.err))
			return
		}
		d.log.Info("removed staging directory")
	})

	return d.err
}

func (d *Dir) removeEntries() error {
	entries, err := afero.ReadDir(d.fs, d.path)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := d.fs.RemoveAll(filepath.Join(d.path, entry.Name())); err != nil {
			return err
		}
	}

	return nil
}

func (d *Dir) copy(ctx context.Context, m Mapping) error {
	if m.From == "" {
		return fmt.Errorf("%w: missing source", ErrInvalidMapping)
	}

	dst, err := d.destination(m)
	if err != nil {
		return err
	}

	info, err := d.fs.Stat(m.From)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", m.From, err)
	}

	if !info.IsDir() {
		return copyFile(d.fs, m.From, dst, info.Mode())
	}

	return afero.Walk(d.fs, m.From, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(m.From, path)
		if err != nil {
			return err
		}

		target := filepath.Join(dst, rel)

		if info.IsDir() {
			return d.fs.MkdirAll(target, 0o755)
		}

		return copyFile(d.fs, path, target, info.Mode())
	})
}

// destination resolves the mapping target inside the staging directory.
func (d *Dir) destination(m Mapping) (string, error) {
	to := m.To
	if to == "" {
		to = filepath.Base(m.From)
	}

	if filepath.IsAbs(to) {
		return "", fmt.Errorf("%w: %s is absolute", ErrInvalidMapping, to)
	}

	dst := filepath.Join(d.path, to)

	rel, err := filepath.Rel(d.path, dst)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s leaves the staging directory", ErrInvalidMapping, to)
	}

	return dst, nil
}

func copyFile(fs afero.Fs, src, dst string, mode os.FileMode) error {
	if err := fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}

	return out.Close()
}
