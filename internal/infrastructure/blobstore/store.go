// Package blobstore persists opaque byte streams as files under a single
// root directory. Stored names are generated server-side and every path is
// re-verified to stay inside the root before any filesystem access.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bionicotaku/lingo-services-media/internal/models/po"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// Sentinel errors returned by the store. Anything else is an infrastructure
// failure (disk, permissions) and is returned wrapped.
var (
	// ErrEmptyFile is returned when the source stream carries no bytes.
	ErrEmptyFile = errors.New("blobstore: file is empty")
	// ErrPathEscape is returned when a resolved path would leave the root.
	ErrPathEscape = errors.New("blobstore: path escapes storage root")
	// ErrNotFound is returned when no readable blob exists at a stored name.
	ErrNotFound = errors.New("blobstore: blob not found")
)

const defaultContentType = "application/octet-stream"

// Config carries the storage root location.
type Config struct {
	Root string
}

// Store owns the root directory and all reads/writes beneath it.
type Store struct {
	root string // absolute, cleaned
	log  *log.Helper
}

// NewStore builds a Store rooted at cfg.Root. The directory is created by
// Init, not here, so construction never touches the disk.
func NewStore(cfg Config, logger log.Logger) (*Store, error) {
	if strings.TrimSpace(cfg.Root) == "" {
		return nil, errors.New("blobstore: storage root must not be empty")
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	return &Store{
		root: filepath.Clean(root),
		log:  log.NewHelper(logger),
	}, nil
}

// Root returns the absolute storage root.
func (s *Store) Root() string { return s.root }

// Init ensures the root directory exists, creating parents as needed.
func (s *Store) Init(ctx context.Context) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("initialize storage root %s: %w", s.root, err)
	}
	s.log.WithContext(ctx).Infof("blob store ready: root=%s", s.root)
	return nil
}

// Store copies src into a new blob under the root and returns its
// descriptor. The blob is written to a temp file first and published with a
// rename so a concurrent Resolve never observes a partial file. On any
// failure the temp file is removed and no blob remains.
func (s *Store) Store(ctx context.Context, src io.Reader, originalName, contentType string, sizeHint int64) (*po.StoredFile, error) {
	if src == nil || sizeHint == 0 {
		return nil, ErrEmptyFile
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	original := sanitizeFilename(originalName)
	stored := uuid.New().String() + "-" + original

	dest, err := s.resolveWithinRoot(stored)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	written, err := io.Copy(tmp, src)
	if err == nil && written == 0 {
		err = ErrEmptyFile
	}
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close temp file: %w", closeErr)
	}
	if err == nil {
		err = os.Rename(tmpName, dest)
	}
	if err != nil {
		if rmErr := os.Remove(tmpName); rmErr != nil && !os.IsNotExist(rmErr) {
			s.log.WithContext(ctx).Warnf("cleanup temp file failed: path=%s err=%v", tmpName, rmErr)
		}
		if errors.Is(err, ErrEmptyFile) {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("store blob %s: %w", stored, err)
	}

	if contentType == "" {
		contentType = defaultContentType
	}

	s.log.WithContext(ctx).Debugf("blob stored: name=%s size=%d", stored, written)
	return &po.StoredFile{
		OriginalFilename: original,
		StoredFilename:   stored,
		ContentType:      contentType,
		SizeBytes:        written,
		FilePath:         dest,
	}, nil
}

// Resolve opens the blob at storedName for streaming reads. Stored names may
// originate from persisted records, so retrieval applies the same
// normalize-and-verify check as storage before touching the filesystem.
func (s *Store) Resolve(storedName string) (*Resource, error) {
	path, err := s.resolveWithinRoot(storedName)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) || os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, storedName)
		}
		return nil, fmt.Errorf("open blob %s: %w", storedName, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat blob %s: %w", storedName, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, storedName)
	}

	return &Resource{file: f, size: info.Size()}, nil
}

// resolveWithinRoot joins name against the root, normalizes the result and
// verifies it is still a strict descendant of the root. Crafted names with
// ".." segments or absolute-path tricks fail with ErrPathEscape before any
// filesystem access.
func (s *Store) resolveWithinRoot(name string) (string, error) {
	if filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return "", fmt.Errorf("%w: %q", ErrPathEscape, name)
	}
	dest := filepath.Join(s.root, name)
	abs, err := filepath.Abs(dest)
	if err != nil {
		return "", fmt.Errorf("normalize path: %w", err)
	}
	abs = filepath.Clean(abs)
	if !strings.HasPrefix(abs, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrPathEscape, name)
	}
	return abs, nil
}

// sanitizeFilename replaces path separators with underscores so the original
// name can never act as a path component, mirroring the stored-name contract.
func sanitizeFilename(name string) string {
	if name == "" {
		return "file"
	}
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	return name
}

// Resource is a readable handle over a stored blob. Callers own the handle
// and must Close it on every exit path.
type Resource struct {
	file *os.File
	size int64
}

// Read implements io.Reader.
func (r *Resource) Read(p []byte) (int, error) { return r.file.Read(p) }

// Close releases the underlying file.
func (r *Resource) Close() error { return r.file.Close() }

// Size returns the blob length in bytes.
func (r *Resource) Size() int64 { return r.size }
