// Package upload validates product image uploads and stores them on local disk.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"

	"github.com/mrengworks/catalog/internal/catalog"
	"github.com/mrengworks/catalog/internal/config"
	"github.com/mrengworks/catalog/internal/uniuri"
)

const (
	// MsgNotImage is the client message for a rejected file type.
	MsgNotImage = "Only image files are allowed"
	// MsgTooLarge is the client message for a file over the size ceiling.
	MsgTooLarge = "File size too large. Max 5MB"

	dirPerm  = 0o755
	filePerm = 0o644
)

var (
	// ErrNotImage is returned for files that are not jpeg, png, gif or webp images.
	ErrNotImage = catalog.NewValidationError(MsgNotImage)
	// ErrTooLarge is returned for files above the configured size ceiling.
	ErrTooLarge = catalog.NewValidationError(MsgTooLarge)

	allowedExt = map[string]string{
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".gif":  "image/gif",
		".webp": "image/webp",
	}
)

// Storage writes validated images below a directory and maps them to URL references.
type Storage struct {
	dir       string
	urlPrefix string
	maxSize   int64
	maxFiles  int
}

// New creates the upload directory if needed and returns a Storage for it.
func New(cfg config.Upload) (*Storage, error) {
	if err := os.MkdirAll(cfg.Dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	return &Storage{
		dir:       cfg.Dir,
		urlPrefix: cfg.URLPrefix,
		maxSize:   cfg.MaxFileSize,
		maxFiles:  cfg.MaxFiles,
	}, nil
}

// Dir returns the directory files are written to.
func (s *Storage) Dir() string {
	return s.dir
}

// URLPrefix returns the path prefix the stored files are served under.
func (s *Storage) URLPrefix() string {
	return s.urlPrefix
}

// Validate checks count, size, extension and sniffed content of every file.
// Nothing is written.
func (s *Storage) Validate(files []*multipart.FileHeader) error {
	if s.maxFiles > 0 && len(files) > s.maxFiles {
		return catalog.NewValidationError(fmt.Sprintf("Too many files. Max %d", s.maxFiles))
	}

	for _, fh := range files {
		if err := s.validateFile(fh); err != nil {
			return err
		}
	}

	return nil
}

func (s *Storage) validateFile(fh *multipart.FileHeader) error {
	if s.maxSize > 0 && fh.Size > s.maxSize {
		return ErrTooLarge
	}

	want, ok := allowedExt[strings.ToLower(filepath.Ext(fh.Filename))]
	if !ok {
		return ErrNotImage
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload %q: %w", fh.Filename, err)
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return fmt.Errorf("failed to sniff upload %q: %w", fh.Filename, err)
	}

	if !mtype.Is(want) {
		log.Debug().Str("file", fh.Filename).Str("detected", mtype.String()).Msg("rejected upload")
		return ErrNotImage
	}

	return nil
}

// Save validates files and writes them under random names. It returns the
// URL references in the order of files. On error no file is left behind.
func (s *Storage) Save(files []*multipart.FileHeader) ([]string, error) {
	if err := s.Validate(files); err != nil {
		return nil, err
	}

	refs := make([]string, 0, len(files))

	for _, fh := range files {
		ref, err := s.saveFile(fh)
		if err != nil {
			s.Remove(refs)
			return nil, err
		}

		refs = append(refs, ref)
	}

	return refs, nil
}

func (s *Storage) saveFile(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload %q: %w", fh.Filename, err)
	}
	defer src.Close()

	name := uniuri.FileName(filepath.Ext(fh.Filename))

	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		return "", fmt.Errorf("failed to create %q: %w", name, err)
	}

	if _, err = io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())

		return "", fmt.Errorf("failed to write %q: %w", name, err)
	}

	if err = dst.Close(); err != nil {
		return "", fmt.Errorf("failed to close %q: %w", name, err)
	}

	return path.Join(s.urlPrefix, name), nil
}

// Remove deletes the files behind refs. Refs outside the prefix are ignored.
func (s *Storage) Remove(refs []string) {
	for _, ref := range refs {
		name := strings.TrimPrefix(ref, s.urlPrefix+"/")
		if name == ref || name == "" || strings.ContainsAny(name, `/\`) {
			continue
		}

		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("ref", ref).Msg("failed to remove upload")
		}
	}
}
