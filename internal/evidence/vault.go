// Package evidence stores attachment files on disk, content-addressed
// by upload, and hands back the metadata recorded on checklist items.
package evidence

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/obratrack/obratrack/internal/model"
)

// Vault is a directory of uploaded evidence files. Files are stored
// under their attachment ID so renames of the source never break refs.
type Vault struct {
	dir string
}

// NewVault opens (and creates if needed) the evidence directory.
func NewVault(dir string) (*Vault, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating evidence directory %s: %w", dir, err)
	}
	return &Vault{dir: dir}, nil
}

// Upload copies a file into the vault and returns the attachment
// metadata to record on the item: generated ID, size, SHA-256 of the
// stored bytes, and a content type guessed from the file extension.
func (v *Vault) Upload(path, uploadedBy string, now time.Time) (model.Attachment, error) {
	src, err := os.Open(path)
	if err != nil {
		return model.Attachment{}, fmt.Errorf("opening evidence file %s: %w", path, err)
	}
	defer src.Close()

	id := uuid.New().String()
	ext := filepath.Ext(path)
	dstPath := filepath.Join(v.dir, id+ext)

	dst, err := os.Create(dstPath)
	if err != nil {
		return model.Attachment{}, fmt.Errorf("creating evidence file %s: %w", dstPath, err)
	}
	defer dst.Close()

	hash := sha256.New()
	size, err := io.Copy(io.MultiWriter(dst, hash), src)
	if err != nil {
		os.Remove(dstPath)
		return model.Attachment{}, fmt.Errorf("copying evidence file %s: %w", path, err)
	}

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return model.Attachment{
		ID:          id,
		FileName:    filepath.Base(path),
		ContentType: contentType,
		Size:        size,
		SHA256:      hex.EncodeToString(hash.Sum(nil)),
		UploadedAt:  now,
		UploadedBy:  uploadedBy,
	}, nil
}

// Open returns a reader over a stored attachment's bytes. The caller
// closes it.
func (v *Vault) Open(ref model.Attachment) (io.ReadCloser, error) {
	path := filepath.Join(v.dir, ref.ID+filepath.Ext(ref.FileName))
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening attachment %s: %w", ref.ID, err)
	}
	return f, nil
}
