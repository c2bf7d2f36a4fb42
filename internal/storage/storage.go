// Package storage keeps uploaded covers, PDFs and avatars on a Disk.
//
// Stored references always start with Prefix, e.g. "/uploads/3f2a….pdf". The
// same reference is used to reopen the file, whichever driver holds it.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Prefix marks a reference as a server-stored file.
const Prefix = "/uploads/"

var ErrNotStored = errors.New("storage: not a stored file reference")

// Disk is the driver interface.
type Disk interface {
	Put(ctx context.Context, name string, r io.Reader, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) bool
}

// Save writes r under a fresh collision-resistant name that keeps the
// extension of originalName, and returns the stored reference.
func Save(ctx context.Context, d Disk, originalName string, r io.Reader, contentType string) (string, error) {
	name := uuid.NewString() + strings.ToLower(path.Ext(originalName))
	if err := d.Put(ctx, name, r, contentType); err != nil {
		return "", err
	}
	return Prefix + name, nil
}

// IsStored reports whether ref points at a server-stored file.
func IsStored(ref string) bool {
	return strings.HasPrefix(ref, Prefix) && len(ref) > len(Prefix)
}

// NameOf strips Prefix from a stored reference and rejects anything that
// could escape the disk root.
func NameOf(ref string) (string, error) {
	if !IsStored(ref) {
		return "", ErrNotStored
	}
	name := strings.TrimPrefix(ref, Prefix)
	if name != path.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrNotStored, ref)
	}
	return name, nil
}

// OpenRef opens a stored reference.
func OpenRef(ctx context.Context, d Disk, ref string) (io.ReadCloser, error) {
	name, err := NameOf(ref)
	if err != nil {
		return nil, err
	}
	return d.Open(ctx, name)
}

// Release deletes a stored reference. External links are ignored.
func Release(ctx context.Context, d Disk, ref string) error {
	name, err := NameOf(ref)
	if err != nil {
		return nil
	}
	return d.Delete(ctx, name)
}

// FileURL turns a stored reference into an absolute URL on the serving host.
// Values that are already absolute URLs are returned unchanged.
func FileURL(scheme, host, ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return scheme + "://" + host + ref
}
