package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Folders used by the account services.
const (
	ProfileFolder     = "profiles"
	CertificateFolder = "certificates"
)

const writeAttempts = 3

var extPattern = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

// BlobStore hands out generated refs for blobs kept in one folder of a Storage.
// Refs are bare file names, never paths.
type BlobStore struct {
	storage Storage
	folder  string
	now     func() time.Time
}

func NewBlobStore(storage Storage, folder string) *BlobStore {
	return &BlobStore{
		storage: storage,
		folder:  folder,
		now:     time.Now,
	}
}

// Write stores data under a fresh ref of the form <unix-millis>-<hex><ext>.
// An existing object is never overwritten, a name collision draws a new ref.
func (b *BlobStore) Write(ctx context.Context, data []byte, ext string) (string, error) {
	ext = strings.ToLower(ext)
	if !extPattern.MatchString(ext) {
		ext = ""
	}

	var err error
	for range writeAttempts {
		ref := b.newRef(ext)
		err = b.storage.Save(ctx, b.key(ref), data)
		if err == nil {
			return ref, nil
		}
		if !errors.Is(err, ErrExists) {
			return "", err
		}
	}
	return "", fmt.Errorf("failed to allocate blob name: %w", err)
}

func (b *BlobStore) Read(ctx context.Context, ref string) ([]byte, error) {
	if err := ValidateRef(ref); err != nil {
		return nil, err
	}
	return b.storage.Read(ctx, b.key(ref))
}

func (b *BlobStore) Exists(ctx context.Context, ref string) (bool, error) {
	if err := ValidateRef(ref); err != nil {
		return false, err
	}
	return b.storage.Exists(ctx, b.key(ref))
}

// Delete is idempotent, an absent blob counts as deleted.
func (b *BlobStore) Delete(ctx context.Context, ref string) error {
	if err := ValidateRef(ref); err != nil {
		return err
	}
	return b.storage.Delete(ctx, b.key(ref))
}

func (b *BlobStore) URL(ref string) string {
	return b.storage.URL(b.key(ref))
}

func (b *BlobStore) key(ref string) string {
	return b.folder + "/" + ref
}

func (b *BlobStore) newRef(ext string) string {
	id := uuid.New()
	return fmt.Sprintf("%d-%x%s", b.now().UnixMilli(), id[:4], ext)
}

// ValidateRef rejects refs that could address anything outside their folder.
func ValidateRef(ref string) error {
	if ref == "" || ref == "." || ref == ".." ||
		strings.ContainsAny(ref, "/\\\x00") || strings.Contains(ref, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	return nil
}
