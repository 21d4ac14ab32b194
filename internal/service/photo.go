package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/templui/profiledesk/internal/keylock"
	"github.com/templui/profiledesk/internal/model"
	"github.com/templui/profiledesk/internal/repository"
	"github.com/templui/profiledesk/internal/storage"
	"github.com/templui/profiledesk/internal/validation"
)

// PhotoService owns the profile photo of an account. The record only ever
// points at the default avatar or at a blob that exists.
type PhotoService struct {
	users       repository.UserRepository
	blobs       *storage.BlobStore
	locks       *keylock.Locker
	constraints validation.FileConstraints
}

func NewPhotoService(users repository.UserRepository, blobs *storage.BlobStore, locks *keylock.Locker, maxSize int64) *PhotoService {
	return &PhotoService{
		users:       users,
		blobs:       blobs,
		locks:       locks,
		constraints: validation.ImageConstraints.WithMaxSize(maxSize),
	}
}

// ReplacePhoto stores upload as the account's new photo and returns its ref.
// On failure the account and the blob store are left as they were, apart
// from a superseded photo that could not be deleted (logged as orphaned).
func (s *PhotoService) ReplacePhoto(ctx context.Context, userID string, upload *model.Upload) (string, error) {
	err := validation.ValidateFile(upload, s.constraints)
	if err != nil {
		return "", withKind(ErrValidation, err)
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	log := slog.With("user_id", userID)

	ref, err := s.blobs.Write(ctx, upload.Data, upload.Ext())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}

	stored, err := s.blobs.Read(ctx, ref)
	if err != nil {
		s.discard(ctx, ref)
		return "", fmt.Errorf("%w: %w", ErrStorageIntegrity, err)
	}
	if !bytes.Equal(stored, upload.Data) {
		s.discard(ctx, ref)
		return "", fmt.Errorf("%w: read back %d of %d bytes", ErrStorageIntegrity, len(stored), len(upload.Data))
	}

	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		s.discard(ctx, ref)
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	previous := user.ProfilePhoto
	user.ProfilePhoto = ref

	err = s.users.Update(ctx, user)
	if err != nil {
		s.discard(ctx, ref)
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}

	saved, err := s.users.ByID(ctx, userID)
	if err != nil {
		// The record may reference ref, keep the blob.
		log.Error("could not verify profile photo update", "ref", ref, "error", err)
		return "", fmt.Errorf("%w: %w", ErrConsistency, err)
	}
	if saved.ProfilePhoto != ref {
		s.discard(ctx, ref)
		return "", fmt.Errorf("%w: profile photo is %q, expected %q", ErrConsistency, saved.ProfilePhoto, ref)
	}

	if previous != ref && model.IsCustomPhoto(previous) {
		err = s.blobs.Delete(context.WithoutCancel(ctx), previous)
		if err != nil {
			log.Warn("orphaned profile photo", "ref", previous, "error", err)
		}
	}

	log.Info("profile photo replaced", "ref", ref)
	return ref, nil
}

// RemovePhoto resets the account to the default avatar. Calling it again is a no-op.
func (s *PhotoService) RemovePhoto(ctx context.Context, userID string) error {
	unlock := s.locks.Lock(userID)
	defer unlock()

	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if !user.HasCustomPhoto() {
		return nil
	}
	previous := user.ProfilePhoto

	// Point the record at the default first so it never references a deleted blob.
	user.ProfilePhoto = model.DefaultProfilePhoto
	err = s.users.Update(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}

	err = s.blobs.Delete(context.WithoutCancel(ctx), previous)
	if err != nil {
		slog.Warn("orphaned profile photo", "user_id", userID, "ref", previous, "error", err)
	}

	slog.Info("profile photo removed", "user_id", userID, "ref", previous)
	return nil
}

// PhotoURL returns where ref can be fetched. The default avatar ships with the pages.
func (s *PhotoService) PhotoURL(ref string) string {
	if !model.IsCustomPhoto(ref) {
		return "/" + model.DefaultProfilePhoto
	}
	return s.blobs.URL(ref)
}

// discard removes a blob written by a failed workflow.
func (s *PhotoService) discard(ctx context.Context, ref string) {
	err := s.blobs.Delete(context.WithoutCancel(ctx), ref)
	if err != nil {
		slog.Error("failed to delete profile photo during rollback", "ref", ref, "error", err)
	}
}
