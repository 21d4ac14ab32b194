package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/templui/profiledesk/internal/keylock"
	"github.com/templui/profiledesk/internal/model"
	"github.com/templui/profiledesk/internal/repository"
	"github.com/templui/profiledesk/internal/storage"
	"github.com/templui/profiledesk/internal/validation"
)

const (
	maxFieldLength    = 200
	maxInterests      = 50
	maxInterestLength = 50
)

// ProfileUpdate carries the plain profile fields. Empty values are left unchanged.
type ProfileUpdate struct {
	Name     string
	FullName string
	Email    string
	Year     string
	Phone    string
	Mobile   string
	Address  string
}

// SocialLinksUpdate sets only the links that are non-nil, an empty string clears one.
type SocialLinksUpdate struct {
	GitHub    *string
	Twitter   *string
	Instagram *string
	Facebook  *string
}

type CertificateInput struct {
	Name        string
	Issuer      string
	Date        string
	Description string
	File        *model.Upload // optional
}

// ProfileService edits account records. It shares the per-account lock with
// PhotoService because every save writes the whole record.
type ProfileService struct {
	users        repository.UserRepository
	photos       *PhotoService
	certificates *storage.BlobStore
	locks        *keylock.Locker
	emailService *EmailService
	certRules    validation.FileConstraints
}

func NewProfileService(
	users repository.UserRepository,
	photos *PhotoService,
	certificates *storage.BlobStore,
	locks *keylock.Locker,
	emailService *EmailService,
	certificateMaxSize int64,
) *ProfileService {
	return &ProfileService{
		users:        users,
		photos:       photos,
		certificates: certificates,
		locks:        locks,
		emailService: emailService,
		certRules:    validation.CertificateConstraints.WithMaxSize(certificateMaxSize),
	}
}

// Profile returns the account with its public URLs filled in.
func (s *ProfileService) Profile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.ProfilePhotoURL = s.photos.PhotoURL(user.ProfilePhoto)
	for i := range user.Certificates {
		if ref := user.Certificates[i].FileRef; ref != "" {
			user.Certificates[i].FileURL = s.certificates.URL(ref)
		}
	}

	return user, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) error {
	in.Name = validation.NormalizeText(in.Name)
	in.FullName = validation.NormalizeText(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Year = strings.TrimSpace(in.Year)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Mobile = strings.TrimSpace(in.Mobile)
	in.Address = strings.TrimSpace(in.Address)

	if in.Name != "" {
		if err := validation.ValidateName(in.Name); err != nil {
			return withKind(ErrValidation, err)
		}
	}
	if in.FullName != "" {
		if err := validation.ValidateName(in.FullName); err != nil {
			return withKind(ErrValidation, err)
		}
	}
	if in.Email != "" {
		if err := validation.ValidateEmail(in.Email); err != nil {
			return withKind(ErrValidation, err)
		}
	}
	for field, value := range map[string]string{"year": in.Year, "phone": in.Phone, "mobile": in.Mobile, "address": in.Address} {
		if err := validation.ValidateField(field, value, maxFieldLength); err != nil {
			return withKind(ErrValidation, err)
		}
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	previousEmail := user.Email
	if in.Email != "" && in.Email != user.Email {
		other, err := s.users.ByEmail(ctx, in.Email)
		switch {
		case err == nil && other.ID != user.ID:
			return ErrUsernameOrEmailTaken
		case err != nil && !errors.Is(err, repository.ErrUserNotFound):
			return fmt.Errorf("failed to check email: %w", err)
		}
		user.Email = in.Email
	}

	setIfPresent(&user.Name, in.Name)
	setIfPresent(&user.FullName, in.FullName)
	setIfPresent(&user.Year, in.Year)
	setIfPresent(&user.Phone, in.Phone)
	setIfPresent(&user.Mobile, in.Mobile)
	setIfPresent(&user.Address, in.Address)

	err = s.save(ctx, user)
	if err != nil {
		return err
	}

	if user.Email != previousEmail && s.emailService != nil {
		err = s.emailService.SendEmailChangeNotification(ctx, previousEmail, user.Email, user.Name)
		if err != nil {
			slog.Warn("failed to send email change notification", "user_id", userID, "error", err)
		}
	}

	return nil
}

func (s *ProfileService) UpdateSocialLinks(ctx context.Context, userID string, in SocialLinksUpdate) (model.SocialLinks, error) {
	links := map[string]*string{"github": in.GitHub, "twitter": in.Twitter, "instagram": in.Instagram, "facebook": in.Facebook}
	for name, link := range links {
		if link == nil {
			continue
		}
		*link = strings.TrimSpace(*link)
		if err := validation.ValidateField(name, *link, maxFieldLength); err != nil {
			return model.SocialLinks{}, withKind(ErrValidation, err)
		}
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	user, err := s.load(ctx, userID)
	if err != nil {
		return model.SocialLinks{}, err
	}

	if in.GitHub != nil {
		user.SocialLinks.GitHub = *in.GitHub
	}
	if in.Twitter != nil {
		user.SocialLinks.Twitter = *in.Twitter
	}
	if in.Instagram != nil {
		user.SocialLinks.Instagram = *in.Instagram
	}
	if in.Facebook != nil {
		user.SocialLinks.Facebook = *in.Facebook
	}

	err = s.save(ctx, user)
	if err != nil {
		return model.SocialLinks{}, err
	}

	return user.SocialLinks, nil
}

// UpdateInterests replaces the interest list.
func (s *ProfileService) UpdateInterests(ctx context.Context, userID string, interests []model.Interest) (model.Interests, error) {
	if len(interests) > maxInterests {
		return nil, invalid("at most %d interests are allowed", maxInterests)
	}

	cleaned := make(model.Interests, 0, len(interests))
	for _, interest := range interests {
		interest.Name = validation.NormalizeText(interest.Name)
		interest.Icon = strings.TrimSpace(interest.Icon)
		if interest.Name == "" {
			return nil, invalid("interest name is required")
		}
		if err := validation.ValidateField("interest", interest.Name, maxInterestLength); err != nil {
			return nil, withKind(ErrValidation, err)
		}
		if err := validation.ValidateField("icon", interest.Icon, maxInterestLength); err != nil {
			return nil, withKind(ErrValidation, err)
		}
		cleaned = append(cleaned, interest)
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Interests = cleaned
	err = s.save(ctx, user)
	if err != nil {
		return nil, err
	}

	return user.Interests, nil
}

// AddCertificate appends a certificate, storing its file first when one is attached.
// The stored file is removed again if the record cannot be saved.
func (s *ProfileService) AddCertificate(ctx context.Context, userID string, in CertificateInput) (*model.Certificate, error) {
	in.Name = validation.NormalizeText(in.Name)
	in.Issuer = validation.NormalizeText(in.Issuer)
	in.Description = strings.TrimSpace(in.Description)

	if in.Name == "" || in.Issuer == "" || strings.TrimSpace(in.Date) == "" {
		return nil, invalid("name, issuer and date are required")
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, withKind(ErrValidation, err)
	}
	for field, value := range map[string]string{"name": in.Name, "issuer": in.Issuer, "description": in.Description} {
		if err := validation.ValidateField(field, value, maxFieldLength*5); err != nil {
			return nil, withKind(ErrValidation, err)
		}
	}
	if in.File != nil {
		if err := validation.ValidateFile(in.File, s.certRules); err != nil {
			return nil, withKind(ErrValidation, err)
		}
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	cert := model.Certificate{
		Name:        in.Name,
		Issuer:      in.Issuer,
		Date:        date,
		Description: in.Description,
	}

	if in.File != nil {
		ref, err := s.certificates.Write(ctx, in.File.Data, in.File.Ext())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStorageWrite, err)
		}
		cert.FileRef = ref
		cert.FileURL = s.certificates.URL(ref)
	}

	user, err := s.load(ctx, userID)
	if err == nil {
		user.Certificates = append(user.Certificates, cert)
		err = s.save(ctx, user)
	}
	if err != nil {
		if cert.FileRef != "" {
			delErr := s.certificates.Delete(context.WithoutCancel(ctx), cert.FileRef)
			if delErr != nil {
				slog.Error("failed to delete certificate file during rollback", "ref", cert.FileRef, "error", delErr)
			}
		}
		return nil, err
	}

	slog.Info("certificate added", "user_id", userID, "file", cert.FileRef)
	return &cert, nil
}

func (s *ProfileService) load(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.ByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *ProfileService) save(ctx context.Context, user *model.User) error {
	err := s.users.Update(ctx, user)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrUserNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicateUser):
		return ErrUsernameOrEmailTaken
	default:
		return fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}
}

func setIfPresent(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

var dateLayouts = []string{time.DateOnly, time.RFC3339, "2006-01"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
}
