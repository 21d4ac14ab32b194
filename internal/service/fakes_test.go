package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/templui/profiledesk/internal/keylock"
	"github.com/templui/profiledesk/internal/model"
	"github.com/templui/profiledesk/internal/repository"
	"github.com/templui/profiledesk/internal/storage"
)

var errInjected = errors.New("injected failure")

// fakeUsers is an in-memory UserRepository with switchable failures.
type fakeUsers struct {
	mu    sync.Mutex
	users map[string]model.User

	updateErr   error
	dropUpdates bool // Update reports success without storing
	byIDCalls   int
	failByIDOn  int // 1-based call number that fails, 0 disables
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]model.User{}}
}

func clone(u model.User) *model.User {
	u.Certificates = append(model.Certificates(nil), u.Certificates...)
	u.Interests = append(model.Interests(nil), u.Interests...)
	return &u
}

func (f *fakeUsers) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicateUser
		}
	}
	f.users[user.ID] = *clone(*user)
	return nil
}

func (f *fakeUsers) ByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byIDCalls++
	if f.failByIDOn != 0 && f.byIDCalls == f.failByIDOn {
		return nil, errInjected
	}
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return clone(u), nil
}

func (f *fakeUsers) find(match func(model.User) bool) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			return clone(u), nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUsers) ByUsername(_ context.Context, username string) (*model.User, error) {
	return f.find(func(u model.User) bool { return u.Username == username })
}

func (f *fakeUsers) ByEmail(_ context.Context, email string) (*model.User, error) {
	return f.find(func(u model.User) bool { return u.Email == email })
}

func (f *fakeUsers) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	_, err := f.find(func(u model.User) bool { return u.Username == username || u.Email == email })
	if errors.Is(err, repository.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (f *fakeUsers) Update(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	for id, u := range f.users {
		if id != user.ID && (u.Username == user.Username || u.Email == user.Email) {
			return repository.ErrDuplicateUser
		}
	}
	if f.dropUpdates {
		return nil
	}
	f.users[user.ID] = *clone(*user)
	return nil
}

func (f *fakeUsers) get(t *testing.T, id string) model.User {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	require.True(t, ok, "user %s missing", id)
	return u
}

// faultyStorage wraps a real backend and injects failures per operation.
type faultyStorage struct {
	storage.Storage

	mu          sync.Mutex
	saveErr     error
	readErr     error
	corruptRead bool
	deleteErr   map[string]error
}

func (f *faultyStorage) Save(ctx context.Context, path string, data []byte) error {
	f.mu.Lock()
	err := f.saveErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.Storage.Save(ctx, path, data)
}

func (f *faultyStorage) Read(ctx context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	readErr, corrupt := f.readErr, f.corruptRead
	f.mu.Unlock()
	if readErr != nil {
		return nil, readErr
	}
	data, err := f.Storage.Read(ctx, path)
	if err == nil && corrupt && len(data) > 0 {
		data = append([]byte(nil), data[:len(data)-1]...)
	}
	return data, err
}

func (f *faultyStorage) Delete(ctx context.Context, path string) error {
	f.mu.Lock()
	err := f.deleteErr[path]
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.Storage.Delete(ctx, path)
}

func (f *faultyStorage) failDelete(ref string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr == nil {
		f.deleteErr = map[string]error{}
	}
	f.deleteErr[storage.ProfileFolder+"/"+ref] = errInjected
}

type fixture struct {
	users    *fakeUsers
	local    *storage.LocalStorage
	faulty   *faultyStorage
	photos   *PhotoService
	profiles *ProfileService
	userID   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	local, err := storage.NewLocalStorage(t.TempDir(), "/uploads", storage.ProfileFolder, storage.CertificateFolder)
	require.NoError(t, err)
	faulty := &faultyStorage{Storage: local}

	users := newFakeUsers()
	locks := keylock.New()
	photos := NewPhotoService(users, storage.NewBlobStore(faulty, storage.ProfileFolder), locks, 5<<20)
	profiles := NewProfileService(users, photos, storage.NewBlobStore(faulty, storage.CertificateFolder), locks,
		NewEmailService("", "noreply@example.com", "http://localhost:3000", "Profiledesk", true), 10<<20)

	f := &fixture{users: users, local: local, faulty: faulty, photos: photos, profiles: profiles}
	f.userID = f.addUser(t, "ana")
	return f
}

func (f *fixture) addUser(t *testing.T, username string) string {
	t.Helper()
	u := &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Name:         username,
		ProfilePhoto: model.DefaultProfilePhoto,
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u.ID
}

func (f *fixture) blobs(t *testing.T, folder string) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(f.local.Root(), folder))
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func (f *fixture) exists(t *testing.T, ref string) bool {
	t.Helper()
	ok, err := f.local.Exists(context.Background(), storage.ProfileFolder+"/"+ref)
	require.NoError(t, err)
	return ok
}

func pngUpload(tag string) *model.Upload {
	data := append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), tag...)
	return &model.Upload{Filename: "photo.png", ContentType: "image/png", Size: int64(len(data)), Data: data}
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}
