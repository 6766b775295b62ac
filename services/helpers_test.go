package services

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go-blog-backend/database"
	"go-blog-backend/models"
	"go-blog-backend/storage"

	"github.com/stretchr/testify/require"
)

type event struct {
	topic   string
	payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event
}

func (p *recordingPublisher) Publish(topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event{topic, payload})
	return nil
}

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.topic)
	}
	return out
}

type testEnv struct {
	store   *database.Store
	uploads *storage.Uploads
	events  *recordingPublisher
	auth    *AuthService
	posts   *PostService
	profile *ProfileService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	store, err := database.Open(filepath.Join(dir, "test.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	uploads, err := storage.NewUploads(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	events := &recordingPublisher{}
	return &testEnv{
		store:   store,
		uploads: uploads,
		events:  events,
		auth:    NewAuthService(store, "test-secret", 24*time.Hour),
		posts:   NewPostService(store, uploads, events),
		profile: NewProfileService(store, uploads),
	}
}

func (e *testEnv) register(t *testing.T, name, email, password string) *models.User {
	t.Helper()
	user, err := e.auth.Register(context.Background(), RegisterInput{
		Name: name, Email: email, Password: password, ConfirmPassword: password,
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) reloadUser(t *testing.T, id string) *models.User {
	t.Helper()
	user, err := e.profile.GetUser(context.Background(), id)
	require.NoError(t, err)
	return user
}

func fakeImage(name string, size int) *storage.Upload {
	data := bytes.Repeat([]byte{0xAB}, size)
	return &storage.Upload{Filename: name, Size: int64(size), Reader: bytes.NewReader(data)}
}

func validPost() PostInput {
	return PostInput{Title: "T", Category: "Art", Description: "twelve chars minimum"}
}
