package resource

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/quizforge/internal/quiz"
)

type fakeStore struct {
	resources map[string]Resource
	downloads []Download
}

func newFakeStore(rs ...Resource) *fakeStore {
	fs := &fakeStore{resources: map[string]Resource{}}
	for _, r := range rs {
		fs.resources[r.ID] = r
	}
	return fs
}

func (f *fakeStore) Create(_ context.Context, r Resource) error {
	f.resources[r.ID] = r
	return nil
}

func (f *fakeStore) Get(_ context.Context, id string) (Resource, error) {
	r, ok := f.resources[id]
	if !ok {
		return Resource{}, ErrResourceNotFound
	}
	return r, nil
}

func (f *fakeStore) List(_ context.Context) ([]Resource, error) {
	var out []Resource
	for _, r := range f.resources {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) InsertDownload(_ context.Context, d Download) error {
	f.downloads = append(f.downloads, d)
	return nil
}

func (f *fakeStore) DownloadStats(_ context.Context) (DownloadStats, error) {
	return DownloadStats{TotalDownloads: len(f.downloads)}, nil
}

type fakeGate struct {
	quizzes map[string]quiz.Quiz
	passed  map[string]bool // "userID/quizID"
}

func (f *fakeGate) Get(_ context.Context, id string) (quiz.Quiz, error) {
	q, ok := f.quizzes[id]
	if !ok {
		return quiz.Quiz{}, quiz.ErrQuizNotFound
	}
	return q, nil
}

func (f *fakeGate) HasPassedAttempt(_ context.Context, userID, quizID string) (bool, error) {
	return f.passed[userID+"/"+quizID], nil
}

type fakeBlobs map[string][]byte

func (f fakeBlobs) Put(key string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f[key] = data
	return key, nil
}

func (f fakeBlobs) Get(key string) (io.ReadCloser, error) {
	data, ok := f[key]
	if !ok {
		return nil, io.EOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f fakeBlobs) Exists(key string) (bool, error) {
	_, ok := f[key]
	return ok, nil
}

type fakeSigner struct{}

func (fakeSigner) Sign(key string) string { return "https://files.test/" + key + "?sig=x" }

func testFixture() (*fakeStore, *fakeGate, fakeBlobs, *Service) {
	store := newFakeStore(Resource{
		ID:       "res-1",
		QuizID:   "quiz-1",
		Title:    "Python Cheat Sheet",
		FileKey:  "resources/abc/cheatsheet.pdf",
		FileName: "cheatsheet.pdf",
		FileSize: "1.2 MB",
	})
	gate := &fakeGate{
		quizzes: map[string]quiz.Quiz{
			"quiz-1": {ID: "quiz-1", Title: "Python Fundamentals", Category: "python"},
		},
		passed: map[string]bool{},
	}
	blobs := fakeBlobs{"resources/abc/cheatsheet.pdf": []byte("pdf")}
	svc := NewService(store, gate, blobs, fakeSigner{})
	return store, gate, blobs, svc
}

func TestListForUserLockedAndUnlocked(t *testing.T) {
	_, gate, _, svc := testFixture()

	items, err := svc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].IsUnlocked)
	assert.Equal(t, "Python Fundamentals", items[0].QuizTitle)
	assert.Equal(t, "python", items[0].QuizCategory)

	gate.passed["u1/quiz-1"] = true
	items, err = svc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, items[0].IsUnlocked)
}

func TestListForUserUnknownQuizFallback(t *testing.T) {
	store, gate, _, svc := testFixture()
	store.resources["res-2"] = Resource{ID: "res-2", QuizID: "gone", Title: "Orphan"}
	_ = gate

	items, err := svc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	for _, it := range items {
		if it.ID == "res-2" {
			assert.Equal(t, "Unknown Quiz", it.QuizTitle)
			assert.Equal(t, "Unknown", it.QuizCategory)
		}
	}
}

func TestIssueDownloadDeniedWithoutPass(t *testing.T) {
	store, _, _, svc := testFixture()

	grant, err := svc.IssueDownload(context.Background(), "u1", "res-1")
	assert.ErrorIs(t, err, ErrLocked)
	assert.Empty(t, grant.DownloadURL)
	assert.Empty(t, store.downloads)
}

func TestIssueDownloadAfterPass(t *testing.T) {
	store, gate, _, svc := testFixture()
	gate.passed["u1/quiz-1"] = true

	grant, err := svc.IssueDownload(context.Background(), "u1", "res-1")
	require.NoError(t, err)
	assert.Contains(t, grant.DownloadURL, "resources/abc/cheatsheet.pdf")
	assert.Equal(t, "cheatsheet.pdf", grant.FileName)

	require.Len(t, store.downloads, 1)
	assert.Equal(t, "u1", store.downloads[0].UserID)
	assert.Equal(t, "res-1", store.downloads[0].ResourceID)
}

func TestIssueDownloadMissingFileFailsClosed(t *testing.T) {
	store, gate, blobs, svc := testFixture()
	gate.passed["u1/quiz-1"] = true
	delete(blobs, "resources/abc/cheatsheet.pdf")

	_, err := svc.IssueDownload(context.Background(), "u1", "res-1")
	assert.ErrorIs(t, err, ErrFileMissing)
	assert.Empty(t, store.downloads)
}

func TestIssueDownloadUnknownResource(t *testing.T) {
	_, _, _, svc := testFixture()
	_, err := svc.IssueDownload(context.Background(), "u1", "nope")
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestCreateRequiresExistingQuiz(t *testing.T) {
	_, _, _, svc := testFixture()

	_, err := svc.Create(context.Background(), Resource{QuizID: "gone", Title: "x", FileKey: "k"})
	assert.ErrorIs(t, err, quiz.ErrQuizNotFound)

	r, err := svc.Create(context.Background(), Resource{QuizID: "quiz-1", Title: "Guide", FileKey: "k"})
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.NotZero(t, r.CreatedAt)
	assert.Equal(t, r.CreatedAt, r.UpdatedAt)
}
