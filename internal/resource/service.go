package resource

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/quizforge/quizforge/internal/quiz"
	"github.com/quizforge/quizforge/internal/storage"
)

var (
	ErrLocked      = errors.New("you must pass the associated quiz to download this resource")
	ErrFileMissing = errors.New("file not found in storage")
)

// QuizGate is the slice of the quiz store the resource service depends on.
type QuizGate interface {
	Get(ctx context.Context, id string) (quiz.Quiz, error)
	HasPassedAttempt(ctx context.Context, userID, quizID string) (bool, error)
}

// Signer turns a blob key into a time-limited download URL.
type Signer interface {
	Sign(key string) string
}

type Service struct {
	store   Store
	quizzes QuizGate
	blobs   storage.BlobStore
	signer  Signer
	now     func() time.Time
}

func NewService(store Store, quizzes QuizGate, blobs storage.BlobStore, signer Signer) *Service {
	return &Service{store: store, quizzes: quizzes, blobs: blobs, signer: signer, now: time.Now}
}

// ListForUser returns every resource with its unlock state for this user.
// A resource is unlocked iff the user has at least one passed attempt on the
// owning quiz.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]ListItem, error) {
	resources, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]ListItem, 0, len(resources))
	for _, r := range resources {
		unlocked, err := s.quizzes.HasPassedAttempt(ctx, userID, r.QuizID)
		if err != nil {
			return nil, err
		}
		item := ListItem{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			FileName:    r.FileName,
			FileSize:    r.FileSize,
			UpdatedAt:   r.UpdatedAt,
			IsUnlocked:  unlocked,
		}
		if q, err := s.quizzes.Get(ctx, r.QuizID); err == nil {
			item.QuizTitle = q.Title
			item.QuizCategory = q.Category
		} else {
			item.QuizTitle = "Unknown Quiz"
			item.QuizCategory = "Unknown"
		}
		items = append(items, item)
	}
	return items, nil
}

// IssueDownload re-checks the unlock predicate at request time and only then
// signs a URL. Denials never leak a URL, and a dangling file key fails
// closed too. Successful issuance records the download.
func (s *Service) IssueDownload(ctx context.Context, userID, resourceID string) (DownloadGrant, error) {
	r, err := s.store.Get(ctx, resourceID)
	if err != nil {
		return DownloadGrant{}, err
	}

	passed, err := s.quizzes.HasPassedAttempt(ctx, userID, r.QuizID)
	if err != nil {
		return DownloadGrant{}, err
	}
	if !passed {
		return DownloadGrant{}, ErrLocked
	}

	ok, err := s.blobs.Exists(r.FileKey)
	if err != nil {
		return DownloadGrant{}, err
	}
	if !ok {
		return DownloadGrant{}, ErrFileMissing
	}

	if err := s.store.InsertDownload(ctx, Download{
		ID:           uuid.NewString(),
		UserID:       userID,
		ResourceID:   resourceID,
		DownloadedAt: s.now().UnixMilli(),
	}); err != nil {
		return DownloadGrant{}, err
	}

	return DownloadGrant{
		DownloadURL: s.signer.Sign(r.FileKey),
		FileName:    r.FileName,
	}, nil
}

func (s *Service) Create(ctx context.Context, r Resource) (Resource, error) {
	if _, err := s.quizzes.Get(ctx, r.QuizID); err != nil {
		return Resource{}, err
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := s.now().UnixMilli()
	r.CreatedAt = now
	r.UpdatedAt = now
	if err := s.store.Create(ctx, r); err != nil {
		return Resource{}, err
	}
	return r, nil
}

func (s *Service) Stats(ctx context.Context) (DownloadStats, error) {
	return s.store.DownloadStats(ctx)
}
