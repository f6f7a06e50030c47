package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/qrmenu-backend/internal/blob"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/errs"
	"github.com/magabrotheeeer/qrmenu-backend/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateUpload(ctx context.Context, upload models.Upload) error {
	return m.Called(ctx, upload).Error(0)
}

func (m *RepoMock) ReplaceUpload(ctx context.Context, upload models.Upload) error {
	return m.Called(ctx, upload).Error(0)
}

func (m *RepoMock) DeleteUpload(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type BlobMock struct{ mock.Mock }

func (m *BlobMock) Put(ctx context.Context, filename, contentType string, size int64, r io.Reader) (*blob.Object, error) {
	args := m.Called(ctx, filename, contentType, size, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blob.Object), args.Error(1)
}

func (m *BlobMock) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type QRCacheMock struct{ mock.Mock }

func (m *QRCacheMock) Invalidate(ctx context.Context, uploadID string) error {
	return m.Called(ctx, uploadID).Error(0)
}

type AuthMock struct{ mock.Mock }

func (m *AuthMock) AuthorizeRestaurant(ctx context.Context, subject, restaurantID string) error {
	return m.Called(ctx, subject, restaurantID).Error(0)
}

func (m *AuthMock) AuthorizeUpload(ctx context.Context, subject, restaurantID, uploadID string) (*models.UploadChain, error) {
	args := m.Called(ctx, subject, restaurantID, uploadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UploadChain), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestUploadService_Create(t *testing.T) {
	repo := new(RepoMock)
	blobs := new(BlobMock)
	auth := new(AuthMock)
	qrcache := new(QRCacheMock)
	svc := NewUploadService(repo, blobs, auth, qrcache, newNoopLogger())

	body := strings.NewReader("pdf-bytes")
	auth.On("AuthorizeRestaurant", mock.Anything, "auth0|alice", "rest-1").Return(nil).Once()
	blobs.On("Put", mock.Anything, "menu.pdf", "application/pdf", int64(9), body).
		Return(&blob.Object{Key: "menu.pdf_1700000000000", StorageURL: "https://s3/bucket/menu.pdf_1700000000000", CDNURL: "https://cdn/menu.pdf_1700000000000"}, nil).Once()
	repo.On("CreateUpload", mock.Anything, mock.MatchedBy(func(u models.Upload) bool {
		return u.RestaurantID == "rest-1" && u.StorageKey == "menu.pdf_1700000000000" && u.DocType == "pdf"
	})).Return(nil).Once()

	upload, err := svc.Create(context.Background(), "auth0|alice", "rest-1", "menu.pdf", "pdf", "application/pdf", 9, body)
	require.NoError(t, err)
	assert.NotEmpty(t, upload.ID)
	assert.Equal(t, "https://cdn/menu.pdf_1700000000000", upload.CDNURL)

	repo.AssertExpectations(t)
	blobs.AssertExpectations(t)
}

func TestUploadService_Create_ForeignRestaurantDoesNotTouchBlobStore(t *testing.T) {
	repo := new(RepoMock)
	blobs := new(BlobMock)
	auth := new(AuthMock)
	qrcache := new(QRCacheMock)
	svc := NewUploadService(repo, blobs, auth, qrcache, newNoopLogger())

	auth.On("AuthorizeRestaurant", mock.Anything, "auth0|mallory", "rest-1").Return(errs.ErrForbidden).Once()

	_, err := svc.Create(context.Background(), "auth0|mallory", "rest-1", "menu.pdf", "pdf", "application/pdf", 9, strings.NewReader("x"))
	assert.ErrorIs(t, err, errs.ErrForbidden)

	blobs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "CreateUpload", mock.Anything, mock.Anything)
}

func TestUploadService_Replace_KeepsIDAndDeletesOldBlob(t *testing.T) {
	repo := new(RepoMock)
	blobs := new(BlobMock)
	auth := new(AuthMock)
	qrcache := new(QRCacheMock)
	svc := NewUploadService(repo, blobs, auth, qrcache, newNoopLogger())

	chain := &models.UploadChain{
		Upload:       models.Upload{ID: "up-1", StorageKey: "old-key", RestaurantID: "rest-1"},
		RestaurantID: "rest-1",
		AccountID:    "auth0|alice",
	}
	body := strings.NewReader("new-bytes")

	auth.On("AuthorizeUpload", mock.Anything, "auth0|alice", "rest-1", "up-1").Return(chain, nil).Once()
	blobs.On("Put", mock.Anything, "menu-v2.png", "image/png", int64(9), body).
		Return(&blob.Object{Key: "new-key", StorageURL: "https://s3/bucket/new-key", CDNURL: "https://cdn/new-key"}, nil).Once()
	repo.On("ReplaceUpload", mock.Anything, mock.MatchedBy(func(u models.Upload) bool {
		return u.ID == "up-1" && u.StorageKey == "new-key"
	})).Return(nil).Once()
	blobs.On("Delete", mock.Anything, "old-key").Return(nil).Once()

	upload, err := svc.Replace(context.Background(), "auth0|alice", "rest-1", "up-1", "menu-v2.png", "image", "image/png", 9, body)
	require.NoError(t, err)
	assert.Equal(t, "up-1", upload.ID)

	repo.AssertExpectations(t)
	blobs.AssertExpectations(t)
}

func TestUploadService_Remove(t *testing.T) {
	repo := new(RepoMock)
	blobs := new(BlobMock)
	auth := new(AuthMock)
	qrcache := new(QRCacheMock)
	svc := NewUploadService(repo, blobs, auth, qrcache, newNoopLogger())

	chain := &models.UploadChain{
		Upload:       models.Upload{ID: "up-1", StorageKey: "old-key", RestaurantID: "rest-1"},
		RestaurantID: "rest-1",
		AccountID:    "auth0|alice",
	}
	auth.On("AuthorizeUpload", mock.Anything, "auth0|alice", "rest-1", "up-1").Return(chain, nil).Once()
	blobs.On("Delete", mock.Anything, "old-key").Return(nil).Once()
	repo.On("DeleteUpload", mock.Anything, "up-1").Return(nil).Once()
	qrcache.On("Invalidate", mock.Anything, "up-1").Return(nil).Once()

	err := svc.Remove(context.Background(), "auth0|alice", "rest-1", "up-1")
	require.NoError(t, err)

	repo.AssertExpectations(t)
	blobs.AssertExpectations(t)
	qrcache.AssertExpectations(t)
}

func TestUploadService_Remove_CacheFailureDoesNotFailRemoval(t *testing.T) {
	repo := new(RepoMock)
	blobs := new(BlobMock)
	auth := new(AuthMock)
	qrcache := new(QRCacheMock)
	svc := NewUploadService(repo, blobs, auth, qrcache, newNoopLogger())

	chain := &models.UploadChain{
		Upload:       models.Upload{ID: "up-1", StorageKey: "old-key", RestaurantID: "rest-1"},
		RestaurantID: "rest-1",
		AccountID:    "auth0|alice",
	}
	auth.On("AuthorizeUpload", mock.Anything, "auth0|alice", "rest-1", "up-1").Return(chain, nil).Once()
	blobs.On("Delete", mock.Anything, "old-key").Return(nil).Once()
	repo.On("DeleteUpload", mock.Anything, "up-1").Return(nil).Once()
	qrcache.On("Invalidate", mock.Anything, "up-1").Return(errors.New("redis down")).Once()

	err := svc.Remove(context.Background(), "auth0|alice", "rest-1", "up-1")
	require.NoError(t, err)
}

func TestUploadService_Remove_UnknownUpload(t *testing.T) {
	repo := new(RepoMock)
	blobs := new(BlobMock)
	auth := new(AuthMock)
	qrcache := new(QRCacheMock)
	svc := NewUploadService(repo, blobs, auth, qrcache, newNoopLogger())

	auth.On("AuthorizeUpload", mock.Anything, "auth0|alice", "rest-1", "up-x").Return(nil, errs.ErrNotFound).Once()

	err := svc.Remove(context.Background(), "auth0|alice", "rest-1", "up-x")
	assert.ErrorIs(t, err, errs.ErrNotFound)
	blobs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	qrcache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}
