package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AnshRaj112/lingua-backend/internal/middleware"
	"github.com/AnshRaj112/lingua-backend/internal/models"
	"github.com/AnshRaj112/lingua-backend/internal/services"
)

type fakeUploader struct {
	got    []byte
	userID string
	err    error
}

func (f *fakeUploader) UploadProfilePic(_ context.Context, file io.Reader, userID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	f.got = b
	f.userID = userID
	return "https://res.cloudinary.com/demo/image/upload/lingua/avatars/" + userID + ".png", nil
}

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func multipartRequest(t *testing.T, user *models.User, field string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "avatar.png")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/users/profile-pic", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if user != nil {
		req = req.WithContext(middleware.WithUser(req.Context(), user))
	}
	return req
}

func newUploadFixture(t *testing.T) (*services.MemoryUserStore, *models.User, *fakePresence) {
	t.Helper()
	store := services.NewMemoryUserStore()
	u := &models.User{Email: "ana@example.com", FullName: "Ana", Password: "$argon2id$x", ProfilePic: services.AvatarURL(7)}
	require.NoError(t, store.Create(context.Background(), u))
	return store, u, &fakePresence{}
}

func TestUploadProfilePic_Success(t *testing.T) {
	store, u, presence := newUploadFixture(t)
	uploader := &fakeUploader{}
	h := NewUserHandler(store, uploader, presence, zap.NewNop())

	rec := httptest.NewRecorder()
	h.UploadProfilePic(rec, multipartRequest(t, u, "file", pngHeader))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, pngHeader, uploader.got)
	assert.Equal(t, u.ID.Hex(), uploader.userID)

	var body struct {
		Success bool        `json:"success"`
		User    models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.User.ProfilePic, "res.cloudinary.com")
	assert.NotContains(t, rec.Body.String(), "argon2id")

	stored, err := store.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, body.User.ProfilePic, stored.ProfilePic)

	calls := presence.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, stored.ProfilePic, calls[0].Image)
}

func TestUploadProfilePic_Rejections(t *testing.T) {
	store, u, presence := newUploadFixture(t)

	t.Run("not configured", func(t *testing.T) {
		h := NewUserHandler(store, nil, presence, zap.NewNop())
		rec := httptest.NewRecorder()
		h.UploadProfilePic(rec, multipartRequest(t, u, "file", pngHeader))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("wrong field", func(t *testing.T) {
		h := NewUserHandler(store, &fakeUploader{}, presence, zap.NewNop())
		rec := httptest.NewRecorder()
		h.UploadProfilePic(rec, multipartRequest(t, u, "image", pngHeader))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "No file provided", decodeBody(t, rec)["message"])
	})

	t.Run("not an image", func(t *testing.T) {
		h := NewUserHandler(store, &fakeUploader{}, presence, zap.NewNop())
		rec := httptest.NewRecorder()
		h.UploadProfilePic(rec, multipartRequest(t, u, "file", []byte("#!/bin/sh\necho hi\n")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Only image files are allowed", decodeBody(t, rec)["message"])
	})

	t.Run("upload fails", func(t *testing.T) {
		h := NewUserHandler(store, &fakeUploader{err: errors.New("cloudinary 500")}, presence, zap.NewNop())
		rec := httptest.NewRecorder()
		h.UploadProfilePic(rec, multipartRequest(t, u, "file", pngHeader))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to upload profile picture", decodeBody(t, rec)["message"])
	})

	t.Run("no caller", func(t *testing.T) {
		h := NewUserHandler(store, &fakeUploader{}, presence, zap.NewNop())
		rec := httptest.NewRecorder()
		h.UploadProfilePic(rec, multipartRequest(t, nil, "file", pngHeader))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	assert.Empty(t, presence.calls())
}
