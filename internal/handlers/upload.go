package handlers

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/AnshRaj112/lingua-backend/internal/apperror"
	"github.com/AnshRaj112/lingua-backend/internal/middleware"
	"github.com/AnshRaj112/lingua-backend/internal/services"
)

const maxProfilePicSize = 5 << 20 // 5MB

type UserHandler struct {
	users    services.UserStore
	uploader services.ProfilePicUploader
	presence services.PresenceSyncer
	logger   *zap.Logger
}

// NewUserHandler builds the profile handlers. uploader may be nil when no
// image host is configured.
func NewUserHandler(users services.UserStore, uploader services.ProfilePicUploader, presence services.PresenceSyncer, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, uploader: uploader, presence: presence, logger: logger}
}

// UploadProfilePic replaces the caller's profile picture with an uploaded image.
func (h *UserHandler) UploadProfilePic(w http.ResponseWriter, r *http.Request) {
	const failure = "Failed to upload profile picture"

	if h.uploader == nil {
		writeError(w, r, h.logger, apperror.NewUnavailableError("File uploads are not available"), failure)
		return
	}

	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, apperror.NewAuthenticationError("Unauthorized - No token provided", nil), failure)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxProfilePicSize+1<<10)
	if err := r.ParseMultipartForm(maxProfilePicSize); err != nil {
		writeError(w, r, h.logger, apperror.NewValidationError("Invalid multipart form"), failure)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, h.logger, apperror.NewValidationError("No file provided"), failure)
		return
	}
	defer file.Close()

	if header.Size > maxProfilePicSize {
		writeError(w, r, h.logger, apperror.NewValidationError("File must be at most 5MB"), failure)
		return
	}

	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		writeError(w, r, h.logger, err, failure)
		return
	}
	if !isImage(http.DetectContentType(sniff[:n])) {
		writeError(w, r, h.logger, apperror.NewValidationError("Only image files are allowed"), failure)
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		writeError(w, r, h.logger, err, failure)
		return
	}

	url, err := h.uploader.UploadProfilePic(r.Context(), file, caller.ID.Hex())
	if err != nil {
		writeError(w, r, h.logger, err, failure)
		return
	}

	updated, err := h.users.UpdateProfilePic(r.Context(), caller.ID, url)
	if errors.Is(err, services.ErrUserNotFound) {
		writeError(w, r, h.logger, apperror.NewNotFoundError("User not found", err), failure)
		return
	}
	if err != nil {
		writeError(w, r, h.logger, err, failure)
		return
	}

	syncUser(r.Context(), h.presence, h.logger, updated, "profile-pic")

	redacted := updated.Redacted()
	writeJSON(w, http.StatusOK, envelope{"success": true, "user": redacted})
}

func isImage(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}
