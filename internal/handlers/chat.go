package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/AnshRaj112/lingua-backend/internal/apperror"
	"github.com/AnshRaj112/lingua-backend/internal/middleware"
	"github.com/AnshRaj112/lingua-backend/internal/services"
)

type ChatHandler struct {
	presence services.PresenceSyncer
	logger   *zap.Logger
}

func NewChatHandler(presence services.PresenceSyncer, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{presence: presence, logger: logger}
}

// Token issues the caller's chat platform token.
func (h *ChatHandler) Token(w http.ResponseWriter, r *http.Request) {
	const failure = "Internal Server Error"

	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, apperror.NewAuthenticationError("Unauthorized - No token provided", nil), failure)
		return
	}

	token, err := h.presence.CreateToken(caller.ID.Hex())
	if errors.Is(err, services.ErrPresenceDisabled) {
		writeError(w, r, h.logger, apperror.NewUnavailableError("Chat is not available"), failure)
		return
	}
	if err != nil {
		writeError(w, r, h.logger, err, failure)
		return
	}

	writeJSON(w, http.StatusOK, envelope{"token": token})
}
