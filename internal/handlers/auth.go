package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/AnshRaj112/lingua-backend/internal/apperror"
	"github.com/AnshRaj112/lingua-backend/internal/config"
	"github.com/AnshRaj112/lingua-backend/internal/middleware"
	"github.com/AnshRaj112/lingua-backend/internal/models"
	"github.com/AnshRaj112/lingua-backend/internal/services"
	"github.com/AnshRaj112/lingua-backend/pkg/utils"
)

// presenceTimeout bounds the best-effort chat presence upsert.
const presenceTimeout = 5 * time.Second

const invalidCredentials = "Invalid Credentials"

// SignupRequest is the signup body.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// LoginRequest is the login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OnboardRequest is the onboarding body. Every field is required.
type OnboardRequest struct {
	FullName         string `json:"fullName"`
	Bio              string `json:"bio"`
	NativeLanguage   string `json:"nativeLanguage"`
	LearningLanguage string `json:"learningLanguage"`
	Location         string `json:"location"`
}

type AuthHandler struct {
	users    services.UserStore
	tokens   *services.TokenIssuer
	presence services.PresenceSyncer
	cfg      config.AuthConfig
	logger   *zap.Logger

	randomAvatar func() string
}

func NewAuthHandler(users services.UserStore, tokens *services.TokenIssuer, presence services.PresenceSyncer, cfg config.AuthConfig, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:        users,
		tokens:       tokens,
		presence:     presence,
		cfg:          cfg,
		logger:       logger,
		randomAvatar: services.RandomAvatarURL,
	}
}

// Signup handles user registration
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	const failure = "Error in Signup controller"

	var req SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err, failure)
		return
	}

	if req.Email == "" || req.Password == "" || req.FullName == "" {
		writeError(w, r, h.logger, apperror.NewValidationError("All fields are required"), failure)
		return
	}
	if utils.PasswordTooShort(req.Password) {
		writeError(w, r, h.logger, apperror.NewValidationError("Password must at least be 6 characters"), failure)
		return
	}
	if !utils.ValidEmail(req.Email) {
		writeError(w, r, h.logger, apperror.NewValidationError("Invalid email format"), failure)
		return
	}

	emailTaken := apperror.NewConflictError("Email already exists, please use a different one", nil)

	_, err := h.users.FindByEmail(r.Context(), req.Email)
	if err == nil {
		writeError(w, r, h.logger, emailTaken, failure)
		return
	}
	if !errors.Is(err, services.ErrUserNotFound) {
		writeError(w, r, h.logger, err, failure)
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		writeError(w, r, h.logger, err, failure)
		return
	}

	user := &models.User{
		Email:      req.Email,
		FullName:   req.FullName,
		Password:   hashedPassword,
		ProfilePic: h.randomAvatar(),
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		// lost a race with a concurrent signup for the same email
		if errors.Is(err, services.ErrEmailTaken) {
			writeError(w, r, h.logger, emailTaken, failure)
			return
		}
		writeError(w, r, h.logger, err, failure)
		return
	}

	h.syncPresence(r.Context(), user, "signup")

	if err := h.setSessionCookie(w, user); err != nil {
		writeError(w, r, h.logger, err, failure)
		return
	}

	writeJSON(w, http.StatusCreated, envelope{"success": true, "user": user})
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	const failure = "Error in Login controller"

	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err, failure)
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, r, h.logger, apperror.NewValidationError("All fields are required"), failure)
		return
	}

	user, err := h.users.FindByEmail(r.Context(), req.Email)
	if errors.Is(err, services.ErrUserNotFound) {
		writeError(w, r, h.logger, apperror.NewNotFoundError(invalidCredentials, err), failure)
		return
	}
	if err != nil {
		writeError(w, r, h.logger, err, failure)
		return
	}

	ok, err := user.MatchPassword(req.Password)
	if err != nil {
		writeError(w, r, h.logger, err, failure)
		return
	}
	if !ok {
		writeError(w, r, h.logger, apperror.NewAuthenticationError(invalidCredentials, nil), failure)
		return
	}

	if err := h.setSessionCookie(w, user); err != nil {
		writeError(w, r, h.logger, err, failure)
		return
	}

	writeJSON(w, http.StatusOK, envelope{"success": true, "user": user})
}

// Logout clears the session cookie. The token itself stays valid until it
// expires; there is no server-side revocation.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.cfg.IsProduction,
	})
	writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Logged Out Successfully"})
}

// Onboard completes the caller's profile. Requires ProtectRoute upstream.
func (h *AuthHandler) Onboard(w http.ResponseWriter, r *http.Request) {
	const failure = "Onboarding Error"

	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, apperror.NewAuthenticationError("Unauthorized - No token provided", nil), failure)
		return
	}

	var req OnboardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err, failure)
		return
	}

	missing := utils.MissingFields(
		utils.Field{Name: "fullName", Value: req.FullName},
		utils.Field{Name: "bio", Value: req.Bio},
		utils.Field{Name: "nativeLanguage", Value: req.NativeLanguage},
		utils.Field{Name: "learningLanguage", Value: req.LearningLanguage},
		utils.Field{Name: "location", Value: req.Location},
	)
	if len(missing) > 0 {
		writeError(w, r, h.logger,
			apperror.NewValidationError("All Fields Are Required").WithField("missingFields", missing),
			failure)
		return
	}

	updated, err := h.users.UpdateOnboarding(r.Context(), caller.ID, models.OnboardingProfile{
		FullName:         req.FullName,
		Bio:              req.Bio,
		NativeLanguage:   req.NativeLanguage,
		LearningLanguage: req.LearningLanguage,
		Location:         req.Location,
	})
	if errors.Is(err, services.ErrUserNotFound) {
		writeError(w, r, h.logger, apperror.NewNotFoundError("Error In Updating User", err), failure)
		return
	}
	if err != nil {
		writeError(w, r, h.logger, err, failure)
		return
	}

	h.syncPresence(r.Context(), updated, "onboarding")

	writeJSON(w, http.StatusOK, envelope{"success": true, "message": updated})
}

// Me returns the authenticated caller.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, apperror.NewAuthenticationError("Unauthorized - No token provided", nil), "")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "user": caller})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, user *models.User) error {
	token, expiresAt, err := h.tokens.Issue(user.ID.Hex())
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(services.SessionDuration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.cfg.IsProduction,
	})
	return nil
}

// syncPresence mirrors the user into the chat platform. It runs in its own
// failure scope: errors are logged and never reach the response, and the
// request being cancelled does not cut it short.
func (h *AuthHandler) syncPresence(ctx context.Context, user *models.User, event string) {
	syncUser(ctx, h.presence, h.logger, user, event)
}

func syncUser(ctx context.Context, presence services.PresenceSyncer, logger *zap.Logger, user *models.User, event string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), presenceTimeout)
	defer cancel()

	err := presence.UpsertUser(ctx, services.PresenceUser{
		ID:    user.ID.Hex(),
		Name:  user.FullName,
		Image: user.ProfilePic,
	})
	if err != nil {
		logger.Warn("chat presence sync failed",
			zap.String("event", event),
			zap.String("userId", user.ID.Hex()),
			zap.Error(err),
		)
		return
	}
	logger.Info("chat presence synced",
		zap.String("event", event),
		zap.String("userId", user.ID.Hex()),
		zap.String("fullName", user.FullName),
	)
}
