package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taxdesk-backend/internal/accounts"
	"taxdesk-backend/internal/ctxkeys"
	"taxdesk-backend/internal/models"
)

const tokenLifetime = 7 * 24 * time.Hour

// AuthHandler manages user registration, login, and profile retrieval.
// Signing in is optional; it only enables calculation history.
type AuthHandler struct {
	users      accounts.Store
	jwtSecret  []byte
	bcryptCost int
	now        func() time.Time
}

// NewAuthHandler creates an AuthHandler with the given user store and JWT signing key.
func NewAuthHandler(users accounts.Store, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		users:      users,
		jwtSecret:  []byte(jwtSecret),
		bcryptCost: 12,
		now:        time.Now,
	}
}

// Register creates a new user account.
// Hashes the password with bcrypt and returns a JWT token on success.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		validationFailed(w, errs)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user := models.User{
		ID:           uuid.NewString(),
		Email:        accounts.NormalizeEmail(req.Email),
		PasswordHash: string(hashedPassword),
		Name:         strings.TrimSpace(req.Name),
		CreatedAt:    h.now().UTC(),
	}
	if err := h.users.Create(ctx, &user); err != nil {
		if errors.Is(err, accounts.ErrEmailTaken) {
			JSONError(w, http.StatusConflict, "An account with this email already exists")
			return
		}
		log.Printf("Failed to create user: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	// Log the new user straight in
	token, err := h.generateToken(user.ID)
	if err != nil {
		log.Printf("Failed to generate token: %v", err)
		JSONError(w, http.StatusInternalServerError, "Account created but login failed")
		return
	}

	JSON(w, http.StatusCreated, models.AuthResponse{
		Token: token,
		User:  user,
	})
}

// Login authenticates a user with email + password and returns a JWT token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		validationFailed(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := h.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, accounts.ErrNotFound) {
			log.Printf("Failed to load user: %v", err)
		}
		// Same message for unknown email and wrong password
		JSONError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		JSONError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.generateToken(user.ID)
	if err != nil {
		log.Printf("Failed to generate token: %v", err)
		JSONError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	JSON(w, http.StatusOK, models.AuthResponse{
		Token: token,
		User:  *user,
	})
}

// GetMe returns the profile of the currently authenticated user.
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := h.users.Get(ctx, ctxkeys.GetUserID(r.Context()))
	if err != nil {
		JSONError(w, http.StatusNotFound, "User not found")
		return
	}

	JSON(w, http.StatusOK, user)
}

// generateToken creates a signed JWT carrying the user ID.
func (h *AuthHandler) generateToken(userID string) (string, error) {
	now := h.now()
	claims := jwt.MapClaims{
		"userId": userID,
		"exp":    now.Add(tokenLifetime).Unix(),
		"iat":    now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}
