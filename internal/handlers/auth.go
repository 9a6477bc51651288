package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/agropure/agropure-api/internal/auth"
	"github.com/agropure/agropure-api/internal/httpx"
	"github.com/agropure/agropure-api/internal/models"
	"github.com/agropure/agropure-api/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct{ DB *gorm.DB }

func NewAuthHandler(db *gorm.DB) *AuthHandler { return &AuthHandler{DB: db} }

func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/register", h.register)
	mux.HandleFunc("POST /api/auth/login", h.login)
}

type authResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		FirstName       string `json:"firstName"`
		LastName        string `json:"lastName"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	v := validation.Violations{}
	validation.Required("firstName", input.FirstName, v)
	validation.Required("lastName", input.LastName, v)
	validation.Required("email", input.Email, v)
	validation.Email("email", input.Email, v)
	if len(input.Password) < 8 {
		v["password"] = "too_short"
	}
	if input.Password != input.ConfirmPassword {
		v["confirmPassword"] = "mismatch"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	user := models.User{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     input.Email,
		Password:  string(hash),
		Role:      models.RoleCustomer,
		IsActive:  true,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") || strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			httpx.JSONError(w, http.StatusConflict, "email_already_registered", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "user_create_failed", nil)
		return
	}
	token, expiresAt := auth.IssueToken(user.ID)
	httpx.JSON(w, http.StatusCreated, authResponse{Token: token, User: user, ExpiresAt: expiresAt})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"email": "required", "password": "required"})
		return
	}
	var user models.User
	if err := h.DB.Where("email = ?", email).First(&user).Error; err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}
	if !user.IsActive {
		httpx.JSONError(w, http.StatusUnauthorized, "account_disabled", nil)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}
	token, expiresAt := auth.IssueToken(user.ID)
	httpx.JSON(w, http.StatusOK, authResponse{Token: token, User: user, ExpiresAt: expiresAt})
}
