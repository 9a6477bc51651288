package handlers

import (
	"net/http"

	"github.com/agropure/agropure-api/internal/auth"
	"github.com/agropure/agropure-api/internal/httpx"
	"github.com/agropure/agropure-api/internal/models"
	"github.com/agropure/agropure-api/internal/policy"
	"github.com/agropure/agropure-api/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserHandler struct {
	DB   *gorm.DB
	Gate *policy.AuthGate
}

func NewUserHandler(db *gorm.DB, ag *policy.AuthGate) *UserHandler {
	return &UserHandler{DB: db, Gate: ag}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q := h.DB.Model(&models.User{})
	if role := r.URL.Query().Get("role"); role != "" {
		q = q.Where("role = ?", role)
	}
	var users []models.User
	if err := q.Order("created_at desc").Find(&users).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_users", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var u models.User
	if err := h.DB.First(&u, id).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}

// Me returns the authenticated user's own record.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication_required", nil)
		return
	}
	var u models.User
	if err := h.DB.First(&u, uid).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}

type userUpdateInput struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Role      *string `json:"role"`
	IsActive  *bool   `json:"isActive"`
	Password  *string `json:"password"`
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var u models.User
	if err := h.DB.First(&u, id).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	var input userUpdateInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("firstName", input.FirstName, v)
	validation.Required("lastName", input.LastName, v)
	validation.Email("email", input.Email, v)
	if input.Role != nil && *input.Role != models.RoleAdmin && *input.Role != models.RoleCustomer {
		v["role"] = "must be Admin or Customer"
	}
	if input.Password != nil && len(*input.Password) < 8 {
		v["password"] = "must be at least 8 characters"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if input.Email != u.Email {
		var count int64
		h.DB.Model(&models.User{}).Where("email = ? AND id <> ?", input.Email, u.ID).Count(&count)
		if count > 0 {
			httpx.JSONError(w, http.StatusConflict, "email_already_registered", nil)
			return
		}
	}
	u.FirstName = input.FirstName
	u.LastName = input.LastName
	u.Email = input.Email
	roleChanged := false
	if input.Role != nil && u.Role != *input.Role {
		u.Role = *input.Role
		roleChanged = true
	}
	if input.IsActive != nil && u.IsActive != *input.IsActive {
		u.IsActive = *input.IsActive
		roleChanged = true
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "user_update_failed", nil)
			return
		}
		u.Password = string(hash)
	}
	if err := h.DB.Save(&u).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "user_update_failed", nil)
		return
	}
	if roleChanged {
		h.Gate.InvalidateUser(u.ID)
	}
	httpx.JSON(w, http.StatusOK, u)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if uid, ok := auth.UserIDFromContext(r.Context()); ok && uid == id {
		httpx.JSONError(w, http.StatusConflict, "cannot_delete_self", nil)
		return
	}
	res := h.DB.Delete(&models.User{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	h.Gate.InvalidateUser(id)
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
