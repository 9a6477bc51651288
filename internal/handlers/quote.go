package handlers

import (
	"net/http"
	"strings"

	"github.com/agropure/agropure-api/internal/auth"
	"github.com/agropure/agropure-api/internal/gate"
	"github.com/agropure/agropure-api/internal/httpx"
	"github.com/agropure/agropure-api/internal/models"
	"github.com/agropure/agropure-api/internal/policy"
	"github.com/agropure/agropure-api/internal/services"
	"github.com/agropure/agropure-api/internal/validation"
	"gorm.io/gorm"
)

type QuoteHandler struct {
	DB   *gorm.DB
	Svc  *services.QuoteService
	Gate *policy.AuthGate
}

func NewQuoteHandler(db *gorm.DB, svc *services.QuoteService, authGate *policy.AuthGate) *QuoteHandler {
	return &QuoteHandler{DB: db, Svc: svc, Gate: authGate}
}

// List: GET /api/quotes (admin) with optional ?status= filter.
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	// An unowned probe: the ownership policy denies everyone but admins.
	if err := h.Gate.Authorize(r.Context(), gate.ActionList, "quote", &models.Quote{}); err != nil {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}
	dbq := h.DB.Order("id desc")
	if s := strings.TrimSpace(r.URL.Query().Get("status")); s != "" {
		status := models.QuoteStatus(s)
		if !status.Valid() {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_status", nil)
			return
		}
		dbq = dbq.Where("status = ?", status)
	}
	var quotes []models.Quote
	if err := dbq.Find(&quotes).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_quotes", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, quotes)
}

// ListForUser: GET /api/quotes/user/{userId}. A customer may only read their
// own list; admins may read anyone's.
func (h *QuoteHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userId")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	requester, _ := auth.UserIDFromContext(r.Context())
	if requester != userID {
		// Only admins can read another customer's quotes.
		probe := models.Quote{UserID: &userID}
		if err := h.Gate.Authorize(r.Context(), gate.ActionList, "quote", &probe); err != nil {
			httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
			return
		}
	}
	var quotes []models.Quote
	if err := h.DB.Where("user_id = ?", userID).Order("id desc").Find(&quotes).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_quotes", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, quotes)
}

// Get: GET /api/quotes/{id}, ownership-checked.
func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	q, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.Gate.Authorize(r.Context(), gate.ActionView, "quote", q); err != nil {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

// Create: POST /api/quotes (authenticated customer).
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var user models.User
	if err := h.DB.First(&user, uid).Error; err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var input struct {
		ProductID     uint   `json:"productId"`
		Quantity      int    `json:"quantity"`
		CustomerNotes string `json:"customerNotes"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	if input.ProductID == 0 {
		v["productId"] = "required"
	}
	validation.MinInt("quantity", input.Quantity, 1, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	q, err := h.Svc.Create(r.Context(), &user, services.CreateQuoteInput{
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		Notes:     input.CustomerNotes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, q)
}

// CreatePublic: POST /api/quotes/public (no auth). Contact details required.
func (h *QuoteHandler) CreatePublic(w http.ResponseWriter, r *http.Request) {
	var input struct {
		CustomerName    string `json:"customerName"`
		CustomerEmail   string `json:"customerEmail"`
		CustomerPhone   string `json:"customerPhone"`
		CustomerCompany string `json:"customerCompany"`
		CustomerAddress string `json:"customerAddress"`
		ProductID       uint   `json:"productId"`
		Quantity        int    `json:"quantity"`
		Notes           string `json:"notes"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("customerName", input.CustomerName, v)
	validation.Required("customerEmail", input.CustomerEmail, v)
	validation.Email("customerEmail", input.CustomerEmail, v)
	if input.ProductID == 0 {
		v["productId"] = "required"
	}
	validation.MinInt("quantity", input.Quantity, 1, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	q, err := h.Svc.CreatePublic(r.Context(), services.CreatePublicQuoteInput{
		CustomerName:    input.CustomerName,
		CustomerEmail:   strings.ToLower(strings.TrimSpace(input.CustomerEmail)),
		CustomerPhone:   input.CustomerPhone,
		CustomerCompany: input.CustomerCompany,
		CustomerAddress: input.CustomerAddress,
		ProductID:       input.ProductID,
		Quantity:        input.Quantity,
		Notes:           input.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, q)
}

// UpdateStatus: PUT /api/quotes/{id}/status (admin decision).
func (h *QuoteHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var input struct {
		Status     models.QuoteStatus `json:"status"`
		AdminNotes string             `json:"adminNotes"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if !input.Status.Valid() {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_status", nil)
		return
	}
	q, err := h.Svc.UpdateStatus(r.Context(), id, input.Status, input.AdminNotes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

// ApproveAndCreateUser: POST /api/quotes/{id}/approve-and-create-user (admin,
// public quotes only).
func (h *QuoteHandler) ApproveAndCreateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	q, user, err := h.Svc.ApproveAndCreateUser(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"quote": q, "user": user})
}

// Delete: DELETE /api/quotes/{id} (admin).
func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
