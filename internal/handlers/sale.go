package handlers

import (
	"net/http"

	"github.com/agropure/agropure-api/internal/auth"
	"github.com/agropure/agropure-api/internal/gate"
	"github.com/agropure/agropure-api/internal/httpx"
	"github.com/agropure/agropure-api/internal/models"
	"github.com/agropure/agropure-api/internal/policy"
	"github.com/agropure/agropure-api/internal/services"
	"gorm.io/gorm"
)

type SaleHandler struct {
	DB   *gorm.DB
	Svc  *services.SaleService
	Gate *policy.AuthGate
}

func NewSaleHandler(db *gorm.DB, ag *policy.AuthGate) *SaleHandler {
	return &SaleHandler{DB: db, Svc: services.NewSaleService(db), Gate: ag}
}

// CreateFromQuote converts an approved quote into a sale.
func (h *SaleHandler) CreateFromQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	sale, err := h.Svc.CreateFromQuote(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, sale)
}

func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := h.Gate.Authorize(r.Context(), gate.ActionList, "sale", &models.Sale{}); err != nil {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}
	q := h.DB.Model(&models.Sale{})
	if status := r.URL.Query().Get("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	var sales []models.Sale
	if err := q.Order("sale_date desc").Find(&sales).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_sales", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, sales)
}

func (h *SaleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var s models.Sale
	if err := h.DB.First(&s, id).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.Gate.Authorize(r.Context(), gate.ActionView, "sale", &s); err != nil {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

// ListForUser: GET /api/sales/user/{userId}. Customers see only their own.
func (h *SaleHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userId")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	requester, _ := auth.UserIDFromContext(r.Context())
	if requester != userID {
		probe := models.Sale{UserID: &userID}
		if err := h.Gate.Authorize(r.Context(), gate.ActionList, "sale", &probe); err != nil {
			httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
			return
		}
	}
	var sales []models.Sale
	if err := h.DB.Where("user_id = ?", userID).Order("sale_date desc").Find(&sales).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_sales", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, sales)
}
