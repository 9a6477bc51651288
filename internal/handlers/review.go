package handlers

import (
	"net/http"

	"github.com/agropure/agropure-api/internal/httpx"
	"github.com/agropure/agropure-api/internal/models"
	"github.com/agropure/agropure-api/internal/validation"
	"gorm.io/gorm"
)

type ReviewHandler struct{ DB *gorm.DB }

func NewReviewHandler(db *gorm.DB) *ReviewHandler { return &ReviewHandler{DB: db} }

// List: GET /api/reviews (admin moderation queue, all reviews).
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	var reviews []models.Review
	if err := h.DB.Order("id desc").Find(&reviews).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_reviews", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, reviews)
}

// ListForProduct: GET /api/reviews/product/{id} (public, approved only).
func (h *ReviewHandler) ListForProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var reviews []models.Review
	if err := h.DB.Where("product_id = ? AND is_approved = ?", id, true).Order("created_at desc").Find(&reviews).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_reviews", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, reviews)
}

// Create: POST /api/reviews. Reviews land unapproved and stay invisible until
// moderation approves them.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ProductID uint   `json:"productId"`
		UserName  string `json:"userName"`
		Rating    int    `json:"rating"`
		Comment   string `json:"comment"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	if input.ProductID == 0 {
		v["productId"] = "required"
	}
	validation.Required("userName", input.UserName, v)
	validation.Required("comment", input.Comment, v)
	validation.RangeInt("rating", input.Rating, 1, 5, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var product models.Product
	if err := h.DB.First(&product, input.ProductID).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	review := models.Review{
		ProductID: input.ProductID,
		UserName:  input.UserName,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}
	if err := h.DB.Create(&review).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "review_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, review)
}

// Approve: PUT /api/reviews/{id}/approve (admin). The only mutation a review
// supports after creation.
func (h *ReviewHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var review models.Review
	if err := h.DB.First(&review, id).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	if !review.IsApproved {
		if err := h.DB.Model(&review).Update("is_approved", true).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "approve_failed", nil)
			return
		}
		review.IsApproved = true
	}
	httpx.JSON(w, http.StatusOK, review)
}

// Delete: DELETE /api/reviews/{id} (admin).
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	res := h.DB.Delete(&models.Review{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
