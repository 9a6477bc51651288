package handlers

import (
	"net/http"
	"strings"

	"github.com/agropure/agropure-api/internal/httpx"
	"github.com/agropure/agropure-api/internal/models"
	"github.com/agropure/agropure-api/internal/services"
	"github.com/agropure/agropure-api/internal/validation"
	"gorm.io/gorm"
)

type ProductHandler struct {
	DB      *gorm.DB
	Pricing *services.PricingService
}

func NewProductHandler(db *gorm.DB, pricing *services.PricingService) *ProductHandler {
	return &ProductHandler{DB: db, Pricing: pricing}
}

// List: GET /api/products. Public catalog view: active products only, unless
// ?all=1 (the admin screens pass it; the route itself stays public-readable).
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.Preload("Materials.Material")
	if r.URL.Query().Get("all") != "1" {
		dbq = dbq.Where("is_active = ?", true)
	}
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		dbq = dbq.Where("lower(name) LIKE ? OR lower(category) LIKE ?", like, like)
	}
	if cat := strings.TrimSpace(r.URL.Query().Get("category")); cat != "" {
		dbq = dbq.Where("category = ?", cat)
	}
	var products []models.Product
	if err := dbq.Order("id desc").Find(&products).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_products", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, products)
}

type productDetail struct {
	models.Product
	Reviews       []models.Review `json:"reviews"`
	AverageRating float64         `json:"averageRating"`
}

// Get: GET /api/products/{id} with approved reviews and their average rating.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var product models.Product
	if err := h.DB.Preload("Materials.Material").First(&product, id).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	var reviews []models.Review
	if err := h.DB.Where("product_id = ? AND is_approved = ?", id, true).Order("created_at desc").Find(&reviews).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_reviews", nil)
		return
	}
	detail := productDetail{Product: product, Reviews: reviews}
	for _, rv := range reviews {
		detail.AverageRating += float64(rv.Rating)
	}
	if len(reviews) > 0 {
		detail.AverageRating /= float64(len(reviews))
	}
	httpx.JSON(w, http.StatusOK, detail)
}

// CalculatePrice: POST /api/products/calculate-price {productId, quantity}.
// Preview only; quote creation recomputes through the same service.
func (h *ProductHandler) CalculatePrice(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ProductID uint `json:"productId"`
		Quantity  int  `json:"quantity"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	var product models.Product
	if err := h.DB.First(&product, input.ProductID).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	price, err := h.Pricing.Calculate(product.BasePrice, input.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, price)
}

type productInput struct {
	Name                string                 `json:"name"`
	Description         string                 `json:"description"`
	DetailedDescription string                 `json:"detailedDescription"`
	ImageURL            string                 `json:"imageUrl"`
	BasePrice           float64                `json:"basePrice"`
	Category            string                 `json:"category"`
	TechnicalSpecs      string                 `json:"technicalSpecs"`
	ManualContent       string                 `json:"manualContent"`
	IsActive            *bool                  `json:"isActive"`
	Materials           []productMaterialInput `json:"materials"`
}

type productMaterialInput struct {
	MaterialID uint    `json:"materialId"`
	Quantity   float64 `json:"quantity"`
}

func (in *productInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Required("description", in.Description, v)
	validation.NonNegativeFloat("basePrice", in.BasePrice, v)
	for _, m := range in.Materials {
		if m.MaterialID == 0 || m.Quantity <= 0 {
			v["materials"] = "invalid_material_or_quantity"
			break
		}
	}
	return v
}

// Create: POST /api/products (admin).
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input productInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	p := models.Product{
		Name:                input.Name,
		Description:         input.Description,
		DetailedDescription: input.DetailedDescription,
		ImageURL:            input.ImageURL,
		BasePrice:           input.BasePrice,
		Category:            input.Category,
		TechnicalSpecs:      input.TechnicalSpecs,
		ManualContent:       input.ManualContent,
		IsActive:            true,
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}
	for _, m := range input.Materials {
		p.Materials = append(p.Materials, models.ProductMaterial{MaterialID: m.MaterialID, Quantity: m.Quantity})
	}
	if err := h.DB.Create(&p).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "product_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

// Update: PUT /api/products/{id} (admin). Replaces scalar fields and, when a
// materials list is sent, the whole bill of materials.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var p models.Product
	if err := h.DB.First(&p, id).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	var input productInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	p.Name = input.Name
	p.Description = input.Description
	p.DetailedDescription = input.DetailedDescription
	p.ImageURL = input.ImageURL
	p.BasePrice = input.BasePrice
	p.Category = input.Category
	p.TechnicalSpecs = input.TechnicalSpecs
	p.ManualContent = input.ManualContent
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&p).Error; err != nil {
			return err
		}
		if input.Materials == nil {
			return nil
		}
		if err := tx.Where("product_id = ?", p.ID).Delete(&models.ProductMaterial{}).Error; err != nil {
			return err
		}
		for _, m := range input.Materials {
			if err := tx.Create(&models.ProductMaterial{ProductID: p.ID, MaterialID: m.MaterialID, Quantity: m.Quantity}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "product_update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// Delete: DELETE /api/products/{id} (admin, soft delete so existing quotes
// keep resolving their snapshots).
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	res := h.DB.Delete(&models.Product{}, id)
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

// ListFAQs: GET /api/products/{id}/faqs (public, active entries).
func (h *ProductHandler) ListFAQs(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var faqs []models.ProductFAQ
	if err := h.DB.Where("product_id = ? AND is_active = ?", id, true).Order("id asc").Find(&faqs).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_faqs", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, faqs)
}

// CreateFAQ: POST /api/products/{id}/faqs (admin).
func (h *ProductHandler) CreateFAQ(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	var input struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("question", input.Question, v)
	validation.Required("answer", input.Answer, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	faq := models.ProductFAQ{ProductID: product.ID, Question: input.Question, Answer: input.Answer, IsActive: true}
	if err := h.DB.Create(&faq).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "faq_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, faq)
}
