package handlers

import (
	"net/http"

	"github.com/agropure/agropure-api/internal/httpx"
	"github.com/agropure/agropure-api/internal/models"
	"github.com/agropure/agropure-api/internal/validation"
	"gorm.io/gorm"
)

type SupplierHandler struct{ DB *gorm.DB }

func NewSupplierHandler(db *gorm.DB) *SupplierHandler { return &SupplierHandler{DB: db} }

type supplierInput struct {
	Name        string `json:"name"`
	ContactName string `json:"contactName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	IsActive    *bool  `json:"isActive"`
}

func (in *supplierInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	if in.Email != "" {
		validation.Email("email", in.Email, v)
	}
	return v
}

func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	var suppliers []models.Supplier
	if err := h.DB.Order("name asc").Find(&suppliers).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_suppliers", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, suppliers)
}

func (h *SupplierHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var s models.Supplier
	if err := h.DB.First(&s, id).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input supplierInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	s := models.Supplier{
		Name:        input.Name,
		ContactName: input.ContactName,
		Email:       input.Email,
		Phone:       input.Phone,
		Address:     input.Address,
		IsActive:    true,
	}
	if input.IsActive != nil {
		s.IsActive = *input.IsActive
	}
	if err := h.DB.Create(&s).Error; err != nil {
		httpx.JSONError(w, http.StatusConflict, "supplier_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, s)
}

func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var s models.Supplier
	if err := h.DB.First(&s, id).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	var input supplierInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	s.Name = input.Name
	s.ContactName = input.ContactName
	s.Email = input.Email
	s.Phone = input.Phone
	s.Address = input.Address
	if input.IsActive != nil {
		s.IsActive = *input.IsActive
	}
	if err := h.DB.Save(&s).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "supplier_update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var count int64
	if err := h.DB.Model(&models.Material{}).Where("supplier_id = ?", id).Count(&count).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	if count > 0 {
		httpx.JSONError(w, http.StatusConflict, "supplier_has_materials", map[string]any{"materials": count})
		return
	}
	res := h.DB.Delete(&models.Supplier{}, id)
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
