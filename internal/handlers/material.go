package handlers

import (
	"net/http"

	"github.com/agropure/agropure-api/internal/httpx"
	"github.com/agropure/agropure-api/internal/models"
	"github.com/agropure/agropure-api/internal/validation"
	"gorm.io/gorm"
)

type MaterialHandler struct{ DB *gorm.DB }

func NewMaterialHandler(db *gorm.DB) *MaterialHandler { return &MaterialHandler{DB: db} }

type materialInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	UnitCost    float64 `json:"unitCost"`
	Unit        string  `json:"unit"`
	SupplierID  uint    `json:"supplierId"`
	IsActive    *bool   `json:"isActive"`
}

func (in *materialInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Required("unit", in.Unit, v)
	validation.PositiveFloat("unitCost", in.UnitCost, v)
	if in.SupplierID == 0 {
		v["supplierId"] = "required"
	}
	return v
}

func (h *MaterialHandler) List(w http.ResponseWriter, r *http.Request) {
	var materials []models.Material
	if err := h.DB.Preload("Supplier").Order("name asc").Find(&materials).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_materials", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, materials)
}

func (h *MaterialHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var m models.Material
	if err := h.DB.Preload("Supplier").First(&m, id).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}

func (h *MaterialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input materialInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var supplier models.Supplier
	if err := h.DB.First(&supplier, input.SupplierID).Error; err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "unknown_supplier", nil)
		return
	}
	m := models.Material{
		Name:        input.Name,
		Description: input.Description,
		UnitCost:    input.UnitCost,
		Unit:        input.Unit,
		SupplierID:  input.SupplierID,
		IsActive:    true,
	}
	if input.IsActive != nil {
		m.IsActive = *input.IsActive
	}
	if err := h.DB.Create(&m).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "material_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, m)
}

func (h *MaterialHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var m models.Material
	if err := h.DB.First(&m, id).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	var input materialInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	m.Name = input.Name
	m.Description = input.Description
	m.UnitCost = input.UnitCost
	m.Unit = input.Unit
	m.SupplierID = input.SupplierID
	if input.IsActive != nil {
		m.IsActive = *input.IsActive
	}
	if err := h.DB.Save(&m).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "material_update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}

func (h *MaterialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	res := h.DB.Delete(&models.Material{}, id)
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
