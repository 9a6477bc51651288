package handlers

import (
	"net/http"
	"time"

	"github.com/agropure/agropure-api/internal/httpx"
	"github.com/agropure/agropure-api/internal/models"
	"github.com/agropure/agropure-api/internal/services"
	"github.com/agropure/agropure-api/internal/validation"
	"gorm.io/gorm"
)

type PurchaseHandler struct {
	DB        *gorm.DB
	Inventory *services.InventoryService
}

func NewPurchaseHandler(db *gorm.DB) *PurchaseHandler {
	return &PurchaseHandler{DB: db, Inventory: services.NewInventoryService(db)}
}

type purchaseInput struct {
	SupplierID   uint    `json:"supplierId"`
	MaterialID   uint    `json:"materialId"`
	Quantity     float64 `json:"quantity"`
	UnitCost     float64 `json:"unitCost"`
	Status       string  `json:"status"`
	DeliveryDate *string `json:"deliveryDate"`
	Notes        string  `json:"notes"`
}

var purchaseStatuses = map[string]bool{
	"Ordered":   true,
	"Received":  true,
	"Cancelled": true,
}

func (in *purchaseInput) validate() validation.Violations {
	v := validation.Violations{}
	if in.SupplierID == 0 {
		v["supplierId"] = "required"
	}
	if in.MaterialID == 0 {
		v["materialId"] = "required"
	}
	validation.PositiveFloat("quantity", in.Quantity, v)
	validation.PositiveFloat("unitCost", in.UnitCost, v)
	if in.Status != "" && !purchaseStatuses[in.Status] {
		v["status"] = "must be one of Ordered, Received, Cancelled"
	}
	return v
}

func parseDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}

func (h *PurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
	q := h.DB.Preload("Supplier").Preload("Material")
	if status := r.URL.Query().Get("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	var purchases []models.Purchase
	if err := q.Order("purchase_date desc").Find(&purchases).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_purchases", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, purchases)
}

func (h *PurchaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var p models.Purchase
	if err := h.DB.Preload("Supplier").Preload("Material").First(&p, id).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *PurchaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input purchaseInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var material models.Material
	if err := h.DB.First(&material, input.MaterialID).Error; err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "unknown_material", nil)
		return
	}
	var supplier models.Supplier
	if err := h.DB.First(&supplier, input.SupplierID).Error; err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "unknown_supplier", nil)
		return
	}
	status := input.Status
	if status == "" {
		status = "Ordered"
	}
	p := models.Purchase{
		SupplierID:     input.SupplierID,
		MaterialID:     input.MaterialID,
		PurchaseNumber: services.NewOrderNumber("PUR"),
		Quantity:       input.Quantity,
		UnitCost:       input.UnitCost,
		TotalCost:      input.Quantity * input.UnitCost,
		Status:         status,
		PurchaseDate:   time.Now(),
		DeliveryDate:   parseDate(input.DeliveryDate),
		Notes:          input.Notes,
	}
	if err := h.DB.Create(&p).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "purchase_create_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *PurchaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var p models.Purchase
	if err := h.DB.First(&p, id).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	var input purchaseInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	p.SupplierID = input.SupplierID
	p.MaterialID = input.MaterialID
	p.Quantity = input.Quantity
	p.UnitCost = input.UnitCost
	p.TotalCost = input.Quantity * input.UnitCost
	if input.Status != "" {
		p.Status = input.Status
	}
	if d := parseDate(input.DeliveryDate); d != nil {
		p.DeliveryDate = d
	}
	p.Notes = input.Notes
	if err := h.DB.Save(&p).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "purchase_update_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *PurchaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	res := h.DB.Delete(&models.Purchase{}, id)
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

// InventorySnapshot aggregates received purchases into per-material stock rows.
func (h *PurchaseHandler) InventorySnapshot(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Inventory.Snapshot(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "inventory_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}
