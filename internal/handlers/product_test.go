package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agropure/agropure-api/internal/models"
	"github.com/agropure/agropure-api/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.ProductMaterial{}, &models.ProductFAQ{},
		&models.Review{}, &models.Quote{}, &models.Sale{},
		&models.Supplier{}, &models.Material{}, &models.Purchase{},
	))
	return db
}

func TestProductListFiltersInactive(t *testing.T) {
	db := setupTestDB(t)
	h := NewProductHandler(db, services.NewPricingService())

	require.NoError(t, db.Create(&models.Product{Name: "Active", BasePrice: 10, Category: "A", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.Product{Name: "Retired", BasePrice: 10, Category: "A", IsActive: false}).Error)

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var products []models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(t, products, 1)
	require.Equal(t, "Active", products[0].Name)

	// ?all=1 includes retired products for admin screens.
	w = httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/api/products?all=1", nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(t, products, 2)
}

func TestProductDetailIncludesApprovedReviews(t *testing.T) {
	db := setupTestDB(t)
	h := NewProductHandler(db, services.NewPricingService())

	p := models.Product{Name: "Filter", BasePrice: 10, Category: "A", IsActive: true}
	require.NoError(t, db.Create(&p).Error)
	require.NoError(t, db.Create(&models.Review{ProductID: p.ID, UserName: "Ana", Rating: 5, Comment: "Great", IsApproved: true}).Error)
	require.NoError(t, db.Create(&models.Review{ProductID: p.ID, UserName: "Bo", Rating: 3, Comment: "OK", IsApproved: true}).Error)
	require.NoError(t, db.Create(&models.Review{ProductID: p.ID, UserName: "Cruz", Rating: 1, Comment: "Pending", IsApproved: false}).Error)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/products/%d", p.ID), nil)
	req.SetPathValue("id", fmt.Sprint(p.ID))
	w := httptest.NewRecorder()
	h.Get(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var detail struct {
		models.Product
		Reviews       []models.Review `json:"reviews"`
		AverageRating float64         `json:"averageRating"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	require.Len(t, detail.Reviews, 2)
	require.InDelta(t, 4.0, detail.AverageRating, 0.001)
}

func TestCalculatePricePreview(t *testing.T) {
	db := setupTestDB(t)
	h := NewProductHandler(db, services.NewPricingService())

	p := models.Product{Name: "Osmosis", BasePrice: 100, Category: "A", IsActive: true}
	require.NoError(t, db.Create(&p).Error)

	body := fmt.Sprintf(`{"productId":%d,"quantity":10}`, p.ID)
	req := httptest.NewRequest(http.MethodPost, "/api/products/calculate-price", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.CalculatePrice(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		UnitPrice       float64 `json:"unitPrice"`
		DiscountPercent float64 `json:"discountPercent"`
		Discount        float64 `json:"discount"`
		TotalCost       float64 `json:"totalCost"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.InDelta(t, 15.0, out.DiscountPercent, 0.001)
	require.InDelta(t, 850.0, out.TotalCost, 0.001)
}

func TestProductCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	h := NewProductHandler(db, services.NewPricingService())

	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"name":"","basePrice":-5}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "validation_failed")
}
