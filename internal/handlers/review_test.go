package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agropure/agropure-api/internal/models"
	"github.com/stretchr/testify/require"
)

func TestReviewLandsUnapproved(t *testing.T) {
	db := setupTestDB(t)
	h := NewReviewHandler(db)

	p := models.Product{Name: "Filter", BasePrice: 10, Category: "A", IsActive: true}
	require.NoError(t, db.Create(&p).Error)

	body := fmt.Sprintf(`{"productId":%d,"userName":"Ana","rating":5,"comment":"Solid"}`, p.ID)
	req := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Review
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.False(t, created.IsApproved)

	// Not visible on the public product listing until approved.
	lreq := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/reviews/product/%d", p.ID), nil)
	lreq.SetPathValue("id", fmt.Sprint(p.ID))
	lw := httptest.NewRecorder()
	h.ListForProduct(lw, lreq)
	require.Equal(t, http.StatusOK, lw.Code)

	var visible []models.Review
	require.NoError(t, json.Unmarshal(lw.Body.Bytes(), &visible))
	require.Empty(t, visible)

	// Approve, then it shows up.
	areq := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/reviews/%d/approve", created.ID), nil)
	areq.SetPathValue("id", fmt.Sprint(created.ID))
	aw := httptest.NewRecorder()
	h.Approve(aw, areq)
	require.Equal(t, http.StatusOK, aw.Code)

	lw = httptest.NewRecorder()
	h.ListForProduct(lw, lreq)
	require.NoError(t, json.Unmarshal(lw.Body.Bytes(), &visible))
	require.Len(t, visible, 1)
}

func TestReviewRatingBounds(t *testing.T) {
	db := setupTestDB(t)
	h := NewReviewHandler(db)

	p := models.Product{Name: "Filter", BasePrice: 10, Category: "A", IsActive: true}
	require.NoError(t, db.Create(&p).Error)

	for _, rating := range []int{0, 6} {
		body := fmt.Sprintf(`{"productId":%d,"userName":"Ana","rating":%d,"comment":"x"}`, p.ID, rating)
		req := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h.Create(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code, "rating %d", rating)
	}
}

func TestReviewForUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	h := NewReviewHandler(db)

	req := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(`{"productId":999,"userName":"Ana","rating":4,"comment":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}
