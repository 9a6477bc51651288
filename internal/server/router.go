package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/agropure/agropure-api/internal/auth"
	"github.com/agropure/agropure-api/internal/gate"
	"github.com/agropure/agropure-api/internal/handlers"
	"github.com/agropure/agropure-api/internal/httpx"
	"github.com/agropure/agropure-api/internal/models"
	"github.com/agropure/agropure-api/internal/policy"
	"github.com/agropure/agropure-api/internal/services"
	"gorm.io/gorm"
)

const profileCacheTTL = 5 * time.Minute

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()

	// Configure a user verifier so RequireAuth can ensure the user still exists
	// and is active even when the token is otherwise valid.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ? AND is_active = ?", uid, true).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	authGate := policy.NewAuthGate(db, profileCacheTTL)

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth endpoints
	authHandler := handlers.NewAuthHandler(db)
	authHandler.Register(mux)

	pricing := services.NewPricingService()
	quoteSvc := services.NewQuoteService(db, pricing)

	// authed wraps a handler with token parsing + required authentication.
	authed := func(h http.HandlerFunc) http.Handler {
		return auth.Middleware(auth.RequireAuth(h))
	}
	// gated additionally enforces a profile permission.
	gated := func(resource string, action gate.Action, h http.HandlerFunc) http.Handler {
		return auth.Middleware(auth.RequireAuth(authGate.RequirePermission(resource, action)(h)))
	}

	// Product endpoints. Browsing is public; mutation is gated.
	ph := handlers.NewProductHandler(db, pricing)
	mux.HandleFunc("GET /api/products", ph.List)
	mux.HandleFunc("GET /api/products/{id}", ph.Get)
	mux.HandleFunc("POST /api/products/calculate-price", ph.CalculatePrice)
	mux.HandleFunc("GET /api/products/{id}/faqs", ph.ListFAQs)
	mux.Handle("POST /api/products", gated("product", gate.ActionCreate, ph.Create))
	mux.Handle("PUT /api/products/{id}", gated("product", gate.ActionUpdate, ph.Update))
	mux.Handle("DELETE /api/products/{id}", gated("product", gate.ActionDelete, ph.Delete))
	mux.Handle("POST /api/products/{id}/faqs", gated("product", gate.ActionUpdate, ph.CreateFAQ))

	// Quote endpoints. Public submission needs no auth; everything else does.
	qh := handlers.NewQuoteHandler(db, quoteSvc, authGate)
	mux.HandleFunc("POST /api/quotes/public", qh.CreatePublic)
	mux.Handle("GET /api/quotes", gated("quote", gate.ActionList, qh.List))
	mux.Handle("GET /api/quotes/user/{userId}", authed(qh.ListForUser))
	mux.Handle("GET /api/quotes/{id}", authed(qh.Get))
	mux.Handle("POST /api/quotes", gated("quote", gate.ActionCreate, qh.Create))
	mux.Handle("PUT /api/quotes/{id}/status", gated("quote", gate.ActionApprove, qh.UpdateStatus))
	mux.Handle("POST /api/quotes/{id}/approve-and-create-user", gated("quote", gate.ActionApprove, qh.ApproveAndCreateUser))
	mux.Handle("DELETE /api/quotes/{id}", gated("quote", gate.ActionDelete, qh.Delete))

	// Review endpoints. Approved reviews are public; moderation is gated.
	rh := handlers.NewReviewHandler(db)
	mux.HandleFunc("GET /api/reviews/product/{id}", rh.ListForProduct)
	mux.HandleFunc("POST /api/reviews", rh.Create)
	mux.Handle("GET /api/reviews", gated("review", gate.ActionList, rh.List))
	mux.Handle("PUT /api/reviews/{id}/approve", gated("review", gate.ActionApprove, rh.Approve))
	mux.Handle("DELETE /api/reviews/{id}", gated("review", gate.ActionDelete, rh.Delete))

	// Purchasing endpoints, admin-only.
	mh := handlers.NewMaterialHandler(db)
	mux.Handle("GET /api/materials", gated("material", gate.ActionList, mh.List))
	mux.Handle("GET /api/materials/{id}", gated("material", gate.ActionView, mh.Get))
	mux.Handle("POST /api/materials", gated("material", gate.ActionCreate, mh.Create))
	mux.Handle("PUT /api/materials/{id}", gated("material", gate.ActionUpdate, mh.Update))
	mux.Handle("DELETE /api/materials/{id}", gated("material", gate.ActionDelete, mh.Delete))

	suph := handlers.NewSupplierHandler(db)
	mux.Handle("GET /api/suppliers", gated("supplier", gate.ActionList, suph.List))
	mux.Handle("GET /api/suppliers/{id}", gated("supplier", gate.ActionView, suph.Get))
	mux.Handle("POST /api/suppliers", gated("supplier", gate.ActionCreate, suph.Create))
	mux.Handle("PUT /api/suppliers/{id}", gated("supplier", gate.ActionUpdate, suph.Update))
	mux.Handle("DELETE /api/suppliers/{id}", gated("supplier", gate.ActionDelete, suph.Delete))

	puh := handlers.NewPurchaseHandler(db)
	mux.Handle("GET /api/purchases/inventory", gated("purchase", gate.ActionList, puh.InventorySnapshot))
	mux.Handle("GET /api/purchases", gated("purchase", gate.ActionList, puh.List))
	mux.Handle("GET /api/purchases/{id}", gated("purchase", gate.ActionView, puh.Get))
	mux.Handle("POST /api/purchases", gated("purchase", gate.ActionCreate, puh.Create))
	mux.Handle("PUT /api/purchases/{id}", gated("purchase", gate.ActionUpdate, puh.Update))
	mux.Handle("DELETE /api/purchases/{id}", gated("purchase", gate.ActionDelete, puh.Delete))

	// Sale endpoints. Conversion is an admin decision; reads are ownership-checked.
	sh := handlers.NewSaleHandler(db, authGate)
	mux.Handle("POST /api/sales/from-quote/{id}", gated("sale", gate.ActionConvert, sh.CreateFromQuote))
	mux.Handle("GET /api/sales/user/{userId}", authed(sh.ListForUser))
	mux.Handle("GET /api/sales", gated("sale", gate.ActionList, sh.List))
	mux.Handle("GET /api/sales/{id}", authed(sh.Get))

	// User administration.
	uh := handlers.NewUserHandler(db, authGate)
	mux.Handle("GET /api/users/me", authed(uh.Me))
	mux.Handle("GET /api/users", gated("user", gate.ActionList, uh.List))
	mux.Handle("GET /api/users/{id}", gated("user", gate.ActionView, uh.Get))
	mux.Handle("PUT /api/users/{id}", gated("user", gate.ActionUpdate, uh.Update))
	mux.Handle("DELETE /api/users/{id}", gated("user", gate.ActionDelete, uh.Delete))

	// Dashboard and reports.
	dh := handlers.NewDashboardHandler(db)
	mux.Handle("GET /api/dashboard/stats", gated("dashboard", gate.ActionView, dh.Stats))
	mux.Handle("GET /api/reports/sales", gated("report", gate.ActionView, dh.SalesReport))

	return withRecover(withLogging(mux))
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
