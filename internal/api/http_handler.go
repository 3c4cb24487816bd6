package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"marketplace-service/internal/authz"
	"marketplace-service/internal/domain"
	"marketplace-service/internal/service"
)

// HTTPHandler holds dependencies for HTTP handlers.
type HTTPHandler struct {
	users      *service.UserService
	catalog    *service.CatalogService
	cart       *service.CartService
	orders     *service.OrderService
	reviews    *service.ReviewService
	commission *service.CommissionService
	analytics  *service.AnalyticsService
	auth       *Authenticator
	validate   *validator.Validate
}

// NewHTTPHandler creates a new HTTPHandler with dependencies.
func NewHTTPHandler(svcs *service.Services, auth *Authenticator) *HTTPHandler {
	return &HTTPHandler{
		users:      svcs.Users,
		catalog:    svcs.Catalog,
		cart:       svcs.Cart,
		orders:     svcs.Orders,
		reviews:    svcs.Reviews,
		commission: svcs.Commission,
		analytics:  svcs.Analytics,
		auth:       auth,
		validate:   newValidator(),
	}
}

// --- Helpers ---

// ErrorResponse defines the structure for JSON error responses.
type ErrorResponse struct {
	Message string `json:"message"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Message: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			slog.Error("Failed to encode JSON response", "err", err)
		}
	}
}

// respondWithServiceError maps an error from the service layer onto a status code.
// Unclassified errors are logged and reported as a generic 500.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var code int
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		code = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated):
		code = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		code = http.StatusConflict
	default:
		slog.Error(fallback, "method", r.Method, "path", r.URL.Path, "err", err)
		respondWithError(w, http.StatusInternalServerError, fallback)
		return
	}

	var derr *domain.Error
	if !errors.As(err, &derr) {
		respondWithError(w, code, fallback)
		return
	}
	respondWithError(w, code, clientMessage(derr))
}

// clientMessage strips the layer prefix from store errors ("store: product not found" -> "Product not found").
func clientMessage(e *domain.Error) string {
	msg := e.Message
	if i := strings.Index(msg, ": "); i >= 0 && !strings.Contains(msg[:i], " ") {
		msg = msg[i+2:]
	}
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// It writes the 400 response itself and reports whether the handler should continue.
func (h *HTTPHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+validationMessage(err))
		return false
	}
	return true
}

// invalidate lists the cache keys a mutation made stale.
func invalidate(w http.ResponseWriter, keys ...string) {
	w.Header().Set("X-Cache-Invalidate", strings.Join(keys, ","))
}

// principal returns the caller attached by the auth middleware.
func principal(r *http.Request) *authz.Principal {
	p, _ := authz.FromContext(r.Context())
	return p
}

// --- Route Registration ---

// RegisterRoutes sets up the HTTP routes for the service.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		// Public catalogue.
		r.Get("/categories", h.ListCategories)
		r.Get("/products", h.ListProducts)
		r.Get("/products/{productId}", h.GetProduct)
		r.Get("/products/{productId}/reviews", h.ListProductReviews)

		r.Group(func(r chi.Router) {
			r.Use(h.auth.Middleware)

			r.Get("/auth/user", h.GetCurrentUser)

			r.Post("/categories", h.CreateCategory)
			r.Patch("/categories/{categoryId}", h.UpdateCategory)
			r.Delete("/categories/{categoryId}", h.DeleteCategory)

			r.Post("/products", h.CreateProduct)
			r.Patch("/products/{productId}", h.UpdateProduct)
			r.Delete("/products/{productId}", h.DeleteProduct)
			r.Post("/products/{productId}/reviews", h.CreateProductReview)
			r.Post("/reviews", h.CreateReview)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.ListCart)
				r.Post("/", h.AddToCart)
				r.Delete("/", h.ClearCart)
				r.Patch("/{cartItemId}", h.UpdateCartItem)
				r.Delete("/{cartItemId}", h.RemoveCartItem)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.ListOrders)
				r.Post("/", h.CreateOrder)
				r.Get("/{orderId}", h.GetOrder)
			})

			r.Get("/analytics/seller", h.SellerAnalytics)
			r.Get("/analytics/admin", h.AdminAnalytics)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.ListUsers)
				r.Patch("/{userId}", h.UpdateUser)
				r.Delete("/{userId}", h.DeleteUser)
			})

			r.Get("/profile", h.GetProfile)
			r.Patch("/profile", h.UpdateProfile)

			r.Get("/seller-profile", h.GetSellerProfile)
			r.Post("/seller-profile", h.CreateSellerProfile)
			r.Patch("/seller-profile", h.UpdateSellerProfile)

			r.Route("/commission", func(r chi.Router) {
				r.Get("/", h.ListCommissionSettings)
				r.Post("/", h.CreateCommissionSetting)
				r.Get("/lookup", h.LookupCommission)
				r.Patch("/{settingId}", h.UpdateCommissionSetting)
			})
		})
	})
}
