package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"marketplace-service/internal/domain"
	"marketplace-service/internal/service"
)

// ProfileUpdateInput defines the fields a user may change on their own account.
type ProfileUpdateInput struct {
	Email           *string `json:"email" validate:"omitempty,email"`
	FirstName       *string `json:"firstName" validate:"omitempty,max=255"`
	LastName        *string `json:"lastName" validate:"omitempty,max=255"`
	ProfileImageURL *string `json:"profileImageUrl" validate:"omitempty,url"`
	Role            *string `json:"role"`
}

// UserUpdateInput defines the fields an admin may change on any account.
type UserUpdateInput struct {
	Email           *string `json:"email" validate:"omitempty,email"`
	FirstName       *string `json:"firstName" validate:"omitempty,max=255"`
	LastName        *string `json:"lastName" validate:"omitempty,max=255"`
	ProfileImageURL *string `json:"profileImageUrl" validate:"omitempty,url"`
	Role            *string `json:"role" validate:"omitempty,oneof=user developer company admin"`
}

// SellerProfileInput defines the seller profile fields. All are optional.
type SellerProfileInput struct {
	Mobile        *string `json:"mobile" validate:"omitempty,max=32"`
	Address       *string `json:"address"`
	PanNumber     *string `json:"panNumber" validate:"omitempty,max=32"`
	AadharNumber  *string `json:"aadharNumber" validate:"omitempty,max=32"`
	Qualification *string `json:"qualification"`
	Description   *string `json:"description"`
	CompanyName   *string `json:"companyName" validate:"omitempty,max=255"`
}

func (in SellerProfileInput) toUpdate() service.SellerProfileUpdate {
	return service.SellerProfileUpdate{
		Mobile:        in.Mobile,
		Address:       in.Address,
		PanNumber:     in.PanNumber,
		AadharNumber:  in.AadharNumber,
		Qualification: in.Qualification,
		Description:   in.Description,
		CompanyName:   in.CompanyName,
	}
}

func roleOf(s *string) *domain.Role {
	if s == nil {
		return nil
	}
	role := domain.Role(*s)
	return &role
}

func (h *HTTPHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, principal(r).User)
}

func (h *HTTPHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, principal(r).User)
}

func (h *HTTPHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var input ProfileUpdateInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	user, err := h.users.UpdateProfile(r.Context(), principal(r), service.UserUpdate{
		Email:           input.Email,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		ProfileImageURL: input.ProfileImageURL,
		Role:            roleOf(input.Role),
	})
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to update profile")
		return
	}
	invalidate(w, "/api/profile", "/api/auth/user")
	respondWithJSON(w, http.StatusOK, user)
}

// --- Seller Profile Handlers ---

func (h *HTTPHandler) GetSellerProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.users.GetSellerProfile(r.Context(), principal(r))
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to retrieve seller profile")
		return
	}
	respondWithJSON(w, http.StatusOK, profile)
}

func (h *HTTPHandler) CreateSellerProfile(w http.ResponseWriter, r *http.Request) {
	var input SellerProfileInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	profile, err := h.users.CreateSellerProfile(r.Context(), principal(r), input.toUpdate())
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to create seller profile")
		return
	}
	invalidate(w, "/api/seller-profile")
	respondWithJSON(w, http.StatusCreated, profile)
}

func (h *HTTPHandler) UpdateSellerProfile(w http.ResponseWriter, r *http.Request) {
	var input SellerProfileInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	profile, err := h.users.UpdateSellerProfile(r.Context(), principal(r), input.toUpdate())
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to update seller profile")
		return
	}
	invalidate(w, "/api/seller-profile")
	respondWithJSON(w, http.StatusOK, profile)
}

// --- User Management Handlers ---

func (h *HTTPHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context(), principal(r))
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to retrieve users")
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}

func (h *HTTPHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var input UserUpdateInput
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	user, err := h.users.UpdateUser(r.Context(), principal(r), chi.URLParam(r, "userId"), service.UserUpdate{
		Email:           input.Email,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		ProfileImageURL: input.ProfileImageURL,
		Role:            roleOf(input.Role),
	})
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to update user")
		return
	}
	invalidate(w, "/api/users", "/api/analytics/admin")
	respondWithJSON(w, http.StatusOK, user)
}

func (h *HTTPHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.DeleteUser(r.Context(), principal(r), chi.URLParam(r, "userId")); err != nil {
		respondWithServiceError(w, r, err, "Failed to delete user")
		return
	}
	invalidate(w, "/api/users", "/api/products", "/api/analytics/admin")
	w.WriteHeader(http.StatusNoContent)
}
