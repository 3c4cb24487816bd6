package service

import (
	"context"
	"errors"
	"fmt"

	"marketplace-service/internal/authz"
	"marketplace-service/internal/domain"
	"marketplace-service/internal/store"
)

// UserService manages accounts and seller profiles.
type UserService struct {
	users    store.UserStorer
	profiles store.SellerProfileStorer
}

func NewUserService(users store.UserStorer, profiles store.SellerProfileStorer) *UserService {
	return &UserService{users: users, profiles: profiles}
}

// Identity is what the identity provider asserts about a caller.
type Identity struct {
	Subject         string
	Email           *string
	FirstName       *string
	LastName        *string
	ProfileImageURL *string
}

// UserUpdate holds the optional fields of a user patch. Nil fields are left unchanged.
type UserUpdate struct {
	Email           *string
	FirstName       *string
	LastName        *string
	ProfileImageURL *string
	Role            *domain.Role
}

func (u UserUpdate) apply(user *domain.User) {
	if u.Email != nil {
		user.Email = u.Email
	}
	if u.FirstName != nil {
		user.FirstName = u.FirstName
	}
	if u.LastName != nil {
		user.LastName = u.LastName
	}
	if u.ProfileImageURL != nil {
		user.ProfileImageURL = u.ProfileImageURL
	}
	if u.Role != nil {
		user.Role = *u.Role
	}
}

// Resolve loads the user behind an authenticated identity, creating it with role user on first sight.
func (s *UserService) Resolve(ctx context.Context, id Identity) (*domain.User, error) {
	user, err := s.users.GetUserByID(ctx, id.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return nil, err
	}

	user, err = s.users.CreateUser(ctx, &domain.User{
		ID:              id.Subject,
		Email:           id.Email,
		FirstName:       id.FirstName,
		LastName:        id.LastName,
		ProfileImageURL: id.ProfileImageURL,
		Role:            domain.RoleUser,
	})
	if errors.Is(err, store.ErrUserExists) {
		// Another request created the row first.
		return s.users.GetUserByID(ctx, id.Subject)
	}
	if err != nil {
		return nil, fmt.Errorf("service: failed to create user for subject %s: %w", id.Subject, err)
	}
	return user, nil
}

// UpdateProfile patches the caller's own account. The role cannot be changed this way.
func (s *UserService) UpdateProfile(ctx context.Context, p *authz.Principal, upd UserUpdate) (*domain.User, error) {
	if upd.Role != nil {
		return nil, domain.Forbidden("Role cannot be changed from the profile")
	}
	user := *p.User
	upd.apply(&user)
	return s.users.UpdateUser(ctx, &user)
}

func (s *UserService) ListUsers(ctx context.Context, p *authz.Principal) ([]domain.User, error) {
	if err := requireAdmin(p, "list users"); err != nil {
		return nil, err
	}
	return s.users.ListUsers(ctx)
}

// UpdateUser lets an admin patch any account, including its role.
func (s *UserService) UpdateUser(ctx context.Context, p *authz.Principal, id string, upd UserUpdate) (*domain.User, error) {
	if err := requireAdmin(p, "update users"); err != nil {
		return nil, err
	}
	if upd.Role != nil && !upd.Role.Valid() {
		return nil, domain.InvalidInput(fmt.Sprintf("Unknown role %q", *upd.Role))
	}
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	upd.apply(user)
	return s.users.UpdateUser(ctx, user)
}

func (s *UserService) DeleteUser(ctx context.Context, p *authz.Principal, id string) error {
	if err := requireAdmin(p, "delete users"); err != nil {
		return err
	}
	return s.users.DeleteUser(ctx, id)
}

// --- seller profile ---

// SellerProfileUpdate holds the optional fields of a seller profile. Nil fields are left unchanged.
type SellerProfileUpdate struct {
	Mobile        *string
	Address       *string
	PanNumber     *string
	AadharNumber  *string
	Qualification *string
	Description   *string
	CompanyName   *string
}

func (u SellerProfileUpdate) apply(profile *domain.SellerProfile) {
	for _, f := range []struct {
		src *string
		dst **string
	}{
		{u.Mobile, &profile.Mobile},
		{u.Address, &profile.Address},
		{u.PanNumber, &profile.PanNumber},
		{u.AadharNumber, &profile.AadharNumber},
		{u.Qualification, &profile.Qualification},
		{u.Description, &profile.Description},
		{u.CompanyName, &profile.CompanyName},
	} {
		if f.src != nil {
			*f.dst = f.src
		}
	}
}

func (s *UserService) GetSellerProfile(ctx context.Context, p *authz.Principal) (*domain.SellerProfile, error) {
	return s.profiles.GetSellerProfileByUserID(ctx, p.UserID())
}

func (s *UserService) CreateSellerProfile(ctx context.Context, p *authz.Principal, in SellerProfileUpdate) (*domain.SellerProfile, error) {
	profile := &domain.SellerProfile{UserID: p.UserID()}
	in.apply(profile)
	return s.profiles.CreateSellerProfile(ctx, profile)
}

func (s *UserService) UpdateSellerProfile(ctx context.Context, p *authz.Principal, upd SellerProfileUpdate) (*domain.SellerProfile, error) {
	profile, err := s.profiles.GetSellerProfileByUserID(ctx, p.UserID())
	if err != nil {
		return nil, err
	}
	upd.apply(profile)
	return s.profiles.UpdateSellerProfile(ctx, profile)
}
