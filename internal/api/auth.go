package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"marketplace-service/internal/authz"
	"marketplace-service/internal/config"
	"marketplace-service/internal/domain"
	"marketplace-service/internal/service"
)

// Claims are the token claims issued by the identity provider.
type Claims struct {
	Email           string `json:"email,omitempty"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	jwt.RegisteredClaims
}

// UserResolver loads or provisions the user behind a verified identity.
type UserResolver interface {
	Resolve(ctx context.Context, id service.Identity) (*domain.User, error)
}

// Authenticator verifies HS256 bearer tokens and attaches the caller's principal to the request.
type Authenticator struct {
	secret []byte
	parser *jwt.Parser
	users  UserResolver
}

func NewAuthenticator(cfg config.AuthConfig, users UserResolver) *Authenticator {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	return &Authenticator{
		secret: []byte(cfg.Secret),
		parser: jwt.NewParser(opts...),
		users:  users,
	}
}

// Middleware rejects requests without a valid token with 401 and a Bearer challenge.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.verify(r.Header.Get("Authorization"))
		if err != nil {
			slog.Debug("Rejected bearer token", "path", r.URL.Path, "err", err)
			w.Header().Set("WWW-Authenticate", `Bearer realm="marketplace"`)
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		user, err := a.users.Resolve(r.Context(), service.Identity{
			Subject:         claims.Subject,
			Email:           optional(claims.Email),
			FirstName:       optional(claims.FirstName),
			LastName:        optional(claims.LastName),
			ProfileImageURL: optional(claims.ProfileImageURL),
		})
		if err != nil {
			respondWithServiceError(w, r, err, "Failed to load user")
			return
		}

		ctx := authz.NewContext(r.Context(), authz.NewPrincipal(user))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) verify(header string) (*Claims, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, errors.New("missing bearer token")
	}
	var claims Claims
	_, err := a.parser.ParseWithClaims(strings.TrimSpace(raw), &claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return &claims, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
