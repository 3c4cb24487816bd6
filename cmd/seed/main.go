// Command seed loads a small demo catalogue: an admin, four categories, one developer with three
// products and the default commission rate. It does nothing if the admin already exists.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"marketplace-service/internal/config"
	"marketplace-service/internal/domain"
	"marketplace-service/internal/store"
)

const (
	adminSubject     = "seed-admin"
	developerSubject = "seed-developer"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, relying on system environment")
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Error loading configuration", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.Postgres.DSN())
	if err != nil {
		slog.Error("Failed to initialize database connection", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := seed(ctx, store.NewPostgresStore(db)); err != nil {
		slog.Error("Seed failed", "err", err)
		os.Exit(1)
	}
}

func seed(ctx context.Context, st *store.PostgresStore) error {
	if err := st.Migrate(ctx); err != nil {
		return err
	}
	if _, err := st.GetUserByID(ctx, adminSubject); err == nil {
		slog.Info("Database already seeded")
		return nil
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return err
	}

	admin, err := st.CreateUser(ctx, &domain.User{
		ID:        adminSubject,
		Email:     ptr("admin@owscorp.com"),
		FirstName: ptr("Admin"),
		Role:      domain.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	slog.Info("Created admin user", "email", *admin.Email)

	categorySeeds := []domain.Category{
		{Name: "Web Templates", Description: ptr("Professional website templates and themes")},
		{Name: "Mobile Apps", Description: ptr("Ready-to-use mobile application templates")},
		{Name: "AI Agents", Description: ptr("Intelligent automation and AI solutions")},
		{Name: "Desktop Software", Description: ptr("Applications for Windows, Mac, and Linux")},
	}
	categories := make([]*domain.Category, 0, len(categorySeeds))
	for i := range categorySeeds {
		c, err := st.CreateCategory(ctx, &categorySeeds[i])
		if err != nil {
			return fmt.Errorf("create category %q: %w", categorySeeds[i].Name, err)
		}
		categories = append(categories, c)
	}
	slog.Info("Created categories", "count", len(categories))

	developer, err := st.CreateUser(ctx, &domain.User{
		ID:        developerSubject,
		Email:     ptr("developer@example.com"),
		FirstName: ptr("TechStudio"),
		Role:      domain.RoleDeveloper,
	})
	if err != nil {
		return fmt.Errorf("create developer: %w", err)
	}
	if _, err := st.CreateSellerProfile(ctx, &domain.SellerProfile{
		UserID:      developer.ID,
		Description: ptr("Professional web development studio specializing in modern templates"),
		CompanyName: ptr("TechStudio"),
	}); err != nil {
		return fmt.Errorf("create seller profile: %w", err)
	}
	slog.Info("Created sample seller", "email", *developer.Email)

	products := []domain.Product{
		{
			CategoryID:  categories[0].ID,
			Title:       "Modern Dashboard Template",
			Description: "A beautiful and responsive admin dashboard template with clean design and modern components",
			Price:       decimal.RequireFromString("49.99"),
			Features:    []string{"Responsive Design", "Dark Mode", "50+ Components", "Clean Code"},
		},
		{
			CategoryID:  categories[1].ID,
			Title:       "Mobile E-commerce App",
			Description: "Complete e-commerce mobile app template for iOS and Android with cart and payment integration",
			Price:       decimal.RequireFromString("79.99"),
			Features:    []string{"Cross-platform", "Payment Integration", "User Authentication", "Product Catalog"},
		},
		{
			CategoryID:  categories[2].ID,
			Title:       "AI Content Generator",
			Description: "Powerful AI-powered content generation tool using GPT technology",
			Price:       decimal.RequireFromString("99.99"),
			Features:    []string{"GPT Integration", "Multiple Templates", "API Access", "Custom Training"},
		},
	}
	for i := range products {
		products[i].SellerID = developer.ID
		products[i].IsActive = true
		if _, err := st.CreateProduct(ctx, &products[i]); err != nil {
			return fmt.Errorf("create product %q: %w", products[i].Title, err)
		}
	}
	slog.Info("Created sample products", "count", len(products))

	if _, err := st.CreateCommissionSetting(ctx, &domain.CommissionSetting{
		Rate:      decimal.NewFromInt(10),
		IsDefault: true,
	}); err != nil {
		return fmt.Errorf("create default commission: %w", err)
	}
	slog.Info("Seed completed successfully")
	return nil
}

func ptr(s string) *string { return &s }
