package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func withPrincipal(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(principalKey, &Principal{
			User: &domain.User{ID: "user-1", Role: role},
			Role: role,
		})
		return c.Next()
	}
}

func okHandler(c *fiber.Ctx) error {
	return c.SendStatus(http.StatusOK)
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		guard      fiber.Handler
		principal  fiber.Handler
		wantStatus int
	}{
		{"admin passes admin guard", RequireRole(domain.RoleAdmin), withPrincipal(domain.RoleAdmin), http.StatusOK},
		{"agent rejected by admin guard", RequireRole(domain.RoleAdmin), withPrincipal(domain.RoleAgent), http.StatusForbidden},
		{"agent passes staff guard", RequireStaff(), withPrincipal(domain.RoleAgent), http.StatusOK},
		{"customer rejected by staff guard", RequireStaff(), withPrincipal(domain.RoleUser), http.StatusForbidden},
		{"no principal is unauthorized", RequireRole(domain.RoleAdmin), nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			handlers := []fiber.Handler{}
			if tt.principal != nil {
				handlers = append(handlers, tt.principal)
			}
			handlers = append(handlers, tt.guard, okHandler)
			app.Get("/guarded", handlers...)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
			if err != nil {
				t.Fatalf("Test: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestRequireAuthenticated(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	app.Get("/open", withPrincipal(domain.RoleUser), RequireAuthenticated(), okHandler)
	app.Get("/closed", RequireAuthenticated(), okHandler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/open", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("authenticated status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/closed", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}
