package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"

	"github.com/homenest/homenest_backend/models"
)

func TestGenerateJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT("64b0c7f5a1b2c3d4e5f60718", "ana@example.com", models.RoleUser)
	if err != nil {
		t.Fatalf("GenerateJWT() = %v", err)
	}

	claims := &JwtCustomClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("ParseWithClaims() = %v", err)
	}
	if !parsed.Valid {
		t.Fatal("token is not valid")
	}
	if claims.UserID != "64b0c7f5a1b2c3d4e5f60718" {
		t.Errorf("UserID = %s", claims.UserID)
	}
	if claims.Email != "ana@example.com" {
		t.Errorf("Email = %s", claims.Email)
	}
	if claims.Role != models.RoleUser {
		t.Errorf("Role = %s", claims.Role)
	}
}

func TestJWTMiddlewareAcceptsGeneratedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT("64b0c7f5a1b2c3d4e5f60718", "ana@example.com", models.RoleUser)
	if err != nil {
		t.Fatalf("GenerateJWT() = %v", err)
	}

	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.String(http.StatusOK, GetUserIDFromToken(c))
	}, JWTMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "64b0c7f5a1b2c3d4e5f60718" {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestJWTMiddlewareRejectsMissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, JWTMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRoles(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	e := echo.New()
	e.GET("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, JWTMiddleware(), RequireRoles(models.RoleAdmin))

	cases := []struct {
		name string
		role string
		want int
	}{
		{name: "admin passes", role: models.RoleAdmin, want: http.StatusOK},
		{name: "regular user is rejected", role: models.RoleUser, want: http.StatusForbidden},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateJWT("64b0c7f5a1b2c3d4e5f60718", "ana@example.com", tt.role)
			if err != nil {
				t.Fatalf("GenerateJWT() = %v", err)
			}

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
