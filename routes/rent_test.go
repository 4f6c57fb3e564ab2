package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// buildTestApp creates a minimal Iris app with the rent routes and a JWT
// verifier, mirroring the production wiring in main.go.
func buildTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(mockAccessToken) })

	rent := app.Party("/api/rent", accessTokenVerifierMiddleware)
	{
		rent.Get("/", GetRentRecords)
		rent.Post("/bulk/status", BulkUpdateRentStatus)
	}

	app.Build()
	return app
}

type mockAccessToken struct {
	ID   uint
	Role string
}

func signTestToken() string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(mockAccessToken{ID: 1, Role: "user"})
	return string(token)
}

func TestRentRoutesRequireToken(t *testing.T) {
	app := buildTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/rent/", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}
}

func TestGetRentRecordsRejectsBadMonth(t *testing.T) {
	app := buildTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/rent?month=13&year=2024", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken())
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for month=13, got %d", resp.Code)
	}
}

func TestBulkStatusRejectsEmptySelection(t *testing.T) {
	app := buildTestApp()

	req := httptest.NewRequest(http.MethodPost, "/api/rent/bulk/status",
		strings.NewReader(`{"recordIDs": [], "isPaid": true}`))
	req.Header.Set("Authorization", "Bearer "+signTestToken())
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty selection, got %d", resp.Code)
	}
}
