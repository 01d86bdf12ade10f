package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/estate-ease/api/internal/api"
	"github.com/estate-ease/api/internal/api/handlers"
	"github.com/estate-ease/api/internal/api/services"
	"github.com/estate-ease/api/internal/auth"
	"github.com/estate-ease/api/internal/config"
	"github.com/estate-ease/api/internal/metrics"
	"github.com/estate-ease/api/internal/models"
	"github.com/estate-ease/api/internal/repositories"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type env struct {
	router http.Handler
	db     *gorm.DB
	tokens *auth.TokenIssuer
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Listing{}))

	log := zap.NewNop()
	tokens := auth.NewTokenIssuer("test-secret", 7*24*time.Hour)
	users := repositories.NewUserRepository(db)
	listings := repositories.NewListingRepository(db)
	storage := repositories.NewStorage(config.StorageConfig{
		AccountID:       "test",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		BucketName:      "test-bucket",
		Region:          "auto",
		PublicBaseURL:   "https://img.test",
	})

	deps := api.Deps{
		Config:  config.Config{CorsConfig: config.CorsConfig()},
		Log:     log,
		Tokens:  tokens,
		Metrics: metrics.NewHTTPMetrics("test"),
		Auth: &handlers.AuthHandler{
			Users:         users,
			Tokens:        tokens,
			OAuth:         services.NewGoogleOAuth(config.GoogleConfig{}),
			Log:           log,
			ClientBaseURL: "http://localhost:5173",
		},
		Listings: &handlers.ListingHandler{Listings: listings, Log: log},
		Uploads:  &handlers.UploadHandler{Storage: storage, Log: log},
	}

	return &env{router: api.SetupRouter(deps), db: db, tokens: tokens}
}

func (e *env) do(t *testing.T, method, target string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *env) doWithBearer(t *testing.T, method, target string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()

	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range rec.Result().Cookies() {
		if c.Name == "access_token" {
			return c
		}
	}
	t.Fatal("access_token cookie not set")
	return nil
}

// signupAndSignin registers a user and returns their session cookie and
// public fields.
func (e *env) signupAndSignin(t *testing.T, username, email, password string) (*http.Cookie, map[string]any) {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodPost, "/api/auth/signin", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	return sessionCookie(t, rec), decodeBody(t, rec)
}

func validListingBody() map[string]any {
	return map[string]any{
		"name":          "Cozy Loft Downtown",
		"description":   "Bright two-bedroom loft",
		"address":       "12 Main Street",
		"type":          "rent",
		"bedrooms":      2,
		"bathrooms":     1,
		"regularPrice":  1200,
		"discountPrice": 0,
		"offer":         false,
		"imageUrls":     []string{"https://img.example.com/1.jpg"},
	}
}
