package api

import (
	"fmt"
	"net/http"

	_ "github.com/estate-ease/api/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/estate-ease/api/internal/api/handlers"
	"github.com/estate-ease/api/internal/api/middleware"
	"github.com/estate-ease/api/internal/auth"
	"github.com/estate-ease/api/internal/config"
	"github.com/estate-ease/api/internal/metrics"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Deps are the wired components the router needs. Everything is
// constructed in main and injected; the router keeps no globals.
type Deps struct {
	Config   config.Config
	Log      *zap.Logger
	Tokens   *auth.TokenIssuer
	Metrics  *metrics.HTTPMetrics
	Auth     *handlers.AuthHandler
	Listings *handlers.ListingHandler
	Uploads  *handlers.UploadHandler
}

func SetupRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	// ---------- PUBLIC ROUTES ----------
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	mux.HandleFunc("POST /api/auth/signup", d.Auth.Signup)
	mux.HandleFunc("POST /api/auth/signin", d.Auth.Signin)
	mux.HandleFunc("POST /api/auth/google", d.Auth.Google)
	mux.HandleFunc("GET /api/auth/google/login", d.Auth.GoogleLogin)
	mux.HandleFunc("GET /api/auth/google/callback", d.Auth.GoogleCallback)
	mux.HandleFunc("POST /api/auth/signout", d.Auth.SignOut)

	mux.HandleFunc("GET /api/listing/get/{id}", d.Listings.Get)
	mux.HandleFunc("GET /api/listing/get", d.Listings.Search)

	// ---------- PROTECTED ROUTES ----------
	protect := middleware.Auth(d.Tokens)

	mux.Handle("POST /api/listing/create", protect(http.HandlerFunc(d.Listings.Create)))
	mux.Handle("PUT /api/listing/update/{id}", protect(http.HandlerFunc(d.Listings.Update)))
	mux.Handle("DELETE /api/listing/delete/{id}", protect(http.HandlerFunc(d.Listings.Delete)))
	mux.Handle("POST /api/upload/presign", protect(http.HandlerFunc(d.Uploads.Presign)))

	c := cors.New(d.Config.CorsConfig)
	handler := c.Handler(mux)
	handler = middleware.Metrics(d.Metrics)(handler)
	handler = middleware.RequestLogger(d.Log)(handler)
	return handler
}
