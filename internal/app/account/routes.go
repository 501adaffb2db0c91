// Package account предоставляет маршруты сервиса аккаунтов.
package account

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/account-service/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/auth/register"
	tokenget "github.com/magabrotheeeer/account-service/internal/http/handlers/refreshtoken/get"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/refreshtoken/rotate"
	userget "github.com/magabrotheeeer/account-service/internal/http/handlers/user/get"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/user/list"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/user/updateavatar"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/user/updatepassword"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/user/updateprofile"
	"github.com/magabrotheeeer/account-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/account-service/internal/lib/jwt"
	tokenservice "github.com/magabrotheeeer/account-service/internal/services/refreshtoken"
	userservice "github.com/magabrotheeeer/account-service/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, userService *userservice.UserService,
	refreshTokenService *tokenservice.RefreshTokenService, jwtMaker jwt.Maker) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, userService).ServeHTTP)
		r.Post("/login", login.New(logger, userService).ServeHTTP)

		// Refresh-токен сам по себе аутентифицирует запрос
		r.Get("/refresh-token", tokenget.New(logger, refreshTokenService).ServeHTTP)
		r.Post("/refresh-token", rotate.New(logger, refreshTokenService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/logout", logout.New(logger, userService).ServeHTTP)
			r.Get("/users", list.New(logger, userService).ServeHTTP)
			r.Get("/profile/{id}", userget.New(logger, userService).ServeHTTP)
			r.Patch("/profile", updateprofile.New(logger, userService).ServeHTTP)
			r.Patch("/password", updatepassword.New(logger, userService).ServeHTTP)
			r.Patch("/avatar", updateavatar.New(logger, userService).ServeHTTP)
		})
	})

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong-pong"))
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
