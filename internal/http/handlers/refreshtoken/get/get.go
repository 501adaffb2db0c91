// Package get реализует HTTP-обработчик поиска refresh-токена по его значению.
// Значение токена выступает одновременно идентификатором и секретом.
package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/account-service/internal/http/response"
	"github.com/magabrotheeeer/account-service/internal/lib/sl"
	"github.com/magabrotheeeer/account-service/internal/models"
	services "github.com/magabrotheeeer/account-service/internal/services/refreshtoken"
)

// Service описывает интерфейс бизнес-логики поиска refresh-токена.
type Service interface {
	GetByToken(ctx context.Context, token string) (*models.RefreshTokenInfo, error)
}

// Handler обрабатывает HTTP-запросы на поиск refresh-токена.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Поиск refresh-токена
// @Description Возвращает сохраненный refresh-токен по его значению из query-параметра.
// @Tags RefreshToken
// @Produce  json
// @Param token query string true "Значение refresh-токена"
// @Success 200 {object} response.Response "Найденный токен"
// @Failure 400 {object} response.ErrorResponse "Токен не передан или не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /refresh-token [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.refreshtoken.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := r.URL.Query().Get("token")
	if token == "" {
		log.Error("missing token query parameter")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("token is required"))
		return
	}

	info, err := h.service.GetByToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, services.ErrTokenNotFound) {
			log.Error("refresh token not found")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("refresh token not found"))
			return
		}
		log.Error("failed to get refresh token", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get refresh token"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(info))
}
