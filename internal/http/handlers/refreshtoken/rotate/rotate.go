// Package rotate реализует HTTP-обработчик ротации refresh-токена.
//
// По действующему refresh-токену выпускается свежая пара: новый access-токен
// и новый refresh-токен, старый при этом вытесняется.
package rotate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/account-service/internal/http/response"
	"github.com/magabrotheeeer/account-service/internal/lib/sl"
	services "github.com/magabrotheeeer/account-service/internal/services/refreshtoken"
)

// Request — входные данные для ротации.
type Request struct {
	RefreshToken string `json:"refresh_token" validate:"required,min=3"`
}

// Service описывает интерфейс бизнес-логики ротации refresh-токена.
type Service interface {
	Rotate(ctx context.Context, token string) (*services.RotateResult, error)
}

// Handler обрабатывает HTTP-запросы на ротацию refresh-токена.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Ротация refresh-токена
// @Description Выпускает новую пару access/refresh по действующему refresh-токену.
// @Tags RefreshToken
// @Accept  json
// @Produce  json
// @Param request body Request true "Действующий refresh-токен"
// @Success 200 {object} response.Response "Новая пара токенов"
// @Failure 400 {object} response.ErrorResponse "Токен не найден или запрос некорректен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /refresh-token [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.refreshtoken.rotate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	result, err := h.service.Rotate(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTokenNotFound), errors.Is(err, services.ErrUserNotFound):
			log.Error("rotation rejected", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("refresh token not found"))
		default:
			log.Error("rotation failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to rotate refresh token"))
		}
		return
	}

	log.Info("refresh token rotated", slog.String("user_id", result.User.ID))
	render.JSON(w, r, response.StatusOKWithData(result))
}
