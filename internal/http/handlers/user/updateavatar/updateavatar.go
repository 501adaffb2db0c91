// Package updateavatar реализует HTTP-обработчик загрузки аватара.
//
// Файл принимается из multipart-поля "file", пересылается во внешний
// медиасервис, после чего новый идентификатор привязывается к пользователю.
package updateavatar

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/account-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/account-service/internal/http/response"
	"github.com/magabrotheeeer/account-service/internal/lib/sl"
	"github.com/magabrotheeeer/account-service/internal/models"
	services "github.com/magabrotheeeer/account-service/internal/services/user"
)

// maxUploadSize ограничивает размер принимаемого файла.
const maxUploadSize = 10 << 20

// Service описывает интерфейс бизнес-логики обновления аватара.
type Service interface {
	UpdateAvatar(ctx context.Context, userID, filename string, file []byte) (*models.UserInfo, error)
}

// Handler обрабатывает HTTP-запросы на загрузку аватара.
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
// @Summary Загрузка аватара
// @Description Загружает файл во внешний медиасервис и привязывает его к пользователю.
// @Tags User
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param file formData file true "Файл аватара"
// @Success 200 {object} response.Response "Обновленный профиль"
// @Failure 400 {object} response.ErrorResponse "Файл отсутствует или не принят медиасервисом"
// @Failure 401 {object} response.ErrorResponse "Нет или невалидный токен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /avatar [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.updateavatar"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || userID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Error("file field missing", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("file is required"))
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error("failed to read file", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to read file"))
		return
	}

	info, err := h.service.UpdateAvatar(r.Context(), userID, header.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUploadFailed):
			log.Error("media upload rejected", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to upload avatar"))
		case errors.Is(err, services.ErrUserNotFound):
			log.Error("user not found", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("avatar update failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update avatar"))
		}
		return
	}

	log.Info("avatar updated", slog.String("user_id", userID))
	render.JSON(w, r, response.StatusOKWithData(info))
}
