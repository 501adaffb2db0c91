// Package mediaservice содержит HTTP-клиент внешнего медиасервиса.
// Сервис аккаунтов не владеет файлами: он загружает байты и хранит
// только возвращённый идентификатор медиа-объекта.
package mediaservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"
)

// UploadResponse — ответ медиасервиса на загрузку файла.
type UploadResponse struct {
	ID string `json:"id"`
}

// Client обращается к медиасервису по HTTP с ограниченным таймаутом.
type Client struct {
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент медиасервиса.
func NewClient(apiURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Upload отправляет файл в медиасервис и возвращает идентификатор
// созданного медиа-объекта.
func (c *Client) Upload(ctx context.Context, filename string, file []byte) (*UploadResponse, error) {
	const op = "mediaservice.Upload"

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err = part.Write(file); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = writer.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%s: %w", op, errors.New("unexpected status: "+resp.Status))
	}

	var uploadResp UploadResponse
	if err = json.NewDecoder(resp.Body).Decode(&uploadResp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if uploadResp.ID == "" {
		return nil, fmt.Errorf("%s: %w", op, errors.New("empty media id in response"))
	}
	return &uploadResp, nil
}
