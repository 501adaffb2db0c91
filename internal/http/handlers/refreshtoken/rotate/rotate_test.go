package rotate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/account-service/internal/http/response"
	"github.com/magabrotheeeer/account-service/internal/models"
	services "github.com/magabrotheeeer/account-service/internal/services/refreshtoken"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Rotate(ctx context.Context, token string) (*services.RotateResult, error) {
	args := m.Called(ctx, token)
	resp, _ := args.Get(0).(*services.RotateResult)
	return resp, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRotateHandler_ServeHTTP(t *testing.T) {
	result := &services.RotateResult{
		Token:        "tok-new",
		RefreshToken: "ref-new",
		User: &models.UserInfo{
			ID:    "u-1",
			Name:  "Ada Lovelace",
			Email: "ada@example.com",
		},
	}

	tests := []struct {
		name           string
		body           string
		setupMock      func(m *ServiceMock)
		wantStatusCode int
		wantStatus     string
		wantError      string
	}{
		{
			name: "success",
			body: `{"refresh_token":"ref-old"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Rotate", mock.Anything, "ref-old").Return(result, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     response.StatusOK,
		},
		{
			name:           "missing token",
			body:           `{}`,
			setupMock:      func(m *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     response.StatusError,
			wantError:      "field RefreshToken is a required field",
		},
		{
			name: "stale token",
			body: `{"refresh_token":"ref-stale"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Rotate", mock.Anything, "ref-stale").
					Return(nil, services.ErrTokenNotFound).Once()
			},
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     response.StatusError,
			wantError:      "refresh token not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcMock := new(ServiceMock)
			tt.setupMock(svcMock)
			handler := New(newNoopLogger(), svcMock)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/refresh-token", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var resp response.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			if tt.wantError != "" {
				assert.Contains(t, resp.Error, tt.wantError)
			} else {
				data, ok := resp.Data.(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "tok-new", data["token"])
				assert.Equal(t, "ref-new", data["refresh_token"])
			}
			svcMock.AssertExpectations(t)
		})
	}
}
