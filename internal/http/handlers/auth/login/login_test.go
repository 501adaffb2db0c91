package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
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
	services "github.com/magabrotheeeer/account-service/internal/services/user"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Login(ctx context.Context, email, password string) (*services.Session, error) {
	args := m.Called(ctx, email, password)
	resp, _ := args.Get(0).(*services.Session)
	return resp, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	session := &services.Session{
		User: &models.UserInfo{
			ID:    "u-1",
			Name:  "Ada Lovelace",
			Email: "ada@example.com",
		},
		Token:        "tok",
		RefreshToken: "ref",
	}

	tests := []struct {
		name           string
		requestBody    any
		mockResp       *services.Session
		mockErr        error
		wantStatusCode int
		wantStatus     string
		wantError      string
	}{
		{
			name:           "valid login",
			requestBody:    Request{Email: "ada@example.com", Password: "password123"},
			mockResp:       session,
			wantStatusCode: http.StatusOK,
			wantStatus:     response.StatusOK,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     response.StatusError,
			wantError:      "invalid request body",
		},
		{
			name:           "validation error - missing password",
			requestBody:    Request{Email: "ada@example.com"},
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     response.StatusError,
			wantError:      "field Password is a required field",
		},
		{
			name:           "wrong password",
			requestBody:    Request{Email: "ada@example.com", Password: "password123"},
			mockErr:        services.ErrInvalidCredentials,
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     response.StatusError,
			wantError:      "invalid credentials",
		},
		{
			name:           "unknown email hides which part failed",
			requestBody:    Request{Email: "ada@example.com", Password: "password123"},
			mockErr:        services.ErrUserNotFound,
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     response.StatusError,
			wantError:      "invalid credentials",
		},
		{
			name:           "storage failure",
			requestBody:    Request{Email: "ada@example.com", Password: "password123"},
			mockErr:        errors.New("connection refused"),
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     response.StatusError,
			wantError:      "failed to login",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcMock := new(ServiceMock)
			if tt.mockResp != nil || tt.mockErr != nil {
				req := tt.requestBody.(Request)
				svcMock.On("Login", mock.Anything, req.Email, req.Password).
					Return(tt.mockResp, tt.mockErr).Once()
			}
			handler := New(newNoopLogger(), svcMock)

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			httpReq := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(bodyBytes))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httpReq)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var resp response.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			if tt.wantError != "" {
				assert.Contains(t, resp.Error, tt.wantError)
			} else {
				data, ok := resp.Data.(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "tok", data["token"])
				assert.Equal(t, "ref", data["refresh_token"])
			}
			svcMock.AssertExpectations(t)
		})
	}
}
