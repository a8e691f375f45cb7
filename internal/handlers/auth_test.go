package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/medleaf/healthlens-backend/internal/logger"
	"github.com/medleaf/healthlens-backend/internal/types"
)

type stubAuthService struct {
	refreshErr   error
	gotRefresh   string
	accessToken  string
	refreshToken string
}

func (s *stubAuthService) RegisterUser(ctx context.Context, user *types.User) error { return nil }

func (s *stubAuthService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
	return "", "", fmt.Errorf("not implemented")
}

func (s *stubAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, string, error) {
	s.gotRefresh = refreshToken
	if s.refreshErr != nil {
		return "", "", s.refreshErr
	}
	return s.accessToken, s.refreshToken, nil
}

func (s *stubAuthService) LogoutUser(ctx context.Context) error { return nil }

func (s *stubAuthService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	return ctx, nil
}

func newAuthTestRouter(t *testing.T, svc *stubAuthService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init test logger: %v", err)
	}
	router := gin.New()
	router.POST("/refresh", NewAuthHandler(log, svc).Refresh)
	return router
}

func TestRefreshIssuesNewTokenPair(t *testing.T) {
	svc := &stubAuthService{accessToken: "new-access", refreshToken: "new-refresh"}
	router := newAuthTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(`{"refresh_token":"old-refresh"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", rec.Code, rec.Body.String())
	}
	if svc.gotRefresh != "old-refresh" {
		t.Fatalf("service received refresh token %q", svc.gotRefresh)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["access_token"] != "new-access" || body["refresh_token"] != "new-refresh" {
		t.Fatalf("body=%v", body)
	}
}

func TestRefreshRejectsInvalidToken(t *testing.T) {
	svc := &stubAuthService{refreshErr: fmt.Errorf("invalid or expired refresh token")}
	router := newAuthTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(`{"refresh_token":"stale"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, body=%s", rec.Code, rec.Body.String())
	}
	var envelope ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Code != "refresh_failed" {
		t.Fatalf("error code=%q", envelope.Error.Code)
	}
}

func TestRefreshRejectsMalformedBody(t *testing.T) {
	svc := &stubAuthService{}
	router := newAuthTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(`not json`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, body=%s", rec.Code, rec.Body.String())
	}
}
