package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/rs/zerolog"

	pkgauth "github.com/domeohq/doors-backend/pkg/auth"
	"github.com/domeohq/doors-backend/internal/documents"
	"github.com/domeohq/doors-backend/internal/lifecycle"
	"github.com/domeohq/doors-backend/pkg/config"
	"github.com/domeohq/doors-backend/pkg/enums"
	"github.com/domeohq/doors-backend/pkg/logger"
	"github.com/domeohq/doors-backend/pkg/pagination"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error { return s.err }

type routeDocumentsService struct{}

func (routeDocumentsService) Create(ctx context.Context, input documents.CreateDocumentInput) (*documents.CreateDocumentResult, error) {
	return &documents.CreateDocumentResult{
		DocumentID: uuid.New(),
		Number:     "ORD-1",
		Type:       input.Type,
		Status:     string(enums.OrderStatusNewPlanned),
		IsNew:      true,
		CreatedAt:  time.Now(),
	}, nil
}

func (routeDocumentsService) Get(ctx context.Context, docType enums.DocumentType, id uuid.UUID) (*documents.DocumentView, error) {
	return &documents.DocumentView{ID: id, Type: docType, TotalAmount: decimal.Zero}, nil
}

func (routeDocumentsService) Related(ctx context.Context, docType enums.DocumentType, id uuid.UUID) (*documents.RelatedDocuments, error) {
	return &documents.RelatedDocuments{}, nil
}

func (routeDocumentsService) ListByClient(ctx context.Context, clientID uuid.UUID, docType *enums.DocumentType, params pagination.Params) (*documents.ClientDocumentList, error) {
	return &documents.ClientDocumentList{Documents: []documents.DocumentSummary{}}, nil
}

type routeLifecycleService struct{}

func (routeLifecycleService) Transition(ctx context.Context, input lifecycle.TransitionInput) (*lifecycle.TransitionResult, error) {
	return &lifecycle.TransitionResult{DocumentID: input.DocumentID, ToStatus: input.NewStatus, Changed: true}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080", LogLevel: "disabled"},
		JWT: config.JWTConfig{Secret: "router-secret", Issuer: "doors-test", ExpirationMinutes: 10},
	}
}

func newTestRouter(t *testing.T, dbErr, redisErr error) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	return NewRouter(testConfig(), logg, stubPinger{err: dbErr}, stubPinger{err: redisErr}, prometheus.NewRegistry(), routeDocumentsService{}, routeLifecycleService{})
}

func mintToken(t *testing.T, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(testConfig().JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
	})
	require.NoError(t, err)
	return token
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test", w.Header().Get("X-Domeo-Env"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthReadyFailsWhenDependencyDown(t *testing.T) {
	router := newTestRouter(t, errors.New("connection refused"), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDocumentsRequireAuth(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	body, _ := json.Marshal(map[string]any{
		"type":  "order",
		"items": []map[string]any{{"type": "door"}},
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/documents", bytes.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateDocumentRoute(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	body, _ := json.Marshal(map[string]any{
		"type":      "order",
		"client_id": uuid.New(),
		"items":     []map[string]any{{"type": "door", "model": "Alto", "qty": 1, "unitPrice": 100}},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleComplectator))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestStatusRoute(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	body, _ := json.Marshal(map[string]any{"type": "order", "status": "UNDER_REVIEW"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+uuid.NewString()+"/status", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleExecutor))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMutatingRoutesRejectUnknownRole(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	// The mint helper refuses invalid roles, so sign the claim directly the
	// way a foreign issuer sharing the secret could.
	cfg := testConfig().JWT
	claims := pkgauth.AccessTokenClaims{
		UserID: uuid.New(),
		Role:   enums.UserRole("AUDITOR"),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(10 * time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]any{
		"type":      "order",
		"client_id": uuid.New(),
		"items":     []map[string]any{{"type": "door", "model": "Alto", "qty": 1}},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	statusBody, _ := json.Marshal(map[string]any{"type": "order", "status": "UNDER_REVIEW"})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+uuid.NewString()+"/status", bytes.NewReader(statusBody))
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+uuid.NewString()+"?type=order", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClientDocumentsRoute(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients/"+uuid.NewString()+"/documents", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleManager))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
