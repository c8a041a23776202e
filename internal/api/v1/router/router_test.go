package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gurukul/internal/cache"
	"gurukul/internal/config"
	"gurukul/internal/pubsub"
	"gurukul/internal/storage"
	"gurukul/internal/util"
)

const testSecret = "router-test-secret"

type nopStore struct{}

func (nopStore) PresignPut(context.Context, string, string) (string, error) { return "", nil }
func (nopStore) PresignGet(context.Context, string) (string, error) { return "", nil }
func (nopStore) Head(context.Context, string) (*storage.ObjectInfo, error) { return nil, nil }
func (nopStore) Delete(context.Context, string) error { return nil }
func (nopStore) PublicURL(key string) string { return key }

type nopQueue struct{}

func (nopQueue) Send(context.Context, []byte) (int64, error) { return 1, nil }

func newTestHandler(t *testing.T) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		JWTSecret:          testSecret,
		JWTTTLMinutes:      60,
		MediaMaxUploadMB:   1,
		CatalogCacheTTLSec: 60,
		PubSubEventsTopic:  "events",
		CORSAllowedOrigins: "https://gurukul.example, http://localhost:5173",
	}
	logger := zerolog.Nop()
	h := NewHandler(cfg, Deps{
		DB:        db,
		Store:     nopStore{},
		Catalog:   cache.NewCatalog(nil, time.Minute, logger),
		Publisher: pubsub.NewLogPublisher(logger),
		Queue:     nopQueue{},
	}, logger)
	return h, mock
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectPing()
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	rec = serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLegacyAPIRedirect(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := serve(h, httptest.NewRequest(http.MethodPost, "/api/courses/c1/enroll?x=1", nil))
	assert.Equal(t, http.StatusPermanentRedirect, rec.Code)
	assert.Equal(t, "/v1/courses/c1/enroll?x=1", rec.Header().Get("Location"))
}

func TestSwaggerAndMetrics(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Neo-Gurukul API")
	assert.Contains(t, rec.Body.String(), `"/v1"`)

	// a request first so the labelled request counter has a sample
	serve(h, httptest.NewRequest(http.MethodGet, "/v1/portal/routes", nil))
	rec = serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gurukul_http_requests_total")
}

func TestAuthWiring(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/v1/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, _, err := util.IssueToken(testSecret, "s1", "s1@example.com", "student", time.Hour, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard/teacher", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, serve(h, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/portal/access?path=/student-dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = serve(h, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"outcome":"allow"`)

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/v1/portal/access?path=/student-dashboard", nil))
	assert.Contains(t, rec.Body.String(), `"redirect":"/login"`)
}

func TestCORS(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/courses", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := serve(h, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/v1/courses", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec = serve(h, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorsOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, corsOrigins(&config.Config{}))
	assert.Equal(t, []string{"a", "b"}, corsOrigins(&config.Config{CORSAllowedOrigins: " a ,,b"}))
}
