package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/foodcourt-platform/api-gateway/internal/mocks"
	"github.com/foodcourt-platform/platform/identity"
)

func TestGateway_HealthCheck(t *testing.T) {
	gw := NewGateway(Config{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	gw.HealthCheck(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	json.NewDecoder(rr.Body).Decode(&body)
	assert.Equal(t, "healthy", body["status"])
}

func TestGateway_ProxyToCore(t *testing.T) {
	client := new(mocks.HTTPClient)
	gw := NewGateway(Config{CoreSvcURL: "http://core-svc"}, client, nil)

	mockResp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`{"id":"order-1"}`)),
		Header:     make(http.Header),
	}
	client.On("Do", mock.Anything).Return(mockResp, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/orders/order-1", nil)
	rr := httptest.NewRecorder()
	gw.ProxyToCore(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "order-1")
	client.AssertExpectations(t)
}

func TestGateway_ProxyToCore_Unreachable(t *testing.T) {
	client := new(mocks.HTTPClient)
	gw := NewGateway(Config{CoreSvcURL: "http://core-svc"}, client, nil)

	client.On("Do", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/orders/order-1", nil)
	rr := httptest.NewRecorder()
	gw.ProxyToCore(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestGateway_RequireAuth_MissingToken(t *testing.T) {
	gw := NewGateway(Config{ProviderSecret: "secret"}, nil, nil)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodGet, "/api/orders/order-1", nil)
	rr := httptest.NewRecorder()
	gw.RequireAuth(next).ServeHTTP(rr, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGateway_RequireAuth_ValidToken(t *testing.T) {
	secret := "secret"
	gw := NewGateway(Config{ProviderSecret: secret}, nil, nil)

	token := identity.Sign(map[string]string{
		"subject":  "principal-1",
		"issuedAt": strconv.FormatInt(time.Now().Unix(), 10),
	}, secret)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodGet, "/api/orders/order-1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	gw.RequireAuth(next).ServeHTTP(rr, req)

	assert.True(t, called)
}

func TestGateway_RequireAuth_PublicPathBypassesToken(t *testing.T) {
	gw := NewGateway(Config{ProviderSecret: "secret"}, nil, nil)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodPost, "/api/auth/session", nil)
	rr := httptest.NewRecorder()
	gw.RequireAuth(next).ServeHTTP(rr, req)

	assert.True(t, called)
}
