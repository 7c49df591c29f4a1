package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abraxas0001/E-Com-Cart/internal/domain"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecover(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	h := Recover(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"InternalServerError","message":"Something went wrong!"}`, rec.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("panic").Len())
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := middleware.RequestID(CorrelationID(RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set(HeaderCorrelationID, "cid-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "cid-1", rec.Header().Get(HeaderCorrelationID))
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/cart", fields["path"])
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, "cid-1", fields["correlation_id"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	h := CORS([]string{"https://shop.example"})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://shop.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://shop.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

type failingCart struct{}

func (failingCart) AddItem(context.Context, int64, int) (*domain.CartLine, error) {
	return nil, domain.NewInternal("failed to insert cart item", errors.New("database is locked"))
}

func (failingCart) GetCartWithTotal(context.Context) (*domain.Cart, error) {
	return nil, errors.New("disk I/O error")
}

func (failingCart) UpdateItemQuantity(context.Context, int64, int) (*domain.CartLine, error) {
	return nil, errors.New("disk I/O error")
}

func (failingCart) RemoveItem(context.Context, int64) error {
	return errors.New("disk I/O error")
}

func (failingCart) ClearCart(context.Context) error {
	return errors.New("disk I/O error")
}

func TestHandleError_HidesInternalDetail(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	handler := NewCartHandler(failingCart{}, zap.New(core))

	t.Run("add", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/cart", strings.NewReader(`{"productId": 1, "quantity": 1}`))
		rec := httptest.NewRecorder()
		handler.AddItem(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"InternalServerError","message":"Failed to add item to cart"}`, rec.Body.String())
	})

	t.Run("get", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.GetCart(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"InternalServerError","message":"Failed to fetch cart"}`, rec.Body.String())
	})

	t.Run("clear", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ClearCart(rec, httptest.NewRequest(http.MethodDelete, "/api/cart", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "disk")
	})

	assert.Equal(t, 3, logs.Len())
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(domain.KindValidation))
	assert.Equal(t, http.StatusNotFound, statusFor(domain.KindNotFound))
	assert.Equal(t, http.StatusInternalServerError, statusFor(domain.KindInternal))
}
