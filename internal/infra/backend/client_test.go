package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"app/internal/domain/model"
	"app/internal/gateway"

	"github.com/stretchr/testify/assert"
)

func TestClient_SearchProduct_Found(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search_product", r.URL.Path)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "4901234567894", body["code"])

		json.NewEncoder(w).Encode(map[string]any{
			"product": map[string]any{
				"id": 1, "code": "4901234567894", "name": "Tea", "price": 150,
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	p, err := c.SearchProduct(context.Background(), "4901234567894")
	assert.NoError(t, err)
	assert.Equal(t, &model.Product{ID: 1, Code: "4901234567894", Name: "Tea", Price: 150}, p)
}

func TestClient_SearchProduct_NullProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"product": null}`))
	}))
	defer srv.Close()

	p, err := NewClient(srv.URL).SearchProduct(context.Background(), "000")
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestClient_SearchProduct_ServerDetailSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail": "db unavailable"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).SearchProduct(context.Background(), "111")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, gateway.ErrBackend))
	assert.Contains(t, err.Error(), "db unavailable")
}

func TestClient_SearchProduct_StatusTextFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).SearchProduct(context.Background(), "111")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), http.StatusText(http.StatusBadGateway))
}

func TestClient_Purchase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/purchase", r.URL.Path)

		var req model.PurchaseRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "9999999999", req.EmpCd)
		assert.Equal(t, "30", req.StoreCd)
		assert.Equal(t, "90", req.PosNo)
		assert.Len(t, req.Items, 1)

		json.NewEncoder(w).Encode(model.PurchaseResult{
			Success: true, TotalAmount: 150, TotalAmountExTax: 136,
		})
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL).Purchase(context.Background(), model.PurchaseRequest{
		EmpCd: "9999999999", StoreCd: "30", PosNo: "90",
		Items: []model.CartLine{{ProductID: 1, Code: "4901234567894", Name: "Tea", Price: 150, Quantity: 1}},
	})
	assert.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, int64(150), res.TotalAmount)
	assert.Equal(t, int64(136), res.TotalAmountExTax)
}

func TestClient_Purchase_SuccessFalseIsNotTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.PurchaseResult{Success: false})
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL).Purchase(context.Background(), model.PurchaseRequest{})
	assert.NoError(t, err)
	assert.False(t, res.Success)
}

func TestClient_Purchase_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	_, err := NewClient(srv.URL).Purchase(context.Background(), model.PurchaseRequest{})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, gateway.ErrBackend))
}

func TestClient_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/", r.URL.Path)
		json.NewEncoder(w).Encode(gateway.HealthStatus{Status: "ok", Service: "pos-backend", Version: "1.0.0"})
	}))
	defer srv.Close()

	st, err := NewClient(srv.URL).Health(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "ok", st.Status)
	assert.Equal(t, "pos-backend", st.Service)
}
