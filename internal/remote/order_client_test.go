package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DANCANKARANI/e-commerce/internal/domain"
)

func newOrderServer(t *testing.T, handler http.HandlerFunc) *OrderClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOrderClient(srv.URL, srv.Client(), 5*time.Second)
}

func orderRequest() CreateOrderRequest {
	return CreateOrderRequest{
		Items:           []domain.OrderItem{{ProductID: "p1", Quantity: 2}},
		ShippingAddress: "Jane Wanjiku, 12 Riverside Drive, Nairobi, Phone: 0712345678",
		PaymentMethod:   domain.PaymentMethodMpesa,
	}
}

func TestOrderClient_CreateSendsBodyAndIdempotencyKey(t *testing.T) {
	var gotKey string
	var gotBody CreateOrderRequest
	client := newOrderServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		gotKey = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"ord-7"}`))
	})

	order, err := client.Create(context.Background(), "token", orderRequest(), "key-1")

	require.NoError(t, err)
	assert.Equal(t, "key-1", gotKey)
	assert.Equal(t, "ord-7", order.OrderID)
	assert.Equal(t, "mpesa", gotBody.PaymentMethod)
	require.Len(t, gotBody.Items, 1)
	assert.Equal(t, "p1", gotBody.Items[0].ProductID)
}

func TestOrderClient_CreateUnwrapsDataEnvelope(t *testing.T) {
	client := newOrderServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"order_id":"ord-9"}}`))
	})

	order, err := client.Create(context.Background(), "token", orderRequest(), "key-1")

	require.NoError(t, err)
	assert.Equal(t, "ord-9", order.OrderID)
}

func TestOrderClient_ServerErrorSurfacedVerbatim(t *testing.T) {
	client := newOrderServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"product p1 is no longer available"}`))
	})

	_, err := client.Create(context.Background(), "token", orderRequest(), "key-1")

	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, "product p1 is no longer available", syncErr.Message)
}
