package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOneSignalSend(t *testing.T) {
	var got oneSignalReq
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/notifications", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewOneSignalPusher("app-123", "key-456")
	p.BaseURL = srv.URL

	err := p.Send(context.Background(), Notification{
		UserID:       42,
		Title:        "Seller Accepted Your Request!",
		Body:         "Seller accepted your request for 'Scientific Calculator'. You can now chat and fix a deal!",
		ConnectionID: 7,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Basic key-456", auth)
	assert.Equal(t, "app-123", got.AppID)
	assert.Equal(t, "Seller Accepted Your Request!", got.Headings["en"])
	assert.Equal(t, "7", got.Data["connection_id"])
	if assert.Len(t, got.Filters, 1) {
		f := got.Filters[0]
		assert.Equal(t, "tag", f.Field)
		assert.Equal(t, "user_id", f.Key)
		assert.Equal(t, "=", f.Relation)
		assert.Equal(t, "42", f.Value)
	}
}

func TestOneSignalSend_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":["invalid app_id"]}`))
	}))
	defer srv.Close()

	p := NewOneSignalPusher("app-123", "key-456")
	p.BaseURL = srv.URL

	err := p.Send(context.Background(), Notification{UserID: 42, Title: "x", Body: "y"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid app_id")
}
