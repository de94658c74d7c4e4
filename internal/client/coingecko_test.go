package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetETHRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "ethereum", r.URL.Query().Get("ids"))
		assert.Equal(t, "eur", r.URL.Query().Get("vs_currencies"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ethereum":{"eur":2345.678}}`))
	}))
	defer srv.Close()

	rate, err := NewCoinGeckoClientWithURL(srv.URL+"/").GetETHRate(context.Background(), " EUR ")
	require.NoError(t, err)
	assert.Equal(t, "2345.68", rate)
}

func TestGetETHRate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		currency string
		wantErr  string
	}{
		{name: "empty currency", currency: "", wantErr: "currency is empty"},
		{name: "bad status", status: http.StatusTooManyRequests, currency: "usd", wantErr: "status 429"},
		{name: "bad body", status: http.StatusOK, body: "not json", currency: "usd", wantErr: "failed to decode rate"},
		{name: "missing currency", status: http.StatusOK, body: `{"ethereum":{}}`, currency: "usd", wantErr: "no usd rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewCoinGeckoClientWithURL(srv.URL).GetETHRate(context.Background(), tt.currency)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
