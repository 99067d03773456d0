package util_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vipstarcoin/vipswallet/pkg/util"
)

func TestNewHTTPRequest(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		w.Write(append([]byte(r.Method+":"), body...))
	}))
	defer srv.Close()

	header := map[string]string{"Content-Type": "application/json"}
	status, body, err := util.NewHTTPRequest(
		context.Background(), srv.Client(), http.MethodPost, srv.URL, []byte("{}"), header,
	)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, "POST:{}", string(body))

	_, _, err = util.NewHTTPRequest(
		context.Background(), srv.Client(), http.MethodDelete, srv.URL, nil, nil,
	)
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = util.NewHTTPRequest(ctx, srv.Client(), http.MethodGet, srv.URL, nil, header)
	require.ErrorIs(t, err, context.Canceled)
}
