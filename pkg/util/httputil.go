package util

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// NewHTTPRequest function builds and sends an http call bound to the given
// context and returns the response status code and body.
// @param method <string>: http method, GET or POST
// @param url <string>: URL http to call
func NewHTTPRequest(
	ctx context.Context,
	client *http.Client,
	method, url string,
	body []byte,
	header map[string]string,
) (int, []byte, error) {
	switch method {
	case http.MethodGet, http.MethodPost:
	default:
		return 0, nil, fmt.Errorf("verb not supported %s", method)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}

	for key, value := range header {
		req.Header.Set(key, value)
	}

	rs, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer rs.Body.Close()

	bodyBytes, err := io.ReadAll(rs.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return rs.StatusCode, bodyBytes, nil
}
