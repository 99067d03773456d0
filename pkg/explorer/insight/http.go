package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/vipstarcoin/vipswallet/pkg/explorer"
	"github.com/vipstarcoin/vipswallet/pkg/util"
)

// HTTPError is returned for any non 2xx answer of an endpoint.
type HTTPError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: %d %s", e.URL, e.StatusCode, e.Body)
}

// IsClientError returns whether the request was rejected with a 4xx status,
// in which case it's pointless to retry it.
func (e *HTTPError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

func (i *insight) get(
	ctx context.Context, path string, query url.Values, out interface{},
) error {
	if len(query) > 0 {
		path = fmt.Sprintf("%s?%s", path, query.Encode())
	}
	return i.request(ctx, http.MethodGet, path, nil, out)
}

func (i *insight) post(
	ctx context.Context, path string, payload, out interface{},
) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return i.request(ctx, http.MethodPost, path, body, out)
}

// request sends the request to the configured endpoints in order until one
// answers. Every endpoint is retried up to maxRetries times before moving
// to the next one, unless its circuit breaker is open or the answer is a
// client error.
func (i *insight) request(
	ctx context.Context, method, path string, body []byte, out interface{},
) error {
	var lastErr error
	for n, ep := range i.endpoints {
		if n > 0 {
			i.metrics.rotations.Inc()
			log.WithFields(log.Fields{
				"endpoint": ep.baseURL,
				"path":     path,
				"cause":    lastErr,
			}).Debug("insight: rotating endpoint")
		}

		resp, err := i.requestWithRetry(ctx, ep, method, path, body)
		if err == nil {
			if out == nil {
				return nil
			}
			if err := json.Unmarshal(resp, out); err != nil {
				return fmt.Errorf("failed to parse response of %s: %w", path, err)
			}
			return nil
		}

		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.IsClientError() {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		lastErr = err
	}

	return fmt.Errorf("%w: %w", explorer.ErrProviderUnavailable, lastErr)
}

func (i *insight) requestWithRetry(
	ctx context.Context, ep *endpoint, method, path string, body []byte,
) ([]byte, error) {
	var resp []byte
	uri := ep.baseURL + path

	op := func() error {
		var clientErr error
		res, err := ep.breaker.Execute(func() (interface{}, error) {
			i.limiter.Take()

			reqCtx, cancel := context.WithTimeout(ctx, i.timeout)
			defer cancel()

			header := map[string]string{"Accept": "application/json"}
			if body != nil {
				header["Content-Type"] = "application/json"
			}
			status, resBody, err := util.NewHTTPRequest(
				reqCtx, i.client, method, uri, body, header,
			)
			if err != nil {
				return nil, err
			}
			if status < 200 || status >= 300 {
				httpErr := &HTTPError{uri, status, string(resBody)}
				// a client error says nothing about the health of the endpoint
				if httpErr.IsClientError() {
					clientErr = httpErr
					return nil, nil
				}
				return nil, httpErr
			}
			return resBody, nil
		})

		switch {
		case clientErr != nil:
			i.metrics.requests.WithLabelValues(ep.baseURL, "client_error").Inc()
			return backoff.Permanent(clientErr)
		case errors.Is(err, gobreaker.ErrOpenState),
			errors.Is(err, gobreaker.ErrTooManyRequests):
			i.metrics.requests.WithLabelValues(ep.baseURL, "breaker_open").Inc()
			return backoff.Permanent(err)
		case err != nil:
			i.metrics.requests.WithLabelValues(ep.baseURL, "error").Inc()
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}

		i.metrics.requests.WithLabelValues(ep.baseURL, "ok").Inc()
		resp = res.([]byte)
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewConstantBackOff(i.retryInterval), i.maxRetries,
		),
		ctx,
	)
	notify := func(err error, next time.Duration) {
		log.WithError(err).WithField("endpoint", ep.baseURL).Debugf(
			"insight: request failed, retrying in %s", next,
		)
	}
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return nil, err
	}
	return resp, nil
}
