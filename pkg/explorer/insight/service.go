package insight

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"
	"github.com/vipstarcoin/vipswallet/pkg/circuitbreaker"
	"github.com/vipstarcoin/vipswallet/pkg/explorer"
	"github.com/vipstarcoin/vipswallet/pkg/network"
	"go.uber.org/ratelimit"
)

// Name is the name the provider is registered with.
const Name = "InsightAPI"

const (
	// DefaultTimeout is the timeout of every single request.
	DefaultTimeout = 3000 * time.Millisecond
	// DefaultMaxRetries is the number of times a request is retried against
	// the same endpoint before rotating to the next one.
	DefaultMaxRetries = 3
	// DefaultRetryInterval ...
	DefaultRetryInterval = 200 * time.Millisecond

	txsPageSize = 10
)

// Opts ...
type Opts struct {
	Network *network.Params
	// Endpoints defaults to the network API base urls.
	Endpoints     []string
	Timeout       time.Duration
	MaxRetries    uint64
	RetryInterval time.Duration
	// RateLimit is the max number of requests per second, 0 means unlimited.
	RateLimit  int
	Registerer prometheus.Registerer
	HTTPClient *http.Client
}

func (o Opts) validate() error {
	if o.Network == nil {
		return explorer.ErrNullNetwork
	}
	if len(o.Endpoints) <= 0 && len(o.Network.APIBaseURLs) <= 0 {
		return explorer.ErrNullEndpoints
	}
	return nil
}

type endpoint struct {
	baseURL string
	breaker *gobreaker.CircuitBreaker
}

type insight struct {
	net           *network.Params
	endpoints     []*endpoint
	client        *http.Client
	timeout       time.Duration
	maxRetries    uint64
	retryInterval time.Duration
	limiter       ratelimit.Limiter
	metrics       *metrics
}

// NewService returns a new insight service as an explorer.Service interface.
func NewService(opts Opts) (explorer.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	urls := opts.Endpoints
	if len(urls) <= 0 {
		urls = opts.Network.APIBaseURLs
	}
	endpoints := make([]*endpoint, 0, len(urls))
	for _, u := range urls {
		baseURL := strings.TrimSuffix(u, "/")
		endpoints = append(endpoints, &endpoint{
			baseURL: baseURL,
			breaker: circuitbreaker.NewCircuitBreaker(baseURL),
		})
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxRetries := opts.MaxRetries
	if maxRetries == 0 {
		maxRetries = DefaultMaxRetries
	}
	retryInterval := opts.RetryInterval
	if retryInterval <= 0 {
		retryInterval = DefaultRetryInterval
	}
	limiter := ratelimit.NewUnlimited()
	if opts.RateLimit > 0 {
		limiter = ratelimit.New(opts.RateLimit)
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	m, err := newMetrics(opts.Registerer)
	if err != nil {
		return nil, err
	}

	return &insight{
		net:           opts.Network,
		endpoints:     endpoints,
		client:        client,
		timeout:       timeout,
		maxRetries:    maxRetries,
		retryInterval: retryInterval,
		limiter:       limiter,
		metrics:       m,
	}, nil
}

// NewFactory returns an explorer.Factory building insight services with the
// given options.
func NewFactory(opts Opts) explorer.Factory {
	return func(net *network.Params) (explorer.Service, error) {
		opts.Network = net
		return NewService(opts)
	}
}

func (i *insight) Name() string {
	return Name
}

type metrics struct {
	requests  *prometheus.CounterVec
	rotations prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vipswallet",
			Subsystem: "insight",
			Name:      "requests_total",
			Help:      "Number of requests sent to insight endpoints by outcome.",
		}, []string{"endpoint", "outcome"}),
		rotations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vipswallet",
			Subsystem: "insight",
			Name:      "endpoint_rotations_total",
			Help:      "Number of times a request moved to the next endpoint.",
		}),
	}
	if reg == nil {
		return m, nil
	}

	if err := reg.Register(m.requests); err != nil {
		are := prometheus.AlreadyRegisteredError{}
		if !errors.As(err, &are) {
			return nil, err
		}
		m.requests = are.ExistingCollector.(*prometheus.CounterVec)
	}
	if err := reg.Register(m.rotations); err != nil {
		are := prometheus.AlreadyRegisteredError{}
		if !errors.As(err, &are) {
			return nil, err
		}
		m.rotations = are.ExistingCollector.(prometheus.Counter)
	}
	return m, nil
}
