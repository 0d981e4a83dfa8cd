package connection

import (
	"fmt"
	"net/url"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout is the request timeout used unless WithTimeout overrides it.
const DefaultTimeout = 60 * time.Second

// Proxy is the optional forward proxy for outgoing requests. Its credentials
// apply to the proxy hop only.
type Proxy struct {
	Address  *url.URL
	Username string
	Password string
}

// URL returns the proxy address with the credentials embedded as user-info,
// the form net/http expects.
func (p Proxy) URL() *url.URL {
	u := cloneURL(p.Address)
	if u != nil && p.Username != "" {
		u.User = url.UserPassword(p.Username, p.Password)
	}
	return u
}

// Settings holds every cross-cutting choice a client needs before it issues
// a request against the cluster.
//
// Settings are configured with options during a single-threaded setup phase
// and frozen when request-building code takes them over; from then on every
// accessor is safe for concurrent use.
type Settings struct {
	endpoint            *url.URL
	host                string
	port                int
	embeddedCredentials bool

	defaultIndex          string
	timeout               time.Duration
	proxy                 *Proxy
	maxConcurrentRequests int
	prettyResponses       bool
	traceEnabled          bool

	typeNameResolver     TypeNameResolver
	propertyNameResolver func(string) string
	indexOverrides       map[reflect.Type]string
	typeNameOverrides    map[reflect.Type]string
	queryParameters      url.Values

	statusHandler        StatusHandler
	serializerCustomizer SerializerCustomizer
	contractConverters   []ContractConverter

	logger zerolog.Logger
	frozen atomic.Bool
}

// New creates settings for the cluster at endpoint, defaulting every request
// to defaultIndex, then applies opts in order.
//
// The endpoint must be absolute; it is copied and its path normalized to end
// with "/".
func New(endpoint *url.URL, defaultIndex string, opts ...Option) (*Settings, error) {
	if endpoint == nil {
		return nil, fmt.Errorf("%w: endpoint is required", ErrInvalidArgument)
	}
	if !endpoint.IsAbs() || endpoint.Host == "" {
		return nil, fmt.Errorf("%w: endpoint %q is not an absolute URI", ErrInvalidArgument, endpoint.Redacted())
	}
	if defaultIndex == "" {
		return nil, fmt.Errorf("%w: default index must not be empty", ErrInvalidArgument)
	}

	u := cloneURL(endpoint)
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
		if u.RawPath != "" {
			u.RawPath += "/"
		}
	}

	port, err := endpointPort(u)
	if err != nil {
		return nil, err
	}

	s := &Settings{
		endpoint:             u,
		host:                 u.Hostname(),
		port:                 port,
		embeddedCredentials:  u.User != nil && u.User.String() != "",
		defaultIndex:         defaultIndex,
		timeout:              DefaultTimeout,
		typeNameResolver:     DefaultTypeName,
		indexOverrides:       make(map[reflect.Type]string),
		typeNameOverrides:    make(map[reflect.Type]string),
		queryParameters:      url.Values{},
		statusHandler:        NopStatusHandler,
		serializerCustomizer: nopSerializerCustomizer,
		contractConverters:   []ContractConverter{},
		logger:               zerolog.Nop(),
	}

	if err := s.Apply(opts...); err != nil {
		return nil, err
	}
	return s, nil
}

// Parse is New for a textual endpoint.
func Parse(rawEndpoint, defaultIndex string, opts ...Option) (*Settings, error) {
	if rawEndpoint == "" {
		return nil, fmt.Errorf("%w: endpoint is required", ErrInvalidArgument)
	}
	u, err := url.Parse(rawEndpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: endpoint: %v", ErrInvalidArgument, err)
	}
	return New(u, defaultIndex, opts...)
}

// Apply applies opts in order during setup. It stops at the first failing
// option; options before it stay applied.
func (s *Settings) Apply(opts ...Option) error {
	if s.frozen.Load() {
		return ErrFrozen
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(s); err != nil {
			return err
		}
	}
	return nil
}

// Freeze ends the setup phase. Further Apply calls fail with ErrFrozen.
// Freeze is idempotent and safe to call from several goroutines.
func (s *Settings) Freeze() *Settings {
	s.frozen.Store(true)
	return s
}

// Frozen reports whether Freeze has been called.
func (s *Settings) Frozen() bool {
	return s.frozen.Load()
}

// Endpoint returns a copy of the normalized endpoint.
func (s *Settings) Endpoint() *url.URL { return cloneURL(s.endpoint) }

// Host returns the endpoint host without port.
func (s *Settings) Host() string { return s.host }

// Port returns the endpoint port, or the scheme default when none is given.
func (s *Settings) Port() int { return s.port }

// EmbeddedCredentials reports whether the endpoint carried user-info, which
// request building sends as basic auth.
func (s *Settings) EmbeddedCredentials() bool { return s.embeddedCredentials }

// DefaultIndex returns the index used when no per-type override applies.
func (s *Settings) DefaultIndex() (string, error) {
	if s.defaultIndex == "" {
		return "", fmt.Errorf("%w: no default index set on connection", ErrInvariantViolation)
	}
	return s.defaultIndex, nil
}

func (s *Settings) Timeout() time.Duration { return s.timeout }

// Proxy returns a copy of the proxy configuration, or nil.
func (s *Settings) Proxy() *Proxy {
	if s.proxy == nil {
		return nil
	}
	p := *s.proxy
	p.Address = cloneURL(p.Address)
	return &p
}

// MaxConcurrentRequests returns the in-flight request bound; 0 means unbounded.
func (s *Settings) MaxConcurrentRequests() int { return s.maxConcurrentRequests }

func (s *Settings) PrettyResponses() bool { return s.prettyResponses }

func (s *Settings) TraceEnabled() bool { return s.traceEnabled }

// GlobalQueryParameters returns a copy of the parameters appended to every
// request URL.
func (s *Settings) GlobalQueryParameters() url.Values {
	out := make(url.Values, len(s.queryParameters))
	for k, v := range s.queryParameters {
		out[k] = slices.Clone(v)
	}
	return out
}

// StatusHandler returns the callback invoked for every completed request.
func (s *Settings) StatusHandler() StatusHandler {
	if s.statusHandler == nil {
		return NopStatusHandler
	}
	return s.statusHandler
}

func (s *Settings) SerializerCustomizer() SerializerCustomizer {
	if s.serializerCustomizer == nil {
		return nopSerializerCustomizer
	}
	return s.serializerCustomizer
}

// ContractConverters returns a copy of the converter factories in order.
func (s *Settings) ContractConverters() []ContractConverter {
	return slices.Clone(s.contractConverters)
}

// PropertyNameResolver returns the property naming function, or nil when the
// codec default applies.
func (s *Settings) PropertyNameResolver() func(string) string { return s.propertyNameResolver }

func (s *Settings) TypeNameResolver() TypeNameResolver {
	if s.typeNameResolver == nil {
		return DefaultTypeName
	}
	return s.typeNameResolver
}

func (s *Settings) Logger() zerolog.Logger { return s.logger }

// ResolveIndexName returns the index override for t, falling back to the
// default index.
func (s *Settings) ResolveIndexName(t reflect.Type) (string, error) {
	if name, ok := s.indexOverrides[indirect(t)]; ok {
		return name, nil
	}
	return s.DefaultIndex()
}

// ResolveTypeName returns the type-name override for t, falling back to the
// type-name resolver.
func (s *Settings) ResolveTypeName(t reflect.Type) string {
	if name, ok := s.typeNameOverrides[indirect(t)]; ok {
		return name
	}
	return s.TypeNameResolver()(t)
}

// IndexNameOf resolves the index for T.
func IndexNameOf[T any](s *Settings) (string, error) {
	return s.ResolveIndexName(reflect.TypeFor[T]())
}

// TypeNameOf resolves the type name for T.
func TypeNameOf[T any](s *Settings) string {
	return s.ResolveTypeName(reflect.TypeFor[T]())
}

func endpointPort(u *url.URL) (int, error) {
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("%w: endpoint port %q: %v", ErrInvalidArgument, p, err)
		}
		return port, nil
	}
	switch strings.ToLower(u.Scheme) {
	case "http":
		return 80, nil
	case "https":
		return 443, nil
	default:
		return 0, nil
	}
}

func cloneURL(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
