package connection

import (
	"fmt"
	"net/url"
	"reflect"
	"slices"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Option configures Settings during setup. Options only take effect through
// New or Apply, so frozen settings cannot be changed.
type Option interface{ apply(*Settings) error }

type optionFunc func(*Settings) error

func (f optionFunc) apply(s *Settings) error {
	if s.frozen.Load() {
		return ErrFrozen
	}
	return f(s)
}

// EnableTrace asks request-building code to log each request at debug level.
func EnableTrace(enabled bool) Option {
	return optionFunc(func(s *Settings) error {
		s.traceEnabled = enabled
		return nil
	})
}

// PluralizeTypeNames switches type-name inference to PluralTypeName.
// Per-type name overrides still win.
func PluralizeTypeNames() Option {
	return optionFunc(func(s *Settings) error {
		s.typeNameResolver = PluralTypeName
		return nil
	})
}

// WithSerializerCustomizer replaces the serializer customizer. A nil fn
// leaves the current customizer in place.
func WithSerializerCustomizer(fn SerializerCustomizer) Option {
	return optionFunc(func(s *Settings) error {
		if fn == nil {
			return nil
		}
		s.serializerCustomizer = fn
		return nil
	})
}

// WithContractConverters replaces the converter list with converters, in
// order. Earlier lists are discarded, not merged.
func WithContractConverters(converters ...ContractConverter) Option {
	return optionFunc(func(s *Settings) error {
		s.contractConverters = slices.Clone(converters)
		if s.contractConverters == nil {
			s.contractConverters = []ContractConverter{}
		}
		return nil
	})
}

// WithGlobalQueryParameters appends params to the query parameters sent with
// every request. Values accumulate across calls; existing keys are not
// replaced.
func WithGlobalQueryParameters(params url.Values) Option {
	return optionFunc(func(s *Settings) error {
		if s.queryParameters == nil {
			s.queryParameters = url.Values{}
		}
		for k, vs := range params {
			for _, v := range vs {
				s.queryParameters.Add(k, v)
			}
		}
		return nil
	})
}

// WithTimeout sets the per-request timeout enforced by the transport.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(s *Settings) error {
		s.timeout = d
		return nil
	})
}

// WithDefaultIndex replaces the default index.
func WithDefaultIndex(name string) Option {
	return optionFunc(func(s *Settings) error {
		if name == "" {
			return fmt.Errorf("%w: default index must not be empty", ErrInvalidArgument)
		}
		s.defaultIndex = name
		return nil
	})
}

// WithMaxConcurrentRequests bounds in-flight requests; 0 means unbounded.
func WithMaxConcurrentRequests(n int) Option {
	return optionFunc(func(s *Settings) error {
		s.maxConcurrentRequests = n
		return nil
	})
}

// WithProxy routes requests through the proxy at address.
func WithProxy(address *url.URL, username, password string) Option {
	return optionFunc(func(s *Settings) error {
		if address == nil {
			return fmt.Errorf("%w: proxy address is required", ErrInvalidArgument)
		}
		s.proxy = &Proxy{
			Address:  cloneURL(address),
			Username: username,
			Password: password,
		}
		return nil
	})
}

// UsePrettyResponses sets the pretty flag and appends pretty=<enabled> to
// the global query parameters. The parameter is appended on every call,
// never replaced.
func UsePrettyResponses(enabled bool) Option {
	return optionFunc(func(s *Settings) error {
		s.prettyResponses = enabled
		return WithGlobalQueryParameters(url.Values{
			"pretty": {strconv.FormatBool(enabled)},
		}).apply(s)
	})
}

// WithPropertyNameResolver sets how struct field names become JSON property
// names. nil restores the codec's camelCase default.
func WithPropertyNameResolver(fn func(string) string) Option {
	return optionFunc(func(s *Settings) error {
		s.propertyNameResolver = fn
		return nil
	})
}

// WithTypeNameResolver replaces type-name inference wholesale.
func WithTypeNameResolver(fn TypeNameResolver) Option {
	return optionFunc(func(s *Settings) error {
		if fn == nil {
			return fmt.Errorf("%w: type name resolver is required", ErrInvalidArgument)
		}
		s.typeNameResolver = fn
		return nil
	})
}

// WithStatusHandler sets the callback invoked for every completed request.
func WithStatusHandler(fn StatusHandler) Option {
	return optionFunc(func(s *Settings) error {
		if fn == nil {
			return fmt.Errorf("%w: status handler is required", ErrInvalidArgument)
		}
		s.statusHandler = fn
		return nil
	})
}

// MapTypeIndices lets fn add or remove per-type index overrides. Overrides
// take precedence over the default index.
func MapTypeIndices(fn func(*TypeMap)) Option {
	return optionFunc(func(s *Settings) error {
		if fn == nil {
			return fmt.Errorf("%w: index mapping function is required", ErrInvalidArgument)
		}
		if s.indexOverrides == nil {
			s.indexOverrides = make(map[reflect.Type]string)
		}
		mapWith(s.indexOverrides, fn)
		return nil
	})
}

// MapTypeNames lets fn add or remove per-type name overrides. Overrides take
// precedence over the type-name resolver.
func MapTypeNames(fn func(*TypeMap)) Option {
	return optionFunc(func(s *Settings) error {
		if fn == nil {
			return fmt.Errorf("%w: type name mapping function is required", ErrInvalidArgument)
		}
		if s.typeNameOverrides == nil {
			s.typeNameOverrides = make(map[reflect.Type]string)
		}
		mapWith(s.typeNameOverrides, fn)
		return nil
	})
}

// WithLogger sets the logger used for trace output.
func WithLogger(logger zerolog.Logger) Option {
	return optionFunc(func(s *Settings) error {
		s.logger = logger
		return nil
	})
}

func mapWith(entries map[reflect.Type]string, fn func(*TypeMap)) {
	m := newTypeMap(entries)
	defer func() { m.closed = true }()
	fn(m)
}
