// Package request turns connection settings into outgoing HTTP requests and
// clients.
package request

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/lwmacct/251124-es-conn/pkg/codec"
	"github.com/lwmacct/251124-es-conn/pkg/connection"
)

// Builder builds request URLs and requests from frozen settings. It is safe
// for concurrent use.
type Builder struct {
	settings *connection.Settings
	codec    *codec.Codec
}

// NewBuilder freezes s and returns a builder over it.
func NewBuilder(s *connection.Settings) *Builder {
	s.Freeze()
	return &Builder{
		settings: s,
		codec:    codec.New(s),
	}
}

func (b *Builder) Settings() *connection.Settings { return b.settings }

func (b *Builder) Codec() *codec.Codec { return b.codec }

// URL returns endpoint/index/typeName/segments... with the global query
// parameters attached. Empty parts are skipped; every part is path-escaped
// and "." or ".." parts are kept literally, so the endpoint path is always a
// prefix of the result.
func (b *Builder) URL(index, typeName string, segments ...string) *url.URL {
	parts := make([]string, 0, len(segments)+2)
	for _, p := range append([]string{index, typeName}, segments...) {
		if p != "" {
			parts = append(parts, escapeSegment(p))
		}
	}

	u := b.settings.Endpoint()
	raw := u.EscapedPath()
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	raw += strings.Join(parts, "/")

	path, err := url.PathUnescape(raw)
	if err != nil {
		path = raw
	}
	u.Path, u.RawPath = path, raw
	u.RawQuery = b.settings.GlobalQueryParameters().Encode()
	return u
}

// escapeSegment path-escapes p; dot segments become %2E so nothing resolves
// them against the endpoint path.
func escapeSegment(p string) string {
	if p == "." || p == ".." {
		return strings.Repeat("%2E", len(p))
	}
	return url.PathEscape(p)
}

// URLFor resolves the index and type name of t and returns the request URL.
func (b *Builder) URLFor(t reflect.Type, segments ...string) (*url.URL, error) {
	index, err := b.settings.ResolveIndexName(t)
	if err != nil {
		return nil, err
	}
	return b.URL(index, b.settings.ResolveTypeName(t), segments...), nil
}

// URLOf is URLFor for T.
func URLOf[T any](b *Builder, segments ...string) (*url.URL, error) {
	return b.URLFor(reflect.TypeFor[T](), segments...)
}

// NewRequest builds a request against the resolved URL for t. A non-nil body
// is encoded with the settings' codec.
func (b *Builder) NewRequest(ctx context.Context, method string, t reflect.Type, body any, segments ...string) (*http.Request, error) {
	u, err := b.URLFor(t, segments...)
	if err != nil {
		return nil, err
	}
	return b.NewRequestURL(ctx, method, u, body)
}

// NewRequestURL builds a request against u. Credentials embedded in the
// endpoint are sent as basic auth and removed from the request URL.
func (b *Builder) NewRequestURL(ctx context.Context, method string, u *url.URL, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := b.codec.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	target := *u
	user := target.User
	target.User = nil

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.settings.EmbeddedCredentials() && user != nil {
		password, _ := user.Password()
		req.SetBasicAuth(user.Username(), password)
	}
	return req, nil
}
