// Package codec encodes request and response bodies the way the connection
// settings ask for.
package codec

import (
	"bytes"
	"encoding/json"

	jsoniter "github.com/json-iterator/go"

	"github.com/lwmacct/251124-es-conn/pkg/connection"
)

// Codec is a JSON encoder/decoder built from connection settings. It is safe
// for concurrent use.
type Codec struct {
	api jsoniter.API
}

// DefaultConfig returns the serializer settings before any customization:
// the behavior of encoding/json.
func DefaultConfig() jsoniter.Config {
	return jsoniter.Config{
		EscapeHTML:             true,
		SortMapKeys:            true,
		ValidateJsonRawMessage: true,
	}
}

// New builds a codec from s. The serializer customizer runs on DefaultConfig
// before it is frozen; property naming and contract converters are installed
// as an extension of the frozen API.
func New(s *connection.Settings) *Codec {
	cfg := DefaultConfig()
	s.SerializerCustomizer()(&cfg)

	api := cfg.Froze()
	api.RegisterExtension(&settingsExtension{
		propertyName: s.PropertyNameResolver(),
		converters:   s.ContractConverters(),
		tagKey:       tagKey(cfg),
	})
	return &Codec{api: api}
}

// API exposes the frozen jsoniter API, e.g. for streaming.
func (c *Codec) API() jsoniter.API { return c.api }

func (c *Codec) Marshal(v any) ([]byte, error) {
	return c.api.Marshal(v)
}

// MarshalIndent is Marshal followed by json.Indent. jsoniter's MarshalIndent
// re-freezes through a shared config cache and may lose this codec's extension.
func (c *Codec) MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	data, err := c.api.Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, prefix, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Codec) Unmarshal(data []byte, v any) error {
	return c.api.Unmarshal(data, v)
}

func tagKey(cfg jsoniter.Config) string {
	if cfg.TagKey == "" {
		return "json"
	}
	return cfg.TagKey
}
