package connection

import (
	"reflect"

	jsoniter "github.com/json-iterator/go"
)

// Converter is a custom serialization strategy for one type. Either side may
// be nil, in which case the codec's default is used for that direction.
type Converter struct {
	Encoder jsoniter.ValEncoder
	Decoder jsoniter.ValDecoder
}

// ContractConverter returns the converter for t, or nil when it does not
// handle t. Converters are consulted in registration order.
type ContractConverter func(t reflect.Type) *Converter

// SerializerCustomizer may adjust the serializer settings before the codec
// freezes them.
type SerializerCustomizer func(cfg *jsoniter.Config)

func nopSerializerCustomizer(*jsoniter.Config) {}
