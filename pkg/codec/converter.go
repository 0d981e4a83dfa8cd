package codec

import (
	"reflect"
	"unsafe"

	jsoniter "github.com/json-iterator/go"

	"github.com/lwmacct/251124-es-conn/pkg/connection"
)

// TypedConverter builds a converter for values of type T from typed encode
// and decode functions. Either function may be nil.
func TypedConverter[T any](encode func(T, *jsoniter.Stream), decode func(*jsoniter.Iterator) T) *connection.Converter {
	c := &connection.Converter{}
	if encode != nil {
		c.Encoder = typedEncoder[T](encode)
	}
	if decode != nil {
		c.Decoder = typedDecoder[T](decode)
	}
	return c
}

// ConverterFor returns a contract converter that serves c for exactly T and
// nothing else.
func ConverterFor[T any](c *connection.Converter) connection.ContractConverter {
	target := reflect.TypeFor[T]()
	return func(t reflect.Type) *connection.Converter {
		if t == target {
			return c
		}
		return nil
	}
}

type typedEncoder[T any] func(T, *jsoniter.Stream)

func (e typedEncoder[T]) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	e(*(*T)(ptr), stream)
}

func (e typedEncoder[T]) IsEmpty(ptr unsafe.Pointer) bool {
	return reflect.ValueOf((*T)(ptr)).Elem().IsZero()
}

type typedDecoder[T any] func(*jsoniter.Iterator) T

func (d typedDecoder[T]) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	*(*T)(ptr) = d(iter)
}
