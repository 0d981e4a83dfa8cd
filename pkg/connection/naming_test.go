package connection

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type (
	Box    struct{}
	Church struct{}
	Bus    struct{}

	Page[T any] struct{ Items []T }
)

// TestDefaultTypeName 测试默认类型名推断
func TestDefaultTypeName(t *testing.T) {
	assert.Equal(t, "order", DefaultTypeName(reflect.TypeFor[Order]()))
	assert.Equal(t, "order", DefaultTypeName(reflect.TypeFor[*Order]()))
	assert.Equal(t, "person", DefaultTypeName(reflect.TypeFor[**Person]()))
	assert.Empty(t, DefaultTypeName(nil))
}

// TestDefaultTypeName_GenericAndUnnamed 测试泛型类型与匿名类型
func TestDefaultTypeName_GenericAndUnnamed(t *testing.T) {
	assert.Equal(t, "page", DefaultTypeName(reflect.TypeFor[Page[Order]]()), "应去掉类型参数")
	assert.Equal(t, "page", DefaultTypeName(reflect.TypeFor[*Page[map[string]int]]()))
	assert.Equal(t, "pages", PluralTypeName(reflect.TypeFor[Page[int]]()))
	assert.Empty(t, DefaultTypeName(reflect.TypeFor[[]int]()), "匿名类型没有名称")
	assert.Empty(t, PluralTypeName(reflect.TypeFor[map[string]int]()))
}

// TestPluralTypeName 测试复数类型名推断
func TestPluralTypeName(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		want string
	}{
		{name: "规则名词加 s", typ: reflect.TypeFor[Order](), want: "orders"},
		{name: "不规则复数", typ: reflect.TypeFor[Person](), want: "people"},
		{name: "辅音加 y", typ: reflect.TypeFor[Category](), want: "categories"},
		{name: "以 x 结尾", typ: reflect.TypeFor[Box](), want: "boxes"},
		{name: "以 ch 结尾", typ: reflect.TypeFor[Church](), want: "churches"},
		{name: "以 s 结尾", typ: reflect.TypeFor[Bus](), want: "buses"},
		{name: "指针类型", typ: reflect.TypeFor[*Order](), want: "orders"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PluralTypeName(tt.typ))
		})
	}

	assert.Empty(t, PluralTypeName(nil))
}
