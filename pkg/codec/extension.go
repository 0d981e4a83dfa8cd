package codec

import (
	"strings"
	"unicode"

	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"

	"github.com/lwmacct/251124-es-conn/pkg/connection"
)

// settingsExtension applies property naming and contract converters to every
// type the frozen API describes.
type settingsExtension struct {
	jsoniter.DummyExtension

	propertyName func(string) string
	converters   []connection.ContractConverter
	tagKey       string
}

// UpdateStructDescriptor renames fields that carry no explicit name in their
// tag. Unexported and ignored fields are left alone.
func (e *settingsExtension) UpdateStructDescriptor(sd *jsoniter.StructDescriptor) {
	rename := e.propertyName
	if rename == nil {
		rename = CamelCase
	}
	for _, binding := range sd.Fields {
		name := binding.Field.Name()
		if name == "" || !unicode.IsUpper([]rune(name)[0]) || len(binding.ToNames) == 0 {
			continue
		}
		if tag, ok := binding.Field.Tag().Lookup(e.tagKey); ok {
			if explicit := strings.Split(tag, ",")[0]; explicit != "" {
				continue
			}
		}
		renamed := rename(name)
		binding.ToNames = []string{renamed}
		binding.FromNames = []string{renamed}
	}
}

func (e *settingsExtension) CreateEncoder(typ reflect2.Type) jsoniter.ValEncoder {
	for _, factory := range e.converters {
		if c := factory(typ.Type1()); c != nil && c.Encoder != nil {
			return c.Encoder
		}
	}
	return nil
}

func (e *settingsExtension) CreateDecoder(typ reflect2.Type) jsoniter.ValDecoder {
	for _, factory := range e.converters {
		if c := factory(typ.Type1()); c != nil && c.Decoder != nil {
			return c.Decoder
		}
	}
	return nil
}

// CamelCase lowercases the leading run of upper-case letters, keeping the
// last one upper when a lower-case letter follows it: EmailAddress becomes
// emailAddress, ID becomes id, URLPath becomes urlPath.
func CamelCase(name string) string {
	runes := []rune(name)
	for i := range runes {
		if i == 1 && !unicode.IsUpper(runes[i]) {
			break
		}
		if i > 0 && i+1 < len(runes) && !unicode.IsUpper(runes[i+1]) {
			break
		}
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
