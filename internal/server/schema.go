// internal/server/schema.go
package server

import (
	"reflect"
	"strings"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
)

// newTool describes a tool for MCP clients. The input schema is derived from
// the json and description tags of params; fields without omitempty are
// required.
func newTool(name, description string, params interface{}) *protocol.Tool {
	schema := protocol.InputSchema{
		Type:       protocol.Object,
		Properties: make(map[string]interface{}),
	}
	if params != nil {
		addProperties(&schema, reflect.TypeOf(params))
	}
	return &protocol.Tool{
		Name:        name,
		Description: description,
		InputSchema: schema,
	}
}

func addProperties(schema *protocol.InputSchema, t reflect.Type) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			addProperties(schema, field.Type)
			continue
		}
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("json")
		name, opts, _ := strings.Cut(tag, ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}

		prop := jsonType(field.Type)
		if desc := field.Tag.Get("description"); desc != "" {
			prop["description"] = desc
		}
		schema.Properties[name] = prop
		if !strings.Contains(opts, "omitempty") {
			schema.Required = append(schema.Required, name)
		}
	}
}

func jsonType(t reflect.Type) map[string]interface{} {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return map[string]interface{}{"type": "string"}
	case reflect.Bool:
		return map[string]interface{}{"type": "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]interface{}{"type": "integer"}
	case reflect.Float32, reflect.Float64:
		return map[string]interface{}{"type": "number"}
	case reflect.Slice, reflect.Array:
		return map[string]interface{}{"type": "array", "items": jsonType(t.Elem())}
	default:
		return map[string]interface{}{"type": "object"}
	}
}
