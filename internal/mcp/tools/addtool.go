package tools

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AddTool registers a tool with the server and validates that the output
// type's zero value passes the SDK's inferred JSON schema. Go's json.Marshal
// serializes nil slices as null, but the SDK infers "type": "array" from the
// Go type, so null fails validation at call time. This turns that runtime
// failure into a startup panic with the offending tool name.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	checkOutputSchema[Out](t.Name)
	sdkmcp.AddTool(srv, t, h)
}

func checkOutputSchema[T any](toolName string) {
	rt := reflect.TypeFor[T]()
	if rt == reflect.TypeFor[any]() {
		return
	}
	elem := rt
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}

	schema, err := jsonschema.ForType(elem, &jsonschema.ForOptions{})
	if err != nil {
		return // the SDK reports inference failures on its own
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return
	}

	var zero T
	data, err := json.Marshal(zero)
	if err != nil {
		return
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return
	}

	if err := resolved.Validate(instance); err != nil {
		panic(fmt.Sprintf(
			"AddTool %q: zero value of output type %s fails its own schema: %v\n"+
				"  likely a nil slice serializing as null; add omitzero or initialize the field",
			toolName, elem, err,
		))
	}
}
