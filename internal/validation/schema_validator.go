// Package validation checks configuration documents against JSON schemas
// before they are decoded into typed structs.
package validation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/rules.schema.json
var rulesSchema []byte

// ErrSchemaViolation is returned when a document does not match its schema
var ErrSchemaViolation = errors.New("schema validation failed")

// SchemaValidator validates decoded documents against one compiled schema
type SchemaValidator interface {
	Validate(doc any) error
	ValidateYAML(data []byte) error
}

type validator struct {
	name    string
	schema  *jsonschema.Schema
	printer *message.Printer
}

// NewSchemaValidator compiles a JSON schema held in memory
func NewSchemaValidator(name string, schemaJSON []byte) (SchemaValidator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf(ErrMsgParseSchemaFmt, name, err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, doc); err != nil {
		return nil, fmt.Errorf(ErrMsgAddSchemaFmt, name, err)
	}
	schema, err := c.Compile(name)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgCompileSchemaFmt, name, err)
	}

	return &validator{
		name:    name,
		schema:  schema,
		printer: message.NewPrinter(language.English),
	}, nil
}

// NewRulesValidator returns a validator for the game rules file
func NewRulesValidator() (SchemaValidator, error) {
	return NewSchemaValidator(RulesSchemaName, rulesSchema)
}

// ValidateYAML decodes a YAML document and validates it. An empty document is valid.
func (v *validator) ValidateYAML(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf(ErrMsgParseYAMLFmt, err)
	}
	if doc == nil {
		return nil
	}
	return v.Validate(doc)
}

// Validate checks a decoded document. The document is round-tripped through
// JSON so YAML scalars and keys take their JSON form.
func (v *validator) Validate(doc any) error {
	b, err := json.Marshal(normalize(doc))
	if err != nil {
		return fmt.Errorf(ErrMsgEncodeDocFmt, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf(ErrMsgEncodeDocFmt, err)
	}

	if err := v.schema.Validate(inst); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// normalize converts YAML maps with non-string keys into JSON objects
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}

// formatValidationError lists every leaf violation with its document location
func (v *validator) formatValidationError(err error) error {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return fmt.Errorf(ErrMsgUnexpectedFmt, err)
	}

	var lines []string
	v.collectErrors(validationErr, nil, &lines)
	return fmt.Errorf("%w:\n%s", ErrSchemaViolation, strings.Join(lines, "\n"))
}

// collectErrors walks the cause tree down to its leaves. Some keywords, such as
// propertyNames, report causes without an instance location, so a cause never
// reports a location shallower than its parent's.
func (v *validator) collectErrors(err *jsonschema.ValidationError, parent []string, lines *[]string) {
	at := err.InstanceLocation
	if len(at) < len(parent) {
		at = parent
	}
	if len(err.Causes) == 0 {
		*lines = append(*lines, v.formatError(err, at))
		return
	}
	for _, cause := range err.Causes {
		v.collectErrors(cause, at, lines)
	}
}

func (v *validator) formatError(err *jsonschema.ValidationError, at []string) string {
	location := RootLocation
	if len(at) > 0 {
		location = "/" + strings.Join(at, "/")
	}

	detail := "validation failed"
	if err.ErrorKind != nil {
		detail = err.ErrorKind.LocalizedString(v.printer)
	}
	return fmt.Sprintf(ErrMsgViolationLineFmt, location, detail)
}
