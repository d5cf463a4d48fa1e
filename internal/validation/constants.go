package validation

// Schema resource names
const (
	RulesSchemaName = "rules.schema.json"
)

// Error messages
const (
	ErrMsgParseSchemaFmt   = "failed to parse schema %s: %w"
	ErrMsgAddSchemaFmt     = "failed to add schema resource %s: %w"
	ErrMsgCompileSchemaFmt = "failed to compile schema %s: %w"
	ErrMsgParseYAMLFmt     = "failed to parse YAML document: %w"
	ErrMsgEncodeDocFmt     = "failed to convert document to JSON: %w"
	ErrMsgViolationLineFmt = "  - at %s: %s"
	ErrMsgUnexpectedFmt    = "validation error: %w"
	RootLocation           = "(root)"
)
