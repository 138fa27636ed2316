package engine

import "fmt"

// ReadError reports that an input source could not be parsed into the
// canonical schema. The run aborts before any matching happens.
type ReadError struct {
	Source string // "ledger" or "bank", or a file path when known
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading %s input: %v", e.Source, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// EmptyInputError reports that a parsed input collection contains zero
// records. Reconciling against nothing is always a caller mistake, never a
// valid "everything is unmatched" run.
type EmptyInputError struct {
	Source string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s input contains no records", e.Source)
}

// SchemaError reports a missing or malformed required field. This is fatal:
// silently dropping a malformed record would break the guarantee that every
// input record appears in exactly one outcome.
type SchemaError struct {
	Source string
	Line   int // 1-based line in the source, 0 when not applicable
	Detail string
}

func (e *SchemaError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s input: line %d: %s", e.Source, e.Line, e.Detail)
	}
	return fmt.Sprintf("%s input: %s", e.Source, e.Detail)
}

// ConfigError reports an invalid matching tolerance.
type ConfigError struct {
	Field  string
	Detail string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("matcher config: %s: %s", e.Field, e.Detail)
}
