// Package validator provides rule-based input validation for request
// payloads. Rules are composed per field and applied in one pass; the
// result is a ValidationErrors value handlers can render field by field.
package validator
