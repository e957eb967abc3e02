// Package model defines the multi-step form definition types (Form, Step,
// Field, ValidationRule, ConditionalRule) and the runtime value containers
// (FormData, FormErrors) shared by the visibility, validation and engine
// packages. FormData values are kept in a canonical shape (nil, string,
// float64, bool, []string, []File) so that a JSON round trip through the
// persistence layer yields deep-equal data; use Normalize when accepting values
// from renderers or decoders.
package model
