// Package prompt renders the completion request for each pipeline stage.
// Every request embeds the pre-computed figures as given facts and a
// literal description of the required output shape, and carries the
// compiled JSON Schema the decoded reply is validated against. The shape
// text and the schema declare the same enumerations; a value outside
// them is malformed output.
package prompt

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Request is a fully rendered completion request for one stage.
type Request struct {
	Stage     string
	System    string
	User      string
	Schema    *jsonschema.Schema // nil means any valid JSON is accepted
	MaxTokens int
}

func mustCompile(name, schemaJSON string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(schemaJSON)); err != nil {
		panic("prompt: invalid schema resource " + name + ": " + err.Error())
	}
	return compiler.MustCompile(name)
}
