package model

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/cv.schema.json
var cvSchema []byte

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

// SchemaError lists every violation found in a document.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "schema validation failed: " + strings.Join(e.Problems, "; ")
}

func compiled() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(cvSchema))
	})
	return schema, schemaErr
}

// Schema returns the raw JSON schema, used when asking a model for
// structured output.
func Schema() string { return string(cvSchema) }

// ValidateMap validates a generic map against cv.schema.json.
func ValidateMap(m map[string]interface{}) error {
	return validate(gojsonschema.NewGoLoader(m))
}

// ValidateJSON validates raw JSON bytes against cv.schema.json.
func ValidateJSON(raw []byte) error {
	return validate(gojsonschema.NewBytesLoader(raw))
}

func validate(doc gojsonschema.JSONLoader) error {
	s, err := compiled()
	if err != nil {
		return fmt.Errorf("load cv schema: %w", err)
	}
	res, err := s.Validate(doc)
	if err != nil {
		// not parseable as JSON at all
		return &SchemaError{Problems: []string{err.Error()}}
	}
	if res.Valid() {
		return nil
	}
	problems := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		problems = append(problems, e.String())
	}
	return &SchemaError{Problems: problems}
}

// Decode validates raw against the schema and unmarshals it.
func Decode(raw []byte) (CV, error) {
	if err := ValidateJSON(raw); err != nil {
		return CV{}, err
	}
	var cv CV
	if err := json.Unmarshal(raw, &cv); err != nil {
		return CV{}, fmt.Errorf("decode cv: %w", err)
	}
	return cv.Clone(), nil
}
