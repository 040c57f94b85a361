package geo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const featureCollectionSchemaURL = "schema://geojson-feature-collection.json"

var featureCollectionSchema = map[string]any{
	"type":     "object",
	"required": []any{"type", "features"},
	"properties": map[string]any{
		"type": map[string]any{"const": "FeatureCollection"},
		"features": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"type"},
				"properties": map[string]any{
					"type":       map[string]any{"const": "Feature"},
					"properties": map[string]any{"type": []any{"object", "null"}},
					"geometry":   map[string]any{"type": []any{"object", "null"}},
				},
			},
		},
	},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// ValidationError reports GeoJSON that does not match the expected shape.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid GeoJSON: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(featureCollectionSchemaURL, featureCollectionSchema); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(featureCollectionSchemaURL)
	})
	return compiled, compileErr
}

// ParseFeatureCollection validates raw GeoJSON and decodes it.
// Returns *ValidationError when the document is not a FeatureCollection.
func ParseFeatureCollection(raw []byte) (FeatureCollection, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return FeatureCollection{}, &ValidationError{Err: fmt.Errorf("parse JSON: %w", err)}
	}

	sch, err := compiledSchema()
	if err != nil {
		return FeatureCollection{}, fmt.Errorf("compile GeoJSON schema: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return FeatureCollection{}, &ValidationError{Err: err}
	}

	var fc FeatureCollection
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&fc); err != nil {
		return FeatureCollection{}, &ValidationError{Err: fmt.Errorf("decode: %w", err)}
	}
	return fc, nil
}
