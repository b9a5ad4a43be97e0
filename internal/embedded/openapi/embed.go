// Package openapi embeds the OpenAPI 3.0 specification for the backplate
// HTTP API. The YAML file is the source of truth; the JSON form served at
// /openapi.json is derived from it once at startup.
package openapi

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/goccy/go-yaml"
)

// SpecYAML contains the OpenAPI 3.0 specification in YAML format.
// Served at: GET /openapi.yaml
//
//go:embed openapi.yaml
var SpecYAML []byte

var (
	jsonOnce sync.Once
	specJSON []byte
	jsonErr  error
)

// SpecJSON returns the specification converted to JSON.
// Served at: GET /openapi.json
func SpecJSON() ([]byte, error) {
	jsonOnce.Do(func() {
		var doc map[string]any
		if err := yaml.Unmarshal(SpecYAML, &doc); err != nil {
			jsonErr = fmt.Errorf("parse embedded openapi.yaml: %w", err)
			return
		}
		specJSON, jsonErr = json.Marshal(doc)
	})
	return specJSON, jsonErr
}
