package vault

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// JSON Schemas for the two record kinds. Embedded as constants to avoid
// filesystem dependencies; compiled once at Store construction. Records
// are validated against these both before every write and after every
// read, so a tampered or partially written secret-store entry is treated
// as absent rather than surfaced as a parse error.

const siteSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://agent-vault.dev/schemas/site-credential.json",
  "type": "object",
  "required": ["origin", "selectors", "credentials"],
  "properties": {
    "origin": { "type": "string", "minLength": 1 },
    "selectors": {
      "type": "object",
      "required": ["username", "password"],
      "properties": {
        "username": { "type": "string", "minLength": 1 },
        "password": { "type": "string", "minLength": 1 },
        "submit": { "type": "string" }
      },
      "additionalProperties": false
    },
    "credentials": {
      "type": "object",
      "required": ["username", "password"],
      "properties": {
        "username": { "type": "string" },
        "password": { "type": "string" }
      },
      "additionalProperties": false
    }
  },
  "additionalProperties": false
}`

const apiSetSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://agent-vault.dev/schemas/api-credential-set.json",
  "type": "object",
  "required": ["origin", "credentials"],
  "properties": {
    "origin": { "type": "string", "minLength": 1 },
    "credentials": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "token", "createdAt"],
        "properties": {
          "name": { "type": "string", "minLength": 1 },
          "description": { "type": "string" },
          "token": { "type": "string", "minLength": 1 },
          "createdAt": { "type": "string", "minLength": 1 },
          "lastUsedAt": { "type": "string" }
        },
        "additionalProperties": false
      }
    },
    "defaultCredential": { "type": "string" }
  },
  "additionalProperties": false
}`

func compileSchemas() (site, apiSet *jsonschema.Schema, err error) {
	c := jsonschema.NewCompiler()

	for id, doc := range map[string]string{
		"https://agent-vault.dev/schemas/site-credential.json":    siteSchemaJSON,
		"https://agent-vault.dev/schemas/api-credential-set.json": apiSetSchemaJSON,
	} {
		parsed, err := jsonschema.UnmarshalJSON(strings.NewReader(doc))
		if err != nil {
			return nil, nil, fmt.Errorf("unmarshal schema %s: %w", id, err)
		}
		if err := c.AddResource(id, parsed); err != nil {
			return nil, nil, fmt.Errorf("add schema resource %s: %w", id, err)
		}
	}

	site, err = c.Compile("https://agent-vault.dev/schemas/site-credential.json")
	if err != nil {
		return nil, nil, fmt.Errorf("compile site schema: %w", err)
	}
	apiSet, err = c.Compile("https://agent-vault.dev/schemas/api-credential-set.json")
	if err != nil {
		return nil, nil, fmt.Errorf("compile api set schema: %w", err)
	}
	return site, apiSet, nil
}

// validateAgainst round-trips v through JSON and validates the document.
// Checks the schema cannot express (absolute-URL origin) happen here too.
func validateAgainst(schema *jsonschema.Schema, v any, origin string) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: schema validation failed", ErrInvalidRecord)
	}

	u, err := url.Parse(origin)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: origin is not an absolute URL", ErrInvalidRecord)
	}
	return nil
}
