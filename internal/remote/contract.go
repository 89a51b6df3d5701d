package remote

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Contract is a named JSON Schema describing a response body.
type Contract struct {
	Name       string
	Definition map[string]any
}

var contractCache sync.Map // map[string]*jsonschema.Schema

// Validate checks a decoded JSON value against the contract.
func (c *Contract) Validate(v any) error {
	if c == nil {
		return nil
	}
	compiled, err := c.compiled()
	if err != nil {
		return fmt.Errorf("compile contract %q: %w", c.Name, err)
	}
	return compiled.Validate(v)
}

func (c *Contract) compiled() (*jsonschema.Schema, error) {
	if cached, ok := contractCache.Load(c.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants plain decoded JSON, not Go literals.
	raw, err := json.Marshal(c.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal definition: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	url := fmt.Sprintf("contract://%s.json", c.Name)
	if err := compiler.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, err
	}
	contractCache.Store(c.Name, compiled)
	return compiled, nil
}

var testIDSchema = map[string]any{
	"type":      []any{"string", "integer"},
	"minLength": 1,
}

var reviewStatusContract = &Contract{
	Name: "review-status",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status": map[string]any{"type": "string", "minLength": 1},
		},
		"required": []any{"status"},
	},
}

var phonemesCoveredContract = &Contract{
	Name: "phonemes-covered",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"phoneme":   map[string]any{"type": "string", "minLength": 1},
				"audio_url": map[string]any{"type": []any{"string", "null"}},
			},
			"required": []any{"phoneme"},
		},
	},
}

var spellingListContract = &Contract{
	Name: "spelling-list",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"word":    map[string]any{"type": "string", "minLength": 1},
				"test_id": testIDSchema,
				"options": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 1,
				},
			},
			"required": []any{"word", "test_id", "options"},
		},
	},
}

var homophoneListContract = &Contract{
	Name: "homophone-list",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"homoph":  map[string]any{"type": "string", "minLength": 1},
				"test_id": testIDSchema,
				"amount":  map[string]any{"type": "integer", "minimum": 1},
			},
			"required": []any{"homoph", "test_id", "amount"},
		},
	},
}

var learnContract = &Contract{
	Name: "learn",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"phoneme":   map[string]any{"type": "string", "minLength": 1},
			"ipa":       map[string]any{"type": "string"},
			"audio_url": map[string]any{"type": []any{"string", "null"}},
			"patterns": map[string]any{
				"type": "object",
				"additionalProperties": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
		},
		"required": []any{"phoneme", "patterns"},
	},
}

var spellingVerdictContract = &Contract{
	Name: "spelling-verdict",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"answered": map[string]any{
				"enum": []any{"correct", "incorrect", "failed", "failed_all", "failed_some"},
			},
			"attempts_left": map[string]any{"type": "integer", "minimum": 0},
			"solution":      map[string]any{"type": "string"},
		},
		"required": []any{"answered"},
	},
}

var homophoneVerdictContract = &Contract{
	Name: "homophone-verdict",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"answered": map[string]any{
				"enum": []any{"correct", "incorrect", "done", "failed", "failed_all", "failed_some"},
			},
			"attempts_left": map[string]any{"type": "integer", "minimum": 0},
			"solution": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []any{"answered"},
	},
}

var saveProgressContract = &Contract{
	Name: "save-progress",
	Definition: map[string]any{
		"type": "object",
	},
}
