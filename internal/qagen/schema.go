package qagen

import "github.com/qaforge/qaforge/internal/llm"

// RecordsSchema describes the JSON array the prompt asks for. Providers
// with native structured output use it to constrain generation; the
// parser still runs on the result, so a provider that ignores the schema
// costs nothing.
var RecordsSchema = &llm.Schema{
	Name:        "qa-records",
	Description: "A list of question and answer pairs about a topic",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{
					"type":        "string",
					"description": "A specific, detailed question about the topic",
				},
				"answer": map[string]any{
					"type":        "string",
					"description": "A comprehensive answer to the question",
				},
			},
			"required":             []any{"question", "answer"},
			"additionalProperties": false,
		},
	},
}
