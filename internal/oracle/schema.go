package oracle

import (
	"github.com/tmc/langchaingo/llms"
)

// ToolName is the single tool exposed to the oracle: one read-only cluster
// API call per invocation.
const ToolName = "call_kubernetes_api"

// toolDefs describes the call_kubernetes_api schema. The params field is
// documented as a JSON object encoded into a string, matching what chat
// models reliably produce, but an inline object is accepted too.
func toolDefs() []llms.Tool {
	return []llms.Tool{
		{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        ToolName,
				Description: "Dynamically call a read-only Kubernetes API operation and return the jq-filtered result.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"surface": map[string]any{
							"type":        "string",
							"description": "The API surface to call: core, apps, batch or networking.",
						},
						"operation": map[string]any{
							"type":        "string",
							"description": "The read operation to invoke on the surface, e.g. listNodes, listPodForAllNamespaces, readNamespacedService.",
						},
						"params": map[string]any{
							"type":        "string",
							"description": `A JSON object as a string with the parameters for the operation, e.g. {"name": "my-pod", "namespace": "my-namespace"}. Pass {} when none are needed.`,
						},
						"filter": map[string]any{
							"type":        "string",
							"description": `A jq filter applied to the API response to keep only the data relevant to the question, e.g. '[.items[] | pick(.metadata.name, .metadata.namespace)]'. Pass '.' for no filtering.`,
						},
					},
					"required":             []string{"surface", "operation", "params", "filter"},
					"additionalProperties": false,
				},
			},
		},
	}
}
