package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"partsdesk/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// AgentService turns natural-language restock requests into structured
// proposals. The caller supplies the current catalog so the model only uses
// codes that exist.
type AgentService interface {
	InterpretRestockRequest(ctx context.Context, naturalLanguage, catalog string) (*core.RestockResponse, error)
}

type Agent struct {
	client *openai.Client
}

func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client}
}

func (a *Agent) InterpretRestockRequest(ctx context.Context, naturalLanguage, catalog string) (*core.RestockResponse, error) {
	prompt := fmt.Sprintf(`You are a parts procurement assistant for an auto-parts business.
Your goal is to interpret a restock request described in natural language and propose concrete purchase order lines.
You MUST use the provided catalog.
Rules:
1. Use ONLY SKU codes and vendor codes from the catalog below.
2. Quantities must be exact decimal strings (e.g. "50").
3. Leave unit_cost empty to use the SKU's recorded cost.
4. Provide a confidence score (0.0-1.0).
5. Explain your reasoning.
6. If the request is too vague to act on, return a clarification request instead.

Catalog:
%s

Request: %s`, catalog, naturalLanguage)

	// Dynamically generate the JSON schema from the Go struct
	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "restock_proposal",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A proposed set of purchase order lines for a restock request"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var response core.RestockResponse
	if err := json.Unmarshal([]byte(content), &response); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}

	if response.IsClarificationRequest {
		if response.Clarification == nil {
			return nil, fmt.Errorf("clarification requested but no message provided")
		}
		return &response, nil
	}

	if response.Proposal == nil {
		return nil, fmt.Errorf("response contained neither a proposal nor a clarification")
	}
	response.Proposal.Normalize()
	if err := response.Proposal.Validate(); err != nil {
		return nil, fmt.Errorf("proposal validation failed: %w", err)
	}

	return &response, nil
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v core.RestockResponse
	return reflector.Reflect(v)
}
