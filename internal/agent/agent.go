// Package agent runs the LLM conversation loop: the model answers questions
// about hunts and houses, calling the split and houses tools as it sees fit.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ekzore/tibia-agent/internal/houses"
	"github.com/ekzore/tibia-agent/internal/split"
)

const maxIterations = 5

const systemPrompt = `You are Tibia Agent, an AI assistant specialized in helping players with the MMORPG game Tibia.

Your main expertise:
- Splitting party hunt loot fairly: when a user pastes session data, use the split_loot tool and present the resulting transfer instructions clearly
- Finding houses and guildhalls available for auction: use the get_houses_for_auction tool with the world and town the user asks about

Popular Tibia worlds include: Antica, Bona, Celesta, Dolera, Gladera, Harmonia, Lobera, Luminera, Monza, Nefera, Pacera, Peloria, Premia, Quintera, Refugia, Secura, Solidera, Talera, Venebra, Vita, Wintera, Zunera.

Common towns include: Thais, Carlin, Venore, Ab'Dendriel, Kazordoon, Ankrahmun, Port Hope, Liberty Bay, Svargrond, Yalahar, Farmine, Rathleton, Issavi.

Be helpful and concrete: report exact transfer amounts, and for auctions mention current bids, time remaining, rent and house sizes.`

const fallbackReply = "I'm here to help you split hunt loot and find Tibia house auctions! Paste your session data or ask about houses in any world and town."

// Agent holds the OpenAI client and the tools the model may call.
type Agent struct {
	client   *openai.Client
	model    string
	splitter *split.Tool
	houses   *houses.Client
}

func New(apiKey, model string, splitter *split.Tool, housesClient *houses.Client) *Agent {
	return &Agent{
		client:   openai.NewClient(apiKey),
		model:    model,
		splitter: splitter,
		houses:   housesClient,
	}
}

func (a *Agent) tools() []openai.Tool {
	return []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        "split_loot",
				Description: "Parses Tibia hunting session loot data and calculates fair distribution of profits/losses between party members",
				Parameters: json.RawMessage(`{
					"type": "object",
					"properties": {
						"session_data": {
							"type": "string",
							"description": "The raw session data text containing loot, supplies, damage, and healing information for all party members"
						}
					},
					"required": ["session_data"]
				}`),
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        "get_houses_for_auction",
				Description: "Get houses available for auction in a specific world and town in Tibia",
				Parameters: json.RawMessage(`{
					"type": "object",
					"properties": {
						"world": {"type": "string", "description": "The Tibia world name (e.g., 'Antica', 'Bona', 'Celesta')"},
						"town": {"type": "string", "description": "The town name (e.g., 'Thais', 'Carlin', 'Venore')"}
					},
					"required": ["world", "town"]
				}`),
			},
		},
	}
}

// Chat runs the tool loop for one user question and returns the model's final
// text answer. The loop is bounded; hitting the bound is an error rather than
// an endless conversation.
func (a *Agent) Chat(ctx context.Context, question string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: question},
	}

	for iteration := 1; iteration <= maxIterations; iteration++ {
		resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    a.model,
			Messages: messages,
			Tools:    a.tools(),
		})
		if err != nil {
			return "", fmt.Errorf("chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("no completion choices returned")
		}

		msg := resp.Choices[0].Message
		messages = append(messages, msg)

		if len(msg.ToolCalls) == 0 {
			if msg.Content == "" {
				return fallbackReply, nil
			}
			return msg.Content, nil
		}

		for _, call := range msg.ToolCalls {
			log.Printf("agent: executing tool %s", call.Function.Name)
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: call.ID,
				Content:    a.executeTool(ctx, call),
			})
		}
	}

	return "", fmt.Errorf("no final answer after %d iterations", maxIterations)
}

func (a *Agent) executeTool(ctx context.Context, call openai.ToolCall) string {
	switch call.Function.Name {
	case "split_loot":
		var args struct {
			SessionData string `json:"session_data"`
		}
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return toolError(fmt.Sprintf("invalid arguments: %v", err))
		}
		return mustJSON(a.splitter.Execute(args.SessionData))

	case "get_houses_for_auction":
		var args struct {
			World string `json:"world"`
			Town  string `json:"town"`
		}
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return toolError(fmt.Sprintf("invalid arguments: %v", err))
		}
		res, err := a.houses.ForAuction(ctx, args.World, args.Town)
		if err != nil {
			return toolError(err.Error())
		}
		return mustJSON(res)

	default:
		return toolError("unknown tool: " + call.Function.Name)
	}
}

func toolError(msg string) string {
	return mustJSON(map[string]any{"success": false, "error": msg})
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":"marshal: %v"}`, err)
	}
	return string(b)
}
