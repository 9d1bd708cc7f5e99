package ai

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	log "github.com/sirupsen/logrus"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one prior turn of a conversation, replayed to the model so it
// can answer with context.
type Message struct {
	Role    string
	Content string
}

type LLMClient struct {
	client *openai.Client
	model  string
}

func NewLLMClient(url, model string) *LLMClient {
	options := []option.RequestOption{}
	if url != "" {
		options = append(options, option.WithBaseURL(url))
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Info("OPENAI_API_KEY environment variable is not set, will try unauthenticated access")
	} else {
		options = append(options, option.WithAPIKey(apiKey))
	}

	client := openai.NewClient(options...)
	return &LLMClient{client: &client, model: model}
}

func (llm *LLMClient) Chat(ctx context.Context, instructions string, history []Message, message string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(instructions))
	for _, m := range history {
		switch m.Role {
		case RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}
	messages = append(messages, openai.UserMessage(message))

	resp, err := llm.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    llm.model,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("client didn't return any content choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// HealthCheck verifies the endpoint is reachable by listing models.
func (llm *LLMClient) HealthCheck(ctx context.Context) error {
	_, err := llm.client.Models.List(ctx)
	return err
}
