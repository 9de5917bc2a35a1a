package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/hyperr-assistant/internal/config"
)

const fallbackReplyFormat = "⚠️ Failed to get response from server.\n\nDetails: %v"

// Service is the inference gateway: one synchronous exchange per call.
type Service struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the system+user chain around chatModel.
func NewService(ctx context.Context, chatModel model.BaseChatModel) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{chain: runnable}, nil
}

// NewServiceFromConfig builds the chat model for the configured provider.
func NewServiceFromConfig(ctx context.Context, inference config.InferenceConfig, arkCfg config.AIConfig) (*Service, error) {
	var (
		chatModel model.BaseChatModel
		err       error
	)

	switch inference.Provider {
	case config.ProviderArk:
		chatModel, err = arkCfg.NewChatModel(ctx, inference.Timeout)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		log.Printf("[ai] using ark model %s", arkCfg.Model)
	default:
		chatModel = NewOllamaChatModel(inference.URL, inference.Model, inference.Timeout)
		log.Printf("[ai] using ollama model %s at %s (timeout %s)", inference.Model, inference.URL, inference.Timeout)
	}

	return NewService(ctx, chatModel)
}

// Complete sends systemPrompt and userMessage to the model and returns the
// reply text. Failures are folded into a readable fallback reply so the chat
// turn is always answered.
func (s *Service) Complete(ctx context.Context, systemPrompt, userMessage string) string {
	// The turn is persisted even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	response, err := s.chain.Invoke(ctx, map[string]any{
		"system": systemPrompt,
		"query":  userMessage,
	})
	if err != nil {
		log.Printf("[ai] inference failed: %v", err)
		return fmt.Sprintf(fallbackReplyFormat, err)
	}
	if response == nil {
		log.Printf("[ai] inference returned no message")
		return fmt.Sprintf(fallbackReplyFormat, ErrMissingMessage)
	}

	log.Printf("[ai] generated response, length=%d", len(response.Content))
	return response.Content
}
