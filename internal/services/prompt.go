package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/medleaf/healthlens-backend/internal/logger"
	"github.com/medleaf/healthlens-backend/internal/types"
)

// PromptService turns an assembled AIPromptContext into a generated
// explanation. It is the only code allowed to talk to the generator, and
// AIPromptContext.UserHealthContext is the only profile-derived text it may
// forward.
type PromptService interface {
	ExplainTopic(ctx context.Context, topicName string, promptCtx types.AIPromptContext) (string, error)
}

type promptService struct {
	log      *logger.Logger
	aiClient OpenAIClient
}

func NewPromptService(log *logger.Logger, aiClient OpenAIClient) PromptService {
	return &promptService{
		log:      log.With("service", "PromptService"),
		aiClient: aiClient,
	}
}

const explainSystemPrompt = "You are a health educator. Explain the topic clearly and accurately " +
	"for a general audience. Do not diagnose, recommend doses, or give treatment advice. " +
	"If user context is provided, weave it in naturally without repeating it verbatim."

func (ps *promptService) ExplainTopic(ctx context.Context, topicName string, promptCtx types.AIPromptContext) (string, error) {
	var b strings.Builder
	b.WriteString(promptCtx.BasePrompt)
	if promptCtx.UserHealthContext != "" {
		b.WriteString("\n\nUser context: ")
		b.WriteString(promptCtx.UserHealthContext)
	}
	b.WriteString(fmt.Sprintf("\n\nTarget a complexity level of %d on a 1-5 scale.", clampComplexity(promptCtx.ComplexityLevel)))

	ps.log.Debug("Requesting topic explanation", "topic", topicName, "has_user_context", promptCtx.UserHealthContext != "")
	answer, err := ps.aiClient.Chat(ctx, explainSystemPrompt, b.String())
	if err != nil {
		return "", fmt.Errorf("explain topic %q: %w", topicName, err)
	}
	return answer, nil
}

func clampComplexity(level int) int {
	if level < 1 {
		return 1
	}
	if level > 5 {
		return 5
	}
	return level
}
