package classify

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"context"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/sleepcoach/backend/internal/metrics"
	"github.com/sleepcoach/backend/pkg/circuitbreaker"
	"github.com/sleepcoach/backend/pkg/logger"
	"github.com/sleepcoach/backend/pkg/retry"
)

const classifySystemPrompt = `You are a pediatric nutrition assistant. Classify the food described in a feeding note into macro nutrition groups.

Groups (use exactly these names):
- protein: meat, fish, eggs, legumes, dairy as main component
- carbohydrate: cereals, bread, pasta, rice, potato, fruit sugars
- fat: oils, butter, avocado, nuts, fatty fish
- fiber: vegetables, fruits, whole grains, legumes

The note may be in Spanish or English. A food can belong to several groups.
Return ONLY JSON: {"groups": ["protein"], "confidence": 0.9}
If the note does not describe food, return {"groups": [], "confidence": 0.0}`

type OpenAIClassifier struct {
	client           *openai.Client
	model            string
	temperature      float32
	maxTokens        int
	timeout          time.Duration
	batchConcurrency int
	cb               *circuitbreaker.CircuitBreaker
	retryConfig      retry.Config
}

func NewOpenAIClassifier(apiKey, model string, temperature float32, maxTokens, timeoutSec, batchConcurrency int) *OpenAIClassifier {
	client := openai.NewClient(apiKey)

	cb := circuitbreaker.NewCircuitBreaker("food-classifier", circuitbreaker.Config{
		MaxRequests:      5,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Logger:           logger.GetLogger(),
	})

	retryConfig := retry.Config{
		MaxAttempts:    2,
		InitialDelay:   300 * time.Millisecond,
		MaxDelay:       2 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		Logger:         logger.GetLogger(),
	}

	if timeoutSec <= 0 {
		timeoutSec = 15
	}
	if batchConcurrency <= 0 {
		batchConcurrency = 4
	}

	logger.Info("Food classifier initialized",
		zap.String("model", model),
		zap.Int("batch_concurrency", batchConcurrency),
	)

	return &OpenAIClassifier{
		client:           client,
		model:            model,
		temperature:      temperature,
		maxTokens:        maxTokens,
		timeout:          time.Duration(timeoutSec) * time.Second,
		batchConcurrency: batchConcurrency,
		cb:               cb,
		retryConfig:      retryConfig,
	}
}

// Classify never returns an error: call failures, timeouts and
// unparseable replies all degrade to the unclassified sentinel.
func (c *OpenAIClassifier) Classify(ctx context.Context, text string) Classification {
	if strings.TrimSpace(text) == "" {
		return Unclassified(text)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var content string

	err := c.cb.Execute(ctx, func() error {
		return retry.Do(ctx, c.retryConfig, func() error {
			resp, err := c.client.CreateChatCompletion(
				ctx,
				openai.ChatCompletionRequest{
					Model:       c.model,
					Temperature: c.temperature,
					MaxTokens:   c.maxTokens,
					Messages: []openai.ChatCompletionMessage{
						{
							Role:    openai.ChatMessageRoleSystem,
							Content: classifySystemPrompt,
						},
						{
							Role:    openai.ChatMessageRoleUser,
							Content: fmt.Sprintf("Feeding note: %s", text),
						},
					},
				},
			)
			if err != nil {
				return fmt.Errorf("failed to create completion: %w", err)
			}
			if len(resp.Choices) == 0 {
				return fmt.Errorf("completion returned no choices")
			}

			content = resp.Choices[0].Message.Content
			return nil
		})
	})

	if err != nil {
		logger.Warn("Food classification failed, falling back to unclassified",
			zap.Error(err),
		)
		metrics.ClassifierCalls.WithLabelValues("failed").Inc()
		return Unclassified(text)
	}

	result, err := parseClassification(content)
	if err != nil {
		logger.Warn("Unparseable classifier reply, falling back to unclassified",
			zap.Error(err),
		)
		metrics.ClassifierCalls.WithLabelValues("unparseable").Inc()
		return Unclassified(text)
	}

	metrics.ClassifierCalls.WithLabelValues("classified").Inc()
	result.RawText = text
	logger.Debug("Feeding note classified",
		zap.Int("groups", len(result.Groups)),
		zap.Float64("confidence", result.Confidence),
	)

	return result
}

// ClassifyBatch dispatches notes concurrently with bounded parallelism
// and collects all results: one failed note stays unclassified while the
// rest keep their real classifications.
func (c *OpenAIClassifier) ClassifyBatch(ctx context.Context, texts []string) []Classification {
	return classifyAllSettled(ctx, texts, c.batchConcurrency, c.Classify)
}

type classifierReply struct {
	Groups     []string `json:"groups"`
	Confidence float64  `json:"confidence"`
}

func parseClassification(content string) (Classification, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some models wrap the object in prose; take the outermost braces.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return Classification{}, fmt.Errorf("no JSON object in reply")
	}

	var reply classifierReply
	if err := json.Unmarshal([]byte(content[start:end+1]), &reply); err != nil {
		return Classification{}, fmt.Errorf("failed to unmarshal reply: %w", err)
	}

	groups := make([]NutritionGroup, 0, len(reply.Groups))
	for _, g := range reply.Groups {
		group := NutritionGroup(strings.ToLower(strings.TrimSpace(g)))
		if IsValidGroup(group) {
			groups = append(groups, group)
		}
	}

	return Classification{
		Groups:       groups,
		AIClassified: true,
		Confidence:   reply.Confidence,
	}, nil
}
