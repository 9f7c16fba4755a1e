package classify

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/sleepcoach/backend/pkg/logger"
)

// classifyAllSettled fans one classify call per note out with bounded
// parallelism and always returns one result per input, in order. A
// failing or panicking note stays unclassified while the rest keep
// their real classifications.
func classifyAllSettled(ctx context.Context, texts []string, concurrency int, classify func(context.Context, string) Classification) []Classification {
	results := make([]Classification, len(texts))
	if len(texts) == 0 {
		return results
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, text := range texts {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			defer func() {
				if r := recover(); r != nil {
					logger.Error("Classifier panic recovered",
						zap.Any("panic", r),
					)
					results[i] = Unclassified(text)
				}
			}()

			results[i] = classify(ctx, text)
		}(i, text)
	}

	wg.Wait()
	return results
}
