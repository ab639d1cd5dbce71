package llm

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// LimitedClient bounds the number of concurrent calls to the wrapped client.
// Waiting for a slot honors cancellation.
type LimitedClient struct {
	Client
	sem *semaphore.Weighted
}

// NewLimitedClient wraps client so at most n calls run at once
func NewLimitedClient(client Client, n int) *LimitedClient {
	if n < 1 {
		n = 1
	}
	return &LimitedClient{Client: client, sem: semaphore.NewWeighted(int64(n))}
}

// Generate waits for a free slot and then calls the wrapped client
func (c *LimitedClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.sem.Release(1)
	return c.Client.Generate(ctx, systemPrompt, userPrompt)
}
