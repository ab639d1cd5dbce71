// Package llmtest provides a scriptable llm.Client for tests.
package llmtest

import (
	"context"
	"sync"
)

// Call records the prompts of one Generate call
type Call struct {
	System string
	User   string
}

// Fake is an llm.Client that replays scripted replies. Replies are returned in order and the
// last one repeats once the script runs out. Err, when set, is returned instead. Reply, when
// set, overrides both.
type Fake struct {
	mu      sync.Mutex
	Replies []string
	Err     error
	Reply   func(ctx context.Context, system, user string) (string, error)
	calls   []Call
	next    int
}

// NewFake returns a Fake that replies with the given texts
func NewFake(replies ...string) *Fake {
	return &Fake{Replies: replies}
}

// Generate records the call and returns the next scripted reply
func (f *Fake) Generate(ctx context.Context, system, user string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f.mu.Lock()
	f.calls = append(f.calls, Call{System: system, User: user})
	reply := f.Reply
	err := f.Err
	var text string
	if len(f.Replies) > 0 {
		text = f.Replies[f.next]
		if f.next < len(f.Replies)-1 {
			f.next++
		}
	}
	f.mu.Unlock()

	if reply != nil {
		return reply(ctx, system, user)
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

// Model returns a fixed model name
func (f *Fake) Model() string {
	return "fake"
}

// Close does nothing
func (f *Fake) Close() error {
	return nil
}

// Calls returns the recorded calls
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call{}, f.calls...)
}

// CallCount returns the number of recorded calls
func (f *Fake) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// LastCall returns the most recent call, or a zero Call
func (f *Fake) LastCall() Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return Call{}
	}
	return f.calls[len(f.calls)-1]
}
