package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pollenhq/pollen/internal/store"
)

// State of the report generator.
type State string

const (
	StateIdle          State = "idle"
	StateGenerating    State = "generating"
	StateSucceeded     State = "succeeded"
	StateFailedTimeout State = "failed_timeout"
	StateFailedError   State = "failed_error"
)

// DefaultTimeout is the fixed budget the summarization call is raced
// against.
const DefaultTimeout = 25 * time.Second

// Summarizer is the external text-generation call.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Result is what generation resolves to. Failures resolve to fallback
// text, never to an error for the caller.
type Result struct {
	Text  string `json:"text"`
	State State  `json:"state"`
}

// Generator issues one summarization call at a time and races it against
// a fixed timeout. The losing call keeps running; its result is simply
// discarded.
type Generator struct {
	summarizer Summarizer
	timeout    time.Duration
	logger     *zap.Logger

	mu    sync.Mutex
	state State
}

// NewGenerator wires a Generator with the default timeout.
func NewGenerator(s Summarizer, logger *zap.Logger) *Generator {
	return &Generator{summarizer: s, timeout: DefaultTimeout, logger: logger, state: StateIdle}
}

// State reports the last observed generation state.
func (g *Generator) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Generator) setState(s State) {
	g.mu.Lock()
	g.state = s
	g.mu.Unlock()
}

// Busy reports whether a generation is in flight. Callers use it to
// refuse re-entrant generate requests.
func (g *Generator) Busy() bool {
	return g.State() == StateGenerating
}

// Fallback is the user-facing text a failed generation resolves to.
func Fallback(reason string) string {
	return fmt.Sprintf("Can't generate report right now.\n\nReason: %s\n\nTry again in a minute.", reason)
}

// Generate builds the prompt from logs and resolves to displayable text.
// Fewer than MinPromptLogs logs resolves to the insufficient-data
// message without any external call.
func (g *Generator) Generate(ctx context.Context, logs []store.WorkLog) Result {
	prompt, err := BuildPrompt(logs)
	if err != nil {
		return Result{Text: InsufficientDataMessage, State: StateFailedError}
	}

	g.setState(StateGenerating)

	type answer struct {
		text string
		err  error
	}
	done := make(chan answer, 1)
	go func() {
		text, err := g.summarizer.Summarize(ctx, prompt)
		done <- answer{text, err}
	}()

	select {
	case a := <-done:
		if a.err != nil {
			g.logger.Warn("report generation failed", zap.Error(a.err))
			g.setState(StateFailedError)
			return Result{Text: Fallback(a.err.Error()), State: StateFailedError}
		}
		g.setState(StateSucceeded)
		return Result{Text: PostProcess(a.text), State: StateSucceeded}
	case <-time.After(g.timeout):
		g.logger.Warn("report generation timed out", zap.Duration("timeout", g.timeout))
		g.setState(StateFailedTimeout)
		return Result{Text: Fallback("Request timed out"), State: StateFailedTimeout}
	}
}
