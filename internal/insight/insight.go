package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"shuddhneer/internal/domain"
	"shuddhneer/internal/logger"
	"shuddhneer/internal/metrics"
)

// Fallback strings returned instead of errors.
const (
	SummaryEmpty       = "<li>Unable to generate insights at this moment.</li>"
	SummaryUnavailable = "<li>Insight generation unavailable.</li>"
	ChatEmpty          = "I'm having trouble connecting to the hydration network. Please try again."
	ChatUnavailable    = "I'm a bit thirsty right now and can't answer. Please try again later."
)

const (
	kindSummary = "summary"
	kindChat    = "chat"

	maxSummaryOrders = 20
	defaultTimeout   = 10 * time.Second
)

// TextModel a text-generation backend.
type TextModel interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Options for NewGenerator.
type Options struct {
	// Timeout bounds each call; expiry yields a fallback string.
	Timeout time.Duration
	// SummaryWindow caps the number of orders sent for a summary (at most 20).
	SummaryWindow int
	Logger        *logger.Logger
	Metrics       *metrics.Metrics
}

// Generator turns orders or a customer question into short text. It never
// returns an error: every failure degrades to a fixed fallback.
type Generator struct {
	model   TextModel
	timeout time.Duration
	window  int
	logg    *logger.Logger
	metrics *metrics.Metrics
}

// NewGenerator builds a Generator. A nil model makes every call return its fallback.
func NewGenerator(model TextModel, opts Options) *Generator {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.SummaryWindow <= 0 || opts.SummaryWindow > maxSummaryOrders {
		opts.SummaryWindow = maxSummaryOrders
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Generator{
		model:   model,
		timeout: opts.Timeout,
		window:  opts.SummaryWindow,
		logg:    opts.Logger,
		metrics: opts.Metrics,
	}
}

// OrderSummary is the per-order payload sent for a summary. No customer data.
type OrderSummary struct {
	Amount float64  `json:"amount"`
	Status string   `json:"status"`
	Items  []string `json:"items"`
}

// SummaryPayload reduces orders (most recent first) to the summary wire shape.
func SummaryPayload(orders []domain.Order, window int) []OrderSummary {
	if window <= 0 || window > maxSummaryOrders {
		window = maxSummaryOrders
	}
	if len(orders) > window {
		orders = orders[:window]
	}
	out := make([]OrderSummary, 0, len(orders))
	for _, o := range orders {
		names := make([]string, 0, len(o.Items))
		for _, it := range o.Items {
			names = append(names, it.ProductName)
		}
		out = append(out, OrderSummary{
			Amount: o.TotalAmount.InexactFloat64(),
			Status: o.Status.String(),
			Items:  names,
		})
	}
	return out
}

// Summarize returns an HTML fragment of <li> bullets describing recent orders.
func (g *Generator) Summarize(ctx context.Context, orders []domain.Order) string {
	payload, err := json.Marshal(SummaryPayload(orders, g.window))
	if err != nil {
		g.logg.Error(ctx, "insight.summary.encode_failed", err)
		return SummaryUnavailable
	}
	prompt := fmt.Sprintf(summaryPrompt, payload)
	text, ok := g.generate(ctx, kindSummary, "", prompt)
	if !ok {
		return SummaryUnavailable
	}
	if text == "" {
		return SummaryEmpty
	}
	return text
}

// Respond answers a customer support message using the catalog as context.
func (g *Generator) Respond(ctx context.Context, message string, products []domain.Product) string {
	text, ok := g.generate(ctx, kindChat, supportContext(products), message)
	if !ok {
		return ChatUnavailable
	}
	if text == "" {
		return ChatEmpty
	}
	return text
}

// generate reports ok=false when the model is missing, failed or timed out.
func (g *Generator) generate(ctx context.Context, kind, system, prompt string) (string, bool) {
	if g.model == nil {
		g.metrics.ObserveInsight(kind, "disabled", 0)
		return "", false
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	text, err := g.model.Generate(callCtx, system, prompt)
	elapsed := time.Since(start)

	if err != nil {
		outcome := "error"
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			outcome = "timeout"
		}
		g.metrics.ObserveInsight(kind, outcome, elapsed)
		logCtx := g.logg.WithFields(ctx, map[string]any{"kind": kind, "outcome": outcome})
		g.logg.Error(logCtx, "insight.generate_failed", err)
		return "", false
	}

	text = cleanText(text)
	outcome := "ok"
	if text == "" {
		outcome = "empty"
	}
	g.metrics.ObserveInsight(kind, outcome, elapsed)
	return text, true
}

// cleanText trims whitespace and a surrounding markdown code fence.
func cleanText(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the language tag line
		s = s[nl+1:]
	} else {
		s = ""
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
