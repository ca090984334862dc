// Package llm provides a single ChatService capability over three
// concrete provider backends (OpenAI, Anthropic, Gemini), with
// JSON-schema-constrained structured output and optional PDF/file
// attachments, per §6 EXTERNAL INTERFACES.
//
// Grounded on the concrete ChatModel/ChatOptions/ChatOptionsBuilder
// wrapper pattern read in full from the teacher's ai/providers/openaiv2
// package before it was pruned (see DESIGN.md's ai/ pruning note): a
// struct of nilable pointer option fields and a fluent Builder.
package llm

import (
	"context"
)

// Attachment is a file attached to a chat call (a PDF for keyword
// extraction, §4.4).
type Attachment struct {
	Name     string
	MIMEType string
	Data     []byte
}

// ChatOptions configures a single chat call. Pointer fields are
// optional; nil means "use the provider's default."
type ChatOptions struct {
	Model            string
	Temperature      *float64
	MaxOutputTokens  *int
	ReasoningEffort  *string
	ResponseSchema   map[string]any
	WebSearchEnabled bool
	Attachments      []Attachment
}

// ChatOptionsBuilder builds a ChatOptions fluently, mirroring the
// teacher's *Options builder style.
type ChatOptionsBuilder struct {
	opts ChatOptions
}

func NewChatOptionsBuilder(model string) *ChatOptionsBuilder {
	return &ChatOptionsBuilder{opts: ChatOptions{Model: model}}
}

func (b *ChatOptionsBuilder) Temperature(t float64) *ChatOptionsBuilder {
	b.opts.Temperature = &t
	return b
}

func (b *ChatOptionsBuilder) MaxOutputTokens(n int) *ChatOptionsBuilder {
	b.opts.MaxOutputTokens = &n
	return b
}

func (b *ChatOptionsBuilder) ReasoningEffort(effort string) *ChatOptionsBuilder {
	b.opts.ReasoningEffort = &effort
	return b
}

func (b *ChatOptionsBuilder) ResponseSchema(schema map[string]any) *ChatOptionsBuilder {
	b.opts.ResponseSchema = schema
	return b
}

func (b *ChatOptionsBuilder) WebSearch(enabled bool) *ChatOptionsBuilder {
	b.opts.WebSearchEnabled = enabled
	return b
}

func (b *ChatOptionsBuilder) Attach(a Attachment) *ChatOptionsBuilder {
	b.opts.Attachments = append(b.opts.Attachments, a)
	return b
}

func (b *ChatOptionsBuilder) Build() ChatOptions {
	return b.opts
}

// ChatResult is a single chat completion's outcome.
type ChatResult struct {
	Text         string
	FinishReason string
}

// ChatService is the capability every stage that talks to an LLM
// depends on. Concrete backends (OpenAI/Anthropic/Gemini) satisfy this
// interface; stages are written against it, never against a provider
// SDK directly.
type ChatService interface {
	Chat(ctx context.Context, systemPrompt, userPrompt string, opts ChatOptions) (ChatResult, error)
	Provider() string
}
