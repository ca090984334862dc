package llm

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
)

// AnthropicChatService implements ChatService against the Anthropic
// Messages API, used as the "alternative-provider model" JuniorMini
// reviewer (§4.7) so the two junior scores come from genuinely
// independent model families.
type AnthropicChatService struct {
	client anthropic.Client
}

func NewAnthropicChatService(apiKey string) *AnthropicChatService {
	return &AnthropicChatService{client: anthropic.NewClient(option.WithAPIKey(apiKey))}
}

func (s *AnthropicChatService) Provider() string { return "anthropic" }

func (s *AnthropicChatService) Chat(ctx context.Context, systemPrompt, userPrompt string, opts ChatOptions) (ChatResult, error) {
	if opts.Model == "" {
		return ChatResult{}, xerrors.New(xerrors.ConfigError, "anthropic chat: model is required")
	}

	maxTokens := int64(1024)
	if opts.MaxOutputTokens != nil {
		maxTokens = int64(*opts.MaxOutputTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(opts.Model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}
	for _, att := range opts.Attachments {
		params.Messages[0].Content = append(params.Messages[0].Content, anthropic.NewDocumentBlock(
			anthropic.Base64PDFSourceParam{Data: string(att.Data), MediaType: anthropic.Base64PDFSourceMediaTypePDF},
		))
	}

	resp, err := s.client.Messages.New(ctx, params)
	if err != nil {
		return ChatResult{}, xerrors.Wrap(err, xerrors.ExternalHttpError, "anthropic message create")
	}
	if len(resp.Content) == 0 {
		return ChatResult{}, xerrors.New(xerrors.ParseError, "anthropic message create: empty content")
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return ChatResult{Text: text, FinishReason: string(resp.StopReason)}, nil
}
