package llm

import (
	"context"
	"encoding/base64"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
)

// OpenAIChatService implements ChatService against the OpenAI Chat
// Completions API, grounded on the teacher's openaiv2 ChatModel wrapper
// (a thin struct holding a constructed client).
type OpenAIChatService struct {
	client openai.Client
}

func NewOpenAIChatService(apiKey string) *OpenAIChatService {
	return &OpenAIChatService{client: openai.NewClient(option.WithAPIKey(apiKey))}
}

func (s *OpenAIChatService) Provider() string { return "openai" }

func (s *OpenAIChatService) Chat(ctx context.Context, systemPrompt, userPrompt string, opts ChatOptions) (ChatResult, error) {
	if opts.Model == "" {
		return ChatResult{}, xerrors.New(xerrors.ConfigError, "openai chat: model is required")
	}

	messages := []openai.ChatCompletionMessageParamUnion{}
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	messages = append(messages, openai.UserMessage(userPrompt))

	params := openai.ChatCompletionNewParams{
		Model:    opts.Model,
		Messages: messages,
	}
	if opts.Temperature != nil {
		params.Temperature = openai.Float(*opts.Temperature)
	}
	if opts.MaxOutputTokens != nil {
		params.MaxTokens = openai.Int(int64(*opts.MaxOutputTokens))
	}
	if opts.ResponseSchema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "structured_output",
					Schema: opts.ResponseSchema,
					Strict: openai.Bool(true),
				},
			},
		}
	}
	for _, att := range opts.Attachments {
		encoded := base64.StdEncoding.EncodeToString(att.Data)
		messages = append(messages, openai.UserMessage(openai.ChatCompletionContentPartUnionParam{
			OfFile: &openai.ChatCompletionContentPartFileParam{
				File: openai.ChatCompletionContentPartFileFileParam{
					Filename: openai.String(att.Name),
					FileData: openai.String("data:" + att.MIMEType + ";base64," + encoded),
				},
			},
		}))
	}
	params.Messages = messages

	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return ChatResult{}, xerrors.Wrap(err, xerrors.ExternalHttpError, "openai chat completion")
	}
	if len(resp.Choices) == 0 {
		return ChatResult{}, xerrors.New(xerrors.ParseError, "openai chat completion: empty choices")
	}

	return ChatResult{
		Text:         resp.Choices[0].Message.Content,
		FinishReason: string(resp.Choices[0].FinishReason),
	}, nil
}
