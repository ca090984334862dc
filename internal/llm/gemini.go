package llm

import (
	"context"

	"google.golang.org/genai"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
)

// GeminiChatService implements ChatService against Google's genai SDK,
// used as JuniorNano's smaller-model path and as a web_search-capable
// backend for the Criteria Stage's research phase (§4.6).
type GeminiChatService struct {
	client *genai.Client
}

func NewGeminiChatService(ctx context.Context, apiKey string) (*GeminiChatService, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.ConfigError, "construct gemini client")
	}
	return &GeminiChatService{client: client}, nil
}

func (s *GeminiChatService) Provider() string { return "gemini" }

func (s *GeminiChatService) Chat(ctx context.Context, systemPrompt, userPrompt string, opts ChatOptions) (ChatResult, error) {
	if opts.Model == "" {
		return ChatResult{}, xerrors.New(xerrors.ConfigError, "gemini chat: model is required")
	}

	parts := []*genai.Part{genai.NewPartFromText(userPrompt)}
	for _, att := range opts.Attachments {
		parts = append(parts, genai.NewPartFromBytes(att.Data, att.MIMEType))
	}

	cfg := &genai.GenerateContentConfig{}
	if systemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	if opts.Temperature != nil {
		t := float32(*opts.Temperature)
		cfg.Temperature = &t
	}
	if opts.ResponseSchema != nil {
		cfg.ResponseMIMEType = "application/json"
	}
	if opts.WebSearchEnabled {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	resp, err := s.client.Models.GenerateContent(ctx, opts.Model, []*genai.Content{{Parts: parts, Role: genai.RoleUser}}, cfg)
	if err != nil {
		return ChatResult{}, xerrors.Wrap(err, xerrors.ExternalHttpError, "gemini generate content")
	}
	if len(resp.Candidates) == 0 {
		return ChatResult{}, xerrors.New(xerrors.ParseError, "gemini generate content: empty candidates")
	}

	return ChatResult{Text: resp.Text(), FinishReason: string(resp.Candidates[0].FinishReason)}, nil
}
