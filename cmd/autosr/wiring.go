package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/config"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/httpx"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/llm"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/obslog"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/source"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/workspace"
	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
)

// app bundles the process-wide dependencies every stage subcommand
// wires together from flags and .env, mirroring config.Load's own
// rationale: a small typed struct over a DI container.
type app struct {
	cfg *config.Config
	log *zap.Logger
	ws  *workspace.Workspace
}

// newApp loads config, builds the logger, and resolves the workspace
// for --topic. Every stage command calls this first.
func newApp(ctx context.Context) (*app, error) {
	if err := requireTopic(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(".env")
	if err != nil {
		return nil, err
	}
	ws, err := workspace.Resolve(flags.workspaceRoot, flags.topic)
	if err != nil {
		return nil, err
	}
	log := obslog.New(flags.debug == "debug")
	return &app{cfg: cfg, log: log, ws: ws}, nil
}

// chatService constructs the ChatService for the named provider
// ("openai", "anthropic", "gemini"), defaulting to --provider when
// name is empty.
func (a *app) chatService(ctx context.Context, name string) (llm.ChatService, error) {
	if name == "" {
		name = flags.provider
	}
	var svc llm.ChatService
	switch name {
	case "openai":
		if a.cfg.OpenAIAPIKey == "" {
			return nil, xerrors.New(xerrors.ConfigError, "--provider openai requires OPENAI_API_KEY")
		}
		svc = llm.NewOpenAIChatService(a.cfg.OpenAIAPIKey)
	case "anthropic":
		if a.cfg.AnthropicAPIKey == "" {
			return nil, xerrors.New(xerrors.ConfigError, "--provider anthropic requires ANTHROPIC_API_KEY")
		}
		svc = llm.NewAnthropicChatService(a.cfg.AnthropicAPIKey)
	case "gemini":
		if a.cfg.GeminiAPIKey == "" {
			return nil, xerrors.New(xerrors.ConfigError, "--provider gemini requires GEMINI_API_KEY")
		}
		gsvc, err := llm.NewGeminiChatService(ctx, a.cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		svc = gsvc
	default:
		return nil, xerrors.Newf(xerrors.ConfigError, "unknown provider %q", name)
	}
	if flags.reasoningEffort != "" {
		svc = llm.WithReasoningEffort(svc, flags.reasoningEffort)
	}
	return svc, nil
}

// alternateProvider picks a provider distinct from primary for the
// Review Stage's JuniorMini reviewer (and the senior reviewer when
// --provider-senior is unset), which §4.7 requires to use "an
// alternative provider" where more than one is configured, falling back
// to primary when only one provider's API key is present.
func (a *app) alternateProvider(primary string) string {
	candidates := []string{"openai", "anthropic", "gemini"}
	for _, c := range candidates {
		if c == primary {
			continue
		}
		if a.hasKeyFor(c) {
			return c
		}
	}
	return primary
}

func (a *app) hasKeyFor(name string) bool {
	switch name {
	case "openai":
		return a.cfg.OpenAIAPIKey != ""
	case "anthropic":
		return a.cfg.AnthropicAPIKey != ""
	case "gemini":
		return a.cfg.GeminiAPIKey != ""
	default:
		return false
	}
}

// arxivSource builds the arXiv adapter with a self-throttling gate
// (§5: "arXiv has no hard client limit but implementations must
// self-throttle").
func (a *app) arxivSource() *source.ArxivSource {
	gate := httpx.NewGate(4, 500*time.Millisecond)
	return source.NewArxivSource(gate)
}

// otherSources builds the non-arXiv MetadataSource adapters the
// Harvest-Other Stage and the Snowball Controller's CitationSource both
// draw on, each with its own §5-mandated rate gate.
func (a *app) otherSources() []source.MetadataSource {
	s2Gate := httpx.NewGate(2, time.Duration(a.cfg.SemanticScholarMinIntervalSeconds()*float64(time.Second)))
	dblpGate := httpx.NewGate(4, 250*time.Millisecond)
	oaGate := httpx.NewGate(4, 100*time.Millisecond)
	return []source.MetadataSource{
		source.NewSemanticScholarSource(s2Gate, a.cfg.SemanticScholarAPIKey),
		source.NewDBLPSource(dblpGate),
		source.NewOpenAlexSource(oaGate, a.cfg.OpenAlexEmail),
	}
}

// openAlexSource builds the OpenAlex adapter standalone, for its use
// as the Snowball Controller's CitationSource (forward/backward
// traversal is OpenAlex-only, per §4.8 step 2).
func (a *app) openAlexSource() *source.OpenAlexSource {
	oaGate := httpx.NewGate(4, 100*time.Millisecond)
	return source.NewOpenAlexSource(oaGate, a.cfg.OpenAlexEmail)
}
