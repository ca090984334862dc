package llm

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
)

// cl100kEncoding lazily loads the cl100k_base encoding once per
// process, grounded on ai/tokenizer.Tiktoken's NewTiktokenWithCL100KBase
// constructor — the same encoding every provider's chat models in that
// package were estimated against.
var (
	cl100kOnce sync.Once
	cl100k     *tiktoken.Tiktoken
	cl100kErr  error
)

func cl100kEncoding() (*tiktoken.Tiktoken, error) {
	cl100kOnce.Do(func() {
		cl100k, cl100kErr = tiktoken.GetEncoding("cl100k_base")
	})
	if cl100kErr != nil {
		return nil, xerrors.Wrap(cl100kErr, xerrors.ConfigError, "load cl100k_base tokenizer")
	}
	return cl100k, nil
}

// EstimateTokens returns text's token count under the cl100k_base
// encoding, for pre-flight budget checks before a PDF-attachment chat
// call is made (§4.4/§4.6's pdf+web paths).
func EstimateTokens(text string) (int, error) {
	enc, err := cl100kEncoding()
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}

// CheckTokenBudget estimates text's token count and fails with a
// ValidationError once it exceeds maxTokens, so an oversized prompt is
// rejected before the pipeline pays for a call a provider would likely
// truncate or refuse outright. maxTokens <= 0 disables the check.
func CheckTokenBudget(text string, maxTokens int) (int, error) {
	n, err := EstimateTokens(text)
	if err != nil {
		return 0, err
	}
	if maxTokens > 0 && n > maxTokens {
		return n, xerrors.Newf(xerrors.ValidationError, "prompt estimated at %d tokens, exceeds budget of %d", n, maxTokens)
	}
	return n, nil
}
