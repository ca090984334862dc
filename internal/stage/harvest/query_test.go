package harvest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildQueryCombinesAnchorVariantsAndTerm(t *testing.T) {
	q := buildQuery("audio token", "tokenization")
	assert.Contains(t, q, `all:"audio token"`)
	assert.Contains(t, q, "all:tokenization")
	assert.Contains(t, q, " AND ")
}

func TestAllPhraseQuotesMultiWordTerms(t *testing.T) {
	assert.Equal(t, `all:"audio tokens"`, allPhrase("audio tokens"))
	assert.Equal(t, "all:tokenization", allPhrase("tokenization"))
}
