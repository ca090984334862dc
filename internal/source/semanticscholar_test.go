package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS2ToPaper(t *testing.T) {
	p := s2Paper{
		PaperID:         "s2-1",
		ExternalIDs:     map[string]string{"DOI": "10.1/x", "ArXiv": "2301.00001"},
		Title:           "Graph Neural Networks for Code",
		Abstract:        "abstract text",
		PublicationDate: "2023-05-01",
		Authors:         []s2Author{{Name: "Ann Author"}},
		URL:             "https://semanticscholar.org/paper/s2-1",
	}

	out := s2ToPaper(p)
	assert.Equal(t, "10.1/x", out.DOI)
	assert.Equal(t, "2301.00001", out.ArxivID)
	assert.Equal(t, "s2-1", out.SourceID)
	assert.Equal(t, "semanticscholar", out.Source)
	require.NotNil(t, out.PublishedDate)
	assert.Equal(t, []string{"Ann Author"}, out.Authors)
}
