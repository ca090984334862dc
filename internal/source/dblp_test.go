package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBLPToPaper(t *testing.T) {
	var hit dblpHit
	hit.Info.Title = "Systematic Reviews in Software Engineering"
	hit.Info.Year = "2022"
	hit.Info.DOI = "10.1/y"
	hit.Info.URL = "https://dblp.org/rec/x"
	hit.Info.Key = "conf/x/y22"

	p := dblpToPaper(hit)
	assert.Equal(t, "10.1/y", p.DOI)
	assert.Equal(t, "conf/x/y22", p.SourceID)
	assert.Equal(t, "dblp", p.Source)
	require.NotNil(t, p.PublishedDate)
	assert.Equal(t, 2022, p.PublishedDate.Year())
}
