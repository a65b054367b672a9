package service

import (
	"testing"

	"anoa.com/hennahub/internal/entity"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	p := bluemonday.StrictPolicy()
	got := CleanText(p, "<p>Arabic <b>bridal</b></p><script>alert(1)</script>  mehndi &amp; more")
	assert.Equal(t, "Arabic bridal mehndi & more", got)
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"bridal", "arabic"}, splitTags(" bridal, ,arabic "))
	assert.Empty(t, splitTags(""))
}

func TestNilClientIsNoop(t *testing.T) {
	idx := NewDesignIndexer(nil)
	assert.NoError(t, idx.IndexDesign(&entity.Design{ID: uuid.New()}))
	assert.NoError(t, idx.DeleteDesign(uuid.New()))
}
