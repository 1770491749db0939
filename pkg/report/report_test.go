package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/trend_scout/pkg/model"
)

func TestAssemble(t *testing.T) {
	res := model.ResearchResult{
		FullText: "Body",
		Images: []model.ImageLink{
			{Description: "Fig1", URL: "http://x/f.png"},
		},
		References: []model.ReferenceLink{
			{Description: "Src", URL: "http://y"},
		},
	}

	want := "Body\n\n![Fig1](http://x/f.png)\n\n## References:\n\n- [Src](http://y)\n"
	assert.Equal(t, want, Assemble(res))
}

func TestAssemble_Idempotent(t *testing.T) {
	res := model.ResearchResult{
		FullText: "Some findings",
		Images: []model.ImageLink{
			{Description: "a", URL: "http://img/a.png"},
			{Description: "b", URL: "http://img/b.png"},
		},
		References: []model.ReferenceLink{
			{Description: "first", URL: "http://ref/1"},
			{Description: "second", URL: "http://ref/2"},
		},
	}

	assert.Equal(t, Assemble(res), Assemble(res))
}

func TestAssemble_ImageOrderOnlyAffectsEmbeds(t *testing.T) {
	refs := []model.ReferenceLink{
		{Description: "first", URL: "http://ref/1"},
	}
	a := model.ResearchResult{
		FullText:   "Text",
		Images:     []model.ImageLink{{Description: "a", URL: "http://a"}, {Description: "b", URL: "http://b"}},
		References: refs,
	}
	b := model.ResearchResult{
		FullText:   "Text",
		Images:     []model.ImageLink{{Description: "b", URL: "http://b"}, {Description: "a", URL: "http://a"}},
		References: refs,
	}

	mdA := Assemble(a)
	mdB := Assemble(b)

	assert.NotEqual(t, mdA, mdB)
	assert.Contains(t, mdA, "![a](http://a)\n![b](http://b)")
	assert.Contains(t, mdB, "![b](http://b)\n![a](http://a)")
	// The references section is identical either way.
	assert.Contains(t, mdA, "## References:\n\n- [first](http://ref/1)\n")
	assert.Contains(t, mdB, "## References:\n\n- [first](http://ref/1)\n")
}

func TestAssemble_EmptyLists(t *testing.T) {
	md := Assemble(model.ResearchResult{FullText: "Only text"})
	assert.Contains(t, md, "Only text")
	assert.Contains(t, md, "## References:")
}

func TestWriter_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w := NewWriter(dir)

	path, err := w.Write("report.md", "# hi\n")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# hi\n", string(data))
}

func TestTimestamp(t *testing.T) {
	ts := Timestamp(time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC))
	assert.Equal(t, "2025-03-14_09-26-53", ts)
}
