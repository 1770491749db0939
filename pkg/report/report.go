package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iWorld-y/trend_scout/pkg/model"
)

// Assemble concatenates the research narrative, the image embeds and the
// reference list into one Markdown document. Output is deterministic:
// identical inputs produce byte-identical documents, and list order is
// preserved.
func Assemble(res model.ResearchResult) string {
	var sb strings.Builder

	sb.WriteString(res.FullText)
	sb.WriteString("\n\n")

	for _, img := range res.Images {
		fmt.Fprintf(&sb, "![%s](%s)\n", img.Description, img.URL)
	}

	sb.WriteString("\n## References:\n\n")
	for _, ref := range res.References {
		fmt.Fprintf(&sb, "- [%s](%s)\n", ref.Description, ref.URL)
	}

	return sb.String()
}

// Writer persists run artifacts under a single output directory, creating
// it on demand. Filenames are prefixed with the run timestamp so successive
// runs never overwrite each other.
type Writer struct {
	dir string
}

// NewWriter creates a writer for the given directory.
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = "./"
	}
	return &Writer{dir: dir}
}

// Timestamp renders t as a filename-safe run prefix.
func Timestamp(t time.Time) string {
	return t.Format("2006-01-02_15-04-05")
}

// Write stores content under name and returns the full path.
func (w *Writer) Write(name, content string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return path, nil
}
