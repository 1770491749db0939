package webpage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// pdfRejection is returned for PDF links without touching the network.
const pdfRejection = "Error: the URL points to a PDF file, which cannot be read. Please find an HTML source instead."

var reBlankLines = regexp.MustCompile(`\n{3,}`)

// Fetcher turns webpages into clean Markdown text for the agent.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher on top of the shared HTTP client.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client}
}

// Visit fetches the URL and returns its readable content as Markdown with
// blank-line runs collapsed. Fetch failures are not errors here: they come
// back as human-readable messages in the normal return value, so the agent
// can read them and try a different source.
func (f *Fetcher) Visit(ctx context.Context, rawURL string) string {
	if strings.HasSuffix(strings.ToLower(strings.TrimSpace(rawURL)), ".pdf") {
		return pdfRejection
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Sprintf("Error fetching the webpage: %s", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	res, err := f.client.Do(req)
	if err != nil {
		return fmt.Sprintf("Error fetching the webpage: %s", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Sprintf("Error fetching the webpage: status code %d", res.StatusCode)
	}

	contentType := res.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "text/html") {
		return fmt.Sprintf("Error fetching the webpage: unsupported content type %q", contentType)
	}

	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Sprintf("Error fetching the webpage: %s", err)
	}

	article, err := readability.FromReader(res.Body, pageURL)
	if err != nil {
		return fmt.Sprintf("Error fetching the webpage: %s", err)
	}

	return render(article.Title, article.TextContent)
}

// render produces the Markdown document: title heading plus the extracted
// text with excess blank lines collapsed.
func render(title, text string) string {
	text = strings.TrimSpace(text)
	text = reBlankLines.ReplaceAllString(text, "\n\n")

	if title == "" {
		return text
	}
	return fmt.Sprintf("# %s\n\n%s", title, text)
}
