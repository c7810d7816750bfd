package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

const (
	// maxFetchSize caps how much of a remote page is read (5MB).
	maxFetchSize = 5 * 1024 * 1024

	// fetchTimeout bounds a page download.
	fetchTimeout = 30 * time.Second

	// fetchUserAgent identifies the reader to remote servers. Some sites
	// refuse the Go default agent.
	fetchUserAgent = "Mozilla/5.0 (X11; Linux x86_64) wortlupe/1.0"
)

// FromHTML extracts the readable article from an HTML document. Readability
// extraction runs first; when it fails or comes back empty the raw DOM is
// walked instead, with boilerplate elements dropped. pageURL may be nil for
// local documents.
func FromHTML(r io.Reader, pageURL *url.URL) (Document, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxFetchSize))
	if err != nil {
		return Document{}, fmt.Errorf("reading HTML: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(raw), pageURL)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return Document{
			Title: strings.TrimSpace(article.Title),
			Text:  NormalizeText(article.TextContent),
		}, nil
	}

	return fallbackExtract(raw)
}

// boilerplateTags are removed wholesale before text collection when the
// readability pass yields nothing.
var boilerplateTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
	"nav": true, "header": true, "footer": true, "aside": true,
	"iframe": true, "object": true, "embed": true, "form": true,
	"button": true, "svg": true,
}

// blockTags terminate a line when walking the DOM, so paragraphs and
// headings keep their boundaries in the extracted text.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "section": true, "article": true,
}

// fallbackExtract walks the parsed DOM directly, collecting text nodes
// outside boilerplate elements.
func fallbackExtract(raw []byte) (Document, error) {
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return Document{}, fmt.Errorf("parsing HTML: %w", err)
	}

	var title string
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if boilerplateTags[n.Data] {
				return
			}
			if n.Data == "title" && title == "" && n.FirstChild != nil {
				title = strings.TrimSpace(n.FirstChild.Data)
				return
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			sb.WriteString("\n")
		}
	}
	walk(doc)

	text := collapseBlankLines(sb.String())
	if strings.TrimSpace(text) == "" {
		return Document{}, fmt.Errorf("no readable text in HTML document")
	}

	return Document{
		Title: title,
		Text:  NormalizeText(text),
	}, nil
}

// collapseBlankLines trims trailing space per line and squeezes runs of
// blank lines down to one.
func collapseBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := true
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.Join(out, "\n")
}

// ValidateURL checks that a URL is fetchable: absolute, http or https, with
// a host.
func ValidateURL(rawURL string) (*url.URL, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme %q, only http and https are allowed", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("URL has no host: %s", rawURL)
	}
	return parsed, nil
}

// FromURL downloads a page and extracts its readable article. Plain-text
// responses skip article extraction and are normalized directly.
func FromURL(ctx context.Context, client *http.Client, rawURL string) (Document, error) {
	parsed, err := ValidateURL(rawURL)
	if err != nil {
		return Document{}, err
	}

	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return Document{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return Document{}, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Document{}, fmt.Errorf("fetching %s: status %d", rawURL, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "text/plain") {
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchSize))
		if err != nil {
			return Document{}, fmt.Errorf("reading %s: %w", rawURL, err)
		}
		return Document{
			Title: parsed.Host,
			Text:  NormalizeText(string(data)),
		}, nil
	}

	doc, err := FromHTML(resp.Body, parsed)
	if err != nil {
		return Document{}, fmt.Errorf("extracting %s: %w", rawURL, err)
	}
	if doc.Title == "" {
		doc.Title = parsed.Host
	}
	return doc, nil
}
