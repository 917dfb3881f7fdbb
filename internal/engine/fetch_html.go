package engine

import (
	"bytes"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

const (
	removeSelectors = "script, style, meta, link, noscript, iframe, svg, head"
	textSelectors   = "p, h1, h2, h3, h4, h5, h6, article, section, main"
)

// containerTags contribute text only when they hold no nested content element,
// otherwise their text would repeat what the children already yielded.
var containerTags = map[string]bool{"article": true, "section": true, "main": true}

// extractText turns a response body into plain text capped at maxChars runes.
func extractText(body []byte, contentType string, maxChars int) (string, error) {
	var text string
	switch mt := mediaType(contentType); {
	case mt == "text/plain":
		text = plainText(string(body))
	case mt == "" || mt == "text/html" || mt == "application/xhtml+xml" || strings.HasSuffix(mt, "+xml") || mt == "application/xml" || mt == "text/xml":
		var err error
		text, err = htmlText(body)
		if err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unsupported content type %q", mt)
	}
	return strings.TrimSpace(TruncateRunes(text, maxChars, "")), nil
}

// htmlText strips non-content markup and joins the text of content-bearing
// elements with newlines. Pages without such elements are converted to
// markdown as a whole.
func htmlText(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("html parse: %w", err)
	}

	doc.Find(removeSelectors).Remove()

	var parts []string
	doc.Find(textSelectors).Each(func(_ int, s *goquery.Selection) {
		if containerTags[goquery.NodeName(s)] && s.Find(textSelectors).Length() > 0 {
			return
		}
		if t := CollapseWhitespace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) > 0 {
		return strings.Join(parts, "\n"), nil
	}

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}
	inner, err := root.Html()
	if err != nil {
		return "", fmt.Errorf("html render: %w", err)
	}
	md, err := htmltomarkdown.ConvertString(inner)
	if err != nil {
		return CollapseWhitespace(root.Text()), nil
	}
	return plainText(md), nil
}

// plainText collapses whitespace within each line and drops blank lines.
func plainText(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = CollapseWhitespace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
