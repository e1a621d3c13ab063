package actions

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// CleanedHTML is page HTML reduced to its semantic structure.
type CleanedHTML struct {
	HTML      string
	Title     string
	Truncated bool
}

// cleanHTML strips scripts, styles and other noise from raw HTML while
// preserving the structure and the attributes useful for targeting
// elements in later instructions.
func cleanHTML(rawHTML string, maxLength int) (*CleanedHTML, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	result := &CleanedHTML{Title: findTitle(doc)}

	var builder strings.Builder
	var length int
	result.Truncated = cleanNode(doc, &builder, &length, maxLength)
	result.HTML = builder.String()
	return result, nil
}

// cleanNode walks the tree, emitting kept elements and text. Returns
// true once the output budget is exhausted.
func cleanNode(n *html.Node, builder *strings.Builder, length *int, maxLength int) bool {
	if *length >= maxLength {
		return true
	}

	switch n.Type {
	case html.CommentNode:
		return false

	case html.TextNode:
		text := strings.TrimSpace(n.Data)
		if text == "" {
			return false
		}
		if *length+len(text) > maxLength {
			builder.WriteString(text[:maxLength-*length])
			builder.WriteString("...")
			*length = maxLength
			return true
		}
		builder.WriteString(text)
		*length += len(text)
		return false

	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if skippedElements[tag] {
			return false
		}

		builder.WriteString("<")
		builder.WriteString(tag)
		for _, attr := range n.Attr {
			if keepAttribute(tag, attr.Key) {
				fmt.Fprintf(builder, ` %s="%s"`, attr.Key, html.EscapeString(attr.Val))
			}
		}
		builder.WriteString(">")
		*length += len(tag) + 2

		truncated := cleanChildren(n, builder, length, maxLength)

		if !voidElements[tag] {
			builder.WriteString("</")
			builder.WriteString(tag)
			builder.WriteString(">")
			*length += len(tag) + 3
		}
		if blockElements[tag] {
			builder.WriteString("\n")
		}
		return truncated
	}

	return cleanChildren(n, builder, length, maxLength)
}

func cleanChildren(n *html.Node, builder *strings.Builder, length *int, maxLength int) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if cleanNode(c, builder, length, maxLength) {
			return true
		}
	}
	return false
}

var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"embed":    true,
	"object":   true,
	"svg":      true,
}

var blockElements = map[string]bool{
	"div": true, "p": true, "section": true, "article": true,
	"header": true, "footer": true, "nav": true, "main": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "li": true,
	"table": true, "tr": true,
	"form": true, "fieldset": true, "blockquote": true, "pre": true,
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// keepAttribute keeps identity, targeting and form attributes; the rest
// is noise for instruction authoring.
func keepAttribute(tag, attr string) bool {
	attr = strings.ToLower(attr)

	switch attr {
	case "id", "class", "role", "aria-label", "placeholder":
		return true
	}
	if strings.HasPrefix(attr, "data-") {
		return true
	}

	switch tag {
	case "a":
		return attr == "href"
	case "img":
		return attr == "src" || attr == "alt"
	case "input", "textarea", "select", "button":
		return attr == "name" || attr == "type" || attr == "value"
	case "form":
		return attr == "action" || attr == "method"
	}
	return false
}

func findTitle(doc *html.Node) string {
	var title string
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return
		}
		for c := n.FirstChild; c != nil && title == ""; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)
	return title
}
