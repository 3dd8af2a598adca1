package index

import (
	"strings"

	"golang.org/x/net/html"
)

// Elements whose content never reaches the rendered text.
var skippedElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
}

// Elements that separate words when rendered, even without surrounding whitespace.
var breakingElements = map[string]bool{
	"br": true, "p": true, "div": true, "li": true, "dd": true, "dt": true,
	"td": true, "th": true, "tr": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "hr": true, "title": true,
	"ul": true, "ol": true, "dl": true, "table": true, "section": true,
	"article": true, "header": true, "footer": true, "blockquote": true, "pre": true,
}

// RenderText converts an HTML fragment into plain text: tags are dropped,
// entities decoded and runs of whitespace collapsed to a single space.
func RenderText(fragment string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))

	var text strings.Builder
	skipDepth := 0
	for {
		tokenType := tokenizer.Next()
		switch tokenType {
		case html.ErrorToken:
			// io.EOF or a malformed fragment; either way we keep what we have
			return strings.Join(strings.Fields(text.String()), " ")

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			if skippedElements[tag] && tokenType == html.StartTagToken {
				skipDepth++
			}
			if breakingElements[tag] {
				text.WriteByte(' ')
			}

		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			if skippedElements[tag] && skipDepth > 0 {
				skipDepth--
			}
			if breakingElements[tag] {
				text.WriteByte(' ')
			}

		case html.TextToken:
			if skipDepth == 0 {
				text.Write(tokenizer.Text())
			}
		}
	}
}
