// Copyright 2026 QuakeWatch
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package narramd

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"golang.org/x/net/html"
)

var (
	reScript = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	reStyle  = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
)

// structuralTags are element names whose presence marks a payload as HTML
// rather than prose that merely mentions angle brackets.
var structuralTags = map[string]bool{
	"p": true, "div": true, "br": true, "ul": true, "ol": true, "li": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"table": true, "tr": true, "td": true, "th": true,
	"strong": true, "em": true, "b": true, "i": true, "blockquote": true,
}

// looksLikeHTML reports whether text appears to be an HTML payload. It
// tokenizes a bounded prefix and requires at least two structural element
// tags, so prose like "depth < 10km and M > 5" is never misclassified.
func looksLikeHTML(text string) bool {
	if !strings.Contains(text, "<") {
		return false
	}
	z := html.NewTokenizer(strings.NewReader(text))
	seen := 0
	for i := 0; i < 256; i++ {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.StartTagToken || tt == html.SelfClosingTagToken {
			name, _ := z.TagName()
			if structuralTags[string(name)] {
				seen++
				if seen >= 2 {
					return true
				}
			}
		}
	}
	return false
}

// FromHTML converts an HTML document or fragment straight to normalized
// markdown, without the structural sniff Prepare applies. Use it when the
// caller already knows the payload is HTML, such as feed item bodies.
func FromHTML(htmlStr string) (string, error) {
	md, err := htmlToMarkdown(htmlStr)
	if err != nil {
		return "", err
	}
	return Prepare(md), nil
}

// htmlToMarkdown converts an HTML payload to markdown, dropping script and
// style content first. The caller treats any error as "keep the raw text".
func htmlToMarkdown(htmlStr string) (string, error) {
	htmlStr = reScript.ReplaceAllString(htmlStr, "")
	htmlStr = reStyle.ReplaceAllString(htmlStr, "")

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle("atx"),
			),
			table.NewTablePlugin(),
		),
	)
	return conv.ConvertString(htmlStr)
}
