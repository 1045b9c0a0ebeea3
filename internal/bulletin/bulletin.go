// Copyright 2026 QuakeWatch
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package bulletin renders agency RSS and Atom bulletins as normalized
// markdown. Feed item bodies are frequently HTML fragments, so they go
// through the same pipeline as model narratives with HTML conversion on.
package bulletin

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/quakewatch/narramd"
)

// Bulletin is a fetched feed rendered to markdown.
type Bulletin struct {
	Title    string
	Markdown string
	Items    int
}

// Fetch retrieves the feed at url and renders it.
func Fetch(ctx context.Context, url string) (*Bulletin, error) {
	fp := gofeed.NewParser()
	feed, err := fp.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("bulletin: fetch %s: %w", url, err)
	}
	return render(feed), nil
}

// Parse renders a feed document read from r.
func Parse(r io.Reader) (*Bulletin, error) {
	fp := gofeed.NewParser()
	feed, err := fp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("bulletin: parse feed: %w", err)
	}
	return render(feed), nil
}

func render(feed *gofeed.Feed) *Bulletin {
	var b strings.Builder

	if feed.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", feed.Title)
	}
	if feed.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", feed.Description)
	}

	for _, item := range feed.Items {
		if item.Title != "" {
			fmt.Fprintf(&b, "## %s\n\n", item.Title)
		}
		if ts := itemTime(item); ts != nil {
			fmt.Fprintf(&b, "Published: %s\n\n", ts.UTC().Format("2006-01-02 15:04 UTC"))
		}

		content := item.Content
		if content == "" {
			content = item.Description
		}
		if content != "" {
			if strings.Contains(content, "<") && strings.Contains(content, ">") {
				if md, err := narramd.FromHTML(content); err == nil {
					content = md
				}
			}
			b.WriteString(narramd.Prepare(content))
			b.WriteString("\n")
		}
	}

	return &Bulletin{
		Title:    feed.Title,
		Markdown: narramd.Prepare(b.String()),
		Items:    len(feed.Items),
	}
}

func itemTime(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed
	}
	return item.UpdatedParsed
}
