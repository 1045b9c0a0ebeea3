package bulletin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>QuakeWatch Bulletins</title>
    <description>Official earthquake advisories</description>
    <item>
      <title>Advisory: Surigao Sequence</title>
      <pubDate>Fri, 29 Aug 2026 08:00:00 GMT</pubDate>
      <description>&lt;p&gt;A magnitude &lt;b&gt;5.4&lt;/b&gt; earthquake struck offshore.&lt;/p&gt;&lt;p&gt;Shaking was felt across Surigao del Norte.&lt;/p&gt;</description>
    </item>
    <item>
      <title>Advisory: Taal Update</title>
      <pubDate>Sat, 30 Aug 2026 02:30:00 GMT</pubDate>
      <description>No damage reported. Alert level unchanged.</description>
    </item>
  </channel>
</rss>`

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	b, err := Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if b.Title != "QuakeWatch Bulletins" {
		t.Errorf("Title = %q", b.Title)
	}
	if b.Items != 2 {
		t.Errorf("Items = %d, want 2", b.Items)
	}

	for _, want := range []string{
		"# QuakeWatch Bulletins",
		"## Advisory: Surigao Sequence",
		"Published: 2026-08-29 08:00 UTC",
		"**5.4**",
		"Shaking was felt across Surigao del Norte.",
		"## Advisory: Taal Update",
		"No damage reported. Alert level unchanged.",
	} {
		if !strings.Contains(b.Markdown, want) {
			t.Errorf("markdown missing %q:\n%s", want, b.Markdown)
		}
	}
	if strings.Contains(b.Markdown, "<p>") || strings.Contains(b.Markdown, "<b>") {
		t.Errorf("markdown still contains HTML:\n%s", b.Markdown)
	}
	if !strings.HasSuffix(b.Markdown, "\n") || strings.HasSuffix(b.Markdown, "\n\n") {
		t.Errorf("markdown must end with exactly one newline")
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse(strings.NewReader("not a feed")); err == nil {
		t.Fatal("expected error for malformed feed")
	}
}
