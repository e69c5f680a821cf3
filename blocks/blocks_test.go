package blocks

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/eringen/pressroom/content"
)

func boolPtr(b bool) *bool { return &b }

func TestRenderCodeBlocksEscapes(t *testing.T) {
	got := RenderCodeBlocks([]content.Block{{
		Component:       content.ComponentCodeBlock,
		Code:            `if (a < b && c > "d") {}`,
		Language:        "js",
		ShowLineNumbers: boolPtr(true),
	}})

	want := `<pre class="line-numbers"><code class="language-js">if (a &lt; b &amp;&amp; c &gt; &#34;d&#34;) {}</code></pre>` + "\n"
	if got != want {
		t.Errorf("RenderCodeBlocks =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderCodeBlocksFilenameHeader(t *testing.T) {
	got := RenderCodeBlocks([]content.Block{{
		Component: content.ComponentCodeBlock,
		Code:      "package main",
		Language:  "go",
		Filename:  "main.go",
	}})

	if !strings.HasPrefix(got, `<div class="code-filename">main.go</div>`) {
		t.Errorf("expected filename header first, got %q", got)
	}
	if !strings.Contains(got, `<code class="language-go">package main</code>`) {
		t.Errorf("missing code element: %q", got)
	}
}

func TestRenderCodeBlocksFilenameIsEscaped(t *testing.T) {
	got := RenderCodeBlocks([]content.Block{{
		Component: content.ComponentCodeBlock,
		Filename:  "<script>.js",
		Language:  `x"><script>`,
	}})
	if strings.Contains(got, "<script>") {
		t.Errorf("unescaped markup in output: %q", got)
	}
}

func TestRenderCodeBlocksDefaults(t *testing.T) {
	got := RenderCodeBlocks([]content.Block{{
		Component: content.ComponentCodeBlock,
		Code:      "console.log(1)",
	}})
	if !strings.Contains(got, `<pre class="line-numbers"><code class="language-javascript">`) {
		t.Errorf("expected line numbers and javascript by default, got %q", got)
	}
	if strings.Contains(got, "code-filename") {
		t.Errorf("unexpected filename header: %q", got)
	}
}

func TestRenderCodeBlocksLineNumbersOff(t *testing.T) {
	got := RenderCodeBlocks([]content.Block{{
		Component:       content.ComponentCodeBlock,
		Code:            "x",
		ShowLineNumbers: boolPtr(false),
	}})
	if !strings.HasPrefix(got, `<pre class="">`) {
		t.Errorf("expected empty class, got %q", got)
	}
}

func TestRenderCodeBlocksFiltersAndKeepsOrder(t *testing.T) {
	bs := []content.Block{
		{Component: content.ComponentRichText, Body: "intro"},
		{Component: content.ComponentCodeBlock, Code: "first"},
		{Component: content.ComponentQuote, Title: "q"},
		{Component: content.ComponentCodeBlock, Code: "second"},
	}
	got := RenderCodeBlocks(bs)
	if strings.Contains(got, "intro") || strings.Contains(got, "q</") {
		t.Errorf("non-code blocks rendered: %q", got)
	}
	first := strings.Index(got, "first")
	second := strings.Index(got, "second")
	if first < 0 || second < 0 || first > second {
		t.Errorf("expected both blocks in order, got %q", got)
	}
	if Count(bs) != 2 {
		t.Errorf("Count = %d, want 2", Count(bs))
	}
}

func TestRenderCodeBlocksEmpty(t *testing.T) {
	if got := RenderCodeBlocks(nil); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
	if got := RenderCodeBlocks([]content.Block{{Component: content.ComponentMedia}}); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestCodeBlocksComponent(t *testing.T) {
	bs := []content.Block{{Component: content.ComponentCodeBlock, Code: "a<b", Language: "go"}}
	var buf bytes.Buffer
	if err := CodeBlocks(bs).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if buf.String() != RenderCodeBlocks(bs) {
		t.Errorf("component output differs from RenderCodeBlocks: %q", buf.String())
	}
}
