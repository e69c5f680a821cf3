// Package blocks renders the code blocks of an article's dynamic zone as
// HTML, as a templ component.
package blocks

import (
	"bytes"
	"context"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/pressroom/content"
)

// CodeBlocks returns a templ.Component that renders every shared.code-block
// entry of bs in order. Other components are skipped.
func CodeBlocks(bs []content.Block) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		WriteCodeBlocks(&buf, bs)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// RenderCodeBlocks returns the HTML for the code blocks of bs, or "" when
// there are none.
func RenderCodeBlocks(bs []content.Block) string {
	var buf bytes.Buffer
	WriteCodeBlocks(&buf, bs)
	return buf.String()
}

// WriteCodeBlocks appends the HTML for the code blocks of bs to buf.
func WriteCodeBlocks(buf *bytes.Buffer, bs []content.Block) {
	for _, b := range bs {
		if !b.IsCodeBlock() {
			continue
		}
		writeCodeBlock(buf, b)
	}
}

func writeCodeBlock(buf *bytes.Buffer, b content.Block) {
	if b.Filename != "" {
		buf.WriteString(`<div class="code-filename">`)
		buf.WriteString(html.EscapeString(b.Filename))
		buf.WriteString("</div>\n")
	}

	class := ""
	if b.LineNumbers() {
		class = "line-numbers"
	}
	buf.WriteString(`<pre class="` + class + `"><code class="language-`)
	buf.WriteString(html.EscapeString(b.CodeLanguage()))
	buf.WriteString(`">`)
	buf.WriteString(html.EscapeString(b.Code))
	buf.WriteString("</code></pre>\n")
}

// Count returns the number of code blocks in bs.
func Count(bs []content.Block) int {
	n := 0
	for _, b := range bs {
		if b.IsCodeBlock() {
			n++
		}
	}
	return n
}
