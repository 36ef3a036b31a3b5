package content

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/c-pro/geche"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Style is the palette the message renderer draws with. Kept separate from
// the UI theme so this package stays usable headless.
type Style struct {
	Text   lipgloss.Color
	Faint  lipgloss.Color
	Header lipgloss.Color
	Border lipgloss.Color
}

var DefaultStyle = Style{
	Text:   lipgloss.Color("252"),
	Faint:  lipgloss.Color("245"),
	Header: lipgloss.Color("255"),
	Border: lipgloss.Color("240"),
}

// The parser configuration never changes and a goldmark parser is safe to
// share; per-call state lives in the reader passed to Parse.
var (
	parserInstance goldmark.Markdown
	parserOnce     sync.Once
)

func parser() goldmark.Markdown {
	parserOnce.Do(func() {
		parserInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return parserInstance
}

// Renderer turns message markdown into styled terminal text. Rendered
// output is cached per message id and width: message text is immutable
// once stored, so a (id, width) pair always renders the same string and
// the thread view re-renders on every update.
type Renderer struct {
	style Style
	lip   *lipgloss.Renderer
	cache geche.Geche[string, string]
}

func NewRenderer(style Style) *Renderer {
	// Force the ANSI256 profile: output always targets the bubbletea
	// screen, and auto-detection yields uncolored text when there is no
	// TTY (tests, CI).
	lip := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(termenv.ANSI256))
	lip.SetColorProfile(termenv.ANSI256)

	return &Renderer{
		style: style,
		lip:   lip,
		cache: geche.NewMapCache[string, string](),
	}
}

// Render returns the styled terminal form of a message body wrapped to
// width. messageID keys the cache; pass the empty string to bypass it.
func (r *Renderer) Render(messageID, input string, width int) string {
	key := ""
	if messageID != "" {
		key = fmt.Sprintf("%s|%d", messageID, width)
		if cached, err := r.cache.Get(key); err == nil {
			return cached
		}
	}

	rendered := r.render(input, width)
	if key != "" {
		r.cache.Set(key, rendered)
	}
	return rendered
}

func (r *Renderer) render(input string, width int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	source := []byte(input)
	document := parser().Parser().Parse(text.NewReader(source))

	walker := &renderState{
		source: source,
		style:  r.style,
		lip:    r.lip,
		width:  width,
	}
	ast.Walk(document, walker.walk)

	return strings.TrimRight(walker.output.String(), "\n")
}

// renderState walks a goldmark AST and accumulates styled terminal text.
// Inline content collects in a buffer and is word-wrapped as a unit when
// its block closes; goldmark's streaming renderer interface doesn't fit
// that accumulate-then-wrap shape.
type renderState struct {
	source []byte
	style  Style
	lip    *lipgloss.Renderer
	width  int

	output strings.Builder
	inline strings.Builder

	// Nested emphasis is counted, not flagged, so **a _b_ c** stays bold
	// throughout.
	boldCount   int
	italicCount int
	strikeCount int

	quoteDepth int
	listDepth  int
	listBullet string
}

func (s *renderState) newStyle() lipgloss.Style {
	return s.lip.NewStyle()
}

func (s *renderState) prefix() string {
	return strings.Repeat("│ ", s.quoteDepth) + strings.Repeat("  ", s.listDepth)
}

func (s *renderState) contentWidth() int {
	width := s.width - len(s.prefix())
	if width < 10 {
		width = 10
	}
	return width
}

func (s *renderState) styledText(content string) string {
	style := s.newStyle().Foreground(s.style.Text)
	if s.boldCount > 0 {
		style = style.Bold(true)
	}
	if s.italicCount > 0 {
		style = style.Italic(true)
	}
	if s.strikeCount > 0 {
		style = style.Strikethrough(true)
	}
	return style.Render(content)
}

// flushInline wraps the accumulated inline text and writes it out with the
// current block prefix, one prefixed line per wrapped line.
func (s *renderState) flushInline(bullet string) {
	content := s.inline.String()
	s.inline.Reset()
	if content == "" {
		return
	}

	wrapped := ansi.Wrap(content, s.contentWidth(), " ,.;-+|")
	for i, line := range strings.Split(wrapped, "\n") {
		if i == 0 && bullet != "" {
			s.output.WriteString(s.prefix() + bullet + line)
		} else {
			s.output.WriteString(s.prefix() + line)
		}
		s.output.WriteString("\n")
	}
}

func (s *renderState) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {

	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			s.inline.Reset()
		} else {
			s.flushInline(s.listBullet)
			s.listBullet = ""
		}

	case ast.KindHeading:
		if entering {
			s.inline.Reset()
		} else {
			content := ansi.Strip(s.inline.String())
			s.inline.Reset()
			if content != "" {
				styled := s.newStyle().Bold(true).Foreground(s.style.Header).Render(content)
				s.output.WriteString(s.prefix() + styled + "\n")
			}
		}

	case ast.KindFencedCodeBlock:
		if entering {
			s.renderFencedCode(node.(*ast.FencedCodeBlock))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindCodeBlock:
		if entering {
			s.renderPlainCode(node.(*ast.CodeBlock))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindBlockquote:
		if entering {
			s.quoteDepth++
		} else {
			s.quoteDepth--
		}

	case ast.KindList:
		if entering {
			s.listDepth++
		} else {
			s.listDepth--
		}

	case ast.KindListItem:
		if entering {
			s.listBullet = "- "
		}

	case ast.KindThematicBreak:
		if entering {
			rule := strings.Repeat("─", s.contentWidth())
			s.output.WriteString(s.prefix() + s.newStyle().Foreground(s.style.Border).Render(rule) + "\n")
		}

	case ast.KindText:
		if entering {
			textNode := node.(*ast.Text)
			s.inline.WriteString(s.styledText(string(textNode.Segment.Value(s.source))))
			// Soft breaks become spaces so hard-wrapped source reflows
			// at the current pane width.
			if textNode.SoftLineBreak() {
				s.inline.WriteString(" ")
			}
			if textNode.HardLineBreak() {
				s.inline.WriteString("\n")
			}
		}

	case ast.KindString:
		if entering {
			s.inline.WriteString(s.styledText(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		emph := node.(*ast.Emphasis)
		delta := 1
		if !entering {
			delta = -1
		}
		if emph.Level >= 2 {
			s.boldCount += delta
		} else {
			s.italicCount += delta
		}

	case extast.KindStrikethrough:
		if entering {
			s.strikeCount++
		} else {
			s.strikeCount--
		}

	case ast.KindCodeSpan:
		if entering {
			var code strings.Builder
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if textNode, ok := child.(*ast.Text); ok {
					code.Write(textNode.Segment.Value(s.source))
				}
			}
			s.inline.WriteString(s.newStyle().Foreground(s.style.Faint).Render(code.String()))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindLink:
		if entering {
			link := node.(*ast.Link)
			for child := link.FirstChild(); child != nil; child = child.NextSibling() {
				if textNode, ok := child.(*ast.Text); ok {
					s.inline.WriteString(s.styledText(string(textNode.Segment.Value(s.source))))
				}
			}
			if len(link.Destination) > 0 {
				url := s.newStyle().Foreground(s.style.Faint).Render("(" + string(link.Destination) + ")")
				s.inline.WriteString(" " + url)
			}
			return ast.WalkSkipChildren, nil
		}

	case ast.KindAutoLink:
		if entering {
			autolink := node.(*ast.AutoLink)
			s.inline.WriteString(s.styledText(string(autolink.URL(s.source))))
		}
	}

	return ast.WalkContinue, nil
}

func (s *renderState) renderFencedCode(node *ast.FencedCodeBlock) {
	language := string(node.Language(s.source))
	code := s.blockLines(node.Lines())

	highlighted := s.highlight(code, language)
	for _, line := range strings.Split(strings.TrimRight(highlighted, "\n"), "\n") {
		s.output.WriteString(s.prefix() + line + "\n")
	}
}

func (s *renderState) renderPlainCode(node *ast.CodeBlock) {
	code := s.blockLines(node.Lines())
	faint := s.newStyle().Foreground(s.style.Faint)
	for _, line := range strings.Split(strings.TrimRight(code, "\n"), "\n") {
		s.output.WriteString(s.prefix() + faint.Render(line) + "\n")
	}
}

func (s *renderState) blockLines(lines *text.Segments) string {
	var out strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		out.Write(seg.Value(s.source))
	}
	return out.String()
}

// highlight syntax-colors code via chroma. Unknown languages and chroma
// errors fall back to faint plain text.
func (s *renderState) highlight(code, language string) string {
	if language == "" {
		return s.newStyle().Foreground(s.style.Faint).Render(code)
	}
	var buffer strings.Builder
	if err := quick.Highlight(&buffer, code, language, "terminal256", "monokai"); err != nil {
		return s.newStyle().Foreground(s.style.Faint).Render(code)
	}
	return buffer.String()
}
