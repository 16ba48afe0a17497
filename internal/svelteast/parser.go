package svelteast

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pheuter/sveltecheck/internal/span"
)

// voidElements never take children or a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

var blockOpeners = map[string]bool{
	"if": true, "each": true, "await": true, "key": true, "snippet": true,
}

// Parser holds cursor state over a single component source. It never
// panics; all recoverable conditions are appended to errs and parsing
// continues from the next resync point (spec.md §4.1).
type Parser struct {
	src  []byte
	pos  int
	errs []ParseError
}

// Parse parses a complete Svelte component source into a Document plus any
// recoverable errors. Non-UTF-8 input is reported as a single parse-error
// at offset 0 and an (empty) Document is still returned.
func Parse(src []byte) *ParseResult {
	if !utf8.Valid(src) {
		return &ParseResult{
			Document: &Document{Span: span.New(0, 0)},
			Errors: []ParseError{{
				Code:    ErrInvalidUTF8,
				Message: "source is not valid UTF-8",
				Span:    span.New(0, 0),
			}},
		}
	}

	p := &Parser{src: src}
	top := p.parseNodes("")
	doc := p.assembleDocument(top)
	doc.Span = span.New(0, uint32(len(src)))
	return &ParseResult{Document: doc, Errors: p.errs}
}

// assembleDocument splits top-level nodes into module/instance scripts,
// style, options, and the remaining template fragment.
func (p *Parser) assembleDocument(nodes []Node) *Document {
	doc := &Document{}
	for _, n := range nodes {
		if n.Kind == KindElement && n.Tag != nil {
			switch strings.ToLower(n.Tag.TagName) {
			case "script":
				s := p.scriptFromElement(n)
				if s.Context == "module" {
					doc.ModuleScript = s
				} else {
					doc.InstanceScript = s
				}
				continue
			case "style":
				doc.Style = p.styleFromElement(n)
				continue
			}
		}
		if n.Kind == KindSvelteOptions {
			node := n
			doc.Options = &node
			continue
		}
		doc.Fragment = append(doc.Fragment, n)
	}
	return doc
}

func (p *Parser) scriptFromElement(n Node) *Script {
	s := &Script{Span: n.Span, Lang: "js", Context: "instance"}
	for _, a := range n.Tag.Attributes {
		if a.Kind != AttrPlain && a.Kind != AttrShorthand {
			continue
		}
		switch strings.ToLower(a.Name) {
		case "lang":
			if strings.Contains(a.Value, "ts") {
				s.Lang = "ts"
			}
		case "context":
			if a.Value == "module" {
				s.Context = "module"
			}
		case "module":
			s.Context = "module"
		case "generics":
			s.Generics = a.Value
		}
	}
	if len(n.Tag.Children) == 1 && n.Tag.Children[0].Kind == KindText {
		s.Content = n.Tag.Children[0].Text.Value
		s.ContentSpan = n.Tag.Children[0].Span
	} else if len(n.Tag.Children) == 0 {
		// Empty script body: content span collapses to an insertion point
		// right after the opening tag.
		s.ContentSpan = span.New(n.Span.End, n.Span.End)
	}
	return s
}

func (p *Parser) styleFromElement(n Node) *StyleBlock {
	sb := &StyleBlock{Span: n.Span}
	if len(n.Tag.Children) == 1 && n.Tag.Children[0].Kind == KindText {
		sb.Content = n.Tag.Children[0].Text.Value
		sb.ContentSpan = n.Tag.Children[0].Span
	}
	return sb
}

// --- low-level cursor helpers -------------------------------------------------

func (p *Parser) eof() bool { return p.pos >= len(p.src) }

func (p *Parser) peekByte() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *Parser) peekAt(offset int) byte {
	i := p.pos + offset
	if i >= len(p.src) {
		return 0
	}
	return p.src[i]
}

func (p *Parser) hasPrefix(s string) bool {
	return strings.HasPrefix(string(p.src[p.pos:]), s)
}

func (p *Parser) addErr(code ErrorCode, msg string, sp span.Span) {
	p.errs = append(p.errs, ParseError{Code: code, Message: msg, Span: sp})
}

func (p *Parser) skipWhitespace() {
	for !p.eof() {
		r, w := decodeRune(p.src, p.pos)
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			p.pos += w
			continue
		}
		break
	}
}

func (p *Parser) scanName() (string, span.Span) {
	start := p.pos
	if p.eof() {
		return "", span.New(uint32(start), uint32(start))
	}
	r, w := decodeRune(p.src, p.pos)
	if !isNameStart(r) {
		return "", span.New(uint32(start), uint32(start))
	}
	p.pos += w
	for !p.eof() {
		r, w := decodeRune(p.src, p.pos)
		if !isNameContinue(r) {
			break
		}
		p.pos += w
	}
	return string(p.src[start:p.pos]), span.New(uint32(start), uint32(p.pos))
}

// --- node-level parsing --------------------------------------------------

// parseNodes parses a sequence of sibling nodes until EOF, or (when
// closingTag is non-empty) until the matching `</closingTag>` is consumed.
func (p *Parser) parseNodes(closingTag string) []Node {
	var nodes []Node
	for {
		if p.eof() {
			if closingTag != "" {
				p.addErr(ErrUnclosedTag, fmt.Sprintf("unclosed tag <%s>", closingTag), span.New(uint32(p.pos), uint32(p.pos)))
			}
			return nodes
		}
		if closingTag != "" && p.hasPrefix("</") {
			if p.matchesClosingTag(closingTag) {
				p.consumeClosingTag()
				return nodes
			}
			// Mismatched close: recover by treating it as closing this
			// element anyway, leaving the tag name resolved for the
			// caller's own stack unwinding.
			p.addErr(ErrMismatchedBlock, fmt.Sprintf("expected </%s>", closingTag), p.closingTagSpan())
			return nodes
		}
		if closingTag == "" && p.hasPrefix("</") {
			// Stray closing tag at the top level / inside a block body.
			start := p.pos
			p.consumeClosingTag()
			p.addErr(ErrMismatchedBlock, "unexpected closing tag", span.New(uint32(start), uint32(p.pos)))
			continue
		}
		if p.atBlockClose() {
			return nodes
		}
		n := p.parseNode()
		if n != nil {
			nodes = append(nodes, *n)
		}
	}
}

// atBlockClose reports whether the cursor sits at `{:` or `{/`, which
// terminate a block body without being consumed here.
func (p *Parser) atBlockClose() bool {
	return p.hasPrefix("{:") || p.hasPrefix("{/")
}

func (p *Parser) matchesClosingTag(tag string) bool {
	save := p.pos
	p.pos += 2 // "</"
	name, _ := p.scanName()
	p.pos = save
	return strings.EqualFold(name, tag)
}

func (p *Parser) closingTagSpan() span.Span {
	save := p.pos
	start := p.pos
	p.pos += 2
	p.scanName()
	end := p.pos
	p.pos = save
	return span.New(uint32(start), uint32(end))
}

func (p *Parser) consumeClosingTag() {
	p.pos += 2 // "</"
	p.scanName()
	p.skipWhitespace()
	if p.peekByte() == '>' {
		p.pos++
	}
}

// parseNode dispatches on the current byte(s) to produce exactly one node.
func (p *Parser) parseNode() *Node {
	switch {
	case p.hasPrefix("<!--"):
		return p.parseComment()
	case p.hasPrefix("<"):
		return p.parseTag()
	case p.hasPrefix("{#"):
		return p.parseBlockOpen()
	case p.hasPrefix("{@"):
		return p.parseSpecialTag()
	case p.peekByte() == '{':
		return p.parseExpression()
	default:
		return p.parseText()
	}
}

func (p *Parser) parseText() *Node {
	start := p.pos
	for !p.eof() {
		if p.peekByte() == '<' || p.peekByte() == '{' {
			break
		}
		_, w := decodeRune(p.src, p.pos)
		if w == 0 {
			p.pos++
		} else {
			p.pos += w
		}
	}
	if p.pos == start {
		// Guard against zero-width infinite loop on unrecognized bytes.
		p.pos++
	}
	sp := span.New(uint32(start), uint32(p.pos))
	return &Node{Kind: KindText, Span: sp, Text: &TextNode{Value: string(p.src[start:p.pos])}}
}

func (p *Parser) parseComment() *Node {
	start := p.pos
	p.pos += 4 // "<!--"
	bodyStart := p.pos
	end := strings.Index(string(p.src[p.pos:]), "-->")
	var body string
	if end < 0 {
		body = string(p.src[bodyStart:])
		p.pos = len(p.src)
		p.addErr(ErrUnclosedTag, "unclosed comment", span.New(uint32(start), uint32(p.pos)))
	} else {
		body = string(p.src[bodyStart : bodyStart+end])
		p.pos = bodyStart + end + 3
	}
	sp := span.New(uint32(start), uint32(p.pos))
	cn := &CommentNode{Text: body}
	if codes, ok := parseIgnoreDirective(body); ok {
		cn.IgnoreCodes = codes
	}
	return &Node{Kind: KindComment, Span: sp, Comment: cn}
}

// parseIgnoreDirective recognizes `svelte-ignore code-a,code-b` comment
// bodies (spec.md §4.3), accepting kebab- or snake-case codes.
func parseIgnoreDirective(body string) ([]string, bool) {
	trimmed := strings.TrimSpace(body)
	const prefix = "svelte-ignore"
	if !strings.HasPrefix(trimmed, prefix) {
		return nil, false
	}
	rest := strings.TrimSpace(trimmed[len(prefix):])
	if rest == "" {
		return nil, false
	}
	var codes []string
	for _, c := range strings.Split(rest, ",") {
		c = strings.TrimSpace(c)
		if c != "" {
			codes = append(codes, c)
		}
	}
	return codes, len(codes) > 0
}

func (p *Parser) parseExpression() *Node {
	start := p.pos
	p.pos++ // '{'
	end := scanExpr(p.src, p.pos)
	if end < 0 {
		p.addErr(ErrUnterminatedExpr, "unterminated expression", span.New(uint32(start), uint32(len(p.src))))
		content := string(p.src[p.pos:])
		p.pos = len(p.src)
		return &Node{Kind: KindExpression, Span: span.New(uint32(start), uint32(p.pos)), Expr: &ExpressionNode{Expr: content}}
	}
	content := string(p.src[p.pos:end])
	p.pos = end + 1
	return &Node{Kind: KindExpression, Span: span.New(uint32(start), uint32(p.pos)), Expr: &ExpressionNode{Expr: content}}
}

// scanExprTo scans a `{...}` construct starting at the current '{' and
// returns its inner text plus the offset just past the closing '}'. On
// unterminated input it consumes to EOF and records an error.
func (p *Parser) scanExprTo() (content string, closed bool) {
	p.pos++ // '{'
	return p.scanBraceBody()
}

// scanBraceBody scans the remainder of a brace construct whose opening
// '{' (and any following keyword, e.g. "@html") has already been
// consumed, returning the text up to the matching unbalanced '}' and
// advancing the cursor past it. On unterminated input it consumes to EOF.
func (p *Parser) scanBraceBody() (content string, closed bool) {
	end := scanExpr(p.src, p.pos)
	if end < 0 {
		content = string(p.src[p.pos:])
		p.pos = len(p.src)
		return content, false
	}
	content = string(p.src[p.pos:end])
	p.pos = end + 1
	return content, true
}

func (p *Parser) parseSpecialTag() *Node {
	start := p.pos
	p.pos += 2 // "{@"
	name, _ := p.scanName()
	p.skipWhitespace()
	inner, closed := p.scanBraceBody()
	if !closed {
		p.addErr(ErrUnterminatedExpr, "unterminated "+"@"+name, span.New(uint32(start), uint32(p.pos)))
	}
	sp := span.New(uint32(start), uint32(p.pos))
	switch name {
	case "html":
		return &Node{Kind: KindHtmlTag, Span: sp, Raw: &RawTagNode{Expr: strings.TrimSpace(inner)}}
	case "debug":
		args := splitTopLevel(inner, ',')
		for i := range args {
			args[i] = strings.TrimSpace(args[i])
		}
		return &Node{Kind: KindDebugTag, Span: sp, Raw: &RawTagNode{Args: args}}
	case "const":
		binding, expr := splitAssignment(inner)
		return &Node{Kind: KindConstTag, Span: sp, Const: &ConstTagNode{Binding: binding, Expr: expr}}
	case "render":
		return &Node{Kind: KindRenderTag, Span: sp, Render: &RenderTagNode{Call: strings.TrimSpace(inner)}}
	case "attach":
		return &Node{Kind: KindHtmlTag, Span: sp, Raw: &RawTagNode{Expr: strings.TrimSpace(inner)}}
	default:
		p.addErr(ErrUnknownBlock, "unknown special tag @"+name, sp)
		return &Node{Kind: KindExpression, Span: sp, Expr: &ExpressionNode{Expr: inner}, Synthetic: true}
	}
}

// splitAssignment splits `name = expr` into its two halves at the first
// top-level '=' (not '==' or '=>').
func splitAssignment(s string) (name, expr string) {
	depth := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		case '=':
			if depth == 0 {
				if i+1 < len(s) && (s[i+1] == '=' || s[i+1] == '>') {
					continue
				}
				if i > 0 && s[i-1] == '!' {
					continue
				}
				return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
			}
		}
	}
	return strings.TrimSpace(s), ""
}

// splitTopLevel splits s on sep at bracket/brace/paren/quote depth zero.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	var cur strings.Builder
	depth := 0
	i := 0
	for i < len(s) {
		c := s[i]
		switch c {
		case '{', '(', '[':
			depth++
			cur.WriteByte(c)
			i++
		case '}', ')', ']':
			depth--
			cur.WriteByte(c)
			i++
		case '\'', '"', '`':
			start := i
			var end int
			if c == '`' {
				end = scanTemplateLiteral([]byte(s), i)
			} else {
				end = scanStringLiteral([]byte(s), i, c)
			}
			cur.WriteString(s[start:end])
			i = end
		default:
			if c == sep && depth == 0 {
				parts = append(parts, cur.String())
				cur.Reset()
				i++
				continue
			}
			cur.WriteByte(c)
			i++
		}
	}
	if cur.Len() > 0 || len(parts) > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}
