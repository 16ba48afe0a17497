package svelteast

import (
	"strings"

	"github.com/pheuter/sveltecheck/internal/span"
)

var svelteSpecialKind = map[string]NodeKind{
	"svelte:self":      KindSvelteSelf,
	"svelte:window":    KindSvelteWindow,
	"svelte:body":      KindSvelteBody,
	"svelte:head":      KindSvelteHead,
	"svelte:document":  KindSvelteDocument,
	"svelte:options":   KindSvelteOptions,
	"svelte:fragment":  KindSvelteFragment,
	"svelte:boundary":  KindSvelteBoundary,
	"svelte:element":   KindSvelteElement,
	"svelte:component": KindSvelteComponent,
}

func isComponentTagName(name string) bool {
	if name == "" {
		return false
	}
	r := name[0]
	return r >= 'A' && r <= 'Z'
}

// parseTag parses an opening tag and, unless self-closing or void, its
// children up to the matching closing tag.
func (p *Parser) parseTag() *Node {
	start := p.pos
	p.pos++ // '<'
	name, nameSpan := p.scanName()
	if name == "" {
		// Not a real tag start (e.g. a bare '<' in text); recover by
		// treating it as text so we make forward progress.
		p.addErr(ErrInvalidAttribute, "unexpected '<'", span.New(uint32(start), uint32(p.pos)))
		return &Node{Kind: KindText, Span: span.New(uint32(start), uint32(p.pos)), Text: &TextNode{Value: "<"}, Synthetic: true}
	}

	kind := KindElement
	if k, ok := svelteSpecialKind[strings.ToLower(name)]; ok {
		kind = k
	} else if isComponentTagName(name) {
		kind = KindComponent
	}

	el := &ElementNode{TagName: name, TagNameSpan: nameSpan}
	attrs, thisExpr, thisSpan := p.parseAttributes(kind == KindSvelteElement || kind == KindSvelteComponent)
	el.Attributes = attrs
	el.This = thisExpr
	el.ThisSpan = thisSpan

	selfClose := false
	if p.hasPrefix("/>") {
		p.pos += 2
		selfClose = true
	} else if p.peekByte() == '>' {
		p.pos++
	} else {
		p.addErr(ErrUnclosedTag, "expected '>' to close tag <"+name+">", span.New(uint32(start), uint32(p.pos)))
	}

	isVoid := voidElements[strings.ToLower(name)]
	el.SelfClosing = selfClose || isVoid

	if !el.SelfClosing {
		lower := strings.ToLower(name)
		rawEnd := -1
		if kind == KindElement && (lower == "script" || lower == "style") {
			rawEnd = strings.Index(strings.ToLower(string(p.src[p.pos:])), "</"+lower)
		}
		if rawEnd >= 0 {
			// Script and style bodies are opaque: one raw text child up to
			// the closing tag, never parsed as markup.
			bodyEnd := p.pos + rawEnd
			el.Children = []Node{{Kind: KindText, Span: span.New(uint32(p.pos), uint32(bodyEnd)), Text: &TextNode{Value: string(p.src[p.pos:bodyEnd])}}}
			p.pos = bodyEnd
			p.consumeClosingTag()
		} else {
			el.Children = p.parseNodes(name)
		}
	}

	sp := span.New(uint32(start), uint32(p.pos))
	return &Node{Kind: kind, Span: sp, Tag: el}
}

// parseAttributes parses attributes up to (but not including) the tag's
// closing '>' or '/>'. For svelte:element / svelte:component it also
// extracts the required `this={expr}` binding.
func (p *Parser) parseAttributes(extractThis bool) (attrs []Attribute, thisExpr string, thisSpan span.Span) {
	for {
		p.skipWhitespace()
		if p.eof() || p.peekByte() == '>' || p.hasPrefix("/>") {
			return attrs, thisExpr, thisSpan
		}
		a, ok := p.parseAttribute()
		if !ok {
			// Could not make progress; bail to avoid an infinite loop.
			return attrs, thisExpr, thisSpan
		}
		if extractThis && a.Kind == AttrPlain && a.Name == "this" && a.IsExprVal {
			thisExpr = a.Value
			thisSpan = a.ValueSpan
			continue
		}
		attrs = append(attrs, a)
	}
}

func (p *Parser) parseAttribute() (Attribute, bool) {
	start := p.pos

	if p.peekByte() == '{' {
		// {...spread}, {shorthand}, or {@attach expr}
		if strings.HasPrefix(string(p.src[p.pos:]), "{@attach") {
			p.pos++ // '{'
			p.pos++ // '@'
			p.scanName() // "attach"
			p.skipWhitespace()
			contentStart := p.pos
			inner, closed := p.scanBraceBody()
			if !closed {
				p.addErr(ErrUnterminatedExpr, "unterminated @attach", span.New(uint32(start), uint32(p.pos)))
			}
			contentEnd := p.pos
			if closed {
				contentEnd--
			}
			if contentEnd < contentStart {
				contentEnd = contentStart
			}
			sp := span.New(uint32(start), uint32(p.pos))
			return Attribute{
				Kind: AttrDirective, Span: sp, DirectiveKind: "attach",
				DirectiveArg: strings.TrimSpace(inner), ArgSpan: span.New(uint32(contentStart), uint32(contentEnd)),
				HasArg: true,
			}, true
		}
		if strings.HasPrefix(string(p.src[p.pos:]), "{...") {
			p.pos++ // '{'
			p.pos += 3 // "..."
			inner, closed := p.scanSpreadExprTo()
			if !closed {
				p.addErr(ErrUnterminatedExpr, "unterminated spread attribute", span.New(uint32(start), uint32(p.pos)))
			}
			sp := span.New(uint32(start), uint32(p.pos))
			return Attribute{Kind: AttrSpread, Span: sp, SpreadExpr: strings.TrimSpace(inner)}, true
		}
		// shorthand {name}
		p.pos++ // '{'
		nameStart := p.pos
		name, _ := p.scanName()
		nameSpan := span.New(uint32(nameStart), uint32(p.pos))
		p.skipWhitespace()
		if p.peekByte() == '}' {
			p.pos++
		} else {
			p.addErr(ErrInvalidAttribute, "unterminated shorthand attribute", span.New(uint32(start), uint32(p.pos)))
		}
		sp := span.New(uint32(start), uint32(p.pos))
		return Attribute{Kind: AttrShorthand, Span: sp, Name: name, NameSpan: nameSpan}, name != ""
	}

	nameStart := p.pos
	name, _ := p.scanDirectiveName()
	if name == "" {
		// Can't parse an attribute here; advance one byte so the caller's
		// loop terminates instead of spinning.
		p.addErr(ErrInvalidAttribute, "invalid attribute syntax", span.New(uint32(p.pos), uint32(p.pos)+1))
		p.pos++
		return Attribute{}, false
	}
	nameSpan := span.New(uint32(nameStart), uint32(p.pos))

	var modifiers []string
	for p.peekByte() == '|' {
		p.pos++
		mod, _ := p.scanName()
		if mod == "" {
			break
		}
		modifiers = append(modifiers, mod)
	}

	hasValue := false
	isExpr := false
	var value string
	var valueSpan span.Span
	if p.peekByte() == '=' {
		p.pos++
		hasValue = true
		if p.peekByte() == '"' || p.peekByte() == '\'' {
			quote := p.peekByte()
			vs := p.pos
			p.pos++
			bodyStart := p.pos
			for !p.eof() && p.peekByte() != quote {
				p.pos++
			}
			value = string(p.src[bodyStart:p.pos])
			valueSpan = span.New(uint32(bodyStart), uint32(p.pos))
			if !p.eof() {
				p.pos++ // consume closing quote
			} else {
				p.addErr(ErrInvalidAttribute, "unterminated attribute value", span.New(uint32(vs), uint32(p.pos)))
			}
		} else if p.peekByte() == '{' {
			vs := p.pos
			contentStart := p.pos + 1
			inner, closed := p.scanExprTo()
			if !closed {
				p.addErr(ErrUnterminatedExpr, "unterminated attribute expression", span.New(uint32(vs), uint32(p.pos)))
			}
			value = strings.TrimSpace(inner)
			valueEnd := p.pos
			if closed {
				valueEnd--
			}
			if valueEnd < contentStart {
				valueEnd = contentStart
			}
			valueSpan = span.New(uint32(contentStart), uint32(valueEnd))
			isExpr = true
		} else {
			// Unquoted value: read until whitespace or tag-close.
			vs := p.pos
			for !p.eof() {
				c := p.peekByte()
				if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '>' || c == '/' {
					break
				}
				p.pos++
			}
			value = string(p.src[vs:p.pos])
			valueSpan = span.New(uint32(vs), uint32(p.pos))
		}
	}

	sp := span.New(uint32(nameStart), uint32(p.pos))

	if idx := strings.IndexByte(name, ':'); idx > 0 {
		kind := name[:idx]
		target := name[idx+1:]
		return Attribute{
			Kind: AttrDirective, Span: sp,
			DirectiveKind: kind, Target: target, TargetSpan: span.New(uint32(nameStart+idx+1), uint32(nameStart+len(name))),
			Modifiers: modifiers, DirectiveArg: value, ArgSpan: valueSpan, HasArg: hasValue,
		}, true
	}

	return Attribute{
		Kind: AttrPlain, Span: sp,
		Name: name, NameSpan: nameSpan,
		Value: value, ValueSpan: valueSpan, IsExprVal: isExpr, HasValue: hasValue,
	}, true
}

// scanDirectiveName scans an attribute/directive name, which unlike a plain
// template identifier may contain ':' (directive separator) and '.'
// (member-access chain for `use:ns.member`).
func (p *Parser) scanDirectiveName() (string, span.Span) {
	start := p.pos
	for !p.eof() {
		r, w := decodeRune(p.src, p.pos)
		if !isNameContinue(r) && !isNameStart(r) {
			break
		}
		if r == '|' {
			break
		}
		p.pos += w
	}
	return string(p.src[start:p.pos]), span.New(uint32(start), uint32(p.pos))
}

// scanSpreadExprTo scans the expression inside `{...expr}` given the
// cursor positioned right after the consumed "...".
func (p *Parser) scanSpreadExprTo() (string, bool) {
	return p.scanBraceBody()
}
