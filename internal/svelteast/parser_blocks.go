package svelteast

import (
	"strings"

	"github.com/pheuter/sveltecheck/internal/span"
)

// parseBlockOpen parses a {#if}/{#each}/{#await}/{#key}/{#snippet} block,
// including its {:...} continuation clauses, up to and including its
// {/keyword} close (spec.md §4.1 "Block parsing").
func (p *Parser) parseBlockOpen() *Node {
	start := p.pos
	p.pos += 2 // "{#"
	keyword, _ := p.scanName()
	p.skipWhitespace()

	header, closed := p.scanBraceBody()
	if !closed {
		p.addErr(ErrUnterminatedExpr, "unterminated {#"+keyword+"}", span.New(uint32(start), uint32(p.pos)))
	}
	header = strings.TrimSpace(header)

	switch keyword {
	case "if":
		return p.parseIfBlock(start, header)
	case "each":
		return p.parseEachBlock(start, header)
	case "await":
		return p.parseAwaitBlock(start, header)
	case "key":
		return p.parseKeyBlock(start, header)
	case "snippet":
		return p.parseSnippetBlock(start, header)
	default:
		sp := span.New(uint32(start), uint32(p.pos))
		p.addErr(ErrUnknownBlock, "unknown block #"+keyword, sp)
		return &Node{Kind: KindExpression, Span: sp, Expr: &ExpressionNode{Expr: header}, Synthetic: true}
	}
}

// expectBlockClose consumes a required `{/keyword}` terminator. Absence or
// a mismatched name is recorded as a recoverable error; the parser never
// panics and always returns with the node it already built.
func (p *Parser) expectBlockClose(keyword string, start int) {
	if !p.hasPrefix("{/") {
		p.addErr(ErrUnclosedTag, "unclosed {#"+keyword+"}", span.New(uint32(start), uint32(p.pos)))
		return
	}
	closeStart := p.pos
	p.pos += 2
	name, _ := p.scanName()
	p.skipWhitespace()
	if p.peekByte() == '}' {
		p.pos++
	} else {
		p.addErr(ErrUnclosedTag, "expected '}' to close {/"+keyword+"}", span.New(uint32(closeStart), uint32(p.pos)))
	}
	if !strings.EqualFold(name, keyword) {
		p.addErr(ErrMismatchedBlock, "expected {/"+keyword+"}, found {/"+name+"}", span.New(uint32(closeStart), uint32(p.pos)))
	}
}

func (p *Parser) parseIfBlock(start int, cond string) *Node {
	ifb := &IfBlockNode{Cond: cond}
	ifb.Then = p.parseNodes("")

	for p.hasPrefix("{:else") {
		clauseStart := p.pos
		p.pos += 6 // "{:else"
		p.skipWhitespace()
		if p.hasPrefix("if") {
			p.pos += 2
			p.skipWhitespace()
			header, closed := p.scanBraceBody()
			if !closed {
				p.addErr(ErrUnterminatedExpr, "unterminated {:else if}", span.New(uint32(clauseStart), uint32(p.pos)))
			}
			ifb.ElseIfs = append(ifb.ElseIfs, ElseIfClause{
				Cond: strings.TrimSpace(header),
				Body: p.parseNodes(""),
				Span: span.New(uint32(clauseStart), uint32(p.pos)),
			})
			continue
		}
		if p.peekByte() == '}' {
			p.pos++
		} else {
			p.addErr(ErrInvalidAttribute, "expected '}' after {:else", span.New(uint32(clauseStart), uint32(p.pos)))
		}
		ifb.HasElse = true
		ifb.Else = p.parseNodes("")
		break
	}

	p.expectBlockClose("if", start)
	sp := span.New(uint32(start), uint32(p.pos))
	return &Node{Kind: KindIfBlock, Span: sp, If: ifb}
}

func (p *Parser) parseEachBlock(start int, header string) *Node {
	expr, rest, hasAs := splitEachHeader(header)
	each := &EachBlockNode{Expr: expr}
	if hasAs {
		each.Binding, each.Index, each.Key = parseEachBindingRest(rest)
	}
	each.Body = p.parseNodes("")

	if p.hasPrefix("{:else") {
		clauseStart := p.pos
		p.pos += 6
		p.skipWhitespace()
		if p.peekByte() == '}' {
			p.pos++
		} else {
			p.addErr(ErrInvalidAttribute, "expected '}' after {:else}", span.New(uint32(clauseStart), uint32(p.pos)))
		}
		each.HasElse = true
		each.Else = p.parseNodes("")
	}

	p.expectBlockClose("each", start)
	sp := span.New(uint32(start), uint32(p.pos))
	return &Node{Kind: KindEachBlock, Span: sp, Each: each}
}

// splitEachHeader splits `expr as binding, index (key)` into expr and the
// raw "binding, index (key)" remainder at the first top-level ` as `.
// Headers with no ` as ` (malformed, but recovered from) return hasAs=false.
func splitEachHeader(header string) (expr string, rest string, hasAs bool) {
	idx := findTopLevelWord(header, "as")
	if idx < 0 {
		return strings.TrimSpace(header), "", false
	}
	return strings.TrimSpace(header[:idx]), strings.TrimSpace(header[idx+2:]), true
}

// parseEachBindingRest splits the "binding, index (key)" remainder of an
// each-block header into its three parts. binding may itself be a
// destructuring pattern with nested commas/defaults, so the split happens
// at bracket depth zero; a trailing comma before the close is tolerated
// (spec.md §4.1).
func parseEachBindingRest(rest string) (binding, index, key string) {
	rest = strings.TrimSpace(rest)
	if strings.HasSuffix(rest, ")") {
		depth := 0
		openIdx := -1
		for i := len(rest) - 1; i >= 0; i-- {
			switch rest[i] {
			case ')':
				depth++
			case '(':
				depth--
				if depth == 0 {
					openIdx = i
				}
			}
			if openIdx >= 0 {
				break
			}
		}
		if openIdx >= 0 {
			key = strings.TrimSpace(rest[openIdx+1 : len(rest)-1])
			rest = strings.TrimSpace(rest[:openIdx])
		}
	}

	parts := splitTopLevel(rest, ',')
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) > 0 {
		binding = parts[0]
	}
	if len(parts) > 1 {
		index = parts[1]
	}
	return binding, index, key
}

func (p *Parser) parseAwaitBlock(start int, header string) *Node {
	await := &AwaitBlockNode{}

	if idx := findTopLevelWord(header, "then"); idx >= 0 {
		await.Expr = strings.TrimSpace(header[:idx])
		await.ThenBinding = strings.TrimSpace(header[idx+4:])
		await.HasThen = true
		await.Then = p.parseNodes("")
		p.expectBlockClose("await", start)
		sp := span.New(uint32(start), uint32(p.pos))
		return &Node{Kind: KindAwaitBlock, Span: sp, Await: await}
	}
	if idx := findTopLevelWord(header, "catch"); idx >= 0 {
		await.Expr = strings.TrimSpace(header[:idx])
		await.CatchBinding = strings.TrimSpace(header[idx+5:])
		await.HasCatch = true
		await.Catch = p.parseNodes("")
		p.expectBlockClose("await", start)
		sp := span.New(uint32(start), uint32(p.pos))
		return &Node{Kind: KindAwaitBlock, Span: sp, Await: await}
	}

	await.Expr = strings.TrimSpace(header)
	await.Pending = p.parseNodes("")

	if p.hasPrefix("{:then") {
		clauseStart := p.pos
		p.pos += 6
		p.skipWhitespace()
		binding, closed := p.scanBraceBody()
		if !closed {
			p.addErr(ErrUnterminatedExpr, "unterminated {:then}", span.New(uint32(clauseStart), uint32(p.pos)))
		}
		await.ThenBinding = strings.TrimSpace(binding)
		await.HasThen = true
		await.Then = p.parseNodes("")
	}

	if p.hasPrefix("{:catch") {
		clauseStart := p.pos
		p.pos += 7
		p.skipWhitespace()
		binding, closed := p.scanBraceBody()
		if !closed {
			p.addErr(ErrUnterminatedExpr, "unterminated {:catch}", span.New(uint32(clauseStart), uint32(p.pos)))
		}
		await.CatchBinding = strings.TrimSpace(binding)
		await.HasCatch = true
		await.Catch = p.parseNodes("")
	}

	p.expectBlockClose("await", start)
	sp := span.New(uint32(start), uint32(p.pos))
	return &Node{Kind: KindAwaitBlock, Span: sp, Await: await}
}

func (p *Parser) parseKeyBlock(start int, header string) *Node {
	key := &KeyBlockNode{Expr: strings.TrimSpace(header)}
	key.Body = p.parseNodes("")
	p.expectBlockClose("key", start)
	sp := span.New(uint32(start), uint32(p.pos))
	return &Node{Kind: KindKeyBlock, Span: sp, Key: key}
}

func (p *Parser) parseSnippetBlock(start int, header string) *Node {
	name := header
	var paramsStr string
	if idx := strings.IndexByte(header, '('); idx >= 0 && strings.HasSuffix(strings.TrimSpace(header), ")") {
		name = strings.TrimSpace(header[:idx])
		inner := strings.TrimSpace(header[idx:])
		paramsStr = strings.TrimSuffix(strings.TrimPrefix(inner, "("), ")")
	}

	var params []string
	for _, part := range splitTopLevel(paramsStr, ',') {
		part = strings.TrimSpace(part)
		if part != "" {
			params = append(params, part)
		}
	}

	snip := &SnippetBlockNode{Name: strings.TrimSpace(name), Params: params}
	snip.Body = p.parseNodes("")
	p.expectBlockClose("snippet", start)
	sp := span.New(uint32(start), uint32(p.pos))
	return &Node{Kind: KindSnippetBlock, Span: sp, Snippet: snip}
}

// findTopLevelWord returns the byte offset of the first standalone
// occurrence of word in s that sits outside any bracket nesting or
// string/template literal and is bounded by whitespace on both sides, or
// -1 if absent.
func findTopLevelWord(s, word string) int {
	depth := 0
	i := 0
	for i < len(s) {
		c := s[i]
		switch c {
		case '(', '[', '{':
			depth++
			i++
		case ')', ']', '}':
			depth--
			i++
		case '\'', '"', '`':
			var end int
			if c == '`' {
				end = scanTemplateLiteral([]byte(s), i)
			} else {
				end = scanStringLiteral([]byte(s), i, c)
			}
			i = end
		default:
			if depth == 0 && isTrivia(c) && strings.HasPrefix(s[i+1:], word) {
				after := i + 1 + len(word)
				if after >= len(s) || isTrivia(s[after]) {
					return i + 1
				}
			}
			i++
		}
	}
	return -1
}
