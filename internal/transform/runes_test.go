package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pheuter/sveltecheck/internal/span"
	"github.com/pheuter/sveltecheck/internal/svelteast"
)

func TestNormalizeArgsStripsTrailingCommaAndWhitespace(t *testing.T) {
	assert.Equal(t, "1", normalizeArgs("\n\t1,\n\t"))
	assert.Equal(t, "a, b", normalizeArgs("a, b"))
	assert.Equal(t, "", normalizeArgs("  \n "))
}

func TestNormalizeArgsLeavesCommaInsideArrayLiteralAlone(t *testing.T) {
	assert.Equal(t, "[1, 2,]", normalizeArgs("\n\t[1, 2,],\n\t"))
}

func TestNormalizeArgsLeavesCommaInsideStringAlone(t *testing.T) {
	assert.Equal(t, `"a,"`, normalizeArgs(`"a,"`))
}

func TestNormalizeArgsLeavesCommaInsideLineCommentAlone(t *testing.T) {
	assert.Equal(t, "1 // trailing,", normalizeArgs("1 // trailing,"))
}

func TestRuneRewriteStateWithoutTypeArg(t *testing.T) {
	content := []byte("$state(0)")
	calls := svelteast.ScanRuneCalls(content)
	assert.Equal(t, "(0)", runeRewrite(calls[0], content, Options{}))
}

func TestRuneRewriteStateSnapshotIsIdentity(t *testing.T) {
	content := []byte("$state.snapshot(list)")
	calls := svelteast.ScanRuneCalls(content)
	assert.Equal(t, "(list)", runeRewrite(calls[0], content, Options{}))
}

func TestRuneRewriteEffectTracking(t *testing.T) {
	content := []byte("$effect.tracking()")
	calls := svelteast.ScanRuneCalls(content)
	assert.Equal(t, "(false as boolean)", runeRewrite(calls[0], content, Options{}))
}

func TestRuneRewriteBindableWithDefault(t *testing.T) {
	content := []byte("$bindable(1)")
	calls := svelteast.ScanRuneCalls(content)
	assert.Equal(t, "(1)", runeRewrite(calls[0], content, Options{}))
}

func TestRuneRewriteBindableNoDefault(t *testing.T) {
	content := []byte("$bindable()")
	calls := svelteast.ScanRuneCalls(content)
	assert.Equal(t, "(undefined)", runeRewrite(calls[0], content, Options{}))
}

func TestRuneRewritePropsPlainFallback(t *testing.T) {
	call := svelteast.RuneCall{Kind: svelteast.RuneProps, FullSpan: span.New(0, 9)}
	assert.Equal(t, "({} as Record<string, unknown>)", runeRewrite(call, []byte("$props()"), Options{}))
}

func TestRuneRewritePropsLayoutFallback(t *testing.T) {
	call := svelteast.RuneCall{Kind: svelteast.RuneProps, FullSpan: span.New(0, 9)}
	got := runeRewrite(call, []byte("$props()"), Options{IsLayout: true})
	assert.Equal(t, `({} as import("./$types").LayoutProps)`, got)
}
