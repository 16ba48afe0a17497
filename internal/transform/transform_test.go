package transform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pheuter/sveltecheck/internal/svelteast"
)

func parseDoc(t *testing.T, src string) *svelteast.Document {
	t.Helper()
	res := svelteast.Parse([]byte(src))
	require.Empty(t, res.Errors)
	require.NotNil(t, res.Document)
	return res.Document
}

func TestTransformStateRuneRewriteInPlace(t *testing.T) {
	src := `<script>
	let count = $state(0);
</script>
<p>{count}</p>
`
	doc := parseDoc(t, src)
	res := Transform(doc, Options{})
	assert.Contains(t, res.Code, "let count = (0);")
	assert.Contains(t, res.Code, "void (count);")
}

func TestTransformStateRuneWithGenericTypeArg(t *testing.T) {
	src := `<script>
	let count = $state<number>(0);
</script>
`
	doc := parseDoc(t, src)
	res := Transform(doc, Options{})
	assert.Contains(t, res.Code, "let count = (0 as number);")
}

func TestTransformDerivedByCallsThunk(t *testing.T) {
	src := `<script>
	let total = $derived.by(() => 1 + 2);
</script>
`
	doc := parseDoc(t, src)
	res := Transform(doc, Options{})
	assert.Contains(t, res.Code, "let total = (() => 1 + 2)();")
}

func TestTransformEffectCallsFn(t *testing.T) {
	src := `<script>
	$effect(() => {
		console.log(1);
	});
</script>
`
	doc := parseDoc(t, src)
	res := Transform(doc, Options{})
	assert.Contains(t, res.Code, "(() => {\n\t\tconsole.log(1);\n\t})();")
}

func TestTransformHostRune(t *testing.T) {
	src := `<script>
	const el = $host();
</script>
`
	doc := parseDoc(t, src)
	res := Transform(doc, Options{})
	assert.Contains(t, res.Code, "const el = this;")
}

func TestTransformInspectRune(t *testing.T) {
	src := `<script>
	let value = 1;
	$inspect(value);
	$inspect.trace();
</script>
`
	doc := parseDoc(t, src)
	res := Transform(doc, Options{})
	assert.Contains(t, res.Code, "(void 0);")
}

func TestTransformPropsWithGenericAnnotation(t *testing.T) {
	src := `<script lang="ts">
	let { name }: NameProps = $props<NameProps>();
</script>
`
	doc := parseDoc(t, src)
	res := Transform(doc, Options{})
	assert.Contains(t, res.Code, "({} as NameProps)")
}

func TestTransformPropsRoutePageFallback(t *testing.T) {
	src := `<script>
	let data = $props();
</script>
`
	doc := parseDoc(t, src)
	res := Transform(doc, Options{IsRoutePage: true})
	assert.Contains(t, res.Code, `({} as import("./$types").PageProps)`)
}

func TestTransformMultiLineTrailingCommaNormalized(t *testing.T) {
	src := "<script>\n\tlet x = $state<number>(\n\t\t1,\n\t);\n</script>\n"
	doc := parseDoc(t, src)
	res := Transform(doc, Options{})
	assert.Contains(t, res.Code, "let x = (1 as number);")
	assert.NotContains(t, res.Code, ",\n\t) as number)")
}

func TestTransformEachBlockEmitsForOf(t *testing.T) {
	src := `{#each items as item, i (item.id)}<li>{item.name}</li>{/each}`
	doc := parseDoc(t, src)
	res := Transform(doc, Options{})
	assert.Contains(t, res.Code, "for (const item of (items)) {")
	assert.Contains(t, res.Code, "const i: number = 0;")
	assert.Contains(t, res.Code, "void (item.id);")
}

func TestTransformIfElseBlock(t *testing.T) {
	src := `{#if a}A{:else if b}B{:else}C{/if}`
	doc := parseDoc(t, src)
	res := Transform(doc, Options{})
	assert.Contains(t, res.Code, "if (a) {")
	assert.Contains(t, res.Code, "else if (b) {")
	assert.Contains(t, res.Code, "else {")
}

func TestTransformAwaitBlockBindings(t *testing.T) {
	src := `{#await promise}loading{:then value}{value}{:catch err}{err}{/await}`
	doc := parseDoc(t, src)
	res := Transform(doc, Options{})
	assert.Contains(t, res.Code, "void (promise);")
	assert.Contains(t, res.Code, "const value = (await (promise));")
	assert.Contains(t, res.Code, "const err: unknown = undefined;")
	assert.Contains(t, res.Code, "async function $$render() {")
}

func TestTransformSnippetBlockEmitsArrow(t *testing.T) {
	src := `{#snippet row(item, index)}<li>{item}</li>{/snippet}`
	doc := parseDoc(t, src)
	res := Transform(doc, Options{})
	assert.Contains(t, res.Code, "const row = (item, index) => {")
}

func TestTransformElementAttributeAndEventHandler(t *testing.T) {
	src := `<input value={name} onclick={go} />`
	doc := parseDoc(t, src)
	res := Transform(doc, Options{})
	assert.Contains(t, res.Code, `["value"] = (name)`)
	assert.Contains(t, res.Code, `.onclick = (go)`)
}

func TestTransformBindDirective(t *testing.T) {
	src := `<input bind:value={name} />`
	doc := parseDoc(t, src)
	res := Transform(doc, Options{})
	assert.Contains(t, res.Code, `["value"] = (name)`)
}

func TestTransformUseDirectiveWithArg(t *testing.T) {
	src := `<div use:tooltip={opts}></div>`
	doc := parseDoc(t, src)
	res := Transform(doc, Options{})
	assert.Contains(t, res.Code, "void ((tooltip)(null as unknown as HTMLElement, (opts)));")
}

func TestTransformUseDirectiveTargetIdentityMapsToItsOwnSpan(t *testing.T) {
	src := `<div use:tooltip={opts}></div>`
	doc := parseDoc(t, src)
	res := Transform(doc, Options{})

	genIdx := strings.Index(res.Code, "tooltip")
	require.GreaterOrEqual(t, genIdx, 0)

	pos, err := res.SourceMap.Remap(uint32(genIdx))
	require.NoError(t, err)
	assert.False(t, pos.Synthetic)
	assert.Equal(t, strings.Index(src, "tooltip"), int(pos.Offset))
}

func TestTransformAttachDirective(t *testing.T) {
	src := `<div {@attach setup(el)}></div>`
	doc := parseDoc(t, src)
	res := Transform(doc, Options{})
	assert.Contains(t, res.Code, `as import("svelte/attachments").Attachment)(null as unknown as HTMLElement));`)
}

func TestTransformSvelteElementThis(t *testing.T) {
	src := `<svelte:element this={tag}>x</svelte:element>`
	doc := parseDoc(t, src)
	res := Transform(doc, Options{})
	assert.Contains(t, res.Code, "void (tag);")
}

func TestTransformHtmlTag(t *testing.T) {
	src := `{@html raw}`
	doc := parseDoc(t, src)
	res := Transform(doc, Options{})
	assert.Contains(t, res.Code, "String(raw);")
}

func TestTransformConstAndRenderTags(t *testing.T) {
	src := `{@const total = a + b}{@render child(total)}`
	doc := parseDoc(t, src)
	res := Transform(doc, Options{})
	assert.Contains(t, res.Code, "const total = (a + b);")
	assert.Contains(t, res.Code, "void (child(total));")
}

func TestTransformSourceMapIsContiguous(t *testing.T) {
	src := `<script>
	let count = $state(0);
</script>
<p>{count}</p>
`
	doc := parseDoc(t, src)
	res := Transform(doc, Options{})
	require.NoError(t, res.SourceMap.Validate())
	assert.Equal(t, res.SourceMap.GeneratedLen(), uint32(len(res.Code)))
}

func TestTransformExportsPropsType(t *testing.T) {
	src := `<script>
	let { name, age = 0, value = $bindable(1) } = $props();
</script>
`
	doc := parseDoc(t, src)
	res := Transform(doc, Options{})
	require.Len(t, res.Props, 3)
	assert.Equal(t, "name", res.Props[0].Name)
	assert.Equal(t, "age", res.Props[1].Name)
	assert.Equal(t, "0", res.Props[1].Default)
	assert.Equal(t, "value", res.Props[2].Name)
	assert.True(t, res.Props[2].Bindable)
	assert.Contains(t, res.Code, "export type Props = {")
	assert.Contains(t, res.Code, "name: unknown;")
	assert.Contains(t, res.Code, "age?: unknown;")
}
