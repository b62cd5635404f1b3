package maryxml

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloWorldXML = `<?xml version="1.0" encoding="UTF-8"?>
<maryxml xmlns="http://mary.dfki.de/2002/MaryXML" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" version="0.5" xml:lang="en-US">
<p>
<s>
<phrase>
<t g2p_method="lexicon" ph="' h @ - l @U" pos="UH">
Hello
</t>
<t pos=",">
,
</t>
<t g2p_method="lexicon" ph="' w r= l d" pos="NN">
world
</t>
<boundary breakindex="5" tone="L-L%"/>
</phrase>
</s>
<s>
<phrase>
<t g2p_method="lexicon" ph="' b aI" pos="UH">
bye
</t>
</phrase>
</s>
</p>
<p>
<s>
<t ph="' h aI">hi</t>
</s>
</p>
</maryxml>`

func mustTraverse(t *testing.T, xml string) *Document {
	t.Helper()
	m, err := ParseString(xml)
	require.NoError(t, err)
	return Traverse(m)
}

func TestTraverse(t *testing.T) {
	doc := mustTraverse(t, helloWorldXML)

	require.Len(t, doc.Paragraphs, 2)
	require.Len(t, doc.Paragraphs[0].Sentences, 2)
	require.Len(t, doc.Paragraphs[1].Sentences, 1)

	assert.Equal(t, []Token{
		{Text: "Hello", Phoneme: "' h @ - l @U", HasPhoneme: true},
		{Text: ","},
		{Text: "world", Phoneme: "' w r= l d", HasPhoneme: true},
	}, doc.Paragraphs[0].Sentences[0].Tokens)

	assert.Equal(t, []Token{
		{Text: "hi", Phoneme: "' h aI", HasPhoneme: true},
	}, doc.Paragraphs[1].Sentences[0].Tokens)
}

func TestTraverseEmptyDocument(t *testing.T) {
	doc := mustTraverse(t, `<maryxml></maryxml>`)
	assert.Empty(t, doc.Paragraphs)
	assert.Equal(t, "", Render(doc))
}

func TestTraverseNil(t *testing.T) {
	doc := Traverse(nil)
	require.NotNil(t, doc)
	assert.Empty(t, doc.Paragraphs)
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want string
	}{
		{
			name: "phoneme and literal fallback",
			xml:  `<maryxml><p><s><t ph="k æ t">cat</t><t>sat</t></s></p></maryxml>`,
			want: "k æ t sat",
		},
		{
			name: "paragraphs separated by blank line",
			xml:  `<maryxml><p><s><t ph="h aɪ">hi</t></s></p><p><s><t ph="h aɪ">hi</t></s></p></maryxml>`,
			want: "h aɪ\n\nh aɪ",
		},
		{
			name: "sentences separated by newline",
			xml:  `<maryxml><p><s><t>one</t></s><s><t>two</t><t>three</t></s></p></maryxml>`,
			want: "one\ntwo three",
		},
		{
			name: "sentence without tokens is an empty line",
			xml:  `<maryxml><p><s><t>a</t></s><s></s><s><t>b</t></s></p></maryxml>`,
			want: "a\n\nb",
		},
		{
			name: "empty token skipped",
			xml:  `<maryxml><p><s><t ph="k æ t">cat</t><t ph="x"></t><t ph="y"/><t>sat</t></s></p></maryxml>`,
			want: "k æ t sat",
		},
		{
			name: "whitespace-only token renders as empty text",
			xml:  `<maryxml><p><s><t>a</t><t> </t><t>b</t></s></p></maryxml>`,
			want: "a  b",
		},
		{
			name: "whitespace-only token keeps its phoneme",
			xml:  `<maryxml><p><s><t>a</t><t ph="x"> </t><t>b</t></s></p></maryxml>`,
			want: "a x b",
		},
		{
			name: "surrounding whitespace trimmed",
			xml:  "<maryxml><p><s><t>\n  dog \n</t></s></p></maryxml>",
			want: "dog",
		},
		{
			name: "paragraph without sentences",
			xml:  `<maryxml><p></p><p><s><t>x</t></s></p></maryxml>`,
			want: "\n\nx",
		},
		{
			name: "full response",
			xml:  helloWorldXML,
			want: "' h @ - l @U , ' w r= l d\n' b aI\n\n' h aI",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderString(tt.xml)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderSentenceLineCount(t *testing.T) {
	doc := mustTraverse(t, `<maryxml><p><s/><s><t>a</t></s><s/><s/></p></maryxml>`)
	out := Render(doc)
	assert.Len(t, strings.Split(out, SentenceSeparator), 4)
}

func TestRenderIsRepeatable(t *testing.T) {
	doc := mustTraverse(t, helloWorldXML)
	assert.Equal(t, Render(doc), Render(doc))
}

func TestRenderToleratesInconsistentPronunciations(t *testing.T) {
	out, err := RenderString(`<maryxml><p><s><t ph="r iː d">read</t><t ph="r ɛ d">read</t></s></p></maryxml>`)
	require.NoError(t, err)
	assert.Equal(t, "r iː d r ɛ d", out)
}

func TestBuildDictionary(t *testing.T) {
	t.Run("repeated word with same pronunciation", func(t *testing.T) {
		doc := mustTraverse(t, `<maryxml><p><s><t ph="ð ə">the</t><t>cat</t></s><s><t ph="ð ə">the</t></s></p></maryxml>`)

		dict, err := BuildDictionary(doc)
		require.NoError(t, err)
		assert.Equal(t, 1, dict.Len())
		assert.Equal(t, map[string]string{"the": "ð ə"}, dict.Map())
	})

	t.Run("conflicting pronunciation", func(t *testing.T) {
		doc := mustTraverse(t, `<maryxml><p><s><t ph="r iː d">read</t></s></p><p><s><t ph="r ɛ d">read</t></s></p></maryxml>`)

		dict, err := BuildDictionary(doc)
		assert.Nil(t, dict)
		require.ErrorIs(t, err, ErrInconsistentPronunciation)

		var cerr *ConsistencyError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "read", cerr.Word)
		assert.Equal(t, "r iː d", cerr.Existing)
		assert.Equal(t, "r ɛ d", cerr.Conflicting)
	})

	t.Run("empty and unannotated tokens excluded", func(t *testing.T) {
		doc := mustTraverse(t, `<maryxml><p><s><t ph="x"></t><t>sat</t><t ph="k æ t">cat</t></s></p></maryxml>`)

		dict, err := BuildDictionary(doc)
		require.NoError(t, err)
		assert.Equal(t, []Entry{{Word: "cat", Pronunciation: "k æ t"}}, dict.Entries())
		_, ok := dict.Lookup("")
		assert.False(t, ok)
		_, ok = dict.Lookup("sat")
		assert.False(t, ok)
	})

	t.Run("case sensitive keys", func(t *testing.T) {
		doc := mustTraverse(t, `<maryxml><p><s><t ph="p oʊ l ɪ ʃ">Polish</t><t ph="p ɑ l ɪ ʃ">polish</t></s></p></maryxml>`)

		dict, err := BuildDictionary(doc)
		require.NoError(t, err)
		assert.Equal(t, 2, dict.Len())
	})

	t.Run("every annotated token resolves to its attribute", func(t *testing.T) {
		doc := mustTraverse(t, helloWorldXML)

		dict, err := BuildDictionary(doc)
		require.NoError(t, err)
		for _, tok := range doc.Tokens() {
			if !tok.HasPhoneme {
				continue
			}
			got, ok := dict.Lookup(tok.Text)
			require.True(t, ok, tok.Text)
			assert.Equal(t, tok.Phoneme, got)
		}
		assert.Equal(t, []Entry{
			{Word: "Hello", Pronunciation: "' h @ - l @U"},
			{Word: "world", Pronunciation: "' w r= l d"},
			{Word: "bye", Pronunciation: "' b aI"},
			{Word: "hi", Pronunciation: "' h aI"},
		}, dict.Entries())
	})

	t.Run("repeatable", func(t *testing.T) {
		doc := mustTraverse(t, helloWorldXML)
		first, err := BuildDictionary(doc)
		require.NoError(t, err)
		second, err := BuildDictionary(doc)
		require.NoError(t, err)
		assert.Equal(t, first.Entries(), second.Entries())
	})
}

func TestDictionaryMerge(t *testing.T) {
	a := mustDictionary(t, `<maryxml><p><s><t ph="k æ t">cat</t></s></p></maryxml>`)
	b := mustDictionary(t, `<maryxml><p><s><t ph="d ɔ g">dog</t><t ph="k æ t">cat</t></s></p></maryxml>`)
	c := mustDictionary(t, `<maryxml><p><s><t ph="f ɪ ʃ">fish</t><t ph="k a t">cat</t></s></p></maryxml>`)

	require.NoError(t, a.Merge(b))
	assert.Equal(t, []Entry{
		{Word: "cat", Pronunciation: "k æ t"},
		{Word: "dog", Pronunciation: "d ɔ g"},
	}, a.Entries())

	err := a.Merge(c)
	require.ErrorIs(t, err, ErrInconsistentPronunciation)
	assert.Equal(t, 2, a.Len(), "failed merge must leave the dictionary unchanged")

	require.NoError(t, a.Merge(nil))
}

func mustDictionary(t *testing.T, xml string) *Dictionary {
	t.Helper()
	dict, err := BuildDictionary(mustTraverse(t, xml))
	require.NoError(t, err)
	return dict
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unclosed tag", "<maryxml><p><s></maryxml>"},
		{"mismatched tags", "<maryxml></other>"},
		{"empty input", ""},
		{"service error page", "Error processing request: unknown locale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseString(tt.input)
			assert.Nil(t, m)
			require.ErrorIs(t, err, ErrMalformedMarkup)

			var merr *MalformedMarkupError
			require.ErrorAs(t, err, &merr)
			assert.Empty(t, merr.Source)
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.xml")
	require.NoError(t, os.WriteFile(path, []byte(helloWorldXML), 0644))

	fromFile, err := RenderFile(path)
	require.NoError(t, err)
	fromString, err := RenderString(helloWorldXML)
	require.NoError(t, err)
	assert.Equal(t, fromString, fromFile)

	dict, err := BuildDictionaryFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, dict.Len())
}

func TestParseFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ParseFile(filepath.Join(dir, "missing.xml"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformedMarkup)

	bad := filepath.Join(dir, "bad.xml")
	require.NoError(t, os.WriteFile(bad, []byte("<maryxml><p>"), 0644))
	_, err = ParseFile(bad)
	var merr *MalformedMarkupError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, bad, merr.Source)
	assert.Contains(t, err.Error(), bad)
}
