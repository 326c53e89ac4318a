package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeDump(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFile_ExtractsURLAndTokens(t *testing.T) {
	path := writeDump(t, "http://example.com/a\n---URL---\n<html><body>Hello, World!</body></html>")

	doc, err := File(path)
	require.NoError(t, err)
	require.Equal(t, "http://example.com/a", doc.URL)
	require.Equal(t, []string{"hello", "world"}, doc.Tokens)
}

func TestFile_MultilineURLConcatenatesWithoutSeparator(t *testing.T) {
	path := writeDump(t, "http://example.com/\nabout\n---URL---\n<body>x</body>")

	doc, err := File(path)
	require.NoError(t, err)
	require.Equal(t, "http://example.com/about", doc.URL)
}

func TestFile_MissingDelimiterIsCorrupt(t *testing.T) {
	path := writeDump(t, "<html><body>no delimiter here</body></html>")

	_, err := File(path)
	require.ErrorIs(t, err, ErrNoDelimiter)
}

func TestFile_MissingBodyYieldsEmptyTokens(t *testing.T) {
	path := writeDump(t, "http://example.com\n---URL---\n<html><head><title>no body</title></head></html>")

	doc, err := File(path)
	require.NoError(t, err)
	require.Equal(t, "http://example.com", doc.URL)
	require.Empty(t, doc.Tokens)
}

func TestFile_StripsScriptAndStyle(t *testing.T) {
	path := writeDump(t, "u\n---URL---\n<body><script>var x = 1;</script><style>.a{}</style>real content</body>")

	doc, err := File(path)
	require.NoError(t, err)
	require.Equal(t, []string{"real", "content"}, doc.Tokens)
}

func TestFile_StripsCommentsAndTags(t *testing.T) {
	path := writeDump(t, "u\n---URL---\n<body><!-- hidden -->visible <b>bold</b> text</body>")

	doc, err := File(path)
	require.NoError(t, err)
	require.Equal(t, []string{"visible", "bold", "text"}, doc.Tokens)
}

func TestFile_DecodesFiveEntities(t *testing.T) {
	path := writeDump(t, "u\n---URL---\n<body>a &amp; b &lt;c&gt; &quot;d&quot; &apos;e&apos;</body>")

	doc, err := File(path)
	require.NoError(t, err)
	// "&" on its own is pure punctuation and is discarded by tokenization,
	// same as every other all-punctuation token.
	require.Equal(t, []string{"a", "b", "c", "d", "e"}, doc.Tokens)
}

func TestFile_TrimsPunctuationAndLowercases(t *testing.T) {
	path := writeDump(t, "u\n---URL---\n<body>Hello, WORLD! (it's) \"quoted\"</body>")

	doc, err := File(path)
	require.NoError(t, err)
	require.Equal(t, []string{"hello", "world", "it's", "quoted"}, doc.Tokens)
}

func TestFile_UnreadablePathReturnsError(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "does-not-exist.html"))
	require.Error(t, err)
}
