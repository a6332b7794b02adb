package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# REST APIs\n\nAn introduction.\n")

	fm, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Understanding REST APIs\n---\n# Intro\n")

	fm, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Understanding REST APIs\n"), fm)
	require.Equal(t, []byte("# Intro\n"), body)
}

func TestSplit_MissingClosingDelimiter_ReturnsTypedError(t *testing.T) {
	input := []byte("---\ntitle: broken\n# Intro\n")

	_, _, had, _, err := Split(input)
	require.Error(t, err)
	require.False(t, had)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_EmptyFrontmatterBlock_HadWithEmptyFrontmatter(t *testing.T) {
	input := []byte("---\n---\n# Intro\n")

	fm, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, []byte("# Intro\n"), body)
}

func TestSplit_CRLF_PreservesNewlineStyle(t *testing.T) {
	input := []byte("---\r\ntitle: crlf\r\n---\r\nbody\r\n")

	fm, body, had, style, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "\r\n", style.Newline)
	require.Equal(t, []byte("title: crlf\r\n"), fm)
	require.Equal(t, []byte("body\r\n"), body)
}

func TestJoin_RoundTripsSplitOutput(t *testing.T) {
	input := []byte("---\ntitle: Understanding REST APIs\ntags:\n  - rest\n---\nBody text.\n")

	fm, body, had, style, err := Split(input)
	require.NoError(t, err)
	require.Equal(t, input, Join(fm, body, had, style))
}

func TestJoin_NoFrontmatter_ReturnsBodyUnchanged(t *testing.T) {
	body := []byte("just a body\n")
	require.Equal(t, body, Join(nil, body, false, Style{Newline: "\n"}))
}

func TestParseYAML_EmptyInput_ReturnsEmptyMap(t *testing.T) {
	fields, err := ParseYAML(nil)
	require.NoError(t, err)
	require.NotNil(t, fields)
	require.Empty(t, fields)
}

func TestSerializeYAML_SortsKeysDeterministically(t *testing.T) {
	fields := map[string]any{
		"title":       "Understanding REST APIs",
		"description": "A primer",
		"tags":        []string{"rest", "http"},
	}

	out, err := SerializeYAML(fields, Style{Newline: "\n"})
	require.NoError(t, err)
	require.Equal(t, "description: A primer\ntags:\n  - rest\n  - http\ntitle: Understanding REST APIs\n", string(out))

	again, err := SerializeYAML(fields, Style{Newline: "\n"})
	require.NoError(t, err)
	require.Equal(t, out, again)
}

func TestSerializeYAML_EmptyMap_ReturnsEmptySlice(t *testing.T) {
	out, err := SerializeYAML(map[string]any{}, Style{})
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestSerializeYAML_CRLFStyle_UsesCRLF(t *testing.T) {
	out, err := SerializeYAML(map[string]any{"title": "crlf"}, Style{Newline: "\r\n"})
	require.NoError(t, err)
	require.Equal(t, "title: crlf\r\n", string(out))
}
