package markdown_test

import (
	"strings"
	"testing"

	"github.com/shouni/url2md/pkg/markdown"
	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain_text", "Hello World", "Hello World"},
		{"backslash", `a\b`, `a\\b`},
		{"backtick", "use `go test`", "use \\`go test\\`"},
		{"asterisk", "5 * 3", `5 \* 3`},
		{"underscore", "snake_case_name", `snake\_case\_name`},
		{"consecutive", `**_\`, `\*\*\_\\`},
		{"other_markdown_untouched", "[a](b) #h <x> !", "[a](b) #h <x> !"},
		{"unicode", "日本語_タイトル", `日本語\_タイトル`},
		{"empty", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, markdown.Escape(tc.input))
		})
	}
}

// 特殊文字がそれぞれちょうど一度だけバックスラッシュで前置され、
// 他の文字が変化しないことを確認します。
func TestEscape_PrefixesEachSpecialCharacterOnce(t *testing.T) {
	inputs := []string{
		"",
		"no specials here",
		"\\\\``**__",
		"mix_of *all* `the` \\ things",
		"タイトル*テスト_",
	}

	for _, input := range inputs {
		escaped := markdown.Escape(input)

		var rebuilt strings.Builder
		runes := []rune(escaped)
		for i := 0; i < len(runes); i++ {
			r := runes[i]
			if r == '\\' {
				if assert.Less(t, i+1, len(runes), "末尾に孤立したバックスラッシュ: %q", escaped) {
					next := runes[i+1]
					assert.True(t, strings.ContainsRune(markdown.SpecialCharacters, next), "非特殊文字がエスケープされた: %q", escaped)
					rebuilt.WriteRune(next)
					i++
				}
				continue
			}
			assert.False(t, strings.ContainsRune(markdown.SpecialCharacters, r), "未エスケープの特殊文字: %q", escaped)
			rebuilt.WriteRune(r)
		}
		assert.Equal(t, input, rebuilt.String())
	}
}

func TestLink(t *testing.T) {
	assert.Equal(t, "[Example](https://example.com)", markdown.Link("Example", "https://example.com"))
	assert.Equal(t, "[](https://example.com/missing)", markdown.DegradedLink("https://example.com/missing"))
}
