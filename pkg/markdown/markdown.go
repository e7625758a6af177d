package markdown

import (
	"fmt"
	"regexp"
)

// SpecialCharacters は、リンクテキスト内でエスケープが必要なMarkdownの特殊文字です。
const SpecialCharacters = "\\`*_"

var escapeRegex = regexp.MustCompile("([" + regexp.QuoteMeta(SpecialCharacters) + "])")

// Escape は、Markdownの特殊文字 (\ ` * _) の前にバックスラッシュを付与します。
func Escape(text string) string {
	return escapeRegex.ReplaceAllString(text, `\$1`)
}

// Link は [title](address) 形式のMarkdownリンクを生成します。
// title と address はそのまま埋め込まれるため、エスケープは呼び出し元の責務です。
func Link(title, address string) string {
	return fmt.Sprintf("[%s](%s)", title, address)
}

// DegradedLink は、タイトルを取得できなかった場合の空タイトルのリンクを生成します。
func DegradedLink(address string) string {
	return Link("", address)
}
