package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const zeroWidthSpace = "\u200b"

var (
	// 属性なしの <title> タグ。大文字小文字を区別せず、タグ内の空白と複数行の内容を許容します。
	// RE2 の \s は ASCII のみのため、前後の全角スペースやノーブレークスペースは \p{Zs} で除きます。
	titleTagRegex = regexp.MustCompile(`(?is)<title\s*>[\s\p{Zs}]*([^<]*?)[\s\p{Zs}]*</title\s*>`)

	crlfRegex   = regexp.MustCompile("\r\n")
	crRegex     = regexp.MustCompile("\r")
	lfRegex     = regexp.MustCompile("\n")
	tabRegex    = regexp.MustCompile("\t")
	spacesRegex = regexp.MustCompile(" {2,}")
)

// ExtractTitle は本文から最初の <title>...</title> の内側のテキストを返します。
// タグが見つからない場合 found は false です。返り値は未加工のままです。
func ExtractTitle(body string) (title string, found bool) {
	m := titleTagRegex.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractTitleDOM は、HTMLをパースして最初の title 要素のテキストを返します。
// 属性付きの <title lang="ja"> なども拾えます。エンティティはパーサーによってデコード済みです。
func ExtractTitleDOM(body string) (title string, found bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", false
	}
	sel := doc.Find("title").First()
	if sel.Length() == 0 {
		return "", false
	}
	return sel.Text(), true
}

// Sanitize は抽出したタイトルを整形します。処理順序は以下のとおりです。
//  1. ゼロ幅スペース (U+200B) の除去
//  2. HTMLの文字参照・エンティティのデコード
//  3. CRLF, CR, LF をそれぞれ空白一つに置換
//  4. タブを空白一つに置換
//  5. 連続する空白を一つにまとめる
//
// デコードで制御文字が現れうるため、2 は必ず 3〜5 より先に行います。
func Sanitize(title string) string {
	title = strings.ReplaceAll(title, zeroWidthSpace, "")
	title = html.UnescapeString(title)
	return normalizeWhitespace(title)
}

// sanitizeDecoded は、エンティティがデコード済みのテキスト (DOMモード) 用です。
// 二重デコードを避けるため、Sanitize の 2 を飛ばします。
func sanitizeDecoded(title string) string {
	title = strings.ReplaceAll(title, zeroWidthSpace, "")
	return normalizeWhitespace(title)
}

func normalizeWhitespace(s string) string {
	s = crlfRegex.ReplaceAllString(s, " ")
	s = crRegex.ReplaceAllString(s, " ")
	s = lfRegex.ReplaceAllString(s, " ")
	s = tabRegex.ReplaceAllString(s, " ")
	return spacesRegex.ReplaceAllString(s, " ")
}
