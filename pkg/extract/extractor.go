package extract

import (
	"context"
	"fmt"
)

// Mode はタイトルの抽出方法です。
type Mode string

const (
	// ModeRegex は本文を正規表現で走査します (デフォルト)。
	ModeRegex Mode = "regex"
	// ModeDOM は goquery でHTMLをパースして title 要素を探します。
	ModeDOM Mode = "dom"
)

// ParseMode は文字列を Mode に変換します。空文字列は ModeRegex になります。
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeRegex:
		return ModeRegex, nil
	case ModeDOM:
		return ModeDOM, nil
	default:
		return "", fmt.Errorf("不明なタイトル抽出モードです: %q (regex または dom を指定してください)", s)
	}
}

// Extractor は、Fetcher を使ってページを取得し、タイトルを抽出します。
type Extractor struct {
	fetcher Fetcher
	mode    Mode
}

// Option は Extractor の設定を行う関数型です。
type Option func(*Extractor)

// WithMode はタイトルの抽出方法を設定します。
func WithMode(mode Mode) Option {
	return func(e *Extractor) {
		e.mode = mode
	}
}

// NewExtractor は、新しいExtractorのインスタンスを生成します。
func NewExtractor(fetcher Fetcher, options ...Option) (*Extractor, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("extract.NewExtractor: Fetcher cannot be nil")
	}
	e := &Extractor{
		fetcher: fetcher,
		mode:    ModeRegex,
	}
	for _, opt := range options {
		opt(e)
	}
	return e, nil
}

// Mode は設定された抽出モードを返します。
func (e *Extractor) Mode() Mode {
	return e.mode
}

// FetchTitle は指定されたURLのページを取得し、整形済みのタイトルを返します。
//
// title タグが見つからない場合、found は false となり、title には url がそのまま入ります。
// 取得に失敗した場合は Fetcher のエラーをラップせずに返すため、
// 呼び出し元は httpclient.IsHTTPError で失敗の種類を判別できます。
func (e *Extractor) FetchTitle(ctx context.Context, url string) (title string, found bool, err error) {
	page, err := e.fetcher.FetchPage(ctx, url)
	if err != nil {
		return "", false, err
	}

	title, found = e.TitleFromBody(page.Body)
	if !found {
		return url, false, nil
	}
	return title, true, nil
}

// TitleFromBody は、デコード済みの本文から整形済みのタイトルを抽出します。
func (e *Extractor) TitleFromBody(body string) (title string, found bool) {
	if e.mode == ModeDOM {
		raw, ok := ExtractTitleDOM(body)
		if !ok {
			return "", false
		}
		return sanitizeDecoded(raw), true
	}

	raw, ok := ExtractTitle(body)
	if !ok {
		return "", false
	}
	return Sanitize(raw), true
}
