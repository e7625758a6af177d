package extract

import (
	"context"

	"github.com/shouni/url2md/pkg/httpclient"
)

// ----------------------------------------------------------------------
// 依存性の定義 (DIP)
// ----------------------------------------------------------------------

// Fetcher は、デコード済みのHTMLページを取得する機能のインターフェースを定義します。
// Extractor は、この抽象に依存します。*httpclient.Client がこれを満たします。
type Fetcher interface {
	FetchPage(ctx context.Context, url string) (*httpclient.Page, error)
}
