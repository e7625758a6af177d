package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"golang.org/x/net/html/charset"
)

const (
	// HTTPクライアント関連の定数
	DefaultHTTPTimeout = 3 * time.Second
	MaxBodySize        = int64(10 * 1024 * 1024) // 10MB: これを超える部分は切り詰める

	// サイトからのブロックを避けるためのUser-Agent
	UserAgent = httpkit.UserAgent
)

// Doer は、標準の *http.Client.Do() と互換性のあるインターフェースです。
type Doer = httpkit.Doer

// HTTPError は、レスポンスは受信したもののステータスコードが 4xx/5xx だったことを示します。
// それ以外の失敗 (DNS、接続拒否、タイムアウトなど) はこの型になりません。
type HTTPError struct {
	StatusCode int
	Reason     string
	URL        string
}

func (e *HTTPError) Error() string {
	kind := "Client"
	if e.StatusCode >= 500 {
		kind = "Server"
	}
	return fmt.Sprintf("%d %s Error: %s for url: %s", e.StatusCode, kind, e.Reason, e.URL)
}

// IsHTTPError は err が (ラップされたものも含め) *HTTPError であるかを判断します。
func IsHTTPError(err error) bool {
	if err == nil {
		return false
	}
	var httpErr *HTTPError
	return errors.As(err, &httpErr)
}

// Page は、取得してデコード済みのHTMLページです。
type Page struct {
	URL        string // リダイレクト後の最終URL
	StatusCode int
	Encoding   string // 適用した文字エンコーディング名
	Body       string // デコード済みの本文
}

// Client は、タイムアウト付きのGETリクエストと文字コードの解決を行います。
// 送信は httpkit.Client.Do に任せ、リトライ (httpkit.Client.FetchBytes) は使いません。
type Client struct {
	httpClient Doer
	timeout    time.Duration
	userAgent  string
}

// ClientOption はClientの設定を行うための関数型です。
type ClientOption func(*Client)

// WithHTTPClient はカスタムのDoerを設定します。
func WithHTTPClient(doer Doer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithUserAgent は User-Agent ヘッダーを上書きします。空文字列は無視されます。
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// New は、新しいClientを生成します。
// timeout が0以下の場合は DefaultHTTPTimeout が使われます。
// 証明書の検証は標準の *http.Client のまま有効で、リダイレクトも標準どおり追従します。
func New(timeout time.Duration, options ...ClientOption) *Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}

	c := &Client{
		httpClient: httpkit.New(timeout),
		timeout:    timeout,
		userAgent:  UserAgent,
	}

	for _, opt := range options {
		opt(c)
	}
	return c
}

// Timeout は設定されたリクエストタイムアウトを返します。
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// addCommonHeaders は共通のHTTPヘッダーを設定します。
func (c *Client) addCommonHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
}

// FetchPage はURLからHTMLを取得し、宣言された、または推定された文字コードでデコードします。
func (c *Client) FetchPage(ctx context.Context, url string) (*Page, error) {
	resp, body, err := c.doGet(ctx, url)
	if err != nil {
		return nil, err
	}

	text, encoding := DecodeBody(body, resp.Header.Get("Content-Type"))

	return &Page{
		URL:        finalURL(resp, url),
		StatusCode: resp.StatusCode,
		Encoding:   encoding,
		Body:       text,
	}, nil
}

// FetchBytes は URL からコンテンツを取得し、生のバイト配列として返します。
func (c *Client) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	_, body, err := c.doGet(ctx, url)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// doGet は一度のHTTP GETリクエストを実行し、ステータスを検査した上でボディを読み込みます。
func (c *Client) doGet(ctx context.Context, url string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("GETリクエスト作成に失敗しました: %w", err)
	}
	c.addCommonHeaders(req)

	// トランスポートエラーは *url.Error がメソッドとURLを含むため、そのまま返す
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if err := checkResponseStatus(resp, url); err != nil {
		return nil, nil, err
	}

	// 上限を超えたボディは切り詰められるだけで、エラーにはならない
	body, err := httpkit.HandleLimitedResponse(resp, MaxBodySize)
	if err != nil {
		return nil, nil, err
	}
	return resp, body, nil
}

// checkResponseStatus は 4xx/5xx のステータスコードを *HTTPError に変換します。
func checkResponseStatus(resp *http.Response, url string) error {
	if resp.StatusCode < 400 || resp.StatusCode >= 600 {
		return nil
	}

	// 接続を再利用できるよう、ボディは読み捨てる
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxBodySize))

	return &HTTPError{
		StatusCode: resp.StatusCode,
		Reason:     reasonPhrase(resp),
		URL:        finalURL(resp, url),
	}
}

// DecodeBody は、Content-Type で宣言された charset を優先し、
// なければBOMや <meta> タグ、バイト列の内容から推定した文字コードで body をデコードします。
// デコードに失敗した場合は生のバイト列をそのまま文字列として返します。
func DecodeBody(body []byte, contentType string) (text string, encoding string) {
	enc, name, _ := charset.DetermineEncoding(body, contentType)
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return string(body), name
	}
	return string(decoded), name
}

// reasonPhrase は "404 Not Found" のようなステータス行から理由句を取り出します。
func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}

func finalURL(resp *http.Response, fallback string) string {
	if resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL.String()
	}
	return fallback
}
