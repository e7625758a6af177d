package types

// ErrorKind は、一行の処理中に発生したエラーの種類です。
type ErrorKind int

const (
	// ErrorNone はエラーが発生しなかったことを示します。
	ErrorNone ErrorKind = iota
	// ErrorValidation はURLとして不正な行です。出力行はありません。
	ErrorValidation
	// ErrorHTTP はステータスコード 4xx/5xx のレスポンスです。空タイトルのリンクを出力します。
	ErrorHTTP
	// ErrorTransport はそれ以外の取得失敗 (DNS、接続、タイムアウトなど) です。
	ErrorTransport
)

// LinkResult は、入力の一行を処理した結果を保持します。
// パイプラインはこれを即座に出力し、保持しません。
type LinkResult struct {
	Line     string    // 入力行 (整形済み)
	URL      string    // 検証済みのURL
	Markdown string    // 出力するMarkdownリンク。出力しない場合は空
	Skipped  bool      // 空行またはコメント行
	Kind     ErrorKind // エラーの種類
	Error    error     // 処理中に発生したエラー
}

// Failed は、この行をエラーとして数えるべきかを返します。
func (r LinkResult) Failed() bool {
	return r.Kind != ErrorNone
}

// HasOutput は、標準出力に書くべき行があるかを返します。
func (r LinkResult) HasOutput() bool {
	return !r.Skipped && r.Kind != ErrorValidation
}
