package address

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// CommentMarker で始まる行はコメントとして無視されます。
	CommentMarker = "#"

	httpPrefix  = "http://"
	httpsPrefix = "https://"

	// スキームごとの最小長 (スキーム + 最低3文字のホスト部)。バイト数ではなく文字数で数えます。
	minHTTPLength  = 10
	minHTTPSLength = 11
)

// ErrInvalidAddress は、行が有効なURLとして認められなかったことを示します。
var ErrInvalidAddress = errors.New("not a valid url")

// InvalidAddressError は検証に失敗した行を保持します。
type InvalidAddressError struct {
	Line string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("`%s` is not a valid url", e.Line)
}

// Unwrap により errors.Is(err, ErrInvalidAddress) が成立します。
func (e *InvalidAddressError) Unwrap() error {
	return ErrInvalidAddress
}

// Normalize は行末の改行と前後の空白を取り除きます。
func Normalize(line string) string {
	line = strings.TrimRight(line, "\n")
	return strings.TrimSpace(line)
}

// IsSkippable は、空行またはコメント行かどうかを判定します。
// line は Normalize 済みであることを前提とします。
func IsSkippable(line string) bool {
	return line == "" || strings.HasPrefix(line, CommentMarker)
}

// IsValid は、http:// または https:// で始まり、スキームごとの最小長を満たすかを判定します。
func IsValid(line string) bool {
	switch {
	case strings.HasPrefix(line, httpsPrefix):
		return utf8.RuneCountInString(line) >= minHTTPSLength
	case strings.HasPrefix(line, httpPrefix):
		return utf8.RuneCountInString(line) >= minHTTPLength
	default:
		return false
	}
}

// Validate は生の入力行を検証します。
//
// 戻り値:
//   - skip が true の場合、その行は空行かコメントであり、エラーも出力も発生させません。
//   - err が nil でない場合、*InvalidAddressError が返されます。
//   - それ以外の場合、addr は検証済みのURLです。
func Validate(raw string) (addr string, skip bool, err error) {
	line := Normalize(raw)
	if IsSkippable(line) {
		return "", true, nil
	}
	if !IsValid(line) {
		return "", false, &InvalidAddressError{Line: line}
	}
	return line, false, nil
}
