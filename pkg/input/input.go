package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNoArguments は、処理対象が一つも指定されていないことを示します。
var ErrNoArguments = errors.New("URLまたはファイル名が指定されていません")

// IsFile は、path が既存の通常ファイルを指しているかを判定します。
// ディレクトリや存在しないパスは false になります。
func IsFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Resolve は、位置引数から処理対象の行リストを決定します。
// 最初の引数が既存のファイルであればその全行を、そうでなければ引数そのものを返します。
// 空行やコメント行はここでは除外せず、後段の検証に任せます。
func Resolve(args []string) (lines []string, fromFile bool, err error) {
	if len(args) == 0 {
		return nil, false, ErrNoArguments
	}

	if IsFile(args[0]) {
		lines, err := ReadFile(args[0])
		if err != nil {
			return nil, true, err
		}
		return lines, true, nil
	}

	lines = make([]string, len(args))
	copy(lines, args)
	return lines, false, nil
}

// ReadFile はファイルを開き、すべての行を返します。
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ファイルのオープンに失敗しました (%s): %w", path, err)
	}
	defer f.Close()

	lines, err := ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("ファイルの読み込みに失敗しました (%s): %w", path, err)
	}
	return lines, nil
}

// ReadLines は r から一行ずつ読み込みます。行末の \n と \r\n は含まれません。
// 行の長さに上限はありません。
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			lines = append(lines, strings.TrimSuffix(line, "\r"))
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
