package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/shouni/url2md/cmd"
)

// main は終了コードとして、エラーが発生したURLの数を返します。
func main() {
	// Ctrl+C で実行中のリクエストを中断し、残りの行は処理しない
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cmd.Execute(ctx)
	cancel()
	os.Exit(code)
}
