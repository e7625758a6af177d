package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/shouni/url2md/pkg/address"
	"github.com/shouni/url2md/pkg/httpclient"
	"github.com/shouni/url2md/pkg/markdown"
	"github.com/shouni/url2md/pkg/types"
)

// DefaultDelay は、ボットと見なされないよう、取得に成功するたびに挟む待ち時間です。
const DefaultDelay = 500 * time.Millisecond

// TitleFetcher は、URLからタイトルを取得する機能です。*extract.Extractor がこれを満たします。
type TitleFetcher interface {
	FetchTitle(ctx context.Context, url string) (title string, found bool, err error)
}

// Runner は入力行を一行ずつ順番に処理し、結果を即座に出力します。
// 並列処理は行いません。
type Runner struct {
	titles TitleFetcher
	stdout io.Writer
	stderr io.Writer
	delay  time.Duration
	sleep  func(ctx context.Context, d time.Duration) error
	logger *zap.Logger
}

// Option は Runner の設定を行う関数型です。
type Option func(*Runner)

// WithDelay は成功後の待ち時間を設定します。0以下で待機しません。
func WithDelay(d time.Duration) Option {
	return func(r *Runner) {
		r.delay = d
	}
}

// WithSleep は待機処理を差し替えます。
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(r *Runner) {
		if sleep != nil {
			r.sleep = sleep
		}
	}
}

// WithLogger は詳細ログの出力先を設定します。
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New は Runner を初期化します。
func New(titles TitleFetcher, stdout, stderr io.Writer, options ...Option) (*Runner, error) {
	if titles == nil {
		return nil, errors.New("pipeline.New: TitleFetcher cannot be nil")
	}
	if stdout == nil || stderr == nil {
		return nil, errors.New("pipeline.New: output writers cannot be nil")
	}

	r := &Runner{
		titles: titles,
		stdout: stdout,
		stderr: stderr,
		delay:  DefaultDelay,
		sleep:  sleepContext,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		opt(r)
	}
	return r, nil
}

// Run はすべての行を処理し、エラーが発生した行の数を返します。
// 個々の行のエラーで処理を中断することはありません。ctx がキャンセルされた場合のみ、
// 残りの行を処理せずに戻ります。
func (r *Runner) Run(ctx context.Context, lines []string) int {
	errorsCount := 0
	processed := 0

	for _, line := range lines {
		if ctx.Err() != nil {
			r.logger.Warn("処理を中断しました", zap.Error(ctx.Err()), zap.Int("remaining", len(lines)-processed))
			break
		}
		processed++

		result := r.Process(ctx, line)
		if result.Skipped {
			continue
		}

		if result.Failed() {
			errorsCount++
			r.writeLine(r.stderr, diagnostic(result))
		}
		if result.HasOutput() {
			r.writeLine(r.stdout, result.Markdown)
		}

		r.logger.Debug("処理完了",
			zap.String("line", result.Line),
			zap.String("url", result.URL),
			zap.Int("kind", int(result.Kind)),
			zap.NamedError("cause", result.Error),
		)

		if result.Failed() {
			// エラー時は待機せず次の行へ
			continue
		}

		if err := r.sleep(ctx, r.delay); err != nil {
			r.logger.Debug("待機を中断しました", zap.Error(err))
		}
	}

	r.logger.Info("すべての処理が完了しました", zap.Int("lines", len(lines)), zap.Int("errors", errorsCount))
	return errorsCount
}

// Process は一行を 検証 → 取得 → タイトル抽出 → エスケープ → 整形 の順に処理します。
// 出力は行いません。
func (r *Runner) Process(ctx context.Context, line string) types.LinkResult {
	addr, skip, err := address.Validate(line)
	if skip {
		return types.LinkResult{Line: address.Normalize(line), Skipped: true}
	}
	if err != nil {
		return types.LinkResult{
			Line:  address.Normalize(line),
			Kind:  types.ErrorValidation,
			Error: err,
		}
	}

	result := types.LinkResult{Line: addr, URL: addr}

	title, found, err := r.titles.FetchTitle(ctx, addr)
	if err != nil {
		result.Kind = types.ErrorTransport
		if httpclient.IsHTTPError(err) {
			result.Kind = types.ErrorHTTP
		}
		result.Error = err
		result.Markdown = markdown.DegradedLink(addr)
		return result
	}

	// タイトルが見つからなかった場合はURLがそのまま入っており、エスケープしない
	if found {
		title = markdown.Escape(title)
	}
	result.Markdown = markdown.Link(title, addr)
	return result
}

// diagnostic は標準エラー出力に書く一行を生成します。
func diagnostic(result types.LinkResult) string {
	switch result.Kind {
	case types.ErrorValidation:
		return "error: " + result.Error.Error()
	case types.ErrorHTTP:
		return fmt.Sprintf("error: http error with url `%s`: `%v`", result.URL, result.Error)
	default:
		return fmt.Sprintf("error: exception with url `%s`: `%v`", result.URL, result.Error)
	}
}

type flusher interface {
	Flush() error
}

// writeLine は一行を書き込み、可能であれば即座にフラッシュします。
func (r *Runner) writeLine(w io.Writer, line string) {
	if _, err := fmt.Fprintln(w, line); err != nil {
		r.logger.Error("出力に失敗しました", zap.Error(err))
		return
	}
	if f, ok := w.(flusher); ok {
		if err := f.Flush(); err != nil {
			r.logger.Error("フラッシュに失敗しました", zap.Error(err))
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
