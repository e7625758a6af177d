package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/shouni/url2md/internal/logging"
	"github.com/shouni/url2md/internal/pipeline"
	"github.com/shouni/url2md/pkg/extract"
	"github.com/shouni/url2md/pkg/feed"
	"github.com/shouni/url2md/pkg/httpclient"
	"github.com/shouni/url2md/pkg/input"
)

// --- グローバル定数 ---

const (
	appName = "url2md"

	// usageExitCode は引数なしで起動された場合の終了コードです。
	usageExitCode = 1
	// maxExitCode を超えるエラー数はこの値に丸めます (256 で 0 に戻らないように)。
	maxExitCode = 255
)

// app はコマンド一回の実行に必要な状態を保持します。
type app struct {
	v        *viper.Viper
	flags    AppFlags
	logger   *zap.Logger
	exitCode int
}

// newRootCmd は、clibase の共通ルートコマンドを土台に url2md のルートコマンドを生成します。
// 終了コードをエラー数と一致させるため、clibase.Execute ではなく呼び出し側で実行します。
func newRootCmd(a *app) (*cobra.Command, error) {
	var flagErr error
	cmd := clibase.NewRootCmd(appName, func(root *cobra.Command) {
		flagErr = addAppFlags(root, a.v)
	}, a.preRun)
	if flagErr != nil {
		return nil, fmt.Errorf("フラグの初期化に失敗しました: %w", flagErr)
	}

	// 設定ファイルは読まないため --config は隠す
	if err := cmd.PersistentFlags().MarkHidden(flagConfig); err != nil {
		return nil, fmt.Errorf("フラグの初期化に失敗しました: %w", err)
	}

	cmd.Use = appName + " url1 [url2] [...] | " + appName + " FILE"
	cmd.Short = "URLのリストを、ページタイトル付きのMarkdownリンクに変換します"
	cmd.Long = `引数で指定されたURL、または一行に一つのURLを記述したファイルを読み込み、
各ページの <title> をリンクテキストとした [タイトル](URL) 形式のMarkdownリンクを標準出力に書き出します。
ファイル内の空行と # で始まる行は無視されます。エラーは標準エラー出力に表示され、
終了コードはエラーが発生したURLの数になります。`
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.Run = nil
	cmd.RunE = a.runE

	return cmd, nil
}

// preRun は clibase の PersistentPreRunE から呼ばれ、設定とロガーを準備します。
func (a *app) preRun(cmd *cobra.Command, args []string) error {
	a.flags = loadAppFlags(a.v)
	a.logger = logging.New(a.flags.Verbose, cmd.ErrOrStderr())

	a.logger.Debug("設定を読み込みました",
		zap.Duration("timeout", a.flags.Timeout),
		zap.Duration("delay", a.flags.Delay),
		zap.String("titleMode", a.flags.TitleMode),
		zap.String("feed", a.flags.FeedURL),
	)
	return nil
}

func (a *app) runE(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && a.flags.FeedURL == "" {
		printUsage(cmd.OutOrStdout())
		a.exitCode = usageExitCode
		return nil
	}

	errorsCount, err := a.run(cmd.Context(), args, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.exitCode = clampExitCode(errorsCount)
	return nil
}

// run は依存関係を組み立て、すべてのURLを処理してエラー数を返します。
func (a *app) run(ctx context.Context, args []string, stdout, stderr io.Writer) (int, error) {
	// 1. 依存性の初期化
	mode, err := extract.ParseMode(a.flags.TitleMode)
	if err != nil {
		return 0, err
	}

	client := httpclient.New(a.flags.Timeout, httpclient.WithUserAgent(a.flags.UserAgent))
	extractor, err := extract.NewExtractor(client, extract.WithMode(mode))
	if err != nil {
		return 0, fmt.Errorf("Extractorの初期化エラー: %w", err)
	}

	a.logger.Debug("依存関係を初期化しました",
		zap.Duration("timeout", client.Timeout()),
		zap.String("titleMode", string(extractor.Mode())),
	)

	runner, err := pipeline.New(extractor, stdout, stderr,
		pipeline.WithDelay(a.flags.Delay),
		pipeline.WithLogger(a.logger),
	)
	if err != nil {
		return 0, fmt.Errorf("パイプラインの初期化エラー: %w", err)
	}

	// 2. 処理対象の行を決定
	var lines []string
	if len(args) > 0 {
		resolved, fromFile, err := input.Resolve(args)
		if err != nil {
			return 0, err
		}
		a.logger.Debug("入力を解決しました", zap.Bool("fromFile", fromFile), zap.Int("lines", len(resolved)))
		lines = resolved
	}

	errorsCount := 0
	if a.flags.FeedURL != "" {
		links, err := feed.NewParser(client).FetchLinks(ctx, a.flags.FeedURL)
		if err != nil {
			fmt.Fprintf(stderr, "error: feed error with url `%s`: `%v`\n", a.flags.FeedURL, err)
			errorsCount++
		} else {
			a.logger.Debug("フィードからリンクを取得しました", zap.Int("links", len(links)))
			lines = append(lines, links...)
		}
	}

	// 3. メインロジックの実行
	errorsCount += runner.Run(ctx, lines)
	return errorsCount, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage:")
	fmt.Fprintf(w, "%s url1 [url2] [url3] [...]\n", appName)
	fmt.Fprintf(w, "%s FILE\n", appName)
	fmt.Fprintln(w, "")
}

func clampExitCode(errorsCount int) int {
	if errorsCount > maxExitCode {
		return maxExitCode
	}
	return errorsCount
}

// --- エントリポイント ---

// Execute は、ルートコマンドを実行し、プロセスの終了コードを返します。
func Execute(ctx context.Context) int {
	return execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{
		v:      viper.New(),
		logger: zap.NewNop(),
	}

	rootCmd, err := newRootCmd(a)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return usageExitCode
	}
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return usageExitCode
	}
	_ = a.logger.Sync()

	return a.exitCode
}
