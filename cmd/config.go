package cmd

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shouni/url2md/internal/pipeline"
	"github.com/shouni/url2md/pkg/extract"
	"github.com/shouni/url2md/pkg/httpclient"
)

// --- フラグと環境変数 ---

const (
	envPrefix = "URL2MD"

	flagTimeout   = "timeout"
	flagDelay     = "delay"
	flagUserAgent = "user-agent"
	flagTitleMode = "title-mode"
	flagFeed      = "feed"
	// flagVerbose と flagConfig は clibase が永続フラグとして定義します。
	flagVerbose = "verbose"
	flagConfig  = "config"
)

// AppFlags はこのアプリケーション固有のフラグを保持します。
// 値はフラグ、環境変数 (URL2MD_*)、デフォルト値の順に解決されます。設定ファイルは読みません。
type AppFlags struct {
	Timeout   time.Duration // --timeout HTTPリクエストのタイムアウト
	Delay     time.Duration // --delay 取得成功後の待ち時間
	UserAgent string        // --user-agent
	TitleMode string        // --title-mode regex|dom
	FeedURL   string        // --feed 追加の入力元となるフィードURL
	Verbose   bool          // --verbose, -V 詳細ログ (clibase の共通フラグ)
}

// addAppFlags は、フラグをコマンドに追加し、clibase の --verbose と合わせて viper に束縛します。
// clibase.NewRootCmd の addFlags コールバックから呼ばれるため、共通フラグは定義済みです。
func addAppFlags(cmd *cobra.Command, v *viper.Viper) error {
	flags := cmd.Flags()
	flags.Duration(flagTimeout, httpclient.DefaultHTTPTimeout, "HTTPリクエストのタイムアウト時間")
	flags.Duration(flagDelay, pipeline.DefaultDelay, "取得に成功した後、次のURLまでの待ち時間")
	flags.String(flagUserAgent, httpclient.UserAgent, "User-Agent ヘッダー")
	flags.String(flagTitleMode, string(extract.ModeRegex), "タイトルの抽出方法 (regex または dom)")
	flags.String(flagFeed, "", "RSS/Atomフィードの記事リンクも入力として処理する")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return err
	}
	return v.BindPFlag(flagVerbose, cmd.PersistentFlags().Lookup(flagVerbose))
}

// loadAppFlags は viper から解決済みの値を読み出します。
func loadAppFlags(v *viper.Viper) AppFlags {
	return AppFlags{
		Timeout:   v.GetDuration(flagTimeout),
		Delay:     v.GetDuration(flagDelay),
		UserAgent: v.GetString(flagUserAgent),
		TitleMode: v.GetString(flagTitleMode),
		FeedURL:   v.GetString(flagFeed),
		Verbose:   v.GetBool(flagVerbose),
	}
}
