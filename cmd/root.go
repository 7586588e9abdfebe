package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/shouni/gemini-studio-kit/internal/config"
	"github.com/shouni/gemini-studio-kit/pkg/domain"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
)

// opts は全コマンドで共有する実行時パラメータなのだ。
var opts config.GenerateOptions

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- 生成リクエスト関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.Prompt, "prompt", "p", "", "生成したいシーンの説明（ポジティブプロンプト）なのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.NegativePrompt, "negative", "n", "", "除外したい要素（ネガティブプロンプト）なのだ。")
	rootCmd.PersistentFlags().BoolVar(&opts.SuggestNegative, "suggest-negative", false, "ネガティブプロンプトが空のとき、AIに除外キーワードを提案させるのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.Style, "style", string(domain.StyleNone), "追加のスタイルタグ（Cinematic, Anime など）なのだ。")
	rootCmd.PersistentFlags().StringArrayVarP(&opts.ReferenceSources, "ref", "r", nil, "参照画像のソース（パス / URL / gs:// / data URI、最大5つ）なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.ReferenceSubject, "subject", "", "参照画像の主題（キャラクター名など）なのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.AspectRatio, "aspect-ratio", "a", config.DefaultAspectRatio,
		fmt.Sprintf("アスペクト比（%s）なのだ。", strings.Join(domain.AspectRatios, ", ")))

	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputImageDir, "output-image-dir", "o", config.DefaultOutputImageDir, "生成された画像を保存するディレクトリ（ローカル or gs://...）なのだ。")

	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().StringVar(&opts.ImageModel, "image-model", config.DefaultImageModel, "画像生成に使用する Gemini モデル名なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.TextModel, "model", config.DefaultTextModel, "提案生成に使用する Gemini モデル名なのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "Webリクエストのタイムアウトなのだ。")
}

// preRunAppE は、コマンド実行前に環境変数などの必須チェックを行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	// Gemini APIを利用するため、APIキーの存在チェックは欠かせないのだ！
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須なのだ")
	}
	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	clibase.Execute(
		"image-studio",
		addAppFlags,
		preRunAppE,
		generateCmd,
		negativeCmd,
	)
}
