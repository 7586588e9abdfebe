package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/gemini-studio-kit/internal/builder"
	"github.com/shouni/gemini-studio-kit/internal/config"

	"github.com/spf13/cobra"
)

// generateCmd は、プロンプトと参照画像から1枚の画像を生成するサブコマンドなのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "プロンプトから画像を生成して保存するのだ。",
	Long: `ポジティブプロンプト、ネガティブプロンプト、参照画像（最大5つ）、アスペクト比を
組み合わせて Gemini の画像生成モデルに1回のリクエストを送り、結果を保存するのだ。
参照画像を付けると、その画風とキャラクター特徴を厳密に引き継ぐモードになるのだ。`,
	RunE: generateCommand,
}

// generateCommand は、generate サブコマンドの実行ロジック本体なのだ。
func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if opts.Prompt == "" {
		return fmt.Errorf("生成したいシーンの説明（--prompt）を指定してほしいのだ")
	}

	// 1. 環境変数から基本設定をロード
	cfg := config.LoadConfig()

	// 2. コマンドライン引数の値を反映
	cfg.Options = opts
	cfg.ImageModel = opts.ImageModel
	cfg.TextModel = opts.TextModel

	slog.Info("画像生成を開始するのだ！",
		"prompt", opts.Prompt,
		"aspect_ratio", opts.AspectRatio,
		"ref_count", len(opts.ReferenceSources),
		"image_model", cfg.ImageModel)

	// 3. 依存関係の組み立てと実行
	appCtx, err := builder.NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	studio, err := builder.BuildStudioRunner(appCtx)
	if err != nil {
		return err
	}

	return studio.Run(ctx)
}
