package cmd

import (
	"fmt"

	"github.com/shouni/gemini-studio-kit/internal/builder"
	"github.com/shouni/gemini-studio-kit/internal/config"

	"github.com/spf13/cobra"
)

// negativeCmd は、ポジティブプロンプトから除外キーワードの提案だけを行うサブコマンドなのだ。
// 提案は生成フローから独立していて、失敗しても固定の既定キーワードが返るのだ。
var negativeCmd = &cobra.Command{
	Use:   "negative",
	Short: "ポジティブプロンプトから除外キーワードを提案するのだ。",
	RunE:  negativeCommand,
}

// negativeCommand は、negative サブコマンドの実行ロジック本体なのだ。
func negativeCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if opts.Prompt == "" {
		return fmt.Errorf("提案の元になるプロンプト（--prompt）を指定してほしいのだ")
	}

	cfg := config.LoadConfig()
	cfg.Options = opts
	cfg.TextModel = opts.TextModel

	appCtx, err := builder.NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	suggester, err := builder.BuildSuggester(appCtx)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), suggester.Suggest(ctx, opts.Prompt))
	return nil
}
