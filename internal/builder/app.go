package builder

import (
	"github.com/shouni/gemini-studio-kit/internal/config"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する。
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config     *config.Config          // 環境変数から読み込まれたグローバルな設定（APIキー、モデル名など）
	Options    config.GenerateOptions  // コマンドラインから渡された実行時の設定
	Reader     remoteio.InputReader    // 参照画像などの読み込みに使用する入力元
	Writer     remoteio.OutputWriter   // 生成画像を保存するための出力先
	aiClient   gemini.GenerativeModel  // Geminiの通信に使う共通クライアント
	httpClient httpkit.ClientInterface // 外部リソース取得に使う共通クライアント
}
