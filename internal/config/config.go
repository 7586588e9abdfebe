package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultImageModel      = "gemini-2.5-flash-image"
	DefaultTextModel       = "gemini-2.0-flash"
	DefaultHTTPTimeout     = 30 * time.Second
	DefaultAspectRatio     = "9:16"
	DefaultOutputImageDir  = "output/images" // 生成画像のデフォルト保存先（ローカル or gs://...）
	DefaultCacheTTL        = 1 * time.Hour
	DefaultSuggestInterval = 2 * time.Second // ネガティブプロンプト提案の最小呼び出し間隔
)

// Config はアプリケーション全体の環境設定（APIキーやモデル名）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey string
	ImageModel   string
	TextModel    string

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	return &Config{
		GeminiAPIKey: envutil.GetEnv("GEMINI_API_KEY", ""),
		ImageModel:   envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultImageModel),
		TextModel:    envutil.GetEnv("GEMINI_MODEL", DefaultTextModel),
	}
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// 生成リクエスト関連
	Prompt           string   // --prompt
	NegativePrompt   string   // --negative
	SuggestNegative  bool     // --suggest-negative: 空のときAIに除外キーワードを提案させる
	Style            string   // --style
	ReferenceSources []string // --ref: 参照画像（パス / URL / gs:// / data URI）最大5つ
	ReferenceSubject string   // --subject
	AspectRatio      string   // --aspect-ratio

	// 生成結果の出力設定
	OutputImageDir string // --output-image-dir

	// AIモデル・挙動設定
	ImageModel  string        // --image-model
	TextModel   string        // --model
	HTTPTimeout time.Duration // --http-timeout
}
