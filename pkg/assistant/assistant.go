package assistant

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"golang.org/x/time/rate"
)

//go:embed instruction.md
var instructionTemplate string

const (
	promptPlaceholder  = "{{POSITIVE_PROMPT}}"
	cacheKeySuggestion = "negative:"

	// FallbackKeywords は呼び出しが失敗した場合に返す固定の除外キーワードです。
	FallbackKeywords = "low quality, blurry, deformed, artifacts"

	// fallbackEmptyOutput はモデルが使えるテキストを返さなかった場合の既定値です。
	fallbackEmptyOutput = "blurry, low quality, distorted"
)

// SuggestionCacher は提案結果のキャッシュ操作を抽象化するインターフェースです。
type SuggestionCacher interface {
	Get(key string) (any, bool)
	Set(key string, value any, d time.Duration)
}

// Suggester はポジティブプロンプトから除外キーワードの候補を導出します。
//
// 失敗を呼び出し元へ伝播させることはなく、結果は常に「提案テキスト」か
// 「固定の既定値」のいずれかです。診断情報はログにのみ残します。
// メインの生成フローとは独立しており、生成中でも並行して呼び出せます。
type Suggester struct {
	aiClient gemini.GenerativeModel
	model    string
	cache    SuggestionCacher
	cacheTTL time.Duration
	limiter  *rate.Limiter
}

// NewSuggester は依存関係を検証して Suggester を初期化します。
// interval は連続呼び出しの最小間隔です（入力のたびに叩かれても詰まらないように）。
func NewSuggester(aiClient gemini.GenerativeModel, model string, cache SuggestionCacher, cacheTTL time.Duration, interval time.Duration) (*Suggester, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient (gemini.GenerativeModel) is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	// cache は nil を許容（キャッシュなし動作）

	return &Suggester{
		aiClient: aiClient,
		model:    model,
		cache:    cache,
		cacheTTL: cacheTTL,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
	}, nil
}

// Suggest は除外キーワードの提案テキストを返します。
// 空入力では通信せずに空文字を返します。エラーは決して返しません。
func (s *Suggester) Suggest(ctx context.Context, positivePrompt string) string {
	positive := strings.TrimSpace(positivePrompt)
	if positive == "" {
		return ""
	}

	if s.cache != nil {
		if val, ok := s.cache.Get(cacheKeySuggestion + positive); ok {
			if text, ok := val.(string); ok {
				return text
			}
		}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		slog.WarnContext(ctx, "ネガティブプロンプト提案の待機が中断されました", "error", err)
		return FallbackKeywords
	}

	instruction := strings.ReplaceAll(instructionTemplate, promptPlaceholder, positive)

	resp, err := s.aiClient.GenerateContent(ctx, s.model, instruction)
	if err != nil {
		slog.ErrorContext(ctx, "ネガティブプロンプトの生成に失敗しました", "error", err)
		return FallbackKeywords
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return fallbackEmptyOutput
	}

	if s.cache != nil {
		s.cache.Set(cacheKeySuggestion+positive, text, s.cacheTTL)
	}
	return text
}

// extractText は応答から最初のテキストパーツを取り出します。
func extractText(resp *gemini.Response) string {
	if resp == nil || resp.RawResponse == nil {
		return ""
	}
	for _, candidate := range resp.RawResponse.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				return part.Text
			}
		}
	}
	return ""
}
