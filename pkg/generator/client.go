package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
	"github.com/shouni/gemini-studio-kit/pkg/prompts"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// textExcerptLimit は ErrUnexpectedText に含めるテキスト抜粋の最大文字数です。
const textExcerptLimit = 150

// GeminiImageClient は Gemini の画像生成モデルに対して1回の呼び出しを実行し、
// 応答を成果物または型付き失敗へ分類します。
type GeminiImageClient struct {
	aiClient gemini.GenerativeModel
	model    string
}

// NewGeminiImageClient は依存関係を検証して GeminiImageClient を初期化します。
func NewGeminiImageClient(aiClient gemini.GenerativeModel, model string) (*GeminiImageClient, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient (gemini.GenerativeModel) is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	return &GeminiImageClient{aiClient: aiClient, model: model}, nil
}

// Generate はリクエストをコンパイルして送信し、応答の最初のインライン画像を返します。
//
// ctx の取り消しは発送前と応答到着後の両方で確認し、成功応答との競合であっても
// 常に取り消しを優先します。置き換え済みの呼び出しの遅延応答が
// 新しい状態として扱われることはありません。
func (c *GeminiImageClient) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.ImageData, error) {
	if ctx.Err() != nil {
		return nil, ErrCancelled
	}

	parts := prompts.Compile(req)
	opts := gemini.GenerateOptions{
		AspectRatio: req.AspectRatio,
	}

	resp, err := c.aiClient.GenerateWithParts(ctx, c.model, parts, opts)

	// 応答の成否に関わらず、到着時点で取り消し済みなら結果を破棄する
	if ctx.Err() != nil {
		return nil, ErrCancelled
	}
	if err != nil {
		return nil, c.classifyTransportError(err)
	}

	return parseResponse(resp)
}

// classifyTransportError は下層の通信エラーを分類します。
// 403 相当のシグナルは設定不備の案内つきで ErrPermissionDenied に、
// それ以外は元の診断メッセージを保持したまま ErrTransport になります。
func (c *GeminiImageClient) classifyTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return ErrCancelled
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusForbidden {
		return fmt.Errorf("%w (model: %s): %v", ErrPermissionDenied, c.model, err)
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "403") || strings.Contains(msg, "permission denied") {
		return fmt.Errorf("%w (model: %s): %v", ErrPermissionDenied, c.model, err)
	}

	return fmt.Errorf("%w: %v", ErrTransport, err)
}

// parseResponse は応答のコンテンツパーツを順に走査し、最初のインライン画像を返します。
func parseResponse(resp *gemini.Response) (*domain.ImageData, error) {
	if resp == nil || resp.RawResponse == nil || len(resp.RawResponse.Candidates) == 0 {
		return nil, fmt.Errorf("%w: 応答に候補が含まれていません", ErrEmptyResponse)
	}

	candidate := resp.RawResponse.Candidates[0]

	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, ErrSafetyBlocked
	}

	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("%w (FinishReason: %s)", ErrEmptyResponse, candidate.FinishReason)
	}

	for _, part := range candidate.Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			mimeType := part.InlineData.MIMEType
			if mimeType == "" {
				mimeType = domain.DefaultImageMediaType
			}
			return &domain.ImageData{Data: part.InlineData.Data, MimeType: mimeType}, nil
		}
	}

	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			return nil, fmt.Errorf("%w: %q", ErrUnexpectedText, truncateText(part.Text, textExcerptLimit))
		}
	}

	return nil, fmt.Errorf("%w: 応答に画像データが見つかりませんでした", ErrTransport)
}

// truncateText は文字単位で抜粋を切り出します。
func truncateText(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
