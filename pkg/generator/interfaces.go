package generator

import (
	"context"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
)

// ImageClient は1回の画像生成呼び出しを抽象化するインターフェースです。
// Session オーケストレーターはこの窓口だけを利用します。
type ImageClient interface {
	// Generate はコンパイル済みリクエストを送信し、最初のインライン画像を返します。
	// 失敗は errors.go の分類のいずれかにラップされます。
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.ImageData, error)
}
