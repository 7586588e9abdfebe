package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func newTestClient(t *testing.T, mock *mockAIClient) *GeminiImageClient {
	t.Helper()
	client, err := NewGeminiImageClient(mock, "test-image-model")
	require.NoError(t, err)
	return client
}

func TestNewGeminiImageClient_Validation(t *testing.T) {
	t.Run("aiClient が nil ならエラーなのだ", func(t *testing.T) {
		_, err := NewGeminiImageClient(nil, "model")
		assert.Error(t, err)
	})

	t.Run("モデル名が空ならエラーなのだ", func(t *testing.T) {
		_, err := NewGeminiImageClient(&mockAIClient{}, "")
		assert.Error(t, err)
	})
}

func TestGenerate_Success(t *testing.T) {
	mock := &mockAIClient{}
	client := newTestClient(t, mock)

	req := domain.GenerationRequest{
		Prompt:      "a red fox in snow",
		AspectRatio: "16:9",
		ReferenceImages: []domain.ReferenceImage{
			{MediaType: "image/jpeg", Data: []byte("ref")},
		},
	}

	out, err := client.Generate(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, []byte("fake"), out.Data)
	assert.Equal(t, "image/png", out.MimeType)

	// 1回の呼び出しにすべてが詰まっていることの確認
	assert.Equal(t, "test-image-model", mock.lastModel)
	assert.Equal(t, "16:9", mock.lastOpts.AspectRatio)
	require.Len(t, mock.lastParts, 2)
	assert.NotNil(t, mock.lastParts[0].InlineData)
	assert.NotEmpty(t, mock.lastParts[1].Text)
}

func TestGenerate_ResponseClassification(t *testing.T) {
	t.Run("安全フィルターでの拒否は ErrSafetyBlocked なのだ", func(t *testing.T) {
		mock := &mockAIClient{
			generateWithPartsFunc: func(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
				return &gemini.Response{
					RawResponse: &genai.GenerateContentResponse{
						Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
					},
				}, nil
			},
		}
		client := newTestClient(t, mock)

		_, err := client.Generate(context.Background(), domain.GenerationRequest{Prompt: "x"})
		assert.ErrorIs(t, err, ErrSafetyBlocked)
	})

	t.Run("候補なしは ErrEmptyResponse なのだ", func(t *testing.T) {
		mock := &mockAIClient{
			generateWithPartsFunc: func(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
				return &gemini.Response{RawResponse: &genai.GenerateContentResponse{}}, nil
			},
		}
		client := newTestClient(t, mock)

		_, err := client.Generate(context.Background(), domain.GenerationRequest{Prompt: "x"})
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("パーツ空の候補は終了理由つきの ErrEmptyResponse なのだ", func(t *testing.T) {
		mock := &mockAIClient{
			generateWithPartsFunc: func(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
				return &gemini.Response{
					RawResponse: &genai.GenerateContentResponse{
						Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonStop}},
					},
				}, nil
			},
		}
		client := newTestClient(t, mock)

		_, err := client.Generate(context.Background(), domain.GenerationRequest{Prompt: "x"})
		require.ErrorIs(t, err, ErrEmptyResponse)
		assert.Contains(t, err.Error(), "FinishReason")
	})

	t.Run("画像の代わりのテキストは抜粋つきの ErrUnexpectedText なのだ", func(t *testing.T) {
		longText := strings.Repeat("a", 200)
		mock := &mockAIClient{
			generateWithPartsFunc: func(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
				return textResponse(longText), nil
			},
		}
		client := newTestClient(t, mock)

		_, err := client.Generate(context.Background(), domain.GenerationRequest{Prompt: "x"})
		require.ErrorIs(t, err, ErrUnexpectedText)
		assert.Contains(t, err.Error(), strings.Repeat("a", textExcerptLimit)+"...")
		assert.NotContains(t, err.Error(), strings.Repeat("a", textExcerptLimit+1))
	})

	t.Run("画像もテキストもない応答は ErrTransport なのだ", func(t *testing.T) {
		mock := &mockAIClient{
			generateWithPartsFunc: func(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
				return &gemini.Response{
					RawResponse: &genai.GenerateContentResponse{
						Candidates: []*genai.Candidate{{
							Content: &genai.Content{Parts: []*genai.Part{{}}},
						}},
					},
				}, nil
			},
		}
		client := newTestClient(t, mock)

		_, err := client.Generate(context.Background(), domain.GenerationRequest{Prompt: "x"})
		assert.ErrorIs(t, err, ErrTransport)
	})
}

func TestGenerate_TransportClassification(t *testing.T) {
	t.Run("403 の APIError は ErrPermissionDenied なのだ", func(t *testing.T) {
		mock := &mockAIClient{
			generateWithPartsFunc: func(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
				return nil, genai.APIError{Code: 403, Message: "The caller does not have permission"}
			},
		}
		client := newTestClient(t, mock)

		_, err := client.Generate(context.Background(), domain.GenerationRequest{Prompt: "x"})
		require.ErrorIs(t, err, ErrPermissionDenied)
		assert.Contains(t, err.Error(), "test-image-model")
	})

	t.Run("文字列に 403 を含むエラーも ErrPermissionDenied なのだ", func(t *testing.T) {
		mock := &mockAIClient{
			generateWithPartsFunc: func(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
				return nil, fmt.Errorf("googleapi: Error 403: access denied")
			},
		}
		client := newTestClient(t, mock)

		_, err := client.Generate(context.Background(), domain.GenerationRequest{Prompt: "x"})
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("その他の通信エラーは診断を保持したまま ErrTransport なのだ", func(t *testing.T) {
		mock := &mockAIClient{
			generateWithPartsFunc: func(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
				return nil, fmt.Errorf("rpc error: unavailable")
			},
		}
		client := newTestClient(t, mock)

		_, err := client.Generate(context.Background(), domain.GenerationRequest{Prompt: "x"})
		require.ErrorIs(t, err, ErrTransport)
		assert.Contains(t, err.Error(), "rpc error: unavailable")
	})
}

func TestGenerate_Cancellation(t *testing.T) {
	t.Run("発送前に取り消し済みなら呼び出しすら行わないのだ", func(t *testing.T) {
		mock := &mockAIClient{}
		client := newTestClient(t, mock)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.Generate(ctx, domain.GenerationRequest{Prompt: "x"})
		assert.ErrorIs(t, err, ErrCancelled)
		assert.False(t, mock.generateCalled)
	})

	t.Run("成功応答との競合でも取り消しが勝つのだ", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		mock := &mockAIClient{
			generateWithPartsFunc: func(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
				// 応答が成立した直後に取り消しが届いたケースを再現する
				cancel()
				return imageResponse("image/png", []byte("late")), nil
			},
		}
		client := newTestClient(t, mock)

		out, err := client.Generate(ctx, domain.GenerationRequest{Prompt: "x"})
		assert.ErrorIs(t, err, ErrCancelled)
		assert.Nil(t, out)
	})

	t.Run("下層の context.Canceled も ErrCancelled に写像されるのだ", func(t *testing.T) {
		mock := &mockAIClient{
			generateWithPartsFunc: func(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
				return nil, fmt.Errorf("call aborted: %w", context.Canceled)
			},
		}
		client := newTestClient(t, mock)

		_, err := client.Generate(context.Background(), domain.GenerationRequest{Prompt: "x"})
		assert.ErrorIs(t, err, ErrCancelled)
	})
}

func TestGenerate_NoRetry(t *testing.T) {
	callCount := 0
	mock := &mockAIClient{
		generateWithPartsFunc: func(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
			callCount++
			return nil, errors.New("temporary failure")
		},
	}
	client := newTestClient(t, mock)

	_, err := client.Generate(context.Background(), domain.GenerationRequest{Prompt: "x"})
	require.Error(t, err)
	assert.Equal(t, 1, callCount, "失敗は最終的なものであり、再試行しないのだ")
}
