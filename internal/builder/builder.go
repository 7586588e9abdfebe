package builder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/gemini-studio-kit/internal/config"
	"github.com/shouni/gemini-studio-kit/internal/runner"
	"github.com/shouni/gemini-studio-kit/pkg/assistant"
	"github.com/shouni/gemini-studio-kit/pkg/codec"
	"github.com/shouni/gemini-studio-kit/pkg/generator"
	"github.com/shouni/gemini-studio-kit/pkg/session"

	"github.com/patrickmn/go-cache"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"google.golang.org/genai"
)

// NewAppContext は共有クライアント類を初期化して AppContext を構築するのだ。
func NewAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	httpClient := httpkit.New(cfg.Options.HTTPTimeout)

	aiClient, err := InitializeAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}

	gcsFactory, err := gcsfactory.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("GCSクライアントファクトリの初期化に失敗しました: %w", err)
	}

	reader, err := gcsFactory.InputReader()
	if err != nil {
		return nil, err
	}
	writer, err := gcsFactory.OutputWriter()
	if err != nil {
		slog.WarnContext(ctx, "OutputWriterの取得に失敗しました。保存機能が制限される可能性があります", "error", err)
	}

	return &AppContext{
		Config:     cfg,
		Options:    cfg.Options,
		Reader:     reader,
		Writer:     writer,
		aiClient:   aiClient,
		httpClient: httpClient,
	}, nil
}

// InitializeAIClient は gemini クライアントを初期化します。
func InitializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	const defaultGeminiTemperature = float32(0.2)
	clientConfig := gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultGeminiTemperature),
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}

// BuildStudioRunner は生成フロー一式（コーデック、クライアント、セッション、アシスタント）を
// 組み立てて StudioRunner を返すのだ。
func BuildStudioRunner(appCtx *AppContext) (*runner.StudioRunner, error) {
	opts := appCtx.Options

	refCache := cache.New(30*time.Minute, 1*time.Hour)
	decoder, err := codec.NewDecoder(appCtx.httpClient, appCtx.Reader, refCache, config.DefaultCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("Decoderの初期化に失敗しました: %w", err)
	}

	client, err := generator.NewGeminiImageClient(appCtx.aiClient, opts.ImageModel)
	if err != nil {
		return nil, fmt.Errorf("GeminiImageClientの初期化に失敗しました: %w", err)
	}

	sess, err := session.NewSession(client)
	if err != nil {
		return nil, fmt.Errorf("Sessionの初期化に失敗しました: %w", err)
	}

	suggester, err := BuildSuggester(appCtx)
	if err != nil {
		return nil, err
	}

	return runner.NewStudioRunner(sess, decoder, suggester, appCtx.Writer, opts)
}

// BuildSuggester はネガティブプロンプト提案アシスタントを構築するのだ。
func BuildSuggester(appCtx *AppContext) (*assistant.Suggester, error) {
	suggestionCache := cache.New(30*time.Minute, 1*time.Hour)
	suggester, err := assistant.NewSuggester(
		appCtx.aiClient,
		appCtx.Options.TextModel,
		suggestionCache,
		config.DefaultCacheTTL,
		config.DefaultSuggestInterval,
	)
	if err != nil {
		return nil, fmt.Errorf("Suggesterの初期化に失敗しました: %w", err)
	}
	return suggester, nil
}
