package runner

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/gemini-studio-kit/internal/config"
	"github.com/shouni/gemini-studio-kit/pkg/assistant"
	"github.com/shouni/gemini-studio-kit/pkg/codec"
	"github.com/shouni/gemini-studio-kit/pkg/domain"
	"github.com/shouni/gemini-studio-kit/pkg/session"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// StudioRunner は CLI からの1回の生成フロー（参照画像の準備、セッションへの投入、
// 完了待ち、成果物の保存）を実行するのだ。
type StudioRunner struct {
	session   *session.Session
	decoder   *codec.Decoder
	suggester *assistant.Suggester
	writer    remoteio.OutputWriter
	options   config.GenerateOptions
}

// NewStudioRunner は StudioRunner を初期化するのだ。
func NewStudioRunner(
	sess *session.Session,
	decoder *codec.Decoder,
	suggester *assistant.Suggester,
	writer remoteio.OutputWriter,
	options config.GenerateOptions,
) (*StudioRunner, error) {
	if sess == nil {
		return nil, fmt.Errorf("session is required")
	}
	if decoder == nil {
		return nil, fmt.Errorf("decoder is required")
	}
	if suggester == nil {
		return nil, fmt.Errorf("suggester is required")
	}
	// writer は nil を許容（保存なしで実行結果のみ表示）

	return &StudioRunner{
		session:   sess,
		decoder:   decoder,
		suggester: suggester,
		writer:    writer,
		options:   options,
	}, nil
}

// Run は生成リクエストを組み立ててセッションに投入し、完了まで待機するのだ。
func (r *StudioRunner) Run(ctx context.Context) error {
	opts := r.options

	negative := opts.NegativePrompt
	if opts.SuggestNegative && negative == "" {
		negative = r.suggester.Suggest(ctx, opts.Prompt)
		slog.Info("ネガティブプロンプトの提案を適用するのだ", "negative", negative)
	}

	refs := r.decoder.EncodeBatch(ctx, opts.ReferenceSources)
	if len(opts.ReferenceSources) > 0 {
		slog.Info("参照画像を準備したのだ", "requested", len(opts.ReferenceSources), "encoded", len(refs))
	}

	req := domain.GenerationRequest{
		Prompt:           opts.Prompt,
		NegativePrompt:   negative,
		Style:            domain.StylePreset(opts.Style),
		ReferenceImages:  refs,
		ReferenceSubject: opts.ReferenceSubject,
		AspectRatio:      opts.AspectRatio,
	}

	if err := r.session.Submit(ctx, req); err != nil {
		return err
	}

	snap := r.session.Wait(ctx)
	switch snap.Status {
	case session.StatusSucceeded:
		if snap.Selected == nil {
			return fmt.Errorf("生成は成功しましたが成果物が見つかりませんでした")
		}
		return r.save(ctx, *snap.Selected)

	case session.StatusCancelled:
		// キャンセルはエラーではないため、静かに終了する
		slog.Info("画像生成はキャンセルされたのだ")
		return nil

	case session.StatusFailed:
		return fmt.Errorf("画像生成に失敗しました: %s", snap.Message)

	default:
		return fmt.Errorf("生成が完了しませんでした (status: %s)", snap.Status)
	}
}

// RunSuggest はネガティブプロンプトの提案のみを実行して返すのだ。
// アシスタントは失敗しても固定の既定値を返すため、エラーにはならない。
func (r *StudioRunner) RunSuggest(ctx context.Context) string {
	return r.suggester.Suggest(ctx, r.options.Prompt)
}

// save は成果物を <prefix>-<id>.png の名前で保存先へ書き込むのだ。
func (r *StudioRunner) save(ctx context.Context, img domain.GeneratedImage) error {
	if r.writer == nil {
		slog.Warn("OutputWriterが無いため保存をスキップします", "id", img.ID)
		return nil
	}

	ref, err := domain.ParseDataURI(img.URL)
	if err != nil {
		return fmt.Errorf("成果物のデコードに失敗しました: %w", err)
	}

	outputPath := joinPath(r.options.OutputImageDir, img.FileName())
	if err := r.writer.Write(ctx, outputPath, bytes.NewReader(ref.Data), ref.MediaType); err != nil {
		return fmt.Errorf("生成画像の保存に失敗しました (path: %s): %w", outputPath, err)
	}

	slog.Info("生成画像を保存したのだ！", "path", outputPath, "prompt", img.Prompt)
	return nil
}

// joinPath は gs:// スキームを壊さないように出力パスを連結する。
func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return strings.TrimRight(dir, "/") + "/" + name
}
