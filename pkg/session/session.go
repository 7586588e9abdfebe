package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
	"github.com/shouni/gemini-studio-kit/pkg/generator"
)

// Status は現在の生成セッションの状態です。
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Snapshot はプレゼンテーション層へ公開する読み取り専用の状態です。
type Snapshot struct {
	Status   Status
	Message  string // failed のときのみユーザー向けメッセージが入る
	History  []domain.GeneratedImage
	Selected *domain.GeneratedImage
}

// token は実行中の生成呼び出しの同一性を表します。
// 完了した呼び出しの結果は、トークンが現在のものと一致する場合にのみ
// セッション状態へ反映されます。置き換え済み・取り消し済みの呼び出しから
// 遅れて届いた結果は破棄されます。
type token struct {
	id     uint64
	cancel context.CancelFunc
	done   chan struct{}
}

// Session は「現在の生成」のライフサイクルと結果履歴を所有するオーケストレーターです。
//
// 同時に実行される生成は常に1つです。実行中に新しい Submit が来た場合は、
// 先行する呼び出しを取り消してから新しい呼び出しへ切り替えます（後勝ち）。
// 履歴への書き込みはこの Session だけが行います。
type Session struct {
	client generator.ImageClient
	now    func() time.Time
	notify func(Snapshot)

	mu      sync.Mutex
	status  Status
	message string
	history History
	active  *token
	seq     uint64
}

// Option は Session の任意設定です。
type Option func(*Session)

// WithClock は生成時刻の取得関数を差し替えます（テスト用）。
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithNotify は状態変化のたびに呼ばれるコールバックを設定します。
// プレゼンテーション層はこれで描画を更新します。
func WithNotify(fn func(Snapshot)) Option {
	return func(s *Session) { s.notify = fn }
}

// NewSession は依存関係を検証して Session を初期化します。
func NewSession(client generator.ImageClient, opts ...Option) (*Session, error) {
	if client == nil {
		return nil, fmt.Errorf("client (generator.ImageClient) is required")
	}
	s := &Session{
		client: client,
		now:    time.Now,
		status: StatusIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Submit は新しい生成を開始します。
//
// プロンプトが空の場合は domain.ErrEmptyPrompt を返し、生成は開始されません。
// 先行する呼び出しが実行中の場合は先に取り消され、その呼び出しの結果が
// 以後に届いても履歴へ反映されることはありません。
func (s *Session) Submit(ctx context.Context, req domain.GenerationRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.active != nil {
		// 実行中の呼び出しを取り消してから新しい呼び出しへ切り替える
		s.active.cancel()
	}
	genCtx, cancel := context.WithCancel(ctx)
	s.seq++
	tok := &token{id: s.seq, cancel: cancel, done: make(chan struct{})}
	s.active = tok
	s.status = StatusRunning
	s.message = ""
	s.mu.Unlock()
	s.emit()

	go s.run(genCtx, tok, req)
	return nil
}

// run は1回の生成呼び出しを実行し、トークンが一致する場合のみ結果を反映します。
func (s *Session) run(ctx context.Context, tok *token, req domain.GenerationRequest) {
	defer close(tok.done)
	defer tok.cancel()

	out, err := s.client.Generate(ctx, req)

	s.mu.Lock()
	if s.active != tok {
		// 取り消し済みまたは置き換え済みの呼び出しの結果は破棄する
		s.mu.Unlock()
		return
	}
	s.active = nil

	switch {
	case err == nil:
		img := domain.GeneratedImage{
			ID:        fmt.Sprintf("img-%06d", tok.id),
			URL:       domain.AsDataURI(out.MimeType, out.Data),
			Prompt:    req.Prompt,
			CreatedAt: s.now(),
		}
		s.history.Prepend(img)
		s.status = StatusSucceeded
		slog.Info("画像生成に成功しました", "id", img.ID)

	case errors.Is(err, generator.ErrCancelled):
		// キャンセルはユーザーから見てエラーではないため、メッセージは残さない
		s.status = StatusCancelled

	default:
		s.status = StatusFailed
		s.message = err.Error()
		slog.Error("画像生成に失敗しました", "error", err)
	}
	s.mu.Unlock()
	s.emit()
}

// Cancel は実行中の生成を停止します。実行中でなければ何もしません。
// キャンセルは同期的に cancelled 状態へ遷移し、履歴は変更されません。
func (s *Session) Cancel() {
	s.mu.Lock()
	if s.active == nil {
		s.mu.Unlock()
		return
	}
	s.active.cancel()
	// トークンを手放すことで、以後に届く結果は不一致として破棄される
	s.active = nil
	s.status = StatusCancelled
	s.message = ""
	s.mu.Unlock()
	s.emit()
}

// Select は id が履歴に存在する場合のみ選択を切り替えます。
func (s *Session) Select(id string) {
	s.mu.Lock()
	s.history.Select(id)
	s.mu.Unlock()
	s.emit()
}

// Delete は履歴からエントリを削除します。選択中だった場合、選択は解除されます。
func (s *Session) Delete(id string) {
	s.mu.Lock()
	s.history.Delete(id)
	s.mu.Unlock()
	s.emit()
}

// Clear は履歴と選択をすべて破棄します。
func (s *Session) Clear() {
	s.mu.Lock()
	s.history.Clear()
	s.mu.Unlock()
	s.emit()
}

// Snapshot は現在の状態のコピーを返します。
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Status:  s.status,
		Message: s.message,
		History: s.history.Items(),
	}
	if img, ok := s.history.Selected(); ok {
		snap.Selected = &img
	}
	return snap
}

// Wait は実行中の生成が終わるまで待機し、最新のスナップショットを返します。
// 実行中の生成がなければすぐに返ります。
func (s *Session) Wait(ctx context.Context) Snapshot {
	s.mu.Lock()
	var done chan struct{}
	if s.active != nil {
		done = s.active.done
	}
	s.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
		}
	}
	return s.Snapshot()
}

func (s *Session) emit() {
	if s.notify == nil {
		return
	}
	s.notify(s.Snapshot())
}
