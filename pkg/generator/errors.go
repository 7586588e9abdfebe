package generator

import "errors"

// 生成呼び出しの失敗分類です。呼び出し元は errors.Is で判別します。
// 1回の呼び出しの失敗は最終的なものであり、リトライは行いません。
var (
	// ErrCancelled はユーザー停止、または新しいリクエストによる置き換えでの取り消しです。
	// ユーザーに対してはエラーとして表示しません。
	ErrCancelled = errors.New("画像生成がキャンセルされました")

	// ErrSafetyBlocked は安全フィルターによる生成拒否です。
	ErrSafetyBlocked = errors.New("安全設定により画像生成がブロックされました。プロンプトを修正して再試行してください")

	// ErrEmptyResponse はモデルがコンテンツパーツを一切返さなかった場合です。
	ErrEmptyResponse = errors.New("モデルがコンテンツを返しませんでした")

	// ErrUnexpectedText は画像の代わりにテキストが返った場合です。
	// 多くの場合、モデルによる婉曲的な生成拒否を意味します。
	ErrUnexpectedText = errors.New("モデルが画像ではなくテキストを返しました")

	// ErrPermissionDenied は認証情報またはモデル有効化の設定不備です。
	ErrPermissionDenied = errors.New("権限がありません。プロジェクトで画像生成モデルが有効になっているか確認してください")

	// ErrTransport は上記に分類できない通信・サービス障害の包括分類です。
	ErrTransport = errors.New("画像生成サービスとの通信に失敗しました")
)
