package domain

import (
	"encoding/base64"
	"fmt"
	"time"
)

// downloadPrefix はダウンロード保存時のファイル名の固定プレフィックスです。
const downloadPrefix = "studio"

// ImageData は生成クライアントが返す生の画像ペイロードです。
type ImageData struct {
	Data     []byte
	MimeType string
}

// GeneratedImage は生成に成功した1枚の成果物です。履歴の要素として保持され、
// 明示的な削除か履歴のクリアまで不変のまま生存します。
type GeneratedImage struct {
	ID        string // プロセス内で一意、生成順に単調増加
	URL       string // data URI 形式のレンダリング可能な参照
	Prompt    string // 生成に使われたポジティブプロンプト
	CreatedAt time.Time
}

// FileName はダウンロード保存用のファイル名 (<prefix>-<id>.png) を返します。
func (g GeneratedImage) FileName() string {
	return fmt.Sprintf("%s-%s.png", downloadPrefix, g.ID)
}

// AsDataURI はバイト列を data:<mime>;base64, 形式の参照へ変換します。
func AsDataURI(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = DefaultImageMediaType
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
