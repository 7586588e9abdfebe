package domain

import (
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// MaxReferenceImages は1リクエストに添付できる参照画像の上限です。
const MaxReferenceImages = 5

// DefaultImageMediaType は MIME タイプが特定できない場合に用いる既定値です。
const DefaultImageMediaType = "image/png"

// ErrEmptyPrompt は、ポジティブプロンプトが空のまま生成が要求された場合のエラーです。
// この場合、生成呼び出しは開始されません。
var ErrEmptyPrompt = errors.New("プロンプトが空です。生成したいシーンの説明を入力してください")

// ReferenceImage は生成の画風やキャラクターの一貫性を誘導するための参照画像です。
// Codec が生成した後は不変として扱います。
type ReferenceImage struct {
	MediaType string
	Data      []byte
}

// DataURI は data:<mime>;base64,<payload> 形式の自己完結した参照文字列を返します。
func (r ReferenceImage) DataURI() string {
	mediaType := r.MediaType
	if mediaType == "" {
		mediaType = DefaultImageMediaType
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(r.Data)
}

var dataURIPattern = regexp.MustCompile(`^data:([a-zA-Z0-9]+/[a-zA-Z0-9-.+]+);base64,`)

// ParseDataURI は data URI 文字列を ReferenceImage に復元します。
// プレフィックスのない生の base64 文字列も受け付け、その場合の MediaType は
// image/png になります。
func ParseDataURI(s string) (ReferenceImage, error) {
	mediaType := DefaultImageMediaType
	payload := s

	if m := dataURIPattern.FindStringSubmatch(s); m != nil {
		mediaType = m[1]
		payload = s[len(m[0]):]
	} else if i := strings.IndexByte(s, ','); i >= 0 {
		// プレフィックスが不正な形式でも、カンマ以降をペイロードとして救済する
		payload = s[i+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return ReferenceImage{}, fmt.Errorf("base64デコードに失敗しました: %w", err)
	}
	return ReferenceImage{MediaType: mediaType, Data: data}, nil
}

// GenerationRequest は1回の画像生成要求です。コンパイル開始後は変更しません。
type GenerationRequest struct {
	Prompt           string
	NegativePrompt   string
	Style            StylePreset
	ReferenceImages  []ReferenceImage
	ReferenceSubject string
	AspectRatio      string
}

// Validate は生成を開始してよい要求かどうかを検証します。
func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return ErrEmptyPrompt
	}
	if r.AspectRatio != "" && !IsValidAspectRatio(r.AspectRatio) {
		return fmt.Errorf("未対応のアスペクト比です: %s (指定可能: %s)", r.AspectRatio, strings.Join(AspectRatios, ", "))
	}
	if len(r.ReferenceImages) > MaxReferenceImages {
		return fmt.Errorf("参照画像は最大 %d 枚までです: %d 枚が指定されました", MaxReferenceImages, len(r.ReferenceImages))
	}
	return nil
}

// AspectRatios は指定可能なアスペクト比の固定カタログです。
var AspectRatios = []string{"1:1", "16:9", "9:16", "4:3", "3:4"}

// IsValidAspectRatio はカタログに含まれるアスペクト比かどうかを返します。
func IsValidAspectRatio(v string) bool {
	for _, r := range AspectRatios {
		if r == v {
			return true
		}
	}
	return false
}
