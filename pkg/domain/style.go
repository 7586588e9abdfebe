package domain

// StylePreset は任意で選択できる固定のスタイルタグです。
type StylePreset string

const (
	StyleNone           StylePreset = "None"
	StyleCinematic      StylePreset = "Cinematic"
	StyleAnime          StylePreset = "Anime"
	StylePhotorealistic StylePreset = "Photorealistic"
	StyleOilPainting    StylePreset = "Oil Painting"
	StyleCyberpunk      StylePreset = "Cyberpunk"
	StyleSketch         StylePreset = "Pencil Sketch"
	Style3DRender       StylePreset = "3D Render"
)

// StyleOptions は選択可能なスタイルの一覧です。
var StyleOptions = []StylePreset{
	StyleNone,
	StyleCinematic,
	StyleAnime,
	StylePhotorealistic,
	StyleOilPainting,
	StyleCyberpunk,
	StyleSketch,
	Style3DRender,
}

// IsDefault はスタイル指定なしとして扱うべき値かどうかを返します。
// 既定スタイルの場合、コンパイル結果にスタイルガイダンスは追加されません。
func (s StylePreset) IsDefault() bool {
	return s == "" || s == StyleNone
}
