package prompts

import (
	"fmt"
	"strings"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
	"google.golang.org/genai"
)

// Compile は GenerationRequest を Gemini へ送る順序付きのパーツ列へ変換します。
// 純粋な変換であり、同一の入力に対して常にバイト単位で同一の出力を返します。
//
// パーツの並びは固定で、参照画像パーツが配列順にすべて先行し、
// 最後に指示テキストのパーツが1つだけ置かれます。
func Compile(req domain.GenerationRequest) []*genai.Part {
	parts := make([]*genai.Part, 0, len(req.ReferenceImages)+1)

	for _, ref := range req.ReferenceImages {
		mediaType := ref.MediaType
		if mediaType == "" {
			mediaType = domain.DefaultImageMediaType
		}
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: mediaType, Data: ref.Data},
		})
	}

	parts = append(parts, &genai.Part{Text: BuildText(req)})
	return parts
}

// BuildText は最終的な指示テキストを組み立てます。
//
// 参照画像がある場合は厳密参照モードの前文（システム指示と画風遵守の命令）を置き、
// ReferenceSubject があれば主題を名指しする番号付き指示を追加します。
// 参照画像がない場合は最小限のシーン記述セクションのみです。
// スタイルタグと除外条件はどちらのモードでも末尾に同じ順序で付きます。
func BuildText(req domain.GenerationRequest) string {
	var sb strings.Builder

	if len(req.ReferenceImages) > 0 {
		sb.WriteString(sectionSystemInstruction)
		sb.WriteString(sectionStyleMandate)
		if req.ReferenceSubject != "" {
			sb.WriteString(fmt.Sprintf(directiveSubjectFormat, req.ReferenceSubject))
		}
		sb.WriteString(fmt.Sprintf(sectionGenerationTaskFormat, req.Prompt))
	} else {
		sb.WriteString(fmt.Sprintf(sectionSceneFormat, req.Prompt))
	}

	if !req.Style.IsDefault() {
		sb.WriteString(fmt.Sprintf(sectionStyleGuidanceFormat, req.Style))
	}

	if req.NegativePrompt != "" {
		sb.WriteString(fmt.Sprintf(sectionNegativeFormat, req.NegativePrompt))
	}

	return sb.String()
}
