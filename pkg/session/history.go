package session

import "github.com/shouni/gemini-studio-kit/pkg/domain"

// History は生成成果物を新しい順に保持するコレクションです。
// 書き込みは Session だけが行い、すべて Session のロック配下で実行されます。
// ID の重複はなく、選択ポインタは常に存在するエントリか空のどちらかです。
type History struct {
	items      []domain.GeneratedImage
	selectedID string
}

// Prepend は新しい成果物を先頭に追加し、それを選択状態にします。
// 既存の ID と重複するエントリは追加しません。
func (h *History) Prepend(img domain.GeneratedImage) {
	if _, ok := h.find(img.ID); ok {
		return
	}
	h.items = append([]domain.GeneratedImage{img}, h.items...)
	h.selectedID = img.ID
}

// Select は id が履歴に存在する場合のみ選択を切り替えます。
// 存在しない id は無視します。
func (h *History) Select(id string) {
	if _, ok := h.find(id); ok {
		h.selectedID = id
	}
}

// Delete は該当エントリを取り除きます。選択中のエントリを削除した場合、
// 選択は解除されます（別のエントリを自動では選びません）。
func (h *History) Delete(id string) {
	kept := h.items[:0]
	for _, img := range h.items {
		if img.ID != id {
			kept = append(kept, img)
		}
	}
	h.items = kept
	if h.selectedID == id {
		h.selectedID = ""
	}
}

// Clear は履歴と選択をすべて破棄します。
func (h *History) Clear() {
	h.items = nil
	h.selectedID = ""
}

// Items は履歴のコピーを新しい順で返します。
func (h *History) Items() []domain.GeneratedImage {
	out := make([]domain.GeneratedImage, len(h.items))
	copy(out, h.items)
	return out
}

// Selected は現在選択中の成果物を返します。
func (h *History) Selected() (domain.GeneratedImage, bool) {
	return h.find(h.selectedID)
}

// Len は履歴の件数を返します。
func (h *History) Len() int {
	return len(h.items)
}

func (h *History) find(id string) (domain.GeneratedImage, bool) {
	if id == "" {
		return domain.GeneratedImage{}, false
	}
	for _, img := range h.items {
		if img.ID == id {
			return img, true
		}
	}
	return domain.GeneratedImage{}, false
}
