package codec

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
	"github.com/shouni/gemini-studio-kit/pkg/imgutil"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"golang.org/x/sync/errgroup"
)

const (
	// UseImageCompression は転送前の参照画像の再圧縮を有効にします。
	UseImageCompression = true
	// ImageCompressionQuality は JPEG 再圧縮時の品質です。
	ImageCompressionQuality = 75
	// compressionThresholdBytes を超える参照画像のみ再圧縮の対象になります。
	compressionThresholdBytes = 2 << 20

	cacheKeyRefImage = "refimg:"
)

// ImageCacher は取得済み参照画像バイト列のキャッシュ操作を抽象化するインターフェースです。
type ImageCacher interface {
	// Get は、指定されたキーに紐づくアイテムを取得します。
	Get(key string) (any, bool)
	// Set は、指定されたキーと値、有効期限でアイテムを保存します。
	Set(key string, value any, d time.Duration)
}

// Decoder は参照画像ソースを転送可能な ReferenceImage へ変換します。
// ソースはローカルパス、http(s) URL、gs:// URI、data URI のいずれかです。
type Decoder struct {
	httpClient httpkit.ClientInterface
	reader     remoteio.InputReader
	cache      ImageCacher
	cacheTTL   time.Duration
}

// NewDecoder は依存関係を注入して Decoder を初期化します。
func NewDecoder(httpClient httpkit.ClientInterface, reader remoteio.InputReader, cache ImageCacher, cacheTTL time.Duration) (*Decoder, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	// reader は nil を許容（gs:// ソース非対応で動作）
	// cache は nil を許容（キャッシュなし動作）

	return &Decoder{
		httpClient: httpClient,
		reader:     reader,
		cache:      cache,
		cacheTTL:   cacheTTL,
	}, nil
}

// EncodeBatch は複数ソースを並列にエンコードします。
//
// 上限 (domain.MaxReferenceImages) を超えた分は警告を出して無視します。
// 上限の強制は呼び出し元ではなく Decoder 自身の責務です。
// 個別ソースの失敗はバッチ全体を失敗させず、そのスロットをスキップして
// 成功したものだけを元の相対順序のまま返します。
func (d *Decoder) EncodeBatch(ctx context.Context, sources []string) []domain.ReferenceImage {
	if len(sources) > domain.MaxReferenceImages {
		slog.WarnContext(ctx, "参照画像が上限を超えたため切り捨てます",
			"limit", domain.MaxReferenceImages, "given", len(sources))
		sources = sources[:domain.MaxReferenceImages]
	}

	slots := make([]*domain.ReferenceImage, len(sources))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, src := range sources {
		i, src := i, src
		eg.Go(func() error {
			img, err := d.Encode(egCtx, src)
			if err != nil {
				slog.WarnContext(egCtx, "参照画像のエンコードに失敗したためスキップします",
					"source", src, "error", err)
				return nil
			}
			slots[i] = &img
			return nil
		})
	}

	// ワーカーはエラーを返さないため、Wait の戻り値は常に nil
	_ = eg.Wait()

	out := make([]domain.ReferenceImage, 0, len(sources))
	for _, s := range slots {
		if s != nil {
			out = append(out, *s)
		}
	}
	return out
}

// Encode は単一ソースを ReferenceImage に変換します。
func (d *Decoder) Encode(ctx context.Context, source string) (domain.ReferenceImage, error) {
	if strings.HasPrefix(source, "data:") {
		return domain.ParseDataURI(source)
	}

	data, err := d.fetchImageData(ctx, source)
	if err != nil {
		return domain.ReferenceImage{}, err
	}

	if UseImageCompression {
		data = imgutil.CompressIfLarge(data, compressionThresholdBytes, ImageCompressionQuality)
	}

	mediaType := http.DetectContentType(data)
	if !strings.HasPrefix(mediaType, "image/") {
		return domain.ReferenceImage{}, fmt.Errorf("画像ではないMIMEタイプです: %s", mediaType)
	}

	return domain.ReferenceImage{MediaType: mediaType, Data: data}, nil
}

// fetchImageData はソースの種類に応じてバイト列を取得します。
func (d *Decoder) fetchImageData(ctx context.Context, source string) ([]byte, error) {
	if d.cache != nil {
		if val, ok := d.cache.Get(cacheKeyRefImage + source); ok {
			if data, ok := val.([]byte); ok {
				return data, nil
			}
		}
	}

	var data []byte
	var err error

	switch {
	case strings.HasPrefix(source, "gs://"):
		if d.reader == nil {
			return nil, fmt.Errorf("gs:// ソースの読み込みには InputReader が必要です: %s", source)
		}
		var rc io.ReadCloser
		rc, err = d.reader.Open(ctx, source)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		data, err = io.ReadAll(rc)

	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		if safe, serr := IsSafeURL(source); serr != nil || !safe {
			return nil, fmt.Errorf("安全ではないURLが指定されました: %w", serr)
		}
		data, err = d.httpClient.FetchBytes(ctx, source)

	default:
		data, err = os.ReadFile(source)
	}

	if err != nil {
		return nil, err
	}

	if d.cache != nil {
		d.cache.Set(cacheKeyRefImage+source, data, d.cacheTTL)
	}
	return data, nil
}
