// Package imagecache maps weather-condition keys to locally cached image
// files, downloading each source at most once per key.
package imagecache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/imolchanov/sunday/internal/weather"
)

// ConditionKey addresses one cached image. The set is closed: nothing outside
// it is ever cached.
type ConditionKey string

const (
	KeyClear        ConditionKey = "clear"
	KeyClouds       ConditionKey = "clouds"
	KeyFog          ConditionKey = "fog"
	KeySmallRain    ConditionKey = "smallrain"
	KeyRain         ConditionKey = "rain"
	KeySnow         ConditionKey = "snow"
	KeyRainfall     ConditionKey = "rainfall"
	KeyThunderstorm ConditionKey = "thunderstorm"
)

// keyByText joins condition text (lowercased) to its image key. Unknown text
// has no image.
var keyByText = map[string]ConditionKey{
	"ясно":                  KeyClear,
	"переменная облачность": KeyClouds,
	"туман":                 KeyFog,
	"мелкий дождь":          KeySmallRain,
	"дождь":                 KeyRain,
	"снег":                  KeySnow,
	"ливень":                KeyRainfall,
	"гроза":                 KeyThunderstorm,
}

// sources holds the download URL per key. Content per key is assumed fixed, so
// entries never expire.
var sources = map[ConditionKey]string{
	KeyClear:        "https://i.pinimg.com/originals/fb/37/ae/fb37ae6b9b9442f432a896073db3cf8e.jpg",
	KeyClouds:       "https://inbusiness.kz/uploads/2024-7/vsIemgfj.jpg",
	KeyFog:          "https://osken-onir.kz/uploads/posts/2023-01/1673242787_1642754499_1-phonoteka-org-p-fon-tuman-1.jpg",
	KeySmallRain:    "https://get.pxhere.com/photo/water-nature-snow-winter-sunlight-morning-rain-leaf-wildlife-stream-reflection-autumn-weather-season-freezing-atmospheric-phenomenon-21606.jpg",
	KeyRain:         "https://avatars.mds.yandex.net/i?id=2d5e50761acd87dea612ad51de576513_l-8132087-images-thumbs&n=13",
	KeySnow:         "https://avatars.mds.yandex.net/get-znatoki-cover/1357594/2a0000017d8f310dfaa83fb7e128363c1f43/orig",
	KeyRainfall:     "https://i.ytimg.com/vi/PXnPx_cMsdw/maxresdefault.jpg",
	KeyThunderstorm: "https://caliber.az/media/photos/original/f76bcaa2390055cd6328346b14e76693.webp",
}

// Cache materializes condition imagery in a flat directory, one file per key.
// There is no lock: two callers racing on the same key both download, and the
// last writer's bytes persist, which is harmless since content per key is
// fixed.
type Cache struct {
	dir    string
	client *http.Client
}

// New constructs a Cache rooted at dir. The directory is created lazily on
// first download.
func New(dir string, client *http.Client) *Cache {
	return &Cache{dir: dir, client: client}
}

// ImageForText resolves the cached image for a condition text. Text outside
// the fixed mapping yields an empty path and no error.
func (c *Cache) ImageForText(ctx context.Context, text string) (string, error) {
	key, ok := keyByText[strings.ToLower(strings.TrimSpace(text))]
	if !ok {
		return "", nil
	}
	return c.Resolve(ctx, key, sources[key])
}

// Resolve returns the local file path for key, downloading sourceURL only when
// the file does not exist yet. The download is published atomically
// (temp-file-then-rename) so a failed download never leaves a partial file
// claimed as valid.
func (c *Cache) Resolve(ctx context.Context, key ConditionKey, sourceURL string) (string, error) {
	path := filepath.Join(c.dir, string(key)+".jpg")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: creating cache dir %s: %v", weather.ErrStorage, c.dir, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: building request for %s: %v", weather.ErrNetwork, sourceURL, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: downloading %s: %v", weather.ErrNetwork, sourceURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: downloading %s: status %d", weather.ErrNetwork, sourceURL, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(c.dir, string(key)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: creating temp file for %s: %v", weather.ErrStorage, key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: writing image for %s: %v", weather.ErrStorage, key, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: closing image for %s: %v", weather.ErrStorage, key, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("%w: publishing image for %s: %v", weather.ErrStorage, key, err)
	}

	return path, nil
}
