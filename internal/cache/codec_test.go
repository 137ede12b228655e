package cache

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func TestJSONCodecBackend(t *testing.T) {
	backend, err := NewBackend[thumbnail](testConfig(t), JSONCodec[thumbnail]{}, WithLogger(quietLogger()))
	require.NoError(t, err)
	t.Cleanup(backend.Close)
	ctx := context.Background()

	want := thumbnail{URL: "https://example.com/a.png", Width: 64, Height: 32}
	require.NoError(t, backend.Store(ctx, want, want.URL))

	got, ok, err := backend.Value(ctx, want.URL)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestJSONCodecRejectsGarbage(t *testing.T) {
	_, err := JSONCodec[thumbnail]{}.Deserialize([]byte("{not json"))
	assert.Error(t, err)
}

func TestPNGCodecBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.AutoExtAfterHashedFileName = true
	backend, err := NewBackend[image.Image](cfg, PNGCodec{}, WithLogger(quietLogger()))
	require.NoError(t, err)
	t.Cleanup(backend.Close)
	ctx := context.Background()

	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})
	require.NoError(t, backend.Store(ctx, img, "https://example.com/dot.png"))
	assert.FileExists(t, backend.Path("https://example.com/dot.png"))

	got, ok, err := backend.Value(ctx, "https://example.com/dot.png")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, img.Bounds(), got.Bounds())
	r, _, _, a := got.At(1, 1).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), a)

	empty := PNGCodec{}.Empty()
	assert.True(t, empty.Bounds().Empty())
}
