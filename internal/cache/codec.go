package cache

import (
	"bytes"
	"image"
	"image/png"

	"github.com/goccy/go-json"
)

// Codec 负责值与字节之间的转换。Empty 返回仅做存在性检查命中时使用的占位值。
type Codec[T any] interface {
	Serialize(value T) ([]byte, error)
	Deserialize(data []byte) (T, error)
	Empty() T
}

// BytesCodec 原样保存 []byte。
type BytesCodec struct{}

func (BytesCodec) Serialize(value []byte) ([]byte, error) { return value, nil }

func (BytesCodec) Deserialize(data []byte) ([]byte, error) { return data, nil }

func (BytesCodec) Empty() []byte { return []byte{} }

// JSONCodec 以 JSON 保存任意可序列化的值。
type JSONCodec[T any] struct{}

func (JSONCodec[T]) Serialize(value T) ([]byte, error) {
	return json.Marshal(value)
}

func (JSONCodec[T]) Deserialize(data []byte) (T, error) {
	var value T
	err := json.Unmarshal(data, &value)
	return value, err
}

func (JSONCodec[T]) Empty() T {
	var zero T
	return zero
}

// PNGCodec 把解码后的图片以 PNG 格式落盘。
type PNGCodec struct {
	Encoder png.Encoder
}

func (c PNGCodec) Serialize(value image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Encoder.Encode(&buf, value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (PNGCodec) Deserialize(data []byte) (image.Image, error) {
	return png.Decode(bytes.NewReader(data))
}

func (PNGCodec) Empty() image.Image {
	return image.NewRGBA(image.Rectangle{})
}
