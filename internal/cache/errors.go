package cache

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig 表示构造 Backend 时传入的配置不合法。
var ErrInvalidConfig = errors.New("invalid cache config")

// ErrorKind 对缓存错误分类，调用方按类别决定如何降级。
type ErrorKind string

const (
	KindNotReady                ErrorKind = "not_ready"
	KindDirectoryCreationFailed ErrorKind = "directory_creation_failed"
	KindValueEncodingFailed     ErrorKind = "value_encoding_failed"
	KindValueDecodingFailed     ErrorKind = "value_decoding_failed"
	KindFileWriteFailed         ErrorKind = "file_write_failed"
	KindFileReadFailed          ErrorKind = "file_read_failed"
	KindFileRemoveFailed        ErrorKind = "file_remove_failed"
	KindAttributeWriteFailed    ErrorKind = "attribute_write_failed"
	KindAttributeReadFailed     ErrorKind = "attribute_read_failed"
	KindEnumerationFailed       ErrorKind = "enumeration_failed"
)

// Error 携带错误类别、相关路径与底层原因。
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind 判断 err 链上是否存在指定类别的 *Error。
func IsKind(err error, kind ErrorKind) bool {
	var cacheErr *Error
	if !errors.As(err, &cacheErr) {
		return false
	}
	return cacheErr.Kind == kind
}

func newError(kind ErrorKind, path string, err error) error {
	return &Error{Kind: kind, Path: path, Err: err}
}
