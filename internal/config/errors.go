package config

import (
	"errors"
	"fmt"
)

// FieldError 指出出错的配置字段；Err 保留底层解析错误（可能为空）。
type FieldError struct {
	Field  string
	Reason string
	Err    error
}

func (e FieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e FieldError) Unwrap() error { return e.Err }

func newFieldError(field, reason string) error {
	return FieldError{Field: field, Reason: reason}
}

func wrapFieldError(field, reason string, err error) error {
	return FieldError{Field: field, Reason: reason, Err: err}
}

// AsFieldError 从错误链中取出 FieldError，CLI 用它输出字段路径。
func AsFieldError(err error) (FieldError, bool) {
	var fe FieldError
	if errors.As(err, &fe) {
		return fe, true
	}
	return FieldError{}, false
}

// cacheField 拼接 Cache[name].Field 形式的字段路径。
func cacheField(name, field string) string {
	if name == "" {
		return fmt.Sprintf("Cache[].%s", field)
	}
	return fmt.Sprintf("Cache[%s].%s", name, field)
}
