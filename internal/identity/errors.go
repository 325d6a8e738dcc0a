package identity

import (
	"errors"
	"fmt"
	"strings"
)

// 保存管道的结构性失败（短路，不聚合）
var (
	ErrMissingLocalPassport = errors.New("user has no local passport")
	ErrMissingPassword      = errors.New("local passport has no password")
	ErrHashingFailed        = errors.New("password hashing failed")
)

// ValidationError 单字段违规：字段名 + 违规值 + 人类可读信息
// 敏感字段的 Value 在规则求值时已替换为掩码，错误文本不会泄露明文或摘要
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got %q)", e.Field, e.Message, e.Value)
}

// ValidationErrors 聚合所有违规字段，而不是只报第一个
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, v := range e {
		parts = append(parts, v.Error())
	}
	return strings.Join(parts, "; ")
}

// Has 是否包含指定字段的违规
func (e ValidationErrors) Has(field string) bool {
	for _, v := range e {
		if v.Field == field {
			return true
		}
	}
	return false
}
