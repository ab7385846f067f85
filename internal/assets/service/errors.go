package service

import "fmt"

// Kind 业务错误分类。所有业务规则违例在任何写入之前检出，
// 以稳定的分类和可读信息返回调用方。
type Kind string

const (
	KindNotFound             Kind = "not_found"
	KindConflict             Kind = "conflict"
	KindInvalidState         Kind = "invalid_state"
	KindIneligible           Kind = "ineligible"
	KindCatalogMisconfigured Kind = "catalog_misconfigured"
	KindValidation           Kind = "validation"
)

// Error 携带分类的业务错误
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func NotFoundErrorf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func ConflictErrorf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func InvalidStateErrorf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func IneligibleErrorf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindIneligible, Message: fmt.Sprintf(format, args...)}
}

// CatalogMisconfiguredErrorf 必需的目录编码缺失，属部署错误而非用户错误
func CatalogMisconfiguredErrorf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindCatalogMisconfigured, Message: fmt.Sprintf(format, args...)}
}

func ValidationErrorf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}
