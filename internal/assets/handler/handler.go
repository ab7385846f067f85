package handler

import (
	"errors"
	"strconv"

	"github.com/bluepine/itam/internal/assets/service"
	"github.com/bluepine/itam/internal/assets/sse"
	"github.com/gin-gonic/gin"
)

// Handlers 处理器集合
type Handlers struct {
	Device      *DeviceHandler
	Employee    *EmployeeHandler
	Assignment  *AssignmentHandler
	Replacement *ReplacementHandler
	Return      *ReturnHandler
	Catalog     *CatalogHandler
	Event       *EventHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services, hub *sse.Hub) *Handlers {
	return &Handlers{
		Device:      NewDeviceHandler(svc.Device, svc.Movement),
		Employee:    NewEmployeeHandler(svc.Employee, svc.Assignment),
		Assignment:  NewAssignmentHandler(svc.Assignment),
		Replacement: NewReplacementHandler(svc.Replacement),
		Return:      NewReturnHandler(svc.Return),
		Catalog:     NewCatalogHandler(svc.Catalog),
		Event:       NewEventHandler(hub),
	}
}

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse 列表响应结构
type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// Pagination 分页信息
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPagination 构造分页信息
func NewPagination(page, pageSize int, total int64) *Pagination {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return &Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      int(total),
		TotalPages: totalPages,
	}
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// Unauthorized 未授权响应
func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// Conflict 冲突响应
func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

// InternalError 服务器错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// HandleServiceError 将服务层错误映射为响应
func HandleServiceError(c *gin.Context, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		switch svcErr.Kind {
		case service.KindNotFound:
			NotFound(c, svcErr.Message)
		case service.KindConflict:
			Conflict(c, svcErr.Message)
		case service.KindInvalidState, service.KindIneligible, service.KindValidation:
			BadRequest(c, svcErr.Message)
		case service.KindCatalogMisconfigured:
			InternalError(c, svcErr.Message)
		default:
			InternalError(c, svcErr.Message)
		}
		return
	}
	InternalError(c, err.Error())
}

// GetUserID 从上下文获取操作员ID
func GetUserID(c *gin.Context) uint {
	v, _ := c.Get("user_id")
	if id, ok := v.(uint); ok {
		return id
	}
	return 0
}

// GetPagination 从请求获取分页参数
func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}

// ParamID 解析路径中的数字ID
func ParamID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		BadRequest(c, "无效的ID: "+c.Param(name))
		return 0, false
	}
	return uint(v), true
}
