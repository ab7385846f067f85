package handler

import (
	"github.com/bluepine/itam/internal/assets/service"
	"github.com/gin-gonic/gin"
)

// ReplacementHandler 设备更换接口
type ReplacementHandler struct {
	svc *service.ReplacementService
}

func NewReplacementHandler(svc *service.ReplacementService) *ReplacementHandler {
	return &ReplacementHandler{svc: svc}
}

// List 更换单列表
// GET /api/v1/replacements
func (h *ReplacementHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.List(c.Request.Context(), page, pageSize)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, ListResponse{
		Items:      items,
		Pagination: NewPagination(page, pageSize, total),
	})
}

// ListPending 待执行更换单
// GET /api/v1/replacements/pending
func (h *ReplacementHandler) ListPending(c *gin.Context) {
	items, err := h.svc.ListPending(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// ListByEmployee 某员工名下的更换单
// GET /api/v1/replacements/employee/:id
func (h *ReplacementHandler) ListByEmployee(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	items, err := h.svc.ListByEmployee(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// Get 更换单详情
// GET /api/v1/replacements/:id
func (h *ReplacementHandler) Get(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	replacement, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, replacement)
}

// Create 登记更换单
// POST /api/v1/replacements
func (h *ReplacementHandler) Create(c *gin.Context) {
	var in service.CreateReplacementInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	if in.RegisteredByID == 0 {
		in.RegisteredByID = GetUserID(c)
	}
	replacement, err := h.svc.Create(c.Request.Context(), &in)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, replacement)
}

// Execute 执行更换
// POST /api/v1/replacements/:id/execute
func (h *ReplacementHandler) Execute(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	replacement, err := h.svc.Execute(c.Request.Context(), id, GetUserID(c))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, replacement)
}

// Cancel 取消更换单
// POST /api/v1/replacements/:id/cancel
func (h *ReplacementHandler) Cancel(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var in struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	if err := h.svc.Cancel(c.Request.Context(), id, in.Reason); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"message": "更换单已取消"})
}
