package handler

import (
	"github.com/bluepine/itam/internal/assets/service"
	"github.com/gin-gonic/gin"
)

// AssignmentHandler 分配台账接口
type AssignmentHandler struct {
	svc *service.AssignmentService
}

func NewAssignmentHandler(svc *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{svc: svc}
}

// List 分配列表
// GET /api/v1/assignments
func (h *AssignmentHandler) List(c *gin.Context) {
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

// ListActive 在用分配
// GET /api/v1/assignments/active
func (h *AssignmentHandler) ListActive(c *gin.Context) {
	items, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// Get 分配详情
// GET /api/v1/assignments/:id
func (h *AssignmentHandler) Get(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	assignment, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, assignment)
}

// ListByDevice 设备的分配历史
// GET /api/v1/assignments/device/:id
func (h *AssignmentHandler) ListByDevice(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	items, err := h.svc.ListByDevice(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// Assign 分配设备
// POST /api/v1/assignments
func (h *AssignmentHandler) Assign(c *gin.Context) {
	var in service.AssignInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	if in.AssignedByID == 0 {
		in.AssignedByID = GetUserID(c)
	}
	assignment, err := h.svc.Assign(c.Request.Context(), &in)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, assignment)
}

// Return 登记归还
// POST /api/v1/assignments/:id/return
func (h *AssignmentHandler) Return(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var in struct {
		Notes        string `json:"notes"`
		ReceivedByID *uint  `json:"received_by_id"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	receivedByID := GetUserID(c)
	if in.ReceivedByID != nil {
		receivedByID = *in.ReceivedByID
	}
	assignment, err := h.svc.Return(c.Request.Context(), id, in.Notes, receivedByID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, assignment)
}

// Cancel 取消分配
// POST /api/v1/assignments/:id/cancel
func (h *AssignmentHandler) Cancel(c *gin.Context) {
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
	Success(c, gin.H{"message": "分配已取消"})
}
