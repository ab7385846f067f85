package handler

import (
	"github.com/bluepine/itam/internal/assets/service"
	"github.com/gin-gonic/gin"
)

// ReturnHandler 归还申请接口
type ReturnHandler struct {
	svc *service.ReturnService
}

func NewReturnHandler(svc *service.ReturnService) *ReturnHandler {
	return &ReturnHandler{svc: svc}
}

// List 归还申请列表
// GET /api/v1/returns?pending=true
func (h *ReturnHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)

	list := h.svc.List
	if c.Query("pending") == "true" {
		list = h.svc.ListPending
	}
	items, total, err := list(c.Request.Context(), page, pageSize)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	Success(c, ListResponse{
		Items:      items,
		Pagination: NewPagination(page, pageSize, total),
	})
}

// ListOverdue 逾期申请
// GET /api/v1/returns/overdue
func (h *ReturnHandler) ListOverdue(c *gin.Context) {
	items, err := h.svc.ListOverdue(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// ListByEmployee 某员工的归还申请
// GET /api/v1/returns/employee/:id
func (h *ReturnHandler) ListByEmployee(c *gin.Context) {
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

// Update 改期申请
// PUT /api/v1/returns/:id
func (h *ReturnHandler) Update(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var in service.UpdateRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	req, err := h.svc.UpdateRequest(c.Request.Context(), id, &in)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, req)
}

// Get 申请详情（含行项）
// GET /api/v1/returns/:id
func (h *ReturnHandler) Get(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	req, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, req)
}

// Create 创建归还申请
// POST /api/v1/returns
func (h *ReturnHandler) Create(c *gin.Context) {
	var in service.CreateReturnRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	if in.RequestedByID == 0 {
		in.RequestedByID = GetUserID(c)
	}
	req, err := h.svc.CreateRequest(c.Request.Context(), &in)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, req)
}

// AddItem 添加行项
// POST /api/v1/returns/:id/items
func (h *ReturnHandler) AddItem(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var in service.AddItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	item, err := h.svc.AddItem(c.Request.Context(), id, &in)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, item)
}

// UpdateItem 修改行项
// PUT /api/v1/returns/items/:itemId
func (h *ReturnHandler) UpdateItem(c *gin.Context) {
	itemID, ok := ParamID(c, "itemId")
	if !ok {
		return
	}
	var in struct {
		ConditionID uint   `json:"condition_id" binding:"required"`
		Notes       string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	item, err := h.svc.UpdateItem(c.Request.Context(), itemID, in.ConditionID, in.Notes)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, item)
}

// RemoveItem 删除行项
// DELETE /api/v1/returns/items/:itemId
func (h *ReturnHandler) RemoveItem(c *gin.Context) {
	itemID, ok := ParamID(c, "itemId")
	if !ok {
		return
	}
	if err := h.svc.RemoveItem(c.Request.Context(), itemID); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"message": "行项已删除"})
}

// Complete 完成归还申请
// POST /api/v1/returns/:id/complete
func (h *ReturnHandler) Complete(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	req, err := h.svc.Complete(c.Request.Context(), id, GetUserID(c))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, req)
}

// Cancel 取消归还申请
// POST /api/v1/returns/:id/cancel
func (h *ReturnHandler) Cancel(c *gin.Context) {
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
	Success(c, gin.H{"message": "归还申请已取消"})
}
