package handler

import (
	"github.com/bluepine/itam/internal/assets/service"
	"github.com/gin-gonic/gin"
)

// DeviceHandler 设备登记接口
type DeviceHandler struct {
	svc      *service.DeviceService
	movement *service.MovementService
}

func NewDeviceHandler(svc *service.DeviceService, movement *service.MovementService) *DeviceHandler {
	return &DeviceHandler{svc: svc, movement: movement}
}

// List 设备列表
// GET /api/v1/devices?state=DISPONIBLE&type_id=1&brand_id=2&search=thinkpad
func (h *DeviceHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"state":    c.Query("state"),
		"type_id":  c.Query("type_id"),
		"brand_id": c.Query("brand_id"),
		"search":   c.Query("search"),
	}

	devices, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, ListResponse{
		Items:      devices,
		Pagination: NewPagination(page, pageSize, total),
	})
}

// ListAvailable 可分配设备
// GET /api/v1/devices/available
func (h *DeviceHandler) ListAvailable(c *gin.Context) {
	devices, err := h.svc.ListAvailable(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": devices})
}

// Get 设备详情
// GET /api/v1/devices/:id
func (h *DeviceHandler) Get(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	device, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, device)
}

// GetByAssetCode 按资产编码查设备
// GET /api/v1/devices/code/:code
func (h *DeviceHandler) GetByAssetCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		BadRequest(c, "资产编码不能为空")
		return
	}
	device, err := h.svc.GetByAssetCode(c.Request.Context(), code)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, device)
}

// Create 登记设备
// POST /api/v1/devices
func (h *DeviceHandler) Create(c *gin.Context) {
	var in service.CreateDeviceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	device, err := h.svc.Create(c.Request.Context(), &in)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, device)
}

// Update 修改设备
// PUT /api/v1/devices/:id
func (h *DeviceHandler) Update(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var in service.UpdateDeviceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	device, err := h.svc.Update(c.Request.Context(), id, &in)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, device)
}

// UpdateState 运维性状态变更
// PATCH /api/v1/devices/:id/state
func (h *DeviceHandler) UpdateState(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var in struct {
		State string `json:"state" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	device, err := h.svc.UpdateState(c.Request.Context(), id, in.State, GetUserID(c))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, device)
}

// Delete 删除设备
// DELETE /api/v1/devices/:id
func (h *DeviceHandler) Delete(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"message": "设备已删除"})
}

// ListMovements 设备履历
// GET /api/v1/devices/:id/movements
func (h *DeviceHandler) ListMovements(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	page, pageSize := GetPagination(c)
	movements, total, err := h.movement.ListByDevice(c.Request.Context(), id, page, pageSize)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, ListResponse{
		Items:      movements,
		Pagination: NewPagination(page, pageSize, total),
	})
}
