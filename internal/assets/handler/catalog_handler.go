package handler

import (
	"github.com/bluepine/itam/internal/assets/service"
	"github.com/gin-gonic/gin"
)

// CatalogHandler 参考目录接口。目录内容是数据而非代码，
// 业务表通过外键引用目录行，停用走软删除。
type CatalogHandler struct {
	svc *service.CatalogService
}

func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// ListDeviceStates 设备状态目录
// GET /api/v1/catalogs/device-states?include_inactive=true
func (h *CatalogHandler) ListDeviceStates(c *gin.Context) {
	states, err := h.svc.ListDeviceStates(c.Request.Context(), c.Query("include_inactive") == "true")
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": states})
}

// ListReturnConditions 归还状况目录
// GET /api/v1/catalogs/return-conditions
func (h *CatalogHandler) ListReturnConditions(c *gin.Context) {
	items, err := h.svc.ListReturnConditions(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// ListReplacementReasons 更换原因目录
// GET /api/v1/catalogs/replacement-reasons
func (h *CatalogHandler) ListReplacementReasons(c *gin.Context) {
	items, err := h.svc.ListReplacementReasons(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// ListBrands 品牌目录
// GET /api/v1/catalogs/brands
func (h *CatalogHandler) ListBrands(c *gin.Context) {
	items, err := h.svc.ListBrands(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// ListDeviceTypes 设备类型目录
// GET /api/v1/catalogs/device-types
func (h *CatalogHandler) ListDeviceTypes(c *gin.Context) {
	items, err := h.svc.ListDeviceTypes(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}

// CreateBrand 新增品牌
// POST /api/v1/catalogs/brands
func (h *CatalogHandler) CreateBrand(c *gin.Context) {
	var in struct {
		Code string `json:"code" binding:"required"`
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	brand, err := h.svc.CreateBrand(c.Request.Context(), in.Code, in.Name)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, brand)
}

// CreateDeviceType 新增设备类型
// POST /api/v1/catalogs/device-types
func (h *CatalogHandler) CreateDeviceType(c *gin.Context) {
	var in struct {
		Code        string `json:"code" binding:"required"`
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	t, err := h.svc.CreateDeviceType(c.Request.Context(), in.Code, in.Name, in.Description)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, t)
}

// UpdateBrand 修改品牌
// PUT /api/v1/catalogs/brands/:id
func (h *CatalogHandler) UpdateBrand(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var in struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	if err := h.svc.UpdateBrand(c.Request.Context(), id, in.Name); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"message": "品牌已更新"})
}

// UpdateDeviceType 修改设备类型
// PUT /api/v1/catalogs/device-types/:id
func (h *CatalogHandler) UpdateDeviceType(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var in struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	if err := h.svc.UpdateDeviceType(c.Request.Context(), id, in.Name, in.Description); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"message": "设备类型已更新"})
}

// DeactivateBrand 停用品牌
// DELETE /api/v1/catalogs/brands/:id
func (h *CatalogHandler) DeactivateBrand(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeactivateBrand(c.Request.Context(), id); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"message": "品牌已停用"})
}

// DeactivateDeviceType 停用设备类型
// DELETE /api/v1/catalogs/device-types/:id
func (h *CatalogHandler) DeactivateDeviceType(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeactivateDeviceType(c.Request.Context(), id); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"message": "设备类型已停用"})
}
