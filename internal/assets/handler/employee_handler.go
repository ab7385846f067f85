package handler

import (
	"time"

	"github.com/bluepine/itam/internal/assets/service"
	"github.com/gin-gonic/gin"
)

// EmployeeHandler 员工目录接口
type EmployeeHandler struct {
	svc        *service.EmployeeService
	assignment *service.AssignmentService
}

func NewEmployeeHandler(svc *service.EmployeeService, assignment *service.AssignmentService) *EmployeeHandler {
	return &EmployeeHandler{svc: svc, assignment: assignment}
}

// List 员工列表
// GET /api/v1/employees?state=ACTIVO&area_id=1&search=garcia
func (h *EmployeeHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"state":   c.Query("state"),
		"area_id": c.Query("area_id"),
		"search":  c.Query("search"),
	}

	employees, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, ListResponse{
		Items:      employees,
		Pagination: NewPagination(page, pageSize, total),
	})
}

// Get 员工详情，附带在用设备数
// GET /api/v1/employees/:id
func (h *EmployeeHandler) Get(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	employee, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	count, err := h.assignment.CountActiveByEmployee(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{
		"employee":            employee,
		"active_device_count": count,
	})
}

// GetByCode 按工号查询员工
// GET /api/v1/employees/code/:code
func (h *EmployeeHandler) GetByCode(c *gin.Context) {
	employee, err := h.svc.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, employee)
}

// Create 登记员工
// POST /api/v1/employees
func (h *EmployeeHandler) Create(c *gin.Context) {
	var in service.CreateEmployeeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	employee, err := h.svc.Create(c.Request.Context(), &in)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, employee)
}

// Update 修改员工信息
// PUT /api/v1/employees/:id
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var in service.UpdateEmployeeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	employee, err := h.svc.Update(c.Request.Context(), id, &in)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, employee)
}

// Terminate 登记离职
// POST /api/v1/employees/:id/terminate
func (h *EmployeeHandler) Terminate(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var in struct {
		TerminationDate time.Time `json:"termination_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	employee, err := h.svc.Terminate(c.Request.Context(), id, in.TerminationDate)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, employee)
}

// ListAssignments 员工的分配记录
// GET /api/v1/employees/:id/assignments?active=true
func (h *EmployeeHandler) ListAssignments(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	if c.Query("active") == "true" {
		items, err := h.assignment.ListActiveByEmployee(c.Request.Context(), id)
		if err != nil {
			HandleServiceError(c, err)
			return
		}
		Success(c, gin.H{"items": items})
		return
	}
	items, err := h.assignment.ListByEmployee(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": items})
}
