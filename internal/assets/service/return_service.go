package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bluepine/itam/internal/assets/entity"
	"github.com/bluepine/itam/internal/assets/repository"
	"gorm.io/gorm"
)

// ReturnService 归还申请服务。申请只登记"应回收哪些设备、回收时状况如何"，
// 完成申请不会关闭行项引用的分配，分配的关闭走分配台账的归还操作。
type ReturnService struct {
	repo           *repository.ReturnRepository
	assignmentRepo *repository.AssignmentRepository
	deviceRepo     *repository.DeviceRepository
	employeeRepo   *repository.EmployeeRepository
	catalogRepo    *repository.CatalogRepository
	catalog        *CatalogService
	db             *gorm.DB
}

func NewReturnService(
	repo *repository.ReturnRepository,
	assignmentRepo *repository.AssignmentRepository,
	deviceRepo *repository.DeviceRepository,
	employeeRepo *repository.EmployeeRepository,
	catalogRepo *repository.CatalogRepository,
	catalog *CatalogService,
	db *gorm.DB,
) *ReturnService {
	return &ReturnService{
		repo:           repo,
		assignmentRepo: assignmentRepo,
		deviceRepo:     deviceRepo,
		employeeRepo:   employeeRepo,
		catalogRepo:    catalogRepo,
		catalog:        catalog,
		db:             db,
	}
}

// List 归还申请列表
func (s *ReturnService) List(ctx context.Context, page, pageSize int) ([]entity.ReturnRequest, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize)
}

// ListPending 待处理申请列表
func (s *ReturnService) ListPending(ctx context.Context, page, pageSize int) ([]entity.ReturnRequest, int64, error) {
	return s.repo.FindPending(ctx, page, pageSize)
}

// ListOverdue 逾期申请列表
func (s *ReturnService) ListOverdue(ctx context.Context) ([]entity.ReturnRequest, error) {
	return s.repo.FindOverdue(ctx)
}

// Get 按ID查询申请（含行项）
func (s *ReturnService) Get(ctx context.Context, id uint) (*entity.ReturnRequest, error) {
	req, err := s.repo.FindByIDWithItems(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFoundErrorf("return request %d not found", id)
	}
	return req, err
}

// ListByEmployee 员工的归还申请
func (s *ReturnService) ListByEmployee(ctx context.Context, employeeID uint) ([]entity.ReturnRequest, error) {
	return s.repo.FindByEmployee(ctx, employeeID)
}

// CreateReturnRequestInput 创建归还申请
type CreateReturnRequestInput struct {
	EmployeeID      uint      `json:"employee_id" binding:"required"`
	EmployeeEndDate time.Time `json:"employee_end_date" binding:"required"`
	ScheduledDate   time.Time `json:"scheduled_date" binding:"required"`
	Notes           string    `json:"notes"`
	RequestedByID   uint      `json:"requested_by_id"`
}

// CreateRequest 创建归还申请。计划归还日期不得早于离职日期。
func (s *ReturnService) CreateRequest(ctx context.Context, in *CreateReturnRequestInput) (*entity.ReturnRequest, error) {
	if in.ScheduledDate.Before(in.EmployeeEndDate) {
		return nil, ValidationErrorf("scheduled return date must not precede the employee end date")
	}

	employee, err := s.employeeRepo.FindByID(ctx, in.EmployeeID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFoundErrorf("employee %d not found", in.EmployeeID)
	}
	if err != nil {
		return nil, err
	}

	pendingState, err := s.catalog.ResolveRequestState(ctx, entity.RequestStatePending)
	if err != nil {
		return nil, err
	}

	req := &entity.ReturnRequest{
		EmployeeID:      employee.ID,
		RequestDate:     time.Now(),
		EmployeeEndDate: in.EmployeeEndDate,
		ScheduledDate:   in.ScheduledDate,
		StateID:         pendingState.ID,
		RequestedByID:   in.RequestedByID,
		Notes:           in.Notes,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	return s.repo.FindByIDWithItems(ctx, req.ID)
}

// UpdateRequestInput 改期申请
type UpdateRequestInput struct {
	ScheduledDate time.Time `json:"scheduled_date" binding:"required"`
	Notes         string    `json:"notes"`
}

// UpdateRequest 修改待处理申请的计划归还日期与备注
func (s *ReturnService) UpdateRequest(ctx context.Context, requestID uint, in *UpdateRequestInput) (*entity.ReturnRequest, error) {
	req, err := s.repo.FindByID(ctx, requestID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFoundErrorf("return request %d not found", requestID)
	}
	if err != nil {
		return nil, err
	}
	if !req.IsPending() {
		return nil, InvalidStateErrorf("return request %d is not pending", requestID)
	}
	if in.ScheduledDate.Before(req.EmployeeEndDate) {
		return nil, ValidationErrorf("scheduled return date must not precede the employee end date")
	}

	if err := s.repo.Update(ctx, requestID, map[string]interface{}{
		"scheduled_date": in.ScheduledDate,
		"notes":          in.Notes,
	}); err != nil {
		return nil, err
	}
	return s.repo.FindByIDWithItems(ctx, requestID)
}

// AddItemInput 新增行项
type AddItemInput struct {
	DeviceID    uint   `json:"device_id" binding:"required"`
	ConditionID uint   `json:"condition_id" binding:"required"`
	Notes       string `json:"notes"`
}

// AddItem 向待处理申请添加一台设备。设备必须有一条在用分配，且持有人
// 正是申请对应的员工；行项引用该分配但不关闭它。
func (s *ReturnService) AddItem(ctx context.Context, requestID uint, in *AddItemInput) (*entity.ReturnItem, error) {
	req, err := s.repo.FindByID(ctx, requestID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFoundErrorf("return request %d not found", requestID)
	}
	if err != nil {
		return nil, err
	}
	if !req.IsPending() {
		return nil, InvalidStateErrorf("return request %d is not pending", requestID)
	}

	device, err := s.deviceRepo.FindByID(ctx, in.DeviceID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFoundErrorf("device %d not found", in.DeviceID)
	}
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsItem(ctx, requestID, device.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ConflictErrorf("device %d is already on return request %d", in.DeviceID, requestID)
	}

	assignment, err := s.assignmentRepo.FindActiveByDevice(ctx, in.DeviceID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, InvalidStateErrorf("device %d has no active assignment", in.DeviceID)
	}
	if err != nil {
		return nil, err
	}
	if assignment.EmployeeID != req.EmployeeID {
		return nil, IneligibleErrorf("device %d is not assigned to employee %d", in.DeviceID, req.EmployeeID)
	}

	if _, err := s.catalogRepo.ReturnConditionByID(ctx, in.ConditionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ValidationErrorf("return condition %d not found", in.ConditionID)
		}
		return nil, err
	}

	item := &entity.ReturnItem{
		RequestID:    requestID,
		DeviceID:     in.DeviceID,
		AssignmentID: assignment.ID,
		ConditionID:  in.ConditionID,
		Notes:        in.Notes,
	}
	err = s.repo.CreateItem(ctx, item)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ConflictErrorf("device %d is already on return request %d", in.DeviceID, requestID)
	}
	if err != nil {
		return nil, err
	}
	return s.repo.FindItemByID(ctx, item.ID)
}

// UpdateItem 修改行项状况或备注，仅限申请仍待处理时
func (s *ReturnService) UpdateItem(ctx context.Context, itemID uint, conditionID uint, notes string) (*entity.ReturnItem, error) {
	item, err := s.repo.FindItemByID(ctx, itemID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFoundErrorf("return item %d not found", itemID)
	}
	if err != nil {
		return nil, err
	}
	if item.Request == nil || !item.Request.IsPending() {
		return nil, InvalidStateErrorf("return request %d is not pending", item.RequestID)
	}

	if _, err := s.catalogRepo.ReturnConditionByID(ctx, conditionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ValidationErrorf("return condition %d not found", conditionID)
		}
		return nil, err
	}

	if err := s.repo.UpdateItem(ctx, itemID, map[string]interface{}{
		"condition_id": conditionID,
		"notes":        notes,
	}); err != nil {
		return nil, err
	}
	return s.repo.FindItemByID(ctx, itemID)
}

// RemoveItem 从待处理申请移除行项
func (s *ReturnService) RemoveItem(ctx context.Context, itemID uint) error {
	item, err := s.repo.FindItemByID(ctx, itemID)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFoundErrorf("return item %d not found", itemID)
	}
	if err != nil {
		return err
	}
	if item.Request == nil || !item.Request.IsPending() {
		return InvalidStateErrorf("return request %d is not pending", item.RequestID)
	}
	return s.repo.DeleteItem(ctx, itemID)
}

// Complete 完成归还申请。申请必须至少有一条行项。完成不级联关闭行项上的
// 分配，实际归还登记由分配台账的归还操作单独完成。
func (s *ReturnService) Complete(ctx context.Context, requestID uint, receivedByID uint) (*entity.ReturnRequest, error) {
	req, err := s.repo.FindByID(ctx, requestID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFoundErrorf("return request %d not found", requestID)
	}
	if err != nil {
		return nil, err
	}
	if !req.IsPending() {
		return nil, InvalidStateErrorf("return request %d is not pending", requestID)
	}

	count, err := s.repo.CountItems(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ValidationErrorf("return request %d has no items", requestID)
	}

	completedState, err := s.catalog.ResolveRequestState(ctx, entity.RequestStateCompleted)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, requestID, map[string]interface{}{
		"state_id":       completedState.ID,
		"actual_date":    time.Now(),
		"received_by_id": receivedByID,
	}); err != nil {
		return nil, err
	}
	return s.repo.FindByIDWithItems(ctx, requestID)
}

// Cancel 取消待处理申请，取消原因追加到备注
func (s *ReturnService) Cancel(ctx context.Context, requestID uint, reason string) error {
	req, err := s.repo.FindByID(ctx, requestID)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFoundErrorf("return request %d not found", requestID)
	}
	if err != nil {
		return err
	}
	if !req.IsPending() {
		return InvalidStateErrorf("return request %d is not pending", requestID)
	}

	cancelledState, err := s.catalog.ResolveRequestState(ctx, entity.RequestStateCancelled)
	if err != nil {
		return err
	}

	notes := req.Notes
	if reason != "" {
		if notes != "" {
			notes = fmt.Sprintf("%s | Cancelado: %s", notes, reason)
		} else {
			notes = fmt.Sprintf("Cancelado: %s", reason)
		}
	}
	return s.repo.Update(ctx, requestID, map[string]interface{}{
		"state_id": cancelledState.ID,
		"notes":    notes,
	})
}
