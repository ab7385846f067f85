package service

import (
	"context"
	"errors"
	"time"

	"github.com/bluepine/itam/internal/assets/entity"
	"github.com/bluepine/itam/internal/assets/repository"
	"gorm.io/gorm"
)

// AssignmentService 分配台账服务。分配/归还/取消是设备状态缓存的唯一写入口，
// 每个变更操作是一个数据库事务。
type AssignmentService struct {
	repo         *repository.AssignmentRepository
	deviceRepo   *repository.DeviceRepository
	employeeRepo *repository.EmployeeRepository
	catalog      *CatalogService
	movement     *MovementService
	db           *gorm.DB
}

func NewAssignmentService(
	repo *repository.AssignmentRepository,
	deviceRepo *repository.DeviceRepository,
	employeeRepo *repository.EmployeeRepository,
	catalog *CatalogService,
	movement *MovementService,
	db *gorm.DB,
) *AssignmentService {
	return &AssignmentService{
		repo:         repo,
		deviceRepo:   deviceRepo,
		employeeRepo: employeeRepo,
		catalog:      catalog,
		movement:     movement,
		db:           db,
	}
}

// List 分配列表
func (s *AssignmentService) List(ctx context.Context, page, pageSize int) ([]entity.Assignment, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize)
}

// ListActive 在用分配列表
func (s *AssignmentService) ListActive(ctx context.Context) ([]entity.Assignment, error) {
	return s.repo.FindAllActive(ctx)
}

// Get 按ID查询分配（含关联）
func (s *AssignmentService) Get(ctx context.Context, id uint) (*entity.Assignment, error) {
	a, err := s.repo.FindByIDWithRelations(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFoundErrorf("assignment %d not found", id)
	}
	return a, err
}

// ListByEmployee 员工的分配记录
func (s *AssignmentService) ListByEmployee(ctx context.Context, employeeID uint) ([]entity.Assignment, error) {
	return s.repo.FindByEmployee(ctx, employeeID)
}

// ListActiveByEmployee 员工的在用分配
func (s *AssignmentService) ListActiveByEmployee(ctx context.Context, employeeID uint) ([]entity.Assignment, error) {
	return s.repo.FindActiveByEmployee(ctx, employeeID)
}

// ListByDevice 设备的分配历史
func (s *AssignmentService) ListByDevice(ctx context.Context, deviceID uint) ([]entity.Assignment, error) {
	return s.repo.FindByDevice(ctx, deviceID)
}

// CountActiveByEmployee 员工当前持有设备数
func (s *AssignmentService) CountActiveByEmployee(ctx context.Context, employeeID uint) (int64, error) {
	return s.repo.CountActiveByEmployee(ctx, employeeID)
}

// AssignInput 分配请求
type AssignInput struct {
	DeviceID     uint       `json:"device_id" binding:"required"`
	EmployeeID   uint       `json:"employee_id" binding:"required"`
	AssignedByID uint       `json:"assigned_by_id"`
	AssignedAt   *time.Time `json:"assigned_at"`
	Notes        string     `json:"notes"`
}

// Assign 将设备分配给员工。前置校验全部通过后，创建分配、改写设备状态、
// 写入履历三步在同一事务内完成。并发分配同一设备时由部分唯一索引兜底，
// 被顶掉的一方收到冲突错误。
func (s *AssignmentService) Assign(ctx context.Context, in *AssignInput) (*entity.Assignment, error) {
	employee, err := s.employeeRepo.FindByID(ctx, in.EmployeeID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFoundErrorf("employee %d not found", in.EmployeeID)
	}
	if err != nil {
		return nil, err
	}
	if !employee.IsActive() {
		return nil, IneligibleErrorf("employee %s is not active", employee.Code)
	}

	device, err := s.deviceRepo.FindByID(ctx, in.DeviceID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFoundErrorf("device %d not found", in.DeviceID)
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindActiveByDevice(ctx, device.ID); err == nil {
		return nil, ConflictErrorf("device %s is already assigned", device.AssetCode)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if !device.IsAvailable() {
		return nil, IneligibleErrorf("device %s is not available for assignment", device.AssetCode)
	}

	activeState, err := s.catalog.ResolveAssignmentState(ctx, entity.AssignmentStateActive)
	if err != nil {
		return nil, err
	}
	assignedState, err := s.catalog.ResolveDeviceState(ctx, entity.DeviceStateAssigned)
	if err != nil {
		return nil, err
	}

	assignedAt := time.Now()
	if in.AssignedAt != nil {
		assignedAt = *in.AssignedAt
	}

	assignment := &entity.Assignment{
		DeviceID:     device.ID,
		EmployeeID:   employee.ID,
		AssignedAt:   assignedAt,
		AssignedByID: in.AssignedByID,
		StateID:      activeState.ID,
		AssignNotes:  in.Notes,
	}

	var notify func()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(assignment).Error; err != nil {
			return err
		}
		if err := tx.Model(&entity.Device{}).
			Where("id = ?", device.ID).
			Update("state_id", assignedState.ID).Error; err != nil {
			return err
		}
		notify, err = s.movement.RecordAssignment(ctx, tx, device, employee, in.AssignedByID)
		return err
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ConflictErrorf("device %s is already assigned", device.AssetCode)
	}
	if err != nil {
		return nil, err
	}
	notify()

	return s.repo.FindByIDWithRelations(ctx, assignment.ID)
}

// Return 登记设备归还，关闭分配并释放设备。receivedByID 为经办人，必填。
func (s *AssignmentService) Return(ctx context.Context, assignmentID uint, notes string, receivedByID uint) (*entity.Assignment, error) {
	if receivedByID == 0 {
		return nil, ValidationErrorf("received_by_id is required")
	}

	assignment, err := s.repo.FindByIDWithRelations(ctx, assignmentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFoundErrorf("assignment %d not found", assignmentID)
	}
	if err != nil {
		return nil, err
	}
	if !assignment.IsActive() {
		return nil, InvalidStateErrorf("assignment %d is not active", assignmentID)
	}

	returnedState, err := s.catalog.ResolveAssignmentState(ctx, entity.AssignmentStateReturned)
	if err != nil {
		return nil, err
	}
	availableState, err := s.catalog.ResolveDeviceState(ctx, entity.DeviceStateAvailable)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var notify func()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"state_id":       returnedState.ID,
			"returned_at":    now,
			"return_notes":   notes,
			"received_by_id": receivedByID,
		}
		if err := tx.Model(&entity.Assignment{}).
			Where("id = ?", assignment.ID).
			Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Model(&entity.Device{}).
			Where("id = ?", assignment.DeviceID).
			Update("state_id", availableState.ID).Error; err != nil {
			return err
		}
		notify, err = s.movement.RecordReturn(ctx, tx, assignment.Device, assignment.Employee, receivedByID)
		return err
	})
	if err != nil {
		return nil, err
	}
	notify()

	return s.repo.FindByIDWithRelations(ctx, assignment.ID)
}

// Cancel 取消在用分配并释放设备。与归还不同，取消不写履历（沿用既有行为）。
func (s *AssignmentService) Cancel(ctx context.Context, assignmentID uint, reason string) error {
	assignment, err := s.repo.FindByIDWithRelations(ctx, assignmentID)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFoundErrorf("assignment %d not found", assignmentID)
	}
	if err != nil {
		return err
	}
	if !assignment.IsActive() {
		return InvalidStateErrorf("assignment %d is not active", assignmentID)
	}

	cancelledState, err := s.catalog.ResolveAssignmentState(ctx, entity.AssignmentStateCancelled)
	if err != nil {
		return err
	}
	availableState, err := s.catalog.ResolveDeviceState(ctx, entity.DeviceStateAvailable)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Assignment{}).
			Where("id = ?", assignment.ID).
			Updates(map[string]interface{}{
				"state_id":     cancelledState.ID,
				"return_notes": reason,
			}).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Device{}).
			Where("id = ?", assignment.DeviceID).
			Update("state_id", availableState.ID).Error
	})
}
