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

// ReplacementService 设备更换服务。更换是一个两阶段流程：先登记待执行的
// 更换单，执行时原子地关闭旧分配、建立新分配并交换两台设备的状态。
type ReplacementService struct {
	repo           *repository.ReplacementRepository
	assignmentRepo *repository.AssignmentRepository
	deviceRepo     *repository.DeviceRepository
	catalogRepo    *repository.CatalogRepository
	catalog        *CatalogService
	movement       *MovementService
	db             *gorm.DB
}

func NewReplacementService(
	repo *repository.ReplacementRepository,
	assignmentRepo *repository.AssignmentRepository,
	deviceRepo *repository.DeviceRepository,
	catalogRepo *repository.CatalogRepository,
	catalog *CatalogService,
	movement *MovementService,
	db *gorm.DB,
) *ReplacementService {
	return &ReplacementService{
		repo:           repo,
		assignmentRepo: assignmentRepo,
		deviceRepo:     deviceRepo,
		catalogRepo:    catalogRepo,
		catalog:        catalog,
		movement:       movement,
		db:             db,
	}
}

// List 更换单列表
func (s *ReplacementService) List(ctx context.Context, page, pageSize int) ([]entity.Replacement, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize)
}

// ListPending 待执行更换单
func (s *ReplacementService) ListPending(ctx context.Context) ([]entity.Replacement, error) {
	return s.repo.FindPending(ctx)
}

// Get 按ID查询更换单（含关联）
func (s *ReplacementService) Get(ctx context.Context, id uint) (*entity.Replacement, error) {
	r, err := s.repo.FindByIDWithRelations(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFoundErrorf("replacement %d not found", id)
	}
	return r, err
}

// ListByEmployee 员工的更换记录
func (s *ReplacementService) ListByEmployee(ctx context.Context, employeeID uint) ([]entity.Replacement, error) {
	return s.repo.FindByEmployee(ctx, employeeID)
}

// CreateReplacementInput 登记更换请求
type CreateReplacementInput struct {
	AssignmentID        uint   `json:"assignment_id" binding:"required"`
	ReplacementDeviceID uint   `json:"replacement_device_id" binding:"required"`
	ReasonID            uint   `json:"reason_id" binding:"required"`
	ReasonDetail        string `json:"reason_detail"`
	RegisteredByID      uint   `json:"registered_by_id"`
}

// Create 登记一张待执行的更换单。此时不改动分配和设备，只做资格校验。
func (s *ReplacementService) Create(ctx context.Context, in *CreateReplacementInput) (*entity.Replacement, error) {
	assignment, err := s.assignmentRepo.FindByIDWithRelations(ctx, in.AssignmentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFoundErrorf("assignment %d not found", in.AssignmentID)
	}
	if err != nil {
		return nil, err
	}
	if !assignment.IsActive() {
		return nil, InvalidStateErrorf("assignment %d is not active", in.AssignmentID)
	}

	if in.ReplacementDeviceID == assignment.DeviceID {
		return nil, ValidationErrorf("replacement device must differ from the assigned device")
	}

	replacementDevice, err := s.deviceRepo.FindByID(ctx, in.ReplacementDeviceID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFoundErrorf("device %d not found", in.ReplacementDeviceID)
	}
	if err != nil {
		return nil, err
	}
	if !replacementDevice.IsAvailable() {
		return nil, IneligibleErrorf("device %s is not available as a replacement", replacementDevice.AssetCode)
	}

	if _, err := s.catalogRepo.ReplacementReasonByID(ctx, in.ReasonID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ValidationErrorf("replacement reason %d not found", in.ReasonID)
		}
		return nil, err
	}

	pendingState, err := s.catalog.ResolveReplacementState(ctx, entity.ReplacementStatePending)
	if err != nil {
		return nil, err
	}

	replacement := &entity.Replacement{
		AssignmentID:        assignment.ID,
		OriginalDeviceID:    assignment.DeviceID,
		ReplacementDeviceID: replacementDevice.ID,
		EmployeeID:          assignment.EmployeeID,
		ReasonID:            in.ReasonID,
		ReasonDetail:        in.ReasonDetail,
		RegisteredByID:      in.RegisteredByID,
		StateID:             pendingState.ID,
	}
	if err := s.repo.Create(ctx, replacement); err != nil {
		return nil, err
	}
	return s.repo.FindByIDWithRelations(ctx, replacement.ID)
}

// Execute 执行更换单：关闭旧分配、释放原设备、为替换设备建立新分配、
// 更换单置为已完成，并写入两台设备的履历。全部写入在同一事务内。
func (s *ReplacementService) Execute(ctx context.Context, replacementID uint, executedByID uint) (*entity.Replacement, error) {
	replacement, err := s.repo.FindByIDWithRelations(ctx, replacementID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFoundErrorf("replacement %d not found", replacementID)
	}
	if err != nil {
		return nil, err
	}
	if !replacement.IsPending() {
		return nil, InvalidStateErrorf("replacement %d is not pending", replacementID)
	}

	assignment, err := s.assignmentRepo.FindByIDWithRelations(ctx, replacement.AssignmentID)
	if err != nil {
		return nil, err
	}
	if !assignment.IsActive() {
		return nil, InvalidStateErrorf("assignment %d is no longer active", assignment.ID)
	}

	replacementDevice, err := s.deviceRepo.FindByID(ctx, replacement.ReplacementDeviceID)
	if err != nil {
		return nil, err
	}
	if !replacementDevice.IsAvailable() {
		return nil, IneligibleErrorf("device %s is no longer available", replacementDevice.AssetCode)
	}

	returnedState, err := s.catalog.ResolveAssignmentState(ctx, entity.AssignmentStateReturned)
	if err != nil {
		return nil, err
	}
	activeState, err := s.catalog.ResolveAssignmentState(ctx, entity.AssignmentStateActive)
	if err != nil {
		return nil, err
	}
	availableState, err := s.catalog.ResolveDeviceState(ctx, entity.DeviceStateAvailable)
	if err != nil {
		return nil, err
	}
	assignedState, err := s.catalog.ResolveDeviceState(ctx, entity.DeviceStateAssigned)
	if err != nil {
		return nil, err
	}
	completedState, err := s.catalog.ResolveReplacementState(ctx, entity.ReplacementStateCompleted)
	if err != nil {
		return nil, err
	}

	reason := replacement.ReasonDetail
	if replacement.Reason != nil {
		reason = replacement.Reason.Name
	}

	now := time.Now()
	var notify []func()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Assignment{}).
			Where("id = ?", assignment.ID).
			Updates(map[string]interface{}{
				"state_id":     returnedState.ID,
				"returned_at":  now,
				"return_notes": fmt.Sprintf("Devuelto por reemplazo. Motivo: %s", reason),
			}).Error; err != nil {
			return err
		}
		if err := tx.Model(&entity.Device{}).
			Where("id = ?", replacement.OriginalDeviceID).
			Update("state_id", availableState.ID).Error; err != nil {
			return err
		}
		newAssignment := &entity.Assignment{
			DeviceID:     replacementDevice.ID,
			EmployeeID:   assignment.EmployeeID,
			AssignedAt:   now,
			AssignedByID: executedByID,
			StateID:      activeState.ID,
			AssignNotes:  fmt.Sprintf("Asignado por reemplazo del dispositivo %s", originalAssetCode(assignment)),
		}
		if err := tx.Create(newAssignment).Error; err != nil {
			return err
		}
		if err := tx.Model(&entity.Device{}).
			Where("id = ?", replacementDevice.ID).
			Update("state_id", assignedState.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&entity.Replacement{}).
			Where("id = ?", replacement.ID).
			Updates(map[string]interface{}{
				"state_id":    completedState.ID,
				"replaced_at": now,
			}).Error; err != nil {
			return err
		}
		notifyReplacement, err := s.movement.RecordReplacement(ctx, tx, assignment.Device, replacementDevice, assignment.Employee, executedByID, reason)
		if err != nil {
			return err
		}
		notifyAssignment, err := s.movement.RecordAssignment(ctx, tx, replacementDevice, assignment.Employee, executedByID)
		if err != nil {
			return err
		}
		notify = append(notify, notifyReplacement, notifyAssignment)
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ConflictErrorf("device %s is already assigned", replacementDevice.AssetCode)
	}
	if err != nil {
		return nil, err
	}
	for _, fn := range notify {
		fn()
	}

	return s.repo.FindByIDWithRelations(ctx, replacement.ID)
}

// Cancel 取消待执行的更换单，原分配保持在用
func (s *ReplacementService) Cancel(ctx context.Context, replacementID uint, reason string) error {
	replacement, err := s.repo.FindByID(ctx, replacementID)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFoundErrorf("replacement %d not found", replacementID)
	}
	if err != nil {
		return err
	}
	if !replacement.IsPending() {
		return InvalidStateErrorf("replacement %d is not pending", replacementID)
	}

	cancelledState, err := s.catalog.ResolveReplacementState(ctx, entity.ReplacementStateCancelled)
	if err != nil {
		return err
	}

	detail := replacement.ReasonDetail
	if reason != "" {
		detail = fmt.Sprintf("%s | Cancelado: %s", detail, reason)
	}
	return s.repo.Update(ctx, replacement.ID, map[string]interface{}{
		"state_id":      cancelledState.ID,
		"reason_detail": detail,
	})
}

func originalAssetCode(a *entity.Assignment) string {
	if a.Device != nil {
		return a.Device.AssetCode
	}
	return fmt.Sprintf("#%d", a.DeviceID)
}
