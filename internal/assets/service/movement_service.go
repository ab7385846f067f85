package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bluepine/itam/internal/assets/entity"
	"github.com/bluepine/itam/internal/assets/repository"
	"github.com/bluepine/itam/internal/assets/sse"
	"gorm.io/gorm"
)

// MovementService 设备履历服务。写入接口带 tx 参数，
// 协调器在状态变更事务内调用，任一写失败则整个事务回滚。
type MovementService struct {
	repo    *repository.MovementRepository
	catalog *CatalogService
	hub     *sse.Hub
}

func NewMovementService(repo *repository.MovementRepository, catalog *CatalogService, hub *sse.Hub) *MovementService {
	return &MovementService{repo: repo, catalog: catalog, hub: hub}
}

// ListByDevice 设备履历分页查询
func (s *MovementService) ListByDevice(ctx context.Context, deviceID uint, page, pageSize int) ([]entity.DeviceMovement, int64, error) {
	return s.repo.FindByDevice(ctx, deviceID, page, pageSize)
}

// record 在事务内写入履历，返回的 notify 只能在事务提交后调用,
// 避免事务回滚时向订阅端推送不存在的履历。
func (s *MovementService) record(ctx context.Context, tx *gorm.DB, deviceID uint, typeCode string, userID uint, description, oldData, newData string) (func(), error) {
	mt, err := s.catalog.ResolveMovementType(ctx, typeCode)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, tx, &entity.DeviceMovement{
		DeviceID:       deviceID,
		MovementTypeID: mt.ID,
		UserID:         userID,
		Description:    description,
		OldData:        oldData,
		NewData:        newData,
		MovedAt:        time.Now(),
	}); err != nil {
		return nil, err
	}
	notify := func() {
		if s.hub != nil {
			s.hub.PublishMovement(deviceID, typeCode, description)
		}
	}
	return notify, nil
}

// RecordAssignment 登记分配履历
func (s *MovementService) RecordAssignment(ctx context.Context, tx *gorm.DB, device *entity.Device, employee *entity.Employee, userID uint) (func(), error) {
	desc := fmt.Sprintf("Asignado a %s", employee.FullName())
	return s.record(ctx, tx, device.ID, entity.MovementAssignment, userID, desc, "", "")
}

// RecordReturn 登记归还履历
func (s *MovementService) RecordReturn(ctx context.Context, tx *gorm.DB, device *entity.Device, employee *entity.Employee, userID uint) (func(), error) {
	desc := fmt.Sprintf("Devuelto por %s", employee.FullName())
	return s.record(ctx, tx, device.ID, entity.MovementReturn, userID, desc, "", "")
}

// RecordReplacement 对原设备登记替换履历
func (s *MovementService) RecordReplacement(ctx context.Context, tx *gorm.DB, original, replacement *entity.Device, employee *entity.Employee, userID uint, reason string) (func(), error) {
	desc := fmt.Sprintf("Reemplazado por %s. Motivo: %s. Empleado: %s",
		replacement.AssetCode, reason, employee.FullName())
	return s.record(ctx, tx, original.ID, entity.MovementReplacement, userID, desc, "", "")
}

// RecordStateChange 登记设备状态人工变更履历
func (s *MovementService) RecordStateChange(ctx context.Context, tx *gorm.DB, device *entity.Device, userID uint, oldCode, newCode string) (func(), error) {
	desc := fmt.Sprintf("Cambio de estado de %s a %s", oldCode, newCode)
	return s.record(ctx, tx, device.ID, entity.MovementStateChange, userID, desc, oldCode, newCode)
}
