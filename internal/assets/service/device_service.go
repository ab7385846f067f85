package service

import (
	"context"
	"errors"
	"time"

	"github.com/bluepine/itam/internal/assets/entity"
	"github.com/bluepine/itam/internal/assets/repository"
	"gorm.io/gorm"
)

// DeviceService 设备登记服务。设备状态字段由协调器统一改写：
// 分配/归还/更换走各自的事务，运维性状态变更走 UpdateState。
type DeviceService struct {
	repo        *repository.DeviceRepository
	catalogRepo *repository.CatalogRepository
	catalog     *CatalogService
	movement    *MovementService
	db          *gorm.DB
}

func NewDeviceService(
	repo *repository.DeviceRepository,
	catalogRepo *repository.CatalogRepository,
	catalog *CatalogService,
	movement *MovementService,
	db *gorm.DB,
) *DeviceService {
	return &DeviceService{
		repo:        repo,
		catalogRepo: catalogRepo,
		catalog:     catalog,
		movement:    movement,
		db:          db,
	}
}

// List 设备列表
func (s *DeviceService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Device, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// ListAvailable 可分配设备列表
func (s *DeviceService) ListAvailable(ctx context.Context) ([]entity.Device, error) {
	return s.repo.FindAvailable(ctx)
}

// Get 按ID查询设备
func (s *DeviceService) Get(ctx context.Context, id uint) (*entity.Device, error) {
	d, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFoundErrorf("device %d not found", id)
	}
	return d, err
}

// GetByAssetCode 按资产编码查询设备
func (s *DeviceService) GetByAssetCode(ctx context.Context, code string) (*entity.Device, error) {
	d, err := s.repo.FindByAssetCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFoundErrorf("device %s not found", code)
	}
	return d, err
}

// CreateDeviceInput 登记设备
type CreateDeviceInput struct {
	AssetCode        string     `json:"asset_code" binding:"required"`
	SerialNumber     *string    `json:"serial_number"`
	DeviceTypeID     uint       `json:"device_type_id" binding:"required"`
	BrandID          uint       `json:"brand_id" binding:"required"`
	Model            string     `json:"model"`
	Specs            string     `json:"specs"`
	AcquiredAt       *time.Time `json:"acquired_at"`
	AcquisitionValue *float64   `json:"acquisition_value"`
	Notes            string     `json:"notes"`
}

// Create 登记新设备，初始状态为可分配
func (s *DeviceService) Create(ctx context.Context, in *CreateDeviceInput) (*entity.Device, error) {
	exists, err := s.repo.ExistsByAssetCode(ctx, in.AssetCode)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ConflictErrorf("asset code %s already exists", in.AssetCode)
	}
	if in.SerialNumber != nil && *in.SerialNumber != "" {
		exists, err := s.repo.ExistsBySerialNumber(ctx, *in.SerialNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ConflictErrorf("serial number %s already exists", *in.SerialNumber)
		}
	}

	availableState, err := s.catalog.ResolveDeviceState(ctx, entity.DeviceStateAvailable)
	if err != nil {
		return nil, err
	}

	device := &entity.Device{
		AssetCode:        in.AssetCode,
		SerialNumber:     in.SerialNumber,
		DeviceTypeID:     in.DeviceTypeID,
		BrandID:          in.BrandID,
		Model:            in.Model,
		StateID:          availableState.ID,
		Specs:            in.Specs,
		AcquiredAt:       in.AcquiredAt,
		AcquisitionValue: in.AcquisitionValue,
		Notes:            in.Notes,
	}
	err = s.repo.Create(ctx, device)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ConflictErrorf("asset code %s already exists", in.AssetCode)
	}
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, device.ID)
}

// UpdateDeviceInput 修改设备基础信息。状态不在此修改。
type UpdateDeviceInput struct {
	SerialNumber     *string    `json:"serial_number"`
	DeviceTypeID     uint       `json:"device_type_id" binding:"required"`
	BrandID          uint       `json:"brand_id" binding:"required"`
	Model            string     `json:"model"`
	Specs            string     `json:"specs"`
	AcquiredAt       *time.Time `json:"acquired_at"`
	AcquisitionValue *float64   `json:"acquisition_value"`
	Notes            string     `json:"notes"`
}

// Update 修改设备基础信息
func (s *DeviceService) Update(ctx context.Context, id uint, in *UpdateDeviceInput) (*entity.Device, error) {
	device, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFoundErrorf("device %d not found", id)
	}
	if err != nil {
		return nil, err
	}

	if in.SerialNumber != nil && *in.SerialNumber != "" {
		if device.SerialNumber == nil || *device.SerialNumber != *in.SerialNumber {
			exists, err := s.repo.ExistsBySerialNumber(ctx, *in.SerialNumber)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, ConflictErrorf("serial number %s already exists", *in.SerialNumber)
			}
		}
	}

	err = s.repo.Update(ctx, id, map[string]interface{}{
		"serial_number":     in.SerialNumber,
		"device_type_id":    in.DeviceTypeID,
		"brand_id":          in.BrandID,
		"model":             in.Model,
		"specs":             in.Specs,
		"acquired_at":       in.AcquiredAt,
		"acquisition_value": in.AcquisitionValue,
		"notes":             in.Notes,
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ConflictErrorf("serial number already exists")
	}
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// UpdateState 运维性状态变更（送修、报废、修复归库等），写入变更履历。
// 有在用分配的设备不能在此改状态，必须先归还或取消分配。
func (s *DeviceService) UpdateState(ctx context.Context, id uint, stateCode string, userID uint) (*entity.Device, error) {
	device, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFoundErrorf("device %d not found", id)
	}
	if err != nil {
		return nil, err
	}

	// 在用状态只能由分配、更换、归还事务写入
	if stateCode == entity.DeviceStateAssigned {
		return nil, ValidationErrorf("device state %s is set by assignment operations", stateCode)
	}

	newState, err := s.catalogRepo.DeviceStateByCode(ctx, stateCode)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ValidationErrorf("device state %s not found", stateCode)
	}
	if err != nil {
		return nil, err
	}

	if device.State != nil && device.State.Code == entity.DeviceStateAssigned {
		return nil, InvalidStateErrorf("device %s has an active assignment", device.AssetCode)
	}
	if device.StateID == newState.ID {
		return s.repo.FindByID(ctx, id)
	}

	oldCode := ""
	if device.State != nil {
		oldCode = device.State.Code
	}

	var notify func()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Device{}).
			Where("id = ?", id).
			Update("state_id", newState.ID).Error; err != nil {
			return err
		}
		notify, err = s.movement.RecordStateChange(ctx, tx, device, userID, oldCode, newState.Code)
		return err
	})
	if err != nil {
		return nil, err
	}
	notify()
	return s.repo.FindByID(ctx, id)
}

// Delete 删除设备。被分配、更换或归还记录引用过的设备不可删除。
func (s *DeviceService) Delete(ctx context.Context, id uint) error {
	referenced, err := s.repo.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return ConflictErrorf("device %d has lifecycle history and cannot be deleted", id)
	}
	err = s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFoundErrorf("device %d not found", id)
	}
	return err
}
