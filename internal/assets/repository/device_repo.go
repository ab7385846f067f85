package repository

import (
	"context"
	"errors"

	"github.com/bluepine/itam/internal/assets/entity"
	"gorm.io/gorm"
)

// DeviceRepository 设备仓库
type DeviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// FindAll 设备列表，支持按状态/类型/品牌过滤与编码模糊搜索
func (r *DeviceRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Device, int64, error) {
	var items []entity.Device
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Device{})

	if state := filters["state"]; state != "" {
		query = query.Joins("JOIN cat_device_states ON cat_device_states.id = devices.state_id").
			Where("cat_device_states.code = ?", state)
	}
	if typeID := filters["type_id"]; typeID != "" {
		query = query.Where("device_type_id = ?", typeID)
	}
	if brandID := filters["brand_id"]; brandID != "" {
		query = query.Where("brand_id = ?", brandID)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("asset_code LIKE ? OR serial_number LIKE ? OR model LIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("DeviceType").
		Preload("Brand").
		Preload("State").
		Order("asset_code ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindAvailable 可分配设备列表（状态目录标志派生）
func (r *DeviceRepository) FindAvailable(ctx context.Context) ([]entity.Device, error) {
	var items []entity.Device
	err := r.db.WithContext(ctx).
		Joins("JOIN cat_device_states ON cat_device_states.id = devices.state_id").
		Where("cat_device_states.available_for_assignment = ?", true).
		Preload("DeviceType").
		Preload("Brand").
		Preload("State").
		Order("asset_code ASC").
		Find(&items).Error
	return items, err
}

// FindByID 按ID查找设备（含目录关联）
func (r *DeviceRepository) FindByID(ctx context.Context, id uint) (*entity.Device, error) {
	var d entity.Device
	err := r.db.WithContext(ctx).
		Preload("DeviceType").
		Preload("Brand").
		Preload("State").
		Where("id = ?", id).
		First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindByAssetCode 按资产编码查找设备
func (r *DeviceRepository) FindByAssetCode(ctx context.Context, code string) (*entity.Device, error) {
	var d entity.Device
	err := r.db.WithContext(ctx).
		Preload("DeviceType").
		Preload("Brand").
		Preload("State").
		Where("asset_code = ?", code).
		First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ExistsByAssetCode 资产编码是否已占用
func (r *DeviceRepository) ExistsByAssetCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Device{}).
		Where("asset_code = ?", code).Count(&count).Error
	return count > 0, err
}

// ExistsBySerialNumber 序列号是否已占用
func (r *DeviceRepository) ExistsBySerialNumber(ctx context.Context, serial string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Device{}).
		Where("serial_number = ?", serial).Count(&count).Error
	return count > 0, err
}

// IsReferenced 设备是否被分配/替换/归还行项引用。被引用的设备禁止硬删除。
func (r *DeviceRepository) IsReferenced(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Assignment{}).
		Where("device_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.WithContext(ctx).Model(&entity.Replacement{}).
		Where("original_device_id = ? OR replacement_device_id = ?", id, id).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.WithContext(ctx).Model(&entity.ReturnItem{}).
		Where("device_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create 新建设备
func (r *DeviceRepository) Create(ctx context.Context, d *entity.Device) error {
	return r.db.WithContext(ctx).Create(d).Error
}

// Update 更新设备指定字段
func (r *DeviceRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&entity.Device{}).Where("id = ?", id).Updates(updates).Error
}

// Delete 删除设备。调用方必须先检查 IsReferenced。
func (r *DeviceRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Device{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
