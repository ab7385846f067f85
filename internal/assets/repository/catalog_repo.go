package repository

import (
	"context"
	"errors"

	"github.com/bluepine/itam/internal/assets/entity"
	"gorm.io/gorm"
)

// CatalogRepository 目录表仓库。所有业务状态编码都经这里解析，
// 业务逻辑不直接比较硬编码字面量。
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) findByCode(ctx context.Context, dst interface{}, code string) error {
	err := r.db.WithContext(ctx).Where("code = ? AND active = ?", code, true).First(dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// DeviceStateByCode 按编码解析设备状态
func (r *CatalogRepository) DeviceStateByCode(ctx context.Context, code string) (*entity.DeviceState, error) {
	var s entity.DeviceState
	if err := r.findByCode(ctx, &s, code); err != nil {
		return nil, err
	}
	return &s, nil
}

// EmployeeStateByCode 按编码解析员工状态
func (r *CatalogRepository) EmployeeStateByCode(ctx context.Context, code string) (*entity.EmployeeState, error) {
	var s entity.EmployeeState
	if err := r.findByCode(ctx, &s, code); err != nil {
		return nil, err
	}
	return &s, nil
}

// AssignmentStateByCode 按编码解析分配状态
func (r *CatalogRepository) AssignmentStateByCode(ctx context.Context, code string) (*entity.AssignmentState, error) {
	var s entity.AssignmentState
	if err := r.findByCode(ctx, &s, code); err != nil {
		return nil, err
	}
	return &s, nil
}

// ReplacementStateByCode 按编码解析替换状态
func (r *CatalogRepository) ReplacementStateByCode(ctx context.Context, code string) (*entity.ReplacementState, error) {
	var s entity.ReplacementState
	if err := r.findByCode(ctx, &s, code); err != nil {
		return nil, err
	}
	return &s, nil
}

// RequestStateByCode 按编码解析归还申请状态
func (r *CatalogRepository) RequestStateByCode(ctx context.Context, code string) (*entity.RequestState, error) {
	var s entity.RequestState
	if err := r.findByCode(ctx, &s, code); err != nil {
		return nil, err
	}
	return &s, nil
}

// MovementTypeByCode 按编码解析履历移动类型
func (r *CatalogRepository) MovementTypeByCode(ctx context.Context, code string) (*entity.MovementType, error) {
	var s entity.MovementType
	if err := r.findByCode(ctx, &s, code); err != nil {
		return nil, err
	}
	return &s, nil
}

// ReturnConditionByID 按ID解析归还状况
func (r *CatalogRepository) ReturnConditionByID(ctx context.Context, id uint) (*entity.ReturnCondition, error) {
	var c entity.ReturnCondition
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ReplacementReasonByID 按ID解析替换原因
func (r *CatalogRepository) ReplacementReasonByID(ctx context.Context, id uint) (*entity.ReplacementReason, error) {
	var reason entity.ReplacementReason
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&reason).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reason, nil
}

// ListDeviceStates 设备状态列表（含停用项时 includeInactive 为真）
func (r *CatalogRepository) ListDeviceStates(ctx context.Context, includeInactive bool) ([]entity.DeviceState, error) {
	var items []entity.DeviceState
	query := r.db.WithContext(ctx).Order("code ASC")
	if !includeInactive {
		query = query.Where("active = ?", true)
	}
	return items, query.Find(&items).Error
}

// ListReturnConditions 归还状况列表
func (r *CatalogRepository) ListReturnConditions(ctx context.Context) ([]entity.ReturnCondition, error) {
	var items []entity.ReturnCondition
	return items, r.db.WithContext(ctx).Where("active = ?", true).Order("code ASC").Find(&items).Error
}

// ListReplacementReasons 替换原因列表
func (r *CatalogRepository) ListReplacementReasons(ctx context.Context) ([]entity.ReplacementReason, error) {
	var items []entity.ReplacementReason
	return items, r.db.WithContext(ctx).Where("active = ?", true).Order("code ASC").Find(&items).Error
}

// ListBrands 品牌列表
func (r *CatalogRepository) ListBrands(ctx context.Context) ([]entity.Brand, error) {
	var items []entity.Brand
	return items, r.db.WithContext(ctx).Where("active = ?", true).Order("name ASC").Find(&items).Error
}

// ListDeviceTypes 设备类型列表
func (r *CatalogRepository) ListDeviceTypes(ctx context.Context) ([]entity.DeviceType, error) {
	var items []entity.DeviceType
	return items, r.db.WithContext(ctx).Where("active = ?", true).Order("name ASC").Find(&items).Error
}

// CreateBrand 新建品牌
func (r *CatalogRepository) CreateBrand(ctx context.Context, b *entity.Brand) error {
	return r.db.WithContext(ctx).Create(b).Error
}

// CreateDeviceType 新建设备类型
func (r *CatalogRepository) CreateDeviceType(ctx context.Context, t *entity.DeviceType) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// UpdateBrand 修改品牌
func (r *CatalogRepository) UpdateBrand(ctx context.Context, id uint, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&entity.Brand{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateDeviceType 修改设备类型
func (r *CatalogRepository) UpdateDeviceType(ctx context.Context, id uint, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&entity.DeviceType{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateBrand 品牌软删除。目录条目只停用不物理删除，
// 以保持与历史设备的引用完整性。
func (r *CatalogRepository) DeactivateBrand(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&entity.Brand{}).Where("id = ?", id).Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateDeviceType 设备类型软删除
func (r *CatalogRepository) DeactivateDeviceType(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&entity.DeviceType{}).Where("id = ?", id).Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
