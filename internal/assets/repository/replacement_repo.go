package repository

import (
	"context"
	"errors"

	"github.com/bluepine/itam/internal/assets/entity"
	"gorm.io/gorm"
)

// ReplacementRepository 替换申请仓库
type ReplacementRepository struct {
	db *gorm.DB
}

func NewReplacementRepository(db *gorm.DB) *ReplacementRepository {
	return &ReplacementRepository{db: db}
}

func replacementPreloads(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Assignment").
		Preload("Assignment.State").
		Preload("OriginalDevice").
		Preload("OriginalDevice.State").
		Preload("ReplacementDevice").
		Preload("ReplacementDevice.State").
		Preload("Employee").
		Preload("Reason").
		Preload("RegisteredBy").
		Preload("State")
}

// FindAll 替换申请列表
func (r *ReplacementRepository) FindAll(ctx context.Context, page, pageSize int) ([]entity.Replacement, int64, error) {
	var items []entity.Replacement
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Replacement{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := replacementPreloads(query).
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindPending 待执行的替换申请
func (r *ReplacementRepository) FindPending(ctx context.Context) ([]entity.Replacement, error) {
	var items []entity.Replacement
	err := replacementPreloads(r.db.WithContext(ctx).
		Joins("JOIN cat_replacement_states ON cat_replacement_states.id = replacements.state_id").
		Where("cat_replacement_states.code = ?", entity.ReplacementStatePending)).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

// FindByID 按ID查找替换申请
func (r *ReplacementRepository) FindByID(ctx context.Context, id uint) (*entity.Replacement, error) {
	var rep entity.Replacement
	err := r.db.WithContext(ctx).Preload("State").Where("id = ?", id).First(&rep).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rep, nil
}

// FindByIDWithRelations 按ID查找替换申请并加载全部关联
func (r *ReplacementRepository) FindByIDWithRelations(ctx context.Context, id uint) (*entity.Replacement, error) {
	var rep entity.Replacement
	err := replacementPreloads(r.db.WithContext(ctx)).Where("id = ?", id).First(&rep).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rep, nil
}

// FindByEmployee 员工相关的替换申请
func (r *ReplacementRepository) FindByEmployee(ctx context.Context, employeeID uint) ([]entity.Replacement, error) {
	var items []entity.Replacement
	err := replacementPreloads(r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID)).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// Create 新建替换申请
func (r *ReplacementRepository) Create(ctx context.Context, rep *entity.Replacement) error {
	return r.db.WithContext(ctx).Create(rep).Error
}

// Update 更新替换申请指定字段
func (r *ReplacementRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&entity.Replacement{}).Where("id = ?", id).Updates(updates).Error
}
