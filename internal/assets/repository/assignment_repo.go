package repository

import (
	"context"
	"errors"

	"github.com/bluepine/itam/internal/assets/entity"
	"gorm.io/gorm"
)

// AssignmentRepository 分配台账仓库
type AssignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func assignmentPreloads(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Device").
		Preload("Device.State").
		Preload("Device.Brand").
		Preload("Device.DeviceType").
		Preload("Employee").
		Preload("Employee.State").
		Preload("AssignedBy").
		Preload("ReceivedBy").
		Preload("State")
}

// FindAll 分配列表
func (r *AssignmentRepository) FindAll(ctx context.Context, page, pageSize int) ([]entity.Assignment, int64, error) {
	var items []entity.Assignment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Assignment{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := assignmentPreloads(query).
		Order("assigned_at DESC, id DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindAllActive 所有在用分配
func (r *AssignmentRepository) FindAllActive(ctx context.Context) ([]entity.Assignment, error) {
	var items []entity.Assignment
	err := assignmentPreloads(r.db.WithContext(ctx).
		Joins("JOIN cat_assignment_states ON cat_assignment_states.id = assignments.state_id").
		Where("cat_assignment_states.code = ?", entity.AssignmentStateActive)).
		Order("assigned_at DESC").
		Find(&items).Error
	return items, err
}

// FindByID 按ID查找分配
func (r *AssignmentRepository) FindByID(ctx context.Context, id uint) (*entity.Assignment, error) {
	var a entity.Assignment
	err := r.db.WithContext(ctx).Preload("State").Where("id = ?", id).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByIDWithRelations 按ID查找分配并加载全部关联
func (r *AssignmentRepository) FindByIDWithRelations(ctx context.Context, id uint) (*entity.Assignment, error) {
	var a entity.Assignment
	err := assignmentPreloads(r.db.WithContext(ctx)).Where("id = ?", id).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindActiveByDevice 设备当前的在用分配，没有则返回 ErrNotFound
func (r *AssignmentRepository) FindActiveByDevice(ctx context.Context, deviceID uint) (*entity.Assignment, error) {
	var a entity.Assignment
	err := assignmentPreloads(r.db.WithContext(ctx).
		Joins("JOIN cat_assignment_states ON cat_assignment_states.id = assignments.state_id").
		Where("assignments.device_id = ?", deviceID).
		Where("cat_assignment_states.code = ?", entity.AssignmentStateActive)).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByEmployee 员工的分配记录（全部状态）
func (r *AssignmentRepository) FindByEmployee(ctx context.Context, employeeID uint) ([]entity.Assignment, error) {
	var items []entity.Assignment
	err := assignmentPreloads(r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID)).
		Order("assigned_at DESC").
		Find(&items).Error
	return items, err
}

// FindActiveByEmployee 员工的在用分配
func (r *AssignmentRepository) FindActiveByEmployee(ctx context.Context, employeeID uint) ([]entity.Assignment, error) {
	var items []entity.Assignment
	err := assignmentPreloads(r.db.WithContext(ctx).
		Joins("JOIN cat_assignment_states ON cat_assignment_states.id = assignments.state_id").
		Where("assignments.employee_id = ?", employeeID).
		Where("cat_assignment_states.code = ?", entity.AssignmentStateActive)).
		Order("assigned_at DESC").
		Find(&items).Error
	return items, err
}

// FindByDevice 设备的分配历史
func (r *AssignmentRepository) FindByDevice(ctx context.Context, deviceID uint) ([]entity.Assignment, error) {
	var items []entity.Assignment
	err := assignmentPreloads(r.db.WithContext(ctx).
		Where("device_id = ?", deviceID)).
		Order("assigned_at DESC").
		Find(&items).Error
	return items, err
}

// CountActiveByEmployee 员工当前持有设备数
func (r *AssignmentRepository) CountActiveByEmployee(ctx context.Context, employeeID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Assignment{}).
		Joins("JOIN cat_assignment_states ON cat_assignment_states.id = assignments.state_id").
		Where("assignments.employee_id = ?", employeeID).
		Where("cat_assignment_states.code = ?", entity.AssignmentStateActive).
		Count(&count).Error
	return count, err
}

// Create 新建分配
func (r *AssignmentRepository) Create(ctx context.Context, a *entity.Assignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// Update 更新分配
func (r *AssignmentRepository) Update(ctx context.Context, a *entity.Assignment) error {
	return r.db.WithContext(ctx).Save(a).Error
}
