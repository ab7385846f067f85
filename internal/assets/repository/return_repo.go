package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bluepine/itam/internal/assets/entity"
	"gorm.io/gorm"
)

// ReturnRepository 归还申请及行项仓库
type ReturnRepository struct {
	db *gorm.DB
}

func NewReturnRepository(db *gorm.DB) *ReturnRepository {
	return &ReturnRepository{db: db}
}

func returnPreloads(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Employee").
		Preload("Employee.State").
		Preload("State").
		Preload("RequestedBy").
		Preload("ReceivedBy")
}

// FindAll 归还申请列表
func (r *ReturnRepository) FindAll(ctx context.Context, page, pageSize int) ([]entity.ReturnRequest, int64, error) {
	var items []entity.ReturnRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ReturnRequest{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := returnPreloads(query).
		Preload("Items").
		Order("request_date DESC, id DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindPending 待处理的归还申请
func (r *ReturnRepository) FindPending(ctx context.Context, page, pageSize int) ([]entity.ReturnRequest, int64, error) {
	var items []entity.ReturnRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ReturnRequest{}).
		Joins("JOIN cat_request_states ON cat_request_states.id = return_requests.state_id").
		Where("cat_request_states.code = ?", entity.RequestStatePending)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := returnPreloads(query).
		Preload("Items").
		Order("scheduled_date ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindOverdue 逾期申请：无实际归还日期且计划日期已过
func (r *ReturnRepository) FindOverdue(ctx context.Context) ([]entity.ReturnRequest, error) {
	var items []entity.ReturnRequest
	err := returnPreloads(r.db.WithContext(ctx).
		Joins("JOIN cat_request_states ON cat_request_states.id = return_requests.state_id").
		Where("cat_request_states.code = ?", entity.RequestStatePending).
		Where("return_requests.actual_date IS NULL").
		Where("return_requests.scheduled_date < ?", time.Now())).
		Preload("Items").
		Order("scheduled_date ASC").
		Find(&items).Error
	return items, err
}

// FindByID 按ID查找归还申请
func (r *ReturnRepository) FindByID(ctx context.Context, id uint) (*entity.ReturnRequest, error) {
	var req entity.ReturnRequest
	err := r.db.WithContext(ctx).Preload("State").Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// FindByIDWithItems 按ID查找归还申请并加载行项
func (r *ReturnRepository) FindByIDWithItems(ctx context.Context, id uint) (*entity.ReturnRequest, error) {
	var req entity.ReturnRequest
	err := returnPreloads(r.db.WithContext(ctx)).
		Preload("Items").
		Preload("Items.Device").
		Preload("Items.Device.State").
		Preload("Items.Assignment").
		Preload("Items.Assignment.State").
		Preload("Items.Condition").
		Where("id = ?", id).
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// FindByEmployee 员工的归还申请
func (r *ReturnRepository) FindByEmployee(ctx context.Context, employeeID uint) ([]entity.ReturnRequest, error) {
	var items []entity.ReturnRequest
	err := returnPreloads(r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID)).
		Preload("Items").
		Order("request_date DESC").
		Find(&items).Error
	return items, err
}

// Create 新建归还申请
func (r *ReturnRepository) Create(ctx context.Context, req *entity.ReturnRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// Update 更新归还申请指定字段
func (r *ReturnRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&entity.ReturnRequest{}).Where("id = ?", id).Updates(updates).Error
}

// === 行项 ===

// FindItemByID 按ID查找行项（含父申请及其状态）
func (r *ReturnRepository) FindItemByID(ctx context.Context, id uint) (*entity.ReturnItem, error) {
	var item entity.ReturnItem
	err := r.db.WithContext(ctx).
		Preload("Request").
		Preload("Request.State").
		Preload("Device").
		Preload("Assignment").
		Preload("Condition").
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindItemsByRequest 申请下的全部行项
func (r *ReturnRepository) FindItemsByRequest(ctx context.Context, requestID uint) ([]entity.ReturnItem, error) {
	var items []entity.ReturnItem
	err := r.db.WithContext(ctx).
		Preload("Device").
		Preload("Device.State").
		Preload("Assignment").
		Preload("Condition").
		Where("request_id = ?", requestID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

// ExistsItem 设备是否已在该申请中
func (r *ReturnRepository) ExistsItem(ctx context.Context, requestID, deviceID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.ReturnItem{}).
		Where("request_id = ? AND device_id = ?", requestID, deviceID).
		Count(&count).Error
	return count > 0, err
}

// CountItems 申请下行项数量
func (r *ReturnRepository) CountItems(ctx context.Context, requestID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.ReturnItem{}).
		Where("request_id = ?", requestID).
		Count(&count).Error
	return count, err
}

// CreateItem 新增行项
func (r *ReturnRepository) CreateItem(ctx context.Context, item *entity.ReturnItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// UpdateItem 更新行项指定字段
func (r *ReturnRepository) UpdateItem(ctx context.Context, id uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&entity.ReturnItem{}).Where("id = ?", id).Updates(updates).Error
}

// DeleteItem 删除行项
func (r *ReturnRepository) DeleteItem(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.ReturnItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
