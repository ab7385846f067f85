package repository

import (
	"context"

	"github.com/bluepine/itam/internal/assets/entity"
	"gorm.io/gorm"
)

// MovementRepository 设备履历仓库。履历只追加、只按设备查询，
// 协调器从不读取它做判断。
type MovementRepository struct {
	db *gorm.DB
}

func NewMovementRepository(db *gorm.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

// Create 写入一条履历。传入 tx 时在该事务内写入，
// 保证履历与它记录的状态变更同生共死。
func (r *MovementRepository) Create(ctx context.Context, tx *gorm.DB, m *entity.DeviceMovement) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).Create(m).Error
}

// FindByDevice 设备履历，按时间倒序分页
func (r *MovementRepository) FindByDevice(ctx context.Context, deviceID uint, page, pageSize int) ([]entity.DeviceMovement, int64, error) {
	var items []entity.DeviceMovement
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.DeviceMovement{}).
		Where("device_id = ?", deviceID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("MovementType").
		Preload("User").
		Order("moved_at DESC, id DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}
