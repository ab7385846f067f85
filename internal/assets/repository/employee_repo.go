package repository

import (
	"context"
	"errors"

	"github.com/bluepine/itam/internal/assets/entity"
	"gorm.io/gorm"
)

// EmployeeRepository 员工仓库
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// FindAll 员工列表
func (r *EmployeeRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Employee, int64, error) {
	var items []entity.Employee
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Employee{})

	if state := filters["state"]; state != "" {
		query = query.Joins("JOIN cat_employee_states ON cat_employee_states.id = employees.state_id").
			Where("cat_employee_states.code = ?", state)
	}
	if areaID := filters["area_id"]; areaID != "" {
		query = query.Where("area_id = ?", areaID)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("code LIKE ? OR email LIKE ? OR first_name LIKE ? OR last_name LIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("State").
		Order("code ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 按ID查找员工
func (r *EmployeeRepository) FindByID(ctx context.Context, id uint) (*entity.Employee, error) {
	var e entity.Employee
	err := r.db.WithContext(ctx).
		Preload("State").
		Where("id = ?", id).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindByCode 按员工编码查找
func (r *EmployeeRepository) FindByCode(ctx context.Context, code string) (*entity.Employee, error) {
	var e entity.Employee
	err := r.db.WithContext(ctx).
		Preload("State").
		Where("code = ?", code).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// ExistsByCode 员工编码是否已占用
func (r *EmployeeRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Employee{}).
		Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

// ExistsByEmail 邮箱是否已占用
func (r *EmployeeRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Employee{}).
		Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// Create 新建员工
func (r *EmployeeRepository) Create(ctx context.Context, e *entity.Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// Update 更新员工指定字段
func (r *EmployeeRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&entity.Employee{}).Where("id = ?", id).Updates(updates).Error
}

// UserRepository 操作员账号仓库
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID 按ID查找操作员
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var u entity.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByUsername 按用户名查找操作员
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var u entity.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create 新建操作员
func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}
