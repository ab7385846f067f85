package service

import (
	"context"
	"errors"
	"time"

	"github.com/bluepine/itam/internal/assets/entity"
	"github.com/bluepine/itam/internal/assets/repository"
	"gorm.io/gorm"
)

// EmployeeService 员工目录服务，主要供资格校验读取
type EmployeeService struct {
	repo    *repository.EmployeeRepository
	catalog *CatalogService
}

func NewEmployeeService(repo *repository.EmployeeRepository, catalog *CatalogService) *EmployeeService {
	return &EmployeeService{repo: repo, catalog: catalog}
}

// List 员工列表
func (s *EmployeeService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Employee, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get 按ID查询员工
func (s *EmployeeService) Get(ctx context.Context, id uint) (*entity.Employee, error) {
	e, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFoundErrorf("employee %d not found", id)
	}
	return e, err
}

// GetByCode 按工号查询员工
func (s *EmployeeService) GetByCode(ctx context.Context, code string) (*entity.Employee, error) {
	e, err := s.repo.FindByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFoundErrorf("employee %s not found", code)
	}
	return e, err
}

// CreateEmployeeInput 登记员工
type CreateEmployeeInput struct {
	Code             string    `json:"code" binding:"required"`
	FirstName        string    `json:"first_name" binding:"required"`
	LastName         string    `json:"last_name" binding:"required"`
	MaternalLastName string    `json:"maternal_last_name"`
	Email            string    `json:"email" binding:"required,email"`
	Phone            string    `json:"phone"`
	AreaID           uint      `json:"area_id" binding:"required"`
	JobTitleID       uint      `json:"job_title_id" binding:"required"`
	SiteID           uint      `json:"site_id" binding:"required"`
	HireDate         time.Time `json:"hire_date" binding:"required"`
}

// Create 登记新员工，初始状态为在职
func (s *EmployeeService) Create(ctx context.Context, in *CreateEmployeeInput) (*entity.Employee, error) {
	exists, err := s.repo.ExistsByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ConflictErrorf("employee code %s already exists", in.Code)
	}
	exists, err = s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ConflictErrorf("email %s already exists", in.Email)
	}

	activeState, err := s.catalog.ResolveEmployeeState(ctx, entity.EmployeeStateActive)
	if err != nil {
		return nil, err
	}

	employee := &entity.Employee{
		Code:             in.Code,
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		MaternalLastName: in.MaternalLastName,
		Email:            in.Email,
		Phone:            in.Phone,
		AreaID:           in.AreaID,
		JobTitleID:       in.JobTitleID,
		SiteID:           in.SiteID,
		HireDate:         in.HireDate,
		StateID:          activeState.ID,
	}
	err = s.repo.Create(ctx, employee)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ConflictErrorf("employee code or email already exists")
	}
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, employee.ID)
}

// UpdateEmployeeInput 修改员工信息。状态与离职日期不在此修改。
type UpdateEmployeeInput struct {
	FirstName        string `json:"first_name" binding:"required"`
	LastName         string `json:"last_name" binding:"required"`
	MaternalLastName string `json:"maternal_last_name"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone"`
	AreaID           uint   `json:"area_id" binding:"required"`
	JobTitleID       uint   `json:"job_title_id" binding:"required"`
	SiteID           uint   `json:"site_id" binding:"required"`
}

// Update 修改员工信息
func (s *EmployeeService) Update(ctx context.Context, id uint, in *UpdateEmployeeInput) (*entity.Employee, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFoundErrorf("employee %d not found", id)
	}
	if err != nil {
		return nil, err
	}

	if in.Email != employee.Email {
		exists, err := s.repo.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ConflictErrorf("email %s already exists", in.Email)
		}
	}

	err = s.repo.Update(ctx, id, map[string]interface{}{
		"first_name":         in.FirstName,
		"last_name":          in.LastName,
		"maternal_last_name": in.MaternalLastName,
		"email":              in.Email,
		"phone":              in.Phone,
		"area_id":            in.AreaID,
		"job_title_id":       in.JobTitleID,
		"site_id":            in.SiteID,
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ConflictErrorf("email %s already exists", in.Email)
	}
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// Terminate 登记员工离职。离职后员工不再具备接收设备资格，
// 其在用分配通过归还申请流程另行回收。
func (s *EmployeeService) Terminate(ctx context.Context, id uint, terminationDate time.Time) (*entity.Employee, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFoundErrorf("employee %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	if !employee.IsActive() {
		return nil, InvalidStateErrorf("employee %s is not active", employee.Code)
	}
	if terminationDate.Before(employee.HireDate) {
		return nil, ValidationErrorf("termination date must not precede the hire date")
	}

	terminatedState, err := s.catalog.ResolveEmployeeState(ctx, entity.EmployeeStateTerminated)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, map[string]interface{}{
		"state_id":         terminatedState.ID,
		"termination_date": terminationDate,
	}); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}
