package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bluepine/itam/internal/assets/entity"
	"github.com/bluepine/itam/internal/assets/repository"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// catalogCacheTTL 目录条目几乎不变，缓存短 TTL 足够
const catalogCacheTTL = 10 * time.Minute

// CatalogService 目录解析服务。每个业务操作开始时在这里按编码解析一次
// 目录条目，业务逻辑深处不再出现字面量比较。必需编码缺失视为部署错误。
type CatalogService struct {
	repo *repository.CatalogRepository
	rdb  *redis.Client
}

func NewCatalogService(repo *repository.CatalogRepository, rdb *redis.Client) *CatalogService {
	return &CatalogService{repo: repo, rdb: rdb}
}

func catalogCacheKey(table, code string) string {
	return fmt.Sprintf("itam:catalog:%s:%s", table, code)
}

// cached 先查 Redis，未命中时回源并写缓存。rdb 为 nil 时直接回源。
func (s *CatalogService) cached(ctx context.Context, table, code string, dst interface{}, load func() (interface{}, error)) error {
	key := catalogCacheKey(table, code)

	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Result(); err == nil {
			if json.Unmarshal([]byte(raw), dst) == nil {
				return nil
			}
		}
	}

	loaded, err := load()
	if err != nil {
		return err
	}

	buf, err := json.Marshal(loaded)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(buf, dst); err != nil {
		return err
	}

	if s.rdb != nil {
		s.rdb.Set(ctx, key, buf, catalogCacheTTL)
	}
	return nil
}

// ResolveDeviceState 解析设备状态编码
func (s *CatalogService) ResolveDeviceState(ctx context.Context, code string) (*entity.DeviceState, error) {
	var state entity.DeviceState
	err := s.cached(ctx, "device_states", code, &state, func() (interface{}, error) {
		return s.repo.DeviceStateByCode(ctx, code)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, CatalogMisconfiguredErrorf("device state %s is not configured", code)
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// ResolveEmployeeState 解析员工状态编码
func (s *CatalogService) ResolveEmployeeState(ctx context.Context, code string) (*entity.EmployeeState, error) {
	var state entity.EmployeeState
	err := s.cached(ctx, "employee_states", code, &state, func() (interface{}, error) {
		return s.repo.EmployeeStateByCode(ctx, code)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, CatalogMisconfiguredErrorf("employee state %s is not configured", code)
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// ResolveAssignmentState 解析分配状态编码
func (s *CatalogService) ResolveAssignmentState(ctx context.Context, code string) (*entity.AssignmentState, error) {
	var state entity.AssignmentState
	err := s.cached(ctx, "assignment_states", code, &state, func() (interface{}, error) {
		return s.repo.AssignmentStateByCode(ctx, code)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, CatalogMisconfiguredErrorf("assignment state %s is not configured", code)
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// ResolveReplacementState 解析替换状态编码
func (s *CatalogService) ResolveReplacementState(ctx context.Context, code string) (*entity.ReplacementState, error) {
	var state entity.ReplacementState
	err := s.cached(ctx, "replacement_states", code, &state, func() (interface{}, error) {
		return s.repo.ReplacementStateByCode(ctx, code)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, CatalogMisconfiguredErrorf("replacement state %s is not configured", code)
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// ResolveRequestState 解析归还申请状态编码
func (s *CatalogService) ResolveRequestState(ctx context.Context, code string) (*entity.RequestState, error) {
	var state entity.RequestState
	err := s.cached(ctx, "request_states", code, &state, func() (interface{}, error) {
		return s.repo.RequestStateByCode(ctx, code)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, CatalogMisconfiguredErrorf("request state %s is not configured", code)
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// ResolveMovementType 解析履历移动类型编码
func (s *CatalogService) ResolveMovementType(ctx context.Context, code string) (*entity.MovementType, error) {
	var mt entity.MovementType
	err := s.cached(ctx, "movement_types", code, &mt, func() (interface{}, error) {
		return s.repo.MovementTypeByCode(ctx, code)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, CatalogMisconfiguredErrorf("movement type %s is not configured", code)
	}
	if err != nil {
		return nil, err
	}
	return &mt, nil
}

// ListDeviceStates 设备状态目录
func (s *CatalogService) ListDeviceStates(ctx context.Context, includeInactive bool) ([]entity.DeviceState, error) {
	return s.repo.ListDeviceStates(ctx, includeInactive)
}

// ListReturnConditions 归还状况目录
func (s *CatalogService) ListReturnConditions(ctx context.Context) ([]entity.ReturnCondition, error) {
	return s.repo.ListReturnConditions(ctx)
}

// ListReplacementReasons 替换原因目录
func (s *CatalogService) ListReplacementReasons(ctx context.Context) ([]entity.ReplacementReason, error) {
	return s.repo.ListReplacementReasons(ctx)
}

// ListBrands 品牌目录
func (s *CatalogService) ListBrands(ctx context.Context) ([]entity.Brand, error) {
	return s.repo.ListBrands(ctx)
}

// ListDeviceTypes 设备类型目录
func (s *CatalogService) ListDeviceTypes(ctx context.Context) ([]entity.DeviceType, error) {
	return s.repo.ListDeviceTypes(ctx)
}

// CreateBrand 新建品牌
func (s *CatalogService) CreateBrand(ctx context.Context, code, name string) (*entity.Brand, error) {
	b := &entity.Brand{Code: code, Name: name, Active: true}
	if err := s.repo.CreateBrand(ctx, b); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ConflictErrorf("brand code %s already exists", code)
		}
		return nil, err
	}
	return b, nil
}

// CreateDeviceType 新建设备类型
func (s *CatalogService) CreateDeviceType(ctx context.Context, code, name, description string) (*entity.DeviceType, error) {
	t := &entity.DeviceType{Code: code, Name: name, Description: description, Active: true}
	if err := s.repo.CreateDeviceType(ctx, t); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ConflictErrorf("device type code %s already exists", code)
		}
		return nil, err
	}
	return t, nil
}

// UpdateBrand 修改品牌名称
func (s *CatalogService) UpdateBrand(ctx context.Context, id uint, name string) error {
	err := s.repo.UpdateBrand(ctx, id, map[string]interface{}{"name": name})
	if errors.Is(err, repository.ErrNotFound) {
		return NotFoundErrorf("brand %d not found", id)
	}
	return err
}

// UpdateDeviceType 修改设备类型名称与描述
func (s *CatalogService) UpdateDeviceType(ctx context.Context, id uint, name, description string) error {
	err := s.repo.UpdateDeviceType(ctx, id, map[string]interface{}{
		"name":        name,
		"description": description,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return NotFoundErrorf("device type %d not found", id)
	}
	return err
}

// DeactivateBrand 停用品牌（软删除）
func (s *CatalogService) DeactivateBrand(ctx context.Context, id uint) error {
	err := s.repo.DeactivateBrand(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFoundErrorf("brand %d not found", id)
	}
	return err
}

// DeactivateDeviceType 停用设备类型（软删除）
func (s *CatalogService) DeactivateDeviceType(ctx context.Context, id uint) error {
	err := s.repo.DeactivateDeviceType(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFoundErrorf("device type %d not found", id)
	}
	return err
}
