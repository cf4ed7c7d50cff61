package services

import (
	"context"
	"errors"
	"net/http"

	"docvault/models"
	"docvault/repositories"

	"gorm.io/gorm"
)

type DepartmentService interface {
	List(ctx context.Context, activeOnly bool) ([]models.Department, error)
	Get(ctx context.Context, departmentID uint) (models.Department, error)
	Create(ctx context.Context, principal Principal, name string) (models.Department, error)
	Rename(ctx context.Context, principal Principal, departmentID uint, name string) (models.Department, error)
	// Deactivate soft-disables the department. Departments are never hard
	// deleted while folders reference them.
	Deactivate(ctx context.Context, principal Principal, departmentID uint) error
	Reactivate(ctx context.Context, principal Principal, departmentID uint) error
}

type departmentService struct {
	departments repositories.DepartmentRepository
	folders     repositories.FolderRepository
}

func NewDepartmentService(departments repositories.DepartmentRepository, folders repositories.FolderRepository) DepartmentService {
	return &departmentService{departments: departments, folders: folders}
}

func (s *departmentService) List(ctx context.Context, activeOnly bool) ([]models.Department, error) {
	departments, err := s.departments.List(ctx, nil, activeOnly)
	if err != nil {
		return nil, newAppError(http.StatusInternalServerError, "failed to list departments", err)
	}
	return departments, nil
}

func (s *departmentService) Get(ctx context.Context, departmentID uint) (models.Department, error) {
	department, err := s.departments.GetByID(ctx, nil, departmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Department{}, newNotFound("department not found")
		}
		return models.Department{}, newAppError(http.StatusInternalServerError, "failed to load department", err)
	}
	return department, nil
}

func (s *departmentService) Create(ctx context.Context, principal Principal, name string) (models.Department, error) {
	if !principal.IsAdmin() {
		return models.Department{}, newPermissionDenied("admin role required")
	}
	if name == "" {
		return models.Department{}, newInvalid("department name is required")
	}

	count, err := s.departments.CountByName(ctx, nil, name, 0)
	if err != nil {
		return models.Department{}, newAppError(http.StatusInternalServerError, "failed to check department name", err)
	}
	if count > 0 {
		return models.Department{}, newConflict("a department with this name already exists")
	}

	department := models.Department{Name: name, CreatedBy: principal.UserID}
	if err := s.departments.Create(ctx, nil, &department); err != nil {
		return models.Department{}, newAppError(http.StatusInternalServerError, "failed to create department", err)
	}
	return department, nil
}

func (s *departmentService) Rename(ctx context.Context, principal Principal, departmentID uint, name string) (models.Department, error) {
	if !principal.IsAdmin() {
		return models.Department{}, newPermissionDenied("admin role required")
	}
	if name == "" {
		return models.Department{}, newInvalid("department name is required")
	}

	department, err := s.Get(ctx, departmentID)
	if err != nil {
		return models.Department{}, err
	}

	count, err := s.departments.CountByName(ctx, nil, name, department.ID)
	if err != nil {
		return models.Department{}, newAppError(http.StatusInternalServerError, "failed to check department name", err)
	}
	if count > 0 {
		return models.Department{}, newConflict("a department with this name already exists")
	}

	if err := s.departments.UpdateByID(ctx, nil, department.ID, map[string]interface{}{"name": name}); err != nil {
		return models.Department{}, newAppError(http.StatusInternalServerError, "failed to rename department", err)
	}
	department.Name = name
	return department, nil
}

func (s *departmentService) Deactivate(ctx context.Context, principal Principal, departmentID uint) error {
	if !principal.IsAdmin() {
		return newPermissionDenied("admin role required")
	}
	if _, err := s.Get(ctx, departmentID); err != nil {
		return err
	}
	if err := s.departments.UpdateByID(ctx, nil, departmentID, map[string]interface{}{"is_active": false}); err != nil {
		return newAppError(http.StatusInternalServerError, "failed to deactivate department", err)
	}
	return nil
}

func (s *departmentService) Reactivate(ctx context.Context, principal Principal, departmentID uint) error {
	if !principal.IsAdmin() {
		return newPermissionDenied("admin role required")
	}
	if _, err := s.Get(ctx, departmentID); err != nil {
		return err
	}
	if err := s.departments.UpdateByID(ctx, nil, departmentID, map[string]interface{}{"is_active": true}); err != nil {
		return newAppError(http.StatusInternalServerError, "failed to reactivate department", err)
	}
	return nil
}
