package sql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"projekthub/internal/entity"
)

// CreateProject persists a new project record.
func (r *GormRepository) CreateProject(ctx context.Context, project *entity.DbProject) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if project == nil {
		return fmt.Errorf("project is nil")
	}
	return r.db.WithContext(ctx).Create(project).Error
}

// ListProjects returns every project with its owner and the owner's role.
func (r *GormRepository) ListProjects(ctx context.Context) ([]entity.DbProject, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var projects []entity.DbProject
	if err := r.db.WithContext(ctx).Preload("User").Preload("User.Role").Order("id ASC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// ListProjectsByUser returns the projects owned by one user.
func (r *GormRepository) ListProjectsByUser(ctx context.Context, userID uint) ([]entity.DbProject, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if userID == 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	var projects []entity.DbProject
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// DeleteProject removes a project by ID.
func (r *GormRepository) DeleteProject(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid project id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbProject{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
