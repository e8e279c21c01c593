package sql

import (
	"context"
	"fmt"

	"projekthub/internal/entity"
)

// AppendAdminLog writes one audit record. Audit rows are append-only; no
// update or delete operation exists for them.
func (r *GormRepository) AppendAdminLog(ctx context.Context, log *entity.DbAdminLog) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if log == nil {
		return fmt.Errorf("log is nil")
	}
	return r.db.WithContext(ctx).Create(log).Error
}

// ListAdminLogs returns the audit trail, newest first.
func (r *GormRepository) ListAdminLogs(ctx context.Context) ([]entity.DbAdminLog, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var logs []entity.DbAdminLog
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
