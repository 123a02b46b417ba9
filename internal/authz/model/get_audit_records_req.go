package model

import "time"

// GetAuditRecordsReq filters and paginates the audit ledger.
type GetAuditRecordsReq struct {
	ActorID    string     `query:"actor_id"`
	Action     string     `query:"action"`
	EntityType string     `query:"entity_type"`
	EntityID   string     `query:"entity_id"`
	TenantID   string     `query:"tenant_id"`
	StartTime  *time.Time `query:"start_time"`
	EndTime    *time.Time `query:"end_time"`
	Page       int64      `query:"page" validate:"omitempty,min=1"`
	Size       int64      `query:"size" validate:"omitempty,min=1,max=500"`
}

func (r *GetAuditRecordsReq) Validate() error {
	if err := GetValidator().Struct(r); err != nil {
		return err
	}
	if r.Page == 0 {
		r.Page = 1
	}
	if r.Size == 0 {
		r.Size = 50
	}
	return nil
}

// GetAuditRecordsResp is the paginated ledger listing.
type GetAuditRecordsResp struct {
	Data       []*AuditRecord `json:"data"`
	Page       int64          `json:"page"`
	Size       int64          `json:"size"`
	TotalCount int64          `json:"total_count"`
}
