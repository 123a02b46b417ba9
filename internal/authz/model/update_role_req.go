package model

// UpdateRoleReq edits a custom role's name and/or permissions. Version must
// match the stored document; a stale version is rejected so concurrent edits
// cannot silently overwrite each other.
type UpdateRoleReq struct {
	Name        string         `json:"name" validate:"omitempty,min=2,max=128"`
	Permissions map[string]any `json:"permissions"`
	Version     int64          `json:"version" validate:"required,min=1"`
}

func (r *UpdateRoleReq) Validate() error {
	return GetValidator().Struct(r)
}
