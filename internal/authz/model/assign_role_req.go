package model

// AssignRoleReq attaches a role to a principal.
type AssignRoleReq struct {
	RoleSlug string `json:"role_slug" validate:"required"`
}

func (r *AssignRoleReq) Validate() error {
	return GetValidator().Struct(r)
}
