package model

// ListRolesReq filters the role listing.
type ListRolesReq struct {
	Status    string `query:"status" validate:"omitempty,oneof=draft active inactive"`
	IsDefault string `query:"is_default" validate:"omitempty,oneof=true false"`
}

func (r *ListRolesReq) Validate() error {
	return GetValidator().Struct(r)
}
