package model

// CreateRoleReq creates a custom role. Permissions values may use any of the
// historical grant encodings; they are validated for decodability before the
// role is stored.
type CreateRoleReq struct {
	Slug        string         `json:"slug" validate:"required,min=2,max=64"`
	Name        string         `json:"name" validate:"required,min=2,max=128"`
	Permissions map[string]any `json:"permissions"`
	// Activate skips the draft state and creates the role active.
	Activate bool `json:"activate"`
}

func (r *CreateRoleReq) Validate() error {
	return GetValidator().Struct(r)
}
