package model

// SetOverrideReq sets a per-principal override for one module. Grant accepts
// a compact code string, a verb-boolean object (explicit false revokes the
// verb even when a role grants it), or a bare bool.
type SetOverrideReq struct {
	Grant any `json:"grant" validate:"required"`
}

func (r *SetOverrideReq) Validate() error {
	return GetValidator().Struct(r)
}

// SetPrincipalActiveReq toggles the principal's active flag.
type SetPrincipalActiveReq struct {
	Active *bool `json:"active" validate:"required"`
}

func (r *SetPrincipalActiveReq) Validate() error {
	return GetValidator().Struct(r)
}
