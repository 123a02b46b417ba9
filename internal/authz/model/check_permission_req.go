package model

// CheckPermissionReq asks whether a principal may perform verb on module.
// PrincipalID defaults to the caller; checking another principal requires
// staff.view.
type CheckPermissionReq struct {
	PrincipalID string `json:"principal_id"`
	Module      string `json:"module" validate:"required"`
	Verb        string `json:"verb" validate:"required,oneof=view create update delete export"`
}

func (r *CheckPermissionReq) Validate() error {
	return GetValidator().Struct(r)
}

// CheckBatchReq carries a requirement set for check-any / check-all.
type CheckBatchReq struct {
	PrincipalID  string        `json:"principal_id"`
	Requirements []Requirement `json:"requirements" validate:"required,min=1,dive"`
}

func (r *CheckBatchReq) Validate() error {
	return GetValidator().Struct(r)
}

// CheckPermissionResponse wraps the decision for the HTTP surface.
type CheckPermissionResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}
