package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"authcore/internal/authz/audit"
	"authcore/internal/authz/gate"
	"authcore/internal/authz/model"
	"authcore/internal/authz/permission"
	"authcore/internal/authz/repository"
	"authcore/internal/authz/util"
)

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict: slug already exists")
	ErrBadRequest          = errors.New("bad request")
	ErrRoleInUse           = errors.New("role is assigned to principals")
	ErrSystemRoleImmutable = errors.New("system roles cannot be edited or deleted")
	ErrVersionConflict     = errors.New("role was modified concurrently")
)

type AuthzService interface {
	// Roles
	CreateRole(ctx context.Context, callerID string, req model.CreateRoleReq) (*model.RoleDefinition, error)
	GetRole(ctx context.Context, callerID, slug string) (*model.RoleDefinition, error)
	ListRoles(ctx context.Context, callerID string, req model.ListRolesReq) ([]*model.RoleDefinition, error)
	UpdateRole(ctx context.Context, callerID, slug string, req model.UpdateRoleReq) (*model.RoleDefinition, error)
	DeleteRole(ctx context.Context, callerID, slug string) error
	SetRoleStatus(ctx context.Context, callerID, slug, status string) error
	// Principals
	AssignRole(ctx context.Context, callerID, principalID string, req model.AssignRoleReq) error
	RevokeRole(ctx context.Context, callerID, principalID, slug string) error
	SetOverride(ctx context.Context, callerID, principalID, module string, req model.SetOverrideReq) error
	ClearOverride(ctx context.Context, callerID, principalID, module string) error
	SetPrincipalActive(ctx context.Context, callerID, principalID string, active bool) error
	// Enforcement surface
	ResolvePermissions(ctx context.Context, callerID, principalID string) (permission.EffectiveMap, error)
	Check(ctx context.Context, callerID string, req model.CheckPermissionReq) (model.Decision, error)
	CheckAny(ctx context.Context, callerID string, req model.CheckBatchReq) (model.Decision, error)
	CheckAll(ctx context.Context, callerID string, req model.CheckBatchReq) (model.Decision, error)
	// Ledger surface
	GetAuditRecords(ctx context.Context, callerID string, req model.GetAuditRecordsReq) (*model.GetAuditRecordsResp, error)
	VerifyAuditIntegrity(ctx context.Context, callerID string) (*model.IntegrityReport, error)
}

type Service struct {
	Roles      repository.RoleRepository
	Principals repository.PrincipalRepository
	Gate       *gate.Gate
	Audit      *audit.Chain

	log *slog.Logger
}

func NewService(roles repository.RoleRepository, principals repository.PrincipalRepository, g *gate.Gate, chain *audit.Chain) *Service {
	return &Service{
		Roles:      roles,
		Principals: principals,
		Gate:       g,
		Audit:      chain,
		log:        util.GetLogger(),
	}
}

// requireCaller loads the caller's principal. A caller the store does not
// know is unauthorized, not a 404.
func (s *Service) requireCaller(ctx context.Context, callerID string) (*model.Principal, error) {
	if callerID == "" {
		return nil, ErrUnauthorized
	}
	p, err := s.Principals.GetPrincipal(ctx, callerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return p, nil
}

// authorize runs a gate check for the caller and converts a denial into
// ErrForbidden. An audit write failure from the gate propagates as-is; the
// triggering operation must not proceed unaudited.
func (s *Service) authorize(ctx context.Context, caller *model.Principal, module, verb string) error {
	decision, err := s.Gate.Check(ctx, caller, module, verb)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return ErrForbidden
	}
	return nil
}

func (s *Service) ResolvePermissions(ctx context.Context, callerID, principalID string) (permission.EffectiveMap, error) {
	caller, err := s.requireCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}

	target := caller
	if principalID != "" && principalID != callerID {
		// Inspecting someone else's permissions needs staff visibility.
		if err := s.authorize(ctx, caller, model.ModuleStaff, model.VerbView); err != nil {
			return nil, err
		}
		target, err = s.Principals.GetPrincipal(ctx, principalID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	return s.Gate.Resolve(ctx, target)
}

func (s *Service) Check(ctx context.Context, callerID string, req model.CheckPermissionReq) (model.Decision, error) {
	target, err := s.checkTarget(ctx, callerID, req.PrincipalID)
	if err != nil {
		return model.Decision{}, err
	}
	return s.Gate.Check(ctx, target, req.Module, req.Verb)
}

func (s *Service) CheckAny(ctx context.Context, callerID string, req model.CheckBatchReq) (model.Decision, error) {
	target, err := s.checkTarget(ctx, callerID, req.PrincipalID)
	if err != nil {
		return model.Decision{}, err
	}
	return s.Gate.CheckAny(ctx, target, req.Requirements)
}

func (s *Service) CheckAll(ctx context.Context, callerID string, req model.CheckBatchReq) (model.Decision, error) {
	target, err := s.checkTarget(ctx, callerID, req.PrincipalID)
	if err != nil {
		return model.Decision{}, err
	}
	return s.Gate.CheckAll(ctx, target, req.Requirements)
}

// checkTarget returns the principal a check applies to: the caller itself,
// or another principal when the caller may view staff.
func (s *Service) checkTarget(ctx context.Context, callerID, principalID string) (*model.Principal, error) {
	caller, err := s.requireCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if principalID == "" || principalID == callerID {
		return caller, nil
	}

	if err := s.authorize(ctx, caller, model.ModuleStaff, model.VerbView); err != nil {
		return nil, err
	}
	target, err := s.Principals.GetPrincipal(ctx, principalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return target, nil
}

func (s *Service) GetAuditRecords(ctx context.Context, callerID string, req model.GetAuditRecordsReq) (*model.GetAuditRecordsResp, error) {
	caller, err := s.requireCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, caller, model.ModuleSettings, model.VerbView); err != nil {
		return nil, err
	}

	data, total, err := s.Audit.Find(ctx, req)
	if err != nil {
		return nil, err
	}
	return &model.GetAuditRecordsResp{
		Data:       data,
		Page:       req.Page,
		Size:       req.Size,
		TotalCount: total,
	}, nil
}

func (s *Service) VerifyAuditIntegrity(ctx context.Context, callerID string) (*model.IntegrityReport, error) {
	caller, err := s.requireCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, caller, model.ModuleSettings, model.VerbView); err != nil {
		return nil, err
	}
	return s.Audit.VerifyIntegrity(ctx)
}

// actorRole renders the caller's role slugs for the audit trail.
func actorRole(p *model.Principal) string {
	if p == nil {
		return ""
	}
	return strings.Join(p.Roles, ",")
}
