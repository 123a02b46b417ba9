package service

import (
	"context"
	"errors"

	"authcore/internal/authz/audit"
	"authcore/internal/authz/model"
	"authcore/internal/authz/permission"
	"authcore/internal/authz/repository"
)

func (s *Service) AssignRole(ctx context.Context, callerID, principalID string, req model.AssignRoleReq) error {
	caller, err := s.requireCaller(ctx, callerID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, caller, model.ModuleStaff, model.VerbUpdate); err != nil {
		return err
	}

	role, err := s.Roles.GetRoleBySlug(ctx, req.RoleSlug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	// Draft roles grant nothing yet; assigning one is a configuration
	// mistake we reject early.
	if role.Status == model.RoleStatusDraft {
		return ErrBadRequest
	}

	if err := s.Principals.AssignRole(ctx, principalID, req.RoleSlug, callerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if _, err := s.Audit.Append(ctx, audit.Entry{
		Action:     model.ActionAssignRole,
		ActorID:    callerID,
		ActorRole:  actorRole(caller),
		EntityType: model.EntityTypePrincipal,
		EntityID:   principalID,
		TenantID:   caller.TenantID,
		Outcome:    model.OutcomeSuccess,
		Severity:   model.SeverityMedium,
		Details:    map[string]any{"role_slug": req.RoleSlug},
	}); err != nil {
		return err
	}

	return nil
}

func (s *Service) RevokeRole(ctx context.Context, callerID, principalID, slug string) error {
	caller, err := s.requireCaller(ctx, callerID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, caller, model.ModuleStaff, model.VerbUpdate); err != nil {
		return err
	}

	if err := s.Principals.RevokeRole(ctx, principalID, slug, callerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if _, err := s.Audit.Append(ctx, audit.Entry{
		Action:     model.ActionRevokeRole,
		ActorID:    callerID,
		ActorRole:  actorRole(caller),
		EntityType: model.EntityTypePrincipal,
		EntityID:   principalID,
		TenantID:   caller.TenantID,
		Outcome:    model.OutcomeSuccess,
		Severity:   model.SeverityMedium,
		Details:    map[string]any{"role_slug": slug},
	}); err != nil {
		return err
	}

	return nil
}

// SetOverride stores a per-principal grant override for one module. The
// value keeps whatever encoding the caller sent; decoding happens at
// resolution time, so we only verify it can decode at all.
func (s *Service) SetOverride(ctx context.Context, callerID, principalID, module string, req model.SetOverrideReq) error {
	caller, err := s.requireCaller(ctx, callerID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, caller, model.ModuleStaff, model.VerbUpdate); err != nil {
		return err
	}

	if !knownModule(permission.CanonicalModule(module)) {
		return ErrBadRequest
	}
	if _, _, err := permission.DecodeOverride(req.Grant); err != nil {
		return ErrBadRequest
	}

	before, err := s.overrideSnapshot(ctx, principalID, module)
	if err != nil {
		return err
	}

	if err := s.Principals.SetOverride(ctx, principalID, module, req.Grant, callerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if _, err := s.Audit.Append(ctx, audit.Entry{
		Action:      model.ActionSetOverride,
		ActorID:     callerID,
		ActorRole:   actorRole(caller),
		EntityType:  model.EntityTypePrincipal,
		EntityID:    principalID,
		TenantID:    caller.TenantID,
		Outcome:     model.OutcomeSuccess,
		Severity:    model.SeverityHigh,
		Details:     map[string]any{"module": module},
		BeforeState: before,
		AfterState:  map[string]any{"override": req.Grant},
	}); err != nil {
		return err
	}

	return nil
}

func (s *Service) ClearOverride(ctx context.Context, callerID, principalID, module string) error {
	caller, err := s.requireCaller(ctx, callerID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, caller, model.ModuleStaff, model.VerbUpdate); err != nil {
		return err
	}

	before, err := s.overrideSnapshot(ctx, principalID, module)
	if err != nil {
		return err
	}

	if err := s.Principals.ClearOverride(ctx, principalID, module, callerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if _, err := s.Audit.Append(ctx, audit.Entry{
		Action:      model.ActionClearOverride,
		ActorID:     callerID,
		ActorRole:   actorRole(caller),
		EntityType:  model.EntityTypePrincipal,
		EntityID:    principalID,
		TenantID:    caller.TenantID,
		Outcome:     model.OutcomeSuccess,
		Severity:    model.SeverityMedium,
		Details:     map[string]any{"module": module},
		BeforeState: before,
	}); err != nil {
		return err
	}

	return nil
}

func (s *Service) SetPrincipalActive(ctx context.Context, callerID, principalID string, active bool) error {
	caller, err := s.requireCaller(ctx, callerID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, caller, model.ModuleStaff, model.VerbUpdate); err != nil {
		return err
	}

	if err := s.Principals.SetPrincipalActive(ctx, principalID, active, callerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	action := model.ActionActivatePrincipal
	severity := model.SeverityMedium
	if !active {
		action = model.ActionDeactivatePrincipal
		severity = model.SeverityHigh
	}
	if _, err := s.Audit.Append(ctx, audit.Entry{
		Action:     action,
		ActorID:    callerID,
		ActorRole:  actorRole(caller),
		EntityType: model.EntityTypePrincipal,
		EntityID:   principalID,
		TenantID:   caller.TenantID,
		Outcome:    model.OutcomeSuccess,
		Severity:   severity,
	}); err != nil {
		return err
	}

	return nil
}

func (s *Service) overrideSnapshot(ctx context.Context, principalID, module string) (map[string]any, error) {
	p, err := s.Principals.GetPrincipal(ctx, principalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if prev, ok := p.Overrides[module]; ok {
		return map[string]any{"override": prev}, nil
	}
	return nil, nil
}
