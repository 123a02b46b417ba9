package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"authcore/internal/authz/audit"
	"authcore/internal/authz/model"
	"authcore/internal/authz/permission"
	"authcore/internal/authz/repository"

	"github.com/google/uuid"
)

func (s *Service) CreateRole(ctx context.Context, callerID string, req model.CreateRoleReq) (*model.RoleDefinition, error) {
	req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	req.Name = strings.TrimSpace(req.Name)

	caller, err := s.requireCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, caller, model.ModuleSettings, model.VerbCreate); err != nil {
		return nil, err
	}

	if err := validatePermissionMap(req.Permissions); err != nil {
		return nil, err
	}

	status := model.RoleStatusDraft
	if req.Activate {
		status = model.RoleStatusActive
	}
	role := &model.RoleDefinition{
		ID:          uuid.NewString(),
		Slug:        req.Slug,
		Name:        req.Name,
		Status:      status,
		IsDefault:   false,
		Permissions: req.Permissions,
		Version:     1,
		CreatedBy:   callerID,
		UpdatedBy:   callerID,
	}

	if err := s.Roles.CreateRole(ctx, role); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if _, err := s.Audit.Append(ctx, audit.Entry{
		Action:     model.ActionCreateRole,
		ActorID:    callerID,
		ActorRole:  actorRole(caller),
		EntityType: model.EntityTypeRole,
		EntityID:   role.Slug,
		TenantID:   caller.TenantID,
		Outcome:    model.OutcomeSuccess,
		Severity:   model.SeverityMedium,
		AfterState: roleSnapshot(role),
	}); err != nil {
		return nil, err
	}

	return role, nil
}

func (s *Service) GetRole(ctx context.Context, callerID, slug string) (*model.RoleDefinition, error) {
	caller, err := s.requireCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, caller, model.ModuleSettings, model.VerbView); err != nil {
		return nil, err
	}

	role, err := s.Roles.GetRoleBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return role, nil
}

func (s *Service) ListRoles(ctx context.Context, callerID string, req model.ListRolesReq) ([]*model.RoleDefinition, error) {
	caller, err := s.requireCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, caller, model.ModuleSettings, model.VerbView); err != nil {
		return nil, err
	}

	filter := model.RoleFilter{Status: req.Status}
	if req.IsDefault != "" {
		isDefault := req.IsDefault == "true"
		filter.IsDefault = &isDefault
	}
	return s.Roles.FindRoles(ctx, filter)
}

// UpdateRole edits a custom role's name and permissions. System roles are
// immutable templates, and a custom role with live assignments may not be
// re-permissioned: changing a shared role would silently change behavior
// for every assignee, so per-principal overrides are the supported path.
func (s *Service) UpdateRole(ctx context.Context, callerID, slug string, req model.UpdateRoleReq) (*model.RoleDefinition, error) {
	caller, err := s.requireCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, caller, model.ModuleSettings, model.VerbUpdate); err != nil {
		return nil, err
	}

	role, err := s.Roles.GetRoleBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if role.IsDefault {
		return nil, ErrSystemRoleImmutable
	}

	// Only a permission change is locked behind the assignment count; a
	// rename does not alter anyone's access.
	if req.Permissions != nil {
		count, err := s.Principals.CountRoleAssignments(ctx, slug)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrRoleInUse
		}
		if err := validatePermissionMap(req.Permissions); err != nil {
			return nil, err
		}
	}

	before := roleSnapshot(role)
	role.Version = req.Version
	if req.Name != "" {
		role.Name = req.Name
	}
	if req.Permissions != nil {
		role.Permissions = req.Permissions
	}
	role.UpdatedBy = callerID
	role.UpdatedAt = time.Now().UTC()

	if err := s.Roles.UpdateRole(ctx, role); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, ErrVersionConflict
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if _, err := s.Audit.Append(ctx, audit.Entry{
		Action:      model.ActionUpdateRole,
		ActorID:     callerID,
		ActorRole:   actorRole(caller),
		EntityType:  model.EntityTypeRole,
		EntityID:    role.Slug,
		TenantID:    caller.TenantID,
		Outcome:     model.OutcomeSuccess,
		Severity:    model.SeverityMedium,
		BeforeState: before,
		AfterState:  roleSnapshot(role),
	}); err != nil {
		return nil, err
	}

	return role, nil
}

func (s *Service) DeleteRole(ctx context.Context, callerID, slug string) error {
	caller, err := s.requireCaller(ctx, callerID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, caller, model.ModuleSettings, model.VerbDelete); err != nil {
		return err
	}

	role, err := s.Roles.GetRoleBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if role.IsDefault {
		return ErrSystemRoleImmutable
	}

	count, err := s.Principals.CountRoleAssignments(ctx, slug)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrRoleInUse
	}

	if err := s.Roles.DeleteRole(ctx, slug); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if _, err := s.Audit.Append(ctx, audit.Entry{
		Action:      model.ActionDeleteRole,
		ActorID:     callerID,
		ActorRole:   actorRole(caller),
		EntityType:  model.EntityTypeRole,
		EntityID:    slug,
		TenantID:    caller.TenantID,
		Outcome:     model.OutcomeSuccess,
		Severity:    model.SeverityHigh,
		BeforeState: roleSnapshot(role),
	}); err != nil {
		return err
	}

	return nil
}

// SetRoleStatus drives the draft -> active <-> inactive state machine.
// System roles may toggle status; nothing else about them changes.
func (s *Service) SetRoleStatus(ctx context.Context, callerID, slug, status string) error {
	caller, err := s.requireCaller(ctx, callerID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, caller, model.ModuleSettings, model.VerbUpdate); err != nil {
		return err
	}

	role, err := s.Roles.GetRoleBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !validTransition(role.Status, status) {
		return ErrBadRequest
	}

	before := roleSnapshot(role)
	role.Status = status
	role.UpdatedBy = callerID

	if err := s.Roles.UpdateRole(ctx, role); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return ErrVersionConflict
		}
		return err
	}

	action := model.ActionActivateRole
	if status == model.RoleStatusInactive {
		action = model.ActionDeactivateRole
	}
	if _, err := s.Audit.Append(ctx, audit.Entry{
		Action:      action,
		ActorID:     callerID,
		ActorRole:   actorRole(caller),
		EntityType:  model.EntityTypeRole,
		EntityID:    slug,
		TenantID:    caller.TenantID,
		Outcome:     model.OutcomeSuccess,
		Severity:    model.SeverityMedium,
		BeforeState: before,
		AfterState:  roleSnapshot(role),
	}); err != nil {
		return err
	}

	return nil
}

// validTransition encodes draft -> active <-> inactive. Draft roles cannot
// be deactivated and nothing returns to draft.
func validTransition(from, to string) bool {
	switch from {
	case model.RoleStatusDraft:
		return to == model.RoleStatusActive
	case model.RoleStatusActive:
		return to == model.RoleStatusInactive
	case model.RoleStatusInactive:
		return to == model.RoleStatusActive
	}
	return false
}

// validatePermissionMap rejects grants the resolver could never decode and
// module keys outside the taxonomy (legacy aliases accepted).
func validatePermissionMap(perms map[string]any) error {
	for key, raw := range perms {
		if !knownModule(permission.CanonicalModule(key)) {
			return ErrBadRequest
		}
		if _, err := permission.DecodeGrant(raw); err != nil {
			return ErrBadRequest
		}
	}
	return nil
}

func knownModule(name string) bool {
	for _, m := range model.KnownModules {
		if m == name {
			return true
		}
	}
	return false
}

func roleSnapshot(role *model.RoleDefinition) map[string]any {
	if role == nil {
		return nil
	}
	return map[string]any{
		"slug":        role.Slug,
		"name":        role.Name,
		"status":      role.Status,
		"is_default":  role.IsDefault,
		"permissions": role.Permissions,
		"version":     role.Version,
	}
}
