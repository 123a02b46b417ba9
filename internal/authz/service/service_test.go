package service

import (
	"context"
	"testing"
	"time"

	"authcore/internal/authz/audit"
	"authcore/internal/authz/gate"
	"authcore/internal/authz/model"
	"authcore/internal/authz/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRoleRepo struct {
	mock.Mock
}

func (m *MockRoleRepo) CreateRole(ctx context.Context, role *model.RoleDefinition) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockRoleRepo) GetRoleBySlug(ctx context.Context, slug string) (*model.RoleDefinition, error) {
	args := m.Called(ctx, slug)
	if role, ok := args.Get(0).(*model.RoleDefinition); ok {
		return role, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRoleRepo) FindRoles(ctx context.Context, filter model.RoleFilter) ([]*model.RoleDefinition, error) {
	args := m.Called(ctx, filter)
	if roles, ok := args.Get(0).([]*model.RoleDefinition); ok {
		return roles, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRoleRepo) FindActiveRolesBySlugs(ctx context.Context, slugs []string) ([]*model.RoleDefinition, error) {
	args := m.Called(ctx, slugs)
	if roles, ok := args.Get(0).([]*model.RoleDefinition); ok {
		return roles, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRoleRepo) UpdateRole(ctx context.Context, role *model.RoleDefinition) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockRoleRepo) DeleteRole(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

func (m *MockRoleRepo) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockPrincipalRepo struct {
	mock.Mock
}

func (m *MockPrincipalRepo) GetPrincipal(ctx context.Context, id string) (*model.Principal, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*model.Principal); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPrincipalRepo) CountRoleAssignments(ctx context.Context, slug string) (int64, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPrincipalRepo) AssignRole(ctx context.Context, principalID, slug, updatedBy string) error {
	args := m.Called(ctx, principalID, slug, updatedBy)
	return args.Error(0)
}

func (m *MockPrincipalRepo) RevokeRole(ctx context.Context, principalID, slug, updatedBy string) error {
	args := m.Called(ctx, principalID, slug, updatedBy)
	return args.Error(0)
}

func (m *MockPrincipalRepo) SetOverride(ctx context.Context, principalID, module string, grant any, updatedBy string) error {
	args := m.Called(ctx, principalID, module, grant, updatedBy)
	return args.Error(0)
}

func (m *MockPrincipalRepo) ClearOverride(ctx context.Context, principalID, module, updatedBy string) error {
	args := m.Called(ctx, principalID, module, updatedBy)
	return args.Error(0)
}

func (m *MockPrincipalRepo) SetPrincipalActive(ctx context.Context, principalID string, active bool, updatedBy string) error {
	args := m.Called(ctx, principalID, active, updatedBy)
	return args.Error(0)
}

// memAudit is an in-memory ledger backing the audit chain in tests.
type memAudit struct {
	records []*model.AuditRecord
}

func (m *memAudit) InsertRecord(ctx context.Context, rec *model.AuditRecord) error {
	clone := *rec
	m.records = append(m.records, &clone)
	return nil
}

func (m *memAudit) Tail(ctx context.Context) (*model.AuditRecord, error) {
	if len(m.records) == 0 {
		return nil, nil
	}
	return m.records[len(m.records)-1], nil
}

func (m *memAudit) ScanSequence(ctx context.Context, fn func(*model.AuditRecord) error) error {
	for _, rec := range m.records {
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

func (m *memAudit) FindRecords(ctx context.Context, req model.GetAuditRecordsReq) ([]*model.AuditRecord, int64, error) {
	return m.records, int64(len(m.records)), nil
}

func (m *memAudit) UpdateRecord(ctx context.Context, id string, fields map[string]any) error {
	return repository.ErrAppendOnly
}

func (m *memAudit) DeleteRecord(ctx context.Context, id string) error {
	return repository.ErrAppendOnly
}

func (m *memAudit) EnsureAuditIndexes(ctx context.Context) error { return nil }

func (m *memAudit) lastAction() string {
	if len(m.records) == 0 {
		return ""
	}
	return m.records[len(m.records)-1].Action
}

func newTestService(roles *MockRoleRepo, principals *MockPrincipalRepo) (*Service, *memAudit) {
	ledger := &memAudit{}
	chain := audit.NewChain(ledger)
	g := gate.NewGate(roles, chain, 3*time.Second)
	return NewService(roles, principals, g, chain), ledger
}

func superCaller() *model.Principal {
	return &model.Principal{ID: "boss", Roles: []string{model.RoleSuperAdmin}, IsActive: true}
}

func viewerCaller() *model.Principal {
	return &model.Principal{ID: "viewer-1", Roles: []string{"viewer"}, IsActive: true}
}

func expectViewerRoles(roles *MockRoleRepo) {
	roles.On("FindActiveRolesBySlugs", mock.Anything, []string{"viewer"}).
		Return([]*model.RoleDefinition{{
			Slug:        "viewer",
			Status:      model.RoleStatusActive,
			Permissions: map[string]any{"reports": "r"},
		}}, nil)
}

func TestCreateRole(t *testing.T) {
	t.Run("success defaults to draft", func(t *testing.T) {
		roles := new(MockRoleRepo)
		principals := new(MockPrincipalRepo)
		svc, ledger := newTestService(roles, principals)

		principals.On("GetPrincipal", mock.Anything, "boss").Return(superCaller(), nil)
		roles.On("CreateRole", mock.Anything, mock.Anything).Return(nil)

		role, err := svc.CreateRole(context.Background(), "boss", model.CreateRoleReq{
			Slug:        "Warehouse-Lead",
			Name:        "Warehouse Lead",
			Permissions: map[string]any{"inventory": "rcu"},
		})

		require.NoError(t, err)
		assert.Equal(t, "warehouse-lead", role.Slug)
		assert.Equal(t, model.RoleStatusDraft, role.Status)
		assert.Equal(t, int64(1), role.Version)
		assert.False(t, role.IsDefault)
		assert.Equal(t, model.ActionCreateRole, ledger.lastAction())
	})

	t.Run("activate flag skips draft", func(t *testing.T) {
		roles := new(MockRoleRepo)
		principals := new(MockPrincipalRepo)
		svc, _ := newTestService(roles, principals)

		principals.On("GetPrincipal", mock.Anything, "boss").Return(superCaller(), nil)
		roles.On("CreateRole", mock.Anything, mock.Anything).Return(nil)

		role, err := svc.CreateRole(context.Background(), "boss", model.CreateRoleReq{
			Slug: "ops", Name: "Ops", Activate: true,
		})

		require.NoError(t, err)
		assert.Equal(t, model.RoleStatusActive, role.Status)
	})

	t.Run("duplicate slug", func(t *testing.T) {
		roles := new(MockRoleRepo)
		principals := new(MockPrincipalRepo)
		svc, _ := newTestService(roles, principals)

		principals.On("GetPrincipal", mock.Anything, "boss").Return(superCaller(), nil)
		roles.On("CreateRole", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

		_, err := svc.CreateRole(context.Background(), "boss", model.CreateRoleReq{
			Slug: "ops", Name: "Ops",
		})

		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("unknown module rejected", func(t *testing.T) {
		roles := new(MockRoleRepo)
		principals := new(MockPrincipalRepo)
		svc, _ := newTestService(roles, principals)

		principals.On("GetPrincipal", mock.Anything, "boss").Return(superCaller(), nil)

		_, err := svc.CreateRole(context.Background(), "boss", model.CreateRoleReq{
			Slug: "ops", Name: "Ops",
			Permissions: map[string]any{"warehouse9": "r"},
		})

		assert.ErrorIs(t, err, ErrBadRequest)
		roles.AssertNotCalled(t, "CreateRole", mock.Anything, mock.Anything)
	})

	t.Run("undecodable grant rejected", func(t *testing.T) {
		roles := new(MockRoleRepo)
		principals := new(MockPrincipalRepo)
		svc, _ := newTestService(roles, principals)

		principals.On("GetPrincipal", mock.Anything, "boss").Return(superCaller(), nil)

		_, err := svc.CreateRole(context.Background(), "boss", model.CreateRoleReq{
			Slug: "ops", Name: "Ops",
			Permissions: map[string]any{"orders": 42},
		})

		assert.ErrorIs(t, err, ErrBadRequest)
	})

	t.Run("caller without settings.create forbidden", func(t *testing.T) {
		roles := new(MockRoleRepo)
		principals := new(MockPrincipalRepo)
		svc, ledger := newTestService(roles, principals)

		principals.On("GetPrincipal", mock.Anything, "viewer-1").Return(viewerCaller(), nil)
		expectViewerRoles(roles)

		_, err := svc.CreateRole(context.Background(), "viewer-1", model.CreateRoleReq{
			Slug: "ops", Name: "Ops",
		})

		assert.ErrorIs(t, err, ErrForbidden)
		// The denial itself landed on the ledger.
		assert.Equal(t, model.ActionPermissionDenied, ledger.lastAction())
	})

	t.Run("unknown caller unauthorized", func(t *testing.T) {
		roles := new(MockRoleRepo)
		principals := new(MockPrincipalRepo)
		svc, _ := newTestService(roles, principals)

		principals.On("GetPrincipal", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)

		_, err := svc.CreateRole(context.Background(), "ghost", model.CreateRoleReq{
			Slug: "ops", Name: "Ops",
		})

		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestUpdateRole(t *testing.T) {
	custom := func() *model.RoleDefinition {
		return &model.RoleDefinition{
			Slug: "ops", Name: "Ops",
			Status:      model.RoleStatusActive,
			Permissions: map[string]any{"orders": "r"},
			Version:     3,
		}
	}

	t.Run("system role immutable", func(t *testing.T) {
		roles := new(MockRoleRepo)
		principals := new(MockPrincipalRepo)
		svc, _ := newTestService(roles, principals)

		principals.On("GetPrincipal", mock.Anything, "boss").Return(superCaller(), nil)
		roles.On("GetRoleBySlug", mock.Anything, "admin").
			Return(&model.RoleDefinition{Slug: "admin", IsDefault: true}, nil)

		_, err := svc.UpdateRole(context.Background(), "boss", "admin", model.UpdateRoleReq{Version: 1})

		assert.ErrorIs(t, err, ErrSystemRoleImmutable)
	})

	t.Run("permission change on assigned role locked", func(t *testing.T) {
		roles := new(MockRoleRepo)
		principals := new(MockPrincipalRepo)
		svc, _ := newTestService(roles, principals)

		principals.On("GetPrincipal", mock.Anything, "boss").Return(superCaller(), nil)
		roles.On("GetRoleBySlug", mock.Anything, "ops").Return(custom(), nil)
		principals.On("CountRoleAssignments", mock.Anything, "ops").Return(int64(2), nil)

		_, err := svc.UpdateRole(context.Background(), "boss", "ops", model.UpdateRoleReq{
			Permissions: map[string]any{"orders": "rcu"},
			Version:     3,
		})

		assert.ErrorIs(t, err, ErrRoleInUse)
		roles.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything)
	})

	t.Run("name-only edit of assigned role allowed", func(t *testing.T) {
		roles := new(MockRoleRepo)
		principals := new(MockPrincipalRepo)
		svc, _ := newTestService(roles, principals)

		principals.On("GetPrincipal", mock.Anything, "boss").Return(superCaller(), nil)
		roles.On("GetRoleBySlug", mock.Anything, "ops").Return(custom(), nil)
		roles.On("UpdateRole", mock.Anything, mock.Anything).Return(nil)

		updated, err := svc.UpdateRole(context.Background(), "boss", "ops", model.UpdateRoleReq{
			Name:    "Operations",
			Version: 3,
		})

		require.NoError(t, err)
		assert.Equal(t, "Operations", updated.Name)
		// A rename never consults the assignment count.
		principals.AssertNotCalled(t, "CountRoleAssignments", mock.Anything, mock.Anything)
	})

	t.Run("stale version rejected", func(t *testing.T) {
		roles := new(MockRoleRepo)
		principals := new(MockPrincipalRepo)
		svc, _ := newTestService(roles, principals)

		principals.On("GetPrincipal", mock.Anything, "boss").Return(superCaller(), nil)
		roles.On("GetRoleBySlug", mock.Anything, "ops").Return(custom(), nil)
		principals.On("CountRoleAssignments", mock.Anything, "ops").Return(int64(0), nil)
		roles.On("UpdateRole", mock.Anything, mock.Anything).Return(repository.ErrVersionConflict)

		_, err := svc.UpdateRole(context.Background(), "boss", "ops", model.UpdateRoleReq{Version: 2})

		assert.ErrorIs(t, err, ErrVersionConflict)
	})

	t.Run("success audits before and after", func(t *testing.T) {
		roles := new(MockRoleRepo)
		principals := new(MockPrincipalRepo)
		svc, ledger := newTestService(roles, principals)

		principals.On("GetPrincipal", mock.Anything, "boss").Return(superCaller(), nil)
		roles.On("GetRoleBySlug", mock.Anything, "ops").Return(custom(), nil)
		principals.On("CountRoleAssignments", mock.Anything, "ops").Return(int64(0), nil)
		roles.On("UpdateRole", mock.Anything, mock.Anything).Return(nil)

		updated, err := svc.UpdateRole(context.Background(), "boss", "ops", model.UpdateRoleReq{
			Name:        "Operations",
			Permissions: map[string]any{"orders": "rcu"},
			Version:     3,
		})

		require.NoError(t, err)
		assert.Equal(t, "Operations", updated.Name)
		assert.Equal(t, model.ActionUpdateRole, ledger.lastAction())
		last := ledger.records[len(ledger.records)-1]
		assert.NotNil(t, last.BeforeState)
		assert.NotNil(t, last.AfterState)
	})
}

func TestDeleteRole(t *testing.T) {
	t.Run("system role protected", func(t *testing.T) {
		roles := new(MockRoleRepo)
		principals := new(MockPrincipalRepo)
		svc, _ := newTestService(roles, principals)

		principals.On("GetPrincipal", mock.Anything, "boss").Return(superCaller(), nil)
		roles.On("GetRoleBySlug", mock.Anything, "viewer").
			Return(&model.RoleDefinition{Slug: "viewer", IsDefault: true}, nil)

		err := svc.DeleteRole(context.Background(), "boss", "viewer")

		assert.ErrorIs(t, err, ErrSystemRoleImmutable)
	})

	t.Run("assigned role blocked", func(t *testing.T) {
		roles := new(MockRoleRepo)
		principals := new(MockPrincipalRepo)
		svc, _ := newTestService(roles, principals)

		principals.On("GetPrincipal", mock.Anything, "boss").Return(superCaller(), nil)
		roles.On("GetRoleBySlug", mock.Anything, "ops").
			Return(&model.RoleDefinition{Slug: "ops"}, nil)
		principals.On("CountRoleAssignments", mock.Anything, "ops").Return(int64(1), nil)

		err := svc.DeleteRole(context.Background(), "boss", "ops")

		assert.ErrorIs(t, err, ErrRoleInUse)
		roles.AssertNotCalled(t, "DeleteRole", mock.Anything, mock.Anything)
	})

	t.Run("success audited at high severity", func(t *testing.T) {
		roles := new(MockRoleRepo)
		principals := new(MockPrincipalRepo)
		svc, ledger := newTestService(roles, principals)

		principals.On("GetPrincipal", mock.Anything, "boss").Return(superCaller(), nil)
		roles.On("GetRoleBySlug", mock.Anything, "ops").
			Return(&model.RoleDefinition{Slug: "ops"}, nil)
		principals.On("CountRoleAssignments", mock.Anything, "ops").Return(int64(0), nil)
		roles.On("DeleteRole", mock.Anything, "ops").Return(nil)

		err := svc.DeleteRole(context.Background(), "boss", "ops")

		require.NoError(t, err)
		assert.Equal(t, model.ActionDeleteRole, ledger.lastAction())
		assert.Equal(t, model.SeverityHigh, ledger.records[len(ledger.records)-1].Severity)
	})
}

func TestSetRoleStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr error
	}{
		{"draft to active", model.RoleStatusDraft, model.RoleStatusActive, nil},
		{"active to inactive", model.RoleStatusActive, model.RoleStatusInactive, nil},
		{"inactive to active", model.RoleStatusInactive, model.RoleStatusActive, nil},
		{"draft to inactive invalid", model.RoleStatusDraft, model.RoleStatusInactive, ErrBadRequest},
		{"active to draft invalid", model.RoleStatusActive, model.RoleStatusDraft, ErrBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			roles := new(MockRoleRepo)
			principals := new(MockPrincipalRepo)
			svc, _ := newTestService(roles, principals)

			principals.On("GetPrincipal", mock.Anything, "boss").Return(superCaller(), nil)
			roles.On("GetRoleBySlug", mock.Anything, "ops").
				Return(&model.RoleDefinition{Slug: "ops", Status: tc.from, Version: 1}, nil)
			roles.On("UpdateRole", mock.Anything, mock.Anything).Return(nil)

			err := svc.SetRoleStatus(context.Background(), "boss", "ops", tc.to)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAssignRole(t *testing.T) {
	t.Run("draft role rejected", func(t *testing.T) {
		roles := new(MockRoleRepo)
		principals := new(MockPrincipalRepo)
		svc, _ := newTestService(roles, principals)

		principals.On("GetPrincipal", mock.Anything, "boss").Return(superCaller(), nil)
		roles.On("GetRoleBySlug", mock.Anything, "ops").
			Return(&model.RoleDefinition{Slug: "ops", Status: model.RoleStatusDraft}, nil)

		err := svc.AssignRole(context.Background(), "boss", "user-7", model.AssignRoleReq{RoleSlug: "ops"})

		assert.ErrorIs(t, err, ErrBadRequest)
		principals.AssertNotCalled(t, "AssignRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("success audited", func(t *testing.T) {
		roles := new(MockRoleRepo)
		principals := new(MockPrincipalRepo)
		svc, ledger := newTestService(roles, principals)

		principals.On("GetPrincipal", mock.Anything, "boss").Return(superCaller(), nil)
		roles.On("GetRoleBySlug", mock.Anything, "ops").
			Return(&model.RoleDefinition{Slug: "ops", Status: model.RoleStatusActive}, nil)
		principals.On("AssignRole", mock.Anything, "user-7", "ops", "boss").Return(nil)

		err := svc.AssignRole(context.Background(), "boss", "user-7", model.AssignRoleReq{RoleSlug: "ops"})

		require.NoError(t, err)
		last := ledger.records[len(ledger.records)-1]
		assert.Equal(t, model.ActionAssignRole, last.Action)
		assert.Equal(t, model.RoleSuperAdmin, last.ActorRole)
	})
}

func TestSetOverride(t *testing.T) {
	t.Run("unknown module rejected", func(t *testing.T) {
		roles := new(MockRoleRepo)
		principals := new(MockPrincipalRepo)
		svc, _ := newTestService(roles, principals)

		principals.On("GetPrincipal", mock.Anything, "boss").Return(superCaller(), nil)

		err := svc.SetOverride(context.Background(), "boss", "user-7", "warehouse9",
			model.SetOverrideReq{Grant: "r"})

		assert.ErrorIs(t, err, ErrBadRequest)
	})

	t.Run("undecodable grant rejected", func(t *testing.T) {
		roles := new(MockRoleRepo)
		principals := new(MockPrincipalRepo)
		svc, _ := newTestService(roles, principals)

		principals.On("GetPrincipal", mock.Anything, "boss").Return(superCaller(), nil)

		err := svc.SetOverride(context.Background(), "boss", "user-7", "orders",
			model.SetOverrideReq{Grant: []string{"view"}})

		assert.ErrorIs(t, err, ErrBadRequest)
	})

	t.Run("success captures prior override", func(t *testing.T) {
		roles := new(MockRoleRepo)
		principals := new(MockPrincipalRepo)
		svc, ledger := newTestService(roles, principals)

		principals.On("GetPrincipal", mock.Anything, "boss").Return(superCaller(), nil)
		principals.On("GetPrincipal", mock.Anything, "user-7").Return(&model.Principal{
			ID:        "user-7",
			IsActive:  true,
			Overrides: map[string]any{"orders": "r"},
		}, nil)
		principals.On("SetOverride", mock.Anything, "user-7", "orders", "rc", "boss").Return(nil)

		err := svc.SetOverride(context.Background(), "boss", "user-7", "orders",
			model.SetOverrideReq{Grant: "rc"})

		require.NoError(t, err)
		last := ledger.records[len(ledger.records)-1]
		assert.Equal(t, model.ActionSetOverride, last.Action)
		assert.Equal(t, model.SeverityHigh, last.Severity)
		assert.Equal(t, map[string]any{"override": "r"}, last.BeforeState)
	})
}

func TestSetPrincipalActive(t *testing.T) {
	roles := new(MockRoleRepo)
	principals := new(MockPrincipalRepo)
	svc, ledger := newTestService(roles, principals)

	principals.On("GetPrincipal", mock.Anything, "boss").Return(superCaller(), nil)
	principals.On("SetPrincipalActive", mock.Anything, "user-7", false, "boss").Return(nil)

	err := svc.SetPrincipalActive(context.Background(), "boss", "user-7", false)

	require.NoError(t, err)
	last := ledger.records[len(ledger.records)-1]
	assert.Equal(t, model.ActionDeactivatePrincipal, last.Action)
	assert.Equal(t, model.SeverityHigh, last.Severity)
}

func TestCheckOnBehalf(t *testing.T) {
	t.Run("self check needs no extra privilege", func(t *testing.T) {
		roles := new(MockRoleRepo)
		principals := new(MockPrincipalRepo)
		svc, _ := newTestService(roles, principals)

		principals.On("GetPrincipal", mock.Anything, "viewer-1").Return(viewerCaller(), nil)
		expectViewerRoles(roles)

		d, err := svc.Check(context.Background(), "viewer-1", model.CheckPermissionReq{
			Module: "reports", Verb: model.VerbView,
		})

		require.NoError(t, err)
		assert.True(t, d.Allowed)
	})

	t.Run("checking another principal needs staff visibility", func(t *testing.T) {
		roles := new(MockRoleRepo)
		principals := new(MockPrincipalRepo)
		svc, _ := newTestService(roles, principals)

		principals.On("GetPrincipal", mock.Anything, "viewer-1").Return(viewerCaller(), nil)
		expectViewerRoles(roles)

		_, err := svc.Check(context.Background(), "viewer-1", model.CheckPermissionReq{
			PrincipalID: "user-7", Module: "orders", Verb: model.VerbView,
		})

		assert.ErrorIs(t, err, ErrForbidden)
		principals.AssertNotCalled(t, "GetPrincipal", mock.Anything, "user-7")
	})
}

func TestVerifyAuditIntegrity(t *testing.T) {
	roles := new(MockRoleRepo)
	principals := new(MockPrincipalRepo)
	svc, _ := newTestService(roles, principals)

	principals.On("GetPrincipal", mock.Anything, "boss").Return(superCaller(), nil)
	principals.On("SetPrincipalActive", mock.Anything, "user-7", false, "boss").Return(nil)

	require.NoError(t, svc.SetPrincipalActive(context.Background(), "boss", "user-7", false))

	report, err := svc.VerifyAuditIntegrity(context.Background(), "boss")

	require.NoError(t, err)
	assert.True(t, report.Intact())
	// Two records: the gate's write-verb allow plus the deactivation itself.
	assert.Equal(t, int64(2), report.TotalRecords)
}
