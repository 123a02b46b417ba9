package seed

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"authcore/internal/authz/audit"
	"authcore/internal/authz/model"
	"authcore/internal/authz/repository"
	"authcore/internal/authz/util"

	"github.com/google/uuid"
)

//go:embed roles/*.json
var rolesFS embed.FS

// seedRole is the on-disk shape of a system role definition.
type seedRole struct {
	Slug        string         `json:"slug"`
	Name        string         `json:"name"`
	Permissions map[string]any `json:"permissions"`
}

// Apply upserts the embedded system roles. Existing slugs are left
// untouched: seeds create the immutable templates exactly once and never
// overwrite later state toggles.
func Apply(ctx context.Context, roles repository.RoleRepository, chain *audit.Chain) error {
	log := util.GetLogger()

	entries, err := rolesFS.ReadDir("roles")
	if err != nil {
		return fmt.Errorf("failed to read seed directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		data, err := rolesFS.ReadFile("roles/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read seed file %s: %w", entry.Name(), err)
		}

		var sr seedRole
		if err := json.Unmarshal(data, &sr); err != nil {
			return fmt.Errorf("failed to parse seed file %s: %w", entry.Name(), err)
		}

		if _, err := roles.GetRoleBySlug(ctx, sr.Slug); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		role := &model.RoleDefinition{
			ID:          uuid.NewString(),
			Slug:        sr.Slug,
			Name:        sr.Name,
			Status:      model.RoleStatusActive,
			IsDefault:   true,
			Permissions: sr.Permissions,
			Version:     1,
			CreatedBy:   model.ActorSystem,
			UpdatedBy:   model.ActorSystem,
		}
		if err := roles.CreateRole(ctx, role); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			return err
		}

		if _, err := chain.Append(ctx, audit.Entry{
			Action:     model.ActionCreateRole,
			ActorID:    model.ActorSystem,
			EntityType: model.EntityTypeRole,
			EntityID:   role.Slug,
			Outcome:    model.OutcomeSuccess,
			Severity:   model.SeverityMedium,
			Details:    map[string]any{"seed": true},
		}); err != nil {
			return err
		}

		log.Info("seeded system role", "slug", role.Slug)
	}

	return nil
}
