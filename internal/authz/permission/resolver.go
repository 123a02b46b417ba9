package permission

import (
	"log/slog"

	"authcore/internal/authz/model"
	"authcore/internal/authz/util"
)

// Resolver computes one canonical EffectiveMap for a principal by merging
// role grants, per-principal overrides, and legacy flat permissions. It is
// pure in-memory computation: the caller loads the principal's active role
// definitions first.
type Resolver struct {
	superSlug string
	log       *slog.Logger
}

func NewResolver() *Resolver {
	return &Resolver{
		superSlug: model.RoleSuperAdmin,
		log:       util.GetLogger(),
	}
}

// IsSuper reports whether the principal holds the designated super role.
// The bypass exists so a misconfigured role table can never lock out the
// handful of platform operators who repair it.
func (r *Resolver) IsSuper(p *model.Principal) bool {
	return p.HasRoleSlug(r.superSlug)
}

// Resolve merges the principal's permission sources in deterministic order;
// later steps win ties:
//
//  1. super-role short-circuit: every verb on every module
//  2. legacy flat map seed (bool true grants all five verbs)
//  3. union across assigned active roles (strictly additive)
//  4. per-verb overrides (explicit false revokes, explicit true grants)
//  5. legacy module-key aliases, only where the current key is still empty
//
// An inactive principal resolves to an empty map regardless of the rest.
func (r *Resolver) Resolve(p *model.Principal, roles []*model.RoleDefinition) EffectiveMap {
	eff := EffectiveMap{}
	if p == nil || !p.IsActive {
		return eff
	}

	if r.IsSuper(p) {
		for _, module := range model.KnownModules {
			eff[module] = All
		}
		return eff
	}

	// 2. Legacy flat permissions predate roles; principals still carrying
	// them keep their access until migrated. Logged so the fallback is
	// visible, not silent.
	for module, raw := range p.LegacyPermissions {
		verbs, err := DecodeGrant(raw)
		if err != nil {
			r.log.Warn("skipping undecodable legacy permission",
				"principal_id", p.ID, "module", module, "error", err)
			continue
		}
		if verbs != 0 {
			eff[module] |= verbs
			r.log.Debug("legacy permission fallback applied",
				"principal_id", p.ID, "module", module, "verbs", verbs.String())
		}
	}

	// 3. Roles are strictly additive: no role can reduce another's grant.
	for _, role := range roles {
		if role == nil || !role.Active() {
			continue
		}
		for module, raw := range role.Permissions {
			verbs, err := DecodeGrant(raw)
			if err != nil {
				r.log.Warn("skipping undecodable role grant",
					"role", role.Slug, "module", module, "error", err)
				continue
			}
			eff[module] |= verbs
		}
	}

	// 4. Overrides win per verb, not per module: a partial override must
	// not blank out unrelated verbs already granted.
	for module, raw := range p.Overrides {
		grants, revokes, err := DecodeOverride(raw)
		if err != nil {
			r.log.Warn("skipping undecodable override",
				"principal_id", p.ID, "module", module, "error", err)
			continue
		}
		eff[module] = eff[module].Union(grants).Without(revokes)
	}

	// 5. Fold legacy module keys into their current names where the
	// current key has no entry at all. Presence is the test, not a zero
	// value: an override that revoked every verb on the current key leaves
	// a zero entry, and the fold must not resurrect those grants from the
	// legacy key.
	for legacy, current := range legacyModuleAliases {
		if verbs, ok := eff[legacy]; ok {
			if _, exists := eff[current]; !exists {
				eff[current] = verbs
			}
			delete(eff, legacy)
		}
	}

	// Modules with nothing granted are omitted entirely.
	for module, verbs := range eff {
		if verbs == 0 {
			delete(eff, module)
		}
	}

	return eff
}
