package gate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"authcore/internal/authz/audit"
	"authcore/internal/authz/model"
	"authcore/internal/authz/permission"
	"authcore/internal/authz/util"
)

// Decision reasons reused across checks. Denials name the missing
// module.verb and nothing else: callers probing the API must not learn the
// full privilege topology.
const (
	ReasonInactive         = "account inactive"
	ReasonSuperBypass      = "super role bypass"
	ReasonGranted          = "granted"
	ReasonStoreUnavailable = "permission store unavailable"
)

// RoleSource resolves role slugs to active role definitions.
type RoleSource interface {
	FindActiveRolesBySlugs(ctx context.Context, slugs []string) ([]*model.RoleDefinition, error)
}

// Gate is the decision point for privileged operations. Every deny and
// every allow on a write verb is recorded on the audit chain before the
// decision is returned; a failed audit write is fatal to the check.
type Gate struct {
	roles    RoleSource
	resolver *permission.Resolver
	audit    *audit.Chain
	timeout  time.Duration
	log      *slog.Logger
}

func NewGate(roles RoleSource, chain *audit.Chain, timeout time.Duration) *Gate {
	return &Gate{
		roles:    roles,
		resolver: permission.NewResolver(),
		audit:    chain,
		timeout:  timeout,
		log:      util.GetLogger(),
	}
}

// Resolve computes the effective permission map for a principal. The role
// load runs under the gate's timeout; the result is request-scoped and
// must not be persisted, since role and override edits have to take
// effect on the next resolution.
func (g *Gate) Resolve(ctx context.Context, p *model.Principal) (permission.EffectiveMap, error) {
	if p == nil {
		return permission.EffectiveMap{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	roles, err := g.roles.FindActiveRolesBySlugs(ctx, p.Roles)
	if err != nil {
		return nil, err
	}
	return g.resolver.Resolve(p, roles), nil
}

// Check answers "may principal perform verb on module". The returned error
// is non-nil only when the audit append failed; the decision itself is
// always valid.
func (g *Gate) Check(ctx context.Context, p *model.Principal, module, verb string) (model.Decision, error) {
	decision := g.decide(ctx, p, module, verb)
	reqs := []model.Requirement{{Module: module, Verb: verb}}
	if err := g.record(ctx, p, reqs, decision, verb); err != nil {
		return decision, err
	}
	return decision, nil
}

// CheckAny allows if any requirement passes; evaluation short-circuits on
// the first success. The effective map is resolved once for the whole set.
func (g *Gate) CheckAny(ctx context.Context, p *model.Principal, reqs []model.Requirement) (model.Decision, error) {
	decision, matched := g.decideComposite(ctx, p, reqs, false)
	verb := ""
	if matched != nil {
		verb = matched.Verb
	}
	if err := g.record(ctx, p, reqs, decision, verb); err != nil {
		return decision, err
	}
	return decision, nil
}

// CheckAll allows only if every requirement passes; evaluation
// short-circuits on the first failure, which the denial names.
func (g *Gate) CheckAll(ctx context.Context, p *model.Principal, reqs []model.Requirement) (model.Decision, error) {
	decision, _ := g.decideComposite(ctx, p, reqs, true)
	verb := widestWriteVerb(reqs)
	if err := g.record(ctx, p, reqs, decision, verb); err != nil {
		return decision, err
	}
	return decision, nil
}

func (g *Gate) decide(ctx context.Context, p *model.Principal, module, verb string) model.Decision {
	if p == nil || !p.IsActive {
		return model.Decision{Allowed: false, Reason: ReasonInactive}
	}
	if g.resolver.IsSuper(p) {
		return model.Decision{Allowed: true, Reason: ReasonSuperBypass}
	}

	eff, err := g.Resolve(ctx, p)
	if err != nil {
		// Fail closed: an unreachable permission store is never a grant.
		g.log.Error("permission resolution failed, denying",
			"principal_id", p.ID, "module", module, "verb", verb, "error", err)
		return model.Decision{Allowed: false, Reason: ReasonStoreUnavailable}
	}

	if eff.Grants(module, verb) {
		return model.Decision{Allowed: true, Reason: ReasonGranted}
	}
	return model.Decision{Allowed: false, Reason: missingReason(module, verb)}
}

// decideComposite evaluates a requirement set against one resolved map.
// requireAll selects CheckAll semantics; otherwise CheckAny. The matched
// requirement (first success for any-mode) is returned for audit verb
// classification.
func (g *Gate) decideComposite(ctx context.Context, p *model.Principal, reqs []model.Requirement, requireAll bool) (model.Decision, *model.Requirement) {
	if p == nil || !p.IsActive {
		return model.Decision{Allowed: false, Reason: ReasonInactive}, nil
	}
	if g.resolver.IsSuper(p) {
		return model.Decision{Allowed: true, Reason: ReasonSuperBypass}, nil
	}

	eff, err := g.Resolve(ctx, p)
	if err != nil {
		g.log.Error("permission resolution failed, denying",
			"principal_id", p.ID, "error", err)
		return model.Decision{Allowed: false, Reason: ReasonStoreUnavailable}, nil
	}

	if requireAll {
		for i := range reqs {
			if !eff.Grants(reqs[i].Module, reqs[i].Verb) {
				return model.Decision{Allowed: false, Reason: missingReason(reqs[i].Module, reqs[i].Verb)}, &reqs[i]
			}
		}
		return model.Decision{Allowed: true, Reason: ReasonGranted}, nil
	}

	for i := range reqs {
		if eff.Grants(reqs[i].Module, reqs[i].Verb) {
			return model.Decision{Allowed: true, Reason: ReasonGranted}, &reqs[i]
		}
	}
	return model.Decision{Allowed: false, Reason: "missing any of: " + joinRequirements(reqs)}, nil
}

// record writes the decision to the audit chain. Read-verb allows are
// skipped for volume; every deny and every write-verb allow is durable
// before the caller proceeds.
func (g *Gate) record(ctx context.Context, p *model.Principal, reqs []model.Requirement, d model.Decision, verb string) error {
	if d.Allowed && !isWriteVerb(verb) {
		return nil
	}

	action := model.ActionPermissionGranted
	outcome := model.OutcomeSuccess
	severity := model.SeverityLow
	if !d.Allowed {
		action = model.ActionPermissionDenied
		outcome = model.OutcomeFailure
		severity = model.SeverityMedium
	}

	entry := audit.Entry{
		Action:     action,
		EntityType: model.EntityTypePermission,
		EntityID:   joinRequirements(reqs),
		Outcome:    outcome,
		Severity:   severity,
		Details:    map[string]any{"reason": d.Reason},
	}
	if p != nil {
		entry.ActorID = p.ID
		entry.ActorRole = strings.Join(p.Roles, ",")
		entry.TenantID = p.TenantID
	}

	_, err := g.audit.Append(ctx, entry)
	return err
}

func missingReason(module, verb string) string {
	return fmt.Sprintf("missing permission %s.%s", module, verb)
}

func joinRequirements(reqs []model.Requirement) string {
	parts := make([]string, len(reqs))
	for i, r := range reqs {
		parts[i] = r.Module + "." + r.Verb
	}
	return strings.Join(parts, ", ")
}

func isWriteVerb(verb string) bool {
	switch verb {
	case model.VerbCreate, model.VerbUpdate, model.VerbDelete, model.VerbExport:
		return true
	}
	return false
}

// widestWriteVerb picks any write verb present in the set so an all-of
// allow covering a write is audited.
func widestWriteVerb(reqs []model.Requirement) string {
	for _, r := range reqs {
		if isWriteVerb(r.Verb) {
			return r.Verb
		}
	}
	if len(reqs) > 0 {
		return reqs[0].Verb
	}
	return ""
}
