package permission

import (
	"encoding/json"
	"fmt"

	"authcore/internal/authz/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VerbSet is a bitmask over the five permission verbs.
type VerbSet uint8

const (
	View VerbSet = 1 << iota
	Create
	Update
	Delete
	Export
)

// All grants every verb.
const All = View | Create | Update | Delete | Export

// verbOrder fixes the canonical verb order used for compact codes and
// JSON output: r c u d e.
var verbOrder = []struct {
	code byte
	name string
	bit  VerbSet
}{
	{'r', model.VerbView, View},
	{'c', model.VerbCreate, Create},
	{'u', model.VerbUpdate, Update},
	{'d', model.VerbDelete, Delete},
	{'e', model.VerbExport, Export},
}

// verbBits maps verb names (plus the legacy "read" spelling) to bits.
var verbBits = map[string]VerbSet{
	model.VerbView:   View,
	model.VerbCreate: Create,
	model.VerbUpdate: Update,
	model.VerbDelete: Delete,
	model.VerbExport: Export,
	"read":           View,
}

// ParseCode decodes a compact permission code such as "rcu". Characters
// outside the r/c/u/d/e alphabet are ignored; legacy data contains stray
// characters and we fail open on decode rather than dropping the whole
// grant.
func ParseCode(s string) VerbSet {
	var v VerbSet
	for i := 0; i < len(s); i++ {
		for _, entry := range verbOrder {
			if s[i] == entry.code {
				v |= entry.bit
				break
			}
		}
	}
	return v
}

// FromVerb returns the bit for a verb name.
func FromVerb(name string) (VerbSet, bool) {
	bit, ok := verbBits[name]
	return bit, ok
}

func (v VerbSet) Has(bit VerbSet) bool { return v&bit != 0 }

func (v VerbSet) Union(other VerbSet) VerbSet { return v | other }

func (v VerbSet) Without(other VerbSet) VerbSet { return v &^ other }

// Verbs returns the granted verb names in canonical order.
func (v VerbSet) Verbs() []string {
	out := make([]string, 0, 5)
	for _, entry := range verbOrder {
		if v.Has(entry.bit) {
			out = append(out, entry.name)
		}
	}
	return out
}

// String renders the compact code form, e.g. "rcu".
func (v VerbSet) String() string {
	buf := make([]byte, 0, 5)
	for _, entry := range verbOrder {
		if v.Has(entry.bit) {
			buf = append(buf, entry.code)
		}
	}
	return string(buf)
}

func (v VerbSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Verbs())
}

// DecodeGrant normalizes the three historical grant encodings into a
// VerbSet: compact code string, verb-boolean object, or bare bool (true
// means every verb, coarse legacy semantics). It is the single place the
// codebase branches on grant shape. A value of a wrong type entirely is a
// configuration error: the caller logs it and grants nothing.
func DecodeGrant(raw any) (VerbSet, error) {
	switch val := raw.(type) {
	case nil:
		return 0, nil
	case string:
		return ParseCode(val), nil
	case bool:
		if val {
			return All, nil
		}
		return 0, nil
	case map[string]bool:
		var v VerbSet
		for name, granted := range val {
			if bit, ok := verbBits[name]; ok && granted {
				v |= bit
			}
		}
		return v, nil
	case map[string]any:
		return decodeVerbObject(val), nil
	case primitive.M:
		return decodeVerbObject(map[string]any(val)), nil
	default:
		return 0, fmt.Errorf("undecodable grant of type %T", raw)
	}
}

func decodeVerbObject(obj map[string]any) VerbSet {
	var v VerbSet
	for name, value := range obj {
		bit, ok := verbBits[name]
		if !ok {
			continue
		}
		if granted, ok := value.(bool); ok && granted {
			v |= bit
		}
	}
	return v
}

// DecodeOverride normalizes an override value into explicit grant and
// revoke sets. Overrides are authoritative per verb: an explicit false
// revokes the verb even when a role grants it, while verbs the override
// never mentions stay untouched. A compact code string can only grant;
// a bare bool false revokes everything.
func DecodeOverride(raw any) (grants, revokes VerbSet, err error) {
	switch val := raw.(type) {
	case nil:
		return 0, 0, nil
	case string:
		return ParseCode(val), 0, nil
	case bool:
		if val {
			return All, 0, nil
		}
		return 0, All, nil
	case map[string]bool:
		for name, granted := range val {
			bit, ok := verbBits[name]
			if !ok {
				continue
			}
			if granted {
				grants |= bit
			} else {
				revokes |= bit
			}
		}
		return grants, revokes, nil
	case map[string]any:
		g, r := decodeOverrideObject(val)
		return g, r, nil
	case primitive.M:
		g, r := decodeOverrideObject(map[string]any(val))
		return g, r, nil
	default:
		return 0, 0, fmt.Errorf("undecodable override of type %T", raw)
	}
}

func decodeOverrideObject(obj map[string]any) (grants, revokes VerbSet) {
	for name, value := range obj {
		bit, ok := verbBits[name]
		if !ok {
			continue
		}
		granted, ok := value.(bool)
		if !ok {
			continue
		}
		if granted {
			grants |= bit
		} else {
			revokes |= bit
		}
	}
	return grants, revokes
}

// EffectiveMap is the fully resolved module -> verb-set result for one
// principal. It is derived state: recomputed per resolution, never
// persisted.
type EffectiveMap map[string]VerbSet

// Grants reports whether the map allows verb on module.
func (m EffectiveMap) Grants(module, verb string) bool {
	bit, ok := FromVerb(verb)
	if !ok {
		return false
	}
	return m[module].Has(bit)
}
