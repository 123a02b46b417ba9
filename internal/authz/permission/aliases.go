package permission

// legacyModuleAliases maps pre-rename module keys to their current names.
// Applied only when the current key has no entry yet, so permission data
// written before the taxonomy rename keeps working without double-granting
// when both keys coexist.
var legacyModuleAliases = map[string]string{
	"sales":    "orders",
	"clients":  "customers",
	"stock":    "inventory",
	"invoices": "billing",
}

// CanonicalModule returns the current name for a possibly-legacy module key.
func CanonicalModule(key string) string {
	if current, ok := legacyModuleAliases[key]; ok {
		return current
	}
	return key
}
