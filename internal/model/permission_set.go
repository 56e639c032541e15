package model

// Known stage permission keys. The set is open — unknown keys loaded from the
// store must survive edit/save cycles untouched, so PermissionSet is a map
// rather than a fixed struct.
const (
	StagePermEditInvoice = "can_edit_invoice"
	StagePermAddFiles    = "can_add_files"
	StagePermEditAmount  = "can_edit_amount"
	StagePermShowBudgets = "can_show_budgets"
)

// PermissionSet maps a stage permission key to whether it is granted.
// An absent key means the permission is not granted.
//
// All mutations go through With, which copies — sets handed out to callers
// are never modified in place.
type PermissionSet map[string]bool

// Enabled reports whether the given permission key is granted.
func (p PermissionSet) Enabled(key string) bool {
	return p[key]
}

// With returns a copy of the set with the given key set to enabled.
// The receiver is left unchanged.
func (p PermissionSet) With(key string, enabled bool) PermissionSet {
	out := make(PermissionSet, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	out[key] = enabled
	return out
}

// Clone returns an independent copy of the set. Clone of nil is an empty set.
func (p PermissionSet) Clone() PermissionSet {
	out := make(PermissionSet, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
