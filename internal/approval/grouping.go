package approval

import "github.com/payhub/payhub-backend/internal/model"

// NoTypeLabel is the group label for routes whose invoice type cannot be
// resolved against the reference list.
const NoTypeLabel = "No type"

// RouteGroup is one entry of the grouped route view. InvoiceTypeID is nil
// for the fallback group.
type RouteGroup struct {
	InvoiceTypeID *int          `json:"invoice_type_id,omitempty"`
	Label         string        `json:"label"`
	Routes        []model.Route `json:"routes"`
}

// GroupRoutesByType groups routes by invoice type for display. Pure
// projection: every route lands in exactly one group, group order follows
// the first appearance of each distinct type in the input, and all routes
// with an unresolvable type share a single fallback group.
func GroupRoutesByType(routes []model.Route, types []model.InvoiceType) []RouteGroup {
	labels := make(map[int]string, len(types))
	for _, t := range types {
		labels[t.ID] = t.Name
	}

	var groups []RouteGroup
	// invoice_type_id → position in groups; fallback is the position of the
	// "No type" group, -1 until first needed.
	index := make(map[int]int)
	fallback := -1

	for _, r := range routes {
		label, known := labels[r.InvoiceTypeID]
		if !known {
			if fallback == -1 {
				fallback = len(groups)
				groups = append(groups, RouteGroup{Label: NoTypeLabel})
			}
			groups[fallback].Routes = append(groups[fallback].Routes, r)
			continue
		}

		pos, seen := index[r.InvoiceTypeID]
		if !seen {
			pos = len(groups)
			index[r.InvoiceTypeID] = pos
			typeID := r.InvoiceTypeID
			groups = append(groups, RouteGroup{InvoiceTypeID: &typeID, Label: label})
		}
		groups[pos].Routes = append(groups[pos].Routes, r)
	}

	return groups
}
