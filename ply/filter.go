package ply

import "strings"

// Predicate reports whether a vertex property should be kept.
type Predicate func(Property) bool

// DropPrefixes keeps every property whose name starts with none of prefixes.
func DropPrefixes(prefixes ...string) Predicate {
	ps := append([]string(nil), prefixes...)
	return func(p Property) bool {
		for _, prefix := range ps {
			if prefix != "" && strings.HasPrefix(p.Name, prefix) {
				return false
			}
		}
		return true
	}
}

// HigherOrderPrefix names the higher-order spherical harmonic coefficients
// of a Gaussian splat; f_dc_* (order zero) is the direct colour.
const HigherOrderPrefix = "f_rest_"

// KeepDirectColor drops the higher-order SH coefficients.
var KeepDirectColor = DropPrefixes(HigherOrderPrefix)

// Plan is the retained subsequence of a vertex property list.
// Kept is strictly increasing and Properties[i] is the original property
// at Kept[i]; types and relative order never change.
type Plan struct {
	Kept       []int
	Properties []Property

	total int
}

// NewPlan applies keep to props in order.
func NewPlan(props []Property, keep Predicate) Plan {
	plan := Plan{total: len(props)}
	for i, p := range props {
		if keep(p) {
			plan.Kept = append(plan.Kept, i)
			plan.Properties = append(plan.Properties, p)
		}
	}
	return plan
}

// Removed is the number of dropped properties.
func (p Plan) Removed() int { return p.total - len(p.Kept) }

// Changes reports whether applying the plan removes anything.
func (p Plan) Changes() bool { return p.Removed() > 0 }

// RecordSize is the packed byte size of one re-encoded binary record.
func (p Plan) RecordSize() int {
	n := 0
	for _, prop := range p.Properties {
		n += prop.Type.Width()
	}
	return n
}
