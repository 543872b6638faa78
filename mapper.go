package wowapi

// DefaultPolicy controls what the field mapper does with a declared field
// that is absent from the source payload.
type DefaultPolicy int

const (
	// FillWithNull sets absent fields to nil, so every declared field is
	// always present in the result.
	FillWithNull DefaultPolicy = iota

	// OmitField drops absent fields entirely, so the result's shape
	// mirrors exactly what the origin returned. Used for optional and
	// variable-shape payloads.
	OmitField
)

// Mapping is the projection rule for one domain type: the declared field
// set, a rename table for source fields whose name disagrees with the
// destination's naming, and the policy for absent fields. Every resource
// constructor funnels its decoded payload through a Mapping.
type Mapping struct {
	// Fields is the destination's declared field set.
	Fields []string
	// Renames maps a destination field name to the source field it pulls
	// from, when the two disagree.
	Renames map[string]string
	// Policy is applied to declared fields absent from the source.
	Policy DefaultPolicy
}

// Apply projects the source tree onto the declared field set. For every
// declared field f the source name is Renames[f] when present, f otherwise;
// present values are copied verbatim with no coercion or validation, absent
// ones follow the policy. Apply is a pure structural projection: no field
// is ever inferred or computed, and nested structures are not descended
// into — callers re-invoke the mapper per nested field.
//
// Example:
//
//	m := wowapi.Mapping{
//	    Fields:  []string{"id", "name", "rewardItems"},
//	    Renames: map[string]string{"rewardItems": "items"},
//	}
//	obj := m.Apply(payload) // obj["rewardItems"] holds payload["items"]
func (m Mapping) Apply(src map[string]interface{}) map[string]interface{} {
	dst := make(map[string]interface{}, len(m.Fields))
	for _, field := range m.Fields {
		name := field
		if renamed, ok := m.Renames[field]; ok {
			name = renamed
		}
		if value, ok := src[name]; ok {
			dst[field] = value
			continue
		}
		if m.Policy == FillWithNull {
			dst[field] = nil
		}
	}
	return dst
}

// ApplyList projects every element of a nested collection through the
// mapping. Elements that are not objects are dropped. This is the explicit
// second pass domain constructors run for structured nested fields such as
// reward item lists.
func (m Mapping) ApplyList(src interface{}) []map[string]interface{} {
	items, ok := src.([]interface{})
	if !ok {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, m.Apply(obj))
	}
	return out
}

// ApplyNested projects a single nested object field through the mapping,
// returning nil when the value is not an object. Used for composite nested
// structures such as time criteria.
func (m Mapping) ApplyNested(src interface{}) map[string]interface{} {
	obj, ok := src.(map[string]interface{})
	if !ok {
		return nil
	}
	return m.Apply(obj)
}
