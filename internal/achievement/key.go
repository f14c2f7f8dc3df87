package achievement

import "fmt"

// DeriveKey maps a requirement spec to its canonical key: the registry token
// for the spec's type, plus "_<value>" when a parameter is populated. The
// parameter is chosen by RequirementSpec.Parameter's precedence order.
//
// A spec with no parameter derives the bare token; a spec whose parameter is
// an explicit 0 derives "TOKEN_0". The two are different rules and must never
// collapse into the same key.
func (r *Registry) DeriveKey(spec RequirementSpec) (string, error) {
	rule, ok := r.rules[spec.Type]
	if !ok {
		return "", fmt.Errorf("%w: requirement type %q", ErrInvalidRequirement, spec.Type)
	}

	value, populated := spec.Parameter()
	if !populated {
		return rule.Token, nil
	}
	if value < 0 {
		return "", fmt.Errorf("%w: negative parameter %d for type %q", ErrInvalidRequirement, value, spec.Type)
	}

	return fmt.Sprintf("%s_%d", rule.Token, value), nil
}
