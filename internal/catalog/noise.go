package catalog

import "fmt"

// Kind distinguishes ambient noises tied to one impulse response from noises
// with their own spatial origin.
type Kind string

const (
	KindIsotropic   Kind = "isotropic"
	KindPointSource Kind = "point-source"
)

// Role decides whether a point-source noise spans the whole recording or is
// dropped in at a random offset. Isotropic noises are always background.
type Role string

const (
	RoleBackground Role = "background"
	RoleForeground Role = "foreground"
)

func parseKind(value string) (Kind, error) {
	switch Kind(value) {
	case KindIsotropic, KindPointSource:
		return Kind(value), nil
	default:
		return "", fmt.Errorf("noise type %q must be %q or %q", value, KindIsotropic, KindPointSource)
	}
}

func parseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleBackground, RoleForeground:
		return Role(value), nil
	default:
		return "", fmt.Errorf("bg-fg type %q must be %q or %q", value, RoleBackground, RoleForeground)
	}
}

// Noise is one additive noise source.
type Noise struct {
	ID   string
	Kind Kind
	Role Role
	// RIRID links an isotropic noise to the impulse response it was recorded
	// with. Empty for point-source noises.
	RIRID          string
	RawProbability *float64
	Probability    float64
	Location       string
}

// Weight returns the smoothed selection weight.
func (n *Noise) Weight() float64 { return n.Probability }

// RawWeight returns the catalog weight estimate when one was provided.
func (n *Noise) RawWeight() (float64, bool) {
	if n.RawProbability == nil {
		return 0, false
	}
	return *n.RawProbability, true
}

// SetWeight stores the smoothed selection weight.
func (n *Noise) SetWeight(w float64) { n.Probability = w }

// Extended reports whether the noise is stretched over the full recording.
func (n *Noise) Extended() bool {
	return n.Kind == KindIsotropic || n.Role == RoleBackground
}

// NoiseCatalog holds the two independently weighted noise lists.
type NoiseCatalog struct {
	PointSource []*Noise
	Isotropic   []*Noise
}

// Len returns the total number of noises.
func (c NoiseCatalog) Len() int {
	return len(c.PointSource) + len(c.Isotropic)
}

// IsotropicFor returns the isotropic noises recorded with the given impulse
// response, in catalog order.
func (c NoiseCatalog) IsotropicFor(rirID string) []*Noise {
	var matched []*Noise
	for _, noise := range c.Isotropic {
		if noise.RIRID == rirID {
			matched = append(matched, noise)
		}
	}
	return matched
}

// OrphanedIsotropic returns isotropic noises whose linked impulse response is
// not present in rirs. Such noises can never be selected.
func (c NoiseCatalog) OrphanedIsotropic(rirs []*ImpulseResponse) []*Noise {
	known := make(map[string]struct{}, len(rirs))
	for _, rir := range rirs {
		known[rir.ID] = struct{}{}
	}
	var orphaned []*Noise
	for _, noise := range c.Isotropic {
		if _, ok := known[noise.RIRID]; !ok {
			orphaned = append(orphaned, noise)
		}
	}
	return orphaned
}
