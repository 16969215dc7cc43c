package lattice

// Params is the bounded set of physics parameters driving the simulation.
// Every field has a working default so a zero-config engine behaves sanely.
type Params struct {
	Gravity       float64 `json:"gravity"`
	Friction      float64 `json:"friction"`
	Elasticity    float64 `json:"elasticity"`
	TimeDilation  float64 `json:"time_dilation"`
	FieldStrength float64 `json:"field_strength"`
}

// DefaultParams returns the stock physics configuration.
func DefaultParams() Params {
	return Params{
		Gravity:       1.0,
		Friction:      0.99,
		Elasticity:    0.8,
		TimeDilation:  1.0,
		FieldStrength: 1.0,
	}
}

// Merge copies recognized keys from updates into p.
// Unknown keys are ignored, they are not an error.
func (p *Params) Merge(updates map[string]float64) {
	for key, value := range updates {
		switch key {
		case "gravity":
			p.Gravity = value
		case "friction":
			p.Friction = value
		case "elasticity":
			p.Elasticity = value
		case "time_dilation":
			p.TimeDilation = value
		case "field_strength":
			p.FieldStrength = value
		}
	}
}
