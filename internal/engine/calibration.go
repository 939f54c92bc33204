package engine

// Calibration is an offline-derived linear transform applied to a whole
// pillar's raw score. It is loaded once at startup as immutable config and
// never fitted or tuned per location; absence means identity.
type Calibration struct {
	A float64 `yaml:"a" mapstructure:"a"`
	B float64 `yaml:"b" mapstructure:"b"`
}

// Apply returns clamp(a*raw+b, 0, 100).
func (c Calibration) Apply(raw float64) float64 {
	v := c.A*raw + c.B
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
