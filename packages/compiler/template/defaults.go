package template

// InterpolationConfig represents the configuration for interpolation symbols
type InterpolationConfig struct {
	Start string
	End   string
}

// NewInterpolationConfig creates a new InterpolationConfig from markers
func NewInterpolationConfig(markers []string) *InterpolationConfig {
	if len(markers) != 2 {
		return DefaultInterpolationConfig
	}
	return &InterpolationConfig{
		Start: markers[0],
		End:   markers[1],
	}
}

// DefaultInterpolationConfig is the default interpolation configuration
var DefaultInterpolationConfig = &InterpolationConfig{
	Start: "{{",
	End:   "}}",
}
