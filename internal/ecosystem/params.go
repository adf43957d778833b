package ecosystem

import "fmt"

// Params are the caller-supplied construction inputs for a new engine.
// pH, dissolved oxygen, and populations are not configurable; they always
// start at the model defaults.
type Params struct {
	Temperature float64 `json:"temperature"`
	Nutrients   float64 `json:"nutrients"`
	Light       float64 `json:"light"`
	Salinity    float64 `json:"salinity"`
}

// DefaultParams returns the baseline temperate-ocean scenario.
func DefaultParams() Params {
	return Params{
		Temperature: DefaultTemperature,
		Nutrients:   DefaultNutrients,
		Light:       DefaultLight,
		Salinity:    DefaultSalinity,
	}
}

// Validate checks construction inputs against the plausible ocean bands.
// The engine itself never rejects values; callers gate with this before
// calling New or UpdateEnvironment.
func (p Params) Validate() error {
	if p.Temperature < 0 || p.Temperature > 35 {
		return fmt.Errorf("temperature %.2f out of range [0, 35]", p.Temperature)
	}
	if p.Nutrients < 0 || p.Nutrients > 100 {
		return fmt.Errorf("nutrients %.2f out of range [0, 100]", p.Nutrients)
	}
	if p.Light < 0 || p.Light > 100 {
		return fmt.Errorf("light %.2f out of range [0, 100]", p.Light)
	}
	if p.Salinity < 30 || p.Salinity > 40 {
		return fmt.Errorf("salinity %.2f out of range [30, 40]", p.Salinity)
	}
	return nil
}

// ValidateUpdate checks a partial environment override against the same
// bands Validate uses. Unset fields pass.
func ValidateUpdate(u EnvUpdate) error {
	if u.Temperature != nil && (*u.Temperature < 0 || *u.Temperature > 35) {
		return fmt.Errorf("temperature %.2f out of range [0, 35]", *u.Temperature)
	}
	if u.Nutrients != nil && (*u.Nutrients < 0 || *u.Nutrients > 100) {
		return fmt.Errorf("nutrients %.2f out of range [0, 100]", *u.Nutrients)
	}
	if u.Light != nil && (*u.Light < 0 || *u.Light > 100) {
		return fmt.Errorf("light %.2f out of range [0, 100]", *u.Light)
	}
	if u.Salinity != nil && (*u.Salinity < 30 || *u.Salinity > 40) {
		return fmt.Errorf("salinity %.2f out of range [30, 40]", *u.Salinity)
	}
	return nil
}

// ValidateForecastWeeks bounds a forecast horizon to one year.
func ValidateForecastWeeks(weeks int) error {
	if weeks < 1 || weeks > 52 {
		return fmt.Errorf("forecast horizon %d out of range [1, 52] weeks", weeks)
	}
	return nil
}
