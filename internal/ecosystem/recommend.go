package ecosystem

// Recommendations evaluates the advisory rule set against the current state
// and returns the triggered notes in a fixed order. Every rule is checked on
// every call; when nothing triggers, a single default note comes back.
func (e *Engine) Recommendations() []string {
	var recs []string

	if e.env.Temperature < 15 {
		recs = append(recs, "Temperature is low - consider monitoring for cold-adapted species")
	}
	if e.env.Temperature > 25 {
		recs = append(recs, "High temperature detected - increased risk of coral bleaching")
	}

	if e.env.Nutrients < 20 {
		recs = append(recs, "Low nutrient levels - phytoplankton growth may be limited")
	}
	if e.env.Nutrients > 80 {
		recs = append(recs, "High nutrients - monitor for harmful algal blooms")
	}

	if e.pop.Phytoplankton < 500 {
		recs = append(recs, "Low phytoplankton - increase light and nutrients")
	}
	if e.pop.Zooplankton > e.pop.Phytoplankton*0.8 {
		recs = append(recs, "Overgrazing detected - zooplankton population too high")
	}

	if e.env.PH < 7.8 {
		recs = append(recs, "Ocean acidification detected - consider deploying alkalinity-enhancing bioagents")
	}

	if e.env.DissolvedOxygen < 5.0 {
		recs = append(recs, "Low oxygen - risk of hypoxic conditions")
	}

	if e.EcosystemHealth() > 80 {
		recs = append(recs, "Ecosystem is healthy - maintain current conditions")
	}

	if len(recs) == 0 {
		recs = append(recs, "Continue monitoring ecosystem parameters")
	}

	return recs
}
