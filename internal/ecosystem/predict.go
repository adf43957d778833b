package ecosystem

// Predict runs the model weeksAhead weeks into the future and returns one
// projection per week. The forecast runs on a scratch copy of the engine, so
// the caller's environment, populations, week counter, history, and carbon
// total are untouched. weeksAhead below 1 returns an empty list.
func (e *Engine) Predict(weeksAhead int) []ProjectionRecord {
	if weeksAhead <= 0 {
		return []ProjectionRecord{}
	}

	scratch := &Engine{
		env:         e.env,
		pop:         e.pop,
		week:        e.week,
		totalCarbon: e.totalCarbon,
	}

	projections := make([]ProjectionRecord, 0, weeksAhead)
	for i := 0; i < weeksAhead; i++ {
		scratch.singleStep()
		projections = append(projections, ProjectionRecord{
			Week:                scratch.week,
			Phytoplankton:       roundTo(scratch.pop.Phytoplankton, 2),
			Zooplankton:         roundTo(scratch.pop.Zooplankton, 2),
			Bacteria:            roundTo(scratch.pop.Bacteria, 2),
			CarbonSequestration: roundTo(scratch.carbonSequestration(), 4),
			Biodiversity:        scratch.BiodiversityIndex(),
			EcosystemHealth:     scratch.EcosystemHealth(),
		})
	}

	return projections
}
