// Command forecast prints offline population projections for a stored
// simulation without advancing it.
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/tidewatch/oceansim/internal/ecosystem"
	"github.com/tidewatch/oceansim/internal/persistence"
)

func main() {
	dbPath := flag.String("db", "data/oceansim.db", "path to the simulation database")
	simID := flag.Int64("sim", 0, "simulation id to project (0 lists stored simulations)")
	weeks := flag.Int("weeks", 12, "number of weeks to project (1-52)")
	flag.Parse()

	if code := run(*dbPath, *simID, *weeks); code != 0 {
		os.Exit(code)
	}
}

func run(dbPath string, simID int64, weeks int) int {
	db, err := persistence.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		return 1
	}
	defer db.Close()

	if simID == 0 {
		return list(db)
	}
	return project(db, simID, weeks)
}

func list(db *persistence.DB) int {
	sims, err := db.ListSimulations()
	if err != nil {
		fmt.Fprintf(os.Stderr, "list simulations: %v\n", err)
		return 1
	}
	if len(sims) == 0 {
		fmt.Println("no simulations stored; create one via the API first")
		return 0
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSCENARIO\tWEEK\tRUNNING\tCREATED")
	for _, s := range sims {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%v\t%s\n",
			s.ID, s.Name, s.Scenario, s.Week, s.Running, humanize.Time(s.CreatedAt))
	}
	tw.Flush()
	return 0
}

func project(db *persistence.DB, simID int64, weeks int) int {
	if err := ecosystem.ValidateForecastWeeks(weeks); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	sim, err := db.GetSimulation(simID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load simulation: %v\n", err)
		return 1
	}

	eng := sim.Engine()
	state := eng.CurrentState()
	fmt.Printf("%s (id %d), week %d\n", sim.Name, sim.ID, state.Week)
	fmt.Printf("health %.1f, biodiversity %.3f, carbon to date %s kg CO2\n\n",
		state.Metrics.EcosystemHealthScore,
		state.Metrics.BiodiversityIndex,
		humanize.CommafWithDigits(state.Metrics.TotalCarbonSequestered, 2))

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WEEK\tPHYTOPLANKTON\tZOOPLANKTON\tBACTERIA\tCARBON kg/wk\tBIODIV\tHEALTH")
	for _, p := range eng.Predict(weeks) {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%.3f\t%.1f\n",
			p.Week,
			humanize.Commaf(p.Phytoplankton),
			humanize.Commaf(p.Zooplankton),
			humanize.Commaf(p.Bacteria),
			humanize.CommafWithDigits(p.CarbonSequestration, 4),
			p.Biodiversity,
			p.EcosystemHealth)
	}
	tw.Flush()

	for _, rec := range eng.Recommendations() {
		fmt.Printf("\n- %s", rec)
	}
	fmt.Println()
	return 0
}
