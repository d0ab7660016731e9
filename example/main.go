package main

import (
	"fmt"
	"os"

	"github.com/consolix/argot"
)

// A small consolidation-automation CLI: commands are declared on an
// explicit registration table, arguments on a Definition per command.
//
// Try:
//
//	example consolidate Actual year:2024 period:March --force
//	example consolidate --help
//	example loaddata Actual -file data.dat
func main() {
	reg := argot.NewRegistry()

	// shared dependencies, built once in dependency order
	reg.Provide("config", func(map[string]any) (any, error) {
		return map[string]string{"cluster": "local"}, nil
	})
	reg.Provide("session", func(deps map[string]any) (any, error) {
		cfg := deps["config"].(map[string]string)
		return fmt.Sprintf("session@%s", cfg["cluster"]), nil
	}, "config")

	if err := register(reg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := reg.Dispatch(os.Args); err != nil {
		os.Exit(2)
	}
}

func register(reg *argot.Registry) error {
	consolidate := argot.NewDefinition()
	if err := consolidate.Add(
		argot.NewPositional("scenario", "scenario to consolidate"),
		argot.NewKeyword("year", "fiscal year").Require().
			WithType(argot.IntType).
			WithValidators(argot.InRange(2000, 2100)),
		argot.NewKeyword("period", "fiscal period").WithDefault("January").
			WithValidators(argot.OneOf(
				"January", "February", "March", "April", "May", "June",
				"July", "August", "September", "October", "November", "December",
			)),
		argot.NewKeyword("type", "consolidation type").WithDefault("Impacted").
			WithType(argot.EnumType("ConsolidationType",
				"ConsolidateAll", "ConsolidateAllWithData", "ConsolidateImpacted")),
		argot.NewFlag("force", "consolidate even when nothing changed"),
	); err != nil {
		return err
	}
	if err := reg.Register(&argot.Command{
		Name:    "consolidate",
		Purpose: "Run a consolidation over one scenario and period",
		Def:     consolidate,
		Needs:   []string{"session"},
		Run: func(res *argot.Result, deps map[string]any) error {
			scenario, _ := res.Get("scenario")
			year, _ := res.Get("year")
			ctype, _ := res.Get("type")
			fmt.Printf("consolidating %s/%d (%s) on %v, force=%v\n",
				scenario, year.Int(), ctype, deps["session"], res.Has("force"))
			return nil
		},
	}); err != nil {
		return err
	}

	loaddata := argot.NewDefinition()
	if err := loaddata.Add(
		argot.NewPositional("scenario", "target scenario"),
		argot.NewKeyword("file", "data file to load").Require(),
		argot.NewFlag("accumulate", "accumulate instead of replace"),
	); err != nil {
		return err
	}
	return reg.Register(&argot.Command{
		Name:    "loaddata",
		Purpose: "Load a data file into a scenario",
		Def:     loaddata,
		Needs:   []string{"session"},
		Run: func(res *argot.Result, deps map[string]any) error {
			scenario, _ := res.Get("scenario")
			file, _ := res.Get("file")
			fmt.Printf("loading %s into %s on %v\n", file, scenario, deps["session"])
			return nil
		},
	})
}
