package main

import (
	"flag"
	"time"

	"github.com/accra-mobility/transitopt/common"
	"github.com/accra-mobility/transitopt/demand"
	"github.com/accra-mobility/transitopt/network"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Capacity         int     `json:"capacity" yaml:"capacity"`
	MaxDurationMin   int     `json:"max_duration_min" yaml:"max_duration_min"`
	SpeedKmh         float64 `json:"avg_speed_kmh" yaml:"avg_speed_kmh"`
	SolveBudgetSec   int     `json:"solve_budget_sec" yaml:"solve_budget_sec"`
	MinHeadwayMin    float64 `json:"min_headway_min" yaml:"min_headway_min"`
	MaxHeadwayMin    float64 `json:"max_headway_min" yaml:"max_headway_min"`
	MaxFleetSize     int     `json:"max_fleet_size" yaml:"max_fleet_size"`
	FallbackCycleMin float64 `json:"fallback_cycle_min" yaml:"fallback_cycle_min"`
	Workers          int     `json:"workers" yaml:"workers"`
	Seed             int64   `json:"seed" yaml:"seed"`
	Verbose          bool    `json:"verbose" yaml:"verbose"`
}

func main() {
	var cfg Config
	var cfg_path = flag.String(
		"config",
		"",
		"path to YAML config (overrides flag defaults)",
	)
	var topology_path = flag.String(
		"topology",
		"topology.json",
		"path to route/stop topology (.json) file",
	)
	var demand_path = flag.String(
		"demand",
		"",
		"path to demand profile (.json) file (empty = synthetic estimator)",
	)
	var out_path = flag.String(
		"out",
		"optimization_results.json",
		"path to write run results",
	)
	flag.IntVar(
		&cfg.Capacity,
		"capacity",
		100,
		"vehicle capacity (passengers)",
	)
	flag.IntVar(
		&cfg.MaxDurationMin,
		"max_duration",
		600,
		"maximum route duration (minutes)",
	)
	flag.Float64Var(
		&cfg.SpeedKmh,
		"speed",
		30.0,
		"average travel speed (km/h)",
	)
	flag.IntVar(
		&cfg.SolveBudgetSec,
		"budget",
		30,
		"per-route solver time budget (seconds)",
	)
	flag.Float64Var(
		&cfg.MinHeadwayMin,
		"min_headway",
		5.0,
		"minimum headway between departures (minutes)",
	)
	flag.Float64Var(
		&cfg.MaxHeadwayMin,
		"max_headway",
		30.0,
		"maximum headway between departures (minutes)",
	)
	flag.IntVar(
		&cfg.MaxFleetSize,
		"fleet",
		50,
		"total vehicles available across the network",
	)
	flag.Float64Var(
		&cfg.FallbackCycleMin,
		"fallback_cycle",
		30.0,
		"cycle time assumed for routes that failed to solve (minutes)",
	)
	flag.IntVar(
		&cfg.Workers,
		"workers",
		0,
		"parallel route solves (0 = all cores)",
	)
	flag.Int64Var(
		&cfg.Seed,
		"seed",
		42,
		"seed for the synthetic demand estimator",
	)
	flag.BoolVar(
		&cfg.Verbose,
		"verbose",
		false,
		"enable verbose logging",
	)
	flag.Parse()

	// config file wins over flag defaults
	if *cfg_path != "" {
		common.FromYAMLFile(*cfg_path, &cfg)
	}

	// set logging level
	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	// print config
	log.Printf("%+v", cfg)

	// load topology
	var routes []common.Route
	common.FromFile(*topology_path, &routes)
	if len(routes) == 0 {
		log.Fatalf("[main] no routes in topology %s", *topology_path)
	}

	// load demand profile, if supplied
	var profile demand.Profile
	if *demand_path != "" {
		common.FromFile(*demand_path, &profile)
		if err := profile.Validate(); err != nil {
			log.Fatalf("[main] bad demand profile: %v", err)
		}
	}

	// run the two-stage optimization
	orch := network.Orchestrator{
		Routes:           routes,
		Demand:           profile,
		Estimator:        demand.Estimator{Seed: cfg.Seed},
		Capacity:         cfg.Capacity,
		MaxDuration:      cfg.MaxDurationMin,
		SpeedKmh:         cfg.SpeedKmh,
		SolveBudget:      time.Duration(cfg.SolveBudgetSec) * time.Second,
		MinHeadway:       cfg.MinHeadwayMin,
		MaxHeadway:       cfg.MaxHeadwayMin,
		MaxFleetSize:     cfg.MaxFleetSize,
		FallbackCycleMin: cfg.FallbackCycleMin,
		Workers:          cfg.Workers,
	}
	run := orch.Run()

	log.Printf(
		"[main] run %s: schedule %v, %d vehicles, efficiency improvement %0.2f%%",
		run.ID,
		run.Schedule.Status,
		run.Metrics.TotalVehicles,
		run.Metrics.EfficiencyPct,
	)
	for _, f := range run.Failures {
		log.Warnf("[main] route %s not optimized: %s %s", f.RouteID, f.Reason, f.Detail)
	}

	// write results
	common.ToFile(*out_path, run)
	log.Printf("[main] results written to %s", *out_path)
}
