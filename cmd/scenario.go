package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/factory-sim/factory-sim/sim"
)

// Define struct for YAML
type ScenarioFile struct {
	Scenarios map[string]Scenario `yaml:"scenarios"`
}

// Scenario is one named line configuration preset.
type Scenario struct {
	PrepStations     int     `yaml:"prep_stations"`
	MachiningCenters int     `yaml:"machining_centers"`
	QCInspectors     int     `yaml:"qc_inspectors"`

	PrepTime      float64 `yaml:"prep_time"`
	MachiningTime float64 `yaml:"machining_time"`
	QCTime        float64 `yaml:"qc_time"`

	ArrivalInterval float64 `yaml:"arrival_interval"`
	Horizon         float64 `yaml:"horizon"`

	PricePerUnit       float64 `yaml:"price_per_unit"`
	CostPerMachineHour float64 `yaml:"cost_per_machine_hour"`
	RawMaterialCost    float64 `yaml:"raw_material_cost"`
}

// LoadScenario reads the named preset from a YAML scenario file.
func LoadScenario(path string, name string) (*sim.Config, error) {
	// Read YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Parse YAML
	var f ScenarioFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	sc, ok := f.Scenarios[name]
	if !ok {
		return nil, fmt.Errorf("scenario %q not found in %s", name, path)
	}
	logrus.Infof("Using preset scenario %v", name)

	return &sim.Config{
		Prep:               sim.StageParams{Capacity: sc.PrepStations, MeanTime: sc.PrepTime},
		Machining:          sim.StageParams{Capacity: sc.MachiningCenters, MeanTime: sc.MachiningTime},
		QC:                 sim.StageParams{Capacity: sc.QCInspectors, MeanTime: sc.QCTime},
		ArrivalInterval:    sc.ArrivalInterval,
		Horizon:            sc.Horizon,
		PricePerUnit:       sc.PricePerUnit,
		CostPerMachineHour: sc.CostPerMachineHour,
		RawMaterialCost:    sc.RawMaterialCost,
	}, nil
}
