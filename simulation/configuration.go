package simulation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/evcommunities/demo/timetools"
	"github.com/evcommunities/demo/validation"
)

type simulationBlock struct {
	Name             string `yaml:"Name"`
	Description      string `yaml:"Description"`
	InitialStartTime string `yaml:"InitialStartTime"`
	EpochLength      int    `yaml:"EpochLength"`
	MaxEpochCount    int    `yaml:"MaxEpochCount"`
}

type intelligentController struct {
	TotalMaxPower float64 `yaml:"TotalMaxPower"`
}

type icComponent struct {
	IntelligentController intelligentController `yaml:"IntelligentController"`
}

type userComponent struct {
	UserID              int     `yaml:"UserId"`
	UserName            string  `yaml:"UserName"`
	StationID           string  `yaml:"StationId"`
	ArrivalTime         string  `yaml:"ArrivalTime"`
	StateOfCharge       float64 `yaml:"StateOfCharge"`
	CarBatteryCapacity  float64 `yaml:"CarBatteryCapacity"`
	CarModel            string  `yaml:"CarModel"`
	CarMaxPower         float64 `yaml:"CarMaxPower"`
	TargetStateOfCharge float64 `yaml:"TargetStateOfCharge"`
	TargetTime          string  `yaml:"TargetTime"`
}

type stationComponent struct {
	StationID string  `yaml:"StationId"`
	MaxPower  float64 `yaml:"MaxPower"`
}

type componentsBlock struct {
	ICComponent      icComponent                 `yaml:"ICComponent"`
	UserComponent    map[string]userComponent    `yaml:"UserComponent"`
	StationComponent map[string]stationComponent `yaml:"StationComponent"`
}

type platformConfiguration struct {
	Simulation simulationBlock `yaml:"Simulation"`
	Components componentsBlock `yaml:"Components"`
}

// CreateConfiguration renders the SimCES platform manager configuration for
// the given parameters as a YAML document. The simulation starts one epoch
// before the earliest arrival and runs until every user has left.
func CreateConfiguration(parameters *Parameters) (string, error) {
	if len(parameters.Users) == 0 {
		return "", errors.New("Could not determine the start time for the simulation")
	}

	earliestArrival := parameters.Users[0].ArrivalTime
	latestLeaving := parameters.Users[0].TargetTime
	for _, user := range parameters.Users[1:] {
		if timetools.Difference(user.ArrivalTime, earliestArrival) > 0 {
			earliestArrival = user.ArrivalTime
		}
		if timetools.Difference(latestLeaving, user.TargetTime) > 0 {
			latestLeaving = user.TargetTime
		}
	}

	arrivalTime, err := timetools.ToTime(earliestArrival)
	if err != nil {
		return "", errors.New("Could not determine the start time for the simulation")
	}
	leavingTime, err := timetools.ToTime(latestLeaving)
	if err != nil {
		return "", errors.New("Could not determine the end time for the simulation")
	}

	epoch := time.Duration(parameters.EpochLength) * time.Second
	startTime := arrivalTime.Add(-epoch)
	maxEpochCount := int(leavingTime.Sub(arrivalTime)/time.Second)/parameters.EpochLength + 2

	users := make(map[string]userComponent, len(parameters.Users))
	for _, user := range parameters.Users {
		users[fmt.Sprintf("User%d", user.UserID)] = userComponent{
			UserID:              user.UserID,
			UserName:            user.UserName,
			StationID:           user.StationID,
			ArrivalTime:         user.ArrivalTime,
			StateOfCharge:       user.StateOfCharge,
			CarBatteryCapacity:  user.CarBatteryCapacity,
			CarModel:            validation.DefaultCarModel,
			CarMaxPower:         user.CarMaxPower,
			TargetStateOfCharge: user.TargetStateOfCharge,
			TargetTime:          user.TargetTime,
		}
	}

	stations := make(map[string]stationComponent, len(parameters.Stations))
	for _, station := range parameters.Stations {
		stations[fmt.Sprintf("Station%s", station.StationID)] = stationComponent{
			StationID: station.StationID,
			MaxPower:  station.MaxPower,
		}
	}

	configuration := platformConfiguration{
		Simulation: simulationBlock{
			Name: parameters.Name,
			Description: fmt.Sprintf(
				"Simulation '%s' started by EVCommunities demo application.", parameters.Name),
			InitialStartTime: timetools.FromTime(startTime),
			EpochLength:      parameters.EpochLength,
			MaxEpochCount:    maxEpochCount,
		},
		Components: componentsBlock{
			ICComponent:      icComponent{IntelligentController: intelligentController{TotalMaxPower: parameters.TotalMaxPower}},
			UserComponent:    users,
			StationComponent: stations,
		},
	}

	rendered, err := yaml.Marshal(&configuration)
	if err != nil {
		return "", err
	}
	return string(rendered), nil
}

// WriteConfigurationFile writes the configuration document into the given
// folder under a timestamped filename and returns that filename.
func WriteConfigurationFile(parameters *Parameters, folder string) (string, error) {
	contents, err := CreateConfiguration(parameters)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(folder, 0o777); err != nil {
		return "", err
	}
	filename := fmt.Sprintf("simulation_%s.yaml", timetools.CleanTimestamp())
	if err := os.WriteFile(filepath.Join(folder, filename), []byte(contents), 0o666); err != nil {
		return "", err
	}
	return filename, nil
}
