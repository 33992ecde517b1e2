// Package simulation turns a validated demo request into the typed parameter
// set and the SimCES platform configuration document derived from it.
package simulation

import (
	"github.com/evcommunities/demo/validation"
)

// StationParameters describes one charging station of the simulation.
type StationParameters struct {
	StationID string
	MaxPower  float64
}

// UserParameters describes one charging user of the simulation.
type UserParameters struct {
	UserID              int
	UserName            string
	CarBatteryCapacity  float64
	CarMaxPower         float64
	StateOfCharge       float64
	TargetStateOfCharge float64
	ArrivalTime         string
	TargetTime          string
	StationID           string
}

// Parameters is the fully validated and defaulted demo parameter set. It is
// only ever constructed after the checker tree accepted the input.
type Parameters struct {
	Name          string
	TotalMaxPower float64
	EpochLength   int
	Users         []UserParameters
	Stations      []StationParameters
}

// ValidateInput checks a decoded request document against the demo schema and
// materializes the typed parameters from the defaulted document the check
// produced. On failure the returned error carries the first violation in
// traversal order; no partial result is returned.
func ValidateInput(document map[string]any) (*Parameters, error) {
	checked, err := validation.ParameterChecker.Check(validation.NewRun(), document)
	if err != nil {
		return nil, err
	}

	checkedUsers := checked[validation.AttrUsers].([]any)
	users := make([]UserParameters, 0, len(checkedUsers))
	for _, item := range checkedUsers {
		user := item.(map[string]any)
		users = append(users, UserParameters{
			UserID:              intValue(user, validation.AttrUserID),
			UserName:            textValue(user, validation.AttrUserName),
			CarBatteryCapacity:  numberValue(user, validation.AttrCarBatteryCapacity),
			CarMaxPower:         numberValue(user, validation.AttrCarMaxPower),
			StateOfCharge:       numberValue(user, validation.AttrStateOfCharge),
			TargetStateOfCharge: numberValue(user, validation.AttrTargetStateOfCharge),
			ArrivalTime:         textValue(user, validation.AttrArrivalTime),
			TargetTime:          textValue(user, validation.AttrTargetTime),
			StationID:           textValue(user, validation.AttrStationID),
		})
	}

	checkedStations := checked[validation.AttrStations].([]any)
	stations := make([]StationParameters, 0, len(checkedStations))
	for _, item := range checkedStations {
		station := item.(map[string]any)
		stations = append(stations, StationParameters{
			StationID: textValue(station, validation.AttrStationID),
			MaxPower:  numberValue(station, validation.AttrMaxPower),
		})
	}

	return &Parameters{
		Name:          textValue(checked, validation.AttrName),
		TotalMaxPower: numberValue(checked, validation.AttrTotalMaxPower),
		EpochLength:   intValue(checked, validation.AttrEpochLength),
		Users:         users,
		Stations:      stations,
	}, nil
}

func numberValue(values map[string]any, key string) float64 {
	x, _ := validation.Number(values[key])
	return x
}

func intValue(values map[string]any, key string) int {
	i, _ := validation.Integer(values[key])
	return int(i)
}

func textValue(values map[string]any, key string) string {
	s, _ := validation.Text(values[key])
	return s
}
