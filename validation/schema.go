package validation

import (
	"fmt"

	"github.com/evcommunities/demo/timetools"
)

// Attribute names used in the demo request document and the generated
// simulation configuration.
const (
	AttrName          = "Name"
	AttrEpochLength   = "EpochLength"
	AttrTotalMaxPower = "TotalMaxPower"
	AttrUsers         = "Users"
	AttrStations      = "Stations"

	AttrCarBatteryCapacity  = "CarBatteryCapacity"
	AttrCarMaxPower         = "CarMaxPower"
	AttrStateOfCharge       = "StateOfCharge"
	AttrTargetStateOfCharge = "TargetStateOfCharge"
	AttrArrivalTime         = "ArrivalTime"
	AttrTargetTime          = "TargetTime"

	AttrMaxPower  = "MaxPower"
	AttrUserID    = "UserId"
	AttrUserName  = "UserName"
	AttrStationID = "StationId"
)

// Bounds and defaults for the demo schema.
const (
	MaximumAllowedValue = 10000
	MaxUsers            = 20
	MinEpochLength      = 60
	MaxEpochLength      = 7200
	MaxSimulationLength = 7 * 24 * 3600

	DefaultSimulationName  = "EVCommunities demo"
	DefaultCarModel        = "default"
	DefaultEpochLength     = 3600
	DefaultUserNamePrefix  = "User_"
	DefaultStationIDPrefix = "Station_"
)

func positiveAndAtMost(maximum float64) func(any) bool {
	return func(v any) bool {
		x, ok := Number(v)
		return ok && x > 0 && x <= maximum
	}
}

func between(low float64, high float64) func(any) bool {
	return func(v any) bool {
		x, ok := Number(v)
		return ok && x >= low && x <= high
	}
}

func nonEmptyString(v any) bool {
	s, ok := Text(v)
	return ok && len(s) > 0
}

func parseableTimestamp(v any) bool {
	s, ok := Text(v)
	return ok && timetools.IsTimestamp(s)
}

// UserChecker validates one user record.
var UserChecker = Dictionary{
	Required: []string{
		AttrCarBatteryCapacity,
		AttrCarMaxPower,
		AttrStateOfCharge,
		AttrTargetStateOfCharge,
		AttrArrivalTime,
		AttrTargetTime,
		AttrStationID,
	},
	Defaults: map[string]Default{
		AttrUserID: Sequence{Name: AttrUserID, Start: 1},
		AttrUserName: Sequence{Name: AttrUserName, Start: 1, Format: func(n int) any {
			return fmt.Sprintf("%s%d", DefaultUserNamePrefix, n)
		}},
	},
	Fields: []Field{
		{AttrCarBatteryCapacity, Attribute{
			Kinds: []Kind{KindInt, KindFloat},
			Check: positiveAndAtMost(MaximumAllowedValue),
			Error: fmt.Sprintf("The max battery capacity must be positive and at most %d", MaximumAllowedValue),
		}},
		{AttrCarMaxPower, Attribute{
			Kinds: []Kind{KindInt, KindFloat},
			Check: positiveAndAtMost(MaximumAllowedValue),
			Error: fmt.Sprintf("The max car charging power must be positive and at most %d", MaximumAllowedValue),
		}},
		{AttrStateOfCharge, Attribute{
			Kinds: []Kind{KindInt, KindFloat},
			Check: between(0, 100),
			Error: "The initial state of charge must be between 0 and 100",
		}},
		{AttrTargetStateOfCharge, Attribute{
			Kinds: []Kind{KindInt, KindFloat},
			Check: between(0, 100),
			Error: "The target state of charge must be between 0 and 100",
		}},
		{AttrArrivalTime, Attribute{
			Kinds: []Kind{KindString},
			Check: parseableTimestamp,
			Error: "The arrival time must be valid ISO 8601 format datetime string",
		}},
		{AttrTargetTime, Attribute{
			Kinds: []Kind{KindString},
			Check: parseableTimestamp,
			Error: "The leaving time must be valid ISO 8601 format datetime string",
		}},
		{AttrStationID, Attribute{
			Kinds: []Kind{KindString},
			Check: nonEmptyString,
			Error: "The station id for a user must not be empty",
		}},
		{AttrUserID, Attribute{
			Kinds: []Kind{KindInt},
			Check: func(v any) bool {
				id, ok := Integer(v)
				return ok && id > 0
			},
			Error: "The user id must be a positive integer",
		}},
		{AttrUserName, Attribute{
			Kinds: []Kind{KindString},
			Check: nonEmptyString,
			Error: "The user name must not be empty",
		}},
	},
	Rules: []Rule{
		{
			Fields: []string{AttrArrivalTime, AttrTargetTime},
			Check: func(values ...any) bool {
				arrival, _ := Text(values[0])
				target, _ := Text(values[1])
				difference := timetools.Difference(arrival, target)
				return difference > 0 && difference <= MaxSimulationLength
			},
			Error: fmt.Sprintf(
				"The leaving time must be between 0 and %d hours later than the arrival time",
				MaxSimulationLength/3600),
		},
		{
			Fields: []string{AttrTargetStateOfCharge, AttrStateOfCharge},
			Check: func(values ...any) bool {
				target, _ := Number(values[0])
				initial, _ := Number(values[1])
				return target-initial >= 0 && target-initial <= 100
			},
			Error: "The target state of charge cannot be smaller the initial state of charge",
		},
	},
}

// StationChecker validates one charging station record.
var StationChecker = Dictionary{
	Required: []string{
		AttrMaxPower,
		AttrStationID,
	},
	Defaults: map[string]Default{},
	Fields: []Field{
		{AttrMaxPower, Attribute{
			Kinds: []Kind{KindInt, KindFloat},
			Check: positiveAndAtMost(MaximumAllowedValue),
			Error: fmt.Sprintf("The max station charging power must be positive and at most %d", MaximumAllowedValue),
		}},
		{AttrStationID, Attribute{
			Kinds: []Kind{KindString},
			Check: nonEmptyString,
			Error: "The station id must not be empty",
		}},
	},
}

// ParameterChecker validates the top-level demo request document.
var ParameterChecker = Dictionary{
	Required: []string{
		AttrTotalMaxPower,
		AttrUsers,
		AttrStations,
	},
	Defaults: map[string]Default{
		AttrName:        Static{Value: DefaultSimulationName},
		AttrEpochLength: Static{Value: DefaultEpochLength},
	},
	Fields: []Field{
		{AttrName, Attribute{
			Kinds: []Kind{KindString},
			Check: nonEmptyString,
			Error: "The simulation name must contain at least one character",
		}},
		{AttrEpochLength, Attribute{
			Kinds: []Kind{KindInt},
			Check: between(MinEpochLength, MaxEpochLength),
			Error: fmt.Sprintf("Epoch length must be between %d and %d seconds", MinEpochLength, MaxEpochLength),
		}},
		{AttrTotalMaxPower, Attribute{
			Kinds: []Kind{KindInt, KindFloat},
			Check: between(0, MaximumAllowedValue),
			Error: fmt.Sprintf("The total maximum power charging power must be positive and at most %d", MaximumAllowedValue),
		}},
		{AttrUsers, List{
			MinItems:    1,
			MaxItems:    MaxUsers,
			LengthError: fmt.Sprintf("There must be at least one user and no more than %d users", MaxUsers),
			Item:        UserChecker,
		}},
		{AttrStations, List{
			MinItems:    1,
			MaxItems:    MaxUsers,
			LengthError: fmt.Sprintf("There must be at least one station and no more than %d stations", MaxUsers),
			Item:        StationChecker,
		}},
	},
	Rules: []Rule{
		{
			Fields: []string{AttrUsers},
			Check: func(values ...any) bool {
				users, _ := values[0].([]any)
				return UniqueIntegers(users, AttrUserID)
			},
			Error: "All users must have an unique user id",
		},
		{
			Fields: []string{AttrUsers},
			Check: func(values ...any) bool {
				users, _ := values[0].([]any)
				return UniqueStrings(users, AttrUserName)
			},
			Error: "All users must have an unique user name",
		},
		{
			Fields: []string{AttrUsers, AttrStations},
			Check: func(values ...any) bool {
				users, _ := values[0].([]any)
				stations, _ := values[1].([]any)
				return ReferencesResolve(users, AttrStationID, stations, AttrStationID)
			},
			Error: "All stations that users are connected to must be part of the simulation",
		},
		{
			Fields: []string{AttrUsers},
			Check: func(values ...any) bool {
				users, _ := values[0].([]any)
				return SpanWithin(users, AttrArrivalTime, AttrTargetTime, MaxSimulationLength)
			},
			Error: fmt.Sprintf("The maximum length for a simulation is %d hours", MaxSimulationLength/3600),
		},
		{
			Fields: []string{AttrUsers},
			Check: func(values ...any) bool {
				users, _ := values[0].([]any)
				return NoOverlaps(users, AttrStationID, AttrArrivalTime, AttrTargetTime)
			},
			Error: "Multiple users cannot be connected to the same station at the same time",
		},
	},
}
