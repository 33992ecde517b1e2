package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoUser(station string, arrival string, target string) map[string]any {
	return map[string]any{
		AttrCarBatteryCapacity:  100.0,
		AttrCarMaxPower:         11.0,
		AttrStateOfCharge:       20.0,
		AttrTargetStateOfCharge: 80.0,
		AttrArrivalTime:         arrival,
		AttrTargetTime:          target,
		AttrStationID:           station,
	}
}

func demoDocument() map[string]any {
	return map[string]any{
		AttrTotalMaxPower: 35.5,
		AttrUsers: []any{
			demoUser("1", "2023-01-23T18:00:00Z", "2023-01-24T06:00:00Z"),
		},
		AttrStations: []any{
			map[string]any{AttrStationID: "1", AttrMaxPower: 22.0},
		},
	}
}

func TestParameterCheckerAcceptsExample(t *testing.T) {
	checked, err := ParameterChecker.Check(NewRun(), demoDocument())
	require.NoError(t, err)

	assert.Equal(t, DefaultSimulationName, checked[AttrName])
	assert.Equal(t, DefaultEpochLength, checked[AttrEpochLength])

	users := checked[AttrUsers].([]any)
	require.Len(t, users, 1)
	user := users[0].(map[string]any)
	assert.Equal(t, 1, user[AttrUserID])
	assert.Equal(t, "User_1", user[AttrUserName])
}

func TestParameterCheckerGeneratedIdentifiers(t *testing.T) {
	document := demoDocument()
	document[AttrUsers] = []any{
		demoUser("1", "2023-01-23T18:00:00Z", "2023-01-24T06:00:00Z"),
		demoUser("2", "2023-01-23T18:00:00Z", "2023-01-24T06:00:00Z"),
	}
	document[AttrStations] = []any{
		map[string]any{AttrStationID: "1", AttrMaxPower: 22.0},
		map[string]any{AttrStationID: "2", AttrMaxPower: 22.0},
	}

	checked, err := ParameterChecker.Check(NewRun(), document)
	require.NoError(t, err)

	users := checked[AttrUsers].([]any)
	second := users[1].(map[string]any)
	assert.Equal(t, 2, second[AttrUserID])
	assert.Equal(t, "User_2", second[AttrUserName])
}

func TestParameterCheckerErrors(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(document map[string]any)
		expected string
	}{
		{
			"missing total max power",
			func(d map[string]any) { delete(d, AttrTotalMaxPower) },
			"Missing required attribute: 'TotalMaxPower'",
		},
		{
			"wrong type for name",
			func(d map[string]any) { d[AttrName] = 5 },
			"Invalid type for attribute Name",
		},
		{
			"empty name",
			func(d map[string]any) { d[AttrName] = "" },
			"The simulation name must contain at least one character",
		},
		{
			"epoch length out of bounds",
			func(d map[string]any) { d[AttrEpochLength] = 30 },
			"Epoch length must be between 60 and 7200 seconds",
		},
		{
			"users not a list",
			func(d map[string]any) { d[AttrUsers] = "nobody" },
			"attribute Users was not a list",
		},
		{
			"too many users",
			func(d map[string]any) {
				users := make([]any, 21)
				for i := range users {
					users[i] = demoUser("1", "2023-01-23T18:00:00Z", "2023-01-24T06:00:00Z")
				}
				d[AttrUsers] = users
			},
			"There must be at least one user and no more than 20 users",
		},
		{
			"battery capacity too large",
			func(d map[string]any) {
				d[AttrUsers].([]any)[0].(map[string]any)[AttrCarBatteryCapacity] = 10001.0
			},
			"The max battery capacity must be positive and at most 10000",
		},
		{
			"state of charge out of range",
			func(d map[string]any) {
				d[AttrUsers].([]any)[0].(map[string]any)[AttrStateOfCharge] = 101.0
			},
			"The initial state of charge must be between 0 and 100",
		},
		{
			"bad arrival time",
			func(d map[string]any) {
				d[AttrUsers].([]any)[0].(map[string]any)[AttrArrivalTime] = "yesterday"
			},
			"The arrival time must be valid ISO 8601 format datetime string",
		},
		{
			"leaving before arrival",
			func(d map[string]any) {
				user := d[AttrUsers].([]any)[0].(map[string]any)
				user[AttrArrivalTime] = "2023-01-24T06:00:00Z"
				user[AttrTargetTime] = "2023-01-23T18:00:00Z"
			},
			"The leaving time must be between 0 and 168 hours later than the arrival time",
		},
		{
			"target below initial charge",
			func(d map[string]any) {
				user := d[AttrUsers].([]any)[0].(map[string]any)
				user[AttrStateOfCharge] = 90.0
				user[AttrTargetStateOfCharge] = 50.0
			},
			"The target state of charge cannot be smaller the initial state of charge",
		},
		{
			"station max power too large",
			func(d map[string]any) {
				d[AttrStations].([]any)[0].(map[string]any)[AttrMaxPower] = 20000.0
			},
			"The max station charging power must be positive and at most 10000",
		},
		{
			"unknown station reference",
			func(d map[string]any) {
				d[AttrUsers].([]any)[0].(map[string]any)[AttrStationID] = "99"
			},
			"All stations that users are connected to must be part of the simulation",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			document := demoDocument()
			c.mutate(document)
			_, err := ParameterChecker.Check(NewRun(), document)
			require.Error(t, err)
			assert.Equal(t, c.expected, err.Error())
		})
	}
}

func TestParameterCheckerDuplicateUserIDs(t *testing.T) {
	document := demoDocument()
	first := demoUser("1", "2023-01-23T18:00:00Z", "2023-01-23T20:00:00Z")
	first[AttrUserID] = 4
	second := demoUser("1", "2023-01-23T20:00:00Z", "2023-01-23T22:00:00Z")
	second[AttrUserID] = 4
	document[AttrUsers] = []any{first, second}

	_, err := ParameterChecker.Check(NewRun(), document)
	require.Error(t, err)
	assert.Equal(t, "All users must have an unique user id", err.Error())
}

func TestParameterCheckerOverlappingReservations(t *testing.T) {
	document := demoDocument()
	document[AttrUsers] = []any{
		demoUser("1", "2023-01-23T10:00:00Z", "2023-01-23T12:00:00Z"),
		demoUser("1", "2023-01-23T11:00:00Z", "2023-01-23T13:00:00Z"),
	}

	_, err := ParameterChecker.Check(NewRun(), document)
	require.Error(t, err)
	assert.Equal(t, "Multiple users cannot be connected to the same station at the same time", err.Error())
}

func TestParameterCheckerBackToBackReservations(t *testing.T) {
	document := demoDocument()
	document[AttrUsers] = []any{
		demoUser("1", "2023-01-23T10:00:00Z", "2023-01-23T12:00:00Z"),
		demoUser("1", "2023-01-23T12:00:00Z", "2023-01-23T14:00:00Z"),
	}

	_, err := ParameterChecker.Check(NewRun(), document)
	assert.NoError(t, err)
}

func TestParameterCheckerSimulationSpan(t *testing.T) {
	document := demoDocument()
	document[AttrStations] = []any{
		map[string]any{AttrStationID: "1", AttrMaxPower: 22.0},
		map[string]any{AttrStationID: "2", AttrMaxPower: 22.0},
	}
	// Each stay is within the limit but together they span more than a week.
	document[AttrUsers] = []any{
		demoUser("1", "2023-01-01T00:00:00Z", "2023-01-05T00:00:00Z"),
		demoUser("2", "2023-01-06T00:00:00Z", "2023-01-10T00:00:00Z"),
	}

	_, err := ParameterChecker.Check(NewRun(), document)
	require.Error(t, err)
	assert.Equal(t, "The maximum length for a simulation is 168 hours", err.Error())
}
