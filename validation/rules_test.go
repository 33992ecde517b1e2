package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func record(values map[string]any) any { return values }

func TestUniqueIntegers(t *testing.T) {
	assert.True(t, UniqueIntegers([]any{
		record(map[string]any{"id": 1}),
		record(map[string]any{"id": 2}),
	}, "id"))
	assert.False(t, UniqueIntegers([]any{
		record(map[string]any{"id": 1}),
		record(map[string]any{"id": 1}),
	}, "id"))
	assert.False(t, UniqueIntegers([]any{
		record(map[string]any{"id": "one"}),
	}, "id"))
}

func TestUniqueStrings(t *testing.T) {
	assert.True(t, UniqueStrings([]any{
		record(map[string]any{"name": "a"}),
		record(map[string]any{"name": "b"}),
	}, "name"))
	assert.False(t, UniqueStrings([]any{
		record(map[string]any{"name": "a"}),
		record(map[string]any{"name": "a"}),
	}, "name"))
}

func TestReferencesResolve(t *testing.T) {
	stations := []any{
		record(map[string]any{"StationId": "1"}),
		record(map[string]any{"StationId": "2"}),
	}
	assert.True(t, ReferencesResolve([]any{
		record(map[string]any{"StationId": "2"}),
	}, "StationId", stations, "StationId"))
	assert.False(t, ReferencesResolve([]any{
		record(map[string]any{"StationId": "3"}),
	}, "StationId", stations, "StationId"))
}

func TestSpanWithin(t *testing.T) {
	records := []any{
		record(map[string]any{"begin": "2023-01-23T10:00:00Z", "end": "2023-01-23T12:00:00Z"}),
		record(map[string]any{"begin": "2023-01-23T08:00:00Z", "end": "2023-01-23T11:00:00Z"}),
	}
	assert.True(t, SpanWithin(records, "begin", "end", 4*3600))
	assert.False(t, SpanWithin(records, "begin", "end", 3*3600))
}

func TestNoOverlaps(t *testing.T) {
	overlapping := []any{
		record(map[string]any{"s": "1", "begin": "2023-01-23T10:00:00Z", "end": "2023-01-23T12:00:00Z"}),
		record(map[string]any{"s": "1", "begin": "2023-01-23T11:00:00Z", "end": "2023-01-23T13:00:00Z"}),
	}
	assert.False(t, NoOverlaps(overlapping, "s", "begin", "end"))

	differentStations := []any{
		record(map[string]any{"s": "1", "begin": "2023-01-23T10:00:00Z", "end": "2023-01-23T12:00:00Z"}),
		record(map[string]any{"s": "2", "begin": "2023-01-23T11:00:00Z", "end": "2023-01-23T13:00:00Z"}),
	}
	assert.True(t, NoOverlaps(differentStations, "s", "begin", "end"))

	backToBack := []any{
		record(map[string]any{"s": "1", "begin": "2023-01-23T10:00:00Z", "end": "2023-01-23T12:00:00Z"}),
		record(map[string]any{"s": "1", "begin": "2023-01-23T12:00:00Z", "end": "2023-01-23T14:00:00Z"}),
	}
	assert.True(t, NoOverlaps(backToBack, "s", "begin", "end"))
}
