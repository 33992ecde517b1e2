package validation

import (
	"github.com/evcommunities/demo/timetools"
)

// Relational predicates over sibling records. The records handed to these
// helpers are the defaulted documents produced by the per-field phase, so a
// generated identifier participates in uniqueness checks like a supplied one.

func recordValue(record any, key string) any {
	values, ok := record.(map[string]any)
	if !ok {
		return nil
	}
	return values[key]
}

// UniqueIntegers reports whether the integer attribute key is pairwise
// distinct across the records.
func UniqueIntegers(records []any, key string) bool {
	seen := make(map[int64]struct{}, len(records))
	for _, record := range records {
		id, ok := Integer(recordValue(record, key))
		if !ok {
			return false
		}
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
	}
	return true
}

// UniqueStrings reports whether the string attribute key is pairwise distinct
// across the records.
func UniqueStrings(records []any, key string) bool {
	seen := make(map[string]struct{}, len(records))
	for _, record := range records {
		name, ok := Text(recordValue(record, key))
		if !ok {
			return false
		}
		if _, dup := seen[name]; dup {
			return false
		}
		seen[name] = struct{}{}
	}
	return true
}

// ReferencesResolve reports whether every record's refKey value names an
// existing target record (matched on idKey).
func ReferencesResolve(records []any, refKey string, targets []any, idKey string) bool {
	known := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		if id, ok := Text(recordValue(target, idKey)); ok {
			known[id] = struct{}{}
		}
	}
	for _, record := range records {
		ref, ok := Text(recordValue(record, refKey))
		if !ok {
			return false
		}
		if _, found := known[ref]; !found {
			return false
		}
	}
	return true
}

// SpanWithin reports whether the time from the earliest beginKey to the
// latest endKey over all records is at most maxSeconds.
func SpanWithin(records []any, beginKey string, endKey string, maxSeconds int) bool {
	earliest := ""
	latest := ""
	for _, record := range records {
		begin, _ := Text(recordValue(record, beginKey))
		end, _ := Text(recordValue(record, endKey))
		if earliest == "" || timetools.Difference(begin, earliest) > 0 {
			earliest = begin
		}
		if latest == "" || timetools.Difference(latest, end) > 0 {
			latest = end
		}
	}
	return timetools.Difference(earliest, latest) <= maxSeconds
}

// NoOverlaps reports whether no two records sharing the same groupKey have
// overlapping half-open [beginKey, endKey) intervals. Back-to-back intervals
// do not overlap.
func NoOverlaps(records []any, groupKey string, beginKey string, endKey string) bool {
	for i, record := range records {
		group, _ := Text(recordValue(record, groupKey))
		begin, _ := Text(recordValue(record, beginKey))
		end, _ := Text(recordValue(record, endKey))
		for _, other := range records[i+1:] {
			otherGroup, _ := Text(recordValue(other, groupKey))
			if otherGroup != group {
				continue
			}
			otherBegin, _ := Text(recordValue(other, beginKey))
			otherEnd, _ := Text(recordValue(other, endKey))
			// Overlap unless one interval ends before the other begins.
			if timetools.Difference(otherBegin, end) > 0 && timetools.Difference(begin, otherEnd) > 0 {
				return false
			}
		}
	}
	return true
}
