// Package validation implements the declarative checker engine used to decide
// whether an untrusted simulation request is acceptable. A schema is a static
// tree of checker nodes (Attribute, List, Dictionary); checking a document
// walks the tree depth-first, applies defaults for absent optional attributes
// and stops at the first violation. The error text is the exact message the
// API surfaces to its clients.
package validation

import (
	"errors"
	"fmt"
)

// Node is one element of a checker tree. The variant set is closed: exactly
// Attribute, List and Dictionary implement it.
type Node interface {
	// check validates v and returns its effective (defaulted) form. label
	// names the value in error messages, e.g. "attribute Users" or "value".
	check(run *Run, label string, v any) (any, error)
}

// Attribute validates a single scalar value against an allowed kind set and a
// predicate. The predicate only runs when the kind matches.
type Attribute struct {
	Kinds []Kind
	Check func(v any) bool
	Error string
}

func (a Attribute) check(_ *Run, label string, v any) (any, error) {
	kind, ok := kindOf(v)
	if !ok || !hasKind(a.Kinds, kind) {
		return nil, fmt.Errorf("Invalid type for %s", label)
	}
	if a.Check != nil && !a.Check(v) {
		return nil, errors.New(a.Error)
	}
	return v, nil
}

// List validates the length bounds of a list and every element against the
// item checker, in list order, returning the first element error.
type List struct {
	MinItems    int
	MaxItems    int
	LengthError string
	Item        Node
}

func (l List) check(run *Run, label string, v any) (any, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s was not a list", label)
	}
	if len(items) < l.MinItems || len(items) > l.MaxItems {
		return nil, errors.New(l.LengthError)
	}
	checked := make([]any, 0, len(items))
	for _, item := range items {
		value, err := l.Item.check(run, "value", item)
		if err != nil {
			return nil, err
		}
		checked = append(checked, value)
	}
	return checked, nil
}

// Field binds an attribute name to its checker. Fields are a slice so the
// traversal order is the declaration order.
type Field struct {
	Name    string
	Checker Node
}

// Rule is a cross-field checker: a predicate over the effective values of the
// named attributes of one record.
type Rule struct {
	Fields []string
	Check  func(values ...any) bool
	Error  string
}

// Dictionary validates a keyed record in three phases: required-key presence,
// per-field checks with default substitution, then cross-field rules. Each
// phase short-circuits on the first error. The returned document contains the
// effective value of every declared field, so defaults (including generated
// ones) are materialized exactly once per record.
type Dictionary struct {
	Required []string
	Defaults map[string]Default
	Fields   []Field
	Rules    []Rule
}

func (d Dictionary) check(run *Run, label string, v any) (any, error) {
	values, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s was not a dictionary", label)
	}
	return d.Check(run, values)
}

// Check validates a record and returns its defaulted form.
func (d Dictionary) Check(run *Run, values map[string]any) (map[string]any, error) {
	for _, key := range d.Required {
		if _, found := values[key]; !found {
			return nil, fmt.Errorf("Missing required attribute: '%s'", key)
		}
	}

	checked := make(map[string]any, len(d.Fields))
	for _, field := range d.Fields {
		value, err := field.Checker.check(run, "attribute "+field.Name, d.effectiveValue(run, field.Name, values))
		if err != nil {
			return nil, err
		}
		checked[field.Name] = value
	}

	for _, rule := range d.Rules {
		args := make([]any, len(rule.Fields))
		for i, name := range rule.Fields {
			// Rules observe the same values the per-field phase produced;
			// generators are never advanced a second time here.
			if value, found := checked[name]; found {
				args[i] = value
			} else {
				args[i] = values[name]
			}
		}
		if !rule.Check(args...) {
			return nil, errors.New(rule.Error)
		}
	}

	return checked, nil
}

func (d Dictionary) effectiveValue(run *Run, key string, values map[string]any) any {
	if value, found := values[key]; found {
		return value
	}
	if def, found := d.Defaults[key]; found {
		return def.value(run)
	}
	return nil
}

// Check validates an arbitrary value against a checker tree using a fresh
// label, returning the defaulted document on success.
func Check(node Node, run *Run, v any) (any, error) {
	return node.check(run, "value", v)
}
