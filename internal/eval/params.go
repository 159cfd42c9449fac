package eval

import (
	"fmt"
	"strconv"
	"strings"
)

// ParamGroup is one declarative value table for a parametrized case: an
// ordered list of names and one row of values per variant. IDs, when given,
// name the variants; the slice must then match Rows in length.
type ParamGroup struct {
	Names []string
	Rows  [][]any
	IDs   []string
}

// autoMappedKeys are value-mapping names that populate context fields
// directly instead of case parameters.
var autoMappedKeys = map[string]bool{
	"input":     true,
	"reference": true,
	"metadata":  true,
	"run_data":  true,
	"latency":   true,
}

// Expand turns one case into the ordered list of concrete descriptors:
// one per combination of its parametrize groups, or a single descriptor
// when the case has none. Groups[0] varies slowest.
func Expand(c Case) ([]Descriptor, error) {
	if c.Name == "" {
		return nil, ConfigErrorf("case has no name")
	}
	if c.Body == nil {
		return nil, ConfigErrorf("case %s has no body", c.Name)
	}
	if len(c.Groups) == 0 {
		descriptor, err := buildDescriptor(c, nil, "")
		if err != nil {
			return nil, err
		}
		return []Descriptor{descriptor}, nil
	}

	for index, group := range c.Groups {
		if err := validateGroup(c.Name, index, group); err != nil {
			return nil, err
		}
	}

	combos := cartesian(c.Groups)
	anyExplicitIDs := false
	for _, group := range c.Groups {
		if len(group.IDs) > 0 {
			anyExplicitIDs = true
		}
	}

	descriptors := make([]Descriptor, 0, len(combos))
	for comboIndex, combo := range combos {
		values, err := mergeComboValues(c, combo)
		if err != nil {
			return nil, err
		}
		variantID := comboVariantID(c.Groups, combo, comboIndex, anyExplicitIDs)
		descriptor, err := buildDescriptor(c, values, variantID)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, descriptor)
	}
	return descriptors, nil
}

// ExpandAll applies file-level defaults and expands every case, preserving
// registration order.
func ExpandAll(cases []Case, defaults Defaults) ([]Descriptor, error) {
	descriptors := make([]Descriptor, 0, len(cases))
	for _, c := range cases {
		expanded, err := Expand(ApplyDefaults(c, defaults))
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, expanded...)
	}
	return descriptors, nil
}

func validateGroup(caseName string, index int, group ParamGroup) error {
	if len(group.Names) == 0 {
		return ConfigErrorf("case %s: parametrize group %d declares no names", caseName, index)
	}
	if len(group.Rows) == 0 {
		return ConfigErrorf("case %s: parametrize group %d has no value rows", caseName, index)
	}
	for rowIndex, row := range group.Rows {
		if len(row) != len(group.Names) {
			return ConfigErrorf("case %s: parametrize group %d row %d has %d values, expected %d",
				caseName, index, rowIndex, len(row), len(group.Names))
		}
	}
	if len(group.IDs) > 0 && len(group.IDs) != len(group.Rows) {
		return ConfigErrorf("case %s: parametrize group %d has %d ids for %d rows",
			caseName, index, len(group.IDs), len(group.Rows))
	}
	return nil
}

// cartesian enumerates row-index combinations across the groups, with the
// first-declared group varying slowest so run order is reproducible.
func cartesian(groups []ParamGroup) [][]int {
	total := 1
	for _, group := range groups {
		total *= len(group.Rows)
	}
	combos := make([][]int, 0, total)
	combo := make([]int, len(groups))
	for i := 0; i < total; i++ {
		remainder := i
		for g := len(groups) - 1; g >= 0; g-- {
			size := len(groups[g].Rows)
			combo[g] = remainder % size
			remainder /= size
		}
		combos = append(combos, append([]int(nil), combo...))
	}
	return combos
}

// mergeComboValues builds the flat name→value mapping for one combination.
// A name declared by more than one group is a configuration error.
func mergeComboValues(c Case, combo []int) (map[string]any, error) {
	values := map[string]any{}
	for groupIndex, rowIndex := range combo {
		group := c.Groups[groupIndex]
		row := group.Rows[rowIndex]
		for nameIndex, name := range group.Names {
			if _, exists := values[name]; exists {
				return nil, ConfigErrorf("case %s: parameter %q declared by more than one parametrize group", c.Name, name)
			}
			values[name] = row[nameIndex]
		}
	}
	return values, nil
}

// comboVariantID derives the variant id for one combination.
//
// Policy (the source behavior was underspecified for mixed ids): a group
// with explicit ids contributes its id; a group without contributes a
// dash-joined rendering of its row values. Components join outermost first.
// A single group without ids and a single value per row uses the 0-based
// row index instead, and stacked groups with no explicit ids anywhere fall
// back to a flat 0-based index over the whole product.
func comboVariantID(groups []ParamGroup, combo []int, comboIndex int, anyExplicitIDs bool) string {
	if !anyExplicitIDs {
		if len(groups) == 1 && len(groups[0].Names) == 1 {
			return strconv.Itoa(combo[0])
		}
		if len(groups) > 1 {
			return strconv.Itoa(comboIndex)
		}
	}
	parts := make([]string, 0, len(groups))
	for groupIndex, rowIndex := range combo {
		group := groups[groupIndex]
		if len(group.IDs) > 0 {
			parts = append(parts, group.IDs[rowIndex])
			continue
		}
		parts = append(parts, renderRow(group.Rows[rowIndex]))
	}
	return strings.Join(parts, "-")
}

func renderRow(row []any) string {
	rendered := make([]string, 0, len(row))
	for _, value := range row {
		rendered = append(rendered, fmt.Sprintf("%v", value))
	}
	return strings.Join(rendered, "-")
}

// buildDescriptor resolves auto-mapped values and parameter payloads into an
// immutable descriptor. Keys that are neither auto-mapped nor declared in
// Case.Params fail expansion before any execution starts.
func buildDescriptor(c Case, values map[string]any, variantID string) (Descriptor, error) {
	declared := make(map[string]bool, len(c.Params))
	for _, name := range c.Params {
		declared[name] = true
	}

	params := map[string]any{}
	var variantInput, variantReference any
	var variantMetadata, variantRunData map[string]any
	var variantLatency *float64

	for name, value := range values {
		if !autoMappedKeys[name] {
			if !declared[name] {
				return Descriptor{}, ConfigErrorf("case %s: parameter %q is not declared by the case", c.Name, name)
			}
			params[name] = value
			continue
		}
		switch name {
		case "input":
			variantInput = value
		case "reference":
			variantReference = value
		case "metadata":
			payload, ok := value.(map[string]any)
			if !ok {
				return Descriptor{}, ConfigErrorf("case %s: metadata value must be a map, got %T", c.Name, value)
			}
			variantMetadata = payload
		case "run_data":
			payload, ok := value.(map[string]any)
			if !ok {
				return Descriptor{}, ConfigErrorf("case %s: run_data value must be a map, got %T", c.Name, value)
			}
			variantRunData = payload
		case "latency":
			seconds, ok := toFloat(value)
			if !ok {
				return Descriptor{}, ConfigErrorf("case %s: latency value must be a number, got %T", c.Name, value)
			}
			variantLatency = &seconds
		}
	}

	// Input precedence: variant value, then the case's static input, then
	// the raw parameter payload.
	input := variantInput
	if input == nil {
		input = c.Input
	}
	if input == nil && len(params) > 0 {
		input = copyMap(params)
	}
	reference := variantReference
	if reference == nil {
		reference = c.Reference
	}

	metadata := deepMerge(c.Metadata, variantMetadata)
	// Parameter values always land in metadata so stored runs can be
	// filtered by them.
	metadata = deepMerge(metadata, params)

	name := c.Name
	if variantID != "" {
		name = fmt.Sprintf("%s[%s]", c.Name, variantID)
	}
	if len(params) == 0 {
		params = nil
	}

	return Descriptor{
		Name:            name,
		Dataset:         c.Dataset,
		Labels:          append([]string(nil), c.Labels...),
		DefaultScoreKey: c.DefaultScoreKey,
		Timeout:         c.Timeout,
		VariantID:       variantID,
		Params:          params,
		Input:           input,
		Reference:       reference,
		Metadata:        metadata,
		RunData:         variantRunData,
		Latency:         variantLatency,
		Target:          c.Target,
		Evaluators:      c.Evaluators,
		Body:            c.Body,
	}, nil
}
