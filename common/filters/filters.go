package filters

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/rigforge/configurator/common/apperrors"
	"github.com/rigforge/configurator/common/catalog"
	"github.com/rigforge/configurator/common/compat"
)

// Option describes the values a field currently takes across the catalog
type Option struct {
	Field  string   `json:"field"`
	Kind   Kind     `json:"kind"`
	Values []string `json:"values,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// Items returns every part of one type as a slice of pointers
func Items(cat *catalog.Catalog, slot compat.Slot) []any {
	switch slot {
	case compat.SlotCPU:
		return toAny(cat.CPUs)
	case compat.SlotGPU:
		return toAny(cat.GPUs)
	case compat.SlotMotherboard:
		return toAny(cat.Motherboards)
	case compat.SlotRAM:
		return toAny(cat.RAMs)
	case compat.SlotStorage:
		return toAny(cat.Storages)
	case compat.SlotPSU:
		return toAny(cat.PSUs)
	case compat.SlotCase:
		return toAny(cat.Cases)
	case compat.SlotCooler:
		return toAny(cat.Coolers)
	default:
		return nil
	}
}

func toAny[T any](items []*T) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// Options projects the catalog into the values each filter field can take,
// keyed by part type.
func Options(cat *catalog.Catalog) map[string][]Option {
	out := make(map[string][]Option, len(compat.Slots))
	for _, slot := range compat.Slots {
		items := Items(cat, slot)
		fields := Fields(slot)
		opts := make([]Option, 0, len(fields))
		for _, f := range fields {
			opts = append(opts, project(f, items))
		}
		out[string(slot)] = opts
	}
	return out
}

func project(f Field, items []any) Option {
	opt := Option{Field: f.Name, Kind: f.Kind}

	if f.Kind == Range {
		for _, item := range items {
			v, ok := f.number(item)
			if !ok {
				continue
			}
			if opt.Min == nil || v < *opt.Min {
				opt.Min = floatPtr(v)
			}
			if opt.Max == nil || v > *opt.Max {
				opt.Max = floatPtr(v)
			}
		}
		return opt
	}

	seen := make(map[string]bool)
	for _, item := range items {
		for _, v := range f.values(item) {
			if !seen[v] {
				seen[v] = true
				opt.Values = append(opt.Values, v)
			}
		}
	}
	sortValues(opt.Values)
	return opt
}

// sortValues orders numerically when every value is a number, else lexically
func sortValues(values []string) {
	numeric := true
	for _, v := range values {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			numeric = false
			break
		}
	}
	sort.SliceStable(values, func(i, j int) bool {
		if numeric {
			a, _ := strconv.ParseFloat(values[i], 64)
			b, _ := strconv.ParseFloat(values[j], 64)
			return a < b
		}
		return values[i] < values[j]
	})
}

func floatPtr(f float64) *float64 { return &f }

// predicate is one parsed query condition
type predicate func(item any) bool

// Apply narrows items of the given part type by the query. "field=a,b"
// keeps items having any of the listed values; "field_min" and "field_max"
// bound range fields inclusively. Keys that name no field are ignored.
func Apply(slot compat.Slot, items []any, query url.Values) ([]any, error) {
	preds, err := parse(slot, query)
	if err != nil {
		return nil, err
	}
	if len(preds) == 0 {
		return items, nil
	}

	out := make([]any, 0, len(items))
	for _, item := range items {
		if matchesAll(preds, item) {
			out = append(out, item)
		}
	}
	return out, nil
}

func matchesAll(preds []predicate, item any) bool {
	for _, p := range preds {
		if !p(item) {
			return false
		}
	}
	return true
}

func parse(slot compat.Slot, query url.Values) ([]predicate, error) {
	var preds []predicate
	for _, f := range Fields(slot) {
		f := f
		switch f.Kind {
		case In:
			raw, ok := query[f.Name]
			if !ok {
				continue
			}
			wanted := splitValues(raw)
			if len(wanted) == 0 {
				continue
			}
			preds = append(preds, func(item any) bool {
				for _, v := range f.values(item) {
					if wanted[canonical(v)] {
						return true
					}
				}
				return false
			})
		case Range:
			lo, err := bound(query, f.Name+"_min", math.Inf(-1))
			if err != nil {
				return nil, err
			}
			hi, err := bound(query, f.Name+"_max", math.Inf(1))
			if err != nil {
				return nil, err
			}
			if math.IsInf(lo, -1) && math.IsInf(hi, 1) {
				continue
			}
			preds = append(preds, func(item any) bool {
				v, ok := f.number(item)
				return ok && v >= lo && v <= hi
			})
		default:
			return nil, fmt.Errorf("%w: field %s has kind %q", apperrors.ErrInvalidInput, f.Name, f.Kind)
		}
	}
	return preds, nil
}

func splitValues(raw []string) map[string]bool {
	out := make(map[string]bool)
	for _, r := range raw {
		for _, v := range strings.Split(r, ",") {
			v = strings.TrimSpace(v)
			if v != "" {
				out[canonical(v)] = true
			}
		}
	}
	return out
}

// canonical makes "4" and "4.0" compare equal and ignores letter case
func canonical(v string) string {
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return num(f)
	}
	return strings.ToLower(v)
}

func bound(query url.Values, key string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: %s must be a number, got %q", apperrors.ErrInvalidInput, key, raw)
	}
	return v, nil
}
