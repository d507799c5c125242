package power

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rigforge/configurator/common/catalog"
	"github.com/tidwall/gjson"
)

var (
	quantityPattern = regexp.MustCompile(`^\s*(\d+)\s*x`)
	splitPinPattern = regexp.MustCompile(`(\d+)\s*\+\s*(\d+)`)
	pinPattern      = regexp.MustCompile(`(\d+)\s*-?\s*pins?\b`)
	versionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:v|ver\.?|version\s*)(\d+(?:\.\d+)?)`),
		// "PCIe 5.0"; the decimal point keeps "PCIe 6+2" a pin count
		regexp.MustCompile(`\bpci-?e\s*(\d+\.\d+)`),
	}
)

// NormalizeJSON converts a PSU's stored connector inventory into the
// normalized supply list. Items may be structured records or free text;
// anything without a recognizable category is dropped.
func NormalizeJSON(raw []byte) []catalog.PowerConnector {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return nil
	}

	doc := gjson.ParseBytes(raw)
	if !doc.IsArray() {
		if pc, ok := normalizeItem(doc); ok {
			return []catalog.PowerConnector{pc}
		}
		return nil
	}

	var out []catalog.PowerConnector
	doc.ForEach(func(_, item gjson.Result) bool {
		if pc, ok := normalizeItem(item); ok {
			out = append(out, pc)
		}
		return true
	})
	return out
}

func normalizeItem(item gjson.Result) (catalog.PowerConnector, bool) {
	switch {
	case item.Type == gjson.String:
		return ParseText(item.Str)
	case item.IsObject():
		return normalizeRecord(item)
	default:
		return catalog.PowerConnector{}, false
	}
}

func normalizeRecord(rec gjson.Result) (catalog.PowerConnector, bool) {
	category, ok := ParseCategory(firstString(rec, "category", "type"))
	if !ok {
		// Records that only carry a display name are parsed like text.
		if name := firstString(rec, "name", "label"); name != "" {
			return ParseText(name)
		}
		return catalog.PowerConnector{}, false
	}

	pc := catalog.PowerConnector{Category: category, Quantity: 1}

	for _, key := range []string{"pins", "lanes", "pin_count"} {
		v := rec.Get(key)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		if pins, ok := numericInt(v); ok {
			pc.Pins = &pins
		} else if pins, ok := pinsFromText(strings.ToLower(v.String())); ok {
			pc.Pins = &pins
		}
		break
	}

	if v := rec.Get("version"); v.Exists() && v.Type != gjson.Null {
		if version, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64); err == nil {
			pc.Version = &version
		}
	}

	for _, key := range []string{"quantity", "count", "qty"} {
		if v := rec.Get(key); v.Exists() {
			if q, ok := numericInt(v); ok {
				pc.Quantity = q
			}
			break
		}
	}

	return pc, true
}

// ParseText extracts a connector from free text such as "2x 8-pin PCIe"
// or "1x 24-pin ATX". The category keywords are checked in a fixed order.
func ParseText(s string) (catalog.PowerConnector, bool) {
	text := strings.ToLower(strings.TrimSpace(s))
	if text == "" {
		return catalog.PowerConnector{}, false
	}

	category, ok := categoryFromText(text)
	if !ok {
		return catalog.PowerConnector{}, false
	}

	pc := catalog.PowerConnector{Category: category, Quantity: 1}

	if m := quantityPattern.FindStringSubmatch(text); m != nil {
		if q, err := strconv.Atoi(m[1]); err == nil {
			pc.Quantity = q
		}
		text = text[len(m[0]):]
	}

	if pins, ok := pinsFromText(text); ok {
		pc.Pins = &pins
	}

	if v, ok := versionFromText(text); ok {
		pc.Version = &v
	}

	return pc, true
}

func versionFromText(text string) (float64, bool) {
	for _, re := range versionPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

// ParseCategory maps a stored category name or keyword to a power category
func ParseCategory(s string) (catalog.ConnectorCategory, bool) {
	text := strings.ToLower(strings.TrimSpace(s))
	switch text {
	case "":
		return "", false
	case strings.ToLower(string(catalog.CategoryPCIePower)):
		return catalog.CategoryPCIePower, true
	case strings.ToLower(string(catalog.CategoryCPUPower)):
		return catalog.CategoryCPUPower, true
	case strings.ToLower(string(catalog.CategoryATXPower)):
		return catalog.CategoryATXPower, true
	case strings.ToLower(string(catalog.CategorySATAPower)):
		return catalog.CategorySATAPower, true
	case strings.ToLower(string(catalog.CategoryMolex)):
		return catalog.CategoryMolex, true
	default:
		return categoryFromText(text)
	}
}

func categoryFromText(text string) (catalog.ConnectorCategory, bool) {
	switch {
	case strings.Contains(text, "pcie") || strings.Contains(text, "pci-e"):
		return catalog.CategoryPCIePower, true
	case strings.Contains(text, "eps") || (strings.Contains(text, "cpu") && strings.Contains(text, "pin")):
		return catalog.CategoryCPUPower, true
	case strings.Contains(text, "atx"):
		return catalog.CategoryATXPower, true
	case strings.Contains(text, "sata"):
		return catalog.CategorySATAPower, true
	case strings.Contains(text, "molex"):
		return catalog.CategoryMolex, true
	default:
		return "", false
	}
}

// pinsFromText sums "<A>+<B>" split connectors, otherwise reads "<N> pin"
func pinsFromText(text string) (int, bool) {
	if m := splitPinPattern.FindStringSubmatch(text); m != nil {
		a, errA := strconv.Atoi(m[1])
		b, errB := strconv.Atoi(m[2])
		if errA == nil && errB == nil {
			return a + b, true
		}
	}
	if m := pinPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n, true
		}
	}
	return 0, false
}

func numericInt(v gjson.Result) (int, bool) {
	switch v.Type {
	case gjson.Number:
		return int(v.Num), true
	case gjson.String:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func firstString(rec gjson.Result, keys ...string) string {
	for _, key := range keys {
		if v := rec.Get(key); v.Exists() && v.Type == gjson.String {
			return v.Str
		}
	}
	return ""
}
