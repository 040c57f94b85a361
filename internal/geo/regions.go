package geo

import (
	"encoding/json"
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultLocale returns the collation locale used for region labels when
// none is configured.
func DefaultLocale() language.Tag {
	return language.Russian
}

// Region is a single quiz-able area of a dataset.
type Region struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	HasFlag bool   `json:"hasFlag"`
}

// ExtractRegions reads every feature of the dataset into a Region, skipping
// features that lack the ID or label property. The result is stably sorted
// by label using the collation rules of locale.
func ExtractRegions(ds *Dataset, locale language.Tag) []Region {
	if ds == nil {
		return nil
	}

	regions := make([]Region, 0, len(ds.GeoJSON.Features))
	for _, f := range ds.GeoJSON.Features {
		idVal, ok := f.Properties[ds.IDKey]
		if !ok || idVal == nil {
			continue
		}
		labelVal, ok := f.Properties[ds.LabelKey]
		if !ok || labelVal == nil {
			continue
		}
		id := PropertyString(idVal)
		regions = append(regions, Region{
			ID:      id,
			Label:   PropertyString(labelVal),
			HasFlag: ds.Flags[id] != "",
		})
	}

	col := collate.New(locale)
	sort.SliceStable(regions, func(i, j int) bool {
		return col.CompareString(regions[i].Label, regions[j].Label) < 0
	})
	return regions
}

// IndexByID returns a lookup of regions keyed by ID.
func IndexByID(regions []Region) map[string]Region {
	byID := make(map[string]Region, len(regions))
	for _, r := range regions {
		byID[r.ID] = r
	}
	return byID
}

// PropertyString coerces a decoded GeoJSON property value to its string form.
// Numbers are normalized to their shortest decimal form ("12.0" and "12"
// both give "12", "1e3" gives "1000") so flag and image keys written by
// other tools still match.
func PropertyString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// PropertyKeys lists the property names of the first feature, sorted.
// Used to offer ID/label key choices when importing a dataset.
func PropertyKeys(fc FeatureCollection) []string {
	if len(fc.Features) == 0 {
		return nil
	}
	props := fc.Features[0].Properties
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
