package geo

import (
	"encoding/json"
	"time"
)

// FeatureCollection is the subset of a GeoJSON FeatureCollection the quiz
// needs. Geometry is kept raw and handed to renderers untouched.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single GeoJSON feature.
type Feature struct {
	Type       string          `json:"type"`
	Properties map[string]any  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry,omitempty"`
}

// Dataset is a named geographic dataset. IDKey and LabelKey name the
// feature properties holding each region's identifier and display label.
type Dataset struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	CreatedAt int64             `json:"createdAt"`
	UpdatedAt int64             `json:"updatedAt"`
	FolderID  string            `json:"folderId,omitempty"`
	GeoJSON   FeatureCollection `json:"geojson"`
	IDKey     string            `json:"idKey"`
	LabelKey  string            `json:"labelKey"`

	// Flags maps region ID to an image URL (data URL or http(s)).
	Flags map[string]string `json:"flags"`
}

// Touch sets UpdatedAt (and CreatedAt when unset) to now, in Unix milliseconds.
func (d *Dataset) Touch(now time.Time) {
	ms := now.UnixMilli()
	if d.CreatedAt == 0 {
		d.CreatedAt = ms
	}
	d.UpdatedAt = ms
}
