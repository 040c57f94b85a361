package geo

import (
	"encoding/json"
	"math"
)

// Point is a longitude/latitude pair.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Box is an axis-aligned bounding box in degrees.
type Box struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// Center returns the middle of the box.
func (b Box) Center() Point {
	return Point{Lon: (b.Min.Lon + b.Max.Lon) / 2, Lat: (b.Min.Lat + b.Max.Lat) / 2}
}

// Extend grows b to contain o.
func (b Box) Extend(o Box) Box {
	return Box{
		Min: Point{Lon: math.Min(b.Min.Lon, o.Min.Lon), Lat: math.Min(b.Min.Lat, o.Min.Lat)},
		Max: Point{Lon: math.Max(b.Max.Lon, o.Max.Lon), Lat: math.Max(b.Max.Lat, o.Max.Lat)},
	}
}

type rawGeometry struct {
	Type        string            `json:"type"`
	Coordinates json.RawMessage   `json:"coordinates"`
	Geometries  []json.RawMessage `json:"geometries"`
}

// Bounds computes the bounding box of a GeoJSON geometry. It returns false
// for null, empty or malformed geometry.
func Bounds(geometry json.RawMessage) (Box, bool) {
	if len(geometry) == 0 {
		return Box{}, false
	}
	var g rawGeometry
	if err := json.Unmarshal(geometry, &g); err != nil {
		return Box{}, false
	}

	if g.Type == "GeometryCollection" {
		var box Box
		found := false
		for _, sub := range g.Geometries {
			b, ok := Bounds(sub)
			if !ok {
				continue
			}
			if found {
				box = box.Extend(b)
			} else {
				box, found = b, true
			}
		}
		return box, found
	}

	var coords any
	if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
		return Box{}, false
	}
	w := boxWalker{}
	w.walk(coords)
	return w.box, w.found
}

type boxWalker struct {
	box   Box
	found bool
}

// walk visits nested coordinate arrays. A position is an array whose first
// two elements are numbers.
func (w *boxWalker) walk(v any) {
	arr, ok := v.([]any)
	if !ok {
		return
	}
	if len(arr) >= 2 {
		lon, lonOK := arr[0].(float64)
		lat, latOK := arr[1].(float64)
		if lonOK && latOK {
			p := Box{Min: Point{lon, lat}, Max: Point{lon, lat}}
			if w.found {
				w.box = w.box.Extend(p)
			} else {
				w.box, w.found = p, true
			}
			return
		}
	}
	for _, el := range arr {
		w.walk(el)
	}
}

// RegionCenters returns the bounding-box center of every region of ds that
// has usable geometry, keyed by region ID.
func RegionCenters(ds *Dataset) map[string]Point {
	centers := make(map[string]Point)
	if ds == nil {
		return centers
	}
	for _, f := range ds.GeoJSON.Features {
		idVal, ok := f.Properties[ds.IDKey]
		if !ok || idVal == nil {
			continue
		}
		if b, ok := Bounds(f.Geometry); ok {
			centers[PropertyString(idVal)] = b.Center()
		}
	}
	return centers
}
