// Package topology decodes TopoJSON country outlines into polygon features.
package topology

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/paulmach/orb"
)

const DefaultURL = "https://unpkg.com/world-atlas@2/countries-110m.json"

// CountriesObject is the object holding one geometry per country.
// Documents that carry it are decoded from it alone.
const CountriesObject = "countries"

const maxTopologyBytes = 32 * 1024 * 1024

// ErrNoFeatures is returned when a topology holds no polygon geometries.
var ErrNoFeatures = errors.New("topology has no polygon features")

// Feature is one country outline.
type Feature struct {
	ID         string
	Properties map[string]any
	Geometry   orb.MultiPolygon
	Bound      orb.Bound
}

// Name returns the feature's "name" property, or "" when absent.
func (f Feature) Name() string {
	name, _ := f.Properties["name"].(string)
	return strings.TrimSpace(name)
}

type document struct {
	Type      string            `json:"type"`
	Transform *transform        `json:"transform"`
	Objects   map[string]object `json:"objects"`
	Arcs      [][][]float64     `json:"arcs"`
}

type transform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

type object struct {
	Type       string          `json:"type"`
	ID         json.RawMessage `json:"id"`
	Properties map[string]any  `json:"properties"`
	Arcs       json.RawMessage `json:"arcs"`
	Geometries []object        `json:"geometries"`
}

// Decode parses a TopoJSON document and returns the Polygon and
// MultiPolygon geometries of its countries object. Without one, every
// object is decoded in object-name order.
func Decode(data []byte) ([]Feature, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode topology: %w", err)
	}
	if doc.Type != "Topology" {
		return nil, fmt.Errorf("decode topology: unexpected type %q", doc.Type)
	}

	arcs := decodeArcs(doc.Arcs, doc.Transform)

	names := objectNames(doc.Objects)

	var features []Feature
	for _, name := range names {
		collected, err := collect(doc.Objects[name], arcs)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", name, err)
		}
		features = append(features, collected...)
	}
	if len(features) == 0 {
		return nil, ErrNoFeatures
	}
	return features, nil
}

func objectNames(objects map[string]object) []string {
	if _, ok := objects[CountriesObject]; ok {
		return []string{CountriesObject}
	}
	names := make([]string, 0, len(objects))
	for name := range objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collect(obj object, arcs [][]orb.Point) ([]Feature, error) {
	switch obj.Type {
	case "GeometryCollection":
		var out []Feature
		for _, g := range obj.Geometries {
			features, err := collect(g, arcs)
			if err != nil {
				return nil, err
			}
			out = append(out, features...)
		}
		return out, nil
	case "Polygon":
		var rings [][]int
		if err := json.Unmarshal(obj.Arcs, &rings); err != nil {
			return nil, fmt.Errorf("polygon arcs: %w", err)
		}
		poly, err := polygon(rings, arcs)
		if err != nil {
			return nil, err
		}
		return []Feature{newFeature(obj, orb.MultiPolygon{poly})}, nil
	case "MultiPolygon":
		var polys [][][]int
		if err := json.Unmarshal(obj.Arcs, &polys); err != nil {
			return nil, fmt.Errorf("multipolygon arcs: %w", err)
		}
		mp := make(orb.MultiPolygon, 0, len(polys))
		for _, rings := range polys {
			poly, err := polygon(rings, arcs)
			if err != nil {
				return nil, err
			}
			mp = append(mp, poly)
		}
		return []Feature{newFeature(obj, mp)}, nil
	default:
		// Points, lines and null geometries cannot be picked.
		return nil, nil
	}
}

func newFeature(obj object, mp orb.MultiPolygon) Feature {
	props := obj.Properties
	if props == nil {
		props = map[string]any{}
	}
	return Feature{
		ID:         rawID(obj.ID),
		Properties: props,
		Geometry:   mp,
		Bound:      mp.Bound(),
	}
}

func rawID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func polygon(rings [][]int, arcs [][]orb.Point) (orb.Polygon, error) {
	poly := make(orb.Polygon, 0, len(rings))
	for _, indexes := range rings {
		ring, err := stitch(indexes, arcs)
		if err != nil {
			return nil, err
		}
		poly = append(poly, ring)
	}
	return poly, nil
}

// stitch joins arcs into a closed ring. A negative index ~i refers to arc i
// traversed in reverse. The first point of every arc after the first
// duplicates the previous arc's last point and is dropped.
func stitch(indexes []int, arcs [][]orb.Point) (orb.Ring, error) {
	var ring orb.Ring
	for n, idx := range indexes {
		reversed := idx < 0
		if reversed {
			idx = ^idx
		}
		if idx >= len(arcs) {
			return nil, fmt.Errorf("arc index %d out of range (%d arcs)", idx, len(arcs))
		}
		points := arcs[idx]
		if reversed {
			points = reversedPoints(points)
		}
		if n > 0 && len(points) > 0 {
			points = points[1:]
		}
		ring = append(ring, points...)
	}
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return ring, nil
}

func reversedPoints(points []orb.Point) []orb.Point {
	out := make([]orb.Point, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}

// decodeArcs converts quantized, delta-encoded arcs into absolute lon/lat.
func decodeArcs(raw [][][]float64, t *transform) [][]orb.Point {
	out := make([][]orb.Point, len(raw))
	for i, arc := range raw {
		points := make([]orb.Point, 0, len(arc))
		var x, y float64
		for _, pos := range arc {
			if len(pos) < 2 {
				continue
			}
			if t == nil {
				points = append(points, orb.Point{pos[0], pos[1]})
				continue
			}
			x += pos[0]
			y += pos[1]
			points = append(points, orb.Point{
				x*t.Scale[0] + t.Translate[0],
				y*t.Scale[1] + t.Translate[1],
			})
		}
		out[i] = points
	}
	return out
}

// Load reads a topology from a local path or fetches it over HTTP.
func Load(ctx context.Context, source string, httpClient *http.Client) ([]Feature, error) {
	data, err := read(ctx, source, httpClient)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func read(ctx context.Context, source string, httpClient *http.Client) ([]byte, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("topology source is empty")
	}
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read topology file: %w", err)
		}
		return data, nil
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("topology request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("topology request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxTopologyBytes))
	if err != nil {
		return nil, fmt.Errorf("read topology response: %w", err)
	}
	return data, nil
}
