// Package globe ray-casts a rotating, lit sphere with country outlines onto a
// grid of terminal cells and maps cells back to the country under them.
package globe

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/glabrego/orbital-cli/internal/topology"
)

const (
	// DefaultStep is the rotation applied per frame, in degrees of longitude.
	DefaultStep = 0.6
	// CellAspect is the height of a terminal cell relative to its width.
	CellAspect = 2.0
	// UnknownCountry names picked polygons that carry no name property.
	UnknownCountry = "Unknown"

	atmosphereCells = 1.5
	ambientLight    = 0.25
	maxTilt         = 60.0
)

type CellKind int

const (
	CellSpace CellKind = iota
	CellAtmosphere
	CellOcean
	CellLand
)

// Cell is one rendered terminal cell. Country is the feature index for land
// cells and -1 otherwise.
type Cell struct {
	Rune     rune
	Kind     CellKind
	Country  int
	Selected bool
}

// Pick describes the country under a cell.
type Pick struct {
	Name  string
	Index int
	Lon   float64
	Lat   float64
}

type Globe struct {
	features []topology.Feature

	width  int
	height int
	// aspect is the viewport's width over its height in square units.
	aspect float64
	radius float64

	centerLon float64
	tilt      float64
	step      float64
	charset   Charset
	light     [3]float64
	selected  int
}

func New(features []topology.Feature, width, height int, charset Charset) *Globe {
	g := &Globe{
		features: features,
		step:     DefaultStep,
		charset:  charset,
		light:    normalize([3]float64{-0.45, 0.5, 0.75}),
		selected: -1,
	}
	g.Resize(width, height)
	return g
}

// Resize fits the sphere and its atmosphere into a width x height viewport.
func (g *Globe) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	g.width = width
	g.height = height
	g.aspect = float64(width) / (float64(height) * CellAspect)
	g.radius = math.Min(float64(width)/2, float64(height)*CellAspect/2) - atmosphereCells
	if g.radius < 1 {
		g.radius = 1
	}
}

func (g *Globe) Size() (int, int) { return g.width, g.height }

func (g *Globe) Aspect() float64 { return g.aspect }

func (g *Globe) Radius() float64 { return g.radius }

func (g *Globe) Features() int { return len(g.features) }

// Step advances the rotation by one frame.
func (g *Globe) Step() {
	g.Nudge(g.step)
}

// Nudge rotates the globe by delta degrees of longitude.
func (g *Globe) Nudge(delta float64) {
	g.centerLon = wrapLon(g.centerLon + delta)
}

// Tilt moves the view towards the north (positive) or south pole.
func (g *Globe) Tilt(delta float64) {
	g.tilt = math.Max(-maxTilt, math.Min(maxTilt, g.tilt+delta))
}

func (g *Globe) SetStep(step float64) { g.step = step }

func (g *Globe) SetCharset(c Charset) { g.charset = c }

func (g *Globe) Charset() Charset { return g.charset }

// Center reports the longitude and latitude under the middle of the viewport.
func (g *Globe) Center() (lon, lat float64) { return g.centerLon, g.tilt }

// Select highlights the feature at index; -1 clears the highlight.
func (g *Globe) Select(index int) {
	if index < -1 || index >= len(g.features) {
		index = -1
	}
	g.selected = index
}

// Render draws the current frame, one row per slice.
func (g *Globe) Render() [][]Cell {
	rows := make([][]Cell, g.height)
	outer := 1 + atmosphereCells/g.radius
	for y := 0; y < g.height; y++ {
		row := make([]Cell, g.width)
		for x := 0; x < g.width; x++ {
			sx, sy := g.unit(x, y)
			d2 := sx*sx + sy*sy
			switch {
			case d2 <= 1:
				row[x] = g.surfaceCell(sx, sy, math.Sqrt(1-d2))
			case d2 <= outer*outer:
				row[x] = Cell{Rune: atmosphereGlyph(g.charset), Kind: CellAtmosphere, Country: -1}
			default:
				row[x] = Cell{Rune: ' ', Kind: CellSpace, Country: -1}
			}
		}
		rows[y] = row
	}
	return rows
}

// PickAt reports the country under viewport cell (x, y). ok is false when the
// cell misses the sphere or lands on ocean.
func (g *Globe) PickAt(x, y int) (Pick, bool) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return Pick{}, false
	}
	sx, sy := g.unit(x, y)
	d2 := sx*sx + sy*sy
	if d2 > 1 {
		return Pick{}, false
	}
	lon, lat := g.geographic(sx, sy, math.Sqrt(1-d2))
	idx := g.CountryAt(lon, lat)
	if idx < 0 {
		return Pick{}, false
	}
	name := g.features[idx].Name()
	if name == "" {
		name = UnknownCountry
	}
	return Pick{Name: name, Index: idx, Lon: lon, Lat: lat}, true
}

// PickCenter reports the country under the middle of the viewport.
func (g *Globe) PickCenter() (Pick, bool) {
	return g.PickAt(g.width/2, g.height/2)
}

// CountryAt returns the index of the feature containing lon/lat, or -1.
func (g *Globe) CountryAt(lon, lat float64) int {
	pt := orb.Point{lon, lat}
	for i := range g.features {
		f := &g.features[i]
		if !f.Bound.Contains(pt) {
			continue
		}
		if planar.MultiPolygonContains(f.Geometry, pt) {
			return i
		}
	}
	return -1
}

func (g *Globe) surfaceCell(sx, sy, sz float64) Cell {
	shade := ambientLight + (1-ambientLight)*math.Max(0, sx*g.light[0]+sy*g.light[1]+sz*g.light[2])
	lon, lat := g.geographic(sx, sy, sz)
	idx := g.CountryAt(lon, lat)
	if idx < 0 {
		return Cell{Rune: oceanGlyph(shade, g.charset), Kind: CellOcean, Country: -1}
	}
	return Cell{
		Rune:     landGlyph(shade, g.charset),
		Kind:     CellLand,
		Country:  idx,
		Selected: idx == g.selected,
	}
}

// unit maps a cell centre to view space where the sphere has radius 1,
// x grows to the right and y grows upwards.
func (g *Globe) unit(x, y int) (float64, float64) {
	sx := (float64(x) + 0.5 - float64(g.width)/2) / g.radius
	sy := -(float64(y) + 0.5 - float64(g.height)/2) * CellAspect / g.radius
	return sx, sy
}

// geographic inverts the orthographic projection centred on
// (centerLon, tilt) for a visible sphere point.
func (g *Globe) geographic(sx, sy, sz float64) (lon, lat float64) {
	phi := g.tilt * math.Pi / 180
	sinLat := sz*math.Sin(phi) + sy*math.Cos(phi)
	sinLat = math.Max(-1, math.Min(1, sinLat))
	lat = math.Asin(sinLat) * 180 / math.Pi
	lon = g.centerLon + math.Atan2(sx, sz*math.Cos(phi)-sy*math.Sin(phi))*180/math.Pi
	return wrapLon(lon), lat
}

func wrapLon(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

func normalize(v [3]float64) [3]float64 {
	n := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	return [3]float64{v[0] / n, v[1] / n, v[2] / n}
}
