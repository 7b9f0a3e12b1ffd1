package state

// Phase is the application lifecycle position.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoadingCatalog
	PhaseLoadingGlobe
	PhaseReady
	PhaseResolving
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoadingCatalog:
		return "loading catalog"
	case PhaseLoadingGlobe:
		return "loading globe"
	case PhaseReady:
		return "ready"
	case PhaseResolving:
		return "resolving"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Interactive reports whether the globe accepts picks.
func (p Phase) Interactive() bool {
	return p == PhaseReady || p == PhaseResolving
}

// Loading reports whether a startup or lookup request is outstanding.
func (p Phase) Loading() bool {
	return p == PhaseLoadingCatalog || p == PhaseLoadingGlobe || p == PhaseResolving
}

const (
	// HeaderLines sit above the globe: title and toolbar.
	HeaderLines = 2
	// FooterLines sit below the globe: status and footer.
	FooterLines = 2

	minGlobeWidth  = 20
	minPanelWidth  = 24
	minGlobeHeight = 6
)

// Layout splits the terminal into the globe viewport on the left and the
// country panel on the right.
type Layout struct {
	GlobeX      int
	GlobeY      int
	GlobeWidth  int
	GlobeHeight int
	PanelWidth  int
}

func ComputeLayout(width, height int) Layout {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	globeWidth := width * 3 / 5
	if globeWidth < minGlobeWidth {
		globeWidth = minGlobeWidth
	}
	panelWidth := width - globeWidth - 1
	if panelWidth < minPanelWidth {
		panelWidth = minPanelWidth
	}
	globeHeight := height - HeaderLines - FooterLines
	if globeHeight < minGlobeHeight {
		globeHeight = minGlobeHeight
	}
	return Layout{
		GlobeX:      0,
		GlobeY:      HeaderLines,
		GlobeWidth:  globeWidth,
		GlobeHeight: globeHeight,
		PanelWidth:  panelWidth,
	}
}

// GlobeCell converts a terminal position to globe viewport coordinates.
func (l Layout) GlobeCell(x, y int) (int, int, bool) {
	gx, gy := x-l.GlobeX, y-l.GlobeY
	if gx < 0 || gy < 0 || gx >= l.GlobeWidth || gy >= l.GlobeHeight {
		return 0, 0, false
	}
	return gx, gy, true
}

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}
