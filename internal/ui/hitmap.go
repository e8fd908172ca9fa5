package ui

// Mouse region identifiers
const (
	regionArrowUp   = "arrow-up"
	regionArrowDown = "arrow-down"
	regionHomeItem  = "home-item" // Data: menu index
	regionPostItem  = "post-item" // Data: index in the page
)

// Rect represents a rectangular region.
type Rect struct {
	X, Y, W, H int
}

// Contains returns true if the point (x, y) is within the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named rectangular hit region with associated data.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap tracks hit regions for mouse hover and click detection.
type HitMap struct {
	regions []Region
}

// NewHitMap creates a new empty HitMap.
func NewHitMap() *HitMap {
	return &HitMap{
		regions: make([]Region, 0, 16),
	}
}

// Clear removes all regions from the hit map.
func (h *HitMap) Clear() {
	h.regions = h.regions[:0]
}

// AddRect adds a region using individual coordinates.
func (h *HitMap) AddRect(id string, x, y, w, height int, data any) {
	h.regions = append(h.regions, Region{
		ID:   id,
		Rect: Rect{X: x, Y: y, W: w, H: height},
		Data: data,
	})
}

// Test returns the last added region containing the point, or nil if none.
func (h *HitMap) Test(x, y int) *Region {
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].Rect.Contains(x, y) {
			return &h.regions[i]
		}
	}
	return nil
}

// Regions returns a copy of all registered regions
func (h *HitMap) Regions() []Region {
	return append([]Region(nil), h.regions...)
}
