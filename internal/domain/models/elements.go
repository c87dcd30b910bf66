package models

// Element is one of the five elements (wu xing).
type Element int

const (
	Wood Element = iota
	Fire
	Earth
	Metal
	Water
)

var elementNames = [5]string{"Wood", "Fire", "Earth", "Metal", "Water"}

func (e Element) String() string { return elementNames[((int(e)%5)+5)%5] }

// Elements lists all five elements in the traditional generation order.
func Elements() [5]Element { return [5]Element{Wood, Fire, Earth, Metal, Water} }

// ElementVector maps each of the five elements to a non-negative strength.
type ElementVector [5]float64

// Get returns the strength of one element.
func (v ElementVector) Get(e Element) float64 { return v[int(e)] }

// Add accumulates weight onto one element.
func (v *ElementVector) Add(e Element, w float64) { v[int(e)] += w }

// Total returns the sum of all element strengths.
func (v ElementVector) Total() float64 {
	var t float64
	for _, w := range v {
		t += w
	}
	return t
}

// Dominant returns the element with the highest strength.
func (v ElementVector) Dominant() Element {
	best := Wood
	for _, e := range Elements() {
		if v.Get(e) > v.Get(best) {
			best = e
		}
	}
	return best
}
