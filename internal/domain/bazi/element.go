package bazi

import (
	"fmt"
	"strings"
)

// Element is one of the five phases.
type Element int

const (
	Wood Element = iota
	Fire
	Earth
	Metal
	Water
)

// ElementCount is the number of phases.
const ElementCount = 5

var elementNames = [ElementCount]string{"wood", "fire", "earth", "metal", "water"}

// Elements lists the phases in generating order.
func Elements() [ElementCount]Element {
	return [ElementCount]Element{Wood, Fire, Earth, Metal, Water}
}

func (e Element) String() string {
	if e < 0 || e >= ElementCount {
		return fmt.Sprintf("element(%d)", int(e))
	}
	return elementNames[e]
}

// Generates returns the phase e gives birth to.
func (e Element) Generates() Element { return (e + 1) % ElementCount }

// Controls returns the phase e restrains.
func (e Element) Controls() Element { return (e + 2) % ElementCount }

// GeneratedBy returns the phase that gives birth to e.
func (e Element) GeneratedBy() Element { return (e + ElementCount - 1) % ElementCount }

// MarshalText encodes the element name.
func (e Element) MarshalText() ([]byte, error) {
	if e < 0 || e >= ElementCount {
		return nil, fmt.Errorf("invalid element %d", int(e))
	}
	return []byte(elementNames[e]), nil
}

// UnmarshalText decodes an element name.
func (e *Element) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, candidate := range elementNames {
		if candidate == name {
			*e = Element(i)
			return nil
		}
	}
	return fmt.Errorf("unknown element %q", name)
}

// Polarity is yin or yang.
type Polarity string

const (
	Yang Polarity = "yang"
	Yin  Polarity = "yin"
)

func polarityOf(yang bool) Polarity {
	if yang {
		return Yang
	}
	return Yin
}

// ElementDistribution counts the element-bearing slots of a chart.
type ElementDistribution map[Element]int

// Total sums all counts.
func (d ElementDistribution) Total() int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}
