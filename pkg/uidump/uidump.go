// Package uidump locates elements in a uiautomator dump.
//
// A dump is treated as text: an element is found by one attribute (its structural marker)
// followed, inside the same tag, by a bounds attribute of the literal form [x1,y1][x2,y2].
// No tree is built and nothing is retried.
package uidump

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/adbpilot/pkg/domain"
)

// Marker identifies an element by one of its attributes, e.g. resource-id="com.whatsapp:id/send".
type Marker struct {
	Attr  string `json:"attr" yaml:"attr"`
	Value string `json:"value" yaml:"value"`
}

// ResourceID is a Marker matching the resource-id attribute.
func ResourceID(id string) Marker {
	return Marker{Attr: "resource-id", Value: id}
}

func (m Marker) String() string {
	return fmt.Sprintf("%s=%q", m.Attr, m.Value)
}

func (m Marker) pattern() *regexp.Regexp {
	attr := m.Attr
	if attr == "" {
		attr = "resource-id"
	}
	return regexp.MustCompile(regexp.QuoteMeta(attr) + `="` + regexp.QuoteMeta(m.Value) +
		`"[^>]*bounds="\[(\d+),(\d+)\]\[(\d+),(\d+)\]"`)
}

var boundsPattern = regexp.MustCompile(`^\[(\d+),(\d+)\]\[(\d+),(\d+)\]$`)

// ParseBounds parses "[x1,y1][x2,y2]".
func ParseBounds(s string) (domain.Bounds, error) {
	m := boundsPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return domain.Bounds{}, fmt.Errorf("invalid bounds format: %s", s)
	}
	return boundsFromMatch(m)
}

func boundsFromMatch(m []string) (domain.Bounds, error) {
	var v [4]int
	for i := range v {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return domain.Bounds{}, fmt.Errorf("invalid bounds value %q: %w", m[i+1], err)
		}
		v[i] = n
	}
	return domain.Bounds{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}, nil
}

// Find returns the bounds of the first element carrying marker.
func Find(dump string, marker Marker) (domain.Bounds, bool) {
	if marker.Value == "" {
		return domain.Bounds{}, false
	}
	m := marker.pattern().FindStringSubmatch(dump)
	if m == nil {
		return domain.Bounds{}, false
	}
	b, err := boundsFromMatch(m)
	if err != nil {
		return domain.Bounds{}, false
	}
	return b, true
}

// Resolution is where to tap for a marker and how that point was obtained.
type Resolution struct {
	Point    domain.Point
	Bounds   domain.Bounds
	Resolved bool
}

// Resolve returns the center of the element carrying marker, or fallback when the marker
// is absent from the dump.
func Resolve(dump string, marker Marker, fallback domain.Point) Resolution {
	b, ok := Find(dump, marker)
	if !ok {
		return Resolution{Point: fallback}
	}
	return Resolution{Point: b.Center(), Bounds: b, Resolved: true}
}
