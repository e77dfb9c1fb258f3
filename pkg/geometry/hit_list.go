package geometry

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// HitList is an ordered collection of shapes tested by brute force.
// It is read-only while rendering.
type HitList struct {
	Shapes []Shape
}

// NewHitList creates a list holding the given shapes
func NewHitList(shapes ...Shape) *HitList {
	return &HitList{Shapes: shapes}
}

// Add appends shapes to the list
func (l *HitList) Add(shapes ...Shape) {
	l.Shapes = append(l.Shapes, shapes...)
}

// Len returns the number of shapes in the list
func (l *HitList) Len() int {
	return len(l.Shapes)
}

// Hit returns the closest intersection among all shapes.
// Each confirmed hit shrinks tMax, so on ties the first shape tested wins.
func (l *HitList) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	closestSoFar := tMax

	for _, shape := range l.Shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
