package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// countingShape records the tMax it was queried with
type countingShape struct {
	calls []float64
}

func (c *countingShape) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	c.calls = append(c.calls, tMax)
	return nil, false
}

func TestHitList_ClosestHit(t *testing.T) {
	near := material.NewLambertian(core.NewVec3(1, 0, 0))
	far := material.NewLambertian(core.NewVec3(0, 0, 1))

	nearSphere := mustSphere(t, core.NewVec3(0, 0, -3), 1.0, near)
	farSphere := mustSphere(t, core.NewVec3(0, 0, -4), 1.5, far)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	// Order must not matter
	orders := map[string]*HitList{
		"near first": NewHitList(nearSphere, farSphere),
		"far first":  NewHitList(farSphere, nearSphere),
	}

	for name, list := range orders {
		t.Run(name, func(t *testing.T) {
			hit, isHit := list.Hit(ray, 0.001, math.Inf(1))
			if !isHit {
				t.Fatal("Expected hit")
			}
			if hit.Material != material.Material(near) {
				t.Errorf("Expected nearer sphere's material, got %v", hit.Material)
			}
			// Far sphere starts at z=-2.5, near sphere at z=-2
			if math.Abs(hit.T-2) > 1e-9 {
				t.Errorf("Expected t=2, got %f", hit.T)
			}
		})
	}
}

func TestHitList_ShrinksTMax(t *testing.T) {
	sphere := mustSphere(t, core.NewVec3(0, 0, -5), 1.0, material.NewDielectric(1.5))
	probe := &countingShape{}
	list := NewHitList(sphere, probe)

	if _, isHit := list.Hit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), 0.001, 100); !isHit {
		t.Fatal("Expected hit")
	}
	if len(probe.calls) != 1 || math.Abs(probe.calls[0]-4) > 1e-9 {
		t.Errorf("Expected later shape queried with tMax=4, got %v", probe.calls)
	}
}

func TestHitList_Empty(t *testing.T) {
	list := NewHitList()
	if hit, isHit := list.Hit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), 0.001, math.Inf(1)); isHit || hit != nil {
		t.Errorf("Expected empty list to miss, got %v", hit)
	}
}

func TestHitList_Add(t *testing.T) {
	list := NewHitList()
	list.Add(mustSphere(t, core.NewVec3(0, 0, -5), 1.0, material.NewDielectric(1.5)))
	list.Add(&countingShape{}, &countingShape{})

	if list.Len() != 3 {
		t.Errorf("Expected 3 shapes, got %d", list.Len())
	}
}
