package core

import (
	"math"
	"testing"
)

// sequenceSampler replays a fixed list of values
type sequenceSampler struct {
	values []float64
	index  int
}

func (s *sequenceSampler) next() float64 {
	v := s.values[s.index%len(s.values)]
	s.index++
	return v
}

func (s *sequenceSampler) Get1D() float64 { return s.next() }
func (s *sequenceSampler) Get2D() Vec2   { return NewVec2(s.next(), s.next()) }
func (s *sequenceSampler) Get3D() Vec3   { return NewVec3(s.next(), s.next(), s.next()) }

func TestRandomInUnitSphere_InsideSphere(t *testing.T) {
	sampler := NewSeededSampler(42)

	var mean Vec3
	const n = 10000
	for i := 0; i < n; i++ {
		p := RandomInUnitSphere(sampler)
		if p.LengthSquared() >= 1.0 {
			t.Fatalf("Point %v outside unit sphere", p)
		}
		mean = mean.Add(p)
	}

	// Uniform distribution is centered on the origin
	mean = mean.Multiply(1.0 / n)
	if mean.Length() > 0.05 {
		t.Errorf("Expected mean near origin, got %v", mean)
	}
}

func TestRandomInUnitSphere_RejectsCorners(t *testing.T) {
	// First triple maps to (0.98, 0.98, 0.98), outside; second maps to the origin
	sampler := &sequenceSampler{values: []float64{0.99, 0.99, 0.99, 0.5, 0.5, 0.5}}

	p := RandomInUnitSphere(sampler)
	if p.Length() > 1e-12 {
		t.Errorf("Expected rejected corner sample to be skipped, got %v", p)
	}
	if sampler.index != 6 {
		t.Errorf("Expected 6 draws, got %d", sampler.index)
	}
}

func TestRandomInUnitDisk(t *testing.T) {
	sampler := NewSeededSampler(7)

	for i := 0; i < 5000; i++ {
		p := RandomInUnitDisk(sampler)
		if p.Z != 0 {
			t.Fatalf("Expected z=0, got %v", p)
		}
		if p.LengthSquared() >= 1.0 {
			t.Fatalf("Point %v outside unit disk", p)
		}
	}
}

func TestRandomSampler_Range(t *testing.T) {
	sampler := NewSeededSampler(1)

	for i := 0; i < 1000; i++ {
		v := sampler.Get3D()
		for _, c := range []float64{v.X, v.Y, v.Z, sampler.Get1D()} {
			if c < 0 || c >= 1 || math.IsNaN(c) {
				t.Fatalf("Sample %f outside [0,1)", c)
			}
		}
	}
}

func TestNewSeededSampler_Deterministic(t *testing.T) {
	a := NewSeededSampler(99)
	b := NewSeededSampler(99)

	for i := 0; i < 100; i++ {
		if a.Get1D() != b.Get1D() {
			t.Fatalf("Samplers with equal seeds diverged at draw %d", i)
		}
	}
}
