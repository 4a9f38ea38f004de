package dipole

import (
	"math"
	"testing"
)

func TestVec3_Basics(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	sum := a.Add(b)
	if sum != (Vec3{5, 7, 9}) {
		t.Errorf("Add failed: got %v", sum)
	}

	diff := b.Sub(a)
	if diff != (Vec3{3, 3, 3}) {
		t.Errorf("Sub failed: got %v", diff)
	}

	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot = %v, want 32", got)
	}

	cross := Vec3{1, 0, 0}.Cross(Vec3{0, 1, 0})
	if cross != (Vec3{0, 0, 1}) {
		t.Errorf("Cross failed: got %v", cross)
	}
}

func TestVec3_Unit(t *testing.T) {
	u := Vec3{3, 4, 0}.Unit()
	if math.Abs(u.Norm()-1) > 1e-12 {
		t.Errorf("Unit norm = %v, want 1", u.Norm())
	}
	if (Vec3{}).Unit() != (Vec3{}) {
		t.Error("Unit of zero vector should stay zero")
	}
}

func TestField_OnAxis(t *testing.T) {
	// On the dipole axis the field is 2m/z^3 along the moment.
	fm := DefaultFieldModel()
	d := Dipole{Moment: Vec3{Z: 1}}

	for _, z := range []float64{0.5, 1.0, 2.0, 4.0} {
		b := fm.Field(d, Vec3{Z: z})
		want := 2 / (z * z * z)
		if math.Abs(b.Z-want) > 1e-12 || b.X != 0 || b.Y != 0 {
			t.Errorf("Field at z=%v = %v, want (0,0,%v)", z, b, want)
		}
	}
}

func TestField_Equatorial(t *testing.T) {
	// In the equatorial plane the field is -m/r^3.
	fm := DefaultFieldModel()
	d := Dipole{Moment: Vec3{Z: 1}}

	b := fm.Field(d, Vec3{X: 2})
	want := -1.0 / 8.0
	if math.Abs(b.Z-want) > 1e-12 {
		t.Errorf("equatorial Field.Z = %v, want %v", b.Z, want)
	}
}

func TestField_CubeDecay(t *testing.T) {
	fm := DefaultFieldModel()
	d := Dipole{Moment: Vec3{Z: 1}}

	near := fm.Field(d, Vec3{Z: 1}).Norm()
	far := fm.Field(d, Vec3{Z: 2}).Norm()
	if math.Abs(near/far-8) > 1e-9 {
		t.Errorf("doubling distance should cut field by 8x, got ratio %v", near/far)
	}
}

func TestField_SingularityCutoff(t *testing.T) {
	fm := DefaultFieldModel()
	d := Dipole{Moment: Vec3{Z: 1}}

	if b := fm.Field(d, Vec3{Z: 0.05}); b != (Vec3{}) {
		t.Errorf("field inside cutoff = %v, want zero vector", b)
	}
	if b := fm.Field(d, Vec3{}); b != (Vec3{}) {
		t.Error("field at the dipole itself should be zero, not Inf")
	}
}

func TestDiscFlux_SmallDiscMatchesCenterField(t *testing.T) {
	// For a tiny coaxial disc the field is nearly uniform, so the flux
	// should approach centerField * area.
	fm := DefaultFieldModel()
	d := Dipole{Moment: Vec3{Z: 1}}
	center := Vec3{Z: 3}
	normal := Vec3{Z: 1}
	radius := 0.01

	want := fm.Field(d, center).Dot(normal) * math.Pi * radius * radius
	got := fm.DiscFlux(d, center, normal, radius)
	if math.Abs(got-want) > math.Abs(want)*1e-3 {
		t.Errorf("DiscFlux = %v, want about %v", got, want)
	}
}

func TestDiscFlux_LinearInMoment(t *testing.T) {
	fm := DefaultFieldModel()
	center := Vec3{Z: 2}
	normal := Vec3{Z: 1}

	f1 := fm.DiscFlux(Dipole{Moment: Vec3{Z: 1}}, center, normal, 0.8)
	f3 := fm.DiscFlux(Dipole{Moment: Vec3{Z: 3}}, center, normal, 0.8)
	if math.Abs(f3-3*f1) > 1e-12 {
		t.Errorf("flux not linear in moment: f1=%v f3=%v", f1, f3)
	}
}

func TestDiscFlux_SignFollowsMoment(t *testing.T) {
	fm := DefaultFieldModel()
	center := Vec3{Z: 2}
	normal := Vec3{Z: 1}

	up := fm.DiscFlux(Dipole{Moment: Vec3{Z: 1}}, center, normal, 0.5)
	down := fm.DiscFlux(Dipole{Moment: Vec3{Z: -1}}, center, normal, 0.5)
	if up <= 0 {
		t.Errorf("coaxial flux should be positive, got %v", up)
	}
	if math.Abs(up+down) > 1e-12 {
		t.Errorf("flipping the moment should flip the flux: %v vs %v", up, down)
	}
}

func TestDiscFlux_ResolutionStable(t *testing.T) {
	// Doubling the grid should not move the estimate much.
	coarse := FieldModel{SingularRadius: 0.1, Rings: 5, Sectors: 8}
	fine := FieldModel{SingularRadius: 0.1, Rings: 10, Sectors: 16}
	d := Dipole{Moment: Vec3{Z: 1}}
	center := Vec3{Z: 2.5}
	normal := Vec3{Z: 1}

	a := coarse.DiscFlux(d, center, normal, 0.6)
	b := fine.DiscFlux(d, center, normal, 0.6)
	if math.Abs(a-b) > math.Abs(b)*0.05 {
		t.Errorf("quadrature unstable: coarse=%v fine=%v", a, b)
	}
}
