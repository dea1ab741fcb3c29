package mathx

import "testing"

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 10); got != 5 {
		t.Errorf("Clamp(5,0,10) = %d", got)
	}
	if got := Clamp(-3, 0, 10); got != 0 {
		t.Errorf("Clamp(-3,0,10) = %d", got)
	}
	if got := Clamp(42, 0, 10); got != 10 {
		t.Errorf("Clamp(42,0,10) = %d", got)
	}
	// Swapped bounds are tolerated.
	if got := Clamp(42, 10, 0); got != 10 {
		t.Errorf("Clamp(42,10,0) = %d", got)
	}
	if got := Clamp(1.5, -1.0, 1.0); got != 1.0 {
		t.Errorf("Clamp(1.5,-1,1) = %v", got)
	}
}

func TestBetween(t *testing.T) {
	if !Between(1500, 988, 2012) {
		t.Error("Between(1500,988,2012) = false")
	}
	if Between(900, 988, 2012) {
		t.Error("Between(900,988,2012) = true")
	}
	if !Between(5, 10, 0) {
		t.Error("Between with swapped bounds failed")
	}
}

func TestAbs(t *testing.T) {
	if Abs(-7) != 7 || Abs(7) != 7 || Abs(0) != 0 {
		t.Error("Abs misbehaved")
	}
}
