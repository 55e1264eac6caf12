package l1

import (
	"slices"
	"testing"

	"pgregory.net/rapid"

	"github.com/platform-hal/hal-l1test/internal/fixture"
)

func TestFirstOutside(t *testing.T) {
	if got := firstOutside(nil); got != 0 {
		t.Errorf("firstOutside(nil) = %d, want 0", got)
	}
	if got := firstOutside([]int64{0, 1, 3, 5}); got != 2 {
		t.Errorf("firstOutside([0 1 3 5]) = %d, want 2", got)
	}

	rapid.Check(t, func(t *rapid.T) {
		set := rapid.SliceOf(rapid.Int64Range(0, 20)).Draw(t, "set")
		got := firstOutside(set)
		if slices.Contains(set, got) {
			t.Fatalf("firstOutside(%v) = %d is in the set", set, got)
		}
		for v := int64(0); v < got; v++ {
			if !slices.Contains(set, v) {
				t.Fatalf("firstOutside(%v) = %d skips %d", set, got, v)
			}
		}
	})
}

func TestNewCase(t *testing.T) {
	tc := newCase(GroupThermal, "GetFanSpeed", "invalid_fan", "desc", nil, Fixture(fixture.KeyFanIndex))
	if tc.ID != "GetFanSpeed/invalid_fan" {
		t.Errorf("ID = %q", tc.ID)
	}
	if tc.Name != "GetFanSpeed invalid fan" {
		t.Errorf("Name = %q", tc.Name)
	}
	if len(tc.Requires) != 1 || tc.Requires[0] != "fixture:"+fixture.KeyFanIndex {
		t.Errorf("Requires = %v", tc.Requires)
	}
}

func TestPorts(t *testing.T) {
	fx, err := fixture.Parse([]byte(`{"MaxEthPort": 3}`))
	if err != nil {
		t.Fatal(err)
	}
	if got := ports(fx); !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("ports() = %v", got)
	}
	if got := ports(&fixture.Config{}); len(got) != 0 {
		t.Errorf("ports(empty) = %v", got)
	}
}
