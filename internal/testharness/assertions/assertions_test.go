package assertions_test

import (
	"strings"
	"testing"

	"github.com/platform-hal/hal-l1test/internal/testharness/assertions"
	"github.com/platform-hal/hal-l1test/pkg/hal"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name     string
		expected any
		actual   any
		want     bool
	}{
		{"ints", 42, 42, true},
		{"strings", "rgWan", "rgWan", true},
		{"records", hal.LEDParams{Color: hal.LEDRed}, hal.LEDParams{Color: hal.LEDRed}, true},
		{"different ints", 42, 43, false},
		{"different types", uint32(0), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := assertions.Equal(tt.expected, tt.actual)
			if r.Passed != tt.want {
				t.Errorf("Equal(%v, %v).Passed = %v, want %v", tt.expected, tt.actual, r.Passed, tt.want)
			}
			if !r.Passed && (r.Expected != tt.expected || r.Actual != tt.actual) {
				t.Errorf("failure should keep expected and actual, got %v/%v", r.Expected, r.Actual)
			}
		})
	}
}

func TestTrueFalse(t *testing.T) {
	if !assertions.True(true).Passed || assertions.True(false).Passed {
		t.Error("True mismatch")
	}
	if !assertions.False(false).Passed || assertions.False(true).Passed {
		t.Error("False mismatch")
	}
}

func TestHasStatus(t *testing.T) {
	if r := assertions.HasStatus(nil, hal.StatusOK); !r.Passed {
		t.Error("HasStatus(nil, OK) should pass")
	}
	if r := assertions.HasStatus(hal.ErrInvalidArgument, hal.StatusError); !r.Passed {
		t.Error("HasStatus(err, ERROR) should pass")
	}

	r := assertions.HasStatus(nil, hal.StatusError)
	if r.Passed {
		t.Error("HasStatus(nil, ERROR) should fail")
	}
	if r.Status != hal.StatusOK {
		t.Errorf("expected recorded status OK, got %s", r.Status)
	}

	err := hal.Errorf("GetFanSpeed", hal.KindOutOfRange, "fan 9")
	r = assertions.HasStatus(err, hal.StatusOK)
	if r.Passed || !strings.Contains(r.Message, "fan 9") {
		t.Errorf("failing status should carry the error detail, got %q", r.Message)
	}
}

func TestOneOf(t *testing.T) {
	if r := assertions.OneOf(3, []int{0, 1, 3, 5}); !r.Passed {
		t.Error("member should pass")
	}
	if r := assertions.OneOf(2, []int{0, 1, 3, 5}); r.Passed {
		t.Error("non-member should fail")
	}
	if r := assertions.OneOf("rgWan", []string{"rgWan", "rgLanIp"}); !r.Passed {
		t.Error("string member should pass")
	}
	if r := assertions.OneOf(hal.RotorLocked, nil); r.Passed {
		t.Error("empty set should fail")
	}
}

func TestNotEmpty(t *testing.T) {
	if r := assertions.NotEmpty("counts", []hal.DSCPCount{{DSCP: 46}}); !r.Passed {
		t.Error("one element should pass")
	}
	r := assertions.NotEmpty[hal.DSCPCount]("counts", nil)
	if r.Passed {
		t.Error("nil list should fail")
	}
	if !strings.HasPrefix(r.Message, "counts") {
		t.Errorf("message should name the list, got %q", r.Message)
	}
}

func TestNumeric(t *testing.T) {
	t.Run("InRange", func(t *testing.T) {
		if r := assertions.InRange(5, 0, 10); !r.Passed {
			t.Error("InRange(5, 0, 10) should pass")
		}
		if r := assertions.InRange(0, 0, 10); !r.Passed {
			t.Error("InRange(0, 0, 10) should pass (inclusive)")
		}
		if r := assertions.InRange(10, 0, 10); !r.Passed {
			t.Error("InRange(10, 0, 10) should pass (inclusive)")
		}
		if r := assertions.InRange(15, 0, 10); r.Passed {
			t.Error("InRange(15, 0, 10) should fail")
		}
		if r := assertions.InRange(-5, 0, 10); r.Passed {
			t.Error("InRange(-5, 0, 10) should fail")
		}
		if r := assertions.InRange(hal.LEDPurple, 0, 6); !r.Passed {
			t.Error("InRange on a named integer type should pass")
		}
		if r := assertions.InRange(uint32(7), 0, 6); r.Passed {
			t.Error("InRange(7, 0, 6) should fail")
		}
	})

	t.Run("GreaterThan", func(t *testing.T) {
		if r := assertions.GreaterThan(10, 5); !r.Passed {
			t.Error("GreaterThan(10, 5) should pass")
		}
		if r := assertions.GreaterThan(5, 5); r.Passed {
			t.Error("GreaterThan(5, 5) should fail (not strictly greater)")
		}
	})

	t.Run("LessThan", func(t *testing.T) {
		if r := assertions.LessThan(uint32(5), 10); !r.Passed {
			t.Error("LessThan(5, 10) should pass")
		}
		if r := assertions.LessThan(5, 5); r.Passed {
			t.Error("LessThan(5, 5) should fail (not strictly less)")
		}
	})
}
