package envutil

import (
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("PEL_INT", "42")
	t.Setenv("PEL_BAD_INT", "x")
	t.Setenv("PEL_DUR", "45m")
	t.Setenv("PEL_BOOL", "on")
	t.Setenv("PEL_LIST", " a.org, ,b.org ")

	if got := Int("PEL_INT", 1, nil); got != 42 {
		t.Fatalf("Int = %d", got)
	}
	if got := Int("PEL_BAD_INT", 7, nil); got != 7 {
		t.Fatalf("Int fallback = %d", got)
	}
	if got := Duration("PEL_DUR", time.Minute, nil); got != 45*time.Minute {
		t.Fatalf("Duration = %s", got)
	}
	if got := Duration("PEL_MISSING_DUR", time.Minute, nil); got != time.Minute {
		t.Fatalf("Duration default = %s", got)
	}
	if !Bool("PEL_BOOL", false) {
		t.Fatalf("Bool should be true")
	}
	if got := List("PEL_LIST", nil); len(got) != 2 || got[0] != "a.org" || got[1] != "b.org" {
		t.Fatalf("List = %v", got)
	}
	if got := String("PEL_MISSING", "def", nil); got != "def" {
		t.Fatalf("String default = %q", got)
	}
}
