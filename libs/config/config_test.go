package config

import (
	"testing"
	"time"
)

func TestString(t *testing.T) {
	t.Setenv("CFG_TEST_STR", "value")
	if got := String("CFG_TEST_STR", "fallback"); got != "value" {
		t.Fatalf("got %q", got)
	}
	if got := String("CFG_TEST_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("got %q", got)
	}
}

func TestRequiredString(t *testing.T) {
	if _, err := RequiredString("CFG_TEST_REQUIRED"); err == nil {
		t.Fatal("expected error for missing var")
	}
	t.Setenv("CFG_TEST_REQUIRED", "set")
	v, err := RequiredString("CFG_TEST_REQUIRED")
	if err != nil || v != "set" {
		t.Fatalf("got %q, %v", v, err)
	}
}

func TestInt(t *testing.T) {
	t.Setenv("CFG_TEST_INT", "42")
	if got := Int("CFG_TEST_INT", 7); got != 42 {
		t.Fatalf("got %d", got)
	}
	t.Setenv("CFG_TEST_INT", "not-a-number")
	if got := Int("CFG_TEST_INT", 7); got != 7 {
		t.Fatalf("got %d", got)
	}
}

func TestMinutes(t *testing.T) {
	t.Setenv("CFG_TEST_MINS", "15")
	if got := Minutes("CFG_TEST_MINS", time.Minute); got != 15*time.Minute {
		t.Fatalf("got %s", got)
	}
	t.Setenv("CFG_TEST_MINS", "-3")
	if got := Minutes("CFG_TEST_MINS", time.Minute); got != time.Minute {
		t.Fatalf("got %s", got)
	}
}

func TestList(t *testing.T) {
	t.Setenv("CFG_TEST_LIST", "a, b,,c ")
	got := List("CFG_TEST_LIST")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("got %v", got)
	}
	if got := List("CFG_TEST_LIST_MISSING"); got != nil {
		t.Fatalf("expected nil for unset var, got %v", got)
	}
}

func TestPort(t *testing.T) {
	t.Setenv("CFG_TEST_PORT", "8085")
	p, err := Port("CFG_TEST_PORT", "8080")
	if err != nil || p != "8085" {
		t.Fatalf("got %q, %v", p, err)
	}
	t.Setenv("CFG_TEST_PORT", "70000")
	if _, err := Port("CFG_TEST_PORT", "8080"); err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}
