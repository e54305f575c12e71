package app

import (
	"reflect"
	"testing"
	"time"
)

func TestEnvString(t *testing.T) {
	t.Setenv("VISASLOT_TEST_STR", "  value  ")
	if got := EnvString("VISASLOT_TEST_STR", "def"); got != "value" {
		t.Fatalf("got %q", got)
	}
	if got := EnvString("VISASLOT_TEST_STR_MISSING", "def"); got != "def" {
		t.Fatalf("got %q", got)
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv("VISASLOT_TEST_BOOL", "true")
	if !EnvBool("VISASLOT_TEST_BOOL", false) {
		t.Fatalf("expected true")
	}
	t.Setenv("VISASLOT_TEST_BOOL", "garbage")
	if EnvBool("VISASLOT_TEST_BOOL", false) {
		t.Fatalf("garbage should fall back to default")
	}
}

func TestEnvDuration(t *testing.T) {
	t.Setenv("VISASLOT_TEST_DUR", "30s")
	if got := EnvDuration("VISASLOT_TEST_DUR", time.Minute); got != 30*time.Second {
		t.Fatalf("got %v", got)
	}
	t.Setenv("VISASLOT_TEST_DUR", "-5s")
	if got := EnvDuration("VISASLOT_TEST_DUR", time.Minute); got != time.Minute {
		t.Fatalf("negative should fall back, got %v", got)
	}
}

func TestEnvCSV(t *testing.T) {
	t.Setenv("VISASLOT_TEST_CSV", " a, ,b ,c")
	got := EnvCSV("VISASLOT_TEST_CSV", "")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if got := EnvCSV("VISASLOT_TEST_CSV_MISSING", ""); got != nil {
		t.Fatalf("got %v want nil", got)
	}
}
