package env

import (
	"testing"
	"time"
)

func TestGetters(t *testing.T) {
	t.Setenv("SS_STRING", "mongodb://db:27017")
	t.Setenv("SS_INT", " 42 ")
	t.Setenv("SS_BAD_INT", "forty")
	t.Setenv("SS_BOOL", "true")
	t.Setenv("SS_DURATION", "90s")
	t.Setenv("SS_SECONDS", "15")
	t.Setenv("SS_LIST", "http://a, ,http://b")

	if got := GetString("SS_STRING", "x"); got != "mongodb://db:27017" {
		t.Errorf("GetString = %q", got)
	}
	if got := GetString("SS_MISSING", "fallback"); got != "fallback" {
		t.Errorf("GetString fallback = %q", got)
	}
	if got := GetInt("SS_INT", 0); got != 42 {
		t.Errorf("GetInt = %d, want 42", got)
	}
	if got := GetInt("SS_BAD_INT", 7); got != 7 {
		t.Errorf("GetInt bad value = %d, want fallback 7", got)
	}
	if got := GetBool("SS_BOOL", false); !got {
		t.Errorf("GetBool = false, want true")
	}
	if got := GetDuration("SS_DURATION", time.Second); got != 90*time.Second {
		t.Errorf("GetDuration = %v", got)
	}
	if got := GetDuration("SS_SECONDS", time.Second); got != 15*time.Second {
		t.Errorf("GetDuration seconds = %v", got)
	}
	list := GetList("SS_LIST", nil)
	if len(list) != 2 || list[0] != "http://a" || list[1] != "http://b" {
		t.Errorf("GetList = %v", list)
	}
}
