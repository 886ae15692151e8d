package avatar

import (
	"net/url"
	"strings"
	"testing"

	"github.com/dalemusser/ideahub/internal/domain/models"
)

func TestURL_Deterministic(t *testing.T) {
	s := Settings{Skin: "tan", Hair: "curly"}
	a := URL("user-1", s)
	b := URL("user-1", s)
	if a != b {
		t.Fatalf("URL not deterministic: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, BaseURL+"?") {
		t.Errorf("unexpected base: %q", a)
	}

	u, err := url.Parse(a)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := u.Query()
	checks := map[string]string{
		"seed":            "user-1",
		"skinTone":        "tan",
		"hair":            "curly",
		"clothing":        "casual",
		"backgroundColor": "blue",
		"gender":          "neutral",
	}
	for k, want := range checks {
		if got := q.Get(k); got != want {
			t.Errorf("%s = %q, want %q", k, got, want)
		}
	}
	if q.Has("eyebrows") {
		t.Error("empty optional setting should be omitted")
	}
}

func TestURL_EmptySeed(t *testing.T) {
	u, _ := url.Parse(URL("", Settings{}))
	if u.Query().Get("seed") != "default" {
		t.Errorf("empty seed should fall back to default, got %q", u.Query().Get("seed"))
	}
}

func TestInvalid(t *testing.T) {
	s := Settings{Skin: "green", Gender: "male", Eyebrows: "wild"}
	bad := s.Invalid()
	if len(bad) != 2 {
		t.Fatalf("expected 2 invalid settings, got %v", bad)
	}
	if _, ok := bad["avatar.skin"]; !ok {
		t.Error("expected skin to be flagged")
	}
	if _, ok := bad["avatar.eyebrows"]; !ok {
		t.Error("expected eyebrows to be flagged")
	}
	if len(Defaults.Invalid()) != 0 {
		t.Error("defaults must be valid options")
	}
}

func TestProfileRoundTrip(t *testing.T) {
	s := Settings{Skin: "dark", Clothing: "formal", Background: "teal", Gender: "female", FacialHair: "none"}
	var p models.Profile
	s.Apply(&p)
	if got := FromProfile(p); got != s {
		t.Errorf("FromProfile(Apply(s)) = %+v, want %+v", got, s)
	}
}
