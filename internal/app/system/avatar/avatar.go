// Package avatar builds deterministic avatar image URLs from a seed and the
// options chosen in the profile editor.
package avatar

import (
	"net/url"

	"github.com/dalemusser/ideahub/internal/domain/models"
)

// BaseURL is the avatar generator endpoint.
const BaseURL = "https://api.dicebear.com/7.x/personas/svg"

// Settings are the editor choices. Empty optional fields are omitted from the URL.
type Settings struct {
	Skin        string `json:"skin"`
	Clothing    string `json:"clothing"`
	Background  string `json:"background"`
	Gender      string `json:"gender"`
	Hair        string `json:"hair,omitempty"`
	Accessories string `json:"accessories,omitempty"`
	FacialHair  string `json:"facial_hair,omitempty"`
	Eyebrows    string `json:"eyebrows,omitempty"`
}

// Defaults used when a profile has no avatar settings yet.
var Defaults = Settings{
	Skin:       "medium",
	Clothing:   "casual",
	Background: "blue",
	Gender:     "neutral",
}

// Options lists the allowed values per setting, keyed by JSON field name.
var Options = map[string][]string{
	"skin":        {"light", "medium", "dark", "pale", "tan", "golden", "olive"},
	"clothing":    {"casual", "formal", "sporty", "business", "sleeveless", "hooded"},
	"background":  {"blue", "green", "purple", "orange", "pink", "teal", "red", "yellow", "gray"},
	"gender":      {"neutral", "male", "female"},
	"hair":        {"short", "long", "curly", "wavy", "bald", "buzz"},
	"accessories": {"none", "glasses", "sunglasses", "earrings"},
	"facial_hair": {"none", "beard", "mustache", "goatee"},
	"eyebrows":    {"default", "raised", "angry", "concerned"},
}

// WithDefaults fills empty required settings from Defaults.
func (s Settings) WithDefaults() Settings {
	if s.Skin == "" {
		s.Skin = Defaults.Skin
	}
	if s.Clothing == "" {
		s.Clothing = Defaults.Clothing
	}
	if s.Background == "" {
		s.Background = Defaults.Background
	}
	if s.Gender == "" {
		s.Gender = Defaults.Gender
	}
	return s
}

// fields pairs each JSON name with its value, in URL parameter order.
func (s Settings) fields() []struct{ name, value string } {
	return []struct{ name, value string }{
		{"skin", s.Skin},
		{"clothing", s.Clothing},
		{"background", s.Background},
		{"gender", s.Gender},
		{"hair", s.Hair},
		{"accessories", s.Accessories},
		{"facial_hair", s.FacialHair},
		{"eyebrows", s.Eyebrows},
	}
}

// Invalid returns a message per setting whose value is not in Options.
// Empty values are allowed and mean "use the default".
func (s Settings) Invalid() map[string]string {
	bad := map[string]string{}
	for _, f := range s.fields() {
		if f.value == "" {
			continue
		}
		if !contains(Options[f.name], f.value) {
			bad["avatar."+f.name] = "unknown option " + f.value
		}
	}
	return bad
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// URL returns the avatar URL for seed with the given settings. Identical
// input always yields the identical URL.
func URL(seed string, s Settings) string {
	if seed == "" {
		seed = "default"
	}
	s = s.WithDefaults()
	q := url.Values{}
	q.Set("seed", seed)
	q.Set("backgroundColor", s.Background)
	q.Set("skinTone", s.Skin)
	q.Set("clothing", s.Clothing)
	q.Set("gender", s.Gender)
	if s.Hair != "" {
		q.Set("hair", s.Hair)
	}
	if s.Accessories != "" {
		q.Set("accessories", s.Accessories)
	}
	if s.FacialHair != "" {
		q.Set("facialHair", s.FacialHair)
	}
	if s.Eyebrows != "" {
		q.Set("eyebrows", s.Eyebrows)
	}
	return BaseURL + "?" + q.Encode()
}

// SeedURL returns the default avatar for a seed, used at registration.
func SeedURL(seed string) string {
	return URL(seed, Defaults)
}

// FromProfile reads settings stored on a profile.
func FromProfile(p models.Profile) Settings {
	return Settings{
		Skin:        p.AvatarSkin,
		Clothing:    p.AvatarClothing,
		Background:  p.AvatarBackground,
		Gender:      p.AvatarGender,
		Hair:        p.AvatarHair,
		Accessories: p.AvatarAccessories,
		FacialHair:  p.AvatarFacialHair,
		Eyebrows:    p.AvatarEyebrows,
	}
}

// Apply writes settings onto a profile.
func (s Settings) Apply(p *models.Profile) {
	p.AvatarSkin = s.Skin
	p.AvatarClothing = s.Clothing
	p.AvatarBackground = s.Background
	p.AvatarGender = s.Gender
	p.AvatarHair = s.Hair
	p.AvatarAccessories = s.Accessories
	p.AvatarFacialHair = s.FacialHair
	p.AvatarEyebrows = s.Eyebrows
}
