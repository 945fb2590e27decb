package personality

import "testing"

func TestParseStyle(t *testing.T) {
	cases := map[string]Style{
		"friendly":     Friendly,
		"professional": Professional,
		"casual":       Casual,
	}
	for input, want := range cases {
		got, ok := ParseStyle(input)
		if !ok || got != want {
			t.Fatalf("ParseStyle(%q) = %q, %v; want %q", input, got, ok, want)
		}
	}

	for _, input := range []string{"pirate", "FRIENDLY", " casual", "Professional", ""} {
		if _, ok := ParseStyle(input); ok {
			t.Fatalf("expected %q to be rejected", input)
		}
	}
}

func TestProfilesArePopulated(t *testing.T) {
	for _, style := range Styles() {
		p := style.Profile()
		if len(p.Greetings) == 0 || len(p.Closings) == 0 || len(p.Acknowledgments) == 0 ||
			len(p.Transitions) == 0 || len(p.Fillers) == 0 {
			t.Fatalf("style %s has an empty word list", style)
		}
		if p.EmojiFrequency > 0 && len(p.Emojis) == 0 {
			t.Fatalf("style %s has emoji frequency without emojis", style)
		}
	}

	if len(Professional.Profile().Emojis) != 0 {
		t.Fatal("professional style should not use emojis")
	}
}
