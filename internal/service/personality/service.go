package personality

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/agent-swarm/backend/internal/model/agent"
	"github.com/zhouzirui/agent-swarm/backend/internal/model/personality"
	"github.com/zhouzirui/agent-swarm/backend/internal/random"
)

// Name is the agent name reported in workflow traces.
const Name = "Personality"

// FallbackResponse is returned when no source response was handed over.
const FallbackResponse = "I'm not sure how to respond to that without more information."

const (
	transitionChance = 0.5
	fillerChance     = 0.3
	maxFillerOffset  = 3
)

var (
	listMarkers     = []string{"•", "-", "*", "1."}
	sentenceEndings = regexp.MustCompile(`\.(\s|$)`)
)

// Service rewrites agent responses in a conversational style.
type Service struct {
	rng *random.Source

	mu      sync.Mutex
	style   personality.Style
	pending agent.ToolCalls
}

// NewService returns a rewriter using style by default.
func NewService(style personality.Style, rng *random.Source) *Service {
	if _, ok := personality.ParseStyle(string(style)); !ok {
		style = personality.DefaultStyle
	}
	return &Service{rng: rng, style: style}
}

// Name implements agent.Agent.
func (s *Service) Name() string {
	return Name
}

// Style returns the current default style.
func (s *Service) Style() personality.Style {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.style
}

// SetStyle switches the default style. Unknown names leave the style
// unchanged; either way a note is emitted with the next Process trace.
func (s *Service) SetStyle(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	style, ok := personality.ParseStyle(name)
	if !ok {
		s.pending.Record("set_personality_error", styleError(name))
		log.Warn().Str("component", "personality").Str("style", name).Msg("unknown personality type ignored")
		return false
	}

	s.style = style
	s.pending.Record("set_personality", map[string]any{"personality_type": string(style)})
	return true
}

// Process implements agent.Agent. The response to rewrite is read from
// the agent.ContextSourceResponse context key.
func (s *Service) Process(_ context.Context, req agent.Request) (agent.Result, error) {
	s.mu.Lock()
	calls := s.pending
	s.pending = nil
	style := s.style
	s.mu.Unlock()

	source, ok := req.Lookup(agent.ContextSourceResponse)
	if !ok {
		return agent.Result{
			Response:  FallbackResponse,
			Category:  agent.CategoryPersonality,
			ToolCalls: calls,
		}, nil
	}

	if override, ok := req.Lookup(agent.ContextPersonalityType); ok && strings.TrimSpace(override) != "" {
		if parsed, valid := personality.ParseStyle(override); valid {
			style = parsed
		} else {
			calls.Record("set_personality_error", styleError(override))
		}
	}

	transformed := s.Rewrite(source, style)
	calls.Record("personality_transform", map[string]any{
		"personality_type":   string(style),
		"original_length":    utf8.RuneCountInString(source),
		"transformed_length": utf8.RuneCountInString(transformed),
	})

	return agent.Result{
		Response:  transformed,
		Category:  agent.CategoryPersonality,
		ToolCalls: calls,
	}, nil
}

// Rewrite decorates text with the greetings, fillers and closings of style.
func (s *Service) Rewrite(text string, style personality.Style) string {
	profile := style.Profile()
	paragraphs := strings.Split(text, "\n\n")
	last := len(paragraphs) - 1
	out := make([]string, 0, len(paragraphs))

	for i, paragraph := range paragraphs {
		if i == 0 {
			paragraph = s.opening(paragraph, profile)
		} else if strings.TrimSpace(paragraph) == "" {
			out = append(out, paragraph)
			continue
		}

		if i > 0 && i < last && !isListItem(paragraph) && s.rng.Chance(transitionChance) {
			paragraph = fmt.Sprintf("%s, %s", s.rng.Pick(profile.Transitions), lowerFirst(paragraph))
		}

		if !isListItem(paragraph) && s.rng.Chance(fillerChance) {
			paragraph = insertFiller(paragraph, s.rng.Pick(profile.Fillers))
		}

		if s.rng.Chance(profile.ExclamationFrequency) {
			paragraph = sentenceEndings.ReplaceAllString(paragraph, "!$1")
		}

		out = append(out, paragraph)
	}

	if !isListItem(out[last]) {
		out[last] = out[last] + " " + s.rng.Pick(profile.Closings)
	}

	result := strings.Join(out, "\n\n")
	if len(profile.Emojis) > 0 && s.rng.Chance(profile.EmojiFrequency) {
		result = result + " " + s.rng.Pick(profile.Emojis)
	}
	return result
}

// opening greets first, then acknowledges in front of the greeted paragraph
// unless it reads as a list item.
func (s *Service) opening(paragraph string, profile personality.Profile) string {
	greeted := s.rng.Pick(profile.Greetings)
	if strings.TrimSpace(paragraph) != "" {
		greeted += " " + paragraph
	}
	if isListItem(greeted) {
		return greeted
	}
	return fmt.Sprintf("%s, %s", s.rng.Pick(profile.Acknowledgments), lowerFirst(greeted))
}

func isListItem(paragraph string) bool {
	trimmed := strings.TrimSpace(paragraph)
	for _, marker := range listMarkers {
		if strings.HasPrefix(trimmed, marker) {
			return true
		}
	}
	return false
}

// insertFiller splices filler after at most the third word. Whitespace inside
// the paragraph collapses to single spaces.
func insertFiller(paragraph, filler string) string {
	words := strings.Fields(paragraph)
	pos := min(maxFillerOffset, len(words)-1)
	if pos < 0 {
		pos = 0
	}
	words = append(words[:pos], append([]string{filler}, words[pos:]...)...)
	return strings.Join(words, " ")
}

// lowerFirst lowercases the first letter unless the text opens with the pronoun "I".
func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	if r == 'I' && (len(s) == size || s[size] == ' ' || s[size] == '\'') {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func styleError(name string) map[string]any {
	return map[string]any{
		"error":           fmt.Sprintf("Unknown personality type: %s", name),
		"available_types": personality.Names(),
	}
}
