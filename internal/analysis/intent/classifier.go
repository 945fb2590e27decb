package intent

import (
	"regexp"
	"strings"

	"github.com/zhouzirui/agent-swarm/backend/internal/model/agent"
)

// Group names the pattern family that produced a decision.
type Group string

const (
	GroupSupport Group = "support"
	GroupGeneral Group = "general_knowledge"
	GroupDomain  Group = "domain"
	GroupDefault Group = "default"
)

// Decision is the result of classifying one message.
type Decision struct {
	Category agent.Category
	Group    Group
	Pattern  string
}

type patternGroup struct {
	group    Group
	category agent.Category
	patterns []*regexp.Regexp
}

// Order matters: the first group with a matching pattern wins.
var groups = []patternGroup{
	{
		group:    GroupSupport,
		category: agent.CategorySupport,
		patterns: compile(
			`(can'?t|unable to) (sign|log) in`,
			`(can'?t|unable to) (make|do|perform) (transfer|payment)`,
			`(problem|issue|error|trouble) with (my|the) account`,
			`(help|support|assistance) (with|for|regarding)`,
			`not working`,
			`doesn'?t work`,
		),
	},
	{
		group:    GroupGeneral,
		category: agent.CategoryKnowledge,
		patterns: compile(
			`(what|when|where|who|how|why) (is|are|was|were|do|does|did)`,
			`tell me about`,
			`(news|information) (about|on|regarding)`,
			`(latest|recent) (news|information|updates)`,
		),
	},
	{
		group:    GroupDomain,
		category: agent.CategoryKnowledge,
		patterns: compile(
			`(infinitepay|infinite pay)`,
			`(fee|cost|price|rate|charge)`,
			`(maquininha|card machine|card reader)`,
			`(tap to pay|contactless)`,
			`(pix|boleto|payment|transfer)`,
			`(conta digital|digital account)`,
			`(emprestimo|loan)`,
			`(cartao|card)`,
		),
	},
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile(expr)
	}
	return out
}

// Classify maps text to a category. Unmatched text defaults to knowledge.
func Classify(text string) Decision {
	normalized := strings.ToLower(normalizeApostrophes(text))

	for _, g := range groups {
		for _, p := range g.patterns {
			if p.MatchString(normalized) {
				return Decision{Category: g.category, Group: g.group, Pattern: p.String()}
			}
		}
	}

	return Decision{Category: agent.CategoryKnowledge, Group: GroupDefault}
}

// normalizeApostrophes folds typographic apostrophes so "can’t" matches "can't".
func normalizeApostrophes(text string) string {
	return strings.NewReplacer("’", "'", "‘", "'").Replace(text)
}
