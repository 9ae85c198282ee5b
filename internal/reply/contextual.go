package reply

import (
	"strings"

	"github.com/xiaot623/gogo/assistant/internal/domain"
)

var (
	issueKeywords    = []string{"issue", "maintenance", "repair", "broken", "leak", "fix", "ticket"}
	propertyKeywords = []string{"property", "rent", "payment", "lease", "apartment", "landlord", "deposit"}
)

// ContextualReplies picks quick replies for free text such as an AI
// completion. It is independent of the intent rules: issue words win over
// property words, and anything else gets the role defaults.
func ContextualReplies(text string, role domain.Role) []domain.QuickReply {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, issueKeywords):
		return IssueReplies(role)
	case containsAny(lower, propertyKeywords):
		return PropertyReplies(role)
	}
	return RoleDefaults(role)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
