package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/assistant/internal/domain"
	"github.com/xiaot623/gogo/assistant/internal/reply"
)

var (
	tenant   = domain.SessionContext{Role: domain.RoleTenant, UserID: "7", PropertyID: "101", UserName: "Asha", UserEmail: "asha@example.com"}
	landlord = domain.SessionContext{Role: domain.RoleLandlord, UserID: "3"}
)

func match(t *testing.T, text string, sc domain.SessionContext) Outcome {
	t.Helper()
	out, ok := NewMatcher(DefaultRules()).Match(text, sc)
	require.True(t, ok, "expected %q to match", text)
	return out
}

func TestRuleSelection(t *testing.T) {
	tests := []struct {
		text string
		sc   domain.SessionContext
		rule string
	}{
		{"create_issue_plumbing", tenant, RuleIssueCategory},
		{"What is my name?", tenant, RuleIdentityName},
		{"what's my email", tenant, RuleIdentityEmail},
		{"Show my issues", tenant, RuleViewIssues},
		{"show tenant issues", landlord, RuleNavigateIssues},
		{"any issues?", landlord, RuleNavigateIssues},
		{"my sink is broken", tenant, RuleIssueCreation},
		{"I want to report an issue", tenant, RuleIssueCreation},
		{"download my lease agreement", tenant, RuleDownloadAgreement},
		{"show property images", tenant, RulePropertyImages},
		{"show my documents", landlord, RuleViewDocuments},
		{"show my payments", tenant, RuleViewPayments},
		{"tell me about my property", tenant, RulePropertyInfo},
		{"show my properties", landlord, RuleViewProperty},
		{"help", tenant, RuleHelp},
		{"what can you do", landlord, RuleHelp},
		{"Hello there", tenant, RuleGreeting},
		{"good morning", landlord, RuleGreeting},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.rule, match(t, tt.text, tt.sc).Rule)
		})
	}
}

func TestUnmatchedInputFallsThrough(t *testing.T) {
	m := NewMatcher(DefaultRules())
	for _, text := range []string{"what's the weather like", "which one is cheaper", "this is wild", "", "   "} {
		_, ok := m.Match(text, tenant)
		assert.False(t, ok, "expected %q to fall through", text)
	}
}

func TestGreetingNeedsWholeWord(t *testing.T) {
	m := NewMatcher(DefaultRules())
	_, ok := m.Match("which is the shipping address", tenant)
	assert.False(t, ok)
}

func TestLeaseIsTenantOnly(t *testing.T) {
	m := NewMatcher(DefaultRules())
	out, ok := m.Match("where is the lease", landlord)
	if ok {
		assert.NotEqual(t, RuleDownloadAgreement, out.Rule)
	}
}

func TestTriggerOutcomes(t *testing.T) {
	out := match(t, "show my issues", tenant)
	require.NotNil(t, out.Trigger)
	assert.Nil(t, out.Response)
	assert.Equal(t, domain.ActionViewIssues, out.Trigger.Kind)
	assert.NoError(t, out.Trigger.Validate())

	out = match(t, "show tenant issues", landlord)
	require.NotNil(t, out.Trigger)
	assert.Equal(t, domain.ActionNavigateIssues, out.Trigger.Kind)
}

func TestIssueCategoryDraft(t *testing.T) {
	out := match(t, reply.IssueCategoryPrefix+"pest_control", tenant)
	require.NotNil(t, out.Response)
	require.NotNil(t, out.Response.IssueDraft)

	draft := out.Response.IssueDraft
	assert.Equal(t, "Pest Control", draft.SuggestedCategory)
	assert.Equal(t, "Medium", draft.SuggestedPriority)
	assert.Contains(t, draft.SuggestedDescription, "property 101")

	require.Len(t, out.Response.Actions, 1)
	act := out.Response.Actions[0]
	assert.Equal(t, domain.ActionCreateIssue, act.Kind)
	assert.NoError(t, act.Validate())
	assert.Equal(t, domain.MessageKindIssueCreation, reply.Classify(*out.Response))
}

func TestIssueCreationOffersCategories(t *testing.T) {
	out := match(t, "the heater is broken", tenant)
	require.NotNil(t, out.Response)
	assert.Equal(t, reply.CategoryReplies(), out.Response.QuickReplies)
}

func TestIdentityAnswers(t *testing.T) {
	assert.Equal(t, "Your name is Asha.", match(t, "who am i", tenant).Response.Text)
	assert.Contains(t, match(t, "what is my email", tenant).Response.Text, "asha@example.com")
	assert.Contains(t, match(t, "what is my name", landlord).Response.Text, "don't have your name")
}

func TestPropertyInfoWithoutProperty(t *testing.T) {
	sc := tenant
	sc.PropertyID = ""
	out := match(t, "my property", sc)
	assert.Contains(t, out.Response.Text, "couldn't find a property")
}

func TestRuleNamesAreUnique(t *testing.T) {
	names := NewMatcher(DefaultRules()).RuleNames()
	seen := map[string]bool{}
	for _, n := range names {
		assert.False(t, seen[n], "duplicate rule %s", n)
		seen[n] = true
	}
	assert.Equal(t, RuleGreeting, names[len(names)-1])
}

func TestPredicates(t *testing.T) {
	assert.True(t, Words("hi")("oh hi!"))
	assert.False(t, Words("hi")("this"))
	assert.True(t, Phrases("my issues")("show my issues please"))
	assert.True(t, Prefix("create_issue_")("create_issue_hvac"))
	assert.True(t, Any(Words("nope"), Phrases("yes"))("yes sir"))
	assert.False(t, Any()("anything"))
}
