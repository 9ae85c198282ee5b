package intent

import (
	"fmt"
	"strings"

	"github.com/xiaot623/gogo/assistant/internal/domain"
	"github.com/xiaot623/gogo/assistant/internal/reply"
)

// Rule names.
const (
	RuleIssueCategory     = "issue_category"
	RuleIdentityName      = "identity_name"
	RuleIdentityEmail     = "identity_email"
	RuleViewIssues        = "view_issues"
	RuleNavigateIssues    = "navigate_issues"
	RuleIssueCreation     = "issue_creation"
	RuleDownloadAgreement = "download_agreement"
	RulePropertyImages    = "view_property_images"
	RuleViewDocuments     = "view_documents"
	RuleViewPayments      = "view_payments"
	RulePropertyInfo      = "property_info"
	RuleViewProperty      = "view_property"
	RuleHelp              = "help"
	RuleGreeting          = "greeting"
)

var (
	tenantOnly   = []domain.Role{domain.RoleTenant}
	landlordOnly = []domain.Role{domain.RoleLandlord}

	issueListPhrases = []string{
		"show issues", "show my issues", "view issues", "view my issues", "my issues",
		"list issues", "list my issues", "issue status", "status of my issue",
		"my tickets", "my requests", "open issues",
	}
)

// DefaultRules returns the intent table in priority order. Narrow rules come
// before broad ones: the listing rules must precede issue creation because
// "issue" alone means "report a new issue".
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:   RuleIssueCategory,
			Match:  Prefix(reply.IssueCategoryPrefix),
			Handle: issueCategoryDraft,
		},
		{
			Name:   RuleIdentityName,
			Match:  Phrases("what is my name", "what's my name", "whats my name", "who am i", "tell me my name"),
			Handle: identityName,
		},
		{
			Name:   RuleIdentityEmail,
			Match:  Phrases("what is my email", "what's my email", "whats my email", "my email"),
			Handle: identityEmail,
		},
		{
			Name:   RuleViewIssues,
			Roles:  tenantOnly,
			Match:  Phrases(issueListPhrases...),
			Handle: trigger(domain.ActionViewIssues, "View my issues"),
		},
		{
			Name:   RuleNavigateIssues,
			Roles:  landlordOnly,
			Match:  Phrases(append([]string{"tenant issues", "maintenance requests", "issues"}, issueListPhrases...)...),
			Handle: trigger(domain.ActionNavigateIssues, "Go to issues"),
		},
		{
			Name:   RuleIssueCreation,
			Match:  Phrases("issue", "problem", "broken", "repair", "maintenance", "leak", "not working", "report"),
			Handle: offerCategories,
		},
		{
			Name:   RuleDownloadAgreement,
			Roles:  tenantOnly,
			Match:  Phrases("agreement", "lease", "contract"),
			Handle: trigger(domain.ActionDownloadAgreement, "Download lease agreement"),
		},
		{
			Name:   RulePropertyImages,
			Match:  Phrases("image", "photo", "picture", "gallery"),
			Handle: trigger(domain.ActionViewPropertyImages, "View property images"),
		},
		{
			Name:   RuleViewDocuments,
			Match:  Phrases("document", "my files", "receipt"),
			Handle: trigger(domain.ActionViewDocuments, "View documents"),
		},
		{
			Name:   RuleViewPayments,
			Match:  Phrases("payment", "pay rent", "rent due", "pay my rent"),
			Handle: trigger(domain.ActionViewPayments, "View payments"),
		},
		{
			Name:   RulePropertyInfo,
			Roles:  tenantOnly,
			Match:  Phrases("my property", "property info", "property details", "my address", "my apartment", "my home"),
			Handle: propertyInfo,
		},
		{
			Name:   RuleViewProperty,
			Roles:  landlordOnly,
			Match:  Phrases("my properties", "view property", "property list", "manage properties", "my property"),
			Handle: trigger(domain.ActionViewProperty, "View properties"),
		},
		{
			Name:   RuleHelp,
			Match:  Any(Words("help", "menu", "options"), Phrases("what can you do", "how does this work")),
			Handle: help,
		},
		{
			Name:   RuleGreeting,
			Match:  Any(Words("hi", "hello", "hey", "hiya", "howdy", "greetings"), Phrases("good morning", "good afternoon", "good evening")),
			Handle: greeting,
		},
	}
}

func trigger(kind domain.ActionKind, label string) Handler {
	return func(string, domain.SessionContext) Outcome {
		return Outcome{Trigger: &domain.Action{ID: reply.NewID("act"), Label: label, Kind: kind}}
	}
}

func respond(resp reply.Response) Outcome {
	return Outcome{Response: &resp}
}

func issueCategoryDraft(text string, sc domain.SessionContext) Outcome {
	category := domain.ParseCategory(strings.TrimPrefix(text, reply.IssueCategoryPrefix))

	description := fmt.Sprintf("%s problem reported through the assistant.", category)
	if sc.PropertyID != "" {
		description = fmt.Sprintf("%s problem at property %s reported through the assistant.", category, sc.PropertyID)
	}
	draft := domain.IssueDraft{
		SuggestedTitle:       fmt.Sprintf("%s issue", category),
		SuggestedDescription: description,
		SuggestedCategory:    string(category),
		SuggestedPriority:    string(domain.PriorityMedium),
	}

	return respond(reply.Response{
		Text: fmt.Sprintf("Here's a draft %s request. Check the details and confirm to submit it to your landlord.", strings.ToLower(string(category))),
		Actions: []domain.Action{{
			ID:    reply.NewID("act"),
			Label: "Submit issue",
			Kind:  domain.ActionCreateIssue,
			Data:  &domain.CreateIssueData{Draft: draft},
		}},
		IssueDraft: &draft,
	})
}

func identityName(_ string, sc domain.SessionContext) Outcome {
	if sc.UserName == "" {
		return respond(reply.Response{Text: "I don't have your name on file yet. You can add it in your profile settings."})
	}
	return respond(reply.Response{Text: fmt.Sprintf("Your name is %s.", sc.UserName)})
}

func identityEmail(_ string, sc domain.SessionContext) Outcome {
	if sc.UserEmail == "" {
		return respond(reply.Response{Text: "I don't have an email address on file for you. You can add one in your profile settings."})
	}
	return respond(reply.Response{Text: fmt.Sprintf("Your email address is %s.", sc.UserEmail)})
}

func offerCategories(string, domain.SessionContext) Outcome {
	return respond(reply.Response{
		Text:         "I can help you report a maintenance issue. What kind of problem is it?",
		QuickReplies: reply.CategoryReplies(),
	})
}

func propertyInfo(_ string, sc domain.SessionContext) Outcome {
	if sc.PropertyID == "" {
		return respond(reply.Response{
			Text:         "I couldn't find a property linked to your account yet. Once your landlord adds you to a property, its details will show up here.",
			QuickReplies: reply.RoleDefaults(sc.Role),
		})
	}
	return respond(reply.Response{
		Text:         fmt.Sprintf("You're renting property #%s. I can show its documents and images, or help you report a maintenance problem.", sc.PropertyID),
		QuickReplies: reply.PropertyReplies(sc.Role),
	})
}

func help(_ string, sc domain.SessionContext) Outcome {
	text := "Here's what I can do: report maintenance issues, show the status of your issues, find your documents and lease agreement, and show property images."
	if sc.Role == domain.RoleLandlord {
		text = "Here's what I can do: show your properties, property documents and images, take you to tenant issues, and open your payments overview."
	}
	return respond(reply.Response{Text: text, QuickReplies: reply.RoleDefaults(sc.Role)})
}

func greeting(_ string, sc domain.SessionContext) Outcome {
	text := "Hello! How can I help you today?"
	if sc.UserName != "" {
		text = fmt.Sprintf("Hello %s! How can I help you today?", sc.UserName)
	}
	return respond(reply.Response{Text: text, QuickReplies: reply.RoleDefaults(sc.Role)})
}
