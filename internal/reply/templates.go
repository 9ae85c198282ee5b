// Package reply builds bot messages: quick-reply templates, the contextual
// quick-reply keyword pass and the response composer.
package reply

import (
	"strings"

	"github.com/xiaot623/gogo/assistant/internal/domain"
)

// IssueCategoryPrefix is the payload prefix of issue category quick replies.
const IssueCategoryPrefix = "create_issue_"

// Quick reply templates. They are read-only after package init and shared by
// every session.
var (
	qrPropertyInfo      = domain.QuickReply{ID: "property_info", Label: "My property", Payload: "Tell me about my property"}
	qrViewDocuments     = domain.QuickReply{ID: "view_documents", Label: "My documents", Payload: "Show my documents"}
	qrViewImages        = domain.QuickReply{ID: "view_images", Label: "Property images", Payload: "Show property images"}
	qrViewIssues        = domain.QuickReply{ID: "view_issues", Label: "My issues", Payload: "Show my issues"}
	qrCreateIssue       = domain.QuickReply{ID: "create_issue", Label: "Report an issue", Payload: "I want to report an issue"}
	qrTenantPayments    = domain.QuickReply{ID: "view_payments", Label: "Payments", Payload: "Show my payments"}
	qrViewProperties    = domain.QuickReply{ID: "view_properties", Label: "My properties", Payload: "Show my properties"}
	qrPropertyDocuments = domain.QuickReply{ID: "property_documents", Label: "Property documents", Payload: "Show property documents"}
	qrTenantIssues      = domain.QuickReply{ID: "tenant_issues", Label: "Tenant issues", Payload: "Show tenant issues"}
	qrLandlordPayments  = domain.QuickReply{ID: "view_payments", Label: "Payments", Payload: "Show payments"}
	qrDownloadAgreement = domain.QuickReply{ID: "download_agreement", Label: "Lease agreement", Payload: "Download my lease agreement"}
	qrHelp              = domain.QuickReply{ID: "help", Label: "What can you do?", Payload: "help"}
)

// RoleDefaults returns the default quick replies for a role.
func RoleDefaults(role domain.Role) []domain.QuickReply {
	if role == domain.RoleLandlord {
		return []domain.QuickReply{qrViewProperties, qrPropertyDocuments, qrViewImages, qrTenantIssues, qrLandlordPayments}
	}
	return []domain.QuickReply{qrPropertyInfo, qrViewDocuments, qrViewImages, qrViewIssues, qrCreateIssue}
}

// IssueReplies returns quick replies related to maintenance issues.
func IssueReplies(role domain.Role) []domain.QuickReply {
	if role == domain.RoleLandlord {
		return []domain.QuickReply{qrTenantIssues, qrPropertyDocuments}
	}
	return []domain.QuickReply{qrCreateIssue, qrViewIssues}
}

// PropertyReplies returns quick replies related to the property, rent and payments.
func PropertyReplies(role domain.Role) []domain.QuickReply {
	if role == domain.RoleLandlord {
		return []domain.QuickReply{qrViewProperties, qrLandlordPayments, qrPropertyDocuments}
	}
	return []domain.QuickReply{qrPropertyInfo, qrTenantPayments, qrDownloadAgreement}
}

// DocumentReplies returns follow-ups offered next to a document list.
func DocumentReplies(role domain.Role) []domain.QuickReply {
	if role == domain.RoleLandlord {
		return []domain.QuickReply{qrViewImages, qrViewProperties}
	}
	return []domain.QuickReply{qrDownloadAgreement, qrViewImages, qrHelp}
}

// CreateIssueReply is the single "report an issue" quick reply.
func CreateIssueReply() domain.QuickReply {
	return qrCreateIssue
}

var issueCategories = []domain.TicketCategory{
	domain.CategoryPlumbing,
	domain.CategoryElectrical,
	domain.CategoryAppliance,
	domain.CategoryHVAC,
	domain.CategoryStructural,
	domain.CategoryPestControl,
	domain.CategoryOther,
}

// CategoryReplies returns one quick reply per ticket category. Each payload
// is IssueCategoryPrefix followed by the category slug.
func CategoryReplies() []domain.QuickReply {
	out := make([]domain.QuickReply, 0, len(issueCategories))
	for _, c := range issueCategories {
		slug := CategorySlug(c)
		out = append(out, domain.QuickReply{
			ID:      slug,
			Label:   string(c),
			Payload: IssueCategoryPrefix + slug,
		})
	}
	return out
}

// CategorySlug is the lower snake case form of a category.
func CategorySlug(c domain.TicketCategory) string {
	return strings.ReplaceAll(strings.ToLower(string(c)), " ", "_")
}
