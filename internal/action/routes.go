package action

import (
	"net/url"

	"github.com/xiaot623/gogo/assistant/internal/domain"
)

// IssuesRoute is the issues page of a role.
func IssuesRoute(role domain.Role) string {
	if role == domain.RoleLandlord {
		return "/landlord/issues"
	}
	return "/tenant/issues"
}

// PaymentsRoute is the payments page of a role.
func PaymentsRoute(role domain.Role) string {
	if role == domain.RoleLandlord {
		return "/landlord/payments"
	}
	return "/tenant/payments"
}

// PropertyRoute is the property page of a role. propertyID narrows the
// landlord route to one property.
func PropertyRoute(role domain.Role, propertyID string) string {
	if role != domain.RoleLandlord {
		return "/tenant/property"
	}
	if propertyID == "" {
		return "/landlord/properties"
	}
	return "/landlord/properties/" + url.PathEscape(propertyID)
}
