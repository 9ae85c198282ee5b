package domain

import (
	"encoding/json"
	"fmt"
)

// ActionKind is the closed enumeration of side effects the assistant can run.
type ActionKind string

const (
	ActionCreateIssue        ActionKind = "create_issue"
	ActionViewIssues         ActionKind = "view_issues"
	ActionNavigateIssues     ActionKind = "navigate_issues"
	ActionViewProperty       ActionKind = "view_property"
	ActionViewPayments       ActionKind = "view_payments"
	ActionDownloadAgreement  ActionKind = "download_agreement"
	ActionViewDocuments      ActionKind = "view_documents"
	ActionViewPropertyImages ActionKind = "view_property_images"
	ActionDownloadDocument   ActionKind = "download_document"
)

// ActionKinds lists every kind in declaration order.
var ActionKinds = []ActionKind{
	ActionCreateIssue,
	ActionViewIssues,
	ActionNavigateIssues,
	ActionViewProperty,
	ActionViewPayments,
	ActionDownloadAgreement,
	ActionViewDocuments,
	ActionViewPropertyImages,
	ActionDownloadDocument,
}

// Valid reports whether k belongs to the closed enumeration.
func (k ActionKind) Valid() bool {
	for _, known := range ActionKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ActionData is the kind-specific payload of an Action.
type ActionData interface {
	isActionData()
}

// CreateIssueData carries the draft consumed by create_issue.
type CreateIssueData struct {
	Draft IssueDraft `json:"draft"`
}

// DownloadData carries the target of download_document and download_agreement.
type DownloadData struct {
	URL      string `json:"url"`
	FileName string `json:"file_name,omitempty"`
}

// PropertyData optionally narrows view_property to a specific property.
type PropertyData struct {
	PropertyID string `json:"property_id"`
}

func (*CreateIssueData) isActionData() {}
func (*DownloadData) isActionData()    {}
func (*PropertyData) isActionData()    {}

// Action is an offered or invoked side effect.
type Action struct {
	ID    string     `json:"id"`
	Label string     `json:"label"`
	Kind  ActionKind `json:"kind"`
	Data  ActionData `json:"data,omitempty"`
}

// Validate checks the kind against the closed enumeration and the data
// against the shape that kind expects.
func (a Action) Validate() error {
	if !a.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownActionKind, a.Kind)
	}

	switch a.Kind {
	case ActionCreateIssue:
		if a.Data == nil {
			return nil
		}
		if _, ok := a.Data.(*CreateIssueData); !ok {
			return fmt.Errorf("%w: %s expects issue draft data", ErrInvalidActionData, a.Kind)
		}
	case ActionDownloadDocument:
		d, ok := a.Data.(*DownloadData)
		if !ok || d == nil || d.URL == "" {
			return fmt.Errorf("%w: %s requires a url", ErrInvalidActionData, a.Kind)
		}
	case ActionDownloadAgreement:
		if a.Data == nil {
			return nil
		}
		if d, ok := a.Data.(*DownloadData); !ok || d == nil || d.URL == "" {
			return fmt.Errorf("%w: %s expects a url", ErrInvalidActionData, a.Kind)
		}
	case ActionViewProperty:
		if a.Data == nil {
			return nil
		}
		if _, ok := a.Data.(*PropertyData); !ok {
			return fmt.Errorf("%w: %s expects property data", ErrInvalidActionData, a.Kind)
		}
	default:
		if a.Data != nil {
			return fmt.Errorf("%w: %s takes no data", ErrInvalidActionData, a.Kind)
		}
	}
	return nil
}

type actionJSON struct {
	ID    string          `json:"id"`
	Label string          `json:"label"`
	Kind  ActionKind      `json:"kind"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// UnmarshalJSON decodes data into the concrete type selected by kind.
// Unknown kinds decode without data so Validate can reject them.
func (a *Action) UnmarshalJSON(b []byte) error {
	var raw actionJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	a.ID = raw.ID
	a.Label = raw.Label
	a.Kind = raw.Kind
	a.Data = nil

	if len(raw.Data) == 0 || string(raw.Data) == "null" {
		return nil
	}

	var data ActionData
	switch raw.Kind {
	case ActionCreateIssue:
		data = &CreateIssueData{}
	case ActionDownloadDocument, ActionDownloadAgreement:
		data = &DownloadData{}
	case ActionViewProperty:
		data = &PropertyData{}
	default:
		return nil
	}
	if err := json.Unmarshal(raw.Data, data); err != nil {
		return fmt.Errorf("invalid data for action %s: %w", raw.Kind, err)
	}
	a.Data = data
	return nil
}

// Result is the uniform outcome of executing an action.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}
