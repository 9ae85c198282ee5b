package action

import (
	"context"
	"fmt"
	"path"

	"github.com/xiaot623/gogo/assistant/internal/domain"
	"github.com/xiaot623/gogo/assistant/internal/reply"
)

func (d *Dispatcher) viewDocuments(ctx context.Context, call *Call) domain.Result {
	sc := call.Context

	var (
		docs []domain.Document
		err  error
	)
	if sc.Role == domain.RoleLandlord {
		if sc.PropertyID == "" {
			return d.precondition(call, "Pick a property first so I know whose documents to show.")
		}
		docs, err = d.deps.Documents.PropertyDocuments(ctx, sc.PropertyID)
	} else {
		tenant := tenantID(sc)
		if tenant == "" {
			return d.precondition(call, "I couldn't find your tenant account, so I can't look up your documents.")
		}
		docs, err = d.deps.Documents.TenantDocuments(ctx, tenant)
	}
	if err != nil {
		return d.fail(call, err, "failed to load documents")
	}

	if len(docs) == 0 {
		text := "You don't have any documents yet. Anything your landlord shares with you will show up here."
		if sc.Role == domain.RoleLandlord {
			text = "There are no documents for this property yet."
		}
		d.say(call.Conv, reply.Response{Text: text, QuickReplies: reply.RoleDefaults(sc.Role)})
		return domain.Result{Success: true, Message: "no documents"}
	}

	items := displayItems(docs, sc)
	actions := make([]domain.Action, 0, len(docs))
	for _, doc := range docs {
		actions = append(actions, domain.Action{
			ID:    reply.NewID("act"),
			Label: "Download " + doc.Name,
			Kind:  domain.ActionDownloadDocument,
			Data:  &domain.DownloadData{URL: doc.URL, FileName: doc.Name},
		})
	}
	call.Conv.Append(reply.BotMessage(domain.MessageKindDocumentList,
		fmt.Sprintf("Here are your documents (%d):", len(items)),
		&domain.MessageMetadata{Documents: items, Actions: actions, QuickReplies: reply.DocumentReplies(sc.Role)},
		d.now()))
	return domain.Result{Success: true, Message: fmt.Sprintf("%d documents", len(items)), Data: items}
}

func (d *Dispatcher) viewPropertyImages(ctx context.Context, call *Call) domain.Result {
	sc := call.Context
	if sc.LandlordID == "" {
		return d.precondition(call, "I can't show property images because this account isn't linked to a landlord yet.")
	}
	if sc.Role == domain.RoleTenant && sc.PropertyID == "" {
		return d.precondition(call, "I can't show property images because I couldn't find a property linked to your account.")
	}

	images, err := d.deps.Images.PropertyImages(ctx, sc.LandlordID, sc.PropertyID)
	if err != nil {
		return d.fail(call, err, "failed to load property images")
	}

	if len(images) == 0 {
		text := "No images have been uploaded for this property yet."
		if sc.Role == domain.RoleLandlord {
			text = "You haven't uploaded any property images yet."
		}
		d.say(call.Conv, reply.Response{Text: text, QuickReplies: reply.RoleDefaults(sc.Role)})
		return domain.Result{Success: true, Message: "no images"}
	}

	items := displayItems(images, sc)
	call.Conv.Append(reply.BotMessage(domain.MessageKindImageGallery,
		fmt.Sprintf("Here are the property images (%d):", len(items)),
		&domain.MessageMetadata{Images: items, QuickReplies: reply.RoleDefaults(sc.Role)},
		d.now()))
	return domain.Result{Success: true, Message: fmt.Sprintf("%d images", len(items)), Data: items}
}

func (d *Dispatcher) downloadDocument(_ context.Context, call *Call) domain.Result {
	data := call.Action.Data.(*domain.DownloadData)
	return d.startDownload(call, data.URL, data.FileName)
}

func (d *Dispatcher) downloadAgreement(ctx context.Context, call *Call) domain.Result {
	if data, ok := call.Action.Data.(*domain.DownloadData); ok && data != nil && data.URL != "" {
		return d.startDownload(call, data.URL, data.FileName)
	}

	tenant := tenantID(call.Context)
	if tenant == "" {
		return d.precondition(call, "I couldn't find your tenant account, so I can't look up your lease agreement.")
	}
	docs, err := d.deps.Documents.TenantDocuments(ctx, tenant)
	if err != nil {
		return d.fail(call, err, "failed to load lease agreement")
	}
	for _, doc := range docs {
		if doc.Type == domain.DocumentTypeAgreement {
			return d.startDownload(call, doc.URL, doc.Name)
		}
	}

	d.say(call.Conv, reply.Response{
		Text:         "I couldn't find a lease agreement on file. Ask your landlord to upload it and it will show up in your documents.",
		QuickReplies: reply.RoleDefaults(call.Context.Role),
		Kind:         domain.MessageKindText,
	})
	return domain.Result{Success: false, Message: "no lease agreement on file"}
}

// startDownload requests the download and reports success without waiting
// for it to finish.
func (d *Dispatcher) startDownload(call *Call, url, fileName string) domain.Result {
	if fileName == "" {
		fileName = path.Base(url)
	}
	d.deps.Effects.OpenURL(call.SessionID, url, fileName)
	d.say(call.Conv, reply.Response{Text: fmt.Sprintf("Your download of %s has started.", fileName), Kind: domain.MessageKindText})
	return domain.Result{Success: true, Message: "download started", Data: map[string]string{"url": url, "file_name": fileName}}
}

// displayItems maps documents for display. uploadedBy is "You" when the
// owner is the current session identity, otherwise the owner's role label.
func displayItems(docs []domain.Document, sc domain.SessionContext) []domain.DisplayItem {
	items := make([]domain.DisplayItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, domain.DisplayItem{
			ID:         doc.ID,
			Name:       doc.Name,
			URL:        doc.URL,
			Type:       doc.Type,
			UploadedBy: uploadedBy(doc, sc),
			UploadedAt: doc.UploadedAt,
		})
	}
	return items
}

func uploadedBy(doc domain.Document, sc domain.SessionContext) string {
	if doc.OwnerID == "" {
		return doc.OwnerRole.Label()
	}
	if doc.OwnerID == sc.UserID {
		return "You"
	}
	switch {
	case doc.OwnerRole == domain.RoleTenant && sc.Role == domain.RoleTenant && doc.OwnerID == sc.TenantID,
		doc.OwnerRole == domain.RoleLandlord && sc.Role == domain.RoleLandlord && doc.OwnerID == sc.LandlordID:
		return "You"
	}
	return doc.OwnerRole.Label()
}
