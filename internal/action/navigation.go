package action

import (
	"context"

	"github.com/xiaot623/gogo/assistant/internal/domain"
	"github.com/xiaot623/gogo/assistant/internal/reply"
)

func (d *Dispatcher) viewProperty(_ context.Context, call *Call) domain.Result {
	propertyID := call.Context.PropertyID
	if data, ok := call.Action.Data.(*domain.PropertyData); ok && data != nil && data.PropertyID != "" {
		propertyID = data.PropertyID
	}

	d.deps.Effects.Navigate(call.SessionID, PropertyRoute(call.Context.Role, propertyID))
	text := "Opening your property details."
	if call.Context.Role == domain.RoleLandlord {
		text = "Opening your properties."
	}
	d.say(call.Conv, reply.Response{Text: text, Kind: domain.MessageKindText})
	return domain.Result{Success: true, Message: "navigation requested"}
}

func (d *Dispatcher) viewPayments(_ context.Context, call *Call) domain.Result {
	d.deps.Effects.Navigate(call.SessionID, PaymentsRoute(call.Context.Role))
	d.say(call.Conv, reply.Response{Text: "Opening your payments overview.", Kind: domain.MessageKindText})
	return domain.Result{Success: true, Message: "navigation requested"}
}
