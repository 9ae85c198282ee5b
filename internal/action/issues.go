package action

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xiaot623/gogo/assistant/internal/domain"
	"github.com/xiaot623/gogo/assistant/internal/reply"
)

// maxListedIssues is how many tickets view_issues spells out.
const maxListedIssues = 5

func (d *Dispatcher) createIssue(ctx context.Context, call *Call) domain.Result {
	sc := call.Context
	if sc.Role != domain.RoleTenant {
		return d.precondition(call, "Only tenants can report maintenance issues.")
	}
	tenant := tenantID(sc)
	if tenant == "" {
		return d.precondition(call, "I couldn't find your tenant account, so I can't submit an issue yet.")
	}

	data, _ := call.Action.Data.(*domain.CreateIssueData)
	if data == nil {
		d.say(call.Conv, reply.Response{
			Text:         "Let's start with the kind of problem. Which category fits best?",
			QuickReplies: reply.CategoryReplies(),
		})
		return domain.Result{Success: false, Message: "an issue draft is required"}
	}

	category := domain.ParseCategory(data.Draft.SuggestedCategory)
	title := strings.TrimSpace(data.Draft.SuggestedTitle)
	if title == "" {
		title = fmt.Sprintf("%s issue", category)
	}

	ticket, err := d.deps.Tickets.CreateTicket(ctx, domain.TicketDraft{
		Title:       title,
		Description: strings.TrimSpace(data.Draft.SuggestedDescription),
		Category:    category,
		Priority:    domain.ParsePriority(data.Draft.SuggestedPriority),
		TenantID:    tenant,
		PropertyID:  sc.PropertyID,
	})
	if err != nil {
		return d.fail(call, err, "failed to create issue")
	}

	d.say(call.Conv, reply.Response{
		Text: fmt.Sprintf("Your %s issue %q has been submitted (ticket #%s, %s priority). Your landlord has been notified. Taking you to your issues...",
			strings.ToLower(string(ticket.Category)), ticket.Title, ticket.ID, strings.ToLower(string(ticket.Priority))),
		Kind: domain.MessageKindText,
	})

	sessionID, route := call.SessionID, IssuesRoute(sc.Role)
	time.AfterFunc(d.opts.NavigationDelay, func() {
		d.deps.Effects.Navigate(sessionID, route)
	})

	return domain.Result{Success: true, Message: "issue created", Data: ticket}
}

func (d *Dispatcher) viewIssues(ctx context.Context, call *Call) domain.Result {
	sc := call.Context
	tenant := tenantID(sc)
	if tenant == "" {
		return d.precondition(call, "I couldn't find your tenant account, so I can't look up your issues.")
	}

	tickets, err := d.deps.Tickets.TenantTickets(ctx, tenant)
	if err != nil {
		return d.fail(call, err, "failed to load issues")
	}

	if len(tickets) == 0 {
		d.say(call.Conv, reply.Response{
			Text:         "Good news: you don't have any maintenance issues on file. If something needs fixing, I can help you report it.",
			QuickReplies: []domain.QuickReply{reply.CreateIssueReply()},
		})
		return domain.Result{Success: true, Message: "no issues", Data: tickets}
	}

	d.say(call.Conv, reply.Response{
		Text: summarizeTickets(tickets),
		Actions: []domain.Action{
			{ID: reply.NewID("act"), Label: "Go to issues", Kind: domain.ActionNavigateIssues},
			{ID: reply.NewID("act"), Label: "Create new issue", Kind: domain.ActionCreateIssue},
		},
	})
	return domain.Result{Success: true, Message: fmt.Sprintf("%d issues", len(tickets)), Data: tickets}
}

func summarizeTickets(tickets []domain.Ticket) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You have %d maintenance issue", len(tickets))
	if len(tickets) != 1 {
		b.WriteString("s")
	}
	b.WriteString(":\n")

	for i, t := range tickets {
		if i == maxListedIssues {
			break
		}
		fmt.Fprintf(&b, "%d. %s (%s, %s priority)\n", i+1, t.Title, t.Status, t.Priority)
	}
	if rest := len(tickets) - maxListedIssues; rest > 0 {
		fmt.Fprintf(&b, "...and %d more", rest)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (d *Dispatcher) navigateIssues(_ context.Context, call *Call) domain.Result {
	d.deps.Effects.Navigate(call.SessionID, IssuesRoute(call.Context.Role))
	text := "Taking you to your issues page."
	if call.Context.Role == domain.RoleLandlord {
		text = "Taking you to your tenants' maintenance issues."
	}
	d.say(call.Conv, reply.Response{Text: text, Kind: domain.MessageKindText})
	return domain.Result{Success: true, Message: "navigation requested"}
}
