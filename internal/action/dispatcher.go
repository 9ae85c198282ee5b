// Package action executes the closed set of assistant actions against the
// domain collaborators.
package action

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/xiaot623/gogo/assistant/internal/domain"
	"github.com/xiaot623/gogo/assistant/internal/reply"
	"github.com/xiaot623/gogo/assistant/policy"
)

// Call is one action invocation as seen by a handler.
type Call struct {
	SessionID string
	Context   domain.SessionContext
	Action    domain.Action
	Conv      Conversation
}

// HandlerFunc executes one action kind. Handlers report failures through
// the Result and the messages they append, never by panicking.
type HandlerFunc func(ctx context.Context, call *Call) domain.Result

// Deps are the collaborators used by the built-in handlers.
type Deps struct {
	Tickets   TicketService
	Documents DocumentService
	Images    ImageService
	Effects   Effects
	// Policy is optional. Without it every role may run every kind.
	Policy Policy
}

// Options tune the dispatcher.
type Options struct {
	// Timeout bounds every handler, including its collaborator calls.
	Timeout time.Duration
	// NavigationDelay is the pause between an issue confirmation and the
	// navigation to the issues page.
	NavigationDelay time.Duration
}

// Dispatcher maps action kinds to handlers.
type Dispatcher struct {
	deps Deps
	opts Options
	now  func() time.Time

	mu       sync.RWMutex
	handlers map[domain.ActionKind]HandlerFunc
}

// NewDispatcher creates a dispatcher with a handler for every action kind.
func NewDispatcher(deps Deps, opts Options) *Dispatcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	d := &Dispatcher{
		deps:     deps,
		opts:     opts,
		now:      time.Now,
		handlers: make(map[domain.ActionKind]HandlerFunc),
	}

	d.handlers[domain.ActionCreateIssue] = d.createIssue
	d.handlers[domain.ActionViewIssues] = d.viewIssues
	d.handlers[domain.ActionNavigateIssues] = d.navigateIssues
	d.handlers[domain.ActionViewProperty] = d.viewProperty
	d.handlers[domain.ActionViewPayments] = d.viewPayments
	d.handlers[domain.ActionDownloadAgreement] = d.downloadAgreement
	d.handlers[domain.ActionViewDocuments] = d.viewDocuments
	d.handlers[domain.ActionViewPropertyImages] = d.viewPropertyImages
	d.handlers[domain.ActionDownloadDocument] = d.downloadDocument
	return d
}

// Register replaces the handler of a known kind.
func (d *Dispatcher) Register(kind domain.ActionKind, h HandlerFunc) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownActionKind, kind)
	}
	if h == nil {
		return fmt.Errorf("handler is required")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[kind] = h
	return nil
}

// Handles reports whether a handler is registered for kind.
func (d *Dispatcher) Handles(kind domain.ActionKind) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.handlers[kind]
	return ok
}

// Execute validates the action, checks the role policy and runs the handler
// under the configured timeout. It never returns an error: every failure is
// a Result with Success false.
func (d *Dispatcher) Execute(ctx context.Context, sessionID string, conv Conversation, a domain.Action) (result domain.Result) {
	sc := conv.Context()

	if err := a.Validate(); err != nil {
		log.Printf("WARN: rejected action %q for session %s: %v", a.Kind, sessionID, err)
		if errors.Is(err, domain.ErrUnknownActionKind) {
			return domain.Result{Success: false, Message: fmt.Sprintf("unknown action: %q", a.Kind)}
		}
		return domain.Result{Success: false, Message: err.Error()}
	}

	d.mu.RLock()
	h := d.handlers[a.Kind]
	d.mu.RUnlock()
	if h == nil {
		return domain.Result{Success: false, Message: fmt.Sprintf("unknown action: %q", a.Kind)}
	}

	if allowed, reason := d.allowed(ctx, sessionID, sc, a.Kind); !allowed {
		d.say(conv, reply.Response{Text: reason, QuickReplies: reply.RoleDefaults(sc.Role), Kind: domain.MessageKindText})
		return domain.Result{Success: false, Message: reason}
	}

	ctx, cancel := context.WithTimeout(ctx, d.opts.Timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: action %s panicked for session %s: %v", a.Kind, sessionID, r)
			conv.Append(reply.Apology(sc.Role, d.now()))
			result = domain.Result{Success: false, Message: "action failed"}
		}
	}()

	return h(ctx, &Call{SessionID: sessionID, Context: sc, Action: a, Conv: conv})
}

func (d *Dispatcher) allowed(ctx context.Context, sessionID string, sc domain.SessionContext, kind domain.ActionKind) (bool, string) {
	if d.deps.Policy == nil {
		return true, ""
	}
	decision, reason, err := d.deps.Policy.Evaluate(ctx, policy.Input{
		Action:     string(kind),
		Role:       string(sc.Role),
		UserID:     sc.UserID,
		TenantID:   sc.TenantID,
		LandlordID: sc.LandlordID,
	})
	if err != nil {
		log.Printf("WARN: policy evaluation failed for session %s action %s: %v", sessionID, kind, err)
		return false, "I can't run that right now. Please try again later."
	}
	if decision == policy.DecisionBlock {
		if reason == "" {
			reason = "That option isn't available for your account."
		}
		return false, reason
	}
	return true, ""
}

func (d *Dispatcher) say(conv Conversation, resp reply.Response) {
	conv.Append(reply.Compose(resp, d.now()))
}

// fail logs a collaborator error and appends the apology.
func (d *Dispatcher) fail(call *Call, err error, message string) domain.Result {
	log.Printf("WARN: action %s failed for session %s: %v", call.Action.Kind, call.SessionID, err)
	call.Conv.Append(reply.Apology(call.Context.Role, d.now()))
	return domain.Result{Success: false, Message: message}
}

// precondition appends an explanation for a missing context field without
// calling any collaborator.
func (d *Dispatcher) precondition(call *Call, text string) domain.Result {
	log.Printf("WARN: action %s for session %s: %v", call.Action.Kind, call.SessionID, domain.ErrPreconditionMissing)
	d.say(call.Conv, reply.Response{Text: text, QuickReplies: reply.RoleDefaults(call.Context.Role), Kind: domain.MessageKindText})
	return domain.Result{Success: false, Message: text}
}

// tenantID resolves the tenant a session acts for.
func tenantID(sc domain.SessionContext) string {
	if sc.TenantID != "" {
		return sc.TenantID
	}
	if sc.Role == domain.RoleTenant {
		return sc.UserID
	}
	return ""
}
