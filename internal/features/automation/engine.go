package automation

import (
	"fmt"
	"strings"
	"time"

	"firm-crm/internal/features/client"
	"firm-crm/internal/features/lead"
	"firm-crm/internal/features/notification"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const day = 24 * time.Hour

// Result is the outcome of one evaluation.
type Result struct {
	// Commands in firing order: automation list order, then lead order.
	Commands []Command
	// Leads is a working copy of the input leads, in input order, with stage
	// moves and re-arms applied.
	Leads []lead.Lead
	// LeadsUpdated counts distinct leads at least one rule fired for.
	LeadsUpdated int
	Fired        int
	Skipped      int
	Errors       []error
}

// Engine evaluates automations against leads and clients. It holds no state
// and never touches storage.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// subject is the entity a rule fires for.
type subject struct {
	leadIndex int
	leadID    *primitive.ObjectID
	clientID  *primitive.ObjectID
	name      string
	company   string
}

func leadSubject(i int, l *lead.Lead) subject {
	id := l.ID
	return subject{leadIndex: i, leadID: &id, name: l.Name, company: l.Company}
}

func clientSubject(c *client.Client) subject {
	id := c.ID
	return subject{leadIndex: -1, clientID: &id, name: c.Name, company: c.Company}
}

// Evaluate dispatches on the event kind.
func (e *Engine) Evaluate(automations []Automation, event Event) Result {
	switch ev := event.(type) {
	case InactivityCheckEvent:
		return e.EvaluateInactivity(automations, ev.Leads, ev.Now)
	case LeadCreatedEvent:
		return e.OnNewLeadCreated(automations, ev.Lead, ev.Now)
	case ClientStatusChangedEvent:
		return e.OnClientStatusChanged(automations, ev.Client, ev.NewStatus, ev.Now)
	default:
		return Result{Errors: []error{fmt.Errorf("unsupported event %T", event)}}
	}
}

// EvaluateInactivity is the batch pass. Every enabled inactivity rule is checked
// against every open lead of the snapshot; all matches fire.
func (e *Engine) EvaluateInactivity(automations []Automation, leads []lead.Lead, now time.Time) Result {
	res := Result{Leads: make([]lead.Lead, len(leads))}
	copy(res.Leads, leads)
	updated := make(map[int]bool)

	for _, rule := range res.compile(automations, TriggerLeadInactivity) {
		days := rule.Trigger.(LeadInactivity).Days
		for i := range leads {
			l := &leads[i]
			if !l.IsOpen() || !inactive(l.LastContacted, now, days) {
				continue
			}
			if res.fire(rule, leadSubject(i, l), now, true) {
				updated[i] = true
			}
		}
	}

	res.LeadsUpdated = len(updated)
	return res
}

// OnNewLeadCreated fires every enabled NewLeadCreated rule once for l.
func (e *Engine) OnNewLeadCreated(automations []Automation, l lead.Lead, now time.Time) Result {
	res := Result{Leads: []lead.Lead{l}}
	fired := false
	for _, rule := range res.compile(automations, TriggerNewLeadCreated) {
		if res.fire(rule, leadSubject(0, &l), now, false) {
			fired = true
		}
	}
	if fired {
		res.LeadsUpdated = 1
	}
	return res
}

// OnClientStatusChanged fires every enabled ClientStatusChanged rule whose
// status equals newStatus.
func (e *Engine) OnClientStatusChanged(automations []Automation, c client.Client, newStatus client.OnboardingStatus, now time.Time) Result {
	var res Result
	c.OnboardingStatus = newStatus
	for _, rule := range res.compile(automations, TriggerClientStatusChanged) {
		if rule.Trigger.(ClientStatusChanged).Status != newStatus {
			continue
		}
		res.fire(rule, clientSubject(&c), now, false)
	}
	return res
}

// compile keeps the enabled rules of the given trigger kind. Malformed rules
// that could belong to this path are skipped and reported.
func (r *Result) compile(automations []Automation, want TriggerType) []Rule {
	rules := make([]Rule, 0, len(automations))
	for _, a := range automations {
		if !a.Enabled {
			continue
		}
		if a.Trigger.Type != want && knownTrigger(a.Trigger.Type) {
			continue
		}
		rule, err := Compile(a)
		if err != nil {
			r.Skipped++
			r.Errors = append(r.Errors, err)
			continue
		}
		rules = append(rules, rule)
	}
	return rules
}

func knownTrigger(t TriggerType) bool {
	switch t {
	case TriggerLeadInactivity, TriggerNewLeadCreated, TriggerClientStatusChanged:
		return true
	}
	return false
}

// inactive reports whether whole days since lastContacted reach the threshold.
// A lastContacted in the future never matches.
func inactive(lastContacted, now time.Time, days int) bool {
	elapsed := now.Sub(lastContacted)
	if elapsed < 0 {
		return false
	}
	return int(elapsed/day) >= days
}

// fire emits the command for one rule and subject and applies lead mutations to
// the working copy. rearm re-arms the inactivity clock on a stage move.
func (r *Result) fire(rule Rule, s subject, now time.Time, rearm bool) bool {
	src := CommandSource{AutomationID: rule.Automation.ID, AutomationName: rule.Automation.Name}

	var cmd Command
	switch act := rule.Action.(type) {
	case MoveLeadStage:
		if s.leadID == nil {
			r.missing(rule, "lead")
			return false
		}
		move := MoveLeadStageCommand{CommandSource: src, LeadID: *s.leadID, Stage: act.Stage}
		if s.leadIndex >= 0 && s.leadIndex < len(r.Leads) {
			r.Leads[s.leadIndex].Stage = act.Stage
			if rearm {
				at := now
				move.RearmAt = &at
				r.Leads[s.leadIndex].LastContacted = now
			}
		}
		cmd = move
	case CreateTask:
		if s.leadID == nil && s.clientID == nil {
			r.missing(rule, "lead or client")
			return false
		}
		cmd = CreateTaskCommand{
			CommandSource: src,
			Title:         render(act.Title, s),
			DueDate:       now.AddDate(0, 0, act.DaysUntilDue),
			LeadID:        s.leadID,
			ClientID:      s.clientID,
		}
	case SendEmail:
		cmd = SendEmailCommand{
			CommandSource: src,
			Subject:       render(act.Subject, s),
			Body:          render(act.Body, s),
			LeadID:        s.leadID,
			ClientID:      s.clientID,
		}
	case SendAlert:
		channels := make([]notification.Channel, len(act.Channels))
		copy(channels, act.Channels)
		cmd = SendAlertCommand{
			CommandSource: src,
			Message:       render(act.Message, s),
			Channels:      channels,
			LeadID:        s.leadID,
			ClientID:      s.clientID,
		}
	default:
		r.Skipped++
		r.Errors = append(r.Errors, &InvalidRuleError{
			AutomationID: rule.Automation.ID,
			Name:         rule.Automation.Name,
			Err:          fmt.Errorf("%w: %T", ErrUnknownAction, rule.Action),
		})
		return false
	}

	r.Commands = append(r.Commands, cmd)
	r.Fired++
	return true
}

func (r *Result) missing(rule Rule, needs string) {
	r.Errors = append(r.Errors, &MissingContextError{
		AutomationID: rule.Automation.ID,
		Action:       rule.Action.ActionType(),
		Trigger:      rule.Trigger.TriggerType(),
		Needs:        needs,
	})
}

// render fills {{name}} and {{company}} from the subject.
func render(text string, s subject) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	return strings.NewReplacer("{{name}}", s.name, "{{company}}", s.company).Replace(text)
}
