package automation

import (
	"context"
	"fmt"
	"time"

	"firm-crm/internal/features/email"
	"firm-crm/internal/features/lead"
	"firm-crm/internal/features/notification"
	"firm-crm/internal/features/task"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ActionExecutor applies engine commands to the host stores.
type ActionExecutor interface {
	// ExecuteCommands applies every command in order. A failing command does not
	// stop the rest; each failure comes back as a *CommandError.
	ExecuteCommands(ctx context.Context, commands []Command) []error
	ExecuteCommand(ctx context.Context, command Command) error
}

// LeadUpdater moves leads that are still open. A lead closed after the pass
// read it yields lead.ErrNotOpen.
type LeadUpdater interface {
	UpdateOpen(ctx context.Context, id primitive.ObjectID, patch lead.Patch) error
}

type TaskCreator interface {
	Create(ctx context.Context, task *task.Task) error
}

type EmailRecorder interface {
	Record(ctx context.Context, email *email.Email) error
}

type AlertCreator interface {
	CreateAlert(ctx context.Context, alert *notification.Alert) error
}

type ActionExecutorImpl struct {
	Leads  LeadUpdater
	Tasks  TaskCreator
	Emails EmailRecorder
	Alerts AlertCreator
	Logger *zap.Logger
	Now    func() time.Time
}

func NewActionExecutor(
	leadRepo lead.LeadRepository,
	taskRepo task.TaskRepository,
	emailService email.EmailService,
	notificationService notification.NotificationService,
	logger *zap.Logger,
) ActionExecutor {
	return &ActionExecutorImpl{
		Leads:  leadRepo,
		Tasks:  taskRepo,
		Emails: emailService,
		Alerts: notificationService,
		Logger: logger.Named("automation.executor"),
		Now:    time.Now,
	}
}

func (e *ActionExecutorImpl) ExecuteCommands(ctx context.Context, commands []Command) []error {
	var errs []error
	for i, cmd := range commands {
		if err := e.ExecuteCommand(ctx, cmd); err != nil {
			e.Logger.Error("failed to apply automation command",
				zap.Int("index", i),
				zap.String("action", string(cmd.Kind())),
				zap.String("automation_id", cmd.Source().AutomationID.Hex()),
				zap.String("automation", cmd.Source().AutomationName),
				zap.Error(err))
			errs = append(errs, &CommandError{Command: cmd, Err: err})
		}
	}
	return errs
}

func (e *ActionExecutorImpl) ExecuteCommand(ctx context.Context, command Command) error {
	switch cmd := command.(type) {
	case MoveLeadStageCommand:
		return e.executeMoveLeadStage(ctx, cmd)
	case CreateTaskCommand:
		return e.executeCreateTask(ctx, cmd)
	case SendEmailCommand:
		return e.executeSendEmail(ctx, cmd)
	case SendAlertCommand:
		return e.executeSendAlert(ctx, cmd)
	default:
		return fmt.Errorf("unsupported command type: %T", command)
	}
}

func (e *ActionExecutorImpl) executeMoveLeadStage(ctx context.Context, cmd MoveLeadStageCommand) error {
	stage := cmd.Stage
	patch := lead.Patch{Stage: &stage, LastContacted: cmd.RearmAt}
	if err := e.Leads.UpdateOpen(ctx, cmd.LeadID, patch); err != nil {
		return fmt.Errorf("failed to move lead %s to %s: %w", cmd.LeadID.Hex(), cmd.Stage, err)
	}

	e.Logger.Info("moved lead stage",
		zap.String("lead_id", cmd.LeadID.Hex()),
		zap.String("stage", string(cmd.Stage)),
		zap.Bool("rearmed", cmd.RearmAt != nil),
		zap.String("automation", cmd.AutomationName))
	return nil
}

func (e *ActionExecutorImpl) executeCreateTask(ctx context.Context, cmd CreateTaskCommand) error {
	automationID := cmd.AutomationID
	t := &task.Task{
		Title:        cmd.Title,
		Status:       task.StatusToDo,
		DueDate:      cmd.DueDate,
		LeadID:       cmd.LeadID,
		ClientID:     cmd.ClientID,
		AutomationID: &automationID,
	}
	if err := e.Tasks.Create(ctx, t); err != nil {
		return fmt.Errorf("failed to create task %q: %w", cmd.Title, err)
	}

	e.Logger.Info("created task",
		zap.String("task_id", t.ID.Hex()),
		zap.Time("due_date", t.DueDate),
		zap.String("automation", cmd.AutomationName))
	return nil
}

func (e *ActionExecutorImpl) executeSendEmail(ctx context.Context, cmd SendEmailCommand) error {
	msg := &email.Email{
		Subject:        cmd.Subject,
		Body:           cmd.Body,
		LeadID:         cmd.LeadID,
		ClientID:       cmd.ClientID,
		AutomationID:   cmd.AutomationID,
		AutomationName: cmd.AutomationName,
		CreatedAt:      e.Now().UTC(),
	}
	if err := e.Emails.Record(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (e *ActionExecutorImpl) executeSendAlert(ctx context.Context, cmd SendAlertCommand) error {
	alert := &notification.Alert{
		Message:        cmd.Message,
		Channels:       cmd.Channels,
		AutomationID:   cmd.AutomationID,
		AutomationName: cmd.AutomationName,
		LeadID:         cmd.LeadID,
		ClientID:       cmd.ClientID,
		CreatedAt:      e.Now().UTC(),
	}
	if err := e.Alerts.CreateAlert(ctx, alert); err != nil {
		return fmt.Errorf("failed to send alert: %w", err)
	}
	return nil
}
