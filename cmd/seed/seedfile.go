package main

import (
	"fmt"
	"os"
	"time"

	"firm-crm/internal/features/automation"
	"firm-crm/internal/features/client"
	"firm-crm/internal/features/lead"

	"gopkg.in/yaml.v3"
)

type seedTrigger struct {
	Type   string `yaml:"type"`
	Days   int    `yaml:"days"`
	Status string `yaml:"status"`
}

type seedAction struct {
	Type         string   `yaml:"type"`
	Stage        string   `yaml:"stage"`
	Title        string   `yaml:"title"`
	DaysUntilDue int      `yaml:"days_until_due"`
	Subject      string   `yaml:"subject"`
	Body         string   `yaml:"body"`
	Message      string   `yaml:"message"`
	Channels     []string `yaml:"channels"`
}

type seedAutomation struct {
	Name    string      `yaml:"name"`
	Enabled *bool       `yaml:"enabled"`
	Trigger seedTrigger `yaml:"trigger"`
	Action  seedAction  `yaml:"action"`
}

type seedLead struct {
	Name    string  `yaml:"name"`
	Company string  `yaml:"company"`
	Email   string  `yaml:"email"`
	Value   float64 `yaml:"value"`
	Source  string  `yaml:"source"`
	Stage   string  `yaml:"stage"`
	Status  string  `yaml:"status"`
	// days before the seed run the lead was last contacted
	LastContactedDaysAgo int `yaml:"last_contacted_days_ago"`
}

type seedClient struct {
	Name             string `yaml:"name"`
	Company          string `yaml:"company"`
	Email            string `yaml:"email"`
	Phone            string `yaml:"phone"`
	TaxID            string `yaml:"tax_id"`
	OnboardingStatus string `yaml:"onboarding_status"`
}

type SeedFile struct {
	Automations []seedAutomation `yaml:"automations"`
	Leads       []seedLead       `yaml:"leads"`
	Clients     []seedClient     `yaml:"clients"`
}

func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (*SeedFile, error) {
	var f SeedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

// ToAutomations converts the seeded rules and rejects any that would not compile.
func (f *SeedFile) ToAutomations() ([]automation.Automation, error) {
	out := make([]automation.Automation, 0, len(f.Automations))
	for _, s := range f.Automations {
		enabled := true
		if s.Enabled != nil {
			enabled = *s.Enabled
		}
		a := automation.Automation{
			Name:    s.Name,
			Enabled: enabled,
			Trigger: automation.TriggerSpec{
				Type:   automation.TriggerType(s.Trigger.Type),
				Days:   s.Trigger.Days,
				Status: client.OnboardingStatus(s.Trigger.Status),
			},
			Action: automation.ActionSpec{
				Type:         automation.ActionType(s.Action.Type),
				Stage:        lead.Stage(s.Action.Stage),
				Title:        s.Action.Title,
				DaysUntilDue: s.Action.DaysUntilDue,
				Subject:      s.Action.Subject,
				Body:         s.Action.Body,
				Message:      s.Action.Message,
				Channels:     s.Action.Channels,
			},
		}
		if _, err := automation.Compile(a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *SeedFile) ToLeads(now time.Time) ([]lead.Lead, error) {
	out := make([]lead.Lead, 0, len(f.Leads))
	for _, s := range f.Leads {
		l := lead.Lead{
			Name:          s.Name,
			Company:       s.Company,
			Email:         s.Email,
			Value:         s.Value,
			Source:        s.Source,
			Stage:         lead.Stage(s.Stage),
			Status:        lead.Status(s.Status),
			LastContacted: now.AddDate(0, 0, -s.LastContactedDaysAgo),
		}
		if l.Stage == "" {
			l.Stage = lead.StageNew
		}
		if l.Status == "" {
			l.Status = lead.StatusOpen
		}
		if !l.Stage.Valid() || !l.Status.Valid() {
			return nil, fmt.Errorf("%w: lead %q has stage %q status %q", lead.ErrInvalid, s.Name, l.Stage, l.Status)
		}
		out = append(out, l)
	}
	return out, nil
}

func (f *SeedFile) ToClients() ([]client.Client, error) {
	out := make([]client.Client, 0, len(f.Clients))
	for _, s := range f.Clients {
		c := client.Client{
			Name:             s.Name,
			Company:          s.Company,
			Email:            s.Email,
			Phone:            s.Phone,
			TaxID:            s.TaxID,
			OnboardingStatus: client.OnboardingStatus(s.OnboardingStatus),
		}
		if c.OnboardingStatus == "" {
			c.OnboardingStatus = client.StatusProspect
		}
		if !c.OnboardingStatus.Valid() {
			return nil, fmt.Errorf("%w: client %q has %q", client.ErrInvalidStatus, s.Name, c.OnboardingStatus)
		}
		out = append(out, c)
	}
	return out, nil
}
