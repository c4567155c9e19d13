package automation

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"firm-crm/internal/features/lead"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(env *testEnv) *fiber.App {
	app := fiber.New()
	NewAutomationApi(NewAutomationController(env.svc, zap.NewNop())).Setup(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func TestCreateRuleEndpoint(t *testing.T) {
	env := newTestEnv(now)
	app := newTestApp(env)

	resp, body := doJSON(t, app, http.MethodPost, "/api/automations", `{
		"name": "Stale leads",
		"trigger": {"type": "lead_inactivity", "days": 7},
		"action": {"type": "move_lead_stage", "stage": "Nurturing"}
	}`)

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["enabled"])
	require.Len(t, env.automations.items, 1)
	assert.Equal(t, lead.StageNurturing, env.automations.items[0].Action.Stage)
}

func TestCreateRuleEndpointRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing name", `{"trigger":{"type":"new_lead_created"},"action":{"type":"send_email"}}`, "name is required"},
		{"unknown trigger", `{"name":"x","trigger":{"type":"deal_won"},"action":{"type":"send_email"}}`, "must be one of"},
		{"zero days", `{"name":"x","trigger":{"type":"lead_inactivity"},"action":{"type":"send_email"}}`, "days must be greater than 0"},
		{"bad stage", `{"name":"x","trigger":{"type":"new_lead_created"},"action":{"type":"move_lead_stage","stage":"Closed"}}`, "unknown stage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(now)
			resp, body := doJSON(t, newTestApp(env), http.MethodPost, "/api/automations", tt.body)

			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, body["error"], tt.want)
			assert.Empty(t, env.automations.items)
		})
	}
}

func TestRunNowEndpointReturnsLeadsUpdated(t *testing.T) {
	env := newTestEnv(now)
	env.automations.items = []Automation{inactivityRule("Stale", 7, moveTo(lead.StageNurturing))}
	env.leads.leads = []lead.Lead{
		openLead("a", now.Add(-8*day)),
		openLead("b", now.Add(-2*day)),
		openLead("c", now.Add(-20*day)),
	}

	resp, body := doJSON(t, newTestApp(env), http.MethodPost, "/api/automations/run", "")

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["leads_updated"])
	run, ok := body["run"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "manual", run["source"])
}

func TestGetRuleEndpointNotFound(t *testing.T) {
	env := newTestEnv(now)

	resp, body := doJSON(t, newTestApp(env), http.MethodGet, "/api/automations/64b000000000000000000000", "")

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Automation not found", body["error"])
}

func TestSetEnabledEndpoint(t *testing.T) {
	env := newTestEnv(now)
	rule := inactivityRule("Stale", 7, moveTo(lead.StageNurturing))
	env.automations.items = []Automation{rule}
	app := newTestApp(env)

	resp, _ := doJSON(t, app, http.MethodPatch, "/api/automations/"+rule.ID.Hex()+"/enabled", `{"enabled": false}`)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.False(t, env.automations.items[0].Enabled)

	resp, body := doJSON(t, app, http.MethodPatch, "/api/automations/"+rule.ID.Hex()+"/enabled", `{}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "enabled is required", body["error"])
}
