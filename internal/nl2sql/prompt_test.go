package nl2sql

import (
	"strings"
	"testing"

	"github.com/haasonsaas/huntbench/pkg/models"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain json",
			input: `{"sql_query": "SELECT 1"}`,
			want:  `{"sql_query": "SELECT 1"}`,
		},
		{
			name:  "json fence",
			input: "```json\n{\"sql_query\": \"SELECT 1\"}\n```",
			want:  `{"sql_query": "SELECT 1"}`,
		},
		{
			name:  "bare fence",
			input: "```\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "surrounding whitespace",
			input: "  \n {\"a\": 1} \n ",
			want:  `{"a": 1}`,
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.input); got != tt.want {
				t.Errorf("stripFences(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSystemPromptDefaults(t *testing.T) {
	prompt := systemPrompt(Request{})

	for _, want := range []string{
		"cloudtrail_logs",
		"SQLite",
		"sql_query",
		"Return ONLY valid JSON",
		"eventName",
		"userIdentitytype",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestSystemPromptCustomTableAndDialect(t *testing.T) {
	prompt := systemPrompt(Request{Table: "security_events", Dialect: "PostgreSQL"})

	if !strings.Contains(prompt, "Table name is always 'security_events'") {
		t.Error("system prompt does not name the custom table")
	}
	if strings.Contains(prompt, "cloudtrail_logs") {
		t.Error("system prompt still references the default table")
	}
	if !strings.Contains(prompt, "PostgreSQL SQL") {
		t.Error("system prompt does not name the custom dialect")
	}
}

func TestUserPrompt(t *testing.T) {
	h := models.Hypothesis{
		ID:         "hyp-001",
		Name:       "Root console logins",
		Hypothesis: "Root account logins from unfamiliar IPs indicate credential theft",
	}

	prompt := userPrompt(h)

	for _, want := range []string{
		"ID: hyp-001",
		"Name: Root console logins",
		"Hypothesis: Root account logins from unfamiliar IPs indicate credential theft",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}
}

func TestParseResponseValid(t *testing.T) {
	raw := `{
		"interpretation": "Looking for root logins",
		"reasoning": "Filter on identity type",
		"assumptions": ["root usage is rare"],
		"confidence": 0.9,
		"key_fields": ["userIdentitytype", "eventName"],
		"sql_query": "SELECT * FROM cloudtrail_logs WHERE userIdentitytype = 'Root'"
	}`

	res := parseResponse(raw, Request{})

	if res.Fallback {
		t.Fatal("valid response marked as fallback")
	}
	if res.SQL != "SELECT * FROM cloudtrail_logs WHERE userIdentitytype = 'Root'" {
		t.Errorf("unexpected SQL: %q", res.SQL)
	}
	if res.Explanation.Interpretation != "Looking for root logins" {
		t.Errorf("unexpected interpretation: %q", res.Explanation.Interpretation)
	}
	if res.Explanation.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", res.Explanation.Confidence)
	}
	if len(res.Explanation.KeyFields) != 2 {
		t.Errorf("key fields = %v, want 2 entries", res.Explanation.KeyFields)
	}
	if res.RawResponse != raw {
		t.Error("raw response not preserved")
	}
}

func TestParseResponseFenced(t *testing.T) {
	raw := "```json\n{\"sql_query\": \"SELECT 1\", \"confidence\": 0.5}\n```"

	res := parseResponse(raw, Request{})

	if res.Fallback {
		t.Fatal("fenced response marked as fallback")
	}
	if res.SQL != "SELECT 1" {
		t.Errorf("SQL = %q, want SELECT 1", res.SQL)
	}
}

func TestParseResponseInvalidFallsBack(t *testing.T) {
	raw := "I cannot generate SQL for that."

	res := parseResponse(raw, Request{})

	if !res.Fallback {
		t.Fatal("undecodable response not marked as fallback")
	}
	if res.SQL != "SELECT * FROM cloudtrail_logs LIMIT 10" {
		t.Errorf("fallback SQL = %q", res.SQL)
	}
	if res.Explanation.Interpretation != "Failed to parse LLM response" {
		t.Errorf("fallback interpretation = %q", res.Explanation.Interpretation)
	}
	if res.Explanation.Reasoning != "Error occurred during generation" {
		t.Errorf("fallback reasoning = %q", res.Explanation.Reasoning)
	}
	if res.Explanation.Confidence != 0 {
		t.Errorf("fallback confidence = %v, want 0", res.Explanation.Confidence)
	}
	if res.RawResponse != raw {
		t.Error("fallback does not preserve the raw response")
	}
}

func TestParseResponseFallbackUsesCustomTable(t *testing.T) {
	res := parseResponse("not json", Request{Table: "security_events"})

	if res.SQL != "SELECT * FROM security_events LIMIT 10" {
		t.Errorf("fallback SQL = %q", res.SQL)
	}
}

func TestParseResponseMissingSQLStaysEmpty(t *testing.T) {
	raw := `{"interpretation": "vague", "confidence": 0.3}`

	res := parseResponse(raw, Request{})

	if res.Fallback {
		t.Fatal("decodable response marked as fallback")
	}
	if res.SQL != "" {
		t.Errorf("SQL = %q, want empty so the evaluator records the failure", res.SQL)
	}
}

func TestParseResponseNilSlicesBecomeEmpty(t *testing.T) {
	res := parseResponse(`{"sql_query": "SELECT 1"}`, Request{})

	if res.Explanation.Assumptions == nil {
		t.Error("assumptions is nil, want empty slice")
	}
	if res.Explanation.KeyFields == nil {
		t.Error("key fields is nil, want empty slice")
	}
}

func TestFinishResultAttachesMetadata(t *testing.T) {
	res := finishResult(`{"sql_query": "SELECT 1"}`, Request{}, "gpt-4o-2024-08-06", 120, 45)

	if res.Model != "gpt-4o-2024-08-06" {
		t.Errorf("model = %q", res.Model)
	}
	if res.PromptTokens != 120 || res.CompletionTokens != 45 {
		t.Errorf("tokens = %d/%d, want 120/45", res.PromptTokens, res.CompletionTokens)
	}
}

func TestRequestDefaults(t *testing.T) {
	var req Request

	if got := req.table(); got != "cloudtrail_logs" {
		t.Errorf("default table = %q", got)
	}
	if got := req.dialect(); got != "SQLite" {
		t.Errorf("default dialect = %q", got)
	}

	req = Request{Table: "evt", Dialect: "PostgreSQL"}
	if got := req.table(); got != "evt" {
		t.Errorf("table = %q, want evt", got)
	}
	if got := req.dialect(); got != "PostgreSQL" {
		t.Errorf("dialect = %q, want PostgreSQL", got)
	}
}
