package nl2sql

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/haasonsaas/huntbench/pkg/models"
)

// schemaDoc describes the flattened CloudTrail event table for the model.
const schemaDoc = `CloudTrail Event Table Schema:

Key Columns:
- eventTime: Timestamp of the event (ISO 8601 format)
- eventName: Name of the API action (e.g., ConsoleLogin, GetCallerIdentity, RunInstances)
- eventSource: AWS service that was called (e.g., signin.amazonaws.com, sts.amazonaws.com)
- sourceIPAddress: IP address from which the request was made
- userAgent: User agent string of the requester
- errorCode: Error code if the request failed (e.g., AccessDenied, UnauthorizedOperation)
- errorMessage: Human-readable error message
- awsRegion: AWS region where the event occurred
- userIdentitytype: Type of identity (Root, IAMUser, AssumedRole, etc.)
- userIdentityuserName: Username or role name
- userIdentityarn: ARN of the identity
- userIdentityaccountId: AWS account ID
- requestParametersinstanceType: EC2 instance type for RunInstances events
- requestParametersbucketName: S3 bucket name for S3 operations
- responseElementsaccessKeyId: Access key ID created in CreateAccessKey events

Common Event Names:
- ConsoleLogin: User logging into AWS console
- GetCallerIdentity: STS API call to get identity information
- StopLogging/DeleteTrail: CloudTrail disruption attempts
- RunInstances: EC2 instance creation
- GetSecretValue: Secrets Manager access
- CreateAccessKey: IAM access key creation
- GetBucketAcl: S3 bucket ACL retrieval

Query Guidelines:
- Table name is '%[1]s'
- All columns are stored as text; compare them as strings
- For console login failures, check eventName='ConsoleLogin' AND errorMessage IS NOT NULL
- For root access, check userIdentitytype='Root'
- For unauthorized access, check errorCode IN ('AccessDenied', 'UnauthorizedOperation')
- User agent checks are case-insensitive (use LOWER())
- Instance type patterns like '10xlarge' or bigger should use LIKE '%%xlarge%%' and size filtering`

// systemPrompt builds the instruction block sent with every translation.
func systemPrompt(req Request) string {
	table := req.table()
	dialect := req.dialect()

	return fmt.Sprintf(`You are an expert AWS security analyst specializing in threat hunting using CloudTrail logs.
Your task is to generate precise %[2]s SQL queries that identify security threats from CloudTrail data.

%[3]s

When generating queries, follow this structured approach:

1. INTERPRET THE HYPOTHESIS
   - What specific threat or behavior is being detected?
   - What are the key indicators?

2. IDENTIFY RELEVANT FIELDS
   - Which CloudTrail fields are needed?
   - What filters or conditions apply?

3. GENERATE THE QUERY
   - Write clean, efficient %[2]s SQL
   - Include appropriate WHERE clauses
   - Order results by eventTime when relevant
   - Limit results if appropriate

4. EXPLAIN YOUR REASONING
   - Why did you structure the query this way?
   - What assumptions did you make?
   - How confident are you (0.0-1.0)?

5. OUTPUT FORMAT
   Return a JSON object with this structure:
   {
     "interpretation": "What this hypothesis is looking for...",
     "reasoning": "I structured the query this way because...",
     "assumptions": ["assumption 1", "assumption 2"],
     "confidence": 0.85,
     "key_fields": ["field1", "field2"],
     "sql_query": "SELECT ... FROM %[1]s WHERE ..."
   }

IMPORTANT:
- Use %[2]s-compatible SQL
- Table name is always '%[1]s'
- Return ONLY valid JSON, no markdown formatting
- Ensure SQL is syntactically correct
- Be specific with conditions (avoid overly broad queries)`,
		table, dialect, fmt.Sprintf(schemaDoc, table))
}

// userPrompt frames one hypothesis for translation.
func userPrompt(h models.Hypothesis) string {
	return fmt.Sprintf(`Generate a SQL query for this threat hunting hypothesis:

ID: %s
Name: %s
Hypothesis: %s

Analyze the hypothesis and generate an appropriate SQL query following the structured approach.
Return only the JSON object with your analysis and query.`,
		h.ID, h.Name, h.Hypothesis)
}

// responsePayload mirrors the JSON shape demanded by the system prompt.
type responsePayload struct {
	Interpretation string   `json:"interpretation"`
	Reasoning      string   `json:"reasoning"`
	Assumptions    []string `json:"assumptions"`
	Confidence     float64  `json:"confidence"`
	KeyFields      []string `json:"key_fields"`
	SQLQuery       string   `json:"sql_query"`
}

// parseResponse decodes a model reply. Undecodable replies degrade to the
// fallback exploratory query; a decoded reply with a missing sql_query is
// kept as-is so the evaluator records the execution failure.
func parseResponse(raw string, req Request) *Result {
	cleaned := stripFences(raw)

	var payload responsePayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return fallbackResult(raw, req)
	}

	assumptions := payload.Assumptions
	if assumptions == nil {
		assumptions = []string{}
	}
	keyFields := payload.KeyFields
	if keyFields == nil {
		keyFields = []string{}
	}

	return &Result{
		SQL: payload.SQLQuery,
		Explanation: models.QueryExplanation{
			Interpretation: payload.Interpretation,
			Reasoning:      payload.Reasoning,
			Assumptions:    assumptions,
			Confidence:     payload.Confidence,
			KeyFields:      keyFields,
		},
		RawResponse: raw,
	}
}

// stripFences removes a wrapping markdown code fence, which models emit
// despite instructions not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// fallbackResult is the exploratory query substituted for an undecodable
// reply. Confidence zero marks it as untrusted.
func fallbackResult(raw string, req Request) *Result {
	return &Result{
		SQL: fmt.Sprintf("SELECT * FROM %s LIMIT 10", req.table()),
		Explanation: models.QueryExplanation{
			Interpretation: "Failed to parse LLM response",
			Reasoning:      "Error occurred during generation",
			Assumptions:    []string{},
			Confidence:     0,
			KeyFields:      []string{},
		},
		RawResponse: raw,
		Fallback:    true,
	}
}

// finishResult attaches provider metadata to a parsed response.
func finishResult(raw string, req Request, model string, promptTokens, completionTokens int) *Result {
	res := parseResponse(raw, req)
	res.Model = model
	res.PromptTokens = promptTokens
	res.CompletionTokens = completionTokens
	return res
}
