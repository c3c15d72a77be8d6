package jira

// Request and response shapes for the subset of the Jira REST v2 API the
// migration uses. Bodies are wiki markup strings.

type IssueFields struct {
	Project     ProjectRef    `json:"project"`
	Summary     string        `json:"summary"`
	Description string        `json:"description"`
	IssueType   IssueTypeRef  `json:"issuetype"`
	Labels      []string      `json:"labels,omitempty"`
	Priority    *PriorityRef  `json:"priority,omitempty"`
}

type ProjectRef struct {
	Key string `json:"key"`
}

type IssueTypeRef struct {
	Name string `json:"name"`
}

type PriorityRef struct {
	Name string `json:"name"`
}

type createIssueRequest struct {
	Fields IssueFields `json:"fields"`
}

type createIssueResponse struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

type commentRequest struct {
	Body string `json:"body"`
}

type commentResponse struct {
	ID string `json:"id"`
}

type updateIssueRequest struct {
	Fields map[string]interface{} `json:"fields"`
}

type transitionRequest struct {
	Transition transitionRef `json:"transition"`
}

type transitionRef struct {
	ID string `json:"id"`
}

type transitionsResponse struct {
	Transitions []Transition `json:"transitions"`
}

// Transition is one available workflow transition of an issue.
type Transition struct {
	ID   string           `json:"id"`
	Name string           `json:"name"`
	To   TransitionTarget `json:"to"`
}

type TransitionTarget struct {
	Name           string         `json:"name"`
	StatusCategory StatusCategory `json:"statusCategory"`
}

type StatusCategory struct {
	Key string `json:"key"`
}

type searchResponse struct {
	Total  int           `json:"total"`
	Issues []searchIssue `json:"issues"`
}

type searchIssue struct {
	Key string `json:"key"`
}

type errorResponse struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}
