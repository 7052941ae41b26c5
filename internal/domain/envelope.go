package domain

// SchemaVersion is the literal schema_version of every service envelope.
const SchemaVersion = "v1"

// Envelope is the machine-readable output document. Result and Error are
// always serialized: a failure carries an empty result object and a success
// a null error.
type Envelope struct {
	SchemaVersion string      `json:"schema_version"`
	Command       string      `json:"command"`
	OK            bool        `json:"ok"`
	Result        interface{} `json:"result"`
	Error         *ErrorInfo  `json:"error"`
}

// ErrorInfo is the error block of a failed envelope.
type ErrorInfo struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Retryable bool                   `json:"retryable"`
	Details   map[string]interface{} `json:"details"`
}

// Feedback is the Alfred script-filter document.
type Feedback struct {
	Items []Item `json:"items"`
}

// Item is one Alfred result row. Optional fields are omitted when unset.
type Item struct {
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle,omitempty"`
	Arg          string `json:"arg,omitempty"`
	Autocomplete string `json:"autocomplete,omitempty"`
	UID          string `json:"uid,omitempty"`
	Valid        *bool  `json:"valid,omitempty"`
}

// Bool returns a pointer to b for Item.Valid.
func Bool(b bool) *bool {
	return &b
}
