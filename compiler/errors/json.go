package errors

import (
	json "github.com/goccy/go-json"
)

// jsonError is the wire shape of an IRError.
type jsonError struct {
	Code       string     `json:"code"`
	Kind       string     `json:"kind"`
	Severity   string     `json:"severity"`
	Message    string     `json:"message"`
	Properties Properties `json:"properties,omitempty"`
}

// JSONOutput represents the JSON structure for error output
type JSONOutput struct {
	Status string      `json:"status"`
	Errors []jsonError `json:"errors"`
}

// MarshalJSON implements json.Marshaler
func (e *IRError) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonError{
		Code:       e.Code,
		Kind:       e.Kind,
		Severity:   e.Severity.String(),
		Message:    e.Message(),
		Properties: e.Properties,
	})
}

// FormatAsJSON formats an IRError as indented JSON
func (e *IRError) FormatAsJSON() (string, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatErrorsAsJSON formats multiple errors as a single JSON document
func FormatErrorsAsJSON(errs []*IRError) (string, error) {
	out := JSONOutput{Status: "success"}
	for _, e := range errs {
		out.Errors = append(out.Errors, jsonError{
			Code:       e.Code,
			Kind:       e.Kind,
			Severity:   e.Severity.String(),
			Message:    e.Message(),
			Properties: e.Properties,
		})
		if e.Severity >= Error {
			out.Status = "error"
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
