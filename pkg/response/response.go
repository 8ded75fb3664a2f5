package response

import (
	"encoding/json"
	"net/http"
	"regexp"
)

// Envelope is the fixed response shape of the dispatch endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// callbackPattern restricts JSONP callback names to plain identifiers.
// Anything else is answered as regular JSON.
var callbackPattern = regexp.MustCompile(`^[A-Za-z0-9_$.]+$`)

// OK sends a success envelope carrying a data payload.
func OK(w http.ResponseWriter, callback string, data interface{}) {
	Write(w, callback, Envelope{Success: true, Data: data})
}

// Ack sends a success envelope with an optional human-readable message and
// no data payload.
func Ack(w http.ResponseWriter, callback, message string) {
	Write(w, callback, Envelope{Success: true, Message: message})
}

// Fail sends a failure envelope carrying the error description. The HTTP
// status is 200 for every outcome; clients branch on the success flag.
func Fail(w http.ResponseWriter, callback string, err error) {
	Write(w, callback, Envelope{Success: false, Error: err.Error()})
}

// Write serializes the envelope, wrapped in a named callback invocation when
// a valid callback name is supplied (JSONP for cross-origin GET clients).
func Write(w http.ResponseWriter, callback string, env Envelope) {
	body, err := json.Marshal(env)
	if err != nil {
		body = []byte(`{"success":false,"error":"failed to encode response"}`)
	}

	if callback != "" && callbackPattern.MatchString(callback) {
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(callback + "("))
		w.Write(body)
		w.Write([]byte(");"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
