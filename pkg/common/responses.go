package common

import (
	"encoding/json"
	"net/http"
)

// RespondJSON writes data as a JSON response. HTML characters in article text
// are left unescaped.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(data)
}
