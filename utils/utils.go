package utils

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	g "maragu.dev/gomponents"

	"github.com/nijaru/yt-summary/errors"
)

func RespondWithJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("Failed to encode JSON response")
	}
}

// HandleError writes err as {"error": message} with the status of its kind.
func HandleError(w http.ResponseWriter, err error) {
	RespondWithJSON(w, errors.StatusCode(err), map[string]string{"error": errors.UserMessage(err)})
}

// RenderHTML writes node as an HTML response.
func RenderHTML(w http.ResponseWriter, statusCode int, node g.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := node.Render(w); err != nil {
		logrus.WithError(err).Error("Failed to render HTML response")
	}
}
