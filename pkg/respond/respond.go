package respond

import (
	"net/http"

	"github.com/go-chi/render"
)

// ErrorResponse - тело ответа об ошибке
type ErrorResponse struct {
	Message string `json:"message"`
}

// Error lets a decoded error body be returned as an error by API clients.
func (e *ErrorResponse) Error() string {
	return e.Message
}

// MessageResponse - тело успешного ответа без данных (например, после удаления)
type MessageResponse struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, r *http.Request, code int, data interface{}) {
	render.Status(r, code)
	render.JSON(w, r, data)
}

func Error(w http.ResponseWriter, r *http.Request, code int, message string) {
	JSON(w, r, code, ErrorResponse{Message: message})
}

// Message sends a non-error {"message": ...} body, e.g. a delete confirmation.
func Message(w http.ResponseWriter, r *http.Request, code int, message string) {
	JSON(w, r, code, MessageResponse{Message: message})
}

func Text(w http.ResponseWriter, r *http.Request, code int, text string) {
	render.Status(r, code)
	render.PlainText(w, r, text)
}

// DecodeJSON reads a JSON request body into v.
func DecodeJSON(r *http.Request, v interface{}) error {
	return render.DecodeJSON(r.Body, v)
}
