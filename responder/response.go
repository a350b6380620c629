package responder

import (
	"net/http"

	"github.com/drblury/specroute/jsonutil"
)

// HandleAPIError renders a problem document for status and logs it.
func (r *Responder) HandleAPIError(w http.ResponseWriter, req *http.Request, status int, err error, logMsg ...string) {
	if err == nil {
		return
	}

	meta := r.statusMetaFor(status)
	problem := r.buildProblemDetails(req, status, err, meta)
	r.logProblem(req, meta, err, problem.TraceID, status, logMsg)
	r.respondWithJSON(w, status, problem, problemContentType)
}

// HandleInternalServerError reports a 500.
func (r *Responder) HandleInternalServerError(w http.ResponseWriter, req *http.Request, err error, logMsg ...string) {
	r.HandleAPIError(w, req, http.StatusInternalServerError, err, logMsg...)
}

// HandleBadRequestError reports client errors using HTTP 400.
func (r *Responder) HandleBadRequestError(w http.ResponseWriter, req *http.Request, err error, logMsg ...string) {
	r.HandleAPIError(w, req, http.StatusBadRequest, err, logMsg...)
}

// HandleUnauthorizedError reports authentication failures using HTTP 401.
func (r *Responder) HandleUnauthorizedError(w http.ResponseWriter, req *http.Request, err error, logMsg ...string) {
	r.HandleAPIError(w, req, http.StatusUnauthorized, err, logMsg...)
}

// HandleNotFound reports that no route matched the request.
func (r *Responder) HandleNotFound(w http.ResponseWriter, req *http.Request) {
	r.HandleAPIError(w, req, http.StatusNotFound, NewNotFoundError(req.Method, req.URL.Path))
}

// RespondWithJSON serialises v and writes it with the supplied status code.
func (r *Responder) RespondWithJSON(w http.ResponseWriter, req *http.Request, status int, v any) {
	r.respondWithJSON(w, status, v, jsonContentType)
}

// HandleErrors classifies err and renders the matching problem document.
func (r *Responder) HandleErrors(w http.ResponseWriter, req *http.Request, err error, msgs ...string) {
	if err == nil {
		return
	}

	if status, handled := r.classifyError(err); handled {
		r.HandleAPIError(w, req, status, err, msgs...)
		return
	}

	r.HandleInternalServerError(w, req, err, msgs...)
}

func (r *Responder) respondWithJSON(w http.ResponseWriter, status int, payload any, contentType string) {
	if w == nil {
		return
	}

	body, err := jsonutil.Marshal(payload)
	if err != nil {
		r.logger().Error("failed to encode response", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if len(body) == 0 || body[len(body)-1] != '\n' {
		body = append(body, '\n')
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		r.logger().Error("failed to write response", "error", err)
	}
}
