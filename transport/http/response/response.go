package response

import (
	"encoding/json"
	"net/http"
	"taskapp/shared/constant"
	"taskapp/shared/failure"
	"taskapp/shared/logger"
)

type Error struct {
	Error string `json:"error"`
}

// WithJSON sends jsonPayload as the response body, unwrapped.
func WithJSON(writer http.ResponseWriter, code int, jsonPayload any) {
	response(writer, code, jsonPayload)
}

// WithNoContent sends an empty response
func WithNoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// WithError sends a response with an error message. A Failure anywhere in the chain
// decides both the status and the message.
func WithError(writer http.ResponseWriter, err error) {
	response(writer, failure.GetCode(err), Error{Error: failure.GetMessage(err)})
}

// WithRequestLimitExceeded sends a default response for when the request limit is exceeded
func WithRequestLimitExceeded(writer http.ResponseWriter) {
	response(writer, http.StatusTooManyRequests, Error{Error: constant.ResponseErrorRequestLimitExceeded})
}

// WithPreparingShutdown sends a default response for when the server is preparing to shut down
func WithPreparingShutdown(writer http.ResponseWriter) {
	response(writer, http.StatusServiceUnavailable, Error{Error: constant.ResponseErrorPrepareShutdown})
}

func response(writer http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)
	_, err = writer.Write(response)

	if err != nil {
		logger.ErrorWithStack(err)
	}
}
