package handlers

import (
	"net/http"

	"github.com/akolanti/StudyRAG/internal/adapter/utils"
	"github.com/akolanti/StudyRAG/internal/api"
	"github.com/akolanti/StudyRAG/internal/domain/qaModel"
)

// CreateSessionHandler godoc
// @Summary      Start a QA session
// @Tags         QA
// @Accept       json
// @Produce      json
// @Param        request  body      api.CreateSessionRequest  true  "Document to ask about"
// @Success      201      {object}  qaModel.Session
// @Failure      404      {object}  api.ErrorResponse  "Unknown document"
// @Router       /qa/sessions [post]
func CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req api.CreateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	session, err := handlerInstance.qa.CreateSession(r.Context(), req.DocumentId)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJsonResponse(w, http.StatusCreated, session)
}

// ListSessionsHandler godoc
// @Summary      List QA sessions
// @Tags         QA
// @Produce      json
// @Success      200  {array}  qaModel.SessionSummary
// @Router       /qa/sessions [get]
func ListSessionsHandler(w http.ResponseWriter, r *http.Request) {
	sessions, err := handlerInstance.qa.ListSessions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []qaModel.SessionSummary{}
	}
	writeJsonResponse(w, http.StatusOK, sessions)
}

// GetSessionHandler godoc
// @Summary      Get QA session
// @Tags         QA
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  qaModel.Session
// @Failure      404  {object}  api.ErrorResponse
// @Router       /qa/sessions/{id} [get]
func GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	session, err := handlerInstance.qa.GetSession(r.Context(), utils.GetChiURLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, session)
}

// GetSessionMessagesHandler godoc
// @Summary      Get session messages
// @Tags         QA
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {array}   qaModel.Message
// @Failure      404  {object}  api.ErrorResponse
// @Router       /qa/sessions/{id}/messages [get]
func GetSessionMessagesHandler(w http.ResponseWriter, r *http.Request) {
	messages, err := handlerInstance.qa.GetMessages(r.Context(), utils.GetChiURLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if messages == nil {
		messages = []qaModel.Message{}
	}
	writeJsonResponse(w, http.StatusOK, messages)
}

// DeleteSessionHandler godoc
// @Summary      Delete QA session
// @Description  Idempotent.
// @Tags         QA
// @Param        id   path  string  true  "Session ID"
// @Success      204
// @Router       /qa/sessions/{id} [delete]
func DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	if err := handlerInstance.qa.DeleteSession(r.Context(), utils.GetChiURLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AskHandler godoc
// @Summary      Ask a question
// @Description  Answers from the session's document. Only one ask may run per session; a second one gets 409.
// @Description  A failed ask leaves the session history untouched.
// @Tags         QA
// @Accept       json
// @Produce      json
// @Param        request  body      api.AskRequest     true  "Question and session id"
// @Success      200      {object}  qaModel.AskResult
// @Failure      400      {object}  api.ErrorResponse  "Empty question"
// @Failure      404      {object}  api.ErrorResponse  "Unknown session or document"
// @Failure      409      {object}  api.ErrorResponse  "Ask in progress or document not ready"
// @Failure      503      {object}  api.ErrorResponse  "Provider or vector store unavailable, retry later"
// @Router       /qa/ask [post]
func AskHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	var req api.AskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	result, err := handlerInstance.qa.Ask(r.Context(), req.SessionId, req.Question)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, result)
}
