package apierr

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tictactoe-go/internal/model"
	"github.com/mcoot/tictactoe-go/internal/services/auth"
)

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{model.ErrNotPlayerTurn, http.StatusForbidden, CodeNotYourTurn},
		{model.ErrNotInvitee, http.StatusForbidden, CodeNotInvitee},
		{model.ErrNotParticipant, http.StatusForbidden, CodeNotParticipant},
		{model.ErrGameFinished, http.StatusConflict, CodeGameFinished},
		{model.ErrCellOccupied, http.StatusConflict, CodeCellOccupied},
		{model.ErrInvalidPosition, http.StatusUnprocessableEntity, CodeInvalidPosition},
		{model.ErrCommentTooLong, http.StatusUnprocessableEntity, CodeCommentTooLong},
		{model.ErrMessageTooLong, http.StatusUnprocessableEntity, CodeMessageTooLong},
		{model.ErrCannotInviteSelf, http.StatusUnprocessableEntity, CodeCannotInviteSelf},
		{model.ErrGameNotFound, http.StatusNotFound, CodeGameNotFound},
		{model.ErrInvitationNotFound, http.StatusNotFound, CodeInvitationNotFound},
		{model.ErrPlayerNotFound, http.StatusNotFound, CodePlayerNotFound},
		{auth.ErrInvalidSession, http.StatusUnauthorized, CodeUnauthorized},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
		{auth.ErrUsernameExists, http.StatusConflict, CodeUsernameExists},
		{auth.ErrPasswordTooShort, http.StatusBadRequest, CodeInvalidRequest},
		{fmt.Errorf("save move: %w", model.ErrCellOccupied), http.StatusConflict, CodeCellOccupied},
		{fmt.Errorf("boom"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
			assert.Equal(t, tt.status, Status(tt.err))
		})
	}
}

func TestInternalErrorsDoNotLeakDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("dial tcp 10.0.0.1:5432: connection refused"))

	assert.NotContains(t, rec.Body.String(), "10.0.0.1")
}
