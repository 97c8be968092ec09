package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/northstarhq/northstar/pkg/serrors"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{serrors.ErrUnauthenticated, http.StatusUnauthorized},
		{serrors.Validation("bad input"), http.StatusBadRequest},
		{serrors.Conflict("duplicate quarter"), http.StatusConflict},
		{serrors.Forbidden("wrong tenant"), http.StatusNotFound},
		{serrors.NotFound("missing"), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		require.Equal(t, c.want, StatusFor(c.err), "error %v", c.err)
	}
}

func TestWriteTaxonomyError_ForbiddenIndistinguishableFromNotFound(t *testing.T) {
	forbidden := httptest.NewRecorder()
	require.NoError(t, WriteTaxonomyError(forbidden, serrors.Forbidden("team belongs to another account")))

	notFound := httptest.NewRecorder()
	require.NoError(t, WriteTaxonomyError(notFound, serrors.NotFound("team missing")))

	require.Equal(t, notFound.Code, forbidden.Code)
	require.Equal(t, notFound.Body.String(), forbidden.Body.String())

	var envelope ErrorEnvelope
	require.NoError(t, json.Unmarshal(forbidden.Body.Bytes(), &envelope))
	require.Equal(t, serrors.ErrNotFound.Code, envelope.Code)
}
