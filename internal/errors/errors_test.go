package errors_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dexerrs "github.com/jdholdren/retrodex/internal/errors"
)

func TestEConstructor(t *testing.T) {
	got := dexerrs.E(
		"title is required",
		dexerrs.Detail{Field: "title", Error: "missing"},
		http.StatusBadRequest,
	)
	want := &dexerrs.Error{
		Err: errors.New("title is required"),
		Details: []dexerrs.Detail{
			{Field: "title", Error: "missing"},
		},
		Status: http.StatusBadRequest,
	}

	assert.Equal(t, want, got)
}

func TestEDefaultsTo500(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, dexerrs.E("boom").Status)
}

func TestMarshalJSON(t *testing.T) {
	byts, err := json.Marshal(dexerrs.E(http.StatusNotFound, "entry not found"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"entry not found","message":"entry not found","status":404}`, string(byts))

	var back dexerrs.Error
	require.NoError(t, json.Unmarshal(byts, &back))
	assert.Equal(t, http.StatusNotFound, back.Status)
	assert.EqualError(t, back.Err, "entry not found")
}

func TestStatusThroughWrapping(t *testing.T) {
	sentinel := errors.New("gone")
	err := fmt.Errorf("handler: %w", dexerrs.E(http.StatusGone, sentinel))

	assert.Equal(t, http.StatusGone, dexerrs.Status(err))
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, http.StatusInternalServerError, dexerrs.Status(errors.New("plain")))
}
