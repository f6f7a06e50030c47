package sl_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/sl"
)

func TestErr(t *testing.T) {
	attr := sl.Err(errors.New("boom"))
	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, slog.KindString, attr.Value.Kind())
	assert.Equal(t, "boom", attr.Value.String())
}

func TestSubject(t *testing.T) {
	attr := sl.Subject("auth0|abc123")
	assert.Equal(t, "subject", attr.Key)
	assert.Equal(t, "auth0|abc123", attr.Value.String())
}
