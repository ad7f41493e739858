package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := WithCode(CodeDatabaseError, stderrors.New("connection refused"), "failed to connect to database")
	wrapped := Wrap(fmt.Errorf("startup: %w", base), "failed to open dataset source")

	assert.Equal(t, CodeDatabaseError, GetCode(wrapped))
	assert.Equal(t, "failed to open dataset source: startup: failed to connect to database: connection refused", wrapped.Error())
}

func TestGetCodeDefaultsToInternal(t *testing.T) {
	assert.Equal(t, CodeInternalError, GetCode(stderrors.New("boom")))
	assert.Equal(t, CodeConfigInvalid, GetCode(ConfigInvalid("config cannot be nil")))
}

func TestNilErrors(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, WithCode(CodeDatasetUnavailable, nil, "context"))
}
