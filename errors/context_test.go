package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithContext(t *testing.T) {
	cause := stderrors.New("no such file")
	err := WithContext(ItemNotFound(cause), "path", "a/b")
	err = WithContext(err, "file", "c.txt")

	require.Equal(t, CodeItemNotFound, err.Code())
	require.Equal(t, map[string]interface{}{"path": "a/b", "file": "c.txt"}, err.Context())
	require.ErrorIs(t, err, cause)
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestWithContext_StandardError(t *testing.T) {
	err := WithContext(stderrors.New("boom"), "op", "list")

	require.Equal(t, CodeUnknown, err.Code())
	require.Equal(t, "boom", err.Message())
	require.Equal(t, "list", err.Context()["op"])
}

func TestWithContext_Nil(t *testing.T) {
	require.Nil(t, WithContext(nil, "k", "v"))
	require.Nil(t, WithContextMap(nil, map[string]interface{}{"k": "v"}))
	require.Nil(t, WithClassification(nil, ClassificationRetryable))
}

func TestWithContextMap_WrappedPlatformError(t *testing.T) {
	pe := ItemNotFound(nil)
	err := WithContext(fmt.Errorf("loading config: %w", pe), "path", "a")

	require.Equal(t, CodeItemNotFound, err.Code())
	require.Equal(t, pe.Message(), err.Message())
	require.NotContains(t, err.Error(), "loading config")
}

func TestWithContextMap_Overrides(t *testing.T) {
	err := WithContext(Storage(nil), "file", "old")
	err = WithContextMap(err, map[string]interface{}{"file": "new", "reason": "already_exists"})

	require.Equal(t, "new", err.Context()["file"])
	require.Equal(t, "already_exists", err.Context()["reason"])
}

func TestWithClassification(t *testing.T) {
	err := WithContext(Storage(nil), "file", "a.txt")
	retryable := WithClassification(err, ClassificationRetryable)

	require.True(t, IsRetryable(retryable))
	require.False(t, IsRetryable(err))
	require.Equal(t, "a.txt", retryable.Context()["file"])
	require.ErrorIs(t, retryable, ErrStorage)
}
