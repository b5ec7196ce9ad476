package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(CodeItemNotFound, "photos/2024 is missing")

	require.Equal(t, CodeItemNotFound, err.Code())
	require.Equal(t, "photos/2024 is missing", err.Message())
	require.Equal(t, ClassificationPermanent, err.Classification())
	require.Nil(t, err.Context())
	require.Nil(t, err.Unwrap())
}

func TestNew_DefaultMessage(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{CodeStorage, "A storage error occurred."},
		{CodeItemNotFound, "The storage item or one of its parent containers does not exist."},
		{CodeInvalidPath, "The specified storage path is invalid."},
		{ErrorCode("CUSTOM"), "CUSTOM"},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			require.Equal(t, tt.want, New(tt.code, "").Message())
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CodeInvalidArgument, "segment %d is empty", 2)
	require.Equal(t, "segment 2 is empty", err.Message())
}

func TestKindConstructors(t *testing.T) {
	cause := stderrors.New("native failure")

	tests := []struct {
		name string
		fn   func(error) PlatformError
		code ErrorCode
	}{
		{"storage", Storage, CodeStorage},
		{"item not found", ItemNotFound, CodeItemNotFound},
		{"invalid path", InvalidPath, CodeInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bare := tt.fn(nil)
			require.Equal(t, tt.code, bare.Code())
			require.Equal(t, DefaultMessage(tt.code), bare.Message())
			require.Nil(t, bare.Unwrap())

			wrapped := tt.fn(cause)
			require.Equal(t, tt.code, wrapped.Code())
			require.Equal(t, DefaultMessage(tt.code), wrapped.Message())
			require.ErrorIs(t, wrapped, cause)
		})
	}
}

func TestIsStorageCode(t *testing.T) {
	require.True(t, IsStorageCode(CodeStorage))
	require.True(t, IsStorageCode(CodeItemNotFound))
	require.True(t, IsStorageCode(CodeInvalidPath))
	require.False(t, IsStorageCode(CodeInvalidArgument))
	require.False(t, IsStorageCode(CodeCanceled))
}
