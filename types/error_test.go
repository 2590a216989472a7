package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_ChainingAndHelpers(t *testing.T) {
	t.Parallel()

	root := errors.New("root")
	err := NewError(ErrLinkError, "trigger failed").
		WithCause(root).
		WithNode("/f1/t1").
		WithPath("../f2/t2")

	assert.Equal(t, ErrLinkError, GetErrorCode(err))
	assert.True(t, errors.Is(err, root))
	assert.True(t, IsLinkError(err))
	assert.False(t, IsParseError(err))
	assert.Contains(t, err.Error(), "/f1/t1")
	assert.Contains(t, err.Error(), "root")
}

func TestError_SentinelKinds(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		sentinel error
	}{
		{name: "parse", err: NewParseError(3, 7, "unexpected %q", "x"), sentinel: ErrParse},
		{name: "link", err: NewLinkError("/a", "b"), sentinel: ErrLink},
		{name: "unsupported", err: NewError(ErrUnsupportedType, "nope"), sentinel: ErrUnsupported},
		{name: "range", err: NewError(ErrRangeViolation, "mark"), sentinel: ErrRange},
		{name: "duplicate", err: NewError(ErrDuplicateName, "dup"), sentinel: ErrMutation},
		{name: "invalid value", err: NewError(ErrInvalidValue, "quotes"), sentinel: ErrMutation},
		{name: "config", err: NewError(ErrInvalidConfig, "bad"), sentinel: ErrConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.sentinel))
			assert.Equal(t, tt.err.Code, GetErrorCode(wrapped))
		})
	}
}

func TestError_ParsePositionInMessage(t *testing.T) {
	err := NewParseError(3, 7, "unexpected token %q", "endtask")
	assert.Equal(t, `[PARSE_ERROR] 3:7: unexpected token "endtask"`, err.Error())
}

func TestError_JoinedLinkErrors(t *testing.T) {
	joined := errors.Join(NewLinkError("/f/t1", "x"), NewLinkError("/f/t2", "y"))
	require.Error(t, joined)
	assert.True(t, IsLinkError(joined))
	assert.Equal(t, ErrLinkError, GetErrorCode(joined))
}

func TestGetErrorCode_PlainError(t *testing.T) {
	assert.Equal(t, ErrorCode(""), GetErrorCode(errors.New("plain")))
}

func TestStatus(t *testing.T) {
	assert.Equal(t, StatusUnknown, ParseStatus(""))
	assert.Equal(t, StatusComplete, ParseStatus("complete"))
	assert.True(t, StatusComplete.IsKnown())
	assert.False(t, Status("late").IsKnown())
	assert.Equal(t, "late", ParseStatus("late").String())
}
