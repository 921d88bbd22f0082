package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidOptions, "padding factor must be > 0, got %v", 0.0)

	if err.Code != ErrCodeInvalidOptions {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidOptions)
	}
	if !strings.Contains(err.Error(), "INVALID_OPTIONS") {
		t.Errorf("Error() = %q, want code prefix", err.Error())
	}
	if !strings.Contains(err.Error(), "got 0") {
		t.Errorf("Error() = %q, want formatted message", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("unexpected end of JSON input")
	err := Wrap(ErrCodeInvalidDiagram, cause, "parse diagram %s", "d.json")

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if got := err.Unwrap(); got != cause {
		t.Errorf("Unwrap() = %v, want %v", got, cause)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{
			name: "matching code",
			err:  New(ErrCodeElementNotFound, "no element %q", "n1"),
			code: ErrCodeElementNotFound,
			want: true,
		},
		{
			name: "different code",
			err:  New(ErrCodeElementNotFound, "no element"),
			code: ErrCodeInvalidOptions,
			want: false,
		},
		{
			name: "wrapped in fmt chain",
			err:  fmt.Errorf("outer: %w", New(ErrCodeInvalidBounds, "bad bounds")),
			code: ErrCodeInvalidBounds,
			want: true,
		},
		{
			name: "plain error",
			err:  stderrors.New("plain"),
			code: ErrCodeInternal,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInternal, "boom")); got != ErrCodeInternal {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeInternal)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode() = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidFormat, "unknown format: %q", "bmp")
	if got := UserMessage(err); strings.Contains(got, "INVALID_FORMAT") {
		t.Errorf("UserMessage() = %q, want message without code prefix", got)
	}
	plain := stderrors.New("plain message")
	if got := UserMessage(plain); got != "plain message" {
		t.Errorf("UserMessage() = %q, want %q", got, "plain message")
	}
}
