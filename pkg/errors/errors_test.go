package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name:     "out of bounds",
			err:      OutOfBounds([]string{"latitude"}, 1, 23, 16),
			contains: []string{"[decode]", "out_of_bounds", "at latitude", "need 23 bits at bit 1", "16 bits available"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseCompile,
				Kind:  KindUnsupported,
			},
			contains: []string{"[compile]", "unsupported"},
		},
		{
			name:     "transform with cause",
			err:      TransformFailed([]string{"rec", "speed"}, errors.New("division by zero")),
			contains: []string{"[transform]", "transform_failure", "rec.speed", "caused by", "division by zero"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := TransformFailed(nil, cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := OutOfBounds([]string{"foo"}, 0, 8, 0)

	if !errors.Is(err, ErrOutOfBounds) {
		t.Error("Is should match sentinel without phase")
	}
	if errors.Is(err, ErrTransform) {
		t.Error("Is should not match different kind")
	}
	if !err.Is(&Error{Phase: PhaseDecode, Kind: KindOutOfBounds}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseCompile, Kind: KindOutOfBounds}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(errors.New("other")) {
		t.Error("Is should not match foreign errors")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseCompile, KindTypeMismatch).
		Path("rec", "name").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "int32", "uint8").
		Build()

	if err.Phase != PhaseCompile {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseCompile)
	}
	if err.Kind != KindTypeMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
	}
	if strings.Join(err.Path, ".") != "rec.name" {
		t.Errorf("Path = %v", err.Path)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if err.Detail != "expected int32, got uint8" {
		t.Errorf("Detail = %q", err.Detail)
	}
	if err.Cause != cause {
		t.Error("Cause not set")
	}
}

func TestWithPath(t *testing.T) {
	err := OutOfBounds([]string{"lat"}, 0, 1, 0)
	p := err.WithPath("position")
	if got := strings.Join(p.Path, "."); got != "position.lat" {
		t.Errorf("Path = %q", got)
	}
	if got := strings.Join(err.Path, "."); got != "lat" {
		t.Errorf("original mutated: %q", got)
	}
}
