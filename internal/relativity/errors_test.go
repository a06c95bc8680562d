package relativity

import (
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/relsim/internal/solver"
)

func TestErrorClasses(t *testing.T) {
	conv := &ConvergenceError{Seed: SeedSwap, Iterations: 100, Residual: 1e-3, Wrapped: solver.ErrMaxIter}
	inv := &InvariantError{Check: "energy conservation", Got: 2, Want: 1}
	dom := &DomainError{Field: "v1", Value: 1, Reason: "too fast"}
	prec := &PrecisionError{Field: "v2'", Beta: 1, Rapidity: 21}

	tests := []struct {
		name  string
		err   error
		class error
	}{
		{"convergence", conv, ErrConvergence},
		{"invariant", inv, ErrInvariant},
		{"domain", dom, ErrDomain},
		{"precision", prec, ErrPrecision},
	}

	classes := []error{ErrConvergence, ErrInvariant, ErrDomain, ErrPrecision}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, c := range classes {
				if got := errors.Is(tt.err, c); got != (c == tt.class) {
					t.Errorf("errors.Is(%v, %v) = %v", tt.err, c, got)
				}
			}
		})
	}

	if !errors.Is(conv, solver.ErrMaxIter) {
		t.Error("convergence error should expose the solver cause")
	}
	if !strings.Contains(conv.Error(), "100 iterations") {
		t.Errorf("unexpected message: %s", conv.Error())
	}
	if !strings.Contains(dom.Error(), "v1") {
		t.Errorf("domain error should name the field: %s", dom.Error())
	}
	if msg := prec.Error(); !strings.Contains(msg, "β") || strings.Contains(msg, "below c") {
		t.Errorf("precision error should be worded in β: %s", msg)
	}
}
