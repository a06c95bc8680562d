// Package solver provides a damped multivariate Newton-Raphson root finder.
package solver

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrMaxIter indicates the iteration budget ran out before tolerance was met.
	ErrMaxIter = errors.New("solver: iteration budget exhausted")

	// ErrSingular indicates a singular Jacobian.
	ErrSingular = errors.New("solver: singular jacobian")

	// ErrNotFinite indicates the residual became NaN or Inf.
	ErrNotFinite = errors.New("solver: residual not finite")

	// ErrDimension indicates a seed of the wrong length.
	ErrDimension = errors.New("solver: dimension mismatch")
)

// Func evaluates the residual of x into fx.
type Func func(x, fx []float64)

// JacobianFunc evaluates the Jacobian of the residual at x into jac.
type JacobianFunc func(jac *mat.Dense, x []float64)

// Problem is a square nonlinear system F(x) = 0.
type Problem struct {
	Dim      int
	Func     Func
	Jacobian JacobianFunc
}

// Result is the final iterate. It is filled in on failure too.
type Result struct {
	X          []float64
	Residual   float64
	Iterations int
	Converged  bool
}

type Newton struct {
	MaxIter int
	Tol     float64
	// MaxStep caps the infinity norm of a single update; 0 disables it.
	MaxStep float64
}

func NewNewton() *Newton {
	return &Newton{
		MaxIter: 100,
		Tol:     1e-9,
		MaxStep: 2,
	}
}

// Solve iterates from x0 until the infinity norm of F drops to Tol.
func (n *Newton) Solve(p Problem, x0 []float64) (Result, error) {
	if len(x0) != p.Dim {
		return Result{}, ErrDimension
	}

	x := make([]float64, p.Dim)
	copy(x, x0)
	fx := make([]float64, p.Dim)
	rhs := make([]float64, p.Dim)
	jac := mat.NewDense(p.Dim, p.Dim, nil)
	var dx mat.VecDense

	res := Result{X: x}
	for it := 0; ; it++ {
		p.Func(x, fx)
		res.Iterations = it
		res.Residual = floats.Norm(fx, math.Inf(1))

		if math.IsNaN(res.Residual) || math.IsInf(res.Residual, 0) {
			return res, ErrNotFinite
		}
		if res.Residual <= n.Tol {
			res.Converged = true
			return res, nil
		}
		if it >= n.MaxIter {
			return res, ErrMaxIter
		}

		p.Jacobian(jac, x)
		if mat.Det(jac) == 0 {
			return res, ErrSingular
		}

		for i := range fx {
			rhs[i] = -fx[i]
		}
		if err := dx.SolveVec(jac, mat.NewVecDense(p.Dim, rhs)); err != nil {
			var cond mat.Condition
			if !errors.As(err, &cond) || math.IsInf(float64(cond), 0) {
				return res, ErrSingular
			}
			// ill-conditioned but solvable; keep going
		}

		step := dx.RawVector().Data
		if norm := floats.Norm(step, math.Inf(1)); n.MaxStep > 0 && norm > n.MaxStep {
			floats.Scale(n.MaxStep/norm, step)
		}
		floats.Add(x, step)
	}
}
