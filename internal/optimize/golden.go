// Package optimize provides derivative-free one-dimensional minimisation.
package optimize

import (
	"errors"
	"fmt"
	"math"
)

const (
	goldenRatio     = 1.618034
	goldenR         = 0.61803399
	goldenC         = 1.0 - goldenR
	verySmallNumber = 1e-21
)

// ErrBracketNotFound indicates the downhill walk never enclosed a minimum
var ErrBracketNotFound = errors.New("too many iterations searching for a bracket")

// Settings configures the bracket search and golden-section refinement
type Settings struct {
	// Start and End are the two initial abscissae of the bracket search
	Start float64
	End   float64
	// GrowLimit caps parabolic extrapolation relative to the last step
	GrowLimit float64
	// MaxBracketIterations bounds the downhill walk
	MaxBracketIterations int
	// Tolerance is the relative width at which golden-section stops
	Tolerance float64
	// MaxIterations bounds golden-section steps
	MaxIterations int
}

// DefaultSettings returns the settings of a classic unbounded golden minimiser
func DefaultSettings() Settings {
	return Settings{
		Start:                0,
		End:                  1,
		GrowLimit:            110,
		MaxBracketIterations: 1000,
		Tolerance:            math.Sqrt(2.220446049250313e-16),
		MaxIterations:        5000,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.Start == s.End {
		s.Start, s.End = d.Start, d.End
	}
	if s.GrowLimit <= 0 {
		s.GrowLimit = d.GrowLimit
	}
	if s.MaxBracketIterations <= 0 {
		s.MaxBracketIterations = d.MaxBracketIterations
	}
	if s.Tolerance <= 0 {
		s.Tolerance = d.Tolerance
	}
	if s.MaxIterations <= 0 {
		s.MaxIterations = d.MaxIterations
	}
	return s
}

// Interval is a bracketing triple with f(B) <= f(A) and f(B) <= f(C)
type Interval struct {
	A, B, C    float64
	FA, FB, FC float64
	FuncEvals  int
}

// Result is the outcome of a minimisation
type Result struct {
	X          float64
	F          float64
	Iterations int
	FuncEvals  int
	Bracket    Interval
}

// Bracket walks downhill from xa and xb until it encloses a minimum of f.
func Bracket(f func(float64) float64, xa, xb float64, settings Settings) (Interval, error) {
	settings = settings.withDefaults()
	evals := 0
	eval := func(x float64) float64 {
		evals++
		return f(x)
	}

	fa := eval(xa)
	fb := eval(xb)
	if fa < fb {
		xa, xb = xb, xa
		fa, fb = fb, fa
	}
	xc := xb + goldenRatio*(xb-xa)
	fc := eval(xc)

	iter := 0
	for fc < fb {
		tmp1 := (xb - xa) * (fb - fc)
		tmp2 := (xb - xc) * (fb - fa)
		val := tmp2 - tmp1
		denom := 2.0 * val
		if math.Abs(val) < verySmallNumber {
			denom = 2.0 * verySmallNumber
		}
		w := xb - ((xb-xc)*tmp2-(xb-xa)*tmp1)/denom
		wlim := xb + settings.GrowLimit*(xc-xb)
		if iter > settings.MaxBracketIterations {
			return Interval{}, fmt.Errorf("%w: %d steps from (%v, %v)", ErrBracketNotFound, iter, xa, xb)
		}
		iter++

		var fw float64
		switch {
		case (w-xc)*(xb-w) > 0:
			// Parabolic minimum between b and c
			fw = eval(w)
			if fw < fc {
				return ordered(xb, w, xc, fb, fw, fc, evals), nil
			} else if fw > fb {
				return ordered(xa, xb, w, fa, fb, fw, evals), nil
			}
			w = xc + goldenRatio*(xc-xb)
			fw = eval(w)
		case (w-wlim)*(wlim-xc) >= 0:
			w = wlim
			fw = eval(w)
		case (w-wlim)*(xc-w) > 0:
			fw = eval(w)
			if fw < fc {
				xb, xc, w = xc, w, w+goldenRatio*(w-xc)
				fb, fc = fc, fw
				fw = eval(w)
			}
		default:
			w = xc + goldenRatio*(xc-xb)
			fw = eval(w)
		}
		xa, xb, xc = xb, xc, w
		fa, fb, fc = fb, fc, fw
	}

	return ordered(xa, xb, xc, fa, fb, fc, evals), nil
}

func ordered(xa, xb, xc, fa, fb, fc float64, evals int) Interval {
	if xa > xc {
		xa, xc = xc, xa
		fa, fc = fc, fa
	}
	return Interval{A: xa, B: xb, C: xc, FA: fa, FB: fb, FC: fc, FuncEvals: evals}
}

// Golden minimises f without a caller-supplied bracket. A bracket is first
// located from settings.Start and settings.End, then narrowed by golden-section.
func Golden(f func(float64) float64, settings Settings) (Result, error) {
	settings = settings.withDefaults()

	bracket, err := Bracket(f, settings.Start, settings.End, settings)
	if err != nil {
		return Result{}, err
	}
	evals := bracket.FuncEvals

	x0, x3 := bracket.A, bracket.C
	var x1, x2 float64
	if math.Abs(bracket.C-bracket.B) > math.Abs(bracket.B-bracket.A) {
		x1 = bracket.B
		x2 = bracket.B + goldenC*(bracket.C-bracket.B)
	} else {
		x2 = bracket.B
		x1 = bracket.B - goldenC*(bracket.B-bracket.A)
	}
	f1 := f(x1)
	f2 := f(x2)
	evals += 2

	iterations := 0
	for i := 0; i < settings.MaxIterations; i++ {
		if math.Abs(x3-x0) <= settings.Tolerance*(math.Abs(x1)+math.Abs(x2)) {
			break
		}
		if f2 < f1 {
			x0, x1 = x1, x2
			x2 = goldenR*x1 + goldenC*x3
			f1 = f2
			f2 = f(x2)
		} else {
			x3, x2 = x2, x1
			x1 = goldenR*x2 + goldenC*x0
			f2 = f1
			f1 = f(x1)
		}
		evals++
		iterations++
	}

	result := Result{Iterations: iterations, FuncEvals: evals, Bracket: bracket}
	if f1 < f2 {
		result.X, result.F = x1, f1
	} else {
		result.X, result.F = x2, f2
	}
	return result, nil
}
