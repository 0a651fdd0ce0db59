package arima

import "math"

// maxPartial bounds |partial autocorrelation| so mapped polynomials stay
// strictly inside the unit circle after rounding.
const maxPartial = 0.9999

// maxStartPartial bounds starting values so the optimiser does not begin on
// the flat part of tanh.
const maxStartPartial = 0.95

// constrain maps unconstrained values to the coefficients of a stationary AR
// polynomial 1 - c1 L - ... - ck L^k. tanh yields partial autocorrelations in
// (-1, 1) and the Durbin-Levinson recursion turns them into coefficients.
func constrain(y []float64) []float64 {
	r := make([]float64, len(y))
	for i, v := range y {
		r[i] = math.Max(-maxPartial, math.Min(maxPartial, math.Tanh(v)))
	}
	return pacfToAR(r)
}

// unconstrain inverts constrain for a stationary coefficient vector. It
// returns zeros when phi is not stationary.
func unconstrain(phi []float64) []float64 {
	y := make([]float64, len(phi))
	r, ok := arToPACF(phi)
	if !ok {
		return y
	}
	for i, v := range r {
		y[i] = math.Atanh(math.Max(-maxStartPartial, math.Min(maxStartPartial, v)))
	}
	return y
}

func pacfToAR(r []float64) []float64 {
	phi := make([]float64, len(r))
	prev := make([]float64, len(r))
	for k := range r {
		copy(prev, phi[:k])
		for j := 0; j < k; j++ {
			phi[j] = prev[j] - r[k]*prev[k-1-j]
		}
		phi[k] = r[k]
	}
	return phi
}

// arToPACF runs the recursion of pacfToAR backwards. ok is false when a
// partial autocorrelation falls outside (-1, 1).
func arToPACF(phi []float64) (r []float64, ok bool) {
	a := append([]float64(nil), phi...)
	r = make([]float64, len(a))
	for k := len(a) - 1; k >= 0; k-- {
		rk := a[k]
		if math.Abs(rk) >= 1 || math.IsNaN(rk) {
			return nil, false
		}
		r[k] = rk
		denom := 1 - rk*rk
		next := make([]float64, k)
		for j := 0; j < k; j++ {
			next[j] = (a[j] + rk*a[k-1-j]) / denom
		}
		copy(a, next)
	}
	return r, true
}

// coefficients maps an optimiser point to AR and MA coefficients. MA
// coefficients enter the model as 1 + t1 L + ... so they are the negated
// image of a stationary polynomial.
func coefficients(x []float64, p int) (ar, ma []float64) {
	return constrain(x[:p]), negate(constrain(x[p:]))
}
