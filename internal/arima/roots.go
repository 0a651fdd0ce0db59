package arima

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// checkRoots fails with kind when the polynomial 1 - c1 L - ... - ck L^k has
// a root on or inside the unit circle, i.e. when its companion matrix has an
// eigenvalue of modulus >= 1.
func checkRoots(coeffs []float64, kind error) error {
	k := len(coeffs)
	if k == 0 {
		return nil
	}
	companion := mat.NewDense(k, k, nil)
	for j, c := range coeffs {
		companion.Set(0, j, c)
	}
	for i := 1; i < k; i++ {
		companion.Set(i, i-1, 1)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(companion, mat.EigenNone); !ok {
		return fmt.Errorf("%w: eigen decomposition failed", kind)
	}
	for _, v := range eig.Values(nil) {
		if cmplx.Abs(v) >= 1 {
			return fmt.Errorf("%w: root modulus %.4f", kind, cmplx.Abs(v))
		}
	}
	return nil
}

// autocorrelation returns the sample ACF at lags 0..maxLag.
func autocorrelation(z []float64, maxLag int) []float64 {
	n := len(z)
	if n == 0 || maxLag >= n {
		return nil
	}
	mean := stat.Mean(z, nil)
	denom := 0.0
	for _, v := range z {
		denom += (v - mean) * (v - mean)
	}
	if denom == 0 {
		return nil
	}
	acf := make([]float64, maxLag+1)
	for lag := 0; lag <= maxLag; lag++ {
		num := 0.0
		for t := 0; t < n-lag; t++ {
			num += (z[t] - mean) * (z[t+lag] - mean)
		}
		acf[lag] = num / denom
	}
	return acf
}

// yuleWalker solves the Yule-Walker equations by Levinson-Durbin recursion.
// It returns zeros when the autocorrelations are unavailable.
func yuleWalker(acf []float64, order int) []float64 {
	phi := make([]float64, order)
	if order <= 0 || len(acf) <= order {
		return phi
	}

	phi[0] = acf[1]
	v := 1 - phi[0]*phi[0]
	for i := 1; i < order; i++ {
		if v <= 0 {
			break
		}
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		lambda /= v

		next := make([]float64, i+1)
		for j := 0; j < i; j++ {
			next[j] = phi[j] - lambda*phi[i-1-j]
		}
		next[i] = lambda
		copy(phi, next)

		v *= 1 - lambda*lambda
	}
	return phi
}
