// Package arima fits ARIMA(p, d, q) models without a constant term.
//
// Coefficients are estimated by minimising the conditional sum of squares
// (CSS) of the d-times differenced series with a Nelder-Mead search. A fit
// whose AR polynomial is not stationary, whose MA polynomial is not
// invertible, or whose optimiser stops without converging is rejected, so
// callers exploring an order grid see those orders as failures.
//
// A fitted Model produces one-step-ahead forecasts on the scale of the input
// series and can be serialised with MarshalState and rebuilt with Restore
// without re-estimating anything.
package arima
