package arima

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/yourusername/sales-forecast/internal/models"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

var (
	ErrNotConverged       = errors.New("optimizer did not converge")
	ErrNonStationary      = errors.New("AR coefficients are not stationary")
	ErrNonInvertible      = errors.New("MA coefficients are not invertible")
	ErrTooFewObservations = errors.New("too few observations for order")
	ErrNonFiniteObjective = errors.New("objective is not finite")
)

// Settings bound the optimiser.
type Settings struct {
	MaxIterations   int
	MaxEvaluations  int
	RelativeTol     float64
	StallIterations int
	// Restarts is how many times a run that hit a limit is resumed.
	Restarts int
}

// DefaultSettings returns the settings used by the forecasting harness.
func DefaultSettings() Settings {
	return Settings{
		MaxIterations:   2000,
		MaxEvaluations:  20000,
		RelativeTol:     1e-10,
		StallIterations: 100,
		Restarts:        3,
	}
}

// Model is a fitted ARIMA model.
type Model struct {
	order     models.Order
	ar        []float64
	ma        []float64
	sigma2    float64
	endog     []float64
	z         []float64
	residuals []float64
	levels    []float64
}

// Fit estimates an ARIMA model of the given order on series.
func Fit(ctx context.Context, series []float64, order models.Order, settings Settings) (*Model, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := &Model{
		order: order,
		endog: append([]float64(nil), series...),
	}
	if err := m.integrateLevels(); err != nil {
		return nil, err
	}

	p, q := order.P, order.Q
	n := len(m.z)
	if need := 2*p + q + 2; n < need {
		return nil, fmt.Errorf("%w: %d differenced observations, need %d", ErrTooFewObservations, n, need)
	}

	m.ar = make([]float64, p)
	m.ma = make([]float64, q)

	if p+q > 0 && floats.Norm(m.z, 2) > 0 {
		params, err := estimate(ctx, m.z, p, q, settings)
		if err != nil {
			return nil, err
		}
		copy(m.ar, params[:p])
		copy(m.ma, params[p:])

		// the parameter map keeps both polynomials inside the unit circle;
		// this catches rounding at the boundary
		if err := checkRoots(m.ar, ErrNonStationary); err != nil {
			return nil, err
		}
		if err := checkRoots(negate(m.ma), ErrNonInvertible); err != nil {
			return nil, err
		}
	}

	var sse float64
	m.residuals, sse = cssResiduals(m.z, m.ar, m.ma)
	m.sigma2 = sse / float64(n-p)
	return m, nil
}

// integrateLevels differences endog d times, keeping the last value of every
// intermediate level so forecasts can be integrated back.
func (m *Model) integrateLevels() error {
	z := m.endog
	m.levels = make([]float64, 0, m.order.D)
	for k := 0; k < m.order.D; k++ {
		if len(z) < 2 {
			return fmt.Errorf("%w: cannot difference %d observations", ErrTooFewObservations, len(z))
		}
		m.levels = append(m.levels, z[len(z)-1])
		next := make([]float64, len(z)-1)
		for i := 1; i < len(z); i++ {
			next[i-1] = z[i] - z[i-1]
		}
		z = next
	}
	m.z = append([]float64(nil), z...)
	return nil
}

// estimate minimises the conditional sum of squares over an unconstrained
// space whose image is the stationary and invertible region. A run that hits
// an iteration or evaluation limit is restarted from its best point; the
// fit is accepted once a restart no longer improves the objective.
func estimate(ctx context.Context, z []float64, p, q int, settings Settings) ([]float64, error) {
	x := make([]float64, p+q)
	if p > 0 {
		copy(x[:p], unconstrain(yuleWalker(autocorrelation(z, p), p)))
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			ar, ma := coefficients(x, p)
			_, sse := cssResiduals(z, ar, ma)
			if math.IsNaN(sse) || math.IsInf(sse, 0) {
				return math.Inf(1)
			}
			return sse
		},
		Status: func() (optimize.Status, error) {
			if err := ctx.Err(); err != nil {
				return optimize.Failure, err
			}
			return optimize.NotTerminated, nil
		},
	}

	prevF := math.Inf(1)
	var status optimize.Status
	for attempt := 0; attempt <= settings.Restarts; attempt++ {
		result, err := optimize.Minimize(problem, x, &optimize.Settings{
			MajorIterations: settings.MaxIterations,
			FuncEvaluations: settings.MaxEvaluations,
			Converger: &optimize.FunctionConverge{
				Relative:   settings.RelativeTol,
				Iterations: settings.StallIterations,
			},
		}, &optimize.NelderMead{})
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotConverged, err)
		}
		if math.IsNaN(result.F) || math.IsInf(result.F, 0) {
			return nil, ErrNonFiniteObjective
		}

		x = result.X
		status = result.Status
		switch status {
		case optimize.IterationLimit, optimize.FunctionEvaluationLimit, optimize.RuntimeLimit:
			if attempt > 0 && prevF-result.F <= restartTol*math.Abs(prevF) {
				return unpack(x, p), nil
			}
			prevF = result.F
			continue
		}
		return unpack(x, p), nil
	}
	return nil, fmt.Errorf("%w: %s after %d restarts", ErrNotConverged, status, settings.Restarts)
}

// restartTol is the relative improvement below which a restarted run counts
// as having stalled at the optimum.
const restartTol = 1e-8

func unpack(x []float64, p int) []float64 {
	ar, ma := coefficients(x, p)
	return append(ar, ma...)
}

// cssResiduals returns the conditional residuals of z under (ar, ma) and
// their sum of squares. Residuals before index p are conditioned to zero.
func cssResiduals(z, ar, ma []float64) ([]float64, float64) {
	p, q := len(ar), len(ma)
	residuals := make([]float64, len(z))
	sse := 0.0
	for t := p; t < len(z); t++ {
		pred := 0.0
		for i := 0; i < p; i++ {
			pred += ar[i] * z[t-1-i]
		}
		for j := 0; j < q && t-1-j >= 0; j++ {
			pred += ma[j] * residuals[t-1-j]
		}
		residuals[t] = z[t] - pred
		sse += residuals[t] * residuals[t]
	}
	return residuals, sse
}

// Forecast returns the one-step-ahead forecast on the scale of the input series.
func (m *Model) Forecast() (float64, error) {
	n := len(m.z)
	pred := 0.0
	for i, phi := range m.ar {
		if n-1-i >= 0 {
			pred += phi * m.z[n-1-i]
		}
	}
	for j, theta := range m.ma {
		if n-1-j >= 0 {
			pred += theta * m.residuals[n-1-j]
		}
	}
	for _, level := range m.levels {
		pred += level
	}
	if math.IsNaN(pred) || math.IsInf(pred, 0) {
		return 0, ErrNonFiniteObjective
	}
	return pred, nil
}

// Order returns the model order.
func (m *Model) Order() models.Order {
	return m.order
}

// AR returns a copy of the AR coefficients.
func (m *Model) AR() []float64 {
	return append([]float64(nil), m.ar...)
}

// MA returns a copy of the MA coefficients.
func (m *Model) MA() []float64 {
	return append([]float64(nil), m.ma...)
}

// Sigma2 returns the residual variance.
func (m *Model) Sigma2() float64 {
	return m.sigma2
}

// Residuals returns the in-sample one-step residuals past the conditioning window.
func (m *Model) Residuals() []float64 {
	return append([]float64(nil), m.residuals[m.order.P:]...)
}

func negate(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = -v
	}
	return out
}
