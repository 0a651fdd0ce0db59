package forecast

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/sales-forecast/internal/metrics"
	"github.com/yourusername/sales-forecast/internal/models"
	"golang.org/x/sync/errgroup"
)

// GridSearch scores every order of a grid by walk-forward RMSE on an
// internal train/test split and keeps the best one.
type GridSearch struct {
	Fitter        Fitter
	Lag           int
	TrainFraction float64
	// Workers bounds concurrent candidate evaluations; values below 1 mean 1.
	Workers int
	// CandidateTimeout bounds one candidate's evaluation; zero disables it.
	CandidateTimeout time.Duration
	Logger           logrus.FieldLogger
	Progress         io.Writer

	progressMu sync.Mutex
}

// SearchResult holds the outcome of a search. Results are in enumeration
// order regardless of the order in which workers finished.
type SearchResult struct {
	Best      *models.Order
	BestScore float64
	Results   []models.CandidateResult
}

// Viable returns the number of candidates that produced a score.
func (r *SearchResult) Viable() int {
	n := 0
	for _, c := range r.Results {
		if c.Viable() {
			n++
		}
	}
	return n
}

// Search evaluates every order of grid against values. Candidates whose fit
// fails or times out are skipped. When none succeeds the returned error wraps
// models.ErrNoViableCandidate and the result has Best == nil and
// BestScore == +Inf.
func (g *GridSearch) Search(ctx context.Context, values []float64, grid models.Grid) (*SearchResult, error) {
	if g.Fitter == nil {
		return nil, fmt.Errorf("fitter is required")
	}
	train, test, err := SplitFraction(values, g.TrainFraction)
	if err != nil {
		return nil, err
	}

	logger := fieldLogger(g.Logger)
	orders := grid.Orders()
	results := make([]models.CandidateResult, len(orders))
	started := time.Now()

	logger.WithFields(logrus.Fields{
		"candidates": len(orders),
		"train":      len(train),
		"test":       len(test),
		"workers":    max(g.Workers, 1),
	}).Info("Starting grid search")

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(max(g.Workers, 1))
	for i, order := range orders {
		i, order := i, order
		eg.Go(func() error {
			result, err := g.evaluateCandidate(egCtx, i, order, train, test)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		metrics.RecordSearchRun("failure", time.Since(started).Seconds())
		return nil, err
	}

	res := &SearchResult{BestScore: math.Inf(1), Results: results}
	for _, c := range results {
		if c.Viable() && c.RMSE < res.BestScore {
			order := c.Order
			res.Best = &order
			res.BestScore = c.RMSE
		}
	}

	if res.Best == nil {
		metrics.RecordSearchRun("exhausted", time.Since(started).Seconds())
		return res, fmt.Errorf("%w: all %d candidates failed", models.ErrNoViableCandidate, len(orders))
	}

	metrics.RecordSearchRun("success", time.Since(started).Seconds())
	metrics.UpdateBestRMSE(res.BestScore)
	logger.WithFields(logrus.Fields{
		"order":  res.Best.String(),
		"rmse":   res.BestScore,
		"viable": res.Viable(),
	}).Info("Grid search complete")
	return res, nil
}

// evaluateCandidate returns a result for a candidate that succeeded or failed
// to fit, and an error only for conditions that abort the whole search.
func (g *GridSearch) evaluateCandidate(ctx context.Context, index int, order models.Order, train, test []float64) (models.CandidateResult, error) {
	candidateCtx := ctx
	if g.CandidateTimeout > 0 {
		var cancel context.CancelFunc
		candidateCtx, cancel = context.WithTimeout(ctx, g.CandidateTimeout)
		defer cancel()
	}

	wf := &WalkForward{Fitter: g.Fitter, Lag: g.Lag, Logger: g.Logger}
	eval, err := wf.Evaluate(candidateCtx, train, test, order)

	result := models.CandidateResult{Index: index, Order: order, RMSE: math.Inf(1)}
	logger := fieldLogger(g.Logger).WithFields(logrus.Fields{
		"candidate": index,
		"order":     order.String(),
	})

	switch {
	case err == nil && !math.IsNaN(eval.RMSE) && !math.IsInf(eval.RMSE, 0):
		result.Status = models.CandidateSucceeded
		result.RMSE = eval.RMSE
		logger.WithField("rmse", eval.RMSE).Info("Candidate evaluated")
		g.printf("ARIMA%s RMSE=%.3f\n", order, eval.RMSE)
	case err == nil:
		result.Status = models.CandidateFailed
		result.Err = &models.ModelFitError{Order: order, Step: -1, Err: fmt.Errorf("non-finite RMSE %v", eval.RMSE)}
		logger.WithError(result.Err).Warn("Skipping candidate")
	case ctx.Err() != nil:
		return result, ctx.Err()
	case errors.Is(err, context.DeadlineExceeded):
		result.Status = models.CandidateTimedOut
		result.Err = &models.ModelFitError{Order: order, Step: -1, Err: fmt.Errorf("timed out after %s: %w", g.CandidateTimeout, err)}
		logger.WithError(result.Err).Warn("Skipping candidate")
	case errors.Is(err, models.ErrModelFit):
		result.Status = models.CandidateFailed
		result.Err = err
		logger.WithError(err).Warn("Skipping candidate")
	default:
		return result, fmt.Errorf("evaluate ARIMA%s: %w", order, err)
	}

	metrics.RecordCandidate(string(result.Status))
	return result, nil
}

func (g *GridSearch) printf(format string, args ...interface{}) {
	if g.Progress == nil {
		return
	}
	g.progressMu.Lock()
	defer g.progressMu.Unlock()
	fmt.Fprintf(g.Progress, format, args...)
}
