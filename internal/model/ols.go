// Package model fits ordinary least squares regressions over count tables.
package model

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/cividata/nyc-shooting-report/internal/aggregate"
	"github.com/cividata/nyc-shooting-report/internal/domain"
)

// Coefficient is one estimated regression term.
type Coefficient struct {
	Name   string
	Value  float64
	StdErr float64
}

// Fit summarizes an OLS regression.
type Fit struct {
	Name         string
	Coefficients []Coefficient
	RSquared     float64
	AdjRSquared  float64
	FStatistic   float64
	N            int
}

// Coef looks up a coefficient by name.
func (f Fit) Coef(name string) (Coefficient, bool) {
	for _, c := range f.Coefficients {
		if c.Name == name {
			return c, true
		}
	}
	return Coefficient{}, false
}

// FitYearTrend fits count ~ year over a year→count table.
func FitYearTrend(table aggregate.CountTable) (Fit, error) {
	const name = "count ~ year"

	years, counts, err := yearCounts(table, name)
	if err != nil {
		return Fit{}, err
	}

	n := len(years)
	x := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := range years {
		x.Set(i, 0, 1)
		x.Set(i, 1, years[i])
		y[i] = counts[i]
	}

	return ols(name, x, y, []string{"Intercept", "year"})
}

// FitYearBorough fits count ~ year + borough over a (year,borough)→count
// table. Boroughs are one-hot encoded with the alphabetically first distinct
// borough as the reference level.
func FitYearBorough(table aggregate.CountTable) (Fit, error) {
	const name = "count ~ year + borough"

	if len(table.Dimensions) != 2 {
		return Fit{}, &domain.ModelFitError{Model: name, Reason: "expected a (year, borough) count table"}
	}

	boroughSet := make(map[string]bool)
	for _, row := range table.Rows {
		boroughSet[row.Keys[1]] = true
	}
	boroughs := make([]string, 0, len(boroughSet))
	for b := range boroughSet {
		boroughs = append(boroughs, b)
	}
	sort.Strings(boroughs)
	if len(boroughs) == 0 {
		return Fit{}, &domain.ModelFitError{Model: name, Reason: "empty count table"}
	}

	// Dummy columns for every borough except the reference level.
	dummies := boroughs[1:]
	p := 2 + len(dummies)
	n := len(table.Rows)
	if n < p {
		return Fit{}, &domain.ModelFitError{Model: name, Reason: "fewer rows than free parameters"}
	}

	x := mat.NewDense(n, p, nil)
	y := make([]float64, n)
	for i, row := range table.Rows {
		year, err := strconv.Atoi(row.Keys[0])
		if err != nil {
			return Fit{}, &domain.ModelFitError{Model: name, Reason: "non-numeric year key " + row.Keys[0]}
		}
		x.Set(i, 0, 1)
		x.Set(i, 1, float64(year))
		for j, b := range dummies {
			if row.Keys[1] == b {
				x.Set(i, 2+j, 1)
			}
		}
		y[i] = float64(row.Count)
	}

	names := make([]string, 0, p)
	names = append(names, "Intercept", "year")
	for _, b := range dummies {
		names = append(names, "borough="+b)
	}

	return ols(name, x, y, names)
}

// yearCounts extracts (year, count) pairs from a single-dimension year table.
func yearCounts(table aggregate.CountTable, model string) ([]float64, []float64, error) {
	if len(table.Dimensions) != 1 {
		return nil, nil, &domain.ModelFitError{Model: model, Reason: "expected a year count table"}
	}
	if len(table.Rows) < 2 {
		return nil, nil, &domain.ModelFitError{Model: model, Reason: "fewer rows than free parameters"}
	}

	years := make([]float64, len(table.Rows))
	counts := make([]float64, len(table.Rows))
	for i, row := range table.Rows {
		year, err := strconv.Atoi(row.Keys[0])
		if err != nil {
			return nil, nil, &domain.ModelFitError{Model: model, Reason: "non-numeric year key " + row.Keys[0]}
		}
		years[i] = float64(year)
		counts[i] = float64(row.Count)
	}
	return years, counts, nil
}

// ols solves y = Xβ by QR decomposition and derives the usual summary
// statistics. With zero residual degrees of freedom the standard errors are
// zero and the F statistic is +Inf; callers see a perfect fit rather than an
// error.
func ols(name string, x *mat.Dense, y []float64, names []string) (Fit, error) {
	n, p := x.Dims()
	if n < p {
		return Fit{}, &domain.ModelFitError{Model: name, Reason: "fewer rows than free parameters"}
	}

	var qr mat.QR
	qr.Factorize(x)

	yVec := mat.NewVecDense(n, y)
	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, yVec); err != nil {
		return Fit{}, &domain.ModelFitError{Model: name, Reason: "singular design matrix"}
	}

	// Residual and total sums of squares.
	var fitted mat.VecDense
	fitted.MulVec(x, &beta)
	rss := 0.0
	for i := 0; i < n; i++ {
		r := y[i] - fitted.AtVec(i)
		rss += r * r
	}
	mean := stat.Mean(y, nil)
	tss := 0.0
	for i := 0; i < n; i++ {
		d := y[i] - mean
		tss += d * d
	}

	df := n - p
	sigma2 := 0.0
	if df > 0 {
		sigma2 = rss / float64(df)
	}

	// Coefficient covariance: sigma^2 (XᵀX)⁻¹.
	var xtx, xtxInv mat.Dense
	xtx.Mul(x.T(), x)
	if err := xtxInv.Inverse(&xtx); err != nil {
		return Fit{}, &domain.ModelFitError{Model: name, Reason: "singular design matrix"}
	}

	coefs := make([]Coefficient, p)
	for j := 0; j < p; j++ {
		coefs[j] = Coefficient{
			Name:   names[j],
			Value:  beta.AtVec(j),
			StdErr: math.Sqrt(sigma2 * xtxInv.At(j, j)),
		}
	}

	fit := Fit{Name: name, Coefficients: coefs, N: n}
	if tss > 0 {
		fit.RSquared = 1 - rss/tss
	}
	if df > 0 && n > 1 {
		fit.AdjRSquared = 1 - (1-fit.RSquared)*float64(n-1)/float64(df)
	}
	switch {
	case rss == 0:
		fit.FStatistic = math.Inf(1)
	case df > 0 && p > 1:
		fit.FStatistic = ((tss - rss) / float64(p-1)) / (rss / float64(df))
	}

	return fit, nil
}
