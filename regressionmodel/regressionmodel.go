// Package regressionmodel defines the contract a Regression neuron
// delegates its class decisions to. The simulator core only calls through
// this interface; concrete models (a fitted linear regressor, a lookup
// table, a wrapped external classifier) live outside this module, the same
// way dataset loading does (spec.md §6, "Non-goals").
package regressionmodel

// Model predicts a class label from an accumulated feature vector. Fit is
// optional: a Model that only ever serves a pre-trained predictor can make
// it a no-op.
type Model interface {
	Fit(features [][]float64, labels []string) error
	Predict(feature []float64) (label string, err error)
}
