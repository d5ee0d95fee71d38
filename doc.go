// Package donorml analyzes the UCI blood transfusion dataset: it loads the
// donor records, balances and splits them, log-transforms the donated
// volume, searches a small space of preprocessing + logistic regression
// pipelines with a population-based algorithm, and compares the winner
// against a fixed logistic regression baseline by held-out ROC AUC.
//
// The library packages mirror the stages of that flow:
//
//   - dataset: CSV loading, schema validation and dataframe inspection
//   - preprocessing: log transform and feature scaling
//   - model_selection: stratified splitting and cross-validation
//   - linear_model: gradient-descent logistic regression
//   - automl: the genetic pipeline search
//   - metrics: ROC AUC, ROC curves and accuracy
//   - report: ranked comparisons, variance tables and ROC plots
//
// The command line entry point lives in cmd/donorml.
//
// All randomized stages accept an explicit seed so a full run is
// reproducible end to end.
package donorml
