// Package study runs families of frame analyses: load or section sweeps
// and grid searches over scale factors. Cases run concurrently and report
// the scalar metrics of each solved frame.
package study
