// Package analysis estimates oscillation frequencies from recorded runs.
//
// A hanging mass oscillates at f = √(k/m)/2π. [DominantFrequency] recovers
// that frequency from a sampled column such as "250 g.y", which gives an
// independent check on the turning-point period the metrics package
// measures:
//
//	f, err := analysis.DominantFrequency(ys, dt)
//	period := 1 / f
package analysis
