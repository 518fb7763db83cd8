// Package polarization builds polarization curves by continuation:
// sweeping the external current and chaining each solve's terminal state
// into the next segment's initial condition.
package polarization
