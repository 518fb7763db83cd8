// Package ode provides the simulation primitives shared by the cell
// models and the polarization sweep:
//
//   - [State]: vector of state variables
//   - [System]: ODE right-hand side (dy/dt = f(t, y))
//   - [Integrator] / [AdaptiveIntegrator]: numerical steppers
//   - [Solver]: runs one initial-value problem to its horizon
//
// # Example
//
//	sys := cell.NewStack(cell.DefaultParams())
//	solver := ode.New(sys, integrators.NewRK45())
//	result, _ := solver.Run(ctx, x0, ode.DefaultConfig())
//
// # Thread Safety
//
// Solver instances are NOT thread-safe; use one per goroutine.
package ode
