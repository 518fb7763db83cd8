// Package cell provides the electrochemical models simulated by fcell.
//
// Each model implements the [ode.System] interface, defining the
// differential equations governing the double-layer potentials:
//
//   - [Stack]: full cell, anode and cathode interfaces
//   - [Electrode]: single-interface half cell
//
// Charge-transfer currents follow Butler-Volmer kinetics ([Faradaic]).
// Both models implement [ode.Configurable] for runtime parameter
// adjustment in the live view and the fitter.
package cell
