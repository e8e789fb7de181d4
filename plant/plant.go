// Copyright 2024 The motorsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plant integrates the coupled electromechanical ODE of a PMSM
// rotor plus mechanical load: five states (mechanical angle, mechanical
// angular velocity, three stator phase currents) stepped forward by
// explicit Euler. Dynamics and integration are kept as separate entry
// points so the dynamics function can be exercised independently of the
// stepping scheme, mirroring how ana.ColumnFluidPressure in the FEM
// lineage separates the governing relation from the machinery that
// advances it.
package plant

import (
	"math"

	"github.com/cpmech/motorsim/motor"
	"github.com/cpmech/motorsim/xform"
)

// State is the plant's five-element state vector:
// [theta, dtheta, ia, ib, ic].
type State struct {
	Theta  float64 // mechanical rotor angle, rad (motor side)
	DTheta float64 // mechanical angular velocity, rad/s
	Iphase [3]float64
}

// Plant integrates the motor+load ODE under an explicit-Euler scheme.
type Plant struct {
	Motor    *motor.Motor
	Inertia  float64            // I, mechanical inertia
	Friction float64            // nu, viscous friction
	Dt       float64            // integration step, s
	LoadTau  func(t float64) float64 // resistive load torque signal

	State State
	T     float64
}

// New builds a Plant starting from zero state at t=0.
func New(m *motor.Motor, inertia, friction, dt float64, loadTau func(t float64) float64) *Plant {
	return &Plant{Motor: m, Inertia: inertia, Friction: friction, Dt: dt, LoadTau: loadTau}
}

func bemf(thetaEl float64) [3]float64 {
	return [3]float64{
		math.Sin(thetaEl),
		math.Sin(thetaEl - 2*math.Pi/3),
		math.Sin(thetaEl + 2*math.Pi/3),
	}
}

// Dynamics evaluates dx/dt = f(t, x, Vphase) for the current motor
// parameters, returning the derivative of each state component.
func (p *Plant) Dynamics(t float64, x State, Vphase [3]float64) (dState State) {
	thetaEl := float64(p.Motor.NumPolePairs()) * p.Motor.ReductionRatio() * x.Theta
	idq := xform.ClarkeParkForward(thetaEl, x.Iphase)

	tauM := p.Motor.KtQArt()*idq[1] - p.LoadTau(t)
	ddtheta := (tauM - p.Friction*x.DTheta) / p.Inertia

	b := bemf(thetaEl)
	R, L, ke, rho := p.Motor.Resistance(), p.Motor.Inductance(), p.Motor.Ke(), p.Motor.ReductionRatio()
	var dI [3]float64
	for i := 0; i < 3; i++ {
		dI[i] = (-R*x.Iphase[i] + ke*rho*x.DTheta*b[i] + Vphase[i]) / L
	}

	dState.Theta = x.DTheta
	dState.DTheta = ddtheta
	dState.Iphase = dI
	return
}

// Step computes the SVPWM phase voltage for Vdq at the plant's current
// angle, then advances the state by one explicit-Euler step of length Dt,
// returning the phase voltage actually applied (for recording by the
// caller).
func (p *Plant) Step(Vdq [2]float64) [3]float64 {
	thetaEl := float64(p.Motor.NumPolePairs()) * p.Motor.ReductionRatio() * p.State.Theta
	Vphase := xform.SVPWM(thetaEl, Vdq, p.Motor.BusVoltage())

	d := p.Dynamics(p.T, p.State, Vphase)
	p.State.Theta += p.Dt * d.Theta
	p.State.DTheta += p.Dt * d.DTheta
	for i := 0; i < 3; i++ {
		p.State.Iphase[i] += p.Dt * d.Iphase[i]
	}
	p.T += p.Dt

	return Vphase
}
