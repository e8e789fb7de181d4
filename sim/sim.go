// Copyright 2024 The motorsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sim orchestrates the cascaded position/velocity/current PI
// control stack driving three-phase voltages through space-vector PWM into
// the plant integrator, recording the full trajectory. This mirrors the
// orchestrator role mdl/solid.Driver plays over a constitutive model in the
// FEM lineage: a thin run loop around already-independent building blocks.
package sim

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/motorsim/motor"
	"github.com/cpmech/motorsim/pi"
	"github.com/cpmech/motorsim/plant"
	"github.com/cpmech/motorsim/signal"
	"github.com/cpmech/motorsim/xform"
)

// ControlType selects which reference signal the cascade tracks.
type ControlType int

const (
	Position ControlType = iota
	Velocity
	Current
)

// Result holds the full recorded trajectory of a simulation run. All slices
// have the same length N = ceil(duration*f_ctrl) + 1; index 0 is the
// initial condition.
type Result struct {
	Time       []float64
	Theta      []float64
	DTheta     []float64
	PosTarget  []float64
	VelTarget  []float64
	LoadTorque []float64

	Iphase      [3][]float64
	Vphase      [3][]float64
	Idq         [2][]float64
	IdqTarget   [2][]float64
	Vdq         [2][]float64
	VdqTarget   [2][]float64

	Motor       motor.Params // snapshot of the motor's fundamentals at entry
	ControlType ControlType
}

// Config holds every input to Simulate.
type Config struct {
	Motor       *motor.Motor
	ControlType ControlType
	Target      *signal.Signal

	Duration float64
	Inertia  float64
	Friction float64

	PositionPI *pi.Controller
	VelocityPI *pi.Controller
	CurrentPI  *pi.VectorController

	ControlLoopFrequency  float64 // f_ctrl, Hz
	CommutationFrequency  float64 // reserved for future sub-stepping; unused

	DirectCurrentTarget *signal.Signal // optional; defaults to constant 0
	LoadTorque          *signal.Signal // optional; defaults to constant 0
}

// Simulate time-steps the closed-loop cascade over cfg.Duration and returns
// the full recorded trajectory, or an error if the simulation diverges
// (§7: any |iphase| exceeding 10x iq_max aborts with a diagnostic).
func Simulate(cfg Config) (*Result, error) {

	cfg.PositionPI.ResetIntegral(0)
	cfg.VelocityPI.ResetIntegral(0)
	cfg.CurrentPI.ResetIntegral(0)

	directTarget := cfg.DirectCurrentTarget
	if directTarget == nil {
		directTarget = signal.NewConstant(0)
	}
	loadTorque := cfg.LoadTorque
	if loadTorque == nil {
		loadTorque = signal.NewConstant(0)
	}

	dt := 1.0 / cfg.ControlLoopFrequency
	n := int(math.Ceil(cfg.Duration*cfg.ControlLoopFrequency)) + 1

	res := &Result{
		Time:        make([]float64, n),
		Theta:       make([]float64, n),
		DTheta:      make([]float64, n),
		PosTarget:   make([]float64, n),
		VelTarget:   make([]float64, n),
		LoadTorque:  make([]float64, n),
		Motor:       cfg.Motor.Snapshot(),
		ControlType: cfg.ControlType,
	}
	for i := 0; i < 3; i++ {
		res.Iphase[i] = make([]float64, n)
		res.Vphase[i] = make([]float64, n)
	}
	for i := 0; i < 2; i++ {
		res.Idq[i] = make([]float64, n)
		res.IdqTarget[i] = make([]float64, n)
		res.Vdq[i] = make([]float64, n)
		res.VdqTarget[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		res.Time[i] = float64(i) * dt
	}

	switch cfg.ControlType {
	case Position:
		res.PosTarget[0] = cfg.Target.Value(0)
		res.VelTarget[0] = cfg.Target.Derivative(0)
	case Velocity:
		res.VelTarget[0] = cfg.Target.Value(0)
	case Current:
		res.IdqTarget[1][0] = cfg.Target.Value(0)
	}
	res.IdqTarget[0][0] = directTarget.Value(0)
	res.LoadTorque[0] = loadTorque.Value(0)

	p := plant.New(cfg.Motor, cfg.Inertia, cfg.Friction, dt, loadTorque.Value)

	iqMax := cfg.Motor.IqMax()

	for i := 1; i < n; i++ {
		t := res.Time[i]

		idqTarget := [2]float64{directTarget.Value(t), 0}
		var posTarget, velTarget float64

		switch cfg.ControlType {
		case Position:
			posTarget = cfg.Target.Value(t)
			velTarget = cfg.Target.Derivative(t)
			velCmd := cfg.PositionPI.Compute(res.Theta[i-1]-posTarget, dt)
			idqTarget[1] = cfg.VelocityPI.Compute(res.DTheta[i-1]-velCmd-velTarget, dt)
		case Velocity:
			velTarget = cfg.Target.Value(t)
			idqTarget[1] = cfg.VelocityPI.Compute(res.DTheta[i-1]-velTarget, dt)
		case Current:
			idqTarget[1] = cfg.Target.Value(t)
		}

		// saturate with quadrature priority
		idqTarget[1] = clamp(idqTarget[1], -iqMax, iqMax)
		idMax := math.Sqrt(math.Max(0, iqMax*iqMax-idqTarget[1]*idqTarget[1]))
		idqTarget[0] = clamp(idqTarget[0], -idMax, idMax)

		idqMeasured := [2]float64{res.Idq[0][i-1], res.Idq[1][i-1]}
		err := [2]float64{idqMeasured[0] - idqTarget[0], idqMeasured[1] - idqTarget[1]}
		VdqTarget := cfg.CurrentPI.Compute(err, dt)

		Vphase := p.Step(VdqTarget)

		thetaEl := float64(cfg.Motor.NumPolePairs()) * cfg.Motor.ReductionRatio() * p.State.Theta
		idq := xform.ClarkeParkForward(thetaEl, p.State.Iphase)
		Vdq := xform.ClarkeParkForward(thetaEl, Vphase)

		res.Theta[i] = p.State.Theta
		res.DTheta[i] = p.State.DTheta
		for k := 0; k < 3; k++ {
			res.Iphase[k][i] = p.State.Iphase[k]
			res.Vphase[k][i] = Vphase[k]
		}
		for k := 0; k < 2; k++ {
			res.Idq[k][i] = idq[k]
			res.Vdq[k][i] = Vdq[k]
			res.IdqTarget[k][i] = idqTarget[k]
			res.VdqTarget[k][i] = VdqTarget[k]
		}
		res.PosTarget[i] = posTarget
		res.VelTarget[i] = velTarget
		res.LoadTorque[i] = loadTorque.Value(t)

		maxI := math.Max(math.Max(math.Abs(p.State.Iphase[0]), math.Abs(p.State.Iphase[1])), math.Abs(p.State.Iphase[2]))
		if maxI > 10*iqMax {
			return nil, chk.Err("excessive current detected (%.3g A > %.3g A); simulation is likely numerically unstable. "+
				"adjust controller gains or increase control frequency", maxI, 10*iqMax)
		}
	}

	return res, nil
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
