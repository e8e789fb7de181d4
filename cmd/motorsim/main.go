// Copyright 2024 The motorsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command motorsim is a small CLI driver over the motorsim core: it loads a
// motor library file, builds a reference signal from flags, runs one cascade
// simulation with fixed PI gains, and reports a compact summary. It is the
// module's only consumer of filesystem/CLI surface — the core packages
// never touch either.
package main

import (
	"flag"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/motorsim/motorlib"
	"github.com/cpmech/motorsim/pi"
	"github.com/cpmech/motorsim/signal"
	"github.com/cpmech/motorsim/sim"
)

func main() {

	defer func() {
		if err := recover(); err != nil {
			io.Pfred("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	libPath := flag.String("lib", "", "path to a motor library JSON file")
	motorName := flag.String("motor", "", "name of the motor within the library")
	mode := flag.String("mode", "velocity", "control mode: position, velocity, or current")
	sigKind := flag.String("signal", "sine", "reference signal kind: constant, sine, square, triangle")
	freq := flag.Float64("freq", 1.0, "reference signal frequency, Hz")
	phase := flag.Float64("phase", 0.0, "reference signal phase, rad")
	amp := flag.Float64("amp", 1.0, "reference signal amplitude")
	offset := flag.Float64("offset", 0.0, "reference signal offset")
	duration := flag.Float64("duration", 0.5, "simulation duration, s")
	inertia := flag.Float64("inertia", 0.1, "mechanical inertia, kg·m²")
	friction := flag.Float64("friction", 0.2, "viscous friction, Nm·s/rad")
	fctrl := flag.Float64("fctrl", 20000, "control loop frequency, Hz")
	flag.Parse()

	if *libPath == "" || *motorName == "" {
		chk.Panic("usage: motorsim -lib <library.json> -motor <name> [options]")
	}

	io.PfWhite("\nmotorsim -- PMSM physics engine and closed-loop simulator\n\n")

	lib, err := motorlib.Load(*libPath)
	if err != nil {
		chk.Panic("failed to load motor library: %v", err)
	}
	m, ok := lib[*motorName]
	if !ok {
		chk.Panic("motor %q not found in library %q", *motorName, *libPath)
	}

	target, err := signal.New(*sigKind, *freq, *phase, *amp, *offset)
	if err != nil {
		chk.Panic("%v", err)
	}

	var ct sim.ControlType
	switch *mode {
	case "position":
		ct = sim.Position
	case "velocity":
		ct = sim.Velocity
	case "current":
		ct = sim.Current
	default:
		chk.Panic("unknown control mode %q", *mode)
	}

	res, err := sim.Simulate(sim.Config{
		Motor:                m,
		ControlType:          ct,
		Target:               target,
		Duration:             *duration,
		Inertia:              *inertia,
		Friction:             *friction,
		PositionPI:           pi.New(10, 2, 10),
		VelocityPI:           pi.New(30, 5, 10),
		CurrentPI:            pi.NewVector(2.0, 500, 30),
		ControlLoopFrequency: *fctrl,
	})
	if err != nil {
		io.Pfred("simulation aborted: %v\n", err)
		os.Exit(1)
	}

	last := len(res.Time) - 1
	io.Pfgreen("motor: %s\n", *motorName)
	io.Pf("steps: %d, duration: %.4g s\n", len(res.Time), res.Time[last])
	io.Pf("final theta: %.6g rad, dtheta: %.6g rad/s\n", res.Theta[last], res.DTheta[last])
	io.Pf("final idq: [%.6g, %.6g] A\n", res.Idq[0][last], res.Idq[1][last])
}
