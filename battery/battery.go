// Copyright 2024 The motorsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package battery models a battery as an ideal voltage source in series
// with an internal resistance, answering the same kind of "what does the
// envelope look like" query the motor package answers for torque/speed:
// given a power draw, what terminal voltage and current does the battery
// actually deliver.
package battery

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Battery holds the two constants of the series R-U model.
type Battery struct {
	Ubat float64 // open-circuit (no-load) voltage, V
	Rbat float64 // internal series resistance, Ω
}

// New builds a Battery model. Both parameters must be strictly positive.
func New(Ubat, Rbat float64) (*Battery, error) {
	if Ubat <= 0 {
		return nil, chk.Err("battery open-circuit voltage must be positive; got %v", Ubat)
	}
	if Rbat <= 0 {
		return nil, chk.Err("battery internal resistance must be positive; got %v", Rbat)
	}
	return &Battery{Ubat: Ubat, Rbat: Rbat}, nil
}

// State returns the battery's terminal voltage and current when delivering
// power P, solving U_bat·I - R_bat·I² = P for its smaller, physically
// realizable non-negative current root (the one reached continuously from
// I=0 as P ramps up from zero).
//
// It fails if P exceeds the maximum power the battery can deliver
// (U_bat²/(4·R_bat), where the discriminant of the quadratic vanishes).
func (b *Battery) State(P float64) (U, I float64, err error) {
	// Rbat*I^2 - Ubat*I + P = 0
	a := b.Rbat
	Δ := b.Ubat*b.Ubat - 4*a*P
	if Δ < 0 {
		return 0, 0, chk.Err("requested power %.6g W exceeds what this battery can deliver (max %.6g W)",
			P, b.Ubat*b.Ubat/(4*b.Rbat))
	}
	I = (b.Ubat - math.Sqrt(Δ)) / (2 * a)
	U = b.Ubat - b.Rbat*I
	return U, I, nil
}
