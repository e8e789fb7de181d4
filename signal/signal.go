// Copyright 2024 The motorsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package signal implements time-parametrised scalar reference signals —
// constant, sine, square, and triangle — each exposing a value and a
// derivative at a given time. This is a closed set of variants, so a single
// tagged struct with an exhaustive switch is used rather than an open
// interface hierarchy (see gofem's mdl/generic registry for the style this
// follows when a set is instead open-ended).
package signal

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Kind names the signal variant.
type Kind int

const (
	Constant Kind = iota
	Sine
	Square
	Triangle
)

// kindNames maps kind names to Kind, mirroring inp.FuncsData.Get's
// name-to-function lookup.
var kindNames = map[string]Kind{
	"constant": Constant,
	"sine":     Sine,
	"square":   Square,
	"triangle": Triangle,
}

// Signal is a value-with-derivative oracle parametrised by frequency,
// phase, amplitude, and offset.
type Signal struct {
	kind Kind
	f    float64 // frequency, Hz
	phi  float64 // phase, rad
	A    float64 // amplitude
	c    float64 // offset
}

// New builds a Signal of the given kind name ("constant", "sine", "square",
// "triangle") with frequency f [Hz], phase phi [rad], amplitude A, and
// offset c.
func New(kindName string, f, phi, A, c float64) (*Signal, error) {
	k, ok := kindNames[kindName]
	if !ok {
		return nil, chk.Err("signal kind %q is not available; options are \"constant\", \"sine\", \"square\", \"triangle\"", kindName)
	}
	return &Signal{kind: k, f: f, phi: phi, A: A, c: c}, nil
}

// NewConstant is a convenience constructor for a pure offset signal, used as
// the default value of optional signal inputs (e.g. zero load torque).
func NewConstant(c float64) *Signal {
	return &Signal{kind: Constant, c: c}
}

// Value returns the signal's value at time t.
func (s *Signal) Value(t float64) float64 {
	switch s.kind {
	case Constant:
		return s.c
	case Sine:
		w := 2 * math.Pi * s.f
		return s.c + s.A*math.Sin(w*t+s.phi)
	case Square:
		w := 2 * math.Pi * s.f
		return s.c + s.A*(sign(math.Sin(w*t+s.phi))/2+0.5)
	case Triangle:
		x := s.f*t + s.phi/(2*math.Pi)
		return s.c + s.A*2*math.Abs(x-math.Floor(x+0.5))
	}
	chk.Panic("unreachable signal kind %v", s.kind)
	return 0
}

// Derivative returns the signal's time derivative at time t.
func (s *Signal) Derivative(t float64) float64 {
	switch s.kind {
	case Constant:
		return 0
	case Sine:
		w := 2 * math.Pi * s.f
		return s.A * w * math.Cos(w*t+s.phi)
	case Square:
		return 0 // derivative is zero almost everywhere
	case Triangle:
		// a square wave of amplitude 4A, offset -2A, at the same (f, phi).
		sq := &Signal{kind: Square, f: s.f, phi: s.phi, A: 4 * s.A, c: -2 * s.A}
		return sq.Value(t)
	}
	chk.Panic("unreachable signal kind %v", s.kind)
	return 0
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
