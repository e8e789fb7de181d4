// Copyright 2024 The motorsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xform implements the Clarke-Park forward/inverse transforms and
// space-vector PWM duty resolution used to move between three-phase
// stationary quantities and the rotor-synchronous (d, q) frame.
//
// All transforms use the amplitude-invariant Clarke convention.
package xform

import (
	"math"

	"github.com/cpmech/gosl/la"
)

var (
	sqrt3 = math.Sqrt(3)

	// clarkeC is the amplitude-invariant 3→2 Clarke matrix (2/3)·[[1,-1/2,-1/2],[0,√3/2,-√3/2]].
	clarkeC = la.MatAlloc(2, 3)

	// clarkeCinv is the inverse Clarke matrix 1.5·[[2/3,0],[-1/3,√3/3],[-1/3,-√3/3]].
	clarkeCinv = la.MatAlloc(3, 2)
)

func init() {
	clarkeC[0][0], clarkeC[0][1], clarkeC[0][2] = 2.0/3.0, -1.0/3.0, -1.0/3.0
	clarkeC[1][0], clarkeC[1][1], clarkeC[1][2] = 0, sqrt3/3.0, -sqrt3/3.0

	clarkeCinv[0][0], clarkeCinv[0][1] = 1.0, 0
	clarkeCinv[1][0], clarkeCinv[1][1] = -0.5, sqrt3 / 2.0
	clarkeCinv[2][0], clarkeCinv[2][1] = -0.5, -sqrt3 / 2.0
}

// ClarkeParkForward returns the rotor-frame (d, q) quantities corresponding
// to the three-phase quantities iphase, at electrical angle thetaEl.
//
//	idq = P(thetaEl) · C · iphase
func ClarkeParkForward(thetaEl float64, iphase [3]float64) [2]float64 {
	var ab [2]float64
	for r := 0; r < 2; r++ {
		ab[r] = clarkeC[r][0]*iphase[0] + clarkeC[r][1]*iphase[1] + clarkeC[r][2]*iphase[2]
	}
	cos, sin := math.Cos(thetaEl), math.Sin(thetaEl)
	return [2]float64{
		cos*ab[0] + sin*ab[1],
		-sin*ab[0] + cos*ab[1],
	}
}

// ClarkeParkInverse returns the three-phase quantities corresponding to
// rotor-frame (d, q) quantities Vdq, at electrical angle thetaEl.
//
//	Vphase = Cinv · P(thetaEl)^T · Vdq
func ClarkeParkInverse(thetaEl float64, Vdq [2]float64) [3]float64 {
	cos, sin := math.Cos(thetaEl), math.Sin(thetaEl)
	ab := [2]float64{
		cos*Vdq[0] - sin*Vdq[1],
		sin*Vdq[0] + cos*Vdq[1],
	}
	var Vphase [3]float64
	for r := 0; r < 3; r++ {
		Vphase[r] = clarkeCinv[r][0]*ab[0] + clarkeCinv[r][1]*ab[1]
	}
	return Vphase
}

// SVPWM resolves a desired (d, q) voltage, at electrical angle thetaEl, bus
// voltage Vdc, into three balanced phase voltages via space-vector PWM,
// clipping the requested magnitude into the inverter's inscribed hexagon.
func SVPWM(thetaEl float64, Vdq [2]float64, Vdc float64) [3]float64 {
	norm := math.Hypot(Vdq[0], Vdq[1])
	Uout := math.Min(1, sqrt3*norm/Vdc)

	angle := math.Mod(thetaEl+math.Atan2(Vdq[1], Vdq[0]), 2*math.Pi)
	if angle < 0 {
		angle += 2 * math.Pi
	}

	sector := math.Floor(angle/(math.Pi/3)) + 1

	T1 := sqrt3 * math.Sin(sector*math.Pi/3-angle) * Uout
	T2 := sqrt3 * math.Sin(angle-(sector-1)*math.Pi/3) * Uout
	T0 := 1 - T1 - T2

	var Ta, Tb, Tc float64
	switch int(sector) {
	case 1:
		Ta, Tb, Tc = T1+T2+T0/2, T2+T0/2, T0/2
	case 2:
		Ta, Tb, Tc = T1+T0/2, T1+T2+T0/2, T0/2
	case 3:
		Ta, Tb, Tc = T0/2, T1+T2+T0/2, T2+T0/2
	case 4:
		Ta, Tb, Tc = T0/2, T1+T0/2, T1+T2+T0/2
	case 5:
		Ta, Tb, Tc = T2+T0/2, T0/2, T1+T2+T0/2
	default: // sector 6
		Ta, Tb, Tc = T1+T2+T0/2, T0/2, T1+T0/2
	}

	avg := (Ta + Tb + Tc) / 3
	return [3]float64{
		(Ta - avg) * Vdc / sqrt3,
		(Tb - avg) * Vdc / sqrt3,
		(Tc - avg) * Vdc / sqrt3,
	}
}
