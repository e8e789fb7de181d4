// Copyright 2024 The motorsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xform

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

// invariant 5: Clarke-Park round-trip for zero-sum phase quantities.
func Test_xform01_roundtrip(tst *testing.T) {
	chk.PrintTitle("xform01. Clarke-Park round trip")

	cases := []struct {
		theta  float64
		iphase [3]float64
	}{
		{0, [3]float64{1, -0.5, -0.5}},
		{1.234, [3]float64{2, -1, -1}},
		{-0.7, [3]float64{0.3, 0.2, -0.5}},
		{5.9, [3]float64{-1, 0.5, 0.5}},
	}
	for _, c := range cases {
		idq := ClarkeParkForward(c.theta, c.iphase)
		back := ClarkeParkInverse(c.theta, idq)
		chk.Vector(tst, "round trip", 1e-12, back[:], c.iphase[:])
	}
}

// invariant 6: SVPWM common-mode cancellation.
func Test_xform02_svpwm_common_mode(tst *testing.T) {
	chk.PrintTitle("xform02. SVPWM common-mode voltage is zero")

	Vdc := 24.0
	cases := []struct {
		theta float64
		Vdq   [2]float64
	}{
		{0, [2]float64{5, 2}},
		{2.1, [2]float64{-3, 4}},
		{math.Pi, [2]float64{0, 0}},
		{4.5, [2]float64{10, -10}},
	}
	for _, c := range cases {
		V := SVPWM(c.theta, c.Vdq, Vdc)
		sum := V[0] + V[1] + V[2]
		chk.Scalar(tst, "Va+Vb+Vc", 1e-12, sum, 0)
	}
}

func Test_xform03_svpwm_magnitude_clip(tst *testing.T) {
	chk.PrintTitle("xform03. SVPWM clips magnitude into the inscribed hexagon")

	Vdc := 24.0
	// a Vdq far beyond what Vdc can deliver must still produce a bounded,
	// finite, common-mode-free phase voltage.
	V := SVPWM(0.5, [2]float64{1000, 1000}, Vdc)
	for _, v := range V {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			tst.Errorf("SVPWM produced non-finite phase voltage: %v\n", V)
		}
	}
	sum := V[0] + V[1] + V[2]
	chk.Scalar(tst, "Va+Vb+Vc", 1e-9, sum, 0)
}
