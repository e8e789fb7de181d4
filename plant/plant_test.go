// Copyright 2024 The motorsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plant

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/motorsim/motor"
)

func referenceMotor(tst *testing.T) *motor.Motor {
	kv := 60.0
	keP2p := 60.0 / (2 * math.Pi * kv)
	ke := keP2p / math.Sqrt(3)
	m, err := motor.New(motor.Params{
		N: 28, R: 0.165, L: 0.095e-3, Ke: ke,
		IqMax: 8, IqNominal: 4, U: 24, Rho: 6,
	})
	if err != nil {
		tst.Fatalf("motor construction failed: %v\n", err)
	}
	return m
}

func Test_plant01_zero_input_zero_motion(tst *testing.T) {
	chk.PrintTitle("plant01. zero state, zero voltage, zero load: no motion")
	m := referenceMotor(tst)
	p := New(m, 0.1, 0.2, 1e-5, func(float64) float64 { return 0 })
	for i := 0; i < 10; i++ {
		p.Step([2]float64{0, 0})
	}
	chk.Scalar(tst, "theta", 1e-15, p.State.Theta, 0)
	chk.Scalar(tst, "dtheta", 1e-15, p.State.DTheta, 0)
}

// invariant 8: motion integration consistency.
func Test_plant02_motion_consistency(tst *testing.T) {
	chk.PrintTitle("plant02. (theta[i]-theta[i-1])*f_ctrl approx dtheta[i] after settling")
	m := referenceMotor(tst)
	fctrl := 20000.0
	dt := 1.0 / fctrl
	p := New(m, 0.1, 0.2, dt, func(float64) float64 { return 0 })

	// drive with a small constant quadrature voltage to get some motion.
	var prevTheta float64
	for i := 0; i < 20000; i++ {
		p.Step([2]float64{0, 0.5})
		if i > 15000 {
			v := (p.State.Theta - prevTheta) * fctrl
			if math.Abs(v-p.State.DTheta) > 1e-3 {
				tst.Errorf("step %d: (dtheta via finite diff) %v vs dtheta %v\n", i, v, p.State.DTheta)
			}
		}
		prevTheta = p.State.Theta
	}
}

func Test_plant03_stability_guard_not_tripped_by_zero(tst *testing.T) {
	chk.PrintTitle("plant03. plant alone does not diverge under zero excitation")
	m := referenceMotor(tst)
	p := New(m, 0.1, 0.2, 1e-5, func(float64) float64 { return 0 })
	for i := 0; i < 1000; i++ {
		p.Step([2]float64{0, 0})
		for _, i3 := range p.State.Iphase {
			if math.Abs(i3) > 10*m.IqMax() {
				tst.Errorf("unexpected divergence at step %d\n", i)
			}
		}
	}
}
