// Copyright 2024 The motorsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pi implements a discrete-time PI controller with symmetric
// anti-windup saturation, used at every stage of the cascade simulator's
// position/velocity/current control stack.
package pi

// Controller is a discrete-time PI controller with anti-windup.
//
// The control law is u = -Kp·(e + Ki·I), acting on e = measured - target:
// note the minus sign, which means a positive error produces a negative
// (restoring) command. Callers feeding this controller must form e in that
// convention or both stages of a cascade will invert.
type Controller struct {
	Kp          float64 // proportional gain
	Ki          float64 // integral gain
	IntegralMax float64 // anti-windup bound on |Ki * integral|

	integral float64 // accumulated error integral
}

// New builds a PI controller with the given gains and anti-windup bound.
func New(kp, ki, integralMax float64) *Controller {
	return &Controller{Kp: kp, Ki: ki, IntegralMax: integralMax}
}

// ResetIntegral sets the accumulated integral to v (default zero).
func (c *Controller) ResetIntegral(v float64) {
	c.integral = v
}

// Compute advances the controller's integral by one step of length dt given
// error e, and returns the control output. After every call,
// |Ki * integral| <= IntegralMax.
func (c *Controller) Compute(e, dt float64) float64 {
	if c.Ki > 1e-10 {
		bound := c.IntegralMax / c.Ki
		c.integral = clamp(c.integral+dt*e, -bound, bound)
	}
	return -c.Kp * (e + c.Ki*c.integral)
}

// VectorController applies the scalar control law componentwise over a 2-axis
// error (d, q), sharing a single two-dimensional integral state across both
// axes — used by the cascade simulator's inner current loop, which drives a
// (d, q) voltage target from a (d, q) current error with one controller.
type VectorController struct {
	Kp          float64
	Ki          float64
	IntegralMax float64

	integral [2]float64
}

// NewVector builds a two-axis PI controller sharing gains and anti-windup
// bound across both axes.
func NewVector(kp, ki, integralMax float64) *VectorController {
	return &VectorController{Kp: kp, Ki: ki, IntegralMax: integralMax}
}

// ResetIntegral sets both axes of the accumulated integral to v (default
// zero).
func (c *VectorController) ResetIntegral(v float64) {
	c.integral[0] = v
	c.integral[1] = v
}

// Compute advances both axes' integrals by one step of length dt given the
// 2-vector error e = [ed, eq], and returns the 2-vector control output.
func (c *VectorController) Compute(e [2]float64, dt float64) [2]float64 {
	var u [2]float64
	for i := 0; i < 2; i++ {
		if c.Ki > 1e-10 {
			bound := c.IntegralMax / c.Ki
			c.integral[i] = clamp(c.integral[i]+dt*e[i], -bound, bound)
		}
		u[i] = -c.Kp * (e[i] + c.Ki*c.integral[i])
	}
	return u
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
