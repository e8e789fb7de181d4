// Copyright 2024 The motorsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package motor

// The core envelope queries operate on a single scalar operating point.
// Plotting/GUI callers that want a vector of points (e.g. to sweep a
// torque/speed curve) use these elementwise adapters rather than having
// array broadcasting baked into the primary API.

// BroadcastMaxSpeedNoDeflux applies ComputeMaxSpeedNoDeflux elementwise.
func (m *Motor) BroadcastMaxSpeedNoDeflux(tau []float64) []float64 {
	out := make([]float64, len(tau))
	for i, t := range tau {
		out[i] = m.ComputeMaxSpeedNoDeflux(t)
	}
	return out
}

// BroadcastMaxSpeedDeflux applies ComputeMaxSpeedDeflux elementwise.
func (m *Motor) BroadcastMaxSpeedDeflux(tau []float64) []float64 {
	out := make([]float64, len(tau))
	for i, t := range tau {
		out[i] = m.ComputeMaxSpeedDeflux(t)
	}
	return out
}

// BroadcastThermalPower applies ComputeThermalPower elementwise over
// matching tau/w slices, which must have equal length.
func (m *Motor) BroadcastThermalPower(tau, w []float64, forceNoDeflux bool) []float64 {
	out := make([]float64, len(tau))
	for i := range tau {
		out[i] = m.ComputeThermalPower(tau[i], w[i], forceNoDeflux)
	}
	return out
}
