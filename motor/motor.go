// Copyright 2024 The motorsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package motor implements the PMSM motor model: fundamental parameters,
// their derived constants, and the torque/speed envelope queries (with and
// without field weakening), thermal power, and mechanical power.
package motor

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Motor holds the fundamental parameters of a permanent-magnet synchronous
// motor together with the constants derived from them. Use Update to change
// fundamentals. The fundamentals R, L and U are exported fields; writing them
// directly does not recompute the derived constants, only Update does. All
// other fields are unexported and read through accessors.
//
// No magnetic saturation is modelled and the salience ratio is assumed to be
// one (Lq = Ld = L).
type Motor struct {

	// fundamentals
	np         int     // pole pairs (n/2)
	R          float64 // per-phase resistance, star equivalent, Ω
	L          float64 // per-phase inductance, star equivalent, H
	ke         float64 // back-EMF constant of one phase, V·s/rad (electrical)
	iqMax      float64 // peak quadrature current limit, A
	iqNominal  float64 // continuous quadrature current limit, A (≤ iqMax)
	U          float64 // DC bus voltage, V
	rho        float64 // mechanical reduction ratio

	// derived
	ktQArt           float64 // articular torque constant, Nm/A
	iRmsMax          float64 // RMS current limit, A
	tauMax           float64 // articular torque limit, Nm
	keP2p            float64 // phase-to-phase back-EMF constant
	wMaxNoLoad       float64 // articular rad/s at no load
	wMaxAtMaxTorque  float64 // articular rad/s at tauMax, no defluxing
	kmArt            float64 // articular motor constant, Nm/√W
	rDeflux          float64 // defluxing radius
	nominalPower     float64 // mechanical power at nominal torque (ktQArt·iqNominal) and its no-deflux max speed
}

// Params holds the fundamental parameters used to construct or update a
// Motor. A nil pointer field in Update means "leave this fundamental
// unchanged"; New requires every field.
type Params struct {
	N         int     // number of poles (even, > 0)
	R         float64 // per-phase resistance, Ω
	L         float64 // per-phase inductance, H
	Ke        float64 // back-EMF constant, V·s/rad
	IqMax     float64 // peak quadrature current, A
	IqNominal float64 // continuous quadrature current, A
	U         float64 // DC bus voltage, V
	Rho       float64 // reduction ratio
}

// New constructs a Motor from its fundamental parameters, deriving every
// constant in §3 of the design before returning. It fails if any fundamental
// is non-positive, if N is odd, or if IqNominal exceeds IqMax.
func New(p Params) (m *Motor, err error) {
	m = new(Motor)
	err = m.Update(UpdateParams{
		N:         &p.N,
		R:         &p.R,
		L:         &p.L,
		Ke:        &p.Ke,
		IqMax:     &p.IqMax,
		IqNominal: &p.IqNominal,
		U:         &p.U,
		Rho:       &p.Rho,
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// UpdateParams holds an optional subset of fundamentals to change via
// Update. A nil field leaves the corresponding fundamental unmodified.
type UpdateParams struct {
	N         *int
	R         *float64
	L         *float64
	Ke        *float64
	IqMax     *float64
	IqNominal *float64
	U         *float64
	Rho       *float64
}

// Update replaces any subset of fundamental parameters and atomically
// recomputes every derived constant before returning. This is the only
// entry point allowed to mutate a Motor's fundamentals; field-by-field
// external mutation would leave derived constants stale.
func (m *Motor) Update(p UpdateParams) error {
	np := m.np
	R, L, ke, iqMax, iqNominal, U, rho := m.R, m.L, m.ke, m.iqMax, m.iqNominal, m.U, m.rho

	if p.N != nil {
		if *p.N <= 0 || *p.N%2 != 0 {
			return chk.Err("number of poles must be a positive even integer; got %d", *p.N)
		}
		np = *p.N / 2
	}
	if p.R != nil {
		R = *p.R
	}
	if p.L != nil {
		L = *p.L
	}
	if p.Ke != nil {
		ke = *p.Ke
	}
	if p.IqMax != nil {
		iqMax = *p.IqMax
	}
	if p.IqNominal != nil {
		iqNominal = *p.IqNominal
	}
	if p.U != nil {
		U = *p.U
	}
	if p.Rho != nil {
		rho = *p.Rho
	}

	if np <= 0 {
		return chk.Err("number of pole pairs must be positive; got %d", np)
	}
	if R <= 0 {
		return chk.Err("per-phase resistance R must be positive; got %v", R)
	}
	if L <= 0 {
		return chk.Err("per-phase inductance L must be positive; got %v", L)
	}
	if ke <= 0 {
		return chk.Err("back-EMF constant ke must be positive; got %v", ke)
	}
	if iqMax <= 0 {
		return chk.Err("iq_max must be positive; got %v", iqMax)
	}
	if iqNominal <= 0 {
		return chk.Err("iq_nominal must be positive; got %v", iqNominal)
	}
	if iqNominal > iqMax {
		return chk.Err("iq_nominal (%v) must not exceed iq_max (%v)", iqNominal, iqMax)
	}
	if U <= 0 {
		return chk.Err("bus voltage U must be positive; got %v", U)
	}
	if rho <= 0 {
		return chk.Err("reduction ratio rho must be positive; got %v", rho)
	}

	m.np = np
	m.R = R
	m.L = L
	m.ke = ke
	m.iqMax = iqMax
	m.iqNominal = iqNominal
	m.U = U
	m.rho = rho

	m.deriveConstants()
	return nil
}

// deriveConstants recomputes every field derived from the fundamentals.
// Called only from Update so the read/compute invariant always holds.
func (m *Motor) deriveConstants() {
	m.ktQArt = 1.5 * m.rho * m.ke
	m.iRmsMax = m.iqMax / math.Sqrt2
	m.tauMax = m.ktQArt * m.iqMax
	m.keP2p = math.Sqrt(3) * m.ke
	m.wMaxNoLoad = m.U / (m.keP2p * m.rho)
	m.wMaxAtMaxTorque = m.ComputeMaxSpeedNoDeflux(m.tauMax)
	m.kmArt = math.Sqrt(2.0/3.0) * m.ktQArt / math.Sqrt(m.R)
	m.rDeflux = float64(m.np) * m.L * m.iqMax / m.ke
	tauN := m.ktQArt * m.iqNominal
	m.nominalPower = m.ComputeMaxSpeedNoDeflux(tauN) * tauN
}

// Accessors. Fundamentals and derived constants are exposed read-only.

func (m *Motor) NumPolePairs() int     { return m.np }
func (m *Motor) Resistance() float64   { return m.R }
func (m *Motor) Inductance() float64   { return m.L }
func (m *Motor) Ke() float64           { return m.ke }
func (m *Motor) IqMax() float64        { return m.iqMax }
func (m *Motor) IqNominal() float64    { return m.iqNominal }
func (m *Motor) BusVoltage() float64   { return m.U }
func (m *Motor) ReductionRatio() float64 { return m.rho }

func (m *Motor) KtQArt() float64          { return m.ktQArt }
func (m *Motor) IRmsMax() float64         { return m.iRmsMax }
func (m *Motor) TauMax() float64          { return m.tauMax }
func (m *Motor) KeP2p() float64           { return m.keP2p }
func (m *Motor) WMaxNoLoad() float64      { return m.wMaxNoLoad }
func (m *Motor) WMaxAtMaxTorque() float64 { return m.wMaxAtMaxTorque }
func (m *Motor) KmArt() float64           { return m.kmArt }
func (m *Motor) RDeflux() float64         { return m.rDeflux }
func (m *Motor) NominalPower() float64    { return m.nominalPower }

// Snapshot returns the fundamental parameters of m as a Params value,
// suitable for recording alongside a simulation result without retaining a
// live reference to m.
func (m *Motor) Snapshot() Params {
	return Params{
		N:         2 * m.np,
		R:         m.R,
		L:         m.L,
		Ke:        m.ke,
		IqMax:     m.iqMax,
		IqNominal: m.iqNominal,
		U:         m.U,
		Rho:       m.rho,
	}
}

// quadRootUpper solves a·x² + b·x + c = 0 for its larger real root, which is
// always the physically meaningful root in this model's envelope queries
// (the boundary where the voltage constraint saturates). Returns NaN if the
// discriminant is negative; callers treat that as "not plottable".
func quadRootUpper(a, b, c float64) float64 {
	Δ := b*b - 4*a*c
	if Δ < 0 {
		return math.NaN()
	}
	return (-b + math.Sqrt(Δ)) / (2 * a)
}

// ComputeMaxSpeedNoDeflux returns the maximum articular speed achievable at
// articular torque tau with id = 0 (no field weakening), enforcing the
// phase voltage magnitude limit U/√3.
func (m *Motor) ComputeMaxSpeedNoDeflux(tau float64) float64 {
	iq := tau / m.ktQArt
	np := float64(m.np)

	a := m.rho * m.rho * ((np*m.L*iq)*(np*m.L*iq) + m.ke*m.ke)
	b := 2 * m.rho * m.R * m.ke * iq
	c := (m.R*iq)*(m.R*iq) - m.U*m.U/3

	return quadRootUpper(a, b, c)
}

// ComputeDefluxingCurrent returns the smallest-magnitude direct current
// needed to satisfy the voltage envelope at the operating point (tau, w):
// the larger root of the envelope quadratic in id. The result is never
// positive.
func (m *Motor) ComputeDefluxingCurrent(tau, w float64) float64 {
	iq := tau / m.ktQArt
	np := float64(m.np)

	a := m.R*m.R + (m.rho*w*np*m.L)*(m.rho*w*np*m.L)
	b := 2 * np * m.L * m.ke * (m.rho * w) * (m.rho * w)
	c := (m.rho*w*np*m.L*iq)*(m.rho*w*np*m.L*iq) +
		2*m.R*iq*m.ke*m.rho*w +
		(m.R*iq)*(m.R*iq) +
		(m.ke*m.rho*w)*(m.ke*m.rho*w) -
		m.U*m.U/3

	id := quadRootUpper(a, b, c)
	return math.Min(0, id)
}

// ComputeMaxSpeedDeflux returns the maximum articular speed achievable at
// articular torque tau with field weakening enabled. When feasible, the
// result is never below ComputeMaxSpeedNoDeflux(tau). Like
// ComputeMaxSpeedNoDeflux, it returns NaN rather than substituting the
// no-deflux envelope when the underlying quadratic has no real root: NaN
// propagates through math.Max exactly as it does through the defluxing
// envelope's source formula.
func (m *Motor) ComputeMaxSpeedDeflux(tau float64) float64 {
	iq := tau / m.ktQArt
	np := float64(m.np)

	idRms := -math.Sqrt(math.Max(0, 2*m.iRmsMax*m.iRmsMax-iq*iq))
	idMag := -m.ke / (np * m.L)
	id := math.Max(idRms, idMag)

	a := (m.rho*np*m.L*iq)*(m.rho*np*m.L*iq) + m.rho*m.rho*(np*m.L*id+m.ke)*(np*m.L*id+m.ke)
	b := 2 * m.rho * m.R * iq * m.ke
	c := m.R*m.R*(id*id+iq*iq) - m.U*m.U/3

	w := quadRootUpper(a, b, c)
	noDeflux := m.ComputeMaxSpeedNoDeflux(tau)
	return math.Max(w, noDeflux)
}

// ComputeThermalPower returns the copper losses 1.5·R·(id²+iq²) at operating
// point (tau, w). If forceNoDeflux is true, id is taken as zero; otherwise
// id is the defluxing current required at that operating point.
func (m *Motor) ComputeThermalPower(tau, w float64, forceNoDeflux bool) float64 {
	iq := tau / m.ktQArt
	var id float64
	if !forceNoDeflux {
		id = m.ComputeDefluxingCurrent(tau, w)
	}
	return 1.5 * m.R * (id*id + iq*iq)
}

// GetPower returns the total (mechanical + thermal) power required at
// articular speed w and torque tau, assuming no defluxing.
func (m *Motor) GetPower(w, tau float64) float64 {
	return w*tau + tau*tau/(m.kmArt*m.kmArt)
}
