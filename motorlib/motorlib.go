// Copyright 2024 The motorsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package motorlib loads and persists libraries of named PMSM motors from
// JSON, following the read-decode-validate-skip pipeline inp.ReadMat uses
// for gofem's material databases: malformed entries are skipped with a
// warning rather than failing the whole load.
package motorlib

import (
	"bytes"
	"encoding/json"

	"github.com/cpmech/gosl/io"

	"github.com/cpmech/motorsim/motor"
)

// entry is the on-disk representation of one motor in a library file.
type entry struct {
	Np        *int     `json:"np"`
	R         *float64 `json:"R"`
	LmH       *float64 `json:"L"` // inductance on disk, in mH
	Ke        *float64 `json:"ke"`
	IqMax     *float64 `json:"i_quadrature_max"`
	IqNominal *float64 `json:"i_quadrature_nominal"`
	U         *float64 `json:"U"`
	Rho       *float64 `json:"reduction_ratio"`
}

// Library is a mapping from motor display name to Motor.
type Library map[string]*motor.Motor

var defaultLibrary Library

// DefaultLibrary lazily loads and caches the module's default motor
// library on first use; alternative libraries are loaded explicitly with
// Load and passed around by value, never installed globally. path names
// the default library's JSON file.
func DefaultLibrary(path string) (Library, error) {
	if defaultLibrary != nil {
		return defaultLibrary, nil
	}
	lib, err := Load(path)
	if err != nil {
		return nil, err
	}
	defaultLibrary = lib
	return defaultLibrary, nil
}

// Load reads a motor library JSON file. Entries missing a required field
// are skipped with a logged warning; the remainder of the file still
// loads.
func Load(path string) (Library, error) {
	b, err := io.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]entry
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}

	lib := make(Library, len(raw))
	for name, e := range raw {
		m, ok := buildMotor(name, e)
		if !ok {
			continue
		}
		lib[name] = m
	}
	return lib, nil
}

// buildMotor validates and converts one JSON entry into a Motor. It returns
// ok=false (after printing a warning) if any required field is missing or
// the resulting motor fails construction-time validation.
func buildMotor(name string, e entry) (m *motor.Motor, ok bool) {
	if e.Np == nil || e.R == nil || e.LmH == nil || e.Ke == nil || e.IqMax == nil || e.U == nil || e.Rho == nil {
		io.Pfyel("warning: motor %q is missing a required field; skipping\n", name)
		return nil, false
	}

	iqNominal := *e.IqMax
	if e.IqNominal != nil {
		iqNominal = *e.IqNominal
	}

	m, err := motor.New(motor.Params{
		N:         *e.Np,
		R:         *e.R,
		L:         *e.LmH / 1000.0,
		Ke:        *e.Ke,
		IqMax:     *e.IqMax,
		IqNominal: iqNominal,
		U:         *e.U,
		Rho:       *e.Rho,
	})
	if err != nil {
		io.Pfyel("warning: motor %q has invalid parameters (%v); skipping\n", name, err)
		return nil, false
	}
	return m, true
}

// SavedMotor is the on-disk representation of a single persisted motor,
// carrying the display metadata (name, color) alongside the same schema
// used by library files. Per the duplicate-L-key bug in the source this
// format is distilled from, L is emitted in mH only, once.
type SavedMotor struct {
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Np    int     `json:"np"`
	R     float64 `json:"R"`
	L     float64 `json:"L"` // mH
	Ke    float64 `json:"ke"`
	IqMax float64 `json:"i_quadrature_max"`
	IqNom float64 `json:"i_quadrature_nominal"`
	U     float64 `json:"U"`
	Rho   float64 `json:"reduction_ratio"`
}

// ToSavedMotor converts m into its persistence representation.
func ToSavedMotor(name, color string, m *motor.Motor) SavedMotor {
	return SavedMotor{
		Name:  name,
		Color: color,
		Np:    2 * m.NumPolePairs(),
		R:     m.Resistance(),
		L:     m.Inductance() * 1000.0,
		Ke:    m.Ke(),
		IqMax: m.IqMax(),
		IqNom: m.IqNominal(),
		U:     m.BusVoltage(),
		Rho:   m.ReductionRatio(),
	}
}

// SaveMotor writes a single motor to path in the persistence format.
func SaveMotor(path, name, color string, m *motor.Motor) error {
	sm := ToSavedMotor(name, color, m)
	b, err := json.MarshalIndent(sm, "", "  ")
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	buf.Write(b)
	io.WriteFile(path, &buf)
	return nil
}
