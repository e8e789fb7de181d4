// Copyright 2024 The motorsim Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package motorlib

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
)

const sampleLibrary = `{
  "Reference 60rpm/V": {
    "np": 28,
    "R": 0.165,
    "L": 0.095,
    "ke": 0.0919,
    "i_quadrature_max": 8,
    "i_quadrature_nominal": 4,
    "U": 24,
    "reduction_ratio": 6
  },
  "Missing ke": {
    "np": 8,
    "R": 0.2,
    "L": 0.1,
    "i_quadrature_max": 5,
    "U": 24,
    "reduction_ratio": 1
  },
  "Defaults nominal to max": {
    "np": 8,
    "R": 0.2,
    "L": 0.1,
    "ke": 0.02,
    "i_quadrature_max": 5,
    "U": 24,
    "reduction_ratio": 1
  }
}`

func writeTemp(tst *testing.T, contents string) string {
	dir := tst.TempDir()
	path := filepath.Join(dir, "library.json")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		tst.Fatalf("failed to write temp library: %v\n", err)
	}
	return path
}

func Test_motorlib01_load(tst *testing.T) {
	chk.PrintTitle("motorlib01. load skips malformed entries, defaults iq_nominal")

	path := writeTemp(tst, sampleLibrary)
	lib, err := Load(path)
	if err != nil {
		tst.Errorf("load failed: %v\n", err)
		return
	}

	if _, ok := lib["Missing ke"]; ok {
		tst.Errorf("expected 'Missing ke' entry to be skipped\n")
	}
	ref, ok := lib["Reference 60rpm/V"]
	if !ok {
		tst.Errorf("expected 'Reference 60rpm/V' entry to load\n")
		return
	}
	chk.Scalar(tst, "L in H", 1e-12, ref.Inductance(), 0.095e-3)

	d, ok := lib["Defaults nominal to max"]
	if !ok {
		tst.Errorf("expected 'Defaults nominal to max' entry to load\n")
		return
	}
	chk.Scalar(tst, "iq_nominal defaults to iq_max", 1e-12, d.IqNominal(), d.IqMax())
}

func Test_motorlib02_save_roundtrip(tst *testing.T) {
	chk.PrintTitle("motorlib02. save writes L only once, in mH")

	path := writeTemp(tst, sampleLibrary)
	lib, err := Load(path)
	if err != nil {
		tst.Errorf("load failed: %v\n", err)
		return
	}
	m := lib["Reference 60rpm/V"]

	outPath := filepath.Join(tst.TempDir(), "motor.json")
	if err := SaveMotor(outPath, "Reference 60rpm/V", "#ff0000", m); err != nil {
		tst.Errorf("save failed: %v\n", err)
		return
	}

	raw, err := os.ReadFile(outPath)
	if err != nil {
		tst.Errorf("failed to read saved file: %v\n", err)
		return
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		tst.Errorf("saved file is not valid JSON: %v\n", err)
		return
	}
	lVal, ok := decoded["L"].(float64)
	if !ok {
		tst.Errorf("saved file missing numeric L field\n")
		return
	}
	chk.Scalar(tst, "saved L in mH", 1e-9, lVal, 0.095)
}
