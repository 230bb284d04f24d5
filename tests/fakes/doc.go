// Package fakes provides test doubles for pwgen interfaces.
//
// This package contains fake implementations of csprng.Generator that allow
// unit testing of the sampling strategies against exact, scripted draws, and
// a csprng.Backend fake for exercising session setup and teardown.
// Fakes are manually implemented (not generated) to provide precise control
// over test behavior.
//
// Usage:
//
//	gen := fakes.NewScriptedGenerator().WithUnits(1, 7, 0)
//	engine := pwgen.New(gen, make([]byte, pwgen.ScratchSize), make([]byte, 512))
//	res, err := engine.ASCII(1, pwgen.Digits)
//	// res.Secret == "7"
package fakes
