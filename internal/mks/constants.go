// Package mks holds the physical constants used to rescale geometric
// waveforms into SI units.
package mks

const (
	// G is the gravitational constant in m^3 kg^-1 s^-2.
	G = 6.67428e-11

	// C is the speed of light in m/s.
	C = 299792458.0

	// Msun is the solar mass in kg.
	Msun = 1.98892e30

	// MsunInSec is one solar mass expressed in seconds, G*Msun/c^3.
	MsunInSec = G * Msun / (C * C * C)

	// MpcInM is one megaparsec in meters.
	MpcInM = 3.08568025e22
)
