// Package analysis extracts structure from run histories: frequency
// content of the per-frame statistics and simple stability measures.
package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform of a series, iteratively
// with bit-reversal ordering. Input longer than a power of two is
// truncated to the largest one that fits.
func FFT(series []float64) []complex128 {
	if len(series) == 0 {
		return nil
	}

	n := 1
	for n*2 <= len(series) {
		n *= 2
	}

	buf := make([]complex128, n)
	for i := 0; i < n; i++ {
		buf[i] = complex(series[i], 0)
	}

	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j |= bit
		if i < j {
			buf[i], buf[j] = buf[j], buf[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		step := cmplx.Exp(complex(0, -2*math.Pi/float64(size)))
		for start := 0; start < n; start += size {
			w := complex(1, 0)
			for k := start; k < start+size/2; k++ {
				u, v := buf[k], buf[k+size/2]*w
				buf[k], buf[k+size/2] = u+v, u-v
				w *= step
			}
		}
	}
	return buf
}

// PowerSpectrum is the magnitude of the positive-frequency half of the
// transform.
func PowerSpectrum(series []float64) []float64 {
	fft := FFT(series)
	ps := make([]float64, len(fft)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}
	return ps
}
