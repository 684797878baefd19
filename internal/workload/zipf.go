package workload

import (
	"math"
	"math/rand/v2"
)

// zipf draws Zipf-distributed offsets in [0, keySpace) using the
// Gray et al. rejection-free method. theta controls the skew
// (higher = more skewed) and must lie in (0, 1).
type zipf struct {
	keySpace     int
	spread       int
	theta        float64
	alpha        float64
	zetaN        float64
	eta          float64
	halfPowTheta float64
}

func newZipf(keySpace int, theta float64) *zipf {
	spread := keySpace + 1
	zeta2 := computeZeta(2, theta)
	zetaN := computeZeta(uint64(spread), theta) //nolint:gosec // keySpace is positive
	return &zipf{
		keySpace:     keySpace,
		spread:       spread,
		theta:        theta,
		alpha:        1.0 / (1.0 - theta),
		zetaN:        zetaN,
		eta:          (1 - math.Pow(2.0/float64(spread), 1.0-theta)) / (1.0 - zeta2/zetaN),
		halfPowTheta: 1.0 + math.Pow(0.5, theta),
	}
}

func (z *zipf) next(rng *rand.Rand) int {
	if z.keySpace <= 1 {
		return 0
	}
	u := rng.Float64()
	uz := u * z.zetaN
	var result int
	switch {
	case uz < 1.0:
		result = 0
	case uz < z.halfPowTheta:
		result = 1
	default:
		result = int(float64(z.spread) * math.Pow(z.eta*u-z.eta+1.0, z.alpha))
	}
	if result >= z.keySpace {
		result = z.keySpace - 1
	}
	return result
}

func computeZeta(n uint64, theta float64) float64 {
	sum := 0.0
	for i := uint64(1); i <= n; i++ {
		sum += 1.0 / math.Pow(float64(i), theta)
	}
	return sum
}
