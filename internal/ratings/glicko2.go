// Package ratings implements the Glicko-2 rating update applied on
// tournament finalization and the performance-rating estimator the arena
// engine recomputes after every finished game, using
// Glickman's published constants but this system's (500, 250, 0.06)
// house rating scale instead of the (1500, 350, 0.06) default.
package ratings

import "math"

// Glicko-2 constants per Glickman's paper.
const (
	scale  = 173.7178 // converts between the public rating scale and the internal mu/phi scale
	pi2    = math.Pi * math.Pi
	tau    = 0.5    // system volatility constraint
	eps    = 1e-6   // convergence tolerance for the volatility solver
	center = 500.0  // this system's rating center, per spec section 3
)

// Triple is a player's Glicko-2 rating state on the public (not mu/phi) scale.
type Triple struct {
	Rating     float64
	Deviation  float64
	Volatility float64
}

// Opponent is one batch member: an opponent's rating triple and the score
// achieved against them (1 = win, 0.5 = draw, 0 = loss).
type Opponent struct {
	Rating    float64
	Deviation float64
	Score     float64
}

func toMuPhi(r, rd float64) (mu, phi float64) { return (r - center) / scale, rd / scale }
func fromMuPhi(mu, phi float64) (r, rd float64) { return mu*scale + center, phi * scale }

func gFunc(phi float64) float64 {
	return 1.0 / math.Sqrt(1.0+3.0*phi*phi/pi2)
}

func eFunc(mu, muj, phij float64) float64 {
	return 1.0 / (1.0 + math.Exp(-gFunc(phij)*(mu-muj)))
}

func clampDeviation(rd float64) float64 {
	if rd < MinDeviation {
		return MinDeviation
	}
	if rd > MaxDeviation {
		return MaxDeviation
	}
	return rd
}

// Re-exported so callers don't need to import models for these two bounds.
const (
	MinDeviation = 30.0
	MaxDeviation = 350.0
)

// Update runs one Glicko-2 rating period for a player against a batch of
// opponents. An empty batch only inflates the deviation (step 1 of the
// paper, the "no games this period" case) and leaves rating and volatility
// untouched.
func Update(player Triple, opponents []Opponent) Triple {
	muA, phiA := toMuPhi(player.Rating, player.Deviation)

	if len(opponents) == 0 {
		phiStar := math.Sqrt(phiA*phiA + player.Volatility*player.Volatility)
		_, rd := fromMuPhi(muA, phiStar)
		return Triple{
			Rating:     player.Rating,
			Deviation:  clampDeviation(rd),
			Volatility: player.Volatility,
		}
	}

	var sumG2E, sumGSE float64
	for _, o := range opponents {
		muB, phiB := toMuPhi(o.Rating, o.Deviation)
		gB := gFunc(phiB)
		eAB := eFunc(muA, muB, phiB)
		sumG2E += gB * gB * eAB * (1.0 - eAB)
		sumGSE += gB * (o.Score - eAB)
	}

	v := 1.0 / sumG2E
	delta := v * sumGSE

	newVol := solveVolatility(player.Volatility, delta, phiA, v)

	phiStar := math.Sqrt(phiA*phiA + newVol*newVol)
	phiNew := 1.0 / math.Sqrt(1.0/(phiStar*phiStar)+1.0/v)
	muNew := muA + phiNew*phiNew*sumGSE

	r, rd := fromMuPhi(muNew, phiNew)
	return Triple{
		Rating:     r,
		Deviation:  clampDeviation(rd),
		Volatility: newVol,
	}
}

// solveVolatility finds sigma' by the Illinois variant of regula falsi on
// the canonical f(x), per the Glicko-2 paper's step 5.
func solveVolatility(sigma, delta, phi, v float64) float64 {
	a := math.Log(sigma * sigma)
	f := func(x float64) float64 {
		ex := math.Exp(x)
		num := ex * (delta*delta - phi*phi - v - ex)
		den := 2.0 * (phi*phi + v + ex) * (phi*phi + v + ex)
		return num/den - (x-a)/(tau*tau)
	}

	A := a
	var B float64
	if delta*delta > phi*phi+v {
		B = math.Log(delta*delta - phi*phi - v)
	} else {
		k := 1.0
		for f(a-k) < 0 && k < 1e6 {
			k *= 2.0
		}
		B = a - k
	}

	fA, fB := f(A), f(B)
	for iter := 0; iter < 100 && math.Abs(B-A) > eps; iter++ {
		C := A + (A-B)*fA/(fB-fA)
		fC := f(C)
		if math.IsNaN(fC) || math.IsInf(fC, 0) {
			break
		}
		if fC*fB < 0 {
			A, fA = B, fB
		} else {
			fA /= 2
		}
		B, fB = C, fC
	}

	return math.Exp(A / 2.0)
}
