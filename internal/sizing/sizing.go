// Package sizing provides the table-size helpers used by the section
// planner: a next-prime lookup for index capacities and a
// percentage-raise helper for data capacities.
package sizing

import "math"

// milestonePrimes are primes just above successive 1,000,000 boundaries,
// the same spacing genprimedata used to build its lookup table. Unlike the
// original tool (which sieved up to 2^32 and emitted one table entry per
// million, ~4,000 entries feeding a pure table lookup), NextPrime here
// finds its answer by direct trial division upward from n; a milestone
// below n never changes where that scan starts or what it returns.
var milestonePrimes = []uint64{
	1000003, 2000003, 3000017, 4000037, 5000011,
	6000011, 7000003, 8000009, 9000011, 10000019,
	20000003, 30000023, 40000003, 50000017, 75000017,
	100000007, 250000003, 500000003, 750000019, 1000000007,
}

// NextPrime returns the smallest prime >= n.
func NextPrime(n uint64) uint64 {
	if n <= 2 {
		return 2
	}
	// A milestone within 2,000,000 below n is picked up here, but start is
	// then raised back to n, so the trial division always begins at n.
	start := n
	for _, m := range milestonePrimes {
		if m >= n {
			break
		}
		if n-m < 2000000 {
			start = m
		}
	}
	if start < n {
		start = n
	}
	if start%2 == 0 {
		start++
	}
	for !isPrime(start) {
		start += 2
	}
	return start
}

func isPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	if n%3 == 0 {
		return n == 3
	}
	for i := uint64(5); i*i <= n; i += 6 {
		if n%i == 0 || n%(i+2) == 0 {
			return false
		}
	}
	return true
}

// RaisePercent returns ceil(n * (1 + p/100)), the "raise by 5%" rule used
// when a section must grow beyond what it can inherit.
func RaisePercent(n uint64, p float64) uint64 {
	return uint64(math.Ceil(float64(n) * (1 + p/100)))
}
