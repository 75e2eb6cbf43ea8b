// Package simhash fingerprints status page layouts so a firmware update
// that changes page structure can be noticed between polls.
package simhash

import (
	"hash/fnv"
	"math/bits"
)

// Sum computes a 64-bit SimHash over tokens, each weighted equally.
// FNV-64a hashes feed a per-bit vote vector.
func Sum(tokens []string) uint64 {
	if len(tokens) == 0 {
		return 0
	}

	var vector [64]int
	for _, tok := range tokens {
		h := fnv.New64a()
		h.Write([]byte(tok))
		hash := h.Sum64()

		for i := 0; i < 64; i++ {
			if hash&(1<<uint(i)) != 0 {
				vector[i]++
			} else {
				vector[i]--
			}
		}
	}

	var fp uint64
	for i := 0; i < 64; i++ {
		if vector[i] > 0 {
			fp |= 1 << uint(i)
		}
	}
	return fp
}

// Distance returns the Hamming distance between two fingerprints.
func Distance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// Similar reports whether a and b are within threshold bits of each other.
func Similar(a, b uint64, threshold int) bool {
	return Distance(a, b) <= threshold
}

// Changed reports whether two known fingerprints differ by more than
// threshold. A zero fingerprint means unknown and never counts as a change.
func Changed(prev, cur uint64, threshold int) bool {
	if prev == 0 || cur == 0 {
		return false
	}
	return !Similar(prev, cur, threshold)
}
