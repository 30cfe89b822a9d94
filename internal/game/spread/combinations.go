package spread

import (
	"fmt"

	"github.com/mitchelldurbincs/spreadstarts/internal/game/core"
)

// Combination is an order-preserving selection of participants
type Combination []*core.Participant

func (c Combination) String() string {
	return core.Format(c)
}

// Clone copies the slice header contents so a reused buffer can be kept
func (c Combination) Clone() Combination {
	out := make(Combination, len(c))
	copy(out, c)
	return out
}

// Contains reports whether a participant with the same ID is a member
func (c Combination) Contains(id core.ParticipantID) bool {
	for _, p := range c {
		if p.ID == id {
			return true
		}
	}
	return false
}

// EachIndexCombination walks every ascending k-tuple of indices in [0, n) in
// lexicographic order. The idx slice is reused between calls; fn must copy it
// to keep it. Returning false from fn stops the walk.
func EachIndexCombination(n, k int, fn func(idx []int) bool) {
	if k <= 0 || k > n {
		panic(fmt.Sprintf("spread: cannot choose %d of %d", k, n))
	}

	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}

	for {
		if !fn(idx) {
			return
		}

		// Rightmost slot that has not reached its ceiling n-k+i
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// Combinations returns all C(n,k) subsets of participants in lexicographic
// index order. Requires 0 < k <= len(participants).
func Combinations(participants []*core.Participant, k int) []Combination {
	out := make([]Combination, 0, Binomial(len(participants), k))
	EachIndexCombination(len(participants), k, func(idx []int) bool {
		combo := make(Combination, k)
		for i, j := range idx {
			combo[i] = participants[j]
		}
		out = append(out, combo)
		return true
	})
	return out
}

// Binomial returns C(n, k), or 0 when k is out of range
func Binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
	}
	return result
}
