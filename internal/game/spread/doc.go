// Package spread picks which start positions the human participants of a game
// should hold so that they end up as far from each other as the existing
// starts allow, and plans the swaps that move them there.
//
// Candidates are k-subsets of all participants (k = number of humans). The
// winner maximizes the minimum pairwise distance, then the sum of pairwise
// distances, then comes first in lexicographic enumeration order. Nothing in
// this package logs or mutates participants; callers report and execute.
package spread
