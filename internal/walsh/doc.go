// Package walsh builds the orthogonal spreading codes used by the CDMA modem.
//
// Codes are the rows of a Walsh-Hadamard matrix of order N, where N is the
// number of users sharing the channel. The matrix is built recursively from
// the 2x2 seed
//
//	H2 = | 1  1 |
//	     | 1 -1 |
//
// by taking the Kronecker (tensor) product with H2 once per doubling:
//
//	H(2k) = H(k) ⊗ H2
//
// INVARIANTS:
//   - N is a power of two in [2, MaxWidth]
//   - every entry is +1 or -1
//   - row_i · row_j == 0 for i != j, row_i · row_i == N
//
// Matrices handed out by CodeBook are copies. The cached master copy is never
// exposed, so callers can't corrupt codes shared by other pipelines.
package walsh
