// Package modem implements CDMA spreading and correlation decoding.
//
// Encoding maps each user's bit to a voltage (0 -> +1, 1 -> -1), multiplies
// the user's Walsh code by that voltage and sums the products column-wise
// into one combined signal:
//
//	combined[k] = Σ_r codes[r][k] * voltage[r]
//
// Decoding correlates the combined signal with one user's code:
//
//	ip  = Σ_k combined[k] * code[k]
//	bit = 1 if ip/N < 0 else 0
//
// The division truncates toward zero (Go integer division), so inner products
// in (-N, 0) decode to 0. In the noiseless model ip is always ±N, so every bit
// round-trips exactly.
//
// All functions are pure. Length mismatches are reported as *ContractError.
package modem
