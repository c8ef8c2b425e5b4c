// Copyright 2026 RGB Protocol
//
// Pedersen commitments over bn254 for confidential amounts

// Package commitment implements the Pedersen-style additive commitments
// that back confidential owned-right state: C = amount*G + blinding*H
// over gnark-crypto's bn254 G1 group. A commitment to an amount is
// homomorphic, Commit(a1,b1) + Commit(a2,b2) == Commit(a1+a2, b1+b2),
// which is exactly what the consignment engine's confidential balance
// check needs to verify without ever learning the amounts themselves.
package commitment

import (
	"crypto/sha256"
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Commitment is the compressed serialization of a bn254 G1 point.
type Commitment [32]byte

// gGenerator is bn254's standard G1 base point.
var gGenerator = func() bn254.G1Affine {
	_, _, g1Aff, _ := bn254.Generators()
	return g1Aff
}()

// hGenerator is a second, nothing-up-my-sleeve generator independent of
// bn254's standard base point, derived by hashing a fixed domain-
// separation string to the curve. Using HashToG1 rather than a second
// arbitrary scalar multiple of G is what makes the discrete log between G
// and H unknown, which is what makes the commitment binding.
var hGenerator = func() bn254.G1Affine {
	p, err := bn254.HashToG1([]byte("rgbd/commitment/pedersen-h-generator"), []byte("RGBD_PEDERSEN_H"))
	if err != nil {
		panic("commitment: failed to derive H generator: " + err.Error())
	}
	return p
}()

// Commit computes a Pedersen commitment to amount, blinded by blinding:
// C = amount*G + blinding*H.
func Commit(amount uint64, blinding [32]byte) Commitment {
	var g, h bn254.G1Affine
	g.ScalarMultiplication(&gGenerator, new(big.Int).SetUint64(amount))

	var blindScalar fr.Element
	blindScalar.SetBytes(blinding[:])
	var blindBig big.Int
	blindScalar.BigInt(&blindBig)
	h.ScalarMultiplication(&hGenerator, &blindBig)

	var sum bn254.G1Jac
	sum.FromAffine(&g)
	var hJac bn254.G1Jac
	hJac.FromAffine(&h)
	sum.AddAssign(&hJac)

	var result bn254.G1Affine
	result.FromJacobian(&sum)
	return Commitment(result.Bytes())
}

// Open reports whether c is a commitment to amount under blinding: the
// verification half of Commit, used when a confidential assignment's
// amount is disclosed out-of-band and needs checking
// against the on-record commitment before being trusted.
func Open(c Commitment, amount uint64, blinding [32]byte) bool {
	return c == Commit(amount, blinding)
}

// Add returns the commitment to the sum of the committed amounts: the
// homomorphic property the consignment engine's balance check relies on.
func Add(a, b Commitment) (Commitment, error) {
	var pa, pb bn254.G1Affine
	if _, err := pa.SetBytes(a[:]); err != nil {
		return Commitment{}, errors.New("commitment: invalid operand a: " + err.Error())
	}
	if _, err := pb.SetBytes(b[:]); err != nil {
		return Commitment{}, errors.New("commitment: invalid operand b: " + err.Error())
	}
	var sum bn254.G1Jac
	sum.FromAffine(&pa)
	var pbJac bn254.G1Jac
	pbJac.FromAffine(&pb)
	sum.AddAssign(&pbJac)

	var result bn254.G1Affine
	result.FromJacobian(&sum)
	return Commitment(result.Bytes()), nil
}

// Sub returns the commitment to the difference of the committed amounts
// (a - b), the other half of the homomorphism: a balanced transition's
// consumed-minus-produced difference is a commitment to zero under the
// net blinding delta.
func Sub(a, b Commitment) (Commitment, error) {
	var pb bn254.G1Affine
	if _, err := pb.SetBytes(b[:]); err != nil {
		return Commitment{}, errors.New("commitment: invalid operand b: " + err.Error())
	}
	var negB bn254.G1Affine
	negB.Neg(&pb)
	return Add(a, Commitment(negB.Bytes()))
}

// AddBlindings folds two blinding factors into one, with the same mod-r
// reduction Commit applies: Commit(a1+a2, AddBlindings(b1,b2)) ==
// Add(Commit(a1,b1), Commit(a2,b2)).
func AddBlindings(a, b [32]byte) [32]byte {
	var ea, eb fr.Element
	ea.SetBytes(a[:])
	eb.SetBytes(b[:])
	ea.Add(&ea, &eb)
	return ea.Bytes()
}

// SubBlindings returns a - b over the blinding scalar field.
func SubBlindings(a, b [32]byte) [32]byte {
	var ea, eb fr.Element
	ea.SetBytes(a[:])
	eb.SetBytes(b[:])
	ea.Sub(&ea, &eb)
	return ea.Bytes()
}

// Equal reports whether two commitments are to the same curve point.
func Equal(a, b Commitment) bool { return a == b }

// Identity is the commitment that Add leaves any other commitment
// unchanged under: the point at infinity, gnark-crypto's zero-value
// G1Affine. It is the correct starting accumulator for summing a set of
// commitments of unknown, possibly-zero, length.
var Identity = func() Commitment {
	var infinity bn254.G1Affine
	return Commitment(infinity.Bytes())
}()

// BlindingFromSeed deterministically derives a 32-byte blinding factor
// from arbitrary seed material, for tests and for deriving per-assignment
// blinding in the absence of a wallet-supplied one; key management belongs
// to the wallet, not this engine.
func BlindingFromSeed(seed []byte) [32]byte {
	return sha256.Sum256(append([]byte("rgbd/commitment/blinding"), seed...))
}
