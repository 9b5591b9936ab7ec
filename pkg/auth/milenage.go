// Package auth implements the 3GPP AKA/MILENAGE authentication engine
// (§4.D, RFC 4187 Annex B) plus HTTP Digest MD5 (RFC 2617), grounded on the
// MILENAGE f1/f2_f5 operand order and AKA nonce layout of the original
// implementation's crypto/milenge and sip/auth translation units.
package auth

import (
	"crypto/aes"
	"crypto/cipher"

	coreerrors "github.com/arzzra/imsphone/pkg/sip/core/errors"
)

const blockSize = 16

// MILENAGE field widths (RFC 4187 Annex B).
const (
	KiSize   = 16
	OPcSize  = 16
	RandSize = 16
	SQNSize  = 6
	AMFSize  = 2
	AKSize   = 6
	MACSize  = 8
	RESSize  = 8
)

func aes128ECBEncryptBlock(key, in []byte, out []byte) error {
	block, err := aes.NewCipher(key)
	if err != nil {
		return coreerrors.Wrap(coreerrors.KindInvalidField, "milenage key", err)
	}
	// CBC with a zero IV and no padding over exactly one block is
	// equivalent to single-block ECB encryption (the original uses
	// EVP_aes_128_cbc with an all-zero IV and padding disabled).
	iv := make([]byte, blockSize)
	mode := cipher.NewCBCEncrypter(block, iv)
	mode.CryptBlocks(out, in)
	return nil
}

func xorBytes(dst, a, b []byte) {
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}

// rotateHalfBlockXor computes rotate(first XOR second, r1=64 bits): each
// byte of (first XOR second) is written 8 positions ahead, mod 16 — the
// same operand order as buffer_rotate in the original crypto/milenge.cpp.
func rotateHalfBlockXor(first, second []byte, result []byte) {
	const half = blockSize / 2
	for i := 0; i < blockSize; i++ {
		result[(i+half)%blockSize] = first[i] ^ second[i]
	}
}

// F1 computes MAC-A and MAC-S (RFC 4187 Annex B, f1/f1*).
func F1(ki, sqn, rnd, opc, amf []byte) (macA, macS [MACSize]byte, err error) {
	if len(ki) != KiSize || len(sqn) != SQNSize || len(rnd) != RandSize || len(opc) != OPcSize || len(amf) != AMFSize {
		return macA, macS, coreerrors.New(coreerrors.KindInvalidField, "milenage F1: wrong input size")
	}

	rijndaelInput := make([]byte, blockSize)
	temp := make([]byte, blockSize)
	out1 := make([]byte, blockSize)

	// TEMP = E_K(RAND XOR OPc)
	xorBytes(rijndaelInput, rnd, opc)
	if err := aes128ECBEncryptBlock(ki, rijndaelInput, temp); err != nil {
		return macA, macS, err
	}

	// IN1 = SQN || AMF || SQN || AMF
	in1 := make([]byte, blockSize)
	copy(in1[0:6], sqn)
	copy(in1[6:8], amf)
	copy(in1[8:14], sqn)
	copy(in1[14:16], amf)

	// OUT1 = E_K(TEMP XOR rotate(IN1 XOR OPc, r1)) XOR OPc
	rotateHalfBlockXor(in1, opc, rijndaelInput)
	xorBytes(rijndaelInput, rijndaelInput, temp)
	if err := aes128ECBEncryptBlock(ki, rijndaelInput, out1); err != nil {
		return macA, macS, err
	}
	xorBytes(out1, out1, opc)

	copy(macA[:], out1[0:MACSize])
	copy(macS[:], out1[MACSize:2*MACSize])
	return macA, macS, nil
}

// F2F5 computes RES and AK (RFC 4187 Annex B, f2/f5). The original
// implementation's f2_f5 uses r2 = 0 (no rotation) and c2 = the identity
// byte-string except the last byte is XORed with 1.
func F2F5(ki, rnd, opc []byte) (res [RESSize]byte, ak [AKSize]byte, err error) {
	if len(ki) != KiSize || len(rnd) != RandSize || len(opc) != OPcSize {
		return res, ak, coreerrors.New(coreerrors.KindInvalidField, "milenage F2F5: wrong input size")
	}

	rijndaelInput := make([]byte, blockSize)
	temp := make([]byte, blockSize)
	out := make([]byte, blockSize)

	// TEMP = E_K(RAND XOR OPc)
	xorBytes(rijndaelInput, rnd, opc)
	if err := aes128ECBEncryptBlock(ki, rijndaelInput, temp); err != nil {
		return res, ak, err
	}

	// OUT2 = E_K((TEMP XOR OPc) XOR c2) XOR OPc, c2 flips only the last byte.
	xorBytes(rijndaelInput, temp, opc)
	rijndaelInput[blockSize-1] ^= 1
	if err := aes128ECBEncryptBlock(ki, rijndaelInput, out); err != nil {
		return res, ak, err
	}
	xorBytes(out, out, opc)

	// ak = f5 = OUT2[0:6]; res = f2 = OUT2[8:16] (bytes 6,7 of OUT2 are
	// discarded, matching the original's `memcpy(res, out + 8, ...)`).
	copy(ak[:], out[0:AKSize])
	copy(res[:], out[8:8+RESSize])
	return res, ak, nil
}
