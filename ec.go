/*
 * Copyright © 2020, G.Ralph Kuntz, MD.
 *
 * Licensed under the Apache License, Version 2.0(the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIC
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package qrgen

// ConstructCodewords splits the data codewords into Reed-Solomon blocks,
// computes the error correction codewords for each block, and returns the
// data and error correction streams separately, each interleaved across
// blocks in the standard column order. The concatenation of the two streams
// has the total codeword count of the (version, ecLevel) pair. Micro and
// out-of-range versions are rejected with ErrInvalidVersion.
func ConstructCodewords(rawData []byte, version Version, ecLevel EcLevel) ([]byte, []byte, error) {
	if version.micro || version.number < 1 || version.number > 40 {
		return nil, nil, ErrInvalidVersion
	}

	v := version.number
	numBlocks := numErrorCorrectionBlocks[ecLevel][v]
	blockECLen := eccCodewordsPerBlock[ecLevel][v]
	rawCodewords := numRawDataModules[v] / 8
	numShortBlocks := numBlocks - rawCodewords%numBlocks
	shortBlockLen := rawCodewords / numBlocks

	if len(rawData) != rawCodewords-blockECLen*numBlocks {
		panic("data is not correct length")
	}

	// Split the data into blocks (short blocks first, then blocks one data
	// byte longer) and compute the remainder for each.
	blocks := make([][]byte, numBlocks)
	ecBlocks := make([][]byte, numBlocks)
	divisor := reedSolomonDivisors[blockECLen]
	for i, k := 0, 0; i < numBlocks; i++ {
		dat := rawData[k : k+shortBlockLen-blockECLen+bToI(i >= numShortBlocks)]
		k += len(dat)
		blocks[i] = dat
		ecBlocks[i] = reedSolomonComputeRemainder(dat, divisor)
	}

	// Interleave the bytes column by column. The short blocks simply have no
	// byte in the last data column.
	dataCodewords := make([]byte, 0, len(rawData))
	for i := 0; i <= shortBlockLen-blockECLen; i++ {
		for _, block := range blocks {
			if i < len(block) {
				dataCodewords = append(dataCodewords, block[i])
			}
		}
	}
	ecCodewords := make([]byte, 0, blockECLen*numBlocks)
	for i := 0; i < blockECLen; i++ {
		for _, block := range ecBlocks {
			ecCodewords = append(ecCodewords, block[i])
		}
	}

	return dataCodewords, ecCodewords, nil
}

// reedSolomonComputeDivisor creates a Reed-Solomon error correction generator
// polynomial of the given degree.
func reedSolomonComputeDivisor(degree int) []byte {
	if degree < 1 || degree > 255 {
		panic("degree out of range")
	}

	// Polynomial coefficients are stored from highest to lowest power,
	// excluding the leading term, which is always 1. For example, the
	// polynomial x^3 + 255*x^2 + 8x + 93 is stored as the byte array [255, 8,
	// 93].
	result := make([]byte, degree)
	result[degree-1] = 1 // Start off with the monomial x^0.

	// Compute the product polynomial (x - r^0) * (x - r^1) * (x - r^2) * ...
	// * (x - r^(degree - 1)), and drop the highest monomial term which is
	// always 1*x^degree. Note that r = 0x02, which is a generator element of
	// this field GF(2^8/0x11D).
	root := byte(1)
	for i := 0; i < degree; i++ {
		// Multiply the current product by (x - r^i).
		for j := 0; j < len(result); j++ {
			result[j] = reedSolomonMultiply(result[j], root)
			if j+1 < len(result) {
				result[j] ^= result[j+1]
			}
		}
		root = reedSolomonMultiply(root, 0x02)
	}

	return result
}

// reedSolomonMultiply returns the product of the two given field elements
// modulo GF(2^8/0x11D).
func reedSolomonMultiply(x, y byte) byte {
	// Russian peasant multiplication.
	z := 0
	for i := 7; i >= 0; i-- {
		z = z<<1 ^ z>>7*0x11D
		z ^= int(y >> i & 1 * x)
	}

	return byte(z)
}

// reedSolomonComputeRemainder returns the Reed-Solomon error correction
// codewords for the given data and divisor polynomials.
func reedSolomonComputeRemainder(data, divisor []byte) []byte {
	result := make([]byte, len(divisor))
	for _, b := range data { // Polynomial division.
		factor := b ^ result[0]
		copy(result[0:], result[1:])
		result[len(result)-1] = 0
		for i := 0; i < len(result); i++ {
			result[i] ^= reedSolomonMultiply(divisor[i], factor)
		}
	}

	return result
}
