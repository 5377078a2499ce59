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
 *
 * See https://www.thonky.com/qr-code-tutorial/introduction and
 * https://en.wikipedia.org/wiki/QR_code for an explanation of how QR codes
 * are formatted.
 */

package qrgen

// dataLengths contains the maximum payload size in bits for each (version,
// error correction level) pair. Normal versions occupy rows 0 to 39, Micro
// versions rows 40 to 43; a zero Micro cell marks an unsupported combination.
var dataLengths = [][4]int{
	// Normal versions.
	{152, 128, 104, 72},
	{272, 224, 176, 128},
	{440, 352, 272, 208},
	{640, 512, 384, 288},
	{864, 688, 496, 368},
	{1088, 864, 608, 480},
	{1248, 992, 704, 528},
	{1552, 1232, 880, 688},
	{1856, 1456, 1056, 800},
	{2192, 1728, 1232, 976},
	{2592, 2032, 1440, 1120},
	{2960, 2320, 1648, 1264},
	{3424, 2672, 1952, 1440},
	{3688, 2920, 2088, 1576},
	{4184, 3320, 2360, 1784},
	{4712, 3624, 2600, 2024},
	{5176, 4056, 2936, 2264},
	{5768, 4504, 3176, 2504},
	{6360, 5016, 3560, 2728},
	{6888, 5352, 3880, 3080},
	{7456, 5712, 4096, 3248},
	{8048, 6256, 4544, 3536},
	{8752, 6880, 4912, 3712},
	{9392, 7312, 5312, 4112},
	{10208, 8000, 5744, 4304},
	{10960, 8496, 6032, 4768},
	{11744, 9024, 6464, 5024},
	{12248, 9544, 6968, 5288},
	{13048, 10136, 7288, 5608},
	{13880, 10984, 7880, 5960},
	{14744, 11640, 8264, 6344},
	{15640, 12328, 8920, 6760},
	{16568, 13048, 9368, 7208},
	{17528, 13800, 9848, 7688},
	{18448, 14496, 10288, 7888},
	{19472, 15312, 10832, 8432},
	{20528, 15936, 11408, 8768},
	{21616, 16816, 12016, 9136},
	{22496, 17728, 12656, 9776},
	{23648, 18672, 13328, 10208},
	// Micro versions.
	{20, 0, 0, 0},
	{40, 32, 0, 0},
	{84, 68, 0, 0},
	{128, 112, 80, 0},
}

var (
	eccCodewordsPerBlock = [4][41]int{
		// Version: (note that index 0 is for padding, and is set to an illegal
		// value)
		//       0,  1,  2,  3,  4,  5,  6,  7,  8,  9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 36, 37, 38, 39, 40      Error correction level
		{-1, 7, 10, 15, 20, 26, 18, 20, 24, 30, 18, 20, 24, 26, 30, 22, 24, 28, 30, 28, 28, 28, 28, 30, 30, 26, 28, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30},  // L
		{-1, 10, 16, 26, 18, 24, 16, 18, 22, 22, 26, 30, 22, 22, 24, 24, 28, 28, 26, 26, 26, 26, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28}, // M
		{-1, 13, 22, 18, 26, 18, 24, 18, 22, 20, 24, 28, 26, 24, 20, 30, 24, 28, 28, 26, 30, 28, 30, 30, 30, 30, 28, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30}, // Q
		{-1, 17, 28, 22, 16, 22, 28, 26, 26, 24, 28, 24, 28, 22, 24, 24, 30, 28, 28, 26, 28, 30, 24, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30}, // H
	}

	numErrorCorrectionBlocks = [4][41]int{
		// Version: (note that index 0 is for padding, and is set to an illegal
		// value)
		//       0, 1, 2, 3, 4, 5, 6, 7, 8, 9,10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 36, 37, 38, 39, 40      Error correction level
		{-1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 4, 4, 4, 4, 4, 6, 6, 6, 6, 7, 8, 8, 9, 9, 10, 12, 12, 12, 13, 14, 15, 16, 17, 18, 19, 19, 20, 21, 22, 24, 25},              // L
		{-1, 1, 1, 1, 2, 2, 4, 4, 4, 5, 5, 5, 8, 9, 9, 10, 10, 11, 13, 14, 16, 17, 17, 18, 20, 21, 23, 25, 26, 28, 29, 31, 33, 35, 37, 38, 40, 43, 45, 47, 49},     // M
		{-1, 1, 1, 2, 2, 4, 4, 6, 6, 8, 8, 8, 10, 12, 16, 12, 17, 16, 18, 21, 20, 23, 23, 25, 27, 29, 34, 34, 35, 38, 40, 43, 45, 48, 51, 53, 56, 59, 62, 65, 68},  // Q
		{-1, 1, 1, 2, 4, 4, 4, 5, 6, 8, 8, 11, 11, 16, 16, 18, 16, 19, 21, 25, 25, 25, 34, 30, 32, 35, 37, 40, 42, 45, 48, 51, 54, 57, 60, 63, 66, 70, 74, 77, 81}, // H
	}

	numRawDataModules [41]int

	reedSolomonDivisors = make(map[int][]byte)
)

// formatInfosQR contains the encoded 15-bit format information, indexed by
// (ecLevel ^ 1) << 3 | mask.
var formatInfosQR = [32]uint32{
	0x5412, 0x5125, 0x5e7c, 0x5b4b, 0x45f9, 0x40ce, 0x4f97, 0x4aa0, 0x77c4, 0x72f3, 0x7daa, 0x789d,
	0x662f, 0x6318, 0x6c41, 0x6976, 0x1689, 0x13be, 0x1ce7, 0x19d0, 0x0762, 0x0255, 0x0d0c, 0x083b,
	0x355f, 0x3068, 0x3f31, 0x3a06, 0x24b4, 0x2183, 0x2eda, 0x2bed,
}

// Negative coordinates in the pattern coordinate tables refer to the opposite
// edge of the symbol: -k means width - k.
var formatInfoCoordsQRMain = [15][2]int{
	{0, 8}, {1, 8}, {2, 8}, {3, 8}, {4, 8}, {5, 8}, {7, 8}, {8, 8},
	{8, 7}, {8, 5}, {8, 4}, {8, 3}, {8, 2}, {8, 1}, {8, 0},
}

var formatInfoCoordsQRSide = [15][2]int{
	{8, -1}, {8, -2}, {8, -3}, {8, -4}, {8, -5}, {8, -6}, {8, -7},
	{-8, 8}, {-7, 8}, {-6, 8}, {-5, 8}, {-4, 8}, {-3, 8}, {-2, 8}, {-1, 8},
}

var versionInfoCoordsBL = [18][2]int{
	{5, -9}, {5, -10}, {5, -11},
	{4, -9}, {4, -10}, {4, -11},
	{3, -9}, {3, -10}, {3, -11},
	{2, -9}, {2, -10}, {2, -11},
	{1, -9}, {1, -10}, {1, -11},
	{0, -9}, {0, -10}, {0, -11},
}

var versionInfoCoordsTR = [18][2]int{
	{-9, 5}, {-10, 5}, {-11, 5},
	{-9, 4}, {-10, 4}, {-11, 4},
	{-9, 3}, {-10, 3}, {-11, 3},
	{-9, 2}, {-10, 2}, {-11, 2},
	{-9, 1}, {-10, 1}, {-11, 1},
	{-9, 0}, {-10, 0}, {-11, 0},
}

// versionInfos contains the encoded 18-bit version information for versions 7
// to 40.
var versionInfos = [34]uint32{
	0x07c94, 0x085bc, 0x09a99, 0x0a4d3, 0x0bbf6, 0x0c762, 0x0d847, 0x0e60d, 0x0f928, 0x10b78,
	0x1145d, 0x12a17, 0x13532, 0x149a6, 0x15683, 0x168c9, 0x177ec, 0x18ec4, 0x191e1, 0x1afab,
	0x1b08e, 0x1cc1a, 0x1d33f, 0x1ed75, 0x1f250, 0x209d5, 0x216f0, 0x228ba, 0x2379f, 0x24b0b,
	0x2542e, 0x26a64, 0x27541, 0x28c69,
}

// alignmentPatternPositions contains the alignment pattern center coordinates
// for versions 7 to 40. Versions 2 to 6 carry a single pattern at (-7, -7)
// and version 1 has none.
var alignmentPatternPositions = [34][]int{
	{6, 22, 38},
	{6, 24, 42},
	{6, 26, 46},
	{6, 28, 50},
	{6, 30, 54},
	{6, 32, 58},
	{6, 34, 62},
	{6, 26, 46, 66},
	{6, 26, 48, 70},
	{6, 26, 50, 74},
	{6, 30, 54, 78},
	{6, 30, 56, 82},
	{6, 30, 58, 86},
	{6, 34, 62, 90},
	{6, 28, 50, 72, 94},
	{6, 26, 50, 74, 98},
	{6, 30, 54, 78, 102},
	{6, 28, 54, 80, 106},
	{6, 32, 58, 84, 110},
	{6, 30, 58, 86, 114},
	{6, 34, 62, 90, 118},
	{6, 26, 50, 74, 98, 122},
	{6, 30, 54, 78, 102, 126},
	{6, 26, 52, 78, 104, 130},
	{6, 30, 56, 82, 108, 134},
	{6, 34, 60, 86, 112, 138},
	{6, 30, 58, 86, 114, 142},
	{6, 34, 62, 90, 118, 146},
	{6, 30, 54, 78, 102, 126, 150},
	{6, 24, 50, 76, 102, 128, 154},
	{6, 28, 54, 80, 106, 132, 158},
	{6, 32, 58, 84, 110, 136, 162},
	{6, 26, 54, 82, 110, 138, 166},
	{6, 30, 58, 86, 114, 142, 170},
}

func init() {
	// Initialize the numRawDataModules table for each version number [1, 40].
	// numRawDataModules contains the number of data bits that can be stored in
	// a QR code for each version number, after all function modules are
	// excluded. This includes remainder bits, so it might not be a multiple of
	// 8. The result is in the range [208, 29648].
	for v := 1; v <= 40; v++ {
		result := (16*v+128)*v + 64
		if v >= 2 {
			numAlign := v/7 + 2
			result -= (25*numAlign-10)*numAlign - 55 // Subtract alignment patterns.
			if v >= 7 {
				result -= 36 // Subtract version information.
			}
		}
		if result < 208 || result > 29648 {
			panic("numRawDataModules miscalculated")
		}
		numRawDataModules[v] = result
	}

	// Precompute the Reed-Solomon divisor polynomials.
	for e := 0; e < 4; e++ {
		for v := 1; v <= 40; v++ {
			w := eccCodewordsPerBlock[e][v]
			if _, ok := reedSolomonDivisors[w]; ok {
				continue
			}
			reedSolomonDivisors[w] = reedSolomonComputeDivisor(w)
		}
	}
}

func abs(a int) int {
	if a >= 0 {
		return a
	}

	return -a
}

func bToI(b bool) int {
	if b {
		return 1
	}

	return 0
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}

	return b
}
