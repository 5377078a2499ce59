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

import "errors"

// Errors returned by the public entry points. There are no partial results:
// internal routines propagate these unchanged.
var (
	// ErrDataTooLong means the data cannot fit the largest usable symbol at
	// the requested error correction level.
	ErrDataTooLong = errors.New("qrgen: data too long")

	// ErrInvalidVersion means the version / error correction level
	// combination is unsupported.
	ErrInvalidVersion = errors.New("qrgen: invalid version")

	// ErrUnsupportedCharacterSet means the selected mode cannot be
	// represented at the current version.
	ErrUnsupportedCharacterSet = errors.New("qrgen: unsupported character set")

	// ErrInvalidCharacter means a byte outside the character set of the
	// segment was found.
	ErrInvalidCharacter = errors.New("qrgen: invalid character")
)
