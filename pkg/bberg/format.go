// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package bberg

import (
	"encoding/binary"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// FormatField renders a field constant as it appears in generated code.
// Values which fit an unsigned 64-bit integer render as a plain decimal;
// anything larger renders as an explicit uint256 built from its four 64-bit
// limbs, least significant first.
func FormatField(value fr.Element) string {
	if value.IsUint64() {
		return fmt.Sprintf("%d", value.Uint64())
	}
	// Canonical big-endian bytes of the value.
	bytes := value.Bytes()
	//
	return fmt.Sprintf("FF(uint256_t{0x%016xUL, 0x%016xUL, 0x%016xUL, 0x%016xUL})",
		binary.BigEndian.Uint64(bytes[24:32]),
		binary.BigEndian.Uint64(bytes[16:24]),
		binary.BigEndian.Uint64(bytes[8:16]),
		binary.BigEndian.Uint64(bytes[0:8]))
}
