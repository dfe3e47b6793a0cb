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
	"github.com/consensys/go-pilcom/pkg/pil"
)

// DegreeOf computes the polynomial degree of an expression.  Callers must
// inline intermediates beforehand, since a reference counts as degree one
// whatever it names.  Constants (and any node without trace references)
// count as degree zero, whilst exponentiation is rejected outright.  The
// resulting degree sizes the subrelation: a protocol checking an identity of
// degree d needs d+1 evaluation points.
func DegreeOf(expr pil.Expr) (uint, error) {
	switch e := expr.(type) {
	case *pil.Reference:
		return 1, nil
	case *pil.Binary:
		left, err := DegreeOf(e.Left)
		if err != nil {
			return 0, err
		}
		//
		right, err := DegreeOf(e.Right)
		if err != nil {
			return 0, err
		}
		//
		switch e.Op {
		case pil.Add, pil.Sub:
			return max(left, right), nil
		case pil.Mul:
			return left + right, nil
		}
		//
		return 0, &UnsupportedOperatorError{e.Op.String()}
	case *pil.Unary:
		if e.Op != pil.Minus {
			return 0, &UnsupportedOperatorError{e.Op.String()}
		}
		//
		return DegreeOf(e.Expr)
	}
	//
	return 0, nil
}
