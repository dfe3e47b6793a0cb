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

// Package pil models an analyzed PIL constraint system: the algebraic
// expression trees, identities and intermediate polynomial definitions which
// the backend compiles into relation code.  Values of this package are
// treated as immutable once constructed; rewrites (such as intermediate
// inlining) always build fresh trees.
package pil

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Expr is a node of an algebraic expression over the columns and intermediate
// polynomials of a constraint system.
type Expr interface {
	// String returns a human-readable rendering of this expression, using
	// the constraint language's own notation (e.g. a trailing apostrophe
	// for a next-row reference).  Used in diagnostics only.
	String() string
	// expr marks a node as belonging to this package, closing the set of
	// implementations.
	expr()
}

// BinaryOp identifies a binary operator of the constraint algebra.
type BinaryOp uint8

const (
	// Add is field addition.
	Add BinaryOp = iota
	// Sub is field subtraction.
	Sub
	// Mul is field multiplication.
	Mul
	// Pow is exponentiation.  It can appear in analyzed constraints but is
	// not supported by the relation backend.
	Pow
)

func (op BinaryOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Pow:
		return "^"
	}
	//
	return fmt.Sprintf("op(%d)", uint8(op))
}

// UnaryOp identifies a unary operator of the constraint algebra.
type UnaryOp uint8

// Minus is unary negation, the only unary operator.
const Minus UnaryOp = iota

func (op UnaryOp) String() string {
	if op == Minus {
		return "-"
	}
	//
	return fmt.Sprintf("op(%d)", uint8(op))
}

// Constant is a literal field element.
type Constant struct {
	Value fr.Element
}

// Const64 constructs a constant from a given unsigned value.
func Const64(value uint64) *Constant {
	return &Constant{fr.NewElement(value)}
}

func (p *Constant) String() string {
	return p.Value.String()
}

// Reference accesses a named column or intermediate polynomial, either on the
// current row or (when Next is set) on the following row.  Whether the name
// denotes a column or an intermediate is not recorded here; consumers decide
// by consulting the set of intermediate names.
type Reference struct {
	Name string
	Next bool
}

func (p *Reference) String() string {
	if p.Next {
		return p.Name + "'"
	}
	//
	return p.Name
}

// Binary applies a binary operator to two subexpressions.
type Binary struct {
	Left  Expr
	Op    BinaryOp
	Right Expr
}

func (p *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", p.Left, p.Op, p.Right)
}

// Unary applies a unary operator to a single subexpression.
type Unary struct {
	Op   UnaryOp
	Expr Expr
}

func (p *Unary) String() string {
	return fmt.Sprintf("(%s%s)", p.Op, p.Expr)
}

// PublicReference accesses a public input by name.  Public inputs live
// outside the trace and cannot be evaluated by the relation backend.
type PublicReference struct {
	Name string
}

func (p *PublicReference) String() string {
	return fmt.Sprintf("public(%s)", p.Name)
}

// Challenge accesses a verifier challenge by index.  Challenges likewise
// cannot be evaluated by the relation backend.
type Challenge struct {
	Index uint64
}

func (p *Challenge) String() string {
	return fmt.Sprintf("challenge(%d)", p.Index)
}

func (p *Constant) expr()        {}
func (p *Reference) expr()       {}
func (p *Binary) expr()          {}
func (p *Unary) expr()           {}
func (p *PublicReference) expr() {}
func (p *Challenge) expr()       {}
