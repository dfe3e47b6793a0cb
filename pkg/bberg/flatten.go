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
	"fmt"

	"github.com/consensys/go-pilcom/pkg/pil"
	"github.com/consensys/go-pilcom/pkg/util"
	"github.com/consensys/go-pilcom/pkg/util/collection/set"
)

// ComputeExpression flattens an algebraic expression into a placeholder
// pattern.  The given set holds the sanitized names of every intermediate
// polynomial and drives the column-versus-alias classification of each
// reference.  Parentheses are inserted only where the fixed shape of this
// algebra requires them; a subtraction of a literal zero collapses to its
// left operand.
func ComputeExpression(expr pil.Expr, aliasNames *set.SortedSet[string]) (PolynomialExpression, error) {
	return computeExpression(expr, aliasNames, nil)
}

func computeExpression(expr pil.Expr, aliasNames *set.SortedSet[string], parent pil.Expr) (PolynomialExpression, error) {
	switch e := expr.(type) {
	case *pil.Constant:
		return PolynomialExpression{Pattern: FormatField(e.Value)}, nil
	case *pil.Reference:
		return referenceExpression(e, aliasNames), nil
	case *pil.Binary:
		return binaryExpression(e, aliasNames, parent)
	case *pil.Unary:
		return unaryExpression(e, aliasNames)
	default:
		return PolynomialExpression{}, &UnsupportedExpressionError{exprKind(expr)}
	}
}

// A reference flattens to a single placeholder token.  Classification is
// two-phase: the generic reference is first sanitized, then tagged as alias
// or column by name-set membership.  The next-row flag is ignored for
// aliases; for columns it selects the shifted column entry.
func referenceExpression(ref *pil.Reference, aliasNames *set.SortedSet[string]) PolynomialExpression {
	name := util.SanitizeName(ref.Name)
	//
	if aliasNames.Contains(name) {
		return placeholderExpression(name, PlaceholderAlias)
	}
	//
	if ref.Next {
		name += "_shift"
	}
	//
	return placeholderExpression(name, PlaceholderColumn)
}

func placeholderExpression(name string, kind PlaceholderKind) PolynomialExpression {
	return PolynomialExpression{
		Pattern:      "{" + name + "}",
		Placeholders: []Placeholder{{name, kind}},
	}
}

func binaryExpression(e *pil.Binary, aliasNames *set.SortedSet[string], parent pil.Expr) (PolynomialExpression, error) {
	// A subtrahend of literally zero drops out, with the left operand
	// standing in for the whole subtraction.
	if e.Op == pil.Sub && isZero(e.Right) {
		return computeExpression(e.Left, aliasNames, parent)
	}
	//
	left, err := computeExpression(e.Left, aliasNames, e)
	if err != nil {
		return PolynomialExpression{}, err
	}
	//
	right, err := computeExpression(e.Right, aliasNames, e)
	if err != nil {
		return PolynomialExpression{}, err
	}
	//
	var pattern string
	//
	switch e.Op {
	case pil.Add, pil.Mul:
		pattern = fmt.Sprintf("%s %s %s", left.Pattern, e.Op, right.Pattern)
		//
		if hasParentPriority(parent, e) {
			pattern = "(" + pattern + ")"
		}
	case pil.Sub:
		// Subtraction is not associative, so always parenthesized.
		pattern = fmt.Sprintf("(%s - %s)", left.Pattern, right.Pattern)
	default:
		return PolynomialExpression{}, &UnsupportedOperatorError{e.Op.String()}
	}
	//
	return PolynomialExpression{
		Pattern:      pattern,
		Placeholders: mergePlaceholders(left.Placeholders, right.Placeholders),
	}, nil
}

// Unary minus prefixes its operand without passing any parent context down,
// so the operand never parenthesizes itself on account of the minus.
func unaryExpression(e *pil.Unary, aliasNames *set.SortedSet[string]) (PolynomialExpression, error) {
	if e.Op != pil.Minus {
		return PolynomialExpression{}, &UnsupportedOperatorError{e.Op.String()}
	}
	//
	inner, err := computeExpression(e.Expr, aliasNames, nil)
	if err != nil {
		return PolynomialExpression{}, err
	}
	//
	inner.Pattern = "-" + inner.Pattern
	//
	return inner, nil
}

// hasParentPriority decides whether a child expression must parenthesize
// itself within its parent.  Only Add and Mul children ever consult this: a
// Mul child needs parentheses under a Pow parent, whilst an Add child needs
// them under Pow, Mul, Sub or a unary minus.  Everything else relies on
// left-to-right evaluation.
func hasParentPriority(parent, child pil.Expr) bool {
	childOp, ok := binaryOpOf(child)
	if !ok {
		return false
	}
	//
	switch childOp {
	case pil.Mul:
		parentOp, ok := binaryOpOf(parent)
		return ok && parentOp == pil.Pow
	case pil.Add:
		if parentOp, ok := binaryOpOf(parent); ok {
			return parentOp == pil.Pow || parentOp == pil.Mul || parentOp == pil.Sub
		}
		//
		if unary, ok := parent.(*pil.Unary); ok {
			return unary.Op == pil.Minus
		}
	}
	//
	return false
}

func binaryOpOf(expr pil.Expr) (pil.BinaryOp, bool) {
	if binary, ok := expr.(*pil.Binary); ok {
		return binary.Op, true
	}
	//
	return 0, false
}

// An expression is a literal zero only if it is a constant node holding the
// field's zero.
func isZero(expr pil.Expr) bool {
	constant, ok := expr.(*pil.Constant)
	return ok && constant.Value.IsZero()
}
