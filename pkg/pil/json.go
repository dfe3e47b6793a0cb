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
package pil

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// ReadConstraintSet reads and parses the JSON encoding of an analyzed
// constraint set from a given file.
func ReadConstraintSet(filename string) (*ConstraintSet, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	//
	cs, err := ParseConstraintSet(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	//
	return cs, nil
}

// ParseConstraintSet parses the JSON encoding of an analyzed constraint set.
func ParseConstraintSet(data []byte) (*ConstraintSet, error) {
	var body jsonConstraintSet
	//
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	//
	return body.toConstraintSet()
}

// =============================================================================
// JSON layout
// =============================================================================

type jsonConstraintSet struct {
	Identities    []jsonIdentity `json:"identities"`
	Intermediates []jsonSymbol   `json:"intermediates"`
}

type jsonIdentity struct {
	Id        uint64     `json:"id"`
	Kind      string     `json:"kind"`
	Attribute string     `json:"attribute,omitempty"`
	Source    jsonSource `json:"source"`
	Expr      jsonExpr   `json:"expr"`
}

type jsonSource struct {
	File string `json:"file"`
	Line uint   `json:"line"`
}

type jsonSymbol struct {
	Name  string     `json:"name"`
	Exprs []jsonExpr `json:"exprs"`
}

// jsonExpr is an enumeration of expression forms.  Exactly one of its fields
// must be non-nil.
type jsonExpr struct {
	Number    *string        `json:"number,omitempty"`
	Reference *jsonReference `json:"reference,omitempty"`
	Binary    *jsonBinary    `json:"binary,omitempty"`
	Unary     *jsonUnary     `json:"unary,omitempty"`
	Public    *jsonPublic    `json:"public,omitempty"`
	Challenge *jsonChallenge `json:"challenge,omitempty"`
}

type jsonReference struct {
	Name string `json:"name"`
	Next bool   `json:"next,omitempty"`
}

type jsonBinary struct {
	Left  jsonExpr `json:"left"`
	Op    string   `json:"op"`
	Right jsonExpr `json:"right"`
}

type jsonUnary struct {
	Op   string   `json:"op"`
	Expr jsonExpr `json:"expr"`
}

type jsonPublic struct {
	Name string `json:"name"`
}

type jsonChallenge struct {
	Index uint64 `json:"index"`
}

// =============================================================================
// Translation
// =============================================================================

func (p *jsonConstraintSet) toConstraintSet() (*ConstraintSet, error) {
	var cs ConstraintSet
	//
	for _, identity := range p.Identities {
		translated, err := identity.toIdentity()
		if err != nil {
			return nil, fmt.Errorf("identity %d: %w", identity.Id, err)
		}
		//
		cs.Identities = append(cs.Identities, translated)
	}
	//
	for _, symbol := range p.Intermediates {
		translated, err := symbol.toSymbol()
		if err != nil {
			return nil, fmt.Errorf("intermediate %q: %w", symbol.Name, err)
		}
		//
		cs.Intermediates = append(cs.Intermediates, translated)
	}
	//
	return &cs, nil
}

func (p *jsonIdentity) toIdentity() (Identity, error) {
	kind, err := identityKindOf(p.Kind)
	if err != nil {
		return Identity{}, err
	}
	//
	expr, err := p.Expr.toExpr()
	if err != nil {
		return Identity{}, err
	}
	//
	return Identity{
		Id:        p.Id,
		Kind:      kind,
		Attribute: p.Attribute,
		Source:    SourceRef{p.Source.File, p.Source.Line},
		Expr:      expr,
	}, nil
}

func (p *jsonSymbol) toSymbol() (Symbol, error) {
	symbol := Symbol{Name: p.Name}
	//
	for _, expr := range p.Exprs {
		translated, err := expr.toExpr()
		if err != nil {
			return Symbol{}, err
		}
		//
		symbol.Exprs = append(symbol.Exprs, translated)
	}
	//
	return symbol, nil
}

func (p *jsonExpr) toExpr() (Expr, error) {
	if err := p.checkOneOf(); err != nil {
		return nil, err
	}
	//
	switch {
	case p.Number != nil:
		return parseConstant(*p.Number)
	case p.Reference != nil:
		return &Reference{p.Reference.Name, p.Reference.Next}, nil
	case p.Binary != nil:
		return p.Binary.toExpr()
	case p.Unary != nil:
		return p.Unary.toExpr()
	case p.Public != nil:
		return &PublicReference{p.Public.Name}, nil
	default:
		return &Challenge{p.Challenge.Index}, nil
	}
}

func (p *jsonExpr) checkOneOf() error {
	count := 0
	//
	for _, set := range []bool{
		p.Number != nil, p.Reference != nil, p.Binary != nil,
		p.Unary != nil, p.Public != nil, p.Challenge != nil,
	} {
		if set {
			count++
		}
	}
	//
	switch count {
	case 0:
		return fmt.Errorf("missing expression form")
	case 1:
		return nil
	}
	//
	return fmt.Errorf("ambiguous expression (%d forms given)", count)
}

func (p *jsonBinary) toExpr() (Expr, error) {
	op, err := binaryOpOf(p.Op)
	if err != nil {
		return nil, err
	}
	//
	left, err := p.Left.toExpr()
	if err != nil {
		return nil, err
	}
	//
	right, err := p.Right.toExpr()
	if err != nil {
		return nil, err
	}
	//
	return &Binary{left, op, right}, nil
}

func (p *jsonUnary) toExpr() (Expr, error) {
	if p.Op != "minus" {
		return nil, fmt.Errorf("unknown unary operator %q", p.Op)
	}
	//
	expr, err := p.Expr.toExpr()
	if err != nil {
		return nil, err
	}
	//
	return &Unary{Minus, expr}, nil
}

// Parse a decimal or 0x-prefixed hexadecimal constant into a field element.
func parseConstant(text string) (Expr, error) {
	value, ok := new(big.Int).SetString(text, 0)
	if !ok {
		return nil, fmt.Errorf("malformed number %q", text)
	}
	//
	var element fr.Element
	element.SetBigInt(value)
	//
	return &Constant{element}, nil
}

func binaryOpOf(name string) (BinaryOp, error) {
	switch name {
	case "add":
		return Add, nil
	case "sub":
		return Sub, nil
	case "mul":
		return Mul, nil
	case "pow":
		return Pow, nil
	}
	//
	return 0, fmt.Errorf("unknown binary operator %q", name)
}

func identityKindOf(name string) (IdentityKind, error) {
	switch name {
	case "polynomial":
		return Polynomial, nil
	case "lookup":
		return Lookup, nil
	case "permutation":
		return Permutation, nil
	case "connect":
		return Connect, nil
	}
	//
	return 0, fmt.Errorf("unknown identity kind %q", name)
}
