package ssagraph

import (
	"go/token"

	"golang.org/x/tools/go/ssa"

	"github.com/sirkon/smpath/internal/facts"
	"github.com/sirkon/smpath/internal/supergraph"
)

// trackedValues collects values compared with constants in branch conditions.
func (g *Graph) trackedValues() map[ssa.Value]struct{} {
	res := map[ssa.Value]struct{}{}
	for _, blk := range g.order {
		if v, _, _, ok := branchCondition(blk.block); ok {
			res[v] = struct{}{}
		}
	}

	// Phi operands carry facts into the phi itself.
	for changed := true; changed; {
		changed = false
		for _, blk := range g.order {
			for _, instr := range blk.block.Instrs {
				phi, ok := instr.(*ssa.Phi)
				if !ok {
					continue
				}
				if _, ok := res[phi]; ok {
					continue
				}
				for _, e := range phi.Edges {
					if _, ok := res[e]; ok {
						res[phi] = struct{}{}
						changed = true
						break
					}
				}
			}
		}
	}

	return res
}

// constrain attaches constraints to the edge. The branch condition of the origin
// comes first, then the redefinitions happening on entering the destination.
func (g *Graph) constrain(j *Jump, tracked map[ssa.Value]struct{}) {
	var cs []facts.Constraint

	if v, c, op, ok := branchCondition(j.src.block); ok {
		taken := op == token.EQL
		if j.branch == supergraph.BranchFalse {
			taken = !taken
		}

		cop := facts.OpNe
		if taken {
			cop = facts.OpEq
		}
		cs = append(cs, facts.Constraint{Expr: ValueExpr(v), Op: cop, Value: constString(c)})
	}

	predIndex := -1
	for i, p := range j.dst.block.Preds {
		if p == j.src.block {
			predIndex = i
			break
		}
	}

	for _, instr := range j.dst.block.Instrs {
		v, ok := instr.(ssa.Value)
		if !ok {
			continue
		}
		if _, ok := tracked[v]; !ok {
			continue
		}

		phi, ok := v.(*ssa.Phi)
		if ok && predIndex >= 0 {
			if c, ok := phi.Edges[predIndex].(*ssa.Const); ok {
				cs = append(cs, facts.Constraint{Expr: ValueExpr(phi), Op: facts.OpAssign, Value: constString(c)})
				continue
			}
			if _, ok := tracked[phi.Edges[predIndex]]; ok {
				cs = append(cs,
					facts.Constraint{Expr: ValueExpr(phi), Op: facts.OpForget},
					facts.Constraint{Expr: ValueExpr(phi), Op: facts.OpSame, Value: string(ValueExpr(phi.Edges[predIndex]))},
				)
				continue
			}
		}

		cs = append(cs, facts.Constraint{Expr: ValueExpr(v), Op: facts.OpForget})
	}

	if len(cs) > 0 {
		g.constraints[j] = cs
	}
}

// branchCondition matches blocks ending with
//
//	t = v == C
//	if t goto … else …
//
// with either operand order and either of == and !=.
func branchCondition(b *ssa.BasicBlock) (ssa.Value, *ssa.Const, token.Token, bool) {
	if len(b.Instrs) == 0 {
		return nil, nil, token.ILLEGAL, false
	}

	ifInstr, ok := b.Instrs[len(b.Instrs)-1].(*ssa.If)
	if !ok {
		return nil, nil, token.ILLEGAL, false
	}

	cond, ok := ifInstr.Cond.(*ssa.BinOp)
	if !ok || (cond.Op != token.EQL && cond.Op != token.NEQ) {
		return nil, nil, token.ILLEGAL, false
	}

	xc, xok := cond.X.(*ssa.Const)
	yc, yok := cond.Y.(*ssa.Const)
	switch {
	case xok == yok:
		return nil, nil, token.ILLEGAL, false
	case yok:
		return cond.X, yc, cond.Op, true
	default:
		return cond.Y, xc, cond.Op, true
	}
}
