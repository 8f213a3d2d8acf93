// Package enumerate expands benchmark step parameters into candidate solutions.
package enumerate

import (
	"iter"
	"maps"
	"slices"

	"go.trai.ch/kerntune/internal/core/domain"
)

// axis is one dimension of the product: every choice assigns one or more parameters.
type axis [][]domain.Param

// Permutations yields the Cartesian product of the fork axes followed by the parameter
// groups, in declaration order with the first axis varying slowest. A parameter group
// contributes one of its listed choices per assignment, never the product of its members.
//
// With no axes at all nothing is yielded: a step without forks contributes only custom
// kernels. An axis without choices empties the product.
func Permutations(forks []domain.ForkParam, groups []domain.ParamGroup) iter.Seq[domain.ParamAssignment] {
	axes := make([]axis, 0, len(forks)+len(groups))
	for _, f := range forks {
		a := make(axis, len(f.Values))
		for i, v := range f.Values {
			a[i] = []domain.Param{{Name: f.Name, Value: domain.Normalize(v)}}
		}
		axes = append(axes, a)
	}
	for _, g := range groups {
		a := make(axis, len(g))
		for i, choice := range g {
			params := make([]domain.Param, 0, len(choice))
			for _, k := range slices.Sorted(maps.Keys(choice)) {
				params = append(params, domain.Param{Name: k, Value: domain.Normalize(choice[k])})
			}
			a[i] = params
		}
		axes = append(axes, a)
	}

	return func(yield func(domain.ParamAssignment) bool) {
		if len(axes) == 0 {
			return
		}
		for _, a := range axes {
			if len(a) == 0 {
				return
			}
		}

		idx := make([]int, len(axes))
		for {
			var perm domain.ParamAssignment
			for i, a := range axes {
				perm = append(perm, a[idx[i]]...)
			}
			if !yield(perm) {
				return
			}

			// Advance the odometer, last axis fastest.
			i := len(axes) - 1
			for ; i >= 0; i-- {
				idx[i]++
				if idx[i] < len(axes[i]) {
					break
				}
				idx[i] = 0
			}
			if i < 0 {
				return
			}
		}
	}
}

// Count returns the number of assignments Permutations yields.
func Count(forks []domain.ForkParam, groups []domain.ParamGroup) int {
	if len(forks)+len(groups) == 0 {
		return 0
	}
	n := 1
	for _, f := range forks {
		n *= len(f.Values)
	}
	for _, g := range groups {
		n *= len(g)
	}
	return n
}
