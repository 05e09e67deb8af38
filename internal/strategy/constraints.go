package strategy

import (
	"gonum.org/v1/gonum/floats"
)

// Constraints 拼接所有约束值为一个向量, 所有分量 >= 0 时可行。
// 顺序: [sum-1, -(sum-1), upper-w..., w-lower...]。
// 前两项互为相反数, 同时非负即强制 sum(w) == 1。
func Constraints(w, lower, upper []float64) []float64 {
	sum := floats.Sum(w)

	vals := make([]float64, 0, 2+2*len(w))
	vals = append(vals, sum-1, -(sum - 1))
	for i := range w {
		vals = append(vals, upper[i]-w[i])
	}
	for i := range w {
		vals = append(vals, w[i]-lower[i])
	}
	return vals
}

// Feasible 判断约束向量是否全部满足 (允许浮点误差)
func Feasible(vals []float64, tol float64) bool {
	for _, v := range vals {
		if v < -tol {
			return false
		}
	}
	return true
}

// penalty 对违反的约束分量施加二次罚项
func penalty(vals []float64, weight float64) float64 {
	var p float64
	for _, v := range vals {
		if v < 0 {
			p += weight * v * v
		}
	}
	return p
}
