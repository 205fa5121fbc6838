package modal

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"github.com/notargets/framemodal/utils"
	"gonum.org/v1/gonum/mat"
)

// Result holds the eigenpairs of K·v = λ·M·v. Column i of Vectors belongs
// to Values[i].
type Result struct {
	Values  []complex128
	Vectors *mat.CDense
}

// Size is the number of eigenpairs
func (r *Result) Size() int { return len(r.Values) }

// Solve computes the eigenpairs of the generalized problem K·v = λ·M·v by
// forming M⁻¹K and running a dense nonsymmetric eigen decomposition. The
// pairs are returned in the order the decomposition produces them.
//
// An empty system gives an empty Result. A singular M is reported as
// utils.ErrIllPosed.
func Solve(K, M mat.Matrix) (*Result, error) {
	kr, kc := K.Dims()
	mr, mc := M.Dims()
	if kr != kc || mr != mc || kr != mr {
		return nil, fmt.Errorf("K is %dx%d, M is %dx%d, want equal square matrices: %w",
			kr, kc, mr, mc, utils.ErrIllPosed)
	}
	n := kr
	if n == 0 {
		return &Result{Vectors: &mat.CDense{}}, nil
	}

	A, err := reduceToStandard(K, M)
	if err != nil {
		return nil, err
	}

	var eig mat.Eigen
	if ok := eig.Factorize(A, mat.EigenRight); !ok {
		return nil, fmt.Errorf("eigen decomposition of %dx%d system: %w", n, n, utils.ErrNotConverged)
	}

	res := &Result{
		Values:  eig.Values(nil),
		Vectors: mat.NewCDense(n, n, nil),
	}
	eig.VectorsTo(res.Vectors)
	return res, nil
}

// reduceToStandard returns A = M⁻¹K through an LU factorisation of M
func reduceToStandard(K, M mat.Matrix) (*mat.Dense, error) {
	var lu mat.LU
	lu.Factorize(M)
	if lu.Det() == 0 || lu.Cond() > 1/eps {
		return nil, fmt.Errorf("mass matrix is singular (condition %g): %w", lu.Cond(), utils.ErrIllPosed)
	}

	var A mat.Dense
	if err := lu.SolveTo(&A, false, K); err != nil {
		return nil, fmt.Errorf("solving M⁻¹K: %v: %w", err, utils.ErrIllPosed)
	}
	return &A, nil
}

// eps is the float64 machine epsilon
const eps = 0x1p-52

// Sort orders the eigenpairs by ascending real part, then ascending
// magnitude. Vector columns are permuted with their values.
func (r *Result) Sort() {
	n := len(r.Values)
	if n == 0 {
		return
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		va, vb := r.Values[perm[a]], r.Values[perm[b]]
		if real(va) != real(vb) {
			return real(va) < real(vb)
		}
		return cmplx.Abs(va) < cmplx.Abs(vb)
	})

	values := make([]complex128, n)
	vectors := mat.NewCDense(n, n, nil)
	for dst, src := range perm {
		values[dst] = r.Values[src]
		for i := 0; i < n; i++ {
			vectors.Set(i, dst, r.Vectors.At(i, src))
		}
	}
	r.Values, r.Vectors = values, vectors
}

// realTol is the relative size below which an imaginary part or a negative
// real part is treated as round-off
const realTol = 1e-9

// Frequencies converts eigenvalues to circular frequencies ω = √λ (rad/s)
// and cyclic frequencies f = ω/2π (Hz). Values that are not real and
// non-negative map to NaN.
func (r *Result) Frequencies() (omega, hertz []float64) {
	scale := 1.0
	for _, v := range r.Values {
		scale = math.Max(scale, cmplx.Abs(v))
	}
	tol := realTol * scale

	omega = make([]float64, len(r.Values))
	hertz = make([]float64, len(r.Values))
	for i, v := range r.Values {
		lambda := real(v)
		if math.Abs(imag(v)) > tol || lambda < -tol {
			omega[i], hertz[i] = math.NaN(), math.NaN()
			continue
		}
		omega[i] = math.Sqrt(math.Max(lambda, 0))
		hertz[i] = omega[i] / (2 * math.Pi)
	}
	return omega, hertz
}

// Mode returns eigenvector i as a real slice when its imaginary parts
// vanish within tol
func (r *Result) Mode(i int, tol float64) ([]float64, bool) {
	n, _ := r.Vectors.Dims()
	v := make([]float64, n)
	for j := 0; j < n; j++ {
		c := r.Vectors.At(j, i)
		if math.Abs(imag(c)) > tol {
			return nil, false
		}
		v[j] = real(c)
	}
	return v, true
}
