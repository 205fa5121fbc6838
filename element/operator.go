package element

import (
	"fmt"
	"gonum.org/v1/gonum/mat"
	"sort"
	"strings"
)

// GetElementMatrices returns the cached matrices of an element keyed by
// "<matrix>_<kind short name><id>", e.g. "K_T23"
func GetElementMatrices(e *Element) (elMats map[string]mat.Matrix) {
	var (
		props = e.Properties()
		sn    = fmt.Sprintf("%s%d", props.ShortName, e.ID)
	)

	elMats = map[string]mat.Matrix{
		"R_" + sn: e.RotationMatrix(),
		"C_" + sn: e.ConstitutiveMatrix(),
		"K_" + sn: e.StiffnessMatrix(),
		"M_" + sn: e.MassMatrix(),
	}

	return
}

// FormatMatrices renders a set of named matrices in name order
func FormatMatrices(mats map[string]mat.Matrix) string {
	names := make([]string, 0, len(mats))
	for name := range mats {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(FormatMatrix(name, mats[name]))
	}
	return sb.String()
}

// FormatMatrix formats a single matrix row by row
func FormatMatrix(name string, m mat.Matrix) string {
	rows, cols := m.Dims()
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s [%d][%d] = {\n", name, rows, cols))

	for i := 0; i < rows; i++ {
		sb.WriteString("    {")
		for j := 0; j < cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(fmt.Sprintf("%.15e", m.At(i, j)))
		}
		sb.WriteString("}")
		if i < rows-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	return sb.String()
}

// String returns a one-line summary of the element
func (e *Element) String() string {
	props := e.Properties()
	return fmt.Sprintf("%s %d: nodes (%d, %d), L=%.6g, E=%.6g, A=%.6g, rho=%.6g",
		props.ShortName, e.ID, e.Node1.ID, e.Node2.ID, e.length, e.Young, e.Area, e.Rho)
}
