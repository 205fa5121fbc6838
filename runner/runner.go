package runner

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/notargets/framemodal/assembly"
	"github.com/notargets/framemodal/builder"
	"github.com/notargets/framemodal/element"
	"github.com/notargets/framemodal/modal"
	"github.com/notargets/framemodal/partitions"
	"gonum.org/v1/gonum/mat"
)

// Config controls how a model is built, assembled and solved
type Config struct {
	Partitions int                          // <= 1 builds and assembles serially
	Strategy   partitions.PartitionStrategy // element to partition assignment
	Parallel   int                          // max concurrent partitions, <= 0 unlimited
	SortModes  bool                         // sort eigenpairs by ascending real part
	Verbose    bool                         // print phase summaries to Out
	Mass       element.Options              // beam and frame mass model, applied to every element
	Out        io.Writer
}

// Runner orchestrates build, assembly and the eigen solve of one model
type Runner struct {
	Config

	Layout    *partitions.PartitionLayout // nil for a serial run
	Structure *assembly.Structure
	K, M      *mat.Dense
	Result    *modal.Result

	timings []phase
}

type phase struct {
	name    string
	elapsed time.Duration
}

// NewRunner creates a runner; a nil Out writes to stdout
func NewRunner(cfg Config) *Runner {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	return &Runner{Config: cfg}
}

func (r *Runner) logf(format string, args ...interface{}) {
	if r.Verbose {
		fmt.Fprintf(r.Out, format, args...)
	}
}

func (r *Runner) timed(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	r.timings = append(r.timings, phase{name, time.Since(start)})
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	r.logf("%-10s %v\n", name, time.Since(start))
	return nil
}

// Run builds the elements of model, assembles K and M and solves the
// generalized eigenproblem
func (r *Runner) Run(model *builder.Model) (*modal.Result, error) {
	if model == nil {
		return nil, fmt.Errorf("nil model")
	}
	r.timings = r.timings[:0]

	specs := model.Specs
	if r.Mass != (element.Options{}) {
		specs = make([]assembly.ElementSpec, len(model.Specs))
		for k, spec := range model.Specs {
			spec.Options = r.Mass
			specs[k] = spec
		}
		r.logf("mass model %v\n", r.Mass.Mass)
	}

	if r.Partitions > 1 {
		pb := partitions.PartitionBuilder{
			NumElements:   len(model.Specs),
			ElementKinds:  model.Kinds(),
			NumPartitions: r.Partitions,
			Strategy:      r.Strategy,
		}
		layout, err := pb.BuildPartitions()
		if err != nil {
			return nil, fmt.Errorf("partition: %w", err)
		}
		r.Layout = layout
		r.logf("partitions %d (%v), KpartMax %d\n", layout.NumPartitions, r.Strategy, layout.KpartMax)
		for _, p := range layout.Partitions {
			for _, g := range p.KindGroups {
				r.logf("  partition %d: %d x %s (%d dofs)\n", p.ID, g.Count, g.Kind, g.NumDofs)
			}
		}
	} else {
		r.Layout = nil
	}

	err := r.timed("build", func() error {
		elems, err := assembly.BuildElements(model.Mesh, specs, r.Layout, r.Parallel)
		if err != nil {
			return err
		}
		r.Structure, err = assembly.NewStructure(model.Mesh, elems, model.Constraints)
		return err
	})
	if err != nil {
		return nil, err
	}
	r.logf("%v\n", r.Structure)

	err = r.timed("assemble", func() (err error) {
		if r.Layout != nil {
			r.K, r.M, err = r.Structure.AssemblePartitioned(r.Layout)
		} else {
			r.K, r.M, err = r.Structure.Assemble()
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	err = r.timed("solve", func() (err error) {
		r.Result, err = modal.Solve(r.K, r.M)
		return err
	})
	if err != nil {
		return nil, err
	}
	if r.SortModes {
		r.Result.Sort()
	}
	return r.Result, nil
}

// Report writes the eigenvalues, their frequencies and the eigenvector
// matrix of the last run
func (r *Runner) Report(w io.Writer) error {
	if r.Result == nil {
		return fmt.Errorf("no result, call Run first")
	}
	res := r.Result
	omega, hz := res.Frequencies()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Eigenvalues (%d):\n", res.Size())
	for i, v := range res.Values {
		fmt.Fprintf(&sb, "%4d  %s  omega=%.6e rad/s  f=%.6e Hz\n", i, formatComplex(v), omega[i], hz[i])
	}

	n, _ := res.Vectors.Dims()
	fmt.Fprintf(&sb, "Eigenvectors [%d][%d] (columns):\n", n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if j > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(formatComplex(res.Vectors.At(i, j)))
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func formatComplex(v complex128) string {
	if imag(v) == 0 {
		return fmt.Sprintf("%13.6e", real(v))
	}
	return fmt.Sprintf("(%13.6e%+13.6ei)", real(v), imag(v))
}

// String summarises the last run
func (r *Runner) String() string {
	if r.Structure == nil {
		return "runner: not run"
	}
	var sb strings.Builder
	sb.WriteString(r.Structure.String())
	if r.Layout != nil {
		fmt.Fprintf(&sb, "; %d partitions (%v)", r.Layout.NumPartitions, r.Strategy)
	}
	if r.Result != nil {
		fmt.Fprintf(&sb, "; %d modes", r.Result.Size())
	}
	for _, p := range r.timings {
		fmt.Fprintf(&sb, "; %s %v", p.name, p.elapsed)
	}
	return sb.String()
}
