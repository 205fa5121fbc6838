package builder

import (
	"errors"
	"fmt"

	"github.com/notargets/framemodal/assembly"
	"github.com/notargets/framemodal/element"
	"github.com/notargets/framemodal/material"
	"github.com/notargets/framemodal/mesh"
	"github.com/notargets/framemodal/utils"
)

// Builder collects a structural model through a fluent interface. Errors
// are remembered and reported by Build, so calls can be chained freely.
type Builder struct {
	kind element.Kind // default kind for Bar

	nodes       []*mesh.Node
	materials   map[int]*material.Material
	sections    map[int]*material.Section
	defs        []ElementDef
	constraints []mesh.Constraint

	errs []error
}

// ElementDef references its nodes, material and section by id
type ElementDef struct {
	ID         int
	Kind       element.Kind
	Nodes      [2]int
	MaterialID int
	SectionID  int
}

// Model is a validated model whose elements are not yet built
type Model struct {
	Mesh        *mesh.Mesh
	Specs       []assembly.ElementSpec
	Constraints []mesh.Constraint
	Materials   map[int]*material.Material
	Sections    map[int]*material.Section
}

// New starts a model whose Bar elements are of the given kind
func New(kind element.Kind) *Builder {
	return &Builder{
		kind:      kind,
		materials: make(map[int]*material.Material),
		sections:  make(map[int]*material.Section),
	}
}

func (b *Builder) fail(err error) *Builder {
	b.errs = append(b.errs, err)
	return b
}

// Node adds a node with 2 or 3 coordinates
func (b *Builder) Node(id int, coords ...float64) *Builder {
	n, err := mesh.NewNode(id, coords...)
	if err != nil {
		return b.fail(err)
	}
	b.nodes = append(b.nodes, n)
	return b
}

// Nodes adds one node per coordinate row, numbered from 0 in row order
func (b *Builder) Nodes(coords [][]float64) *Builder {
	for i, c := range coords {
		b.Node(i, c...)
	}
	return b
}

// Material registers a material under id
func (b *Builder) Material(id int, label string, young, rho float64) *Builder {
	if _, dup := b.materials[id]; dup {
		return b.fail(fmt.Errorf("duplicate material id %d: %w", id, utils.ErrInvalidMaterial))
	}
	m, err := material.NewMaterial(id, label, young, rho)
	if err != nil {
		return b.fail(err)
	}
	b.materials[id] = m
	return b
}

// Section registers a section of the given shape under id
func (b *Builder) Section(id int, shape material.Shape) *Builder {
	if _, dup := b.sections[id]; dup {
		return b.fail(fmt.Errorf("duplicate section id %d: %w", id, utils.ErrInvalidSectionParameters))
	}
	s, err := material.NewSection(id, shape)
	if err != nil {
		return b.fail(err)
	}
	b.sections[id] = s
	return b
}

// SectionParams registers a section from a shape name and named parameters
func (b *Builder) SectionParams(id int, kind string, params map[string]float64) *Builder {
	s, err := material.ParseSection(id, kind, params)
	if err != nil {
		return b.fail(err)
	}
	return b.Section(id, s.Shape)
}

// Bar adds an element of the builder's default kind
func (b *Builder) Bar(id, n1, n2, materialID, sectionID int) *Builder {
	return b.Element(ElementDef{ID: id, Kind: b.kind, Nodes: [2]int{n1, n2},
		MaterialID: materialID, SectionID: sectionID})
}

// Element adds an element definition
func (b *Builder) Element(def ElementDef) *Builder {
	b.defs = append(b.defs, def)
	return b
}

// Fix constrains the listed dofs of a node, true meaning fixed
func (b *Builder) Fix(nodeID int, dofs ...bool) *Builder {
	b.constraints = append(b.constraints, mesh.Fix(nodeID, dofs...))
	return b
}

// Constrain adds a constraint in row form [node, flag0, flag1, ...]
func (b *Builder) Constrain(row ...int) *Builder {
	c, err := mesh.ParseConstraint(row)
	if err != nil {
		return b.fail(err)
	}
	b.constraints = append(b.constraints, c)
	return b
}

// Build validates the collected definitions. Element matrices are not
// computed here.
func (b *Builder) Build() (*Model, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	m, err := mesh.NewMesh(b.nodes...)
	if err != nil {
		return nil, err
	}

	specs := make([]assembly.ElementSpec, len(b.defs))
	seen := make(map[int]bool, len(b.defs))
	for k, def := range b.defs {
		if seen[def.ID] {
			return nil, fmt.Errorf("duplicate element id %d: %w", def.ID, utils.ErrInvalidTopology)
		}
		seen[def.ID] = true

		mt, ok := b.materials[def.MaterialID]
		if !ok {
			return nil, fmt.Errorf("element %d: unknown material %d: %w",
				def.ID, def.MaterialID, utils.ErrInvalidTopology)
		}
		sec, ok := b.sections[def.SectionID]
		if !ok {
			return nil, fmt.Errorf("element %d: unknown section %d: %w",
				def.ID, def.SectionID, utils.ErrInvalidTopology)
		}
		for _, id := range def.Nodes {
			if _, err := m.Index(id); err != nil {
				return nil, fmt.Errorf("element %d: %w", def.ID, err)
			}
		}
		specs[k] = assembly.ElementSpec{
			ID:    def.ID,
			Kind:  def.Kind,
			Nodes: def.Nodes,
			Props: element.PropsFrom(mt, sec),
		}
	}

	return &Model{
		Mesh:        m,
		Specs:       specs,
		Constraints: append([]mesh.Constraint(nil), b.constraints...),
		Materials:   b.materials,
		Sections:    b.sections,
	}, nil
}

// Kinds lists the kind of every element spec
func (md *Model) Kinds() []element.Kind {
	kinds := make([]element.Kind, len(md.Specs))
	for k, s := range md.Specs {
		kinds[k] = s.Kind
	}
	return kinds
}

// Structure builds the elements serially and returns the assembled-ready
// structure
func (md *Model) Structure() (*assembly.Structure, error) {
	elems, err := assembly.BuildElementsSerial(md.Mesh, md.Specs)
	if err != nil {
		return nil, err
	}
	return assembly.NewStructure(md.Mesh, elems, md.Constraints)
}
