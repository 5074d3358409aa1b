package modelstore

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/Madhumita-crypto/campus-energy-optimizer/core/factory"
	"github.com/Madhumita-crypto/campus-energy-optimizer/core/model"
)

// Node is one node of a regression tree. A node without Feature is a leaf
// carrying Value. Numeric splits send x <= Threshold to Left; building type
// splits send members of Categories to Left.
type Node struct {
	Feature    string   `json:"feature"`
	Threshold  float64  `json:"threshold"`
	Categories []string `json:"categories"`
	Left       int      `json:"left"`
	Right      int      `json:"right"`
	Value      float64  `json:"value"`
}

// Tree is a flat array of nodes rooted at index 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// ForestParams is the artifact payload of a tree ensemble.
type ForestParams struct {
	Name  string `json:"name"`
	Trees []Tree `json:"trees"`
}

type compiledNode struct {
	Node
	categories map[model.BuildingType]bool
}

// ForestModel averages the outputs of its regression trees.
type ForestModel struct {
	name  string
	trees [][]compiledNode
}

// NewForestModel validates the tree structure: indices in range, no cycles,
// known features.
func NewForestModel(p ForestParams) (*ForestModel, error) {
	if len(p.Trees) == 0 {
		return nil, fmt.Errorf("forest has no trees")
	}
	trees := make([][]compiledNode, len(p.Trees))
	for ti, t := range p.Trees {
		nodes, err := compileTree(t)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", ti, err)
		}
		trees[ti] = nodes
	}
	if p.Name == "" {
		p.Name = "forest"
	}
	return &ForestModel{name: p.Name, trees: trees}, nil
}

func compileTree(t Tree) ([]compiledNode, error) {
	if len(t.Nodes) == 0 {
		return nil, fmt.Errorf("empty tree")
	}
	out := make([]compiledNode, len(t.Nodes))
	for i, n := range t.Nodes {
		cn := compiledNode{Node: n}
		switch {
		case n.Feature == "":
		case n.Feature == "building_type":
			cn.categories = make(map[model.BuildingType]bool, len(n.Categories))
			for _, c := range n.Categories {
				bt, err := model.ParseBuildingType(c)
				if err != nil {
					return nil, fmt.Errorf("node %d: %w", i, err)
				}
				cn.categories[bt] = true
			}
		case isNumericFeature(n.Feature):
		default:
			return nil, fmt.Errorf("node %d: unknown feature %q", i, n.Feature)
		}
		if n.Feature != "" {
			for _, child := range []int{n.Left, n.Right} {
				if child <= i || child >= len(t.Nodes) {
					return nil, fmt.Errorf("node %d: child index %d out of range", i, child)
				}
			}
		}
		out[i] = cn
	}
	return out, nil
}

func newForestFromConf(conf map[string]any) (*ForestModel, error) {
	var p ForestParams
	if err := factory.Decode(conf, &p); err != nil {
		return nil, err
	}
	return NewForestModel(p)
}

// Name returns the artifact name.
func (m *ForestModel) Name() string { return m.name }

// Predict returns the mean of all tree outputs.
func (m *ForestModel) Predict(rec model.FeatureRecord) (float64, error) {
	outputs := make([]float64, len(m.trees))
	for i, nodes := range m.trees {
		v, err := evalTree(nodes, rec)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		outputs[i] = v
	}
	return stat.Mean(outputs, nil), nil
}

// evalTree walks from the root. Children always have a higher index than
// their parent, so the walk terminates.
func evalTree(nodes []compiledNode, rec model.FeatureRecord) (float64, error) {
	i := 0
	for {
		n := nodes[i]
		if n.Feature == "" {
			return n.Value, nil
		}
		var left bool
		if n.categories != nil {
			left = n.categories[rec.BuildingType]
		} else {
			x, err := numericFeature(rec, n.Feature)
			if err != nil {
				return 0, err
			}
			left = x <= n.Threshold
		}
		if left {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}
