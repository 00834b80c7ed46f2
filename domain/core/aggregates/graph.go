package aggregates

import (
	"fmt"

	"kbgraph/domain/config"
	"kbgraph/domain/core/entities"
	"kbgraph/domain/core/valueobjects"
	pkgerrors "kbgraph/pkg/errors"
)

// LinkKind records where a link came from
type LinkKind string

const (
	LinkDeclared LinkKind = "declared"
	LinkCurated  LinkKind = "curated"
)

// Node is the graph vertex for one article
type Node struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Category string `json:"category"`
	Val      int    `json:"val"`
}

// Link is a directed source/target pair. Adjacency queries treat it as undirected.
type Link struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Value  float64  `json:"value"`
	Kind   LinkKind `json:"kind"`
}

// Graph is the node/link structure handed to renderers. It is built once by
// Assemble and never mutated afterwards.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`

	index map[string]int
}

// Stats contains graph statistics
type Stats struct {
	NodeCount    int     `json:"node_count"`
	LinkCount    int     `json:"link_count"`
	ClusterCount int     `json:"cluster_count"`
	Density      float64 `json:"density"`
}

// Assemble builds the graph from a compiled article list.
//
// Nodes follow the article order; a repeated slug keeps its first article.
// Declared links are kept only when both endpoints are known nodes. Curated
// pairs are appended in their defined order when both endpoints exist and no
// link already joins the pair in either direction. Self-references pass through.
func Assemble(articles []entities.Article, curated valueobjects.CuratedSet, cfg *config.DomainConfig) *Graph {
	cfg = cfg.OrDefault()

	g := &Graph{
		Nodes: make([]Node, 0, len(articles)),
		Links: []Link{},
		index: make(map[string]int, len(articles)),
	}

	kept := make([]entities.Article, 0, len(articles))
	for _, a := range articles {
		id := a.Slug.String()
		if _, exists := g.index[id]; exists {
			continue
		}
		kept = append(kept, a)
		g.index[id] = len(g.Nodes)
		g.Nodes = append(g.Nodes, Node{
			ID:       id,
			Name:     a.DisplayName(),
			Slug:     id,
			Category: a.Category,
			Val:      cfg.NodeSize,
		})
	}

	joined := make(map[string]struct{})

	for _, a := range kept {
		source := a.Slug.String()
		for _, target := range a.Connections {
			if !g.HasNode(target) {
				continue
			}
			g.Links = append(g.Links, Link{Source: source, Target: target, Value: cfg.LinkWeight, Kind: LinkDeclared})
			joined[pairKey(source, target)] = struct{}{}
		}
	}

	for _, p := range curated.Pairs() {
		if !g.HasNode(p.Source) || !g.HasNode(p.Target) {
			continue
		}
		key := pairKey(p.Source, p.Target)
		if _, exists := joined[key]; exists {
			continue
		}
		g.Links = append(g.Links, Link{Source: p.Source, Target: p.Target, Value: cfg.LinkWeight, Kind: LinkCurated})
		joined[key] = struct{}{}
	}

	return g
}

// HasNode checks if a node exists in the graph
func (g *Graph) HasNode(id string) bool {
	_, exists := g.lookup()[id]
	return exists
}

// Node returns the node with the given identifier
func (g *Graph) Node(id string) (Node, bool) {
	i, exists := g.lookup()[id]
	if !exists {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// HasLink reports whether any link joins a and b, in either direction
func (g *Graph) HasLink(a, b string) bool {
	for _, l := range g.Links {
		if (l.Source == a && l.Target == b) || (l.Source == b && l.Target == a) {
			return true
		}
	}
	return false
}

// Neighbors returns every node one link away from id, in either direction,
// in node order. A self-loop makes a node its own neighbor.
func (g *Graph) Neighbors(id string) []Node {
	adjacent := make(map[string]struct{})
	for _, l := range g.Links {
		switch id {
		case l.Source:
			adjacent[l.Target] = struct{}{}
		case l.Target:
			adjacent[l.Source] = struct{}{}
		}
	}

	neighbors := []Node{}
	for _, n := range g.Nodes {
		if _, ok := adjacent[n.ID]; ok {
			neighbors = append(neighbors, n)
		}
	}
	return neighbors
}

// FindPath finds a shortest undirected path between two nodes using BFS
func (g *Graph) FindPath(startID, endID string) ([]string, error) {
	if !g.HasNode(startID) {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("node %q", startID))
	}
	if !g.HasNode(endID) {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("node %q", endID))
	}

	if startID == endID {
		return []string{startID}, nil
	}

	adjacency := g.adjacency()
	parent := map[string]string{startID: ""}
	queue := []string{startID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range adjacency[current] {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = current

			if next == endID {
				path := []string{}
				for n := endID; n != ""; n = parent[n] {
					path = append([]string{n}, path...)
				}
				return path, nil
			}
			queue = append(queue, next)
		}
	}

	return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("path from %q to %q", startID, endID))
}

// Clusters returns the connected components, each in discovery order
func (g *Graph) Clusters() [][]string {
	adjacency := g.adjacency()
	visited := make(map[string]bool, len(g.Nodes))
	clusters := [][]string{}

	for _, n := range g.Nodes {
		if visited[n.ID] {
			continue
		}

		cluster := []string{}
		stack := []string{n.ID}
		visited[n.ID] = true
		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			cluster = append(cluster, current)

			for _, next := range adjacency[current] {
				if !visited[next] {
					visited[next] = true
					stack = append(stack, next)
				}
			}
		}
		clusters = append(clusters, cluster)
	}

	return clusters
}

// Stats computes node, link and cluster counts plus undirected density
func (g *Graph) Stats() Stats {
	stats := Stats{
		NodeCount:    len(g.Nodes),
		LinkCount:    len(g.Links),
		ClusterCount: len(g.Clusters()),
	}

	if n := len(g.Nodes); n > 1 {
		maxPossible := n * (n - 1) / 2
		stats.Density = float64(len(g.Links)) / float64(maxPossible)
	}

	return stats
}

// Validate ensures no link references a missing node and node ids are unique
func (g *Graph) Validate() error {
	seen := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("duplicate node %q", n.ID)
		}
		seen[n.ID] = struct{}{}
	}

	for _, l := range g.Links {
		if _, ok := seen[l.Source]; !ok {
			return fmt.Errorf("link references non-existent source node %q", l.Source)
		}
		if _, ok := seen[l.Target]; !ok {
			return fmt.Errorf("link references non-existent target node %q", l.Target)
		}
	}

	return nil
}

// Clone returns an independent copy of the graph
func (g *Graph) Clone() *Graph {
	c := &Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Links: make([]Link, len(g.Links)),
		index: g.lookup(),
	}
	copy(c.Nodes, g.Nodes)
	copy(c.Links, g.Links)
	return c
}

// lookup returns the id index, building it for graphs decoded from JSON.
// The index is shared read-only between clones.
func (g *Graph) lookup() map[string]int {
	if g.index != nil {
		return g.index
	}
	index := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		if _, exists := index[n.ID]; !exists {
			index[n.ID] = i
		}
	}
	return index
}

// adjacency returns undirected neighbor lists in link order
func (g *Graph) adjacency() map[string][]string {
	adjacency := make(map[string][]string, len(g.Nodes))
	for _, l := range g.Links {
		adjacency[l.Source] = append(adjacency[l.Source], l.Target)
		if l.Source != l.Target {
			adjacency[l.Target] = append(adjacency[l.Target], l.Source)
		}
	}
	return adjacency
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}
