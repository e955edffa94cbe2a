package main

import "github.com/Faultbox/grassfield/internal/engine/grass"

// counter is a grass.Submitter that tallies what would be drawn.
type counter struct {
	draws     int
	instances int
	vertices  int
	indices   int
	byLayer   map[string]int

	debugDraws    int
	debugVertices int
}

func newCounter() *counter {
	return &counter{byLayer: make(map[string]int)}
}

func (c *counter) reset() {
	c.draws, c.instances, c.vertices, c.indices = 0, 0, 0, 0
	c.debugDraws, c.debugVertices = 0, 0
	clear(c.byLayer)
}

// submitLines records a debug line list. Empty lists are not drawn.
func (c *counter) submitLines(vertices int) {
	if vertices == 0 {
		return
	}
	c.debugDraws++
	c.debugVertices += vertices
}

func (c *counter) SubmitInstanced(layer grass.LayerConfig, b grass.InstanceBatch) {
	c.draws++
	c.instances += b.Len()
	c.byLayer[layer.Name] += b.Len()
}

func (c *counter) SubmitMesh(layer grass.LayerConfig, b grass.MeshBatch) {
	c.draws++
	c.instances += b.Len()
	c.vertices += len(b.Vertices)
	c.indices += len(b.Indices)
	c.byLayer[layer.Name] += b.Len()
}
