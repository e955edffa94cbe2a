// Package formats provides decoders for baked terrain data: raw heightmaps,
// raw detail density blocks, packed density textures and normal maps.
package formats
