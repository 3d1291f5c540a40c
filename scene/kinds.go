package scene

// Entities in a compiled scene are addressed by a (kind, offset) pair instead
// of a pointer. The kind selects one of the flat per-kind arrays and the
// dispatch branch that understands its layout; the offset is an index in
// float32 units into that array.
type KindOffset struct {
	Kind   int32
	Offset int32
}

// NoRef marks an absent reference (e.g. a primitive without an area light).
var NoRef = KindOffset{Kind: -1}

// Valid returns false for absent references.
func (ref KindOffset) Valid() bool {
	return ref.Kind >= 0
}

// Bounding volume kinds.
const (
	BoundsInfinite int32 = iota
	BoundsBox
	BoundsSphere

	BoundsKindCount
)

// Shape kinds.
const (
	ShapeCone int32 = iota
	ShapeCylinder
	ShapeDisk
	ShapeHyperboloid
	ShapeParaboloid
	ShapePlane
	ShapePolygon
	ShapeRectangle
	ShapeCuboid
	ShapeSphere
	ShapeTorus
	ShapeTriangle
	ShapeTriangleMesh

	ShapeKindCount
)

// Material kinds.
const (
	MaterialMatte int32 = iota
	MaterialMirror
	MaterialGlass
	MaterialClearCoat
	MaterialGlossy
	MaterialMetal
	MaterialPlastic
	MaterialSubstrate

	MaterialKindCount
)

// Texture kinds.
const (
	TextureConstant int32 = iota
	TextureImage
	TextureMarble
	TextureFBM
	TextureBlend
	TextureBullseye
	TextureCheckerboard
	TexturePolkaDot
	TextureNormalViz
	TextureUVViz

	TextureKindCount
)

// Light kinds.
const (
	LightPoint int32 = iota
	LightDirectional
	LightArea
	LightEnvironment

	LightKindCount
)

func shapeKindName(kind int32) string {
	switch kind {
	case ShapeCone:
		return "cone"
	case ShapeCylinder:
		return "cylinder"
	case ShapeDisk:
		return "disk"
	case ShapeHyperboloid:
		return "hyperboloid"
	case ShapeParaboloid:
		return "paraboloid"
	case ShapePlane:
		return "plane"
	case ShapePolygon:
		return "polygon"
	case ShapeRectangle:
		return "rectangle"
	case ShapeCuboid:
		return "cuboid"
	case ShapeSphere:
		return "sphere"
	case ShapeTorus:
		return "torus"
	case ShapeTriangle:
		return "triangle"
	case ShapeTriangleMesh:
		return "triangle mesh"
	}
	return "unknown"
}

func materialKindName(kind int32) string {
	switch kind {
	case MaterialMatte:
		return "matte"
	case MaterialMirror:
		return "mirror"
	case MaterialGlass:
		return "glass"
	case MaterialClearCoat:
		return "clear coat"
	case MaterialGlossy:
		return "glossy"
	case MaterialMetal:
		return "metal"
	case MaterialPlastic:
		return "plastic"
	case MaterialSubstrate:
		return "substrate"
	}
	return "unknown"
}

func textureKindName(kind int32) string {
	switch kind {
	case TextureConstant:
		return "constant"
	case TextureImage:
		return "image"
	case TextureMarble:
		return "marble"
	case TextureFBM:
		return "fbm"
	case TextureBlend:
		return "blend"
	case TextureBullseye:
		return "bullseye"
	case TextureCheckerboard:
		return "checkerboard"
	case TexturePolkaDot:
		return "polka dot"
	case TextureNormalViz:
		return "normal viz"
	case TextureUVViz:
		return "uv viz"
	}
	return "unknown"
}

func lightKindName(kind int32) string {
	switch kind {
	case LightPoint:
		return "point"
	case LightDirectional:
		return "directional"
	case LightArea:
		return "area"
	case LightEnvironment:
		return "environment"
	}
	return "unknown"
}
