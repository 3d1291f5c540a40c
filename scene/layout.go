package scene

// Record layouts for the flat per-kind arrays. Offsets are relative to the
// start of a record, in float32 units. The tracer decodes records with these
// constants; the builder encodes them. Changing a layout requires a full
// scene rebuild, never an in-place patch.

// Bounding volumes.
const (
	// Infinite volumes carry no data.
	BoundsInfiniteSize = 0

	BoundsBoxMin  = 0
	BoundsBoxMax  = 3
	BoundsBoxSize = 6

	BoundsSphereCenter = 0
	BoundsSphereRadius = 3
	BoundsSphereSize   = 4
)

// Shapes.
const (
	SphereCenter = 0
	SphereRadius = 3
	SphereSize   = 4

	// Three non-collinear points; the surface normal follows (B-A)x(C-A).
	PlaneA    = 0
	PlaneB    = 3
	PlaneC    = 6
	PlaneSize = 9

	TrianglePositionA = 0
	TrianglePositionB = 3
	TrianglePositionC = 6
	TriangleNormalA   = 9
	TriangleNormalB   = 12
	TriangleNormalC   = 15
	TriangleUVA       = 18
	TriangleUVB       = 20
	TriangleUVC       = 22
	TriangleSize      = 24

	// Triangle mesh: a count followed by inlined triangle records.
	MeshTriangleCount = 0
	MeshFirstTriangle = 1

	RectangleOrigin = 0
	RectangleSideA  = 3
	RectangleSideB  = 6
	RectangleSize   = 9

	CuboidMin  = 0
	CuboidMax  = 3
	CuboidSize = 6

	DiskRadiusInner = 0
	DiskRadiusOuter = 1
	DiskZMax        = 2
	DiskPhiMax      = 3
	DiskSize        = 4

	ConeRadius = 0
	ConeZMax   = 1
	ConePhiMax = 2
	ConeSize   = 3

	CylinderRadius = 0
	CylinderZMin   = 1
	CylinderZMax   = 2
	CylinderPhiMax = 3
	CylinderSize   = 4

	ParaboloidRadius = 0
	ParaboloidZMin   = 1
	ParaboloidZMax   = 2
	ParaboloidPhiMax = 3
	ParaboloidSize   = 4

	HyperboloidPointA = 0
	HyperboloidPointB = 3
	HyperboloidAH     = 6
	HyperboloidCH     = 7
	HyperboloidZMin   = 8
	HyperboloidZMax   = 9
	HyperboloidRMax   = 10
	HyperboloidPhiMax = 11
	HyperboloidSize   = 12

	TorusRadiusInner = 0
	TorusRadiusOuter = 1
	TorusSize        = 2

	// Polygon: a vertex count followed by coplanar 3D vertices.
	PolygonVertexCount = 0
	PolygonFirstVertex = 1
)

// Materials. Texture references are stored inline as (kind, offset) float
// pairs.
const (
	TexRefSize = 2

	MatteKD   = 0
	MatteSize = 2

	MirrorKR   = 0
	MirrorSize = 2

	GlassEta  = 0
	GlassKR   = 2
	GlassKT   = 4
	GlassSize = 6

	ClearCoatKD   = 0
	ClearCoatKS   = 2
	ClearCoatSize = 4

	GlossyKR        = 0
	GlossyRoughness = 2
	GlossySize      = 4

	MetalKR        = 0
	MetalRoughness = 2
	MetalSize      = 4

	PlasticKD        = 0
	PlasticKS        = 2
	PlasticRoughness = 4
	PlasticSize      = 6

	SubstrateKD        = 0
	SubstrateKS        = 2
	SubstrateRoughness = 4
	SubstrateSize      = 6
)

// Textures.
const (
	ConstantColor = 0
	ConstantSize  = 3

	ImageWidth       = 0
	ImageHeight      = 1
	ImageAngle       = 2
	ImageScaleU      = 3
	ImageScaleV      = 4
	ImageTexelOffset = 5
	ImageSize        = 6

	MarbleColorA    = 0
	MarbleColorB    = 3
	MarbleColorC    = 6
	MarbleFrequency = 9
	MarbleScale     = 10
	MarbleStripes   = 11
	MarbleOctaves   = 12
	MarbleSize      = 13

	FBMColor     = 0
	FBMFrequency = 3
	FBMGain      = 4
	FBMOctaves   = 5
	FBMSize      = 6

	BlendTextureA = 0
	BlendTextureB = 2
	BlendWeight   = 4
	BlendSize     = 5

	BullseyeTextureA = 0
	BullseyeTextureB = 2
	BullseyeOrigin   = 4
	BullseyeScale    = 7
	BullseyeSize     = 8

	CheckerboardTextureA = 0
	CheckerboardTextureB = 2
	CheckerboardAngle    = 4
	CheckerboardScaleU   = 5
	CheckerboardScaleV   = 6
	CheckerboardSize     = 7

	PolkaDotTextureA   = 0
	PolkaDotTextureB   = 2
	PolkaDotAngle      = 4
	PolkaDotCellRes    = 5
	PolkaDotDotRadius  = 6
	PolkaDotSize       = 7

	VizSize = 1
)

// Lights.
const (
	PointPosition  = 0
	PointIntensity = 3
	PointSize      = 6

	DirectionalDirection = 0
	DirectionalRadiance  = 3
	DirectionalSize      = 6

	AreaRadiance       = 0
	AreaTwoSided       = 3
	AreaPrimitiveIndex = 4
	AreaSize           = 5

	EnvironmentWidth       = 0
	EnvironmentHeight      = 1
	EnvironmentTexelOffset = 2
	EnvironmentScale       = 3
	EnvironmentAngle       = 6
	EnvironmentSize        = 7
)
