package scene

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/helios-render/helios/types"
	"github.com/olekukonko/tablewriter"
)

// A primitive binds together a shape, its material, a bounding volume used
// for cheap culling and an optional area light. All cross-entity links are
// (kind, offset) references into the per-kind flat arrays of the owning
// scene; every offset must address a valid record in the scene generation the
// primitive belongs to.
type Primitive struct {
	Bounds   KindOffset
	Shape    KindOffset
	Material KindOffset

	// AreaLight is NoRef for non-emissive primitives.
	AreaLight KindOffset

	// Index into the scene's transform list.
	TransformIndex int32
}

// An object-to-world / world-to-object matrix pair for one primitive.
type Transform struct {
	ObjectToWorld types.Mat4
	WorldToObject types.Mat4
}

// Camera lens models.
type LensKind int32

const (
	LensThin LensKind = iota
	LensFisheye
)

// The compiled camera. Unlike the flat entity arrays the camera is a single
// fixed-size record, so it is kept as a plain struct.
type Camera struct {
	Eye types.Vec3

	// Orthonormal basis. W points from the eye into the scene.
	U types.Vec3
	V types.Vec3
	W types.Vec3

	// Per-axis field of view in radians.
	FovX float32
	FovY float32

	ApertureRadius float32
	FocalDistance  float32

	Lens LensKind

	FrameW uint32
	FrameH uint32
}

// Scene is the compiled, flat representation of a scene: one array per
// entity kind plus the primitive and transform lists. It is produced as a
// whole by a Builder and treated as read-only for its entire generation;
// scene changes swap in a freshly built Scene, they never patch arrays in
// place.
type Scene struct {
	Primitives []Primitive
	Transforms []Transform

	ShapeData    [ShapeKindCount][]float32
	MaterialData [MaterialKindCount][]float32
	TextureData  [TextureKindCount][]float32
	LightData    [LightKindCount][]float32
	BoundsData   [BoundsKindCount][]float32

	// Shared texel block for image textures and environment maps. Records
	// address it through their stored texel offsets; pixels are RGB triplets
	// in scanline order.
	TexelData []float32

	// Every light in the scene, used for uniform light selection.
	LightRefs []KindOffset

	Camera Camera
}

// Build a tabular representation of scene statistics.
func (sc *Scene) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Entity", "Kind", "Records", "Size"})

	table.Append([]string{"Primitives", "---", fmt.Sprintf("%d", len(sc.Primitives)), fmtSize(len(sc.Primitives) * 5 * 4)})
	table.Append([]string{"Transforms", "---", fmt.Sprintf("%d", len(sc.Transforms)), fmtSize(len(sc.Transforms) * 32 * 4)})

	var total int
	total += len(sc.Primitives)*5*4 + len(sc.Transforms)*32*4

	for kind := int32(0); kind < ShapeKindCount; kind++ {
		if n := len(sc.ShapeData[kind]); n > 0 {
			table.Append([]string{"Shape", shapeKindName(kind), "", fmtSize(n * 4)})
			total += n * 4
		}
	}
	for kind := int32(0); kind < MaterialKindCount; kind++ {
		if n := len(sc.MaterialData[kind]); n > 0 {
			table.Append([]string{"Material", materialKindName(kind), "", fmtSize(n * 4)})
			total += n * 4
		}
	}
	for kind := int32(0); kind < TextureKindCount; kind++ {
		if n := len(sc.TextureData[kind]); n > 0 {
			table.Append([]string{"Texture", textureKindName(kind), "", fmtSize(n * 4)})
			total += n * 4
		}
	}
	for kind := int32(0); kind < LightKindCount; kind++ {
		if n := len(sc.LightData[kind]); n > 0 {
			table.Append([]string{"Light", lightKindName(kind), "", fmtSize(n * 4)})
			total += n * 4
		}
	}
	table.Append([]string{"Texels", "---", fmt.Sprintf("%d", len(sc.TexelData)/3), fmtSize(len(sc.TexelData) * 4)})
	total += len(sc.TexelData) * 4

	table.SetFooter([]string{"Total", "", "", strings.TrimLeft(fmtSize(total), " ")})
	table.Render()
	return buf.String()
}

// Format a byte count with the appropriate byte/kb/mb unit.
func fmtSize(totalBytes int) string {
	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", totalBytes)
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", float32(totalBytes)/1e3)
	}
	return fmt.Sprintf("%5.1f mb", float32(totalBytes)/1e6)
}
