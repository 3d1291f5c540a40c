package scene

import (
	"github.com/chewxy/math32"
	"github.com/helios-render/helios/types"
)

// Builder assembles the flat arrays of a compiled scene. It plays the role of
// the scene compiler: entities are appended once, cross-references are handed
// out as (kind, offset) pairs, and Build returns the finished read-only
// scene. A Builder is not safe for concurrent use and must not be reused
// after Build.
type Builder struct {
	sc Scene
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) appendRecord(dst *[]float32, kind int32, data ...float32) KindOffset {
	ref := KindOffset{Kind: kind, Offset: int32(len(*dst))}
	*dst = append(*dst, data...)
	return ref
}

func (b *Builder) appendShape(kind int32, data ...float32) KindOffset {
	return b.appendRecord(&b.sc.ShapeData[kind], kind, data...)
}

func (b *Builder) appendMaterial(kind int32, data ...float32) KindOffset {
	return b.appendRecord(&b.sc.MaterialData[kind], kind, data...)
}

func (b *Builder) appendTexture(kind int32, data ...float32) KindOffset {
	return b.appendRecord(&b.sc.TextureData[kind], kind, data...)
}

func (b *Builder) appendLight(kind int32, data ...float32) KindOffset {
	ref := b.appendRecord(&b.sc.LightData[kind], kind, data...)
	b.sc.LightRefs = append(b.sc.LightRefs, ref)
	return ref
}

func (b *Builder) appendTexels(texels []float32) int32 {
	offset := int32(len(b.sc.TexelData))
	b.sc.TexelData = append(b.sc.TexelData, texels...)
	return offset
}

func texRef(ref KindOffset) []float32 {
	return []float32{float32(ref.Kind), float32(ref.Offset)}
}

// --- textures ---

func (b *Builder) ConstantTexture(color types.Vec3) KindOffset {
	return b.appendTexture(TextureConstant, color[0], color[1], color[2])
}

// ImageTexture appends the RGB texel block to the shared texel array and
// records its offset. Texels are scanline order, len = width*height*3.
func (b *Builder) ImageTexture(width, height int, texels []float32, angle, scaleU, scaleV float32) KindOffset {
	texelOffset := b.appendTexels(texels)
	return b.appendTexture(TextureImage,
		float32(width), float32(height), angle, scaleU, scaleV, float32(texelOffset))
}

func (b *Builder) MarbleTexture(colorA, colorB, colorC types.Vec3, frequency, scale, stripes float32, octaves int) KindOffset {
	data := make([]float32, 0, MarbleSize)
	data = append(data, colorA[0], colorA[1], colorA[2])
	data = append(data, colorB[0], colorB[1], colorB[2])
	data = append(data, colorC[0], colorC[1], colorC[2])
	data = append(data, frequency, scale, stripes, float32(octaves))
	return b.appendTexture(TextureMarble, data...)
}

func (b *Builder) FBMTexture(color types.Vec3, frequency, gain float32, octaves int) KindOffset {
	return b.appendTexture(TextureFBM, color[0], color[1], color[2], frequency, gain, float32(octaves))
}

func (b *Builder) BlendTexture(texA, texB KindOffset, weight float32) KindOffset {
	data := append(texRef(texA), texRef(texB)...)
	data = append(data, weight)
	return b.appendTexture(TextureBlend, data...)
}

func (b *Builder) BullseyeTexture(texA, texB KindOffset, origin types.Vec3, scale float32) KindOffset {
	data := append(texRef(texA), texRef(texB)...)
	data = append(data, origin[0], origin[1], origin[2], scale)
	return b.appendTexture(TextureBullseye, data...)
}

func (b *Builder) CheckerboardTexture(texA, texB KindOffset, angle, scaleU, scaleV float32) KindOffset {
	data := append(texRef(texA), texRef(texB)...)
	data = append(data, angle, scaleU, scaleV)
	return b.appendTexture(TextureCheckerboard, data...)
}

func (b *Builder) PolkaDotTexture(texA, texB KindOffset, angle, cellResolution, dotRadius float32) KindOffset {
	data := append(texRef(texA), texRef(texB)...)
	data = append(data, angle, cellResolution, dotRadius)
	return b.appendTexture(TexturePolkaDot, data...)
}

func (b *Builder) NormalVizTexture() KindOffset {
	return b.appendTexture(TextureNormalViz, 0)
}

func (b *Builder) UVVizTexture() KindOffset {
	return b.appendTexture(TextureUVViz, 0)
}

// --- materials ---

func (b *Builder) MatteMaterial(kd KindOffset) KindOffset {
	return b.appendMaterial(MaterialMatte, texRef(kd)...)
}

func (b *Builder) MirrorMaterial(kr KindOffset) KindOffset {
	return b.appendMaterial(MaterialMirror, texRef(kr)...)
}

func (b *Builder) GlassMaterial(eta, kr, kt KindOffset) KindOffset {
	data := append(texRef(eta), texRef(kr)...)
	data = append(data, texRef(kt)...)
	return b.appendMaterial(MaterialGlass, data...)
}

func (b *Builder) ClearCoatMaterial(kd, ks KindOffset) KindOffset {
	return b.appendMaterial(MaterialClearCoat, append(texRef(kd), texRef(ks)...)...)
}

func (b *Builder) GlossyMaterial(kr, roughness KindOffset) KindOffset {
	return b.appendMaterial(MaterialGlossy, append(texRef(kr), texRef(roughness)...)...)
}

func (b *Builder) MetalMaterial(kr, roughness KindOffset) KindOffset {
	return b.appendMaterial(MaterialMetal, append(texRef(kr), texRef(roughness)...)...)
}

func (b *Builder) PlasticMaterial(kd, ks, roughness KindOffset) KindOffset {
	data := append(texRef(kd), texRef(ks)...)
	data = append(data, texRef(roughness)...)
	return b.appendMaterial(MaterialPlastic, data...)
}

func (b *Builder) SubstrateMaterial(kd, ks, roughness KindOffset) KindOffset {
	data := append(texRef(kd), texRef(ks)...)
	data = append(data, texRef(roughness)...)
	return b.appendMaterial(MaterialSubstrate, data...)
}

// --- shapes ---

func (b *Builder) Sphere(center types.Vec3, radius float32) KindOffset {
	return b.appendShape(ShapeSphere, center[0], center[1], center[2], radius)
}

func (b *Builder) Plane(a, bp, c types.Vec3) KindOffset {
	data := make([]float32, 0, PlaneSize)
	data = append(data, a[0], a[1], a[2])
	data = append(data, bp[0], bp[1], bp[2])
	data = append(data, c[0], c[1], c[2])
	return b.appendShape(ShapePlane, data...)
}

func (b *Builder) Triangle(pa, pb, pc, na, nb, nc types.Vec3, uva, uvb, uvc types.Vec2) KindOffset {
	return b.appendShape(ShapeTriangle, triangleData(pa, pb, pc, na, nb, nc, uva, uvb, uvc)...)
}

func triangleData(pa, pb, pc, na, nb, nc types.Vec3, uva, uvb, uvc types.Vec2) []float32 {
	data := make([]float32, 0, TriangleSize)
	data = append(data, pa[0], pa[1], pa[2], pb[0], pb[1], pb[2], pc[0], pc[1], pc[2])
	data = append(data, na[0], na[1], na[2], nb[0], nb[1], nb[2], nc[0], nc[1], nc[2])
	data = append(data, uva[0], uva[1], uvb[0], uvb[1], uvc[0], uvc[1])
	return data
}

// MeshTriangle is one input triangle for TriangleMesh.
type MeshTriangle struct {
	PA, PB, PC types.Vec3
	NA, NB, NC types.Vec3
	UA, UB, UC types.Vec2
}

func (b *Builder) TriangleMesh(triangles []MeshTriangle) KindOffset {
	data := make([]float32, 0, MeshFirstTriangle+len(triangles)*TriangleSize)
	data = append(data, float32(len(triangles)))
	for _, tri := range triangles {
		data = append(data, triangleData(tri.PA, tri.PB, tri.PC, tri.NA, tri.NB, tri.NC, tri.UA, tri.UB, tri.UC)...)
	}
	return b.appendShape(ShapeTriangleMesh, data...)
}

func (b *Builder) Rectangle(origin, sideA, sideB types.Vec3) KindOffset {
	data := make([]float32, 0, RectangleSize)
	data = append(data, origin[0], origin[1], origin[2])
	data = append(data, sideA[0], sideA[1], sideA[2])
	data = append(data, sideB[0], sideB[1], sideB[2])
	return b.appendShape(ShapeRectangle, data...)
}

func (b *Builder) Cuboid(min, max types.Vec3) KindOffset {
	return b.appendShape(ShapeCuboid, min[0], min[1], min[2], max[0], max[1], max[2])
}

func (b *Builder) Disk(radiusInner, radiusOuter, zMax, phiMax float32) KindOffset {
	return b.appendShape(ShapeDisk, radiusInner, radiusOuter, zMax, phiMax)
}

func (b *Builder) Cone(radius, zMax, phiMax float32) KindOffset {
	return b.appendShape(ShapeCone, radius, zMax, phiMax)
}

func (b *Builder) Cylinder(radius, zMin, zMax, phiMax float32) KindOffset {
	return b.appendShape(ShapeCylinder, radius, zMin, zMax, phiMax)
}

func (b *Builder) Paraboloid(radius, zMin, zMax, phiMax float32) KindOffset {
	return b.appendShape(ShapeParaboloid, radius, zMin, zMax, phiMax)
}

// Hyperboloid derives the implicit surface ah*(x^2+y^2) - ch*z^2 = 1 passing
// through the two input points. The points must not lie at mirrored heights
// (z1^2 == z2^2) as the system is then singular.
func (b *Builder) Hyperboloid(pointA, pointB types.Vec3, phiMax float32) KindOffset {
	r1sq := pointA[0]*pointA[0] + pointA[1]*pointA[1]
	r2sq := pointB[0]*pointB[0] + pointB[1]*pointB[1]
	z1sq := pointA[2] * pointA[2]
	z2sq := pointB[2] * pointB[2]

	den := r2sq*z1sq - r1sq*z2sq
	if math32.Abs(den) < 1e-6 {
		den = 1e-6
	}
	ah := (z1sq - z2sq) / den
	ch := (r1sq - r2sq) / den

	zMin := math32.Min(pointA[2], pointB[2])
	zMax := math32.Max(pointA[2], pointB[2])
	rMax := math32.Max(math32.Sqrt(r1sq), math32.Sqrt(r2sq))

	data := make([]float32, 0, HyperboloidSize)
	data = append(data, pointA[0], pointA[1], pointA[2])
	data = append(data, pointB[0], pointB[1], pointB[2])
	data = append(data, ah, ch, zMin, zMax, rMax, phiMax)
	return b.appendShape(ShapeHyperboloid, data...)
}

func (b *Builder) Torus(radiusInner, radiusOuter float32) KindOffset {
	return b.appendShape(ShapeTorus, radiusInner, radiusOuter)
}

// Polygon vertices must be coplanar and wound consistently; the surface
// normal follows the winding of the first three vertices.
func (b *Builder) Polygon(vertices []types.Vec3) KindOffset {
	data := make([]float32, 0, PolygonFirstVertex+len(vertices)*3)
	data = append(data, float32(len(vertices)))
	for _, v := range vertices {
		data = append(data, v[0], v[1], v[2])
	}
	return b.appendShape(ShapePolygon, data...)
}

// --- primitives ---

// AddPrimitive registers a primitive and derives its world-space bounding
// volume from the shape and transform. Returns the primitive index.
func (b *Builder) AddPrimitive(shape, material KindOffset, objectToWorld types.Mat4) int {
	prim := Primitive{
		Bounds:         b.boundsFor(shape, objectToWorld),
		Shape:          shape,
		Material:       material,
		AreaLight:      NoRef,
		TransformIndex: int32(len(b.sc.Transforms)),
	}
	b.sc.Transforms = append(b.sc.Transforms, Transform{
		ObjectToWorld: objectToWorld,
		WorldToObject: objectToWorld.Inv(),
	})
	b.sc.Primitives = append(b.sc.Primitives, prim)
	return len(b.sc.Primitives) - 1
}

func (b *Builder) boundsFor(shape KindOffset, objectToWorld types.Mat4) KindOffset {
	data := b.sc.ShapeData[shape.Kind][shape.Offset:]

	switch shape.Kind {
	case ShapeSphere:
		// A world-space bounding sphere survives rotation; inflate the radius
		// by the largest axis scale.
		center := objectToWorld.MulPoint(types.Vec3{data[SphereCenter], data[SphereCenter+1], data[SphereCenter+2]})
		radius := data[SphereRadius] * maxAxisScale(objectToWorld)
		return b.appendRecord(&b.sc.BoundsData[BoundsSphere], BoundsSphere,
			center[0], center[1], center[2], radius)

	case ShapePlane:
		return KindOffset{Kind: BoundsInfinite}

	default:
		min, max, bounded := objectBounds(shape.Kind, data)
		if !bounded {
			return KindOffset{Kind: BoundsInfinite}
		}
		wmin, wmax := transformBounds(min, max, objectToWorld)
		return b.appendRecord(&b.sc.BoundsData[BoundsBox], BoundsBox,
			wmin[0], wmin[1], wmin[2], wmax[0], wmax[1], wmax[2])
	}
}

// Object-space axis-aligned bounds per shape kind.
func objectBounds(kind int32, data []float32) (min, max types.Vec3, bounded bool) {
	switch kind {
	case ShapeCone:
		r, zMax := data[ConeRadius], data[ConeZMax]
		return types.Vec3{-r, -r, 0}, types.Vec3{r, r, zMax}, true
	case ShapeCylinder:
		r := data[CylinderRadius]
		return types.Vec3{-r, -r, data[CylinderZMin]}, types.Vec3{r, r, data[CylinderZMax]}, true
	case ShapeDisk:
		r := data[DiskRadiusOuter]
		z := data[DiskZMax]
		return types.Vec3{-r, -r, z}, types.Vec3{r, r, z}, true
	case ShapeHyperboloid:
		r := data[HyperboloidRMax]
		return types.Vec3{-r, -r, data[HyperboloidZMin]}, types.Vec3{r, r, data[HyperboloidZMax]}, true
	case ShapeParaboloid:
		r := data[ParaboloidRadius]
		return types.Vec3{-r, -r, data[ParaboloidZMin]}, types.Vec3{r, r, data[ParaboloidZMax]}, true
	case ShapePolygon:
		n := int(data[PolygonVertexCount])
		return pointListBounds(data[PolygonFirstVertex:], n)
	case ShapeRectangle:
		o := types.Vec3{data[RectangleOrigin], data[RectangleOrigin+1], data[RectangleOrigin+2]}
		sa := types.Vec3{data[RectangleSideA], data[RectangleSideA+1], data[RectangleSideA+2]}
		sb := types.Vec3{data[RectangleSideB], data[RectangleSideB+1], data[RectangleSideB+2]}
		min, max = o, o
		for _, p := range []types.Vec3{o.Add(sa), o.Add(sb), o.Add(sa).Add(sb)} {
			min = types.MinVec3(min, p)
			max = types.MaxVec3(max, p)
		}
		return min, max, true
	case ShapeCuboid:
		return types.Vec3{data[CuboidMin], data[CuboidMin+1], data[CuboidMin+2]},
			types.Vec3{data[CuboidMax], data[CuboidMax+1], data[CuboidMax+2]}, true
	case ShapeTorus:
		out := data[TorusRadiusOuter] + data[TorusRadiusInner]
		return types.Vec3{-out, -out, -data[TorusRadiusInner]},
			types.Vec3{out, out, data[TorusRadiusInner]}, true
	case ShapeTriangle:
		return pointListBounds(data[TrianglePositionA:], 3)
	case ShapeTriangleMesh:
		count := int(data[MeshTriangleCount])
		first := true
		for i := 0; i < count; i++ {
			tmin, tmax, _ := pointListBounds(data[MeshFirstTriangle+i*TriangleSize:], 3)
			if first {
				min, max, first = tmin, tmax, false
				continue
			}
			min = types.MinVec3(min, tmin)
			max = types.MaxVec3(max, tmax)
		}
		return min, max, !first
	}
	return min, max, false
}

func pointListBounds(data []float32, n int) (min, max types.Vec3, ok bool) {
	if n == 0 {
		return min, max, false
	}
	min = types.Vec3{data[0], data[1], data[2]}
	max = min
	for i := 1; i < n; i++ {
		p := types.Vec3{data[i*3], data[i*3+1], data[i*3+2]}
		min = types.MinVec3(min, p)
		max = types.MaxVec3(max, p)
	}
	return min, max, true
}

func transformBounds(min, max types.Vec3, m types.Mat4) (types.Vec3, types.Vec3) {
	corners := [8]types.Vec3{
		{min[0], min[1], min[2]}, {max[0], min[1], min[2]},
		{min[0], max[1], min[2]}, {max[0], max[1], min[2]},
		{min[0], min[1], max[2]}, {max[0], min[1], max[2]},
		{min[0], max[1], max[2]}, {max[0], max[1], max[2]},
	}
	wmin := m.MulPoint(corners[0])
	wmax := wmin
	for _, c := range corners[1:] {
		p := m.MulPoint(c)
		wmin = types.MinVec3(wmin, p)
		wmax = types.MaxVec3(wmax, p)
	}
	return wmin, wmax
}

func maxAxisScale(m types.Mat4) float32 {
	sx := types.Vec3{m[0], m[4], m[8]}.Len()
	sy := types.Vec3{m[1], m[5], m[9]}.Len()
	sz := types.Vec3{m[2], m[6], m[10]}.Len()
	return math32.Max(sx, math32.Max(sy, sz))
}

// --- lights ---

func (b *Builder) AddPointLight(position, intensity types.Vec3) KindOffset {
	return b.appendLight(LightPoint,
		position[0], position[1], position[2],
		intensity[0], intensity[1], intensity[2])
}

// AddDirectionalLight registers a delta light shining along direction.
func (b *Builder) AddDirectionalLight(direction, radiance types.Vec3) KindOffset {
	d := direction.Normalize()
	return b.appendLight(LightDirectional,
		d[0], d[1], d[2],
		radiance[0], radiance[1], radiance[2])
}

// AddAreaLight turns an existing primitive into an emitter. The light record
// links back to the primitive; the primitive links forward to the light so
// the estimator can match shadow-ray hits against the sampled light.
func (b *Builder) AddAreaLight(primitiveIndex int, radiance types.Vec3, twoSided bool) KindOffset {
	sided := float32(0)
	if twoSided {
		sided = 1
	}
	ref := b.appendLight(LightArea,
		radiance[0], radiance[1], radiance[2], sided, float32(primitiveIndex))
	b.sc.Primitives[primitiveIndex].AreaLight = ref
	return ref
}

func (b *Builder) AddEnvironmentLight(width, height int, texels []float32, scale types.Vec3, angle float32) KindOffset {
	texelOffset := b.appendTexels(texels)
	return b.appendLight(LightEnvironment,
		float32(width), float32(height), float32(texelOffset),
		scale[0], scale[1], scale[2], angle)
}

// --- camera ---

// LookAtCamera derives the camera basis from eye/target/up, with an optional
// roll around the viewing axis.
func (b *Builder) LookAtCamera(eye, target, up types.Vec3, fovY, roll float32, lens LensKind,
	apertureRadius, focalDistance float32, frameW, frameH uint32) {

	w := target.Sub(eye).Normalize()
	u := w.Cross(up).Normalize()
	v := u.Cross(w)

	if roll != 0 {
		q := types.QuatFromAxisAngle(w, roll).Normalize()
		u = q.Rotate(u)
		v = q.Rotate(v)
	}

	aspect := float32(frameW) / float32(frameH)
	fovX := 2 * math32.Atan(math32.Tan(fovY*0.5)*aspect)

	b.sc.Camera = Camera{
		Eye:            eye,
		U:              u,
		V:              v,
		W:              w,
		FovX:           fovX,
		FovY:           fovY,
		ApertureRadius: apertureRadius,
		FocalDistance:  focalDistance,
		Lens:           lens,
		FrameW:         frameW,
		FrameH:         frameH,
	}
}

// Build finalizes the compiled scene. The builder must not be touched again;
// the returned scene is immutable for its generation.
func (b *Builder) Build() *Scene {
	sc := b.sc
	b.sc = Scene{}
	return &sc
}
