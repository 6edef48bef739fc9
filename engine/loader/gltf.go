package loader

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/qmuntal/gltf"

	"github.com/paavohuhtala/demogine/common"
	"github.com/paavohuhtala/demogine/engine/model"
)

// convertDocument translates a parsed glTF document into the engine model
// representation: one model.Mesh per glTF mesh, one node tree per scene root.
func (l *loader) convertDocument(name string, doc *gltf.Document) (*model.Model, error) {
	meshes := make([]*model.Mesh, len(doc.Meshes))
	for i, gm := range doc.Meshes {
		mesh := &model.Mesh{
			ID:   uuid.New(),
			Name: gm.Name,
		}
		for j, prim := range gm.Primitives {
			p, err := l.convertPrimitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("loader: mesh %q primitive %d: %w", gm.Name, j, err)
			}
			mesh.Primitives = append(mesh.Primitives, p)
		}
		meshes[i] = mesh
	}

	roots := make([]*model.Node, 0, 4)
	for _, nodeIndex := range rootNodes(doc) {
		node, err := convertNode(doc, int(nodeIndex), meshes)
		if err != nil {
			return nil, err
		}
		roots = append(roots, node)
	}

	animations, err := convertAnimations(doc)
	if err != nil {
		return nil, err
	}

	return &model.Model{
		ID:         uuid.New(),
		Name:       name,
		Roots:      roots,
		Meshes:     meshes,
		Animations: animations,
	}, nil
}

// rootNodes returns the node indices to spawn from: the default scene's
// nodes when one exists, otherwise every node no other node parents.
func rootNodes(doc *gltf.Document) []int {
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		return sceneNodes(doc.Scenes[*doc.Scene])
	}
	if len(doc.Scenes) > 0 {
		return sceneNodes(doc.Scenes[0])
	}

	childSet := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			childSet[int(c)] = true
		}
	}
	roots := make([]int, 0, len(doc.Nodes))
	for i := range doc.Nodes {
		if !childSet[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// sceneNodes copies a scene's root node indices.
func sceneNodes(s *gltf.Scene) []int {
	out := make([]int, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		out = append(out, int(n))
	}
	return out
}

// convertNode recursively converts a glTF node and its children.
func convertNode(doc *gltf.Document, index int, meshes []*model.Mesh) (*model.Node, error) {
	if index < 0 || index >= len(doc.Nodes) {
		return nil, fmt.Errorf("loader: node index %d out of range", index)
	}
	gn := doc.Nodes[index]

	node := &model.Node{Name: gn.Name}
	node.Translation, node.Rotation, node.Scale = nodeTRS(gn)

	if gn.Mesh != nil {
		if int(*gn.Mesh) >= len(meshes) {
			return nil, fmt.Errorf("loader: node %q references mesh %d out of range", gn.Name, *gn.Mesh)
		}
		node.Mesh = meshes[*gn.Mesh]
	}

	for _, childIndex := range gn.Children {
		child, err := convertNode(doc, int(childIndex), meshes)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// nodeTRS extracts the local transform of a glTF node. Nodes carrying an
// explicit matrix are decomposed; non-uniform scale collapses to the X axis
// factor since the scene graph carries uniform scale only.
func nodeTRS(gn *gltf.Node) (mgl32.Vec3, mgl32.Quat, float32) {
	if m, ok := nonTrivialMatrix(gn.Matrix); ok {
		return decomposeTRS(m)
	}

	translation := mgl32.Vec3{
		float32(gn.Translation[0]),
		float32(gn.Translation[1]),
		float32(gn.Translation[2]),
	}

	// glTF stores rotation as XYZW; a zero quaternion means the field was
	// absent from a hand-built document, so fall back to identity.
	rotation := mgl32.Quat{
		W: float32(gn.Rotation[3]),
		V: mgl32.Vec3{
			float32(gn.Rotation[0]),
			float32(gn.Rotation[1]),
			float32(gn.Rotation[2]),
		},
	}
	if rotation.W == 0 && rotation.V.Len() == 0 {
		rotation = mgl32.QuatIdent()
	}

	scale := float32(gn.Scale[0])
	if gn.Scale[0] == 0 && gn.Scale[1] == 0 && gn.Scale[2] == 0 {
		scale = 1
	}

	return translation, rotation, scale
}

// nonTrivialMatrix reports whether a node matrix is set to something other
// than zero (absent) or identity, converting it to mgl32 form when it is.
func nonTrivialMatrix(m [16]float64) (mgl32.Mat4, bool) {
	zero, identity := true, true
	for i, v := range m {
		if v != 0 {
			zero = false
		}
		expected := 0.0
		if i%5 == 0 {
			expected = 1.0
		}
		if v != expected {
			identity = false
		}
	}
	if zero || identity {
		return mgl32.Mat4{}, false
	}

	var out mgl32.Mat4
	for i, v := range m {
		out[i] = float32(v)
	}
	return out, true
}

// decomposeTRS splits a column-major transform matrix into translation,
// rotation, and a uniform scale taken from the X basis vector length.
func decomposeTRS(m mgl32.Mat4) (mgl32.Vec3, mgl32.Quat, float32) {
	translation := mgl32.Vec3{m[12], m[13], m[14]}

	scale := mgl32.Vec3{m[0], m[1], m[2]}.Len()
	if scale == 0 {
		scale = 1
	}

	rot := m
	inv := 1.0 / scale
	for col := range 3 {
		for row := range 3 {
			rot[col*4+row] *= inv
		}
	}
	rot[12], rot[13], rot[14] = 0, 0, 0

	return translation, mgl32.Mat4ToQuat(rot), scale
}

// convertPrimitive reads the vertex attributes and indices of one glTF
// primitive into engine form, computing local bounds from the positions.
func (l *loader) convertPrimitive(doc *gltf.Document, prim *gltf.Primitive) (*model.Primitive, error) {
	posIndex, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("primitive has no POSITION attribute")
	}
	positions, err := readFloatAttribute(doc, int(posIndex), 3)
	if err != nil {
		return nil, fmt.Errorf("POSITION: %w", err)
	}
	vertexCount := len(positions) / 3
	if vertexCount == 0 {
		return nil, fmt.Errorf("primitive has no vertices")
	}

	vertices := make([]model.Vertex, vertexCount)
	bounds := common.AABB{
		Min: mgl32.Vec3{positions[0], positions[1], positions[2]},
		Max: mgl32.Vec3{positions[0], positions[1], positions[2]},
	}
	for i := range vertexCount {
		p := mgl32.Vec3{positions[i*3], positions[i*3+1], positions[i*3+2]}
		vertices[i].Position = p
		vertices[i].Tangent = mgl32.Vec4{1, 0, 0, 1}
		bounds = bounds.Union(common.AABB{Min: p, Max: p})
	}

	if normalIndex, ok := prim.Attributes["NORMAL"]; ok {
		normals, err := readFloatAttribute(doc, int(normalIndex), 3)
		if err != nil {
			return nil, fmt.Errorf("NORMAL: %w", err)
		}
		for i := range min(vertexCount, len(normals)/3) {
			vertices[i].Normal = mgl32.Vec3{normals[i*3], normals[i*3+1], normals[i*3+2]}
		}
	}

	if uvIndex, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, err := readFloatAttribute(doc, int(uvIndex), 2)
		if err != nil {
			return nil, fmt.Errorf("TEXCOORD_0: %w", err)
		}
		for i := range min(vertexCount, len(uvs)/2) {
			vertices[i].TexCoord = mgl32.Vec2{uvs[i*2], uvs[i*2+1]}
		}
	}

	hasTangents := false
	if tangentIndex, ok := prim.Attributes["TANGENT"]; ok {
		tangents, err := readFloatAttribute(doc, int(tangentIndex), 4)
		if err != nil {
			return nil, fmt.Errorf("TANGENT: %w", err)
		}
		for i := range min(vertexCount, len(tangents)/4) {
			vertices[i].Tangent = mgl32.Vec4{tangents[i*4], tangents[i*4+1], tangents[i*4+2], tangents[i*4+3]}
		}
		hasTangents = true
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = readIndices(doc, int(*prim.Indices))
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, vertexCount)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	materialIndex := uint32(0)
	if prim.Material != nil {
		materialIndex = uint32(*prim.Material)
	}

	p := &model.Primitive{
		Vertices:      vertices,
		Indices:       indices,
		Bounds:        bounds,
		MaterialIndex: materialIndex,
	}
	if !hasTangents && l.generateTangents {
		p.GenerateTangents()
	}
	return p, nil
}

// readFloatAttribute reads a float32 vector accessor with the given
// component count, honoring interleaved buffer view strides.
func readFloatAttribute(doc *gltf.Document, accessorIndex, components int) ([]float32, error) {
	accessor, data, stride, err := accessorData(doc, accessorIndex)
	if err != nil {
		return nil, err
	}
	if accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("accessor %d: expected float components, got %v", accessorIndex, accessor.ComponentType)
	}
	if stride == 0 {
		stride = components * 4
	}

	count := int(accessor.Count)
	if need := (count-1)*stride + components*4; count > 0 && need > len(data) {
		return nil, fmt.Errorf("accessor %d: buffer view too short (%d bytes, need %d)", accessorIndex, len(data), need)
	}

	out := make([]float32, 0, count*components)
	for i := range count {
		base := i * stride
		for c := range components {
			bits := binary.LittleEndian.Uint32(data[base+c*4:])
			out = append(out, math.Float32frombits(bits))
		}
	}
	return out, nil
}

// readIndices reads an index accessor, widening ubyte and ushort indices
// to uint32.
func readIndices(doc *gltf.Document, accessorIndex int) ([]uint32, error) {
	accessor, data, stride, err := accessorData(doc, accessorIndex)
	if err != nil {
		return nil, err
	}

	count := int(accessor.Count)
	out := make([]uint32, 0, count)
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		if stride == 0 {
			stride = 1
		}
		for i := range count {
			out = append(out, uint32(data[i*stride]))
		}
	case gltf.ComponentUshort:
		if stride == 0 {
			stride = 2
		}
		for i := range count {
			out = append(out, uint32(binary.LittleEndian.Uint16(data[i*stride:])))
		}
	case gltf.ComponentUint:
		if stride == 0 {
			stride = 4
		}
		for i := range count {
			out = append(out, binary.LittleEndian.Uint32(data[i*stride:]))
		}
	default:
		return nil, fmt.Errorf("accessor %d: unsupported index component type %v", accessorIndex, accessor.ComponentType)
	}
	return out, nil
}

// accessorData resolves an accessor to the byte slice it reads from,
// starting at the accessor's own offset, plus the buffer view stride.
func accessorData(doc *gltf.Document, accessorIndex int) (*gltf.Accessor, []byte, int, error) {
	if accessorIndex < 0 || accessorIndex >= len(doc.Accessors) {
		return nil, nil, 0, fmt.Errorf("accessor index %d out of range", accessorIndex)
	}
	accessor := doc.Accessors[accessorIndex]
	if accessor.BufferView == nil {
		return nil, nil, 0, fmt.Errorf("accessor %d has no buffer view", accessorIndex)
	}
	if int(*accessor.BufferView) >= len(doc.BufferViews) {
		return nil, nil, 0, fmt.Errorf("accessor %d references buffer view out of range", accessorIndex)
	}
	view := doc.BufferViews[*accessor.BufferView]
	if int(view.Buffer) >= len(doc.Buffers) {
		return nil, nil, 0, fmt.Errorf("buffer view references buffer %d out of range", view.Buffer)
	}
	buffer := doc.Buffers[view.Buffer]

	start := int(view.ByteOffset) + int(accessor.ByteOffset)
	end := int(view.ByteOffset) + int(view.ByteLength)
	if start > len(buffer.Data) || end > len(buffer.Data) || start > end {
		return nil, nil, 0, fmt.Errorf("accessor %d: buffer view range [%d:%d] exceeds buffer (%d bytes)", accessorIndex, start, end, len(buffer.Data))
	}

	return accessor, buffer.Data[start:end], int(view.ByteStride), nil
}
