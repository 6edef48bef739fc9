package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

// GenerateTangents computes per-vertex tangents for the primitive from its
// positions and UVs, accumulating the per-triangle tangent/bitangent frame
// and Gram-Schmidt orthogonalizing against the normal. Handedness lands in
// the tangent's w component. Exporters vary in whether they emit tangents,
// so imports without them run through this.
func (p *Primitive) GenerateTangents() {
	tan := make([]mgl32.Vec3, len(p.Vertices))
	bitan := make([]mgl32.Vec3, len(p.Vertices))

	for i := 0; i+2 < len(p.Indices); i += 3 {
		i0, i1, i2 := p.Indices[i], p.Indices[i+1], p.Indices[i+2]
		v0, v1, v2 := &p.Vertices[i0], &p.Vertices[i1], &p.Vertices[i2]

		e1 := v1.Position.Sub(v0.Position)
		e2 := v2.Position.Sub(v0.Position)
		du1 := v1.TexCoord.Sub(v0.TexCoord)
		du2 := v2.TexCoord.Sub(v0.TexCoord)

		det := du1.X()*du2.Y() - du2.X()*du1.Y()
		if det == 0 {
			continue
		}
		r := 1.0 / det

		t := e1.Mul(du2.Y()).Sub(e2.Mul(du1.Y())).Mul(r)
		b := e2.Mul(du1.X()).Sub(e1.Mul(du2.X())).Mul(r)

		for _, idx := range []uint32{i0, i1, i2} {
			tan[idx] = tan[idx].Add(t)
			bitan[idx] = bitan[idx].Add(b)
		}
	}

	for i := range p.Vertices {
		v := &p.Vertices[i]
		n := v.Normal
		t := tan[i]

		// Gram-Schmidt orthogonalize.
		t = t.Sub(n.Mul(n.Dot(t)))
		if t.LenSqr() == 0 {
			v.Tangent = mgl32.Vec4{1, 0, 0, 1}
			continue
		}
		t = t.Normalize()

		w := float32(1)
		if n.Cross(t).Dot(bitan[i]) < 0 {
			w = -1
		}
		v.Tangent = mgl32.Vec4{t.X(), t.Y(), t.Z(), w}
	}
}
