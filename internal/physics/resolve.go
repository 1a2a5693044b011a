package physics

import "github.com/go-gl/mathgl/mgl64"

// DefaultPushFactor doubles the penetration depth on positional correction.
// A factor of 1 gives the minimum translation.
const DefaultPushFactor = 2.0

// Reflect mirrors v about the plane with unit normal n: v - 2*dot(v, n)*n.
func Reflect(v, n mgl64.Vec2) mgl64.Vec2 {
	return v.Add(n.Mul(2 * v.Dot(n.Mul(-1))))
}

// ResolveSolid applies a solid contact to a moving body at pos: the position
// is pushed out along the contact normal by pushFactor*Depth and the
// velocity is reflected about the normal.
func ResolveSolid(pos *mgl64.Vec2, body *Body, c Contact, pushFactor float64) {
	*pos = pos.Add(c.Normal.Mul(pushFactor * c.Depth))
	body.Velocity = Reflect(body.Velocity, c.Normal)
}
