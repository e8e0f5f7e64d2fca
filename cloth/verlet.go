package cloth

// integrate performs a single position Verlet step under gravity. Kinematic
// particles are integrated like every other particle; the solver overwrites
// them.
func (c *Cloth) integrate(dt float32) {
	acc := c.params.Gravity.Mul(dt * dt)
	for i := range c.Pos {
		pos := c.Pos[i]
		c.Pos[i] = pos.Add(pos.Sub(c.PrevPos[i])).Add(acc)
		c.PrevPos[i] = pos
	}
}
