package adversary

// spring is a damped oscillator driving the vertical bounce offset of an adversary.
type spring struct {
	offset   float64
	velocity float64
}

// step integrates the spring for dt seconds.
func (s *spring) step(dt, tension, damping float64) {
	acc := -tension*s.offset - damping*s.velocity
	s.velocity += acc * dt
	s.offset += s.velocity * dt
}

// kick sets the velocity of the spring.
func (s *spring) kick(v float64) {
	s.velocity = v
}
