package motor

import (
	"sync"

	"github.com/robotalks/mcv4b/pkg/l0/internal/trace"
)

// State is the output state of one channel.
type State struct {
	Enabled   bool
	Direction Direction
	Speed     uint8
}

// Sim is an in-memory Driver keeping the state of each channel.
type Sim struct {
	states [Channels]State
	lock   sync.RWMutex
}

// State returns the current state of a channel, zero for an invalid
// channel.
func (s *Sim) State(ch Channel) State {
	if !ch.IsValid() {
		return State{}
	}
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.states[ch]
}

// Enable implements Driver.
func (s *Sim) Enable(ch Channel) {
	s.update(ch, func(st *State) { st.Enabled = true })
}

// Disable implements Driver.
func (s *Sim) Disable(ch Channel) {
	s.update(ch, func(st *State) { st.Enabled = false })
}

// SetDirection implements Driver.
func (s *Sim) SetDirection(ch Channel, dir Direction) {
	s.update(ch, func(st *State) { st.Direction = dir })
}

// SetSpeed implements Driver.
func (s *Sim) SetSpeed(ch Channel, speed uint8) {
	s.update(ch, func(st *State) { st.Speed = speed })
}

func (s *Sim) update(ch Channel, fn func(*State)) {
	if !ch.IsValid() {
		return
	}
	s.lock.Lock()
	fn(&s.states[ch])
	s.lock.Unlock()
}

// Logged wraps a Driver and traces every call.
type Logged struct {
	Driver Driver
}

// Enable implements Driver.
func (l *Logged) Enable(ch Channel) {
	trace.V(2).Infof("motor[%d] enable", ch)
	l.Driver.Enable(ch)
}

// Disable implements Driver.
func (l *Logged) Disable(ch Channel) {
	trace.V(2).Infof("motor[%d] disable", ch)
	l.Driver.Disable(ch)
}

// SetDirection implements Driver.
func (l *Logged) SetDirection(ch Channel, dir Direction) {
	trace.V(2).Infof("motor[%d] direction %s", ch, dir)
	l.Driver.SetDirection(ch, dir)
}

// SetSpeed implements Driver.
func (l *Logged) SetSpeed(ch Channel, speed uint8) {
	trace.V(2).Infof("motor[%d] speed %d", ch, speed)
	l.Driver.SetSpeed(ch, speed)
}
