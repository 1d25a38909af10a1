package state

import "sync"

// Factory builds the State on first use, so commands that manage the
// config itself can run before any notebook exists.
type Factory struct {
	override func() string

	once  sync.Once
	state *State
	err   error
}

func NewFactory(override func() string) *Factory {
	return &Factory{override: override}
}

func (f *Factory) Get() (*State, error) {
	f.once.Do(func() {
		name := ""
		if f.override != nil {
			name = f.override()
		}
		f.state, f.err = NewState(name)
	})
	return f.state, f.err
}

// Close releases the state if it was built.
func (f *Factory) Close() error {
	if f.state == nil {
		return nil
	}
	return f.state.Close()
}

// FactoryFor wraps an existing State.
func FactoryFor(s *State) *Factory {
	f := &Factory{state: s}
	f.once.Do(func() {})
	return f
}
