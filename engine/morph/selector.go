package morph

import "sync"

// Selector observes an externally driven selected-index value and forwards only actual changes
// to a Controller. It is the boundary that keeps unchanged values from re-arming transitions.
type Selector struct {
	mu      *sync.Mutex
	c       Controller
	current int
}

// NewSelector creates a Selector that has not observed any value yet.
//
// Parameters:
//   - c: the controller to forward changes to
//
// Returns:
//   - *Selector: the selector
func NewSelector(c Controller) *Selector {
	return &Selector{
		mu:      &sync.Mutex{},
		c:       c,
		current: NoModel,
	}
}

// Set observes a new selected value.
//
// Parameters:
//   - index: the selected model
//
// Returns:
//   - bool: true if the value changed and was forwarded
//   - error: the controller's error for an invalid index; the observed value is unchanged in that case
func (s *Selector) Set(index int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index == s.current {
		return false, nil
	}
	if err := s.c.OnSelectionChanged(index); err != nil {
		return false, err
	}
	s.current = index
	return true, nil
}

// Next selects the model after the current one, wrapping to the first.
// Before any selection it selects model 0.
//
// Returns:
//   - error: any error from the controller
func (s *Selector) Next() error {
	_, err := s.Set(s.step(1))
	return err
}

// Prev selects the model before the current one, wrapping to the last.
// Before any selection it selects the last model.
//
// Returns:
//   - error: any error from the controller
func (s *Selector) Prev() error {
	_, err := s.Set(s.step(-1))
	return err
}

// Current returns the last forwarded value, or NoModel.
//
// Returns:
//   - int: the current selection
func (s *Selector) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Selector) step(dir int) int {
	n := s.c.ModelCount()
	s.mu.Lock()
	cur := s.current
	s.mu.Unlock()
	if cur == NoModel {
		if dir > 0 {
			return 0
		}
		return n - 1
	}
	return ((cur+dir)%n + n) % n
}
