package experiment

import "errors"

// Sink receives frames in index order.
type Sink interface {
	Consume(f *Frame) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(f *Frame) error

func (fn SinkFunc) Consume(f *Frame) error { return fn(f) }

type tee []Sink

// Tee forwards every frame to each sink in turn and joins their errors.
func Tee(sinks ...Sink) Sink {
	return tee(sinks)
}

func (t tee) Consume(f *Frame) error {
	var errs []error
	for _, s := range t {
		if err := s.Consume(f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Collector keeps every frame it receives.
type Collector struct {
	Frames []*Frame
}

func (c *Collector) Consume(f *Frame) error {
	c.Frames = append(c.Frames, f)
	return nil
}
