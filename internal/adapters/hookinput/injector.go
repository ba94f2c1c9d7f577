package hookinput

import "github.com/go-vgo/robotgo"

// Injector emits left-button events through robotgo.
type Injector struct{}

func NewInjector() *Injector { return &Injector{} }

func (*Injector) Press() error   { return robotgo.Toggle("left", "down") }
func (*Injector) Release() error { return robotgo.Toggle("left", "up") }
func (*Injector) Close() error   { return nil }
