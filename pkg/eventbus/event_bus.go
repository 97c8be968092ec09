package eventbus

import (
	"reflect"

	"github.com/sirupsen/logrus"
)

// EventBus delivers published events to every subscribed handler whose
// function signature matches the published arguments. Dispatch is
// synchronous; a panicking handler is logged and does not stop delivery
// to the remaining handlers.
type EventBus interface {
	Publish(args ...interface{})
	Subscribe(handler interface{})
	Unsubscribe(handler interface{})
	Clear()
	SubscribersCount() int
}

func NewEventPublisher(log *logrus.Logger) EventBus {
	return &publisher{log: log}
}

type publisher struct {
	log      *logrus.Logger
	handlers []reflect.Value
}

func (p *publisher) Publish(args ...interface{}) {
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		in[i] = reflect.ValueOf(arg)
	}

	handled := false
	for _, h := range p.handlers {
		if !accepts(h.Type(), args) {
			continue
		}
		handled = true
		p.invoke(h, in)
	}

	if !handled && p.log != nil {
		p.log.Warnf("eventbus.Publish: no matching subscribers for event with args: %v", in)
	}
}

func (p *publisher) invoke(h reflect.Value, in []reflect.Value) {
	defer func() {
		if r := recover(); r != nil && p.log != nil {
			p.log.Errorf("eventbus: handler %s panicked: %v", h.Type().String(), r)
		}
	}()
	h.Call(in)
}

// accepts reports whether a handler of type t can be called with args.
func accepts(t reflect.Type, args []interface{}) bool {
	if t.NumIn() != len(args) {
		return false
	}
	for i, arg := range args {
		param := t.In(i)
		if arg == nil {
			if param.Kind() != reflect.Interface && param.Kind() != reflect.Ptr {
				return false
			}
			continue
		}
		at := reflect.TypeOf(arg)
		if param.Kind() == reflect.Interface {
			if !at.Implements(param) {
				return false
			}
			continue
		}
		if !at.AssignableTo(param) {
			return false
		}
	}
	return true
}

func (p *publisher) Subscribe(handler interface{}) {
	v := reflect.ValueOf(handler)
	if v.Kind() != reflect.Func {
		panic("eventbus: handler must be a function")
	}
	p.handlers = append(p.handlers, v)
}

func (p *publisher) Unsubscribe(handler interface{}) {
	ptr := reflect.ValueOf(handler).Pointer()
	for i, h := range p.handlers {
		if h.Pointer() == ptr {
			p.handlers = append(p.handlers[:i], p.handlers[i+1:]...)
			return
		}
	}
}

func (p *publisher) Clear() {
	p.handlers = nil
}

func (p *publisher) SubscribersCount() int {
	return len(p.handlers)
}
