package interfaces

import (
	"net/http"
)

// ApplicationContext carries a parsed request body and request-scoped
// metadata from the router layer into controllers, independent of the
// underlying HTTP framework.
type ApplicationContext[T any] struct {
	Ctx      interface{}
	Body     *T
	Keys     map[string]any
	Header   http.Header
	DeviceID string
}

func (ac *ApplicationContext[T]) GetHeader(key string) *string {
	value := ac.Header.Get(key)
	if value == "" {
		return nil
	}
	return &value
}

func (ac *ApplicationContext[T]) GetContextData(key string) any {
	if ac.Keys == nil {
		return nil
	}
	return ac.Keys[key]
}

func (ac *ApplicationContext[T]) SetContextData(key string, value any) {
	if ac.Keys == nil {
		ac.Keys = map[string]any{}
	}
	ac.Keys[key] = value
}
