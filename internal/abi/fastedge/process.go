// Copyright 2024 G-Core Innovations SARL

package fastedge

// processFn is the single registered request handler behind the exported
// process function. The host invokes an instance at most once, so there is no
// registry of handlers, only this slot.
var processFn func(RequestRecord) ResponseRecord

// RegisterProcess installs fn as the body of the exported process function.
// Later registrations replace earlier ones; package fehttp owns this slot.
func RegisterProcess(fn func(RequestRecord) ResponseRecord) {
	processFn = fn
}

// InvokeProcess runs the registered handler against req. It backs the guest
// process export and lets native test hosts drive the same pipeline.
func InvokeProcess(req RequestRecord) ResponseRecord {
	if processFn == nil {
		return ResponseRecord{
			Status:  500,
			Headers: []HeaderPair{},
			Body:    []byte("no request handler"),
		}
	}
	return processFn(req)
}
