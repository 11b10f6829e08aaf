// Copyright 2024 G-Core Innovations SARL

package fastedge

// Method is the wire tag of an HTTP method in the structured boundary style.
// The set is closed: the host rejects anything it cannot tag.
type Method uint32

const (
	MethodGet Method = iota
	MethodPost
	MethodPut
	MethodDelete
	MethodHead
	MethodPatch
	MethodOptions
)

// String implements fmt.Stringer.
func (m Method) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodPost:
		return "POST"
	case MethodPut:
		return "PUT"
	case MethodDelete:
		return "DELETE"
	case MethodHead:
		return "HEAD"
	case MethodPatch:
		return "PATCH"
	case MethodOptions:
		return "OPTIONS"
	default:
		return "UNKNOWN"
	}
}

// ParseMethod maps an HTTP method name onto its wire tag. The second return
// is false for any method outside the supported set.
func ParseMethod(s string) (Method, bool) {
	switch s {
	case "GET":
		return MethodGet, true
	case "POST":
		return MethodPost, true
	case "PUT":
		return MethodPut, true
	case "DELETE":
		return MethodDelete, true
	case "HEAD":
		return MethodHead, true
	case "PATCH":
		return MethodPatch, true
	case "OPTIONS":
		return MethodOptions, true
	default:
		return 0, false
	}
}

// HeaderPair is one name/value element of a wire header list. Duplicate names
// are legal and order is significant.
type HeaderPair struct {
	Name  string
	Value string
}

// RequestRecord is the flat request shape of the structured boundary style.
// Headers are always present (possibly empty). A nil Body means the wire body
// option was absent; a non-nil empty Body means it was present and empty.
type RequestRecord struct {
	Method  Method
	URI     string
	Headers []HeaderPair
	Body    []byte
}

// ResponseRecord is the flat response shape of the structured boundary style.
// A nil Headers slice means the wire header option is absent, which tells the
// host to set no headers at all; a non-nil empty slice is "present but
// empty". Body follows the same nil convention.
type ResponseRecord struct {
	Status  uint32
	Headers []HeaderPair
	Body    []byte
}

// Linear-memory layout of the structured style, little-endian u32 fields
// throughout:
//
//	process import side (host -> guest), flattened arguments:
//	  (method u32,
//	   uri_ptr u32, uri_len u32,
//	   headers_ptr u32, headers_len u32,   ;; len counts pairs
//	   body_tag u32, body_ptr u32, body_len u32) -> response_ptr u32
//
//	header list payload: headers_len cells of 16 bytes each:
//	  +0 name_ptr, +4 name_len, +8 value_ptr, +12 value_len
//
//	response record (28 bytes at response_ptr):
//	  +0 status, +4 headers_tag, +8 headers_ptr, +12 headers_len,
//	  +16 body_tag, +20 body_ptr, +24 body_len
//
//	send-request result area (32 bytes, written by the host):
//	  +0 result_tag (0 ok, 1 err)
//	  ok:  response record at +4
//	  err: error code u32 at +4
//
// Option tags are 0 (absent) or 1 (present). Every pointer written by the
// host refers to memory obtained from the guest's exported allocator. The
// constants are exported so host-side implementations of this boundary stay
// in lockstep with the guest.
const (
	HeaderCellSize = 16

	RespRecordSize = 28
	RespStatusOff  = 0
	RespHdrTagOff  = 4
	RespHdrPtrOff  = 8
	RespHdrLenOff  = 12
	RespBodyTagOff = 16
	RespBodyPtrOff = 20
	RespBodyLenOff = 24

	SendResultSize       = 32
	SendResultTagOff     = 0
	SendResultPayloadOff = 4
)
