// Package object implements Shell++'s value model (§4.1), built-in type
// registry (§4.3), and operator/protocol dispatch for declared-class
// instances (§4.5). These three concerns share one package rather than
// three because Value.Type() must return a *TypeDescriptor and a
// TypeDescriptor's attribute table must be able to hold object.Value —
// splitting them across packages the way §4 numbers them creates an
// unavoidable import cycle. The logical split survives as separate files.
package object

// Kind is the fixed set of value variants from spec.md §3.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindReal
	KindString
	KindArray
	KindTuple
	KindMap
	KindCmd
	KindCmdIter
	KindArrayIter
	KindFunc
	KindWrapperFunc
	KindType
	KindDeclType
	KindDeclInstance
	KindIface
	KindModule
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindReal:
		return "real"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	case KindMap:
		return "map"
	case KindCmd:
		return "cmdobj"
	case KindCmdIter:
		return "cmd_iter"
	case KindArrayIter:
		return "array_iter"
	case KindFunc:
		return "func"
	case KindWrapperFunc:
		return "wrapper_func"
	case KindType:
		return "type"
	case KindDeclType:
		return "decl_type"
	case KindDeclInstance:
		return "decl_instance"
	case KindIface:
		return "iface"
	case KindModule:
		return "module"
	default:
		return "unknown"
	}
}
